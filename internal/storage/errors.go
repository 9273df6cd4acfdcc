package storage

import (
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrorKind classifies a cloud provider failure for the user-facing
// connection banner. Classification never changes the fallback behavior,
// only the displayed message.
type ErrorKind int

const (
	// KindConnectivity is the catch-all: the remote is unreachable.
	KindConnectivity ErrorKind = iota

	// KindPermissionDenied means the remote rejected the caller's
	// credentials or security rules.
	KindPermissionDenied

	// KindAPIDisabled means the Firestore API has never been enabled for
	// the configured project.
	KindAPIDisabled
)

// Classify maps a subscription or read error to its kind.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindConnectivity
	}
	if status.Code(err) == codes.PermissionDenied || strings.Contains(err.Error(), "insufficient permissions") {
		return KindPermissionDenied
	}
	if strings.Contains(err.Error(), "API has not been used") {
		return KindAPIDisabled
	}
	return KindConnectivity
}

// Message returns the user-facing text for the kind.
func (k ErrorKind) Message() string {
	switch k {
	case KindPermissionDenied:
		return "Permission error: enable Firestore Database and switch its rules to test mode in the Firebase console."
	case KindAPIDisabled:
		return "API error: the Cloud Firestore API has not been enabled for this project."
	default:
		return "Connection error: Cloud Firestore is unreachable. Check your internet connection."
	}
}
