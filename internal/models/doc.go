// Package models defines the core domain models for SmartDebt.
//
// # Models
//
// The following models are actively used:
//   - Debt: one tracked obligation, either money the user owes (BORROWED)
//     or money owed to the user (LENT)
//   - Payment: an immutable, append-only settlement record embedded in its
//     parent Debt
//   - DashboardStats / CounterpartyBalance: derived aggregates, computed
//     fresh from the in-memory collection and never persisted
//
// # Design Principles
//
// 1. **Single entity**: the whole application is CRUD over Debt; payments
// live inside their parent debt and are never referenced from elsewhere
//
// 2. **Dual storage**: every field carries both a `json` tag (REST API and
// the local backup blob) and a `firestore` tag (cloud documents). The Debt
// id is the Firestore document id, so it is excluded from document fields
//
// 3. **String dates**: dates are ISO YYYY-MM-DD strings end to end, matching
// the documents already written by the web client; lexical comparison is
// correct for this format
//
// # Known Incompleteness
//
// StatusOverdue is defined in the model but nothing transitions a debt into
// it automatically; it can only be set through an edit.
package models
