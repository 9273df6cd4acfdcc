// Package ledger holds the pure domain math for debts: payment
// application, edit merging, and the aggregates the dashboard renders.
// Nothing here touches storage.
package ledger

import (
	"fmt"

	"github.com/tuanvm/smartdebt/internal/models"
)

// ApplyPayment returns a copy of debt with the payment appended and the
// remaining amount reduced. The recorded amount is capped at the
// outstanding balance, so cumulative payments never exceed the original
// amount. The status flips to PAID when nothing remains; it never reopens
// a PAID debt and never sets OVERDUE.
func ApplyPayment(debt models.Debt, payment models.Payment) (models.Debt, error) {
	if payment.Amount <= 0 {
		return debt, fmt.Errorf("payment amount must be positive, got %v", payment.Amount)
	}
	if debt.RemainingAmount <= 0 {
		return debt, fmt.Errorf("debt is already settled")
	}

	if payment.Amount > debt.RemainingAmount {
		payment.Amount = debt.RemainingAmount
	}
	remaining := debt.RemainingAmount - payment.Amount

	status := debt.Status
	if remaining <= 0 {
		status = models.StatusPaid
	}

	payments := make([]models.Payment, len(debt.Payments), len(debt.Payments)+1)
	copy(payments, debt.Payments)
	payments = append(payments, payment)

	debt.RemainingAmount = remaining
	debt.Status = status
	debt.Payments = payments
	return debt, nil
}

// MergeEdit combines a submitted debt with the record it edits.
//
// For an edit (existing != nil) every field is taken from the submission
// except the id, the remaining amount, and the payment history, which are
// carried over untouched: an edit never resets progress already made. A
// blank submitted status keeps the record's current status.
// For a new debt (existing == nil) the remaining amount is initialized to
// the full amount, the payment history starts empty, and the status
// defaults to ACTIVE when the submission left it blank.
func MergeEdit(existing *models.Debt, submitted models.Debt) models.Debt {
	if existing == nil {
		submitted.RemainingAmount = submitted.Amount
		submitted.Payments = []models.Payment{}
		if submitted.Status == "" {
			submitted.Status = models.StatusActive
		}
		return submitted
	}

	submitted.ID = existing.ID
	submitted.RemainingAmount = existing.RemainingAmount
	submitted.Payments = existing.Payments
	if submitted.Status == "" {
		submitted.Status = existing.Status
	}
	return submitted
}
