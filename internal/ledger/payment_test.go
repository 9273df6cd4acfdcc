package ledger

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tuanvm/smartdebt/internal/models"
)

func TestApplyPayment(t *testing.T) {
	tests := []struct {
		name          string
		debt          models.Debt
		payment       models.Payment
		wantErr       bool
		wantRemaining float64
		wantStatus    models.DebtStatus
		wantPayments  int
	}{
		{
			name: "partial payment stays active",
			debt: models.Debt{
				Amount:          1000000,
				RemainingAmount: 1000000,
				Type:            models.DebtBorrowed,
				Status:          models.StatusActive,
			},
			payment:       models.Payment{ID: "p1", Amount: 400000, Date: "2024-02-01"},
			wantRemaining: 600000,
			wantStatus:    models.StatusActive,
			wantPayments:  1,
		},
		{
			name: "final payment flips to paid",
			debt: models.Debt{
				Amount:          1000000,
				RemainingAmount: 600000,
				Status:          models.StatusActive,
				Payments:        []models.Payment{{ID: "p1", Amount: 400000, Date: "2024-02-01"}},
			},
			payment:       models.Payment{ID: "p2", Amount: 600000, Date: "2024-03-01"},
			wantRemaining: 0,
			wantStatus:    models.StatusPaid,
			wantPayments:  2,
		},
		{
			name: "overpayment records only the outstanding balance",
			debt: models.Debt{
				Amount:          500,
				RemainingAmount: 200,
				Status:          models.StatusActive,
			},
			payment:       models.Payment{ID: "p1", Amount: 300, Date: "2024-01-15"},
			wantRemaining: 0,
			wantStatus:    models.StatusPaid,
			wantPayments:  1,
		},
		{
			name: "payment against settled debt rejected",
			debt: models.Debt{
				Amount:          500,
				RemainingAmount: 0,
				Status:          models.StatusPaid,
			},
			payment: models.Payment{ID: "p1", Amount: 100, Date: "2024-01-15"},
			wantErr: true,
		},
		{
			name: "payment against overdue debt keeps overdue while balance remains",
			debt: models.Debt{
				Amount:          1000,
				RemainingAmount: 800,
				Status:          models.StatusOverdue,
			},
			payment:       models.Payment{ID: "p1", Amount: 100, Date: "2024-01-15"},
			wantRemaining: 700,
			wantStatus:    models.StatusOverdue,
			wantPayments:  1,
		},
		{
			name: "zero amount rejected",
			debt: models.Debt{
				Amount:          1000,
				RemainingAmount: 1000,
				Status:          models.StatusActive,
			},
			payment: models.Payment{ID: "p1", Amount: 0, Date: "2024-01-15"},
			wantErr: true,
		},
		{
			name: "negative amount rejected",
			debt: models.Debt{
				Amount:          1000,
				RemainingAmount: 1000,
				Status:          models.StatusActive,
			},
			payment: models.Payment{ID: "p1", Amount: -50, Date: "2024-01-15"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ApplyPayment(tt.debt, tt.payment)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ApplyPayment() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got.RemainingAmount != tt.wantRemaining {
				t.Errorf("remaining = %v, want %v", got.RemainingAmount, tt.wantRemaining)
			}
			if got.Status != tt.wantStatus {
				t.Errorf("status = %v, want %v", got.Status, tt.wantStatus)
			}
			if len(got.Payments) != tt.wantPayments {
				t.Errorf("payments length = %d, want %d", len(got.Payments), tt.wantPayments)
			}
			if tt.wantPayments > 0 && got.Payments[len(got.Payments)-1].ID != tt.payment.ID {
				t.Errorf("last payment = %v, want appended payment %v", got.Payments[len(got.Payments)-1].ID, tt.payment.ID)
			}
		})
	}
}

func TestApplyPaymentCapsCumulativeAtOriginalAmount(t *testing.T) {
	debt := models.Debt{
		Amount:          500,
		RemainingAmount: 200,
		Status:          models.StatusActive,
		Payments:        []models.Payment{{ID: "p1", Amount: 300, Date: "2024-01-10"}},
	}

	got, err := ApplyPayment(debt, models.Payment{ID: "p2", Amount: 999, Date: "2024-02-01"})
	if err != nil {
		t.Fatalf("ApplyPayment failed: %v", err)
	}

	if last := got.Payments[len(got.Payments)-1]; last.Amount != 200 {
		t.Errorf("recorded amount = %v, want clamped to outstanding 200", last.Amount)
	}
	var paid float64
	for _, p := range got.Payments {
		paid += p.Amount
	}
	if paid != got.Amount {
		t.Errorf("sum of payments = %v, want original amount %v", paid, got.Amount)
	}
	if got.RemainingAmount != 0 {
		t.Errorf("remaining = %v, want 0", got.RemainingAmount)
	}
	if got.Status != models.StatusPaid {
		t.Errorf("status = %v, want PAID", got.Status)
	}
}

func TestApplyPaymentDoesNotMutateInput(t *testing.T) {
	original := models.Debt{
		Amount:          1000,
		RemainingAmount: 1000,
		Status:          models.StatusActive,
		Payments:        []models.Payment{{ID: "p0", Amount: 100, Date: "2024-01-01"}},
	}
	before := original

	if _, err := ApplyPayment(original, models.Payment{ID: "p1", Amount: 200, Date: "2024-02-01"}); err != nil {
		t.Fatalf("ApplyPayment failed: %v", err)
	}

	if diff := cmp.Diff(before, original); diff != "" {
		t.Errorf("input debt mutated (-want +got):\n%s", diff)
	}
}

func TestMergeEdit(t *testing.T) {
	due := "2024-06-01"

	t.Run("new debt initializes remaining and payments", func(t *testing.T) {
		got := MergeEdit(nil, models.Debt{
			Title:  "Motorbike loan",
			Person: "Linh",
			Amount: 5000000,
			Type:   models.DebtBorrowed,
		})

		if got.RemainingAmount != 5000000 {
			t.Errorf("remaining = %v, want full amount", got.RemainingAmount)
		}
		if len(got.Payments) != 0 {
			t.Errorf("payments = %v, want empty", got.Payments)
		}
		if got.Status != models.StatusActive {
			t.Errorf("status = %v, want ACTIVE default", got.Status)
		}
	})

	t.Run("edit preserves id, remaining and payments", func(t *testing.T) {
		existing := models.Debt{
			ID:              "d1",
			Title:           "Old title",
			Person:          "Linh",
			Amount:          5000000,
			RemainingAmount: 2000000,
			Type:            models.DebtBorrowed,
			Status:          models.StatusActive,
			Payments:        []models.Payment{{ID: "p1", Amount: 3000000, Date: "2024-01-10"}},
		}

		// The submission carries whatever the form sent, including bogus
		// remaining/payments values that must be ignored.
		got := MergeEdit(&existing, models.Debt{
			ID:              "forged",
			Title:           "New title",
			Person:          "Linh",
			Amount:          5000000,
			RemainingAmount: 99,
			Type:            models.DebtBorrowed,
			DueDate:         &due,
			Status:          models.StatusOverdue,
			Payments:        []models.Payment{},
		})

		if got.ID != "d1" {
			t.Errorf("id = %v, want d1", got.ID)
		}
		if got.RemainingAmount != 2000000 {
			t.Errorf("remaining = %v, want preserved 2000000", got.RemainingAmount)
		}
		if diff := cmp.Diff(existing.Payments, got.Payments); diff != "" {
			t.Errorf("payments changed (-want +got):\n%s", diff)
		}
		if got.Title != "New title" {
			t.Errorf("title = %v, want New title", got.Title)
		}
		if got.Status != models.StatusOverdue {
			t.Errorf("status = %v, want manually-set OVERDUE", got.Status)
		}
		if got.DueDate == nil || *got.DueDate != due {
			t.Errorf("dueDate = %v, want %v", got.DueDate, due)
		}
	})

	t.Run("edit without status keeps existing status", func(t *testing.T) {
		existing := models.Debt{
			ID:              "d1",
			Title:           "Old title",
			Person:          "Linh",
			Amount:          5000000,
			RemainingAmount: 2000000,
			Type:            models.DebtBorrowed,
			Status:          models.StatusOverdue,
		}

		got := MergeEdit(&existing, models.Debt{
			Title:  "New title",
			Person: "Linh",
			Amount: 5000000,
			Type:   models.DebtBorrowed,
		})

		if got.Status != models.StatusOverdue {
			t.Errorf("status = %v, want existing OVERDUE carried over", got.Status)
		}
	})
}
