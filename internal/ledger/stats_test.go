package ledger

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tuanvm/smartdebt/internal/models"
)

func strPtr(s string) *string { return &s }

func TestStats(t *testing.T) {
	debts := []models.Debt{
		{Person: "An", Type: models.DebtBorrowed, RemainingAmount: 300, Status: models.StatusActive},
		{Person: "Binh", Type: models.DebtLent, RemainingAmount: 500, Status: models.StatusActive},
		// PAID debts contribute nothing, whatever their remaining says.
		{Person: "Chi", Type: models.DebtBorrowed, RemainingAmount: 0, Status: models.StatusPaid,
			Payments: []models.Payment{{ID: "p1", Amount: 700, Date: "2024-03-10"}}},
		{Person: "Dung", Type: models.DebtLent, RemainingAmount: 200, Status: models.StatusOverdue,
			DueDate: strPtr("2024-03-05")},
		{Person: "Em", Type: models.DebtBorrowed, RemainingAmount: 100, Status: models.StatusActive,
			DueDate: strPtr("2024-04-20"),
			Payments: []models.Payment{
				{ID: "p2", Amount: 50, Date: "2024-03-01"},
				{ID: "p3", Amount: 25, Date: "2024-02-28"},
			}},
	}

	got := Stats(debts, "2024-03-01")

	if got.TotalBorrowed != 400 {
		t.Errorf("totalBorrowed = %v, want 400", got.TotalBorrowed)
	}
	if got.TotalLent != 700 {
		t.Errorf("totalLent = %v, want 700", got.TotalLent)
	}
	// Only Dung's 2024-03-05 due date falls inside the 7-day window.
	if got.UpcomingDueCount != 1 {
		t.Errorf("upcomingDueCount = %d, want 1", got.UpcomingDueCount)
	}
	// Payments dated in 2024-03: 700 (Chi) + 50 (Em).
	if got.TotalPaidThisMonth != 750 {
		t.Errorf("totalPaidThisMonth = %v, want 750", got.TotalPaidThisMonth)
	}
}

func TestStatsPaidDebtDropsOut(t *testing.T) {
	debt := models.Debt{
		Person: "An", Type: models.DebtBorrowed,
		Amount: 1000, RemainingAmount: 1000, Status: models.StatusActive,
	}

	before := Stats([]models.Debt{debt}, "2024-03-01")
	if before.TotalBorrowed != 1000 {
		t.Fatalf("totalBorrowed = %v, want 1000", before.TotalBorrowed)
	}

	paid, err := ApplyPayment(debt, models.Payment{ID: "p1", Amount: 1000, Date: "2024-03-02"})
	if err != nil {
		t.Fatalf("ApplyPayment failed: %v", err)
	}

	after := Stats([]models.Debt{paid}, "2024-03-01")
	if after.TotalBorrowed != 0 {
		t.Errorf("totalBorrowed after payoff = %v, want 0", after.TotalBorrowed)
	}
}

func TestDueToday(t *testing.T) {
	noDeadline := models.Debt{ID: "none", Status: models.StatusActive}
	past := models.Debt{ID: "past", Status: models.StatusActive, DueDate: strPtr("2024-01-01")}
	future := models.Debt{ID: "future", Status: models.StatusActive, DueDate: strPtr("2024-06-01")}
	paid := models.Debt{ID: "paid", Status: models.StatusPaid, DueDate: strPtr("2024-01-01")}

	got := DueToday([]models.Debt{noDeadline, future, past, paid}, "2024-03-01")

	var ids []string
	for _, d := range got {
		ids = append(ids, d.ID)
	}
	// Dated entries first, ascending; no-deadline debts sort last;
	// future and paid debts are excluded.
	want := []string{"past", "none"}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Errorf("DueToday order (-want +got):\n%s", diff)
	}
}

func TestDueTodayStableOnEqualDates(t *testing.T) {
	a := models.Debt{ID: "a", Status: models.StatusActive, DueDate: strPtr("2024-02-01")}
	b := models.Debt{ID: "b", Status: models.StatusActive, DueDate: strPtr("2024-02-01")}

	got := DueToday([]models.Debt{a, b}, "2024-03-01")
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
		t.Errorf("equal due dates must keep relative order, got %v", got)
	}
}

func TestTopCounterparties(t *testing.T) {
	debts := []models.Debt{
		{Person: "An", Type: models.DebtBorrowed, RemainingAmount: 100, Status: models.StatusActive},
		{Person: "An", Type: models.DebtLent, RemainingAmount: 50, Status: models.StatusActive},
		{Person: "Binh", Type: models.DebtLent, RemainingAmount: 400, Status: models.StatusActive},
		{Person: "Chi", Type: models.DebtBorrowed, RemainingAmount: 30, Status: models.StatusActive},
		// PAID excluded from the breakdown.
		{Person: "Binh", Type: models.DebtBorrowed, RemainingAmount: 0, Status: models.StatusPaid},
	}

	got := TopCounterparties(debts, 2)

	want := []models.CounterpartyBalance{
		{Name: "Binh", Lent: 400},
		{Name: "An", Borrowed: 100, Lent: 50},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("TopCounterparties (-want +got):\n%s", diff)
	}
}

func TestTopCounterpartiesDefaultLimit(t *testing.T) {
	var debts []models.Debt
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		debts = append(debts, models.Debt{
			Person: name, Type: models.DebtLent, RemainingAmount: 10, Status: models.StatusActive,
		})
	}

	got := TopCounterparties(debts, DefaultTopN)
	if len(got) != DefaultTopN {
		t.Errorf("len = %d, want %d", len(got), DefaultTopN)
	}
}
