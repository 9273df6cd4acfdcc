package ledger

import (
	"sort"
	"strings"
	"time"

	"github.com/tuanvm/smartdebt/internal/models"
)

const dateLayout = "2006-01-02"

// DefaultTopN is how many counterparties the dashboard breakdown shows.
const DefaultTopN = 5

// Stats folds the collection into the dashboard aggregates. Only non-PAID
// debts contribute to the borrowed/lent totals; a debt that reaches zero
// remaining drops out entirely. today is an ISO YYYY-MM-DD date.
func Stats(debts []models.Debt, today string) models.DashboardStats {
	var stats models.DashboardStats

	horizon := today
	if t, err := time.Parse(dateLayout, today); err == nil {
		horizon = t.AddDate(0, 0, 7).Format(dateLayout)
	}
	monthPrefix := today
	if len(today) >= 7 {
		monthPrefix = today[:7]
	}

	for _, d := range debts {
		if d.Status != models.StatusPaid {
			switch d.Type {
			case models.DebtBorrowed:
				stats.TotalBorrowed += d.RemainingAmount
			case models.DebtLent:
				stats.TotalLent += d.RemainingAmount
			}
			if d.DueDate != nil && *d.DueDate >= today && *d.DueDate <= horizon {
				stats.UpcomingDueCount++
			}
		}
		for _, p := range d.Payments {
			if strings.HasPrefix(p.Date, monthPrefix) {
				stats.TotalPaidThisMonth += p.Amount
			}
		}
	}
	return stats
}

// DueToday selects the non-PAID debts that need attention as of today:
// those already due plus those with no deadline at all. The result is
// sorted by due date ascending; debts without a deadline sort last, and
// equal due dates keep their relative order.
func DueToday(debts []models.Debt, today string) []models.Debt {
	var due []models.Debt
	for _, d := range debts {
		if d.Status == models.StatusPaid {
			continue
		}
		if d.DueDate == nil || *d.DueDate <= today {
			due = append(due, d)
		}
	}

	sort.SliceStable(due, func(i, j int) bool {
		a, b := due[i].DueDate, due[j].DueDate
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a < *b
		}
	})
	return due
}

// TopCounterparties groups the non-PAID debts by counterparty and returns
// the n people with the largest combined outstanding balance, borrowed and
// lent summed separately per person. Ties break alphabetically.
func TopCounterparties(debts []models.Debt, n int) []models.CounterpartyBalance {
	byName := make(map[string]*models.CounterpartyBalance)
	for _, d := range debts {
		if d.Status == models.StatusPaid {
			continue
		}
		bal, ok := byName[d.Person]
		if !ok {
			bal = &models.CounterpartyBalance{Name: d.Person}
			byName[d.Person] = bal
		}
		switch d.Type {
		case models.DebtBorrowed:
			bal.Borrowed += d.RemainingAmount
		case models.DebtLent:
			bal.Lent += d.RemainingAmount
		}
	}

	balances := make([]models.CounterpartyBalance, 0, len(byName))
	for _, bal := range byName {
		balances = append(balances, *bal)
	}
	sort.Slice(balances, func(i, j int) bool {
		ti := balances[i].Borrowed + balances[i].Lent
		tj := balances[j].Borrowed + balances[j].Lent
		if ti != tj {
			return ti > tj
		}
		return balances[i].Name < balances[j].Name
	})

	if n > 0 && len(balances) > n {
		balances = balances[:n]
	}
	return balances
}
