package models

// DebtType describes the direction of an obligation.
type DebtType string

const (
	// DebtBorrowed means the user owes the counterparty.
	DebtBorrowed DebtType = "BORROWED"

	// DebtLent means the counterparty owes the user.
	DebtLent DebtType = "LENT"
)

// Valid reports whether t is one of the known debt directions.
func (t DebtType) Valid() bool {
	return t == DebtBorrowed || t == DebtLent
}

// DebtStatus describes the lifecycle state of a debt.
type DebtStatus string

const (
	StatusActive DebtStatus = "ACTIVE"
	StatusPaid   DebtStatus = "PAID"

	// StatusOverdue exists in the data model but is only ever set manually
	// through an edit. There is no automatic due-date transition.
	StatusOverdue DebtStatus = "OVERDUE"
)

// Valid reports whether s is one of the known debt statuses.
func (s DebtStatus) Valid() bool {
	return s == StatusActive || s == StatusPaid || s == StatusOverdue
}

// Payment records one partial or full settlement against a debt.
// Payments are immutable once recorded and are owned exclusively by
// their parent debt: only whole-debt deletion removes them.
type Payment struct {
	// ID is a client-generated UUID assigned when the payment is appended.
	ID string `json:"id" firestore:"id"`

	// Amount is the settled amount. Always positive; the controller
	// clamps the parent debt's remaining amount at zero.
	Amount float64 `json:"amount" firestore:"amount"`

	// Date is the calendar date of the payment as an ISO YYYY-MM-DD
	// string. Independent of recording order.
	Date string `json:"date" firestore:"date"`

	// Note is an optional free-text description.
	Note string `json:"note,omitempty" firestore:"note"`
}

// Debt represents one tracked obligation between the user and a counterparty.
type Debt struct {
	// ID is the unique identifier. Under cloud storage this is the
	// Firestore document id and is never stored as a document field;
	// under local storage it is a client-generated UUID.
	ID string `json:"id" firestore:"-"`

	// Title is the human-readable name for the debt.
	Title string `json:"title" firestore:"title"`

	// Person is the counterparty's name.
	Person string `json:"person" firestore:"person"`

	// Amount is the original obligation. Always positive.
	Amount float64 `json:"amount" firestore:"amount"`

	// RemainingAmount is what is still outstanding. Kept in
	// [0, Amount]; edits never touch it, only payments do.
	RemainingAmount float64 `json:"remainingAmount" firestore:"remainingAmount"`

	// Type is the direction of the obligation.
	Type DebtType `json:"type" firestore:"type"`

	// InterestRate is the annual rate in percent. Informational only;
	// nothing compounds it.
	InterestRate float64 `json:"interestRate" firestore:"interestRate"`

	// StartDate is the ISO date the obligation began.
	StartDate string `json:"startDate" firestore:"startDate"`

	// DueDate is the ISO deadline, or nil for no deadline.
	DueDate *string `json:"dueDate" firestore:"dueDate"`

	// Status is the lifecycle state.
	Status DebtStatus `json:"status" firestore:"status"`

	// Payments is the append-only settlement history, in recording order.
	Payments []Payment `json:"payments" firestore:"payments"`

	// Description is optional free text.
	Description string `json:"description,omitempty" firestore:"description"`
}

// Fields returns the debt as a field map for partial document writes.
// The id is omitted: the storage provider owns it.
func (d Debt) Fields() map[string]any {
	payments := d.Payments
	if payments == nil {
		payments = []Payment{}
	}
	return map[string]any{
		"title":           d.Title,
		"person":          d.Person,
		"amount":          d.Amount,
		"remainingAmount": d.RemainingAmount,
		"type":            d.Type,
		"interestRate":    d.InterestRate,
		"startDate":       d.StartDate,
		"dueDate":         d.DueDate,
		"status":          d.Status,
		"payments":        payments,
		"description":     d.Description,
	}
}

// DashboardStats is the aggregate view computed fresh from the in-memory
// collection on every request. Never stored.
type DashboardStats struct {
	// TotalBorrowed is the sum of remaining amounts the user still owes,
	// across non-PAID BORROWED debts.
	TotalBorrowed float64 `json:"totalBorrowed"`

	// TotalLent is the sum of remaining amounts still owed to the user,
	// across non-PAID LENT debts.
	TotalLent float64 `json:"totalLent"`

	// UpcomingDueCount is the number of non-PAID debts due within the
	// next seven days.
	UpcomingDueCount int `json:"upcomingDueCount"`

	// TotalPaidThisMonth is the sum of payment amounts dated in the
	// current calendar month, across all debts.
	TotalPaidThisMonth float64 `json:"totalPaidThisMonth"`
}

// CounterpartyBalance is one row of the per-person breakdown: how much is
// still outstanding with a single counterparty, split by direction.
type CounterpartyBalance struct {
	Name     string  `json:"name"`
	Borrowed float64 `json:"borrowed"`
	Lent     float64 `json:"lent"`
}
