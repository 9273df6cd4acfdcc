// Package server exposes the debt collection and its derived views over a
// JSON REST API.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tuanvm/smartdebt/internal/advice"
	"github.com/tuanvm/smartdebt/internal/ledger"
	"github.com/tuanvm/smartdebt/internal/models"
	"github.com/tuanvm/smartdebt/internal/syncer"
)

// Server holds the handler dependencies.
type Server struct {
	ctrl   *syncer.Controller
	advice *advice.Client

	// today returns the current ISO date; swapped out in tests.
	today func() string
}

// New creates a Server. adviceClient may be nil; the insights endpoint
// then always answers with the fixed fallback message.
func New(ctrl *syncer.Controller, adviceClient *advice.Client) *Server {
	return &Server{
		ctrl:   ctrl,
		advice: adviceClient,
		today:  func() string { return time.Now().Format("2006-01-02") },
	}
}

// Routes builds the API router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Get("/debts", s.handleListDebts)
		r.Post("/debts", s.handleCreateDebt)
		r.Put("/debts/{debtID}", s.handleUpdateDebt)
		r.Delete("/debts/{debtID}", s.handleDeleteDebt)
		r.Post("/debts/{debtID}/payments", s.handleRecordPayment)
		r.Get("/dashboard", s.handleDashboard)
		r.Get("/insights", s.handleInsights)
	})
	return r
}

type listResponse struct {
	Debts []models.Debt `json:"debts"`

	// Source is the current authority: "cloud" or "local". Drives the
	// connection indicator in the frontend.
	Source string `json:"source"`

	// Error carries the user-facing message from the last cloud failure.
	Error string `json:"error,omitempty"`
}

type dashboardResponse struct {
	Stats           models.DashboardStats        `json:"stats"`
	DueToday        []models.Debt                `json:"dueToday"`
	TopCounterparts []models.CounterpartyBalance `json:"topCounterparties"`
	NetPosition     float64                      `json:"netPosition"`
}

type insightsResponse struct {
	Advice string `json:"advice"`
}

func (s *Server) handleListDebts(w http.ResponseWriter, r *http.Request) {
	debts := s.ctrl.Debts()

	switch r.URL.Query().Get("status") {
	case "active":
		debts = filterDebts(debts, func(d models.Debt) bool { return d.Status != models.StatusPaid })
	case "paid":
		debts = filterDebts(debts, func(d models.Debt) bool { return d.Status == models.StatusPaid })
	}

	writeJSON(w, http.StatusOK, listResponse{
		Debts:  debts,
		Source: s.ctrl.Authority().String(),
		Error:  s.ctrl.LastError(),
	})
}

func (s *Server) handleCreateDebt(w http.ResponseWriter, r *http.Request) {
	var debt models.Debt
	if err := json.NewDecoder(r.Body).Decode(&debt); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	debt.ID = ""

	if msg := validateDebt(debt); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	created, err := s.ctrl.SaveDebt(r.Context(), debt)
	if err != nil {
		slog.Error("Create debt failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save debt")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateDebt(w http.ResponseWriter, r *http.Request) {
	var debt models.Debt
	if err := json.NewDecoder(r.Body).Decode(&debt); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	debt.ID = chi.URLParam(r, "debtID")

	if msg := validateDebt(debt); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	updated, err := s.ctrl.SaveDebt(r.Context(), debt)
	if errors.Is(err, syncer.ErrNotFound) {
		writeError(w, http.StatusNotFound, "debt not found")
		return
	}
	if err != nil {
		slog.Error("Update debt failed", "debt_id", debt.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save debt")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteDebt(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "debtID")

	if err := s.ctrl.DeleteDebt(r.Context(), id); err != nil {
		slog.Error("Delete debt failed", "debt_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete debt")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRecordPayment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "debtID")

	var payment models.Payment
	if err := json.NewDecoder(r.Body).Decode(&payment); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payment.Date == "" {
		payment.Date = s.today()
	}

	updated, err := s.ctrl.RecordPayment(r.Context(), id, payment)
	if errors.Is(err, syncer.ErrNotFound) {
		writeError(w, http.StatusNotFound, "debt not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	debts := s.ctrl.Debts()
	today := s.today()

	stats := ledger.Stats(debts, today)
	due := ledger.DueToday(debts, today)
	if due == nil {
		due = []models.Debt{}
	}
	top := ledger.TopCounterparties(debts, ledger.DefaultTopN)
	if top == nil {
		top = []models.CounterpartyBalance{}
	}

	writeJSON(w, http.StatusOK, dashboardResponse{
		Stats:           stats,
		DueToday:        due,
		TopCounterparts: top,
		NetPosition:     stats.TotalLent - stats.TotalBorrowed,
	})
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	text := s.advice.Insights(r.Context(), s.ctrl.Debts())
	writeJSON(w, http.StatusOK, insightsResponse{Advice: text})
}

// validateDebt checks the fields a submission must provide. Progress
// fields (remainingAmount, payments) are not validated here: the
// controller overwrites them anyway.
func validateDebt(d models.Debt) string {
	switch {
	case d.Title == "":
		return "title is required"
	case d.Person == "":
		return "person is required"
	case d.Amount <= 0:
		return "amount must be positive"
	case !d.Type.Valid():
		return "type must be BORROWED or LENT"
	case d.StartDate == "":
		return "startDate is required"
	case d.Status != "" && !d.Status.Valid():
		return "status must be ACTIVE, PAID or OVERDUE"
	}
	return ""
}

func filterDebts(debts []models.Debt, keep func(models.Debt) bool) []models.Debt {
	out := make([]models.Debt, 0, len(debts))
	for _, d := range debts {
		if keep(d) {
			out = append(out, d)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
