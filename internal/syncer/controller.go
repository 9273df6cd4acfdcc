// Package syncer owns the in-memory debt collection and keeps it in sync
// with whichever storage provider is currently authoritative.
//
// With cloud storage configured, a live subscription replaces the
// collection on every remote change and mirrors each push into the local
// blob. When the subscription fails, or when cloud storage was never
// configured, the local blob becomes the working copy. Individual cloud
// writes that fail degrade to the local path for that one mutation; they
// never fail silently and never flip authority on their own.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/tuanvm/smartdebt/internal/ledger"
	"github.com/tuanvm/smartdebt/internal/metrics"
	"github.com/tuanvm/smartdebt/internal/models"
	"github.com/tuanvm/smartdebt/internal/storage"
	"github.com/tuanvm/smartdebt/internal/storage/localdb"
)

// ErrNotFound is returned when an operation targets a debt id that is not
// in the current collection.
var ErrNotFound = errors.New("debt not found")

// Authority identifies which storage provider is the current source of
// truth for the in-memory collection.
type Authority int

const (
	// AuthorityLocal: the local blob is the working copy; mutations are
	// synchronous and immediate.
	AuthorityLocal Authority = iota

	// AuthorityCloud: the cloud collection is the source of truth; the
	// in-memory collection is only ever replaced by subscription pushes.
	AuthorityCloud
)

func (a Authority) String() string {
	if a == AuthorityCloud {
		return "cloud"
	}
	return "local"
}

// CloudStore combines document CRUD with a live subscription.
type CloudStore interface {
	storage.Store
	storage.Watcher
}

// Controller is the synchronization state machine. All exported methods
// are safe for concurrent use; the collection is only ever replaced
// wholesale, never mutated field by field.
type Controller struct {
	cloud CloudStore // nil when cloud storage is not configured
	local *localdb.Store

	mu        sync.Mutex
	debts     []models.Debt
	authority Authority
	lastErr   string

	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a Controller. cloud may be nil, in which case the
// controller runs in local-only mode from the start.
func New(cloud CloudStore, local *localdb.Store) *Controller {
	return &Controller{cloud: cloud, local: local}
}

// Start runs the startup protocol. With no cloud store it loads the local
// blob and returns. Otherwise it opens the live subscription and blocks
// until the first push or the first subscription error has been applied,
// so callers always start with a settled collection.
func (c *Controller) Start(ctx context.Context) error {
	if c.cloud == nil {
		debts, err := c.local.Load(ctx)
		if err != nil {
			return fmt.Errorf("failed to load local backup: %w", err)
		}
		c.mu.Lock()
		c.debts = debts
		c.authority = AuthorityLocal
		c.mu.Unlock()
		slog.Info("Cloud storage not configured, using local backup", "debts", len(debts))
		return nil
	}

	subCtx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.done = make(chan struct{})

	ch := c.cloud.Watch(subCtx)

	first := make(chan struct{})
	var once sync.Once

	go func() {
		defer close(c.done)
		for snap := range ch {
			c.applySnapshot(snap)
			once.Do(func() { close(first) })
		}
	}()

	select {
	case <-first:
		return nil
	case <-ctx.Done():
		cancel()
		return ctx.Err()
	}
}

// Close tears down the live subscription, the only cancellation point in
// the system, and waits for the consumer goroutine to drain.
func (c *Controller) Close() {
	if c.cancel != nil {
		c.cancel()
		<-c.done
	}
}

// applySnapshot handles one subscription delivery: a push replaces the
// collection and mirrors it locally; an error falls back to the blob.
func (c *Controller) applySnapshot(snap storage.Snapshot) {
	if snap.Err != nil {
		kind := storage.Classify(snap.Err)
		msg := kind.Message()
		slog.Error("Cloud subscription failed, falling back to local backup",
			"error", snap.Err, "message", msg)
		metrics.StorageFallbacks.WithLabelValues("subscription").Inc()

		debts, err := c.local.Load(context.Background())
		if err != nil {
			slog.Error("Failed to load local backup after cloud failure", "error", err)
			debts = []models.Debt{}
		}

		c.mu.Lock()
		c.debts = debts
		c.authority = AuthorityLocal
		c.lastErr = msg
		c.mu.Unlock()
		return
	}

	// Mirror every successful cloud read into the local blob: local is a
	// passive backup while the cloud is healthy.
	if err := c.local.Save(context.Background(), snap.Debts); err != nil {
		slog.Warn("Failed to mirror cloud snapshot to local backup", "error", err)
	}

	c.mu.Lock()
	c.debts = snap.Debts
	c.authority = AuthorityCloud
	c.lastErr = ""
	c.mu.Unlock()

	slog.Debug("Cloud snapshot applied", "debts", len(snap.Debts))
}

// Debts returns a copy of the current collection.
func (c *Controller) Debts() []models.Debt {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Debt, len(c.debts))
	copy(out, c.debts)
	return out
}

// Authority reports the current source of truth.
func (c *Controller) Authority() Authority {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.authority
}

// LastError returns the user-facing message from the last cloud failure,
// or empty while the cloud is healthy.
func (c *Controller) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// find returns a copy of the debt with the given id.
func (c *Controller) find(id string) (models.Debt, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, d := range c.debts {
		if d.ID == id {
			return d, true
		}
	}
	return models.Debt{}, false
}

// SaveDebt creates a new debt (empty id) or edits an existing one. Edits
// carry over the remaining amount and payment history from the stored
// record untouched; see ledger.MergeEdit.
//
// Under cloud authority the write goes to the cloud and the in-memory
// collection is left alone until the subscription round-trips. If the
// cloud write fails, the mutation is applied to memory and the local blob
// instead, so it is never lost.
func (c *Controller) SaveDebt(ctx context.Context, submitted models.Debt) (models.Debt, error) {
	var merged models.Debt
	if submitted.ID == "" {
		merged = ledger.MergeEdit(nil, submitted)
	} else {
		existing, ok := c.find(submitted.ID)
		if !ok {
			return models.Debt{}, ErrNotFound
		}
		merged = ledger.MergeEdit(&existing, submitted)
	}

	if c.Authority() == AuthorityCloud {
		if merged.ID == "" {
			id, err := c.cloud.Create(ctx, merged)
			if err == nil {
				merged.ID = id
				metrics.DebtWrites.WithLabelValues("create").Inc()
				slog.Info("Debt created in cloud", "debt_id", id, "title", merged.Title)
				return merged, nil
			}
			slog.Warn("Cloud create failed, saving locally", "error", err)
		} else {
			err := c.cloud.Update(ctx, merged.ID, merged.Fields())
			if err == nil {
				metrics.DebtWrites.WithLabelValues("update").Inc()
				slog.Info("Debt updated in cloud", "debt_id", merged.ID)
				return merged, nil
			}
			slog.Warn("Cloud update failed, saving locally", "error", err, "debt_id", merged.ID)
		}
		metrics.StorageFallbacks.WithLabelValues("write").Inc()
	}

	if merged.ID == "" {
		merged.ID = uuid.New().String()
		metrics.DebtWrites.WithLabelValues("create").Inc()
	} else {
		metrics.DebtWrites.WithLabelValues("update").Inc()
	}
	if err := c.upsertLocal(ctx, merged); err != nil {
		return models.Debt{}, err
	}
	return merged, nil
}

// RecordPayment appends a payment to the debt with the given id, reducing
// its remaining amount and flipping it to PAID when nothing remains. The
// payment gets a freshly generated id; the history is append-only.
//
// Under cloud authority only the three changed fields are written.
func (c *Controller) RecordPayment(ctx context.Context, debtID string, payment models.Payment) (models.Debt, error) {
	debt, ok := c.find(debtID)
	if !ok {
		return models.Debt{}, ErrNotFound
	}

	payment.ID = uuid.New().String()
	updated, err := ledger.ApplyPayment(debt, payment)
	if err != nil {
		return models.Debt{}, err
	}

	if c.Authority() == AuthorityCloud {
		err := c.cloud.Update(ctx, debtID, map[string]any{
			"remainingAmount": updated.RemainingAmount,
			"status":          updated.Status,
			"payments":        updated.Payments,
		})
		if err == nil {
			metrics.PaymentsRecorded.Inc()
			slog.Info("Payment recorded in cloud",
				"debt_id", debtID, "amount", payment.Amount, "remaining", updated.RemainingAmount)
			return updated, nil
		}
		slog.Warn("Cloud payment write failed, saving locally", "error", err, "debt_id", debtID)
		metrics.StorageFallbacks.WithLabelValues("write").Inc()
	}

	if err := c.upsertLocal(ctx, updated); err != nil {
		return models.Debt{}, err
	}
	metrics.PaymentsRecorded.Inc()
	return updated, nil
}

// DeleteDebt removes a debt and its payment history. The caller is
// responsible for having confirmed the deletion with the user.
func (c *Controller) DeleteDebt(ctx context.Context, id string) error {
	if c.Authority() == AuthorityCloud {
		err := c.cloud.Delete(ctx, id)
		if err == nil {
			metrics.DebtWrites.WithLabelValues("delete").Inc()
			slog.Info("Debt deleted from cloud", "debt_id", id)
			return nil
		}
		slog.Warn("Cloud delete failed, removing locally", "error", err, "debt_id", id)
		metrics.StorageFallbacks.WithLabelValues("write").Inc()
	}

	c.mu.Lock()
	filtered := make([]models.Debt, 0, len(c.debts))
	for _, d := range c.debts {
		if d.ID != id {
			filtered = append(filtered, d)
		}
	}
	c.debts = filtered
	snapshot := filtered
	c.mu.Unlock()

	metrics.DebtWrites.WithLabelValues("delete").Inc()
	if err := c.local.Save(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to save local backup: %w", err)
	}
	return nil
}

// upsertLocal applies a mutation to the in-memory collection and rewrites
// the local blob. Used for all local-authority writes and for cloud write
// fallbacks.
func (c *Controller) upsertLocal(ctx context.Context, debt models.Debt) error {
	c.mu.Lock()
	replaced := false
	for i, d := range c.debts {
		if d.ID == debt.ID {
			c.debts[i] = debt
			replaced = true
			break
		}
	}
	if !replaced {
		c.debts = append(c.debts, debt)
	}
	snapshot := make([]models.Debt, len(c.debts))
	copy(snapshot, c.debts)
	c.mu.Unlock()

	if err := c.local.Save(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to save local backup: %w", err)
	}
	return nil
}
