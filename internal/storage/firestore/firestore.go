// Package firestore provides the Cloud Firestore implementation of the
// storage.Store interface, plus the live subscription that pushes the
// full collection on every remote change.
package firestore

import (
	"context"
	"fmt"

	fs "cloud.google.com/go/firestore"
	"google.golang.org/api/option"

	"github.com/tuanvm/smartdebt/internal/models"
	"github.com/tuanvm/smartdebt/internal/storage"
)

// Ensure Store implements the storage contracts.
var (
	_ storage.Store   = (*Store)(nil)
	_ storage.Watcher = (*Store)(nil)
)

// Store implements storage.Store backed by a Firestore collection.
// Document ids are Firestore-assigned; the id is never stored as a field.
type Store struct {
	client     *fs.Client
	collection string
}

// New connects to Firestore for the given project. credentialsFile may be
// empty, in which case application default credentials apply.
func New(ctx context.Context, projectID, credentialsFile, collection string) (*Store, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := fs.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}

	return &Store{client: client, collection: collection}, nil
}

// Close releases the underlying gRPC connection.
func (s *Store) Close() error {
	return s.client.Close()
}

// query is the one shape every read uses: the whole collection, newest
// start date first.
func (s *Store) query() fs.Query {
	return s.client.Collection(s.collection).OrderBy("startDate", fs.Desc)
}

// List fetches the full collection once.
func (s *Store) List(ctx context.Context) ([]models.Debt, error) {
	docs, err := s.query().Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list debts: %w", err)
	}
	return decodeDocs(docs)
}

// Watch opens a live subscription on the collection. Each delivery
// carries the full current collection; a delivery error is terminal for
// this subscription and closes the channel.
func (s *Store) Watch(ctx context.Context) <-chan storage.Snapshot {
	ch := make(chan storage.Snapshot)

	go func() {
		defer close(ch)

		it := s.query().Snapshots(ctx)
		defer it.Stop()

		for {
			snap, err := it.Next()
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				ch <- storage.Snapshot{Err: fmt.Errorf("firestore subscription failed: %w", err)}
				return
			}

			docs, err := snap.Documents.GetAll()
			if err != nil {
				ch <- storage.Snapshot{Err: fmt.Errorf("failed to read snapshot documents: %w", err)}
				return
			}

			debts, err := decodeDocs(docs)
			if err != nil {
				ch <- storage.Snapshot{Err: err}
				return
			}

			select {
			case ch <- storage.Snapshot{Debts: debts}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch
}

// Create inserts a new document. Firestore assigns the id.
func (s *Store) Create(ctx context.Context, debt models.Debt) (string, error) {
	ref, _, err := s.client.Collection(s.collection).Add(ctx, debt.Fields())
	if err != nil {
		return "", fmt.Errorf("failed to create debt: %w", err)
	}
	return ref.ID, nil
}

// Update merges the given fields into an existing document.
func (s *Store) Update(ctx context.Context, id string, fields map[string]any) error {
	_, err := s.client.Collection(s.collection).Doc(id).Set(ctx, fields, fs.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to update debt %s: %w", id, err)
	}
	return nil
}

// Delete removes a document by id.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.client.Collection(s.collection).Doc(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete debt %s: %w", id, err)
	}
	return nil
}

func decodeDocs(docs []*fs.DocumentSnapshot) ([]models.Debt, error) {
	debts := make([]models.Debt, 0, len(docs))
	for _, doc := range docs {
		var d models.Debt
		if err := doc.DataTo(&d); err != nil {
			return nil, fmt.Errorf("failed to decode debt %s: %w", doc.Ref.ID, err)
		}
		d.ID = doc.Ref.ID
		if d.Payments == nil {
			d.Payments = []models.Payment{}
		}
		debts = append(debts, d)
	}
	return debts, nil
}
