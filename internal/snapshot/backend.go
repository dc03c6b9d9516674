package snapshot

import "context"

// Backend persists the whole snapshot document. Load on a missing document
// returns an empty slice and no error. Save replaces the document.
type Backend interface {
	Load(ctx context.Context) ([]Product, error)
	Save(ctx context.Context, products []Product) error
}
