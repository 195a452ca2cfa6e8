// Package seen keeps the ledger of article links that were already
// considered for posting.
package seen

import "context"

// Store is the deduplication ledger keyed by article link. Entries are never
// evicted.
type Store interface {
	Has(ctx context.Context, link string) (bool, error)
	Add(ctx context.Context, link string) error
	Len(ctx context.Context) (int, error)
}
