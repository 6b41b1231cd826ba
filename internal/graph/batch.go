package graph

import (
	"context"
	"strings"
)

// EdgeSet groups pending edges by relation.
type EdgeSet map[Relation][]Edge

// Add appends (left, right) to rel after trimming both endpoints. Pairs with
// an empty endpoint are dropped.
func (s EdgeSet) Add(rel Relation, left, right string) {
	left = strings.TrimSpace(left)
	right = strings.TrimSpace(right)
	if left == "" || right == "" {
		return
	}
	s[rel] = append(s[rel], Edge{Left: left, Right: right})
}

// Merge appends every edge of other.
func (s EdgeSet) Merge(other EdgeSet) {
	for rel, edges := range other {
		s[rel] = append(s[rel], edges...)
	}
}

// Len returns the number of pending edges across all relations.
func (s EdgeSet) Len() int {
	n := 0
	for _, edges := range s {
		n += len(edges)
	}
	return n
}

// Batch accumulates edges and flushes them to a Store once a row threshold
// is reached. A Batch is not safe for concurrent use.
type Batch struct {
	store     *Store
	threshold int
	pending   EdgeSet
	inserted  int64
	flushes   int
}

// NewBatch returns a batch that flushes to store every threshold rows.
func NewBatch(store *Store, threshold int) *Batch {
	if threshold <= 0 {
		threshold = 5000
	}
	return &Batch{store: store, threshold: threshold, pending: EdgeSet{}}
}

// Add queues set and flushes when the threshold is reached.
func (b *Batch) Add(ctx context.Context, set EdgeSet) error {
	b.pending.Merge(set)
	if b.pending.Len() >= b.threshold {
		return b.Flush(ctx)
	}
	return nil
}

// Flush writes all pending edges in one transaction.
func (b *Batch) Flush(ctx context.Context) error {
	if b.pending.Len() == 0 {
		return nil
	}
	n, err := b.store.BulkUpsert(ctx, b.pending)
	if err != nil {
		return err
	}
	b.inserted += n
	b.flushes++
	b.pending = EdgeSet{}
	return nil
}

// Pending returns the number of edges waiting for a flush.
func (b *Batch) Pending() int { return b.pending.Len() }

// Inserted returns the number of new rows written so far.
func (b *Batch) Inserted() int64 { return b.inserted }

// Flushes returns the number of committed flushes.
func (b *Batch) Flushes() int { return b.flushes }
