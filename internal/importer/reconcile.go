// Package importer merges externally parsed records into a collection.
package importer

import (
	"errors"
	"fmt"

	"github.com/verte-zerg/benkyo/internal/model"
)

// ErrResolved is returned when a decision is made after every duplicate has
// already been resolved.
var ErrResolved = errors.New("all duplicates already resolved")

// Resolution is a user decision about an imported duplicate.
type Resolution int

const (
	// Cover replaces the existing record with the imported one.
	Cover Resolution = iota
	// Skip keeps the existing record.
	Skip
	// CoverAll covers every remaining duplicate.
	CoverAll
	// SkipAll skips every remaining duplicate.
	SkipAll
)

func (r Resolution) String() string {
	switch r {
	case Cover:
		return "cover"
	case Skip:
		return "skip"
	case CoverAll:
		return "cover-all"
	case SkipAll:
		return "skip-all"
	default:
		return fmt.Sprintf("resolution(%d)", int(r))
	}
}

// ParseResolution maps a bulk policy name to a Resolution.
func ParseResolution(s string) (Resolution, error) {
	for _, r := range []Resolution{Cover, Skip, CoverAll, SkipAll} {
		if r.String() == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown resolution %q", s)
}

// Partition splits batch into records whose key is new and records whose key
// already exists, preserving batch order in both. A key repeated inside the
// batch is a duplicate of its first occurrence.
func Partition[R model.Record](batch, existing []R) (uniques, duplicates []R) {
	known := make(map[string]struct{}, len(existing)+len(batch))
	for _, r := range existing {
		known[r.Key()] = struct{}{}
	}
	for _, r := range batch {
		if _, ok := known[r.Key()]; ok {
			duplicates = append(duplicates, r)
			continue
		}
		known[r.Key()] = struct{}{}
		uniques = append(uniques, r)
	}
	return uniques, duplicates
}

// MergeUniques returns a new slice with uniques first, in batch order,
// followed by existing.
func MergeUniques[R model.Record](existing, uniques []R) []R {
	out := make([]R, 0, len(uniques)+len(existing))
	out = append(out, uniques...)
	out = append(out, existing...)
	return out
}

// Summary counts what an import did.
type Summary struct {
	Added   int
	Covered int
	Skipped int
}

// Reconciler merges a batch into an existing collection. New records are
// merged on construction; duplicates wait for a decision each.
type Reconciler[R model.Record] struct {
	records    []R
	position   map[string]int
	duplicates []R
	cursor     int
	summary    Summary
}

// New partitions batch against existing and merges the new records at once.
func New[R model.Record](existing, batch []R) *Reconciler[R] {
	uniques, duplicates := Partition(batch, existing)
	r := &Reconciler[R]{
		records:    MergeUniques(existing, uniques),
		duplicates: duplicates,
		summary:    Summary{Added: len(uniques)},
	}
	r.position = make(map[string]int, len(r.records))
	for i, rec := range r.records {
		if _, ok := r.position[rec.Key()]; !ok {
			r.position[rec.Key()] = i
		}
	}
	return r
}

// Duplicates returns every colliding candidate in batch order.
func (r *Reconciler[R]) Duplicates() []R {
	return append([]R(nil), r.duplicates...)
}

// Remaining returns how many duplicates still need a decision.
func (r *Reconciler[R]) Remaining() int {
	return len(r.duplicates) - r.cursor
}

// Done reports whether every duplicate has been resolved.
func (r *Reconciler[R]) Done() bool {
	return r.cursor >= len(r.duplicates)
}

// Pending returns the candidate awaiting a decision and the record it would
// replace.
func (r *Reconciler[R]) Pending() (candidate, current R, ok bool) {
	if r.Done() {
		return candidate, current, false
	}
	candidate = r.duplicates[r.cursor]
	if idx, found := r.position[candidate.Key()]; found {
		current = r.records[idx]
	}
	return candidate, current, true
}

// DecideOne resolves the pending duplicate and moves to the next one.
func (r *Reconciler[R]) DecideOne(res Resolution) error {
	if r.Done() {
		return ErrResolved
	}
	switch res {
	case Cover:
		r.cover(r.duplicates[r.cursor])
	case Skip:
		r.summary.Skipped++
	default:
		return fmt.Errorf("decide one: unsupported resolution %s", res)
	}
	r.cursor++
	return nil
}

// DecideAll resolves every remaining duplicate the same way.
func (r *Reconciler[R]) DecideAll(res Resolution) error {
	if r.Done() {
		return ErrResolved
	}
	switch res {
	case CoverAll:
		for _, cand := range r.duplicates[r.cursor:] {
			r.cover(cand)
		}
	case SkipAll:
		r.summary.Skipped += r.Remaining()
	default:
		return fmt.Errorf("decide all: unsupported resolution %s", res)
	}
	r.cursor = len(r.duplicates)
	return nil
}

// Decide dispatches to DecideOne or DecideAll.
func (r *Reconciler[R]) Decide(res Resolution) error {
	switch res {
	case CoverAll, SkipAll:
		return r.DecideAll(res)
	default:
		return r.DecideOne(res)
	}
}

func (r *Reconciler[R]) cover(cand R) {
	idx, ok := r.position[cand.Key()]
	if !ok {
		r.position[cand.Key()] = len(r.records)
		r.records = append(r.records, cand)
	} else {
		r.records[idx] = cand
	}
	r.summary.Covered++
}

// Records returns the merged collection.
func (r *Reconciler[R]) Records() []R {
	return append([]R(nil), r.records...)
}

// Summary returns the counts so far.
func (r *Reconciler[R]) Summary() Summary {
	return r.summary
}
