// Package review drives resumable quiz sessions over a snapshot of records.
package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/verte-zerg/benkyo/internal/grade"
	"github.com/verte-zerg/benkyo/internal/model"
	"github.com/verte-zerg/benkyo/internal/shuffle"
)

// ErrEmptyPool is returned when a session is started without items.
var ErrEmptyPool = errors.New("nothing to review")

// ProgressStore persists resumable session state per scope.
type ProgressStore interface {
	LoadProgress(ctx context.Context, scope model.Scope) (model.SessionState, bool, error)
	SaveProgress(ctx context.Context, state model.SessionState) error
	ClearProgress(ctx context.Context, scope model.Scope) error
}

// MistakeStore persists mistake books.
type MistakeStore interface {
	LoadMistakes(ctx context.Context, domain model.MistakeDomain) (model.MistakeSet, error)
	SaveMistakes(ctx context.Context, domain model.MistakeDomain, set model.MistakeSet) error
}

// StatsStore persists daily counters.
type StatsStore interface {
	LoadDailyStats(ctx context.Context) (model.DailyStats, error)
	SaveDailyStats(ctx context.Context, stats model.DailyStats) error
}

// ReviewMarker stamps lastReviewedAt on the stored record behind an item.
type ReviewMarker interface {
	MarkReviewed(ctx context.Context, rec model.Record, at time.Time) error
}

// Backend bundles every collection a session writes to.
type Backend interface {
	ProgressStore
	MistakeStore
	StatsStore
	ReviewMarker
}

// Status is the lifecycle position of a session.
type Status int

const (
	Idle Status = iota
	InProgress
	Complete
)

func (s Status) String() string {
	switch s {
	case InProgress:
		return "in progress"
	case Complete:
		return "complete"
	default:
		return "idle"
	}
}

// Reviewer creates and restores sessions.
type Reviewer struct {
	backend Backend
	now     func() time.Time
	shuffle shuffle.Func
}

// Option configures a Reviewer.
type Option func(*Reviewer)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(r *Reviewer) { r.now = now }
}

// WithShuffle overrides the permutation applied by Start.
func WithShuffle(fn shuffle.Func) Option {
	return func(r *Reviewer) { r.shuffle = fn }
}

// New returns a Reviewer writing to backend.
func New(backend Backend, opts ...Option) *Reviewer {
	r := &Reviewer{
		backend: backend,
		now:     time.Now,
		shuffle: shuffle.New().Shuffle,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start begins a fresh session over a shuffled copy of pool and persists it.
func (r *Reviewer) Start(ctx context.Context, pool []model.Item, scope model.Scope) (*Session, error) {
	if len(pool) == 0 {
		return nil, ErrEmptyPool
	}
	items := append([]model.Item(nil), pool...)
	r.shuffle(items)
	return r.begin(ctx, model.SessionState{Items: items, Index: 0, Scope: scope})
}

// StartAt begins a session over pool in its given order, positioned at index.
// An out of range index starts from the first item.
func (r *Reviewer) StartAt(ctx context.Context, pool []model.Item, scope model.Scope, index int) (*Session, error) {
	if len(pool) == 0 {
		return nil, ErrEmptyPool
	}
	if index < 0 || index >= len(pool) {
		index = 0
	}
	items := append([]model.Item(nil), pool...)
	return r.begin(ctx, model.SessionState{Items: items, Index: index, Scope: scope})
}

func (r *Reviewer) begin(ctx context.Context, state model.SessionState) (*Session, error) {
	if err := r.backend.SaveProgress(ctx, state); err != nil {
		return nil, fmt.Errorf("save progress: %w", err)
	}
	return &Session{reviewer: r, state: state, status: InProgress}, nil
}

// ResumeCheck returns the persisted session for scope when it still has
// unanswered items. Completed or empty sessions are reported as absent.
func (r *Reviewer) ResumeCheck(ctx context.Context, scope model.Scope) (model.SessionState, bool, error) {
	state, ok, err := r.backend.LoadProgress(ctx, scope)
	if err != nil {
		return model.SessionState{}, false, fmt.Errorf("load progress: %w", err)
	}
	if !ok || !state.Resumable() {
		return model.SessionState{}, false, nil
	}
	return state, true, nil
}

// Resume adopts a persisted state. Empty items are dropped and a cursor
// outside the item list is reset to the first item.
func (r *Reviewer) Resume(state model.SessionState) *Session {
	items := make([]model.Item, 0, len(state.Items))
	index := state.Index
	for i, it := range state.Items {
		if it.Record != nil {
			items = append(items, it)
		} else if i < state.Index {
			index--
		}
	}
	state.Items, state.Index = items, index
	if len(state.Items) == 0 || state.Index < 0 || state.Index >= len(state.Items) {
		state.Index = 0
	}
	status := InProgress
	if len(state.Items) == 0 {
		status = Complete
	}
	return &Session{reviewer: r, state: state, status: status}
}

// Discard clears persisted progress for scope.
func (r *Reviewer) Discard(ctx context.Context, scope model.Scope) error {
	if err := r.backend.ClearProgress(ctx, scope); err != nil {
		return fmt.Errorf("clear progress: %w", err)
	}
	return nil
}

// Session is one bounded pass over a fixed snapshot of items.
type Session struct {
	reviewer *Reviewer
	state    model.SessionState
	status   Status

	answer string
	result *grade.Result
}

// State returns a copy of the traversal state.
func (s *Session) State() model.SessionState {
	st := s.state
	st.Items = append([]model.Item(nil), s.state.Items...)
	return st
}

// Status returns the lifecycle position.
func (s *Session) Status() Status {
	return s.status
}

// Scope returns the scope the session was started for.
func (s *Session) Scope() model.Scope {
	return s.state.Scope
}

// Position returns the zero-based cursor and the item count.
func (s *Session) Position() (index, total int) {
	return s.state.Index, len(s.state.Items)
}

// Current returns the item under the cursor, or false once complete.
func (s *Session) Current() (model.Item, bool) {
	if s.status != InProgress || s.state.Index >= len(s.state.Items) {
		return model.Item{}, false
	}
	return s.state.Items[s.state.Index], true
}

// LastResult returns the grade of the current item and the answer it was
// given, if it has been graded since the last advance.
func (s *Session) LastResult() (grade.Result, string, bool) {
	if s.result == nil {
		return grade.Wrong, "", false
	}
	return *s.result, s.answer, true
}

// Grade scores answer against the current item and records the outcome in
// the mistake book, the daily counters and, on an exact match, the record's
// lastReviewedAt. The cursor does not move.
func (s *Session) Grade(ctx context.Context, answer string) (grade.Result, error) {
	item, ok := s.Current()
	if !ok {
		return grade.Wrong, fmt.Errorf("grade: session is %s", s.status)
	}
	res := grade.Compare(answer, item.Answer())
	r := s.reviewer
	now := r.now()
	domain := s.state.Scope.MistakeDomain()

	mistakes, err := r.backend.LoadMistakes(ctx, domain)
	if err != nil {
		return res, fmt.Errorf("load mistakes: %w", err)
	}
	if res == grade.Exact {
		delete(mistakes, item.Key())
	} else {
		mistakes[item.Key()] = item
	}
	if err := r.backend.SaveMistakes(ctx, domain, mistakes); err != nil {
		return res, fmt.Errorf("save mistakes: %w", err)
	}

	stats, err := r.backend.LoadDailyStats(ctx)
	if err != nil {
		return res, fmt.Errorf("load daily stats: %w", err)
	}
	stats.Record(now, res.Correct())
	if err := r.backend.SaveDailyStats(ctx, stats); err != nil {
		return res, fmt.Errorf("save daily stats: %w", err)
	}

	if res == grade.Exact {
		if err := r.backend.MarkReviewed(ctx, item.Record, now); err != nil {
			return res, fmt.Errorf("mark reviewed: %w", err)
		}
	}

	s.answer = answer
	s.result = &res
	return res, nil
}

// Advance moves to the next item and persists the cursor. Advancing past the
// last item completes the session and clears its persisted progress.
func (s *Session) Advance(ctx context.Context) error {
	if s.status != InProgress {
		return nil
	}
	s.answer = ""
	s.result = nil
	r := s.reviewer
	if s.state.Index+1 < len(s.state.Items) {
		s.state.Index++
		if err := r.backend.SaveProgress(ctx, s.state); err != nil {
			return fmt.Errorf("save progress: %w", err)
		}
		return nil
	}
	s.state.Index = len(s.state.Items)
	s.status = Complete
	if err := r.backend.ClearProgress(ctx, s.state.Scope); err != nil {
		return fmt.Errorf("clear progress: %w", err)
	}
	return nil
}

// Discard abandons the session without completing it.
func (s *Session) Discard(ctx context.Context) error {
	s.answer = ""
	s.result = nil
	s.status = Idle
	return s.reviewer.Discard(ctx, s.state.Scope)
}
