package review

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/JunMun28/littleJourney-sub003/internal/curation"
)

// snapshotSweepInterval is how often expired snapshots are purged when
// a snapshot TTL is configured.
const snapshotSweepInterval = 10 * time.Minute

// Persister writes reviews and recaps through to durable storage. The
// in-memory store stays authoritative: persistence failures are logged
// and never roll back in-memory state.
type Persister interface {
	SaveReview(ctx context.Context, r *YearInReview, originalClips []curation.Clip) error
	SaveRecap(ctx context.Context, r *MonthlyRecap) error
}

type childYear struct {
	childID string
	year    int
}

// Store holds every review and recap of the current session, plus the
// immutable original-clips snapshot for each review. All accessors
// copy on the way in and out so callers can never alias stored state.
type Store struct {
	mu          sync.RWMutex
	reviews     map[string]*YearInReview
	byChildYear map[childYear]string
	recaps      map[string]*MonthlyRecap
	snapshots   *cache.Cache
	persister   Persister
	log         *logrus.Entry
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithPersister enables write-through persistence of reviews and
// recaps.
func WithPersister(p Persister) StoreOption {
	return func(s *Store) {
		s.persister = p
	}
}

// WithSnapshotTTL bounds how long original-clips snapshots are kept.
// Snapshots live forever by default; once one expires, reset and
// add-back for the owning review report ErrNotFound.
func WithSnapshotTTL(ttl time.Duration) StoreOption {
	return func(s *Store) {
		s.snapshots = cache.New(ttl, snapshotSweepInterval)
	}
}

// NewStore creates an empty review store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		reviews:     make(map[string]*YearInReview),
		byChildYear: make(map[childYear]string),
		recaps:      make(map[string]*MonthlyRecap),
		snapshots:   cache.New(cache.NoExpiration, 0),
		log:         logrus.WithField("component", "review-store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Review returns a copy of the review with the given id.
func (s *Store) Review(id string) (*YearInReview, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reviews[id]
	if !ok {
		return nil, false
	}
	return copyReview(r), true
}

// ReviewForChildYear returns a copy of the review for (childID, year).
func (s *Store) ReviewForChildYear(childID string, year int) (*YearInReview, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byChildYear[childYear{childID, year}]
	if !ok {
		return nil, false
	}
	return copyReview(s.reviews[id]), true
}

// ReviewsForChild returns copies of all reviews for a child, most
// recent year first.
func (s *Store) ReviewsForChild(childID string) []*YearInReview {
	s.mu.RLock()
	defer s.mu.RUnlock()
	reviews := make([]*YearInReview, 0)
	for _, r := range s.reviews {
		if r.ChildID == childID {
			reviews = append(reviews, copyReview(r))
		}
	}
	slices.SortFunc(reviews, func(a, b *YearInReview) int {
		return b.Year - a.Year
	})
	return reviews
}

// PutReview stores the review, replacing any prior version in place,
// and writes it through to the persister when one is configured.
func (s *Store) PutReview(ctx context.Context, r *YearInReview) {
	stored := copyReview(r)
	s.mu.Lock()
	s.reviews[stored.ID] = stored
	s.byChildYear[childYear{stored.ChildID, stored.Year}] = stored.ID
	s.mu.Unlock()

	if s.persister == nil {
		return
	}
	snapshot, _ := s.Snapshot(r.ID)
	if err := s.persister.SaveReview(ctx, r, snapshot); err != nil {
		s.log.WithError(err).WithField("reviewId", r.ID).
			Warn("persisting review failed, in-memory state kept")
	}
}

// SetSnapshot records the original curated clips for a review. Set
// exactly once, at generation time; never mutated afterwards.
func (s *Store) SetSnapshot(reviewID string, clips []curation.Clip) {
	s.snapshots.Set(reviewID, slices.Clone(clips), cache.DefaultExpiration)
}

// Snapshot returns a copy of the original curated clips for a review.
func (s *Store) Snapshot(reviewID string) ([]curation.Clip, bool) {
	v, ok := s.snapshots.Get(reviewID)
	if !ok {
		return nil, false
	}
	return slices.Clone(v.([]curation.Clip)), true
}

// Recap returns a copy of the recap with the given id.
func (s *Store) Recap(id string) (*MonthlyRecap, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.recaps[id]
	if !ok {
		return nil, false
	}
	return copyRecap(r), true
}

// PutRecap stores the recap and writes it through to the persister
// when one is configured.
func (s *Store) PutRecap(ctx context.Context, r *MonthlyRecap) {
	stored := copyRecap(r)
	s.mu.Lock()
	s.recaps[stored.ID] = stored
	s.mu.Unlock()

	if s.persister == nil {
		return
	}
	if err := s.persister.SaveRecap(ctx, r); err != nil {
		s.log.WithError(err).WithField("recapId", r.ID).
			Warn("persisting recap failed, in-memory state kept")
	}
}

// Restore seeds the store from persisted state, typically on startup.
// No write-through happens here.
func (s *Store) Restore(reviews []*YearInReview, snapshots map[string][]curation.Clip) {
	s.mu.Lock()
	for _, r := range reviews {
		stored := copyReview(r)
		s.reviews[stored.ID] = stored
		s.byChildYear[childYear{stored.ChildID, stored.Year}] = stored.ID
	}
	s.mu.Unlock()
	for id, clips := range snapshots {
		s.SetSnapshot(id, clips)
	}
}

// RestoreRecaps seeds persisted recaps, typically on startup.
func (s *Store) RestoreRecaps(recaps []*MonthlyRecap) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range recaps {
		s.recaps[r.ID] = copyRecap(r)
	}
}

func copyReview(r *YearInReview) *YearInReview {
	out := *r
	out.Clips = slices.Clone(r.Clips)
	out.RemovedClipIDs = slices.Clone(r.RemovedClipIDs)
	return &out
}

func copyRecap(r *MonthlyRecap) *MonthlyRecap {
	out := *r
	out.Clips = slices.Clone(r.Clips)
	return &out
}
