package review

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/JunMun28/littleJourney-sub003/internal/curation"
	"github.com/JunMun28/littleJourney-sub003/internal/journal"
	"github.com/JunMun28/littleJourney-sub003/internal/notify"
)

// EntrySource provides a child's curatable journal entries: photo
// entries carrying at least one media attachment. The curation layer
// still guards against bare photo entries but does not re-filter by
// type.
type EntrySource interface {
	EntriesForYear(ctx context.Context, childID string, year int) ([]journal.MediaEntry, error)
	EntriesForMonth(ctx context.Context, childID string, year, month int) ([]journal.MediaEntry, error)
}

// MilestoneSource provides a child's completed milestones.
type MilestoneSource interface {
	CompletedMilestones(ctx context.Context, childID string) ([]journal.Milestone, error)
}

// ChildSource provides the currently active child profile, or nil when
// no child is active.
type ChildSource interface {
	ActiveChild(ctx context.Context) (*journal.Child, error)
}

// Notifier schedules a push notification for immediate display.
type Notifier interface {
	Schedule(ctx context.Context, n notify.Notification) error
}

// yearEndWindowStartDay opens the December prompt window (Dec 15-31).
const yearEndWindowStartDay = 15

// Service is the review lifecycle API: generation, customization,
// reset, export marking, and prompt logic.
type Service struct {
	store      *Store
	entries    EntrySource
	milestones MilestoneSource
	children   ChildSource
	notifier   Notifier
	now        func() time.Time
	log        *logrus.Entry

	// writeMu serializes mutating operations so two logically
	// concurrent calls for the same review never interleave partial
	// reads and writes of its clip list.
	writeMu sync.Mutex
}

// NewService creates the review lifecycle service.
func NewService(store *Store, entries EntrySource, milestones MilestoneSource, children ChildSource, notifier Notifier) *Service {
	return &Service{
		store:      store,
		entries:    entries,
		milestones: milestones,
		children:   children,
		notifier:   notifier,
		now:        time.Now,
		log:        logrus.WithField("component", "review-service"),
	}
}

// GenerateYearInReview creates the review for (childID, year), or
// returns the existing one unchanged: a strict identity lookup, no
// re-scoring or merging. A year without matching entries yields a
// ready review with an empty clip list, not an error.
func (s *Service) GenerateYearInReview(ctx context.Context, childID string, year int) (*YearInReview, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if existing, ok := s.store.ReviewForChildYear(childID, year); ok {
		return existing, nil
	}

	entries, err := s.entries.EntriesForYear(ctx, childID, year)
	if err != nil {
		return nil, fmt.Errorf("loading entries for %d: %w", year, err)
	}
	milestones, err := s.milestones.CompletedMilestones(ctx, childID)
	if err != nil {
		return nil, fmt.Errorf("loading milestones: %w", err)
	}

	clips := curation.Curate(entries, milestones, curation.YearlyConfig())
	now := s.now()
	r := &YearInReview{
		ID:              uuid.New().String(),
		ChildID:         childID,
		Year:            year,
		Status:          StatusReady,
		Clips:           clips,
		RemovedClipIDs:  []string{},
		SelectedMusicID: DefaultMusicID(),
		TransitionStyle: TransitionFade,
		ExportQuality:   Quality1080p,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	s.store.SetSnapshot(r.ID, clips)
	s.store.PutReview(ctx, r)

	s.log.WithFields(logrus.Fields{
		"childId": childID,
		"year":    year,
		"clips":   len(clips),
	}).Info("generated year in review")
	return r, nil
}

// CustomizeInput mutates a review. Nil pointer fields leave the
// corresponding setting untouched.
type CustomizeInput struct {
	ReviewID        string   `json:"reviewId"`
	RemoveClipIDs   []string `json:"removeClipIds,omitempty"`
	AddClipIDs      []string `json:"addClipIds,omitempty"`
	SelectedMusicID *string  `json:"selectedMusicId,omitempty"`
	TransitionStyle *string  `json:"transitionStyle,omitempty"`
	ExportQuality   *string  `json:"exportQuality,omitempty"`
}

// CustomizeYearInReview applies clip removals, add-backs from the
// original snapshot, and setting overwrites, then persists the review
// in place. Returns ErrNotFound when the review does not exist.
func (s *Service) CustomizeYearInReview(ctx context.Context, input CustomizeInput) (*YearInReview, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	r, ok := s.store.Review(input.ReviewID)
	if !ok {
		return nil, fmt.Errorf("customizing review %s: %w", input.ReviewID, ErrNotFound)
	}

	if len(input.RemoveClipIDs) > 0 {
		removeClips(r, input.RemoveClipIDs)
	}
	if len(input.AddClipIDs) > 0 {
		// Add-backs only ever come from the original snapshot. An
		// evicted snapshot means nothing is available to add.
		if snapshot, ok := s.store.Snapshot(r.ID); ok {
			addBackClips(r, snapshot, input.AddClipIDs)
		}
	}
	if input.SelectedMusicID != nil {
		r.SelectedMusicID = *input.SelectedMusicID
	}
	if input.TransitionStyle != nil {
		r.TransitionStyle = *input.TransitionStyle
	}
	if input.ExportQuality != nil {
		r.ExportQuality = *input.ExportQuality
	}

	curation.SortChronological(r.Clips)
	r.UpdatedAt = s.now()
	s.store.PutReview(ctx, r)
	return r, nil
}

// ResetToAISuggestion replaces the clip list with the original
// snapshot and clears the removed-clip ledger. Music, transition, and
// quality settings are untouched. Returns ErrNotFound when the review
// or its snapshot is missing.
func (s *Service) ResetToAISuggestion(ctx context.Context, reviewID string) (*YearInReview, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	r, ok := s.store.Review(reviewID)
	if !ok {
		return nil, fmt.Errorf("resetting review %s: %w", reviewID, ErrNotFound)
	}
	snapshot, ok := s.store.Snapshot(reviewID)
	if !ok {
		return nil, fmt.Errorf("snapshot for review %s: %w", reviewID, ErrNotFound)
	}

	r.Clips = snapshot
	r.RemovedClipIDs = []string{}
	curation.SortChronological(r.Clips)
	r.UpdatedAt = s.now()
	s.store.PutReview(ctx, r)
	return r, nil
}

// AvailableClips returns the original-snapshot clips not currently in
// the review: the add-back candidates. An unknown review yields an
// empty list, never an error.
func (s *Service) AvailableClips(reviewID string) []curation.Clip {
	r, ok := s.store.Review(reviewID)
	if !ok {
		return []curation.Clip{}
	}
	snapshot, ok := s.store.Snapshot(reviewID)
	if !ok {
		return []curation.Clip{}
	}

	present := make(map[string]bool, len(r.Clips))
	for _, c := range r.Clips {
		present[c.ID] = true
	}
	available := make([]curation.Clip, 0, len(snapshot))
	for _, c := range snapshot {
		if !present[c.ID] {
			available = append(available, c)
		}
	}
	return available
}

// GenerateMonthlyRecap creates the recap for (childID, year, month),
// or returns the existing one. Idempotent by construction: the recap
// id is derived from all three inputs.
func (s *Service) GenerateMonthlyRecap(ctx context.Context, childID string, year, month int) (*MonthlyRecap, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("month out of range: %d", month)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	id := RecapID(childID, year, month)
	if existing, ok := s.store.Recap(id); ok {
		return existing, nil
	}

	entries, err := s.entries.EntriesForMonth(ctx, childID, year, month)
	if err != nil {
		return nil, fmt.Errorf("loading entries for %d-%02d: %w", year, month, err)
	}
	milestones, err := s.milestones.CompletedMilestones(ctx, childID)
	if err != nil {
		return nil, fmt.Errorf("loading milestones: %w", err)
	}

	recap := &MonthlyRecap{
		ID:        id,
		ChildID:   childID,
		Year:      year,
		Month:     month,
		Status:    StatusReady,
		Clips:     curation.Curate(entries, milestones, curation.MonthlyConfig()),
		CreatedAt: s.now(),
	}
	s.store.PutRecap(ctx, recap)
	return recap, nil
}

// MarkAsExported records the rendered video handle and finalizes the
// review. Unknown ids are tolerated silently: export completion
// callbacks may arrive after the store was reset for an unrelated
// reason.
func (s *Service) MarkAsExported(ctx context.Context, reviewID, exportedURI string) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	r, ok := s.store.Review(reviewID)
	if !ok {
		s.log.WithField("reviewId", reviewID).Debug("export callback for unknown review ignored")
		return
	}
	r.Status = StatusExported
	r.ExportedURI = exportedURI
	r.UpdatedAt = s.now()
	s.store.PutReview(ctx, r)
}

// GetYearInReview returns the review with the given id.
func (s *Service) GetYearInReview(reviewID string) (*YearInReview, error) {
	r, ok := s.store.Review(reviewID)
	if !ok {
		return nil, fmt.Errorf("review %s: %w", reviewID, ErrNotFound)
	}
	return r, nil
}

// ListYearInReviews returns all reviews for a child, most recent year
// first.
func (s *Service) ListYearInReviews(childID string) []*YearInReview {
	return s.store.ReviewsForChild(childID)
}

// GetMonthlyRecap returns the recap with the given id.
func (s *Service) GetMonthlyRecap(recapID string) (*MonthlyRecap, error) {
	r, ok := s.store.Recap(recapID)
	if !ok {
		return nil, fmt.Errorf("recap %s: %w", recapID, ErrNotFound)
	}
	return r, nil
}

// IsPromptNeeded reports whether the yearly prompt should be surfaced
// for the given child: the child is the active one, has a birth date,
// today is their birthday or falls in the December 15-31 window, and
// no review exists yet for the current year.
func (s *Service) IsPromptNeeded(ctx context.Context, childID string) (bool, error) {
	child, err := s.children.ActiveChild(ctx)
	if err != nil {
		return false, fmt.Errorf("loading active child: %w", err)
	}
	if child == nil || child.ID != childID || child.BirthDate == nil {
		return false, nil
	}

	today := s.now()
	birthday := child.BirthDate.Month() == today.Month() && child.BirthDate.Day() == today.Day()
	yearEnd := today.Month() == time.December && today.Day() >= yearEndWindowStartDay
	if !birthday && !yearEnd {
		return false, nil
	}

	if _, ok := s.store.ReviewForChildYear(childID, today.Year()); ok {
		return false, nil
	}
	return true, nil
}

// SendPrompt fires a best-effort push prompting the yearly review.
// A scheduling failure is reported as false, never as an error: a
// failed prompt must not break the surrounding flow.
func (s *Service) SendPrompt(ctx context.Context, childID string) bool {
	child, err := s.children.ActiveChild(ctx)
	if err != nil {
		s.log.WithError(err).Warn("loading active child for prompt")
		return false
	}
	if child == nil || child.ID != childID {
		return false
	}

	year := s.now().Year()
	n := notify.Notification{
		Title: fmt.Sprintf("%s's Year in Review is ready to make", child.Name),
		Body:  fmt.Sprintf("Relive %s's favorite moments from %d in one highlight reel.", child.Name, year),
		Data: map[string]string{
			"childId": child.ID,
			"year":    strconv.Itoa(year),
			"kind":    "year-in-review-prompt",
		},
	}
	if err := s.notifier.Schedule(ctx, n); err != nil {
		s.log.WithError(err).WithField("childId", childID).
			Warn("scheduling year-in-review prompt failed")
		return false
	}
	return true
}

// removeClips drops the listed clip ids from the review and records
// them in the removed-clip ledger.
func removeClips(r *YearInReview, ids []string) {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := r.Clips[:0]
	for _, c := range r.Clips {
		if drop[c.ID] {
			if !slices.Contains(r.RemovedClipIDs, c.ID) {
				r.RemovedClipIDs = append(r.RemovedClipIDs, c.ID)
			}
			continue
		}
		kept = append(kept, c)
	}
	r.Clips = kept
}

// addBackClips pulls the listed clip ids back out of the original
// snapshot, skipping ids already present, and clears them from the
// removed-clip ledger.
func addBackClips(r *YearInReview, snapshot []curation.Clip, ids []string) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	present := make(map[string]bool, len(r.Clips))
	for _, c := range r.Clips {
		present[c.ID] = true
	}
	for _, c := range snapshot {
		if want[c.ID] && !present[c.ID] {
			r.Clips = append(r.Clips, c)
			present[c.ID] = true
		}
	}
	r.RemovedClipIDs = slices.DeleteFunc(r.RemovedClipIDs, func(id string) bool {
		return want[id]
	})
}
