package review

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/JunMun28/littleJourney-sub003/internal/curation"
	"github.com/JunMun28/littleJourney-sub003/internal/journal"
)

// mockPersister records write-through calls and can be made to fail.
type mockPersister struct {
	reviewSaves int
	recapSaves  int
	err         error
}

func (m *mockPersister) SaveReview(ctx context.Context, r *YearInReview, originalClips []curation.Clip) error {
	m.reviewSaves++
	return m.err
}

func (m *mockPersister) SaveRecap(ctx context.Context, r *MonthlyRecap) error {
	m.recapSaves++
	return m.err
}

func testClip(entryID string, date time.Time) curation.Clip {
	return curation.Clip{
		ID:       curation.ClipID(entryID),
		Entry:    journal.MediaEntry{ID: entryID, Date: date, Type: journal.TypePhoto, MediaURIs: []string{entryID + ".jpg"}},
		PhotoURI: entryID + ".jpg",
		Month:    int(date.Month()),
	}
}

func testReview(id, childID string, year int, clips ...curation.Clip) *YearInReview {
	now := time.Date(year, 12, 20, 0, 0, 0, 0, time.UTC)
	return &YearInReview{
		ID:              id,
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
}

func TestStoreReviewRoundTrip(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	store.PutReview(ctx, testReview("r1", "child-1", 2025, testClip("e1", date)))

	got, ok := store.Review("r1")
	if !ok {
		t.Fatal("Review() did not find stored review")
	}
	if got.ChildID != "child-1" || got.Year != 2025 || len(got.Clips) != 1 {
		t.Errorf("stored review mismatch: %+v", got)
	}

	byYear, ok := store.ReviewForChildYear("child-1", 2025)
	if !ok || byYear.ID != "r1" {
		t.Errorf("ReviewForChildYear() = %+v, %v", byYear, ok)
	}

	if _, ok := store.Review("missing"); ok {
		t.Error("Review() found a review that was never stored")
	}
	if _, ok := store.ReviewForChildYear("child-1", 2024); ok {
		t.Error("ReviewForChildYear() found a review for the wrong year")
	}
}

func TestStoreCopiesOnReturn(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	store.PutReview(ctx, testReview("r1", "child-1", 2025, testClip("e1", date)))

	first, _ := store.Review("r1")
	first.Clips = nil
	first.Status = StatusExported

	second, _ := store.Review("r1")
	if len(second.Clips) != 1 || second.Status != StatusReady {
		t.Error("mutating a returned review leaked into the store")
	}
}

func TestStoreSnapshotImmutable(t *testing.T) {
	store := NewStore()
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	original := []curation.Clip{testClip("e1", date), testClip("e2", date.AddDate(0, 1, 0))}

	store.SetSnapshot("r1", original)

	got, ok := store.Snapshot("r1")
	if !ok || len(got) != 2 {
		t.Fatalf("Snapshot() = %v, %v", got, ok)
	}
	got[0].ID = "tampered"

	again, _ := store.Snapshot("r1")
	if again[0].ID != curation.ClipID("e1") {
		t.Error("mutating a returned snapshot leaked into the store")
	}

	if _, ok := store.Snapshot("missing"); ok {
		t.Error("Snapshot() found a snapshot that was never set")
	}
}

func TestStoreSnapshotTTL(t *testing.T) {
	store := NewStore(WithSnapshotTTL(10 * time.Millisecond))
	store.SetSnapshot("r1", []curation.Clip{testClip("e1", time.Now())})

	if _, ok := store.Snapshot("r1"); !ok {
		t.Fatal("snapshot missing immediately after set")
	}
	time.Sleep(25 * time.Millisecond)
	if _, ok := store.Snapshot("r1"); ok {
		t.Error("snapshot survived past its TTL")
	}
}

func TestStoreWriteThrough(t *testing.T) {
	persister := &mockPersister{}
	store := NewStore(WithPersister(persister))
	ctx := context.Background()

	store.PutReview(ctx, testReview("r1", "child-1", 2025))
	store.PutRecap(ctx, &MonthlyRecap{ID: RecapID("child-1", 2025, 3), ChildID: "child-1", Year: 2025, Month: 3, Status: StatusReady})

	if persister.reviewSaves != 1 || persister.recapSaves != 1 {
		t.Errorf("write-through counts = %d reviews, %d recaps; want 1 and 1",
			persister.reviewSaves, persister.recapSaves)
	}
}

func TestStoreSurvivesPersistenceFailure(t *testing.T) {
	persister := &mockPersister{err: errors.New("connection refused")}
	store := NewStore(WithPersister(persister))
	ctx := context.Background()

	store.PutReview(ctx, testReview("r1", "child-1", 2025))

	if _, ok := store.Review("r1"); !ok {
		t.Error("persistence failure corrupted in-memory state")
	}
}

func TestStoreRestore(t *testing.T) {
	store := NewStore()
	date := time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)
	clip := testClip("e1", date)

	store.Restore(
		[]*YearInReview{testReview("r1", "child-1", 2024, clip)},
		map[string][]curation.Clip{"r1": {clip}},
	)
	store.RestoreRecaps([]*MonthlyRecap{
		{ID: RecapID("child-1", 2024, 8), ChildID: "child-1", Year: 2024, Month: 8, Status: StatusReady},
	})

	if _, ok := store.ReviewForChildYear("child-1", 2024); !ok {
		t.Error("restored review not indexed by child and year")
	}
	if _, ok := store.Snapshot("r1"); !ok {
		t.Error("restored snapshot missing")
	}
	if _, ok := store.Recap(RecapID("child-1", 2024, 8)); !ok {
		t.Error("restored recap missing")
	}
}

func TestStoreReviewsForChild(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	store.PutReview(ctx, testReview("r1", "child-1", 2023))
	store.PutReview(ctx, testReview("r2", "child-1", 2025))
	store.PutReview(ctx, testReview("r3", "child-2", 2025))

	got := store.ReviewsForChild("child-1")
	if len(got) != 2 {
		t.Fatalf("ReviewsForChild() returned %d reviews, want 2", len(got))
	}
	if got[0].Year != 2025 || got[1].Year != 2023 {
		t.Errorf("reviews not ordered most recent first: %d, %d", got[0].Year, got[1].Year)
	}
}
