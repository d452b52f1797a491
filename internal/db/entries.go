package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JunMun28/littleJourney-sub003/internal/journal"
)

// EntryRepository reads journal entries for curation. The review
// engine consumes photo entries carrying at least one media
// attachment, so the queries filter to that up front and the engine
// does not re-filter by type.
type EntryRepository struct {
	pool *pgxpool.Pool
}

// EntriesForYear retrieves a child's curatable entries dated within
// the given calendar year, ordered by date.
func (r *EntryRepository) EntriesForYear(ctx context.Context, childID string, year int) ([]journal.MediaEntry, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return r.queryEntries(ctx, childID, start, start.AddDate(1, 0, 0))
}

// EntriesForMonth retrieves a child's curatable entries dated within
// the given calendar month, ordered by date.
func (r *EntryRepository) EntriesForMonth(ctx context.Context, childID string, year, month int) ([]journal.MediaEntry, error) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return r.queryEntries(ctx, childID, start, start.AddDate(0, 1, 0))
}

func (r *EntryRepository) queryEntries(ctx context.Context, childID string, start, end time.Time) ([]journal.MediaEntry, error) {
	query := `
		SELECT id, child_id, entry_date, entry_type, media_uris, caption, ai_labels, audio_uri, milestone_id
		FROM entries
		WHERE child_id = $1
		  AND entry_type = 'photo'
		  AND cardinality(media_uris) > 0
		  AND entry_date >= $2
		  AND entry_date < $3
		ORDER BY entry_date
	`
	rows, err := r.pool.Query(ctx, query, childID, start, end)
	if err != nil {
		return nil, fmt.Errorf("querying entries: %w", err)
	}
	defer rows.Close()

	var entries []journal.MediaEntry
	for rows.Next() {
		var (
			entry       journal.MediaEntry
			caption     *string
			audioURI    *string
			milestoneID *string
		)
		if err := rows.Scan(
			&entry.ID,
			&entry.ChildID,
			&entry.Date,
			&entry.Type,
			&entry.MediaURIs,
			&caption,
			&entry.AILabels,
			&audioURI,
			&milestoneID,
		); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		if caption != nil {
			entry.Caption = *caption
		}
		if audioURI != nil {
			entry.AudioURI = *audioURI
		}
		if milestoneID != nil {
			entry.MilestoneID = *milestoneID
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
