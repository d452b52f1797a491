package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JunMun28/littleJourney-sub003/internal/curation"
	"github.com/JunMun28/littleJourney-sub003/internal/review"
)

// ReviewRepository is the write-through side of the in-memory review
// store. Clip lists are stored as JSONB documents; the original
// curated list is kept alongside the current one so reset and add-back
// survive a restart.
type ReviewRepository struct {
	pool *pgxpool.Pool
}

// SaveReview upserts a review together with its original-clips
// snapshot.
func (r *ReviewRepository) SaveReview(ctx context.Context, rev *review.YearInReview, originalClips []curation.Clip) error {
	clips, err := json.Marshal(rev.Clips)
	if err != nil {
		return fmt.Errorf("encoding clips: %w", err)
	}
	original, err := json.Marshal(originalClips)
	if err != nil {
		return fmt.Errorf("encoding original clips: %w", err)
	}

	query := `
		INSERT INTO year_in_reviews (
			id, child_id, year, status, clips, original_clips, removed_clip_ids,
			selected_music_id, transition_style, export_quality, exported_uri,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			status            = EXCLUDED.status,
			clips             = EXCLUDED.clips,
			removed_clip_ids  = EXCLUDED.removed_clip_ids,
			selected_music_id = EXCLUDED.selected_music_id,
			transition_style  = EXCLUDED.transition_style,
			export_quality    = EXCLUDED.export_quality,
			exported_uri      = EXCLUDED.exported_uri,
			updated_at        = EXCLUDED.updated_at
	`
	_, err = r.pool.Exec(ctx, query,
		rev.ID,
		rev.ChildID,
		rev.Year,
		string(rev.Status),
		clips,
		original,
		rev.RemovedClipIDs,
		rev.SelectedMusicID,
		rev.TransitionStyle,
		rev.ExportQuality,
		rev.ExportedURI,
		rev.CreatedAt,
		rev.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upserting review: %w", err)
	}
	return nil
}

// SaveRecap inserts a recap. Recaps are immutable after creation, so
// conflicting ids are left untouched.
func (r *ReviewRepository) SaveRecap(ctx context.Context, recap *review.MonthlyRecap) error {
	clips, err := json.Marshal(recap.Clips)
	if err != nil {
		return fmt.Errorf("encoding clips: %w", err)
	}

	query := `
		INSERT INTO monthly_recaps (id, child_id, year, month, status, clips, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`
	_, err = r.pool.Exec(ctx, query,
		recap.ID,
		recap.ChildID,
		recap.Year,
		recap.Month,
		string(recap.Status),
		clips,
		recap.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting recap: %w", err)
	}
	return nil
}

// LoadReviews retrieves all persisted reviews and their original-clips
// snapshots, keyed by review id. Used to rehydrate the in-memory store
// on startup.
func (r *ReviewRepository) LoadReviews(ctx context.Context) ([]*review.YearInReview, map[string][]curation.Clip, error) {
	query := `
		SELECT id, child_id, year, status, clips, original_clips, removed_clip_ids,
		       selected_music_id, transition_style, export_quality, exported_uri,
		       created_at, updated_at
		FROM year_in_reviews
		ORDER BY created_at
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("querying reviews: %w", err)
	}
	defer rows.Close()

	var reviews []*review.YearInReview
	snapshots := make(map[string][]curation.Clip)
	for rows.Next() {
		var (
			rev      review.YearInReview
			status   string
			clips    []byte
			original []byte
		)
		if err := rows.Scan(
			&rev.ID,
			&rev.ChildID,
			&rev.Year,
			&status,
			&clips,
			&original,
			&rev.RemovedClipIDs,
			&rev.SelectedMusicID,
			&rev.TransitionStyle,
			&rev.ExportQuality,
			&rev.ExportedURI,
			&rev.CreatedAt,
			&rev.UpdatedAt,
		); err != nil {
			return nil, nil, fmt.Errorf("scanning review: %w", err)
		}
		rev.Status = review.Status(status)
		if err := json.Unmarshal(clips, &rev.Clips); err != nil {
			return nil, nil, fmt.Errorf("decoding clips for review %s: %w", rev.ID, err)
		}
		var snapshot []curation.Clip
		if err := json.Unmarshal(original, &snapshot); err != nil {
			return nil, nil, fmt.Errorf("decoding original clips for review %s: %w", rev.ID, err)
		}
		reviews = append(reviews, &rev)
		snapshots[rev.ID] = snapshot
	}
	return reviews, snapshots, rows.Err()
}

// LoadRecaps retrieves all persisted recaps, used to rehydrate the
// in-memory store on startup.
func (r *ReviewRepository) LoadRecaps(ctx context.Context) ([]*review.MonthlyRecap, error) {
	query := `
		SELECT id, child_id, year, month, status, clips, created_at
		FROM monthly_recaps
		ORDER BY created_at
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying recaps: %w", err)
	}
	defer rows.Close()

	var recaps []*review.MonthlyRecap
	for rows.Next() {
		var (
			recap  review.MonthlyRecap
			status string
			clips  []byte
		)
		if err := rows.Scan(
			&recap.ID,
			&recap.ChildID,
			&recap.Year,
			&recap.Month,
			&status,
			&clips,
			&recap.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning recap: %w", err)
		}
		recap.Status = review.Status(status)
		if err := json.Unmarshal(clips, &recap.Clips); err != nil {
			return nil, fmt.Errorf("decoding clips for recap %s: %w", recap.ID, err)
		}
		recaps = append(recaps, &recap)
	}
	return recaps, rows.Err()
}
