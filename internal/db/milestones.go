package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JunMun28/littleJourney-sub003/internal/journal"
)

// MilestoneRepository reads completed milestones for curation.
type MilestoneRepository struct {
	pool *pgxpool.Pool
}

// CompletedMilestones retrieves all completed milestones for a child,
// ordered by completion date.
func (r *MilestoneRepository) CompletedMilestones(ctx context.Context, childID string) ([]journal.Milestone, error) {
	query := `
		SELECT id, child_id, title, completed_at, entry_id
		FROM milestones
		WHERE child_id = $1
		  AND completed_at IS NOT NULL
		ORDER BY completed_at
	`
	rows, err := r.pool.Query(ctx, query, childID)
	if err != nil {
		return nil, fmt.Errorf("querying milestones: %w", err)
	}
	defer rows.Close()

	var milestones []journal.Milestone
	for rows.Next() {
		var (
			m       journal.Milestone
			entryID *string
		)
		if err := rows.Scan(&m.ID, &m.ChildID, &m.Title, &m.CompletedAt, &entryID); err != nil {
			return nil, fmt.Errorf("scanning milestone: %w", err)
		}
		if entryID != nil {
			m.EntryID = *entryID
		}
		milestones = append(milestones, m)
	}
	return milestones, rows.Err()
}
