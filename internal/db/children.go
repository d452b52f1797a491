package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JunMun28/littleJourney-sub003/internal/journal"
)

// ChildRepository reads child profiles.
type ChildRepository struct {
	pool *pgxpool.Pool
}

// ActiveChild retrieves the currently active child profile. Returns
// (nil, nil) when no child is active: callers treat that as "nothing
// to prompt", not as a failure.
func (r *ChildRepository) ActiveChild(ctx context.Context) (*journal.Child, error) {
	query := `
		SELECT id, name, birth_date, is_active
		FROM children
		WHERE is_active
		ORDER BY created_at
		LIMIT 1
	`
	var child journal.Child
	err := r.pool.QueryRow(ctx, query).Scan(
		&child.ID,
		&child.Name,
		&child.BirthDate,
		&child.IsActive,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying active child: %w", err)
	}
	return &child, nil
}

// Child retrieves a child profile by id.
func (r *ChildRepository) Child(ctx context.Context, id string) (*journal.Child, error) {
	query := `
		SELECT id, name, birth_date, is_active
		FROM children
		WHERE id = $1
	`
	var child journal.Child
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&child.ID,
		&child.Name,
		&child.BirthDate,
		&child.IsActive,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying child: %w", err)
	}
	return &child, nil
}
