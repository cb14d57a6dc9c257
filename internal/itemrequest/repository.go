package itemrequest

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, r *ItemRequest) error
	GetByID(ctx context.Context, id string) (*ItemRequest, error)
	// ListByRequester returns the user's own requests, newest first.
	ListByRequester(ctx context.Context, requesterID string) ([]*ItemRequest, error)
	// ListOthers returns requests of everyone except the user, newest first.
	ListOthers(ctx context.Context, userID string, offset, limit int) ([]*ItemRequest, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, req *ItemRequest) error {
	const query = `
		INSERT INTO public.requests (description, requester_id)
		VALUES ($1, $2)
		RETURNING id, created_at
	`
	if err := r.pool.QueryRow(ctx, query, req.Description, req.RequesterID).Scan(&req.ID, &req.CreatedAt); err != nil {
		return fmt.Errorf("create request failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*ItemRequest, error) {
	const query = `
		SELECT id, description, requester_id, created_at
		FROM public.requests
		WHERE id = $1
	`
	var req ItemRequest
	if err := r.pool.QueryRow(ctx, query, id).Scan(&req.ID, &req.Description, &req.RequesterID, &req.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get request failed: %w", err)
	}
	return &req, nil
}

func (r *pgxRepository) ListByRequester(ctx context.Context, requesterID string) ([]*ItemRequest, error) {
	const query = `
		SELECT id, description, requester_id, created_at
		FROM public.requests
		WHERE requester_id = $1
		ORDER BY created_at DESC, id DESC
	`
	return r.collect(ctx, query, requesterID)
}

func (r *pgxRepository) ListOthers(ctx context.Context, userID string, offset, limit int) ([]*ItemRequest, error) {
	const query = `
		SELECT id, description, requester_id, created_at
		FROM public.requests
		WHERE requester_id <> $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	return r.collect(ctx, query, userID, limit, offset)
}

func (r *pgxRepository) collect(ctx context.Context, query string, args ...any) ([]*ItemRequest, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list requests failed: %w", err)
	}
	defer rows.Close()

	var result []*ItemRequest
	for rows.Next() {
		var req ItemRequest
		if err := rows.Scan(&req.ID, &req.Description, &req.RequesterID, &req.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan request failed: %w", err)
		}
		result = append(result, &req)
	}
	return result, rows.Err()
}
