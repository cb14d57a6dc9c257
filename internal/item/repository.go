package item

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultPageSize = 10

	// requestForeignKey is the name Postgres gives the items.request_id reference.
	requestForeignKey = "items_request_id_fkey"
)

type Repository interface {
	Create(ctx context.Context, it *Item) error
	GetByID(ctx context.Context, id string) (*Item, error)
	Update(ctx context.Context, it *Item) error
	ListByOwner(ctx context.Context, ownerID string, offset, limit int) ([]*Item, error)
	// Search matches text against name and description of available items.
	Search(ctx context.Context, text string, offset, limit int) ([]*Item, error)
	ListByRequestIDs(ctx context.Context, requestIDs []string) ([]*Item, error)

	CreateComment(ctx context.Context, c *Comment) error
	// ListCommentsByItems returns comments of the given items, oldest first.
	ListCommentsByItems(ctx context.Context, itemIDs []string) ([]*Comment, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

func selectItems() squirrel.SelectBuilder {
	return psql.Select(
		"i.id", "i.name", "i.description", "i.available", "i.owner_id", "i.request_id", "i.created_at",
	).From("public.items i")
}

func page(query squirrel.SelectBuilder, offset, limit int) squirrel.SelectBuilder {
	if limit < 1 {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return query.Limit(uint64(limit)).Offset(uint64(offset))
}

// escapeLike makes user text match literally inside an ILIKE pattern.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func buildSearch(text string, offset, limit int) squirrel.SelectBuilder {
	pattern := "%" + escapeLike(text) + "%"
	query := selectItems().
		Where(squirrel.Eq{"i.available": true}).
		Where(squirrel.Or{
			squirrel.ILike{"i.name": pattern},
			squirrel.ILike{"i.description": pattern},
		}).
		OrderBy("i.created_at", "i.id")
	return page(query, offset, limit)
}

func buildListByOwner(ownerID string, offset, limit int) squirrel.SelectBuilder {
	query := selectItems().
		Where(squirrel.Eq{"i.owner_id": ownerID}).
		OrderBy("i.created_at", "i.id")
	return page(query, offset, limit)
}

func scanItem(row pgx.Row) (*Item, error) {
	var it Item
	if err := row.Scan(
		&it.ID, &it.Name, &it.Description, &it.Available, &it.OwnerID, &it.RequestID, &it.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *pgxRepository) collect(ctx context.Context, query squirrel.SelectBuilder) ([]*Item, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list items query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list items failed: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item failed: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *pgxRepository) Create(ctx context.Context, it *Item) error {
	query, args, err := psql.Insert("public.items").
		Columns("name", "description", "available", "owner_id", "request_id").
		Values(it.Name, it.Description, it.Available, it.OwnerID, it.RequestID).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create item query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&it.ID, &it.CreatedAt); err != nil {
		if isRequestViolation(err) {
			return ErrRequestNotFound
		}
		return fmt.Errorf("create item failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Item, error) {
	query, args, err := selectItems().Where(squirrel.Eq{"i.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get item query failed: %w", err)
	}

	it, err := scanItem(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get item failed: %w", err)
	}
	return it, nil
}

func (r *pgxRepository) Update(ctx context.Context, it *Item) error {
	query, args, err := psql.Update("public.items").
		Set("name", it.Name).
		Set("description", it.Description).
		Set("available", it.Available).
		Where(squirrel.Eq{"id": it.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update item query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update item failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) ListByOwner(ctx context.Context, ownerID string, offset, limit int) ([]*Item, error) {
	return r.collect(ctx, buildListByOwner(ownerID, offset, limit))
}

func (r *pgxRepository) Search(ctx context.Context, text string, offset, limit int) ([]*Item, error) {
	return r.collect(ctx, buildSearch(text, offset, limit))
}

func (r *pgxRepository) ListByRequestIDs(ctx context.Context, requestIDs []string) ([]*Item, error) {
	if len(requestIDs) == 0 {
		return nil, nil
	}
	query := selectItems().
		Where(squirrel.Eq{"i.request_id": requestIDs}).
		OrderBy("i.created_at", "i.id")
	return r.collect(ctx, query)
}

func (r *pgxRepository) CreateComment(ctx context.Context, c *Comment) error {
	query, args, err := psql.Insert("public.comments").
		Columns("text", "item_id", "author_id").
		Values(c.Text, c.ItemID, c.AuthorID).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create comment query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&c.ID, &c.CreatedAt); err != nil {
		return fmt.Errorf("create comment failed: %w", err)
	}
	return nil
}

func buildListComments(itemIDs []string) squirrel.SelectBuilder {
	return psql.Select("c.id", "c.text", "c.item_id", "c.author_id", "u.name", "c.created_at").
		From("public.comments c").
		Join("public.users u ON c.author_id = u.id").
		Where(squirrel.Eq{"c.item_id": itemIDs}).
		OrderBy("c.created_at", "c.id")
}

func (r *pgxRepository) ListCommentsByItems(ctx context.Context, itemIDs []string) ([]*Comment, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}

	query, args, err := buildListComments(itemIDs).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list comments query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list comments failed: %w", err)
	}
	defer rows.Close()

	var comments []*Comment
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.Text, &c.ItemID, &c.AuthorID, &c.AuthorName, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment failed: %w", err)
		}
		comments = append(comments, &c)
	}
	return comments, rows.Err()
}

func isRequestViolation(err error) bool {
	var e *pgconn.PgError
	return errors.As(err, &e) &&
		e.Code == pgerrcode.ForeignKeyViolation &&
		e.ConstraintName == requestForeignKey
}
