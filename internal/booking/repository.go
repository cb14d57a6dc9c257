package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultPageSize = 10

type Repository interface {
	Create(ctx context.Context, booking *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, q Query) ([]*Booking, error)

	// UpdateStatus moves a booking from one status to another in a single
	// conditional write. It returns ErrAlreadyDecided when the booking is no
	// longer in the expected status.
	UpdateStatus(ctx context.Context, id string, from, to Status) error

	// ListApprovedByItems returns the approved bookings of the given items ordered by start ascending.
	ListApprovedByItems(ctx context.Context, itemIDs []string) ([]*Booking, error)

	// HasFinished reports whether the user has an approved booking of the item that ended at or before now.
	HasFinished(ctx context.Context, bookerID, itemID string, now time.Time) (bool, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

func selectBookings() squirrel.SelectBuilder {
	return psql.Select(
		"b.id", "b.item_id", "i.name", "i.owner_id", "b.booker_id", "u.name",
		"b.start_time", "b.end_time", "b.status", "b.created_at",
	).
		From("public.bookings b").
		Join("public.items i ON b.item_id = i.id").
		Join("public.users u ON b.booker_id = u.id")
}

// statePredicate renders State.Matches as SQL. It returns nil for StateAll.
func statePredicate(state State, now time.Time) squirrel.Sqlizer {
	switch state {
	case StateCurrent:
		return squirrel.And{
			squirrel.LtOrEq{"b.start_time": now},
			squirrel.Gt{"b.end_time": now},
		}
	case StatePast:
		return squirrel.LtOrEq{"b.end_time": now}
	case StateFuture:
		return squirrel.Gt{"b.start_time": now}
	case StateWaiting:
		return squirrel.Eq{"b.status": StatusWaiting}
	case StateRejected:
		return squirrel.Eq{"b.status": StatusRejected}
	default:
		return nil
	}
}

func subjectPredicate(role Role, subjectID string) squirrel.Sqlizer {
	if role == RoleOwner {
		return squirrel.Eq{"i.owner_id": subjectID}
	}
	return squirrel.Eq{"b.booker_id": subjectID}
}

func buildListQuery(q Query) squirrel.SelectBuilder {
	query := selectBookings().Where(subjectPredicate(q.Role, q.SubjectID))
	if pred := statePredicate(q.State, q.Now); pred != nil {
		query = query.Where(pred)
	}

	limit := q.Page.Limit
	if limit < 1 {
		limit = defaultPageSize
	}
	offset := q.Page.Offset
	if offset < 0 {
		offset = 0
	}

	return query.
		OrderBy("b.start_time DESC", "b.id DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset))
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	err := row.Scan(
		&b.ID, &b.ItemID, &b.ItemName, &b.ItemOwnerID, &b.BookerID, &b.BookerName,
		&b.StartTime, &b.EndTime, &b.Status, &b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *pgxRepository) collect(ctx context.Context, query squirrel.SelectBuilder) ([]*Booking, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	query, args, err := psql.Insert("public.bookings").
		Columns("item_id", "booker_id", "start_time", "end_time", "status").
		Values(b.ItemID, b.BookerID, b.StartTime, b.EndTime, b.Status).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt); err != nil {
		return fmt.Errorf("create booking failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	query, args, err := selectBookings().
		Where(squirrel.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	b, err := scanBooking(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) List(ctx context.Context, q Query) ([]*Booking, error) {
	return r.collect(ctx, buildListQuery(q))
}

func buildUpdateStatus(id string, from, to Status) squirrel.UpdateBuilder {
	return psql.Update("public.bookings").
		Set("status", to).
		Where(squirrel.Eq{"id": id, "status": from})
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, id string, from, to Status) error {
	query, args, err := buildUpdateStatus(id, from, to).ToSql()
	if err != nil {
		return fmt.Errorf("build update booking status query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update booking status failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrAlreadyDecided
	}
	return nil
}

func (r *pgxRepository) ListApprovedByItems(ctx context.Context, itemIDs []string) ([]*Booking, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}

	query := selectBookings().
		Where(squirrel.Eq{"b.item_id": itemIDs, "b.status": StatusApproved}).
		OrderBy("b.start_time ASC", "b.id ASC")
	return r.collect(ctx, query)
}

func buildHasFinished(bookerID, itemID string, now time.Time) squirrel.SelectBuilder {
	return psql.Select("1").
		From("public.bookings b").
		Where(squirrel.Eq{"b.booker_id": bookerID, "b.item_id": itemID, "b.status": StatusApproved}).
		Where(squirrel.LtOrEq{"b.end_time": now})
}

func (r *pgxRepository) HasFinished(ctx context.Context, bookerID, itemID string, now time.Time) (bool, error) {
	sql, args, err := buildHasFinished(bookerID, itemID, now).ToSql()
	if err != nil {
		return false, fmt.Errorf("build finished booking query failed: %w", err)
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, "SELECT EXISTS ("+sql+")", args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check finished booking failed: %w", err)
	}
	return exists, nil
}
