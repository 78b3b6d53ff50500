package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tetherhq/tether/internal/calendar/domain"
)

// PostgresConnectedCalendarRepository implements ConnectedCalendarRepository
// using PostgreSQL.
type PostgresConnectedCalendarRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresConnectedCalendarRepository creates a new PostgreSQL connected calendar repository.
func NewPostgresConnectedCalendarRepository(pool *pgxpool.Pool) *PostgresConnectedCalendarRepository {
	return &PostgresConnectedCalendarRepository{pool: pool}
}

// Save persists a connected calendar (create or update).
func (r *PostgresConnectedCalendarRepository) Save(ctx context.Context, cal *domain.ConnectedCalendar) error {
	query := `
		INSERT INTO connected_calendars (
			id, user_id, provider, calendar_id, name, is_primary, is_enabled,
			config, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id, provider, calendar_id) DO UPDATE SET
			name = EXCLUDED.name,
			is_primary = EXCLUDED.is_primary,
			is_enabled = EXCLUDED.is_enabled,
			config = EXCLUDED.config,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.pool.Exec(ctx, query,
		cal.ID(),
		cal.UserID(),
		cal.Provider().String(),
		cal.CalendarID(),
		cal.Name(),
		cal.IsPrimary(),
		cal.IsEnabled(),
		cal.ConfigJSON(),
		cal.CreatedAt(),
		cal.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("save connected calendar: %w", err)
	}
	return nil
}

// FindByID finds a connected calendar by ID.
func (r *PostgresConnectedCalendarRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.ConnectedCalendar, error) {
	query := pgSelectColumns + ` WHERE id = $1`
	return r.scanCalendar(r.pool.QueryRow(ctx, query, id))
}

// FindByUser finds all connected calendars for a user.
func (r *PostgresConnectedCalendarRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.ConnectedCalendar, error) {
	query := pgSelectColumns + ` WHERE user_id = $1 ORDER BY is_primary DESC, name`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	calendars := make([]*domain.ConnectedCalendar, 0)
	for rows.Next() {
		cal, err := r.scanCalendar(rows)
		if err != nil {
			return nil, err
		}
		calendars = append(calendars, cal)
	}
	return calendars, rows.Err()
}

// FindPrimaryByUser finds the user's enabled primary calendar.
func (r *PostgresConnectedCalendarRepository) FindPrimaryByUser(ctx context.Context, userID uuid.UUID) (*domain.ConnectedCalendar, error) {
	query := pgSelectColumns + ` WHERE user_id = $1 AND is_primary AND is_enabled LIMIT 1`
	return r.scanCalendar(r.pool.QueryRow(ctx, query, userID))
}

// Delete removes a connected calendar.
func (r *PostgresConnectedCalendarRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM connected_calendars WHERE id = $1`, id)
	return err
}

const pgSelectColumns = `
	SELECT id, user_id, provider, calendar_id, name, is_primary, is_enabled,
	       config, created_at, updated_at
	FROM connected_calendars`

func (r *PostgresConnectedCalendarRepository) scanCalendar(row pgx.Row) (*domain.ConnectedCalendar, error) {
	var (
		id, userID           uuid.UUID
		provider, calendarID string
		name, config         string
		isPrimary, isEnabled bool
		createdAt, updatedAt time.Time
	)

	err := row.Scan(&id, &userID, &provider, &calendarID, &name,
		&isPrimary, &isEnabled, &config, &createdAt, &updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return domain.RehydrateConnectedCalendar(
		id, userID, domain.ProviderType(provider), calendarID, name,
		isPrimary, isEnabled, config, createdAt, updatedAt,
	), nil
}
