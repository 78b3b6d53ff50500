package persistence

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/tetherhq/tether/internal/calendar/domain"
)

// SQLiteConnectedCalendarRepository implements ConnectedCalendarRepository
// using SQLite, for local single-user deployments.
type SQLiteConnectedCalendarRepository struct {
	db *sql.DB
}

// NewSQLiteConnectedCalendarRepository creates a new SQLite connected calendar repository.
func NewSQLiteConnectedCalendarRepository(db *sql.DB) *SQLiteConnectedCalendarRepository {
	return &SQLiteConnectedCalendarRepository{db: db}
}

// Save persists a connected calendar (create or update).
func (r *SQLiteConnectedCalendarRepository) Save(ctx context.Context, cal *domain.ConnectedCalendar) error {
	query := `
		INSERT INTO connected_calendars (
			id, user_id, provider, calendar_id, name, is_primary, is_enabled,
			config, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, provider, calendar_id) DO UPDATE SET
			name = excluded.name,
			is_primary = excluded.is_primary,
			is_enabled = excluded.is_enabled,
			config = excluded.config,
			updated_at = excluded.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		cal.ID().String(),
		cal.UserID().String(),
		cal.Provider().String(),
		cal.CalendarID(),
		cal.Name(),
		boolToInt(cal.IsPrimary()),
		boolToInt(cal.IsEnabled()),
		cal.ConfigJSON(),
		cal.CreatedAt().Format(time.RFC3339),
		cal.UpdatedAt().Format(time.RFC3339),
	)
	return err
}

// FindByID finds a connected calendar by ID.
func (r *SQLiteConnectedCalendarRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.ConnectedCalendar, error) {
	query := selectColumns + ` WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id.String())
	return r.scanCalendar(row)
}

// FindByUser finds all connected calendars for a user.
func (r *SQLiteConnectedCalendarRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.ConnectedCalendar, error) {
	query := selectColumns + ` WHERE user_id = ? ORDER BY is_primary DESC, name`

	rows, err := r.db.QueryContext(ctx, query, userID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanCalendars(rows)
}

// FindPrimaryByUser finds the user's enabled primary calendar.
func (r *SQLiteConnectedCalendarRepository) FindPrimaryByUser(ctx context.Context, userID uuid.UUID) (*domain.ConnectedCalendar, error) {
	query := selectColumns + ` WHERE user_id = ? AND is_primary = 1 AND is_enabled = 1 LIMIT 1`
	row := r.db.QueryRowContext(ctx, query, userID.String())
	return r.scanCalendar(row)
}

// Delete removes a connected calendar.
func (r *SQLiteConnectedCalendarRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM connected_calendars WHERE id = ?`, id.String())
	return err
}

const selectColumns = `
	SELECT id, user_id, provider, calendar_id, name, is_primary, is_enabled,
	       config, created_at, updated_at
	FROM connected_calendars`

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *SQLiteConnectedCalendarRepository) scanCalendar(row rowScanner) (*domain.ConnectedCalendar, error) {
	var (
		idStr, userIDStr, provider, calendarID, name string
		isPrimary, isEnabled                         int
		config, createdAtStr, updatedAtStr           string
	)

	err := row.Scan(&idStr, &userIDStr, &provider, &calendarID, &name,
		&isPrimary, &isEnabled, &config, &createdAtStr, &updatedAtStr)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, err
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, err
	}
	createdAt, err := time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, err
	}
	updatedAt, err := time.Parse(time.RFC3339, updatedAtStr)
	if err != nil {
		return nil, err
	}

	return domain.RehydrateConnectedCalendar(
		id, userID, domain.ProviderType(provider), calendarID, name,
		isPrimary != 0, isEnabled != 0, config, createdAt, updatedAt,
	), nil
}

func (r *SQLiteConnectedCalendarRepository) scanCalendars(rows *sql.Rows) ([]*domain.ConnectedCalendar, error) {
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

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
