package persistence

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tetherhq/tether/internal/calendar/domain"

	_ "modernc.org/sqlite"
)

// setupTestDB creates an in-memory SQLite database with the schema applied.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	sqlDB, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// An in-memory database exists per connection.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	schemaPath := filepath.Join("..", "..", "..", "..", "migrations", "sqlite", "000001_connected_calendars.up.sql")
	schema, err := os.ReadFile(schemaPath)
	require.NoError(t, err, "Failed to read SQLite schema file")

	_, err = sqlDB.Exec(string(schema))
	require.NoError(t, err, "Failed to apply SQLite schema")

	return sqlDB
}

func newCalendar(t *testing.T, userID uuid.UUID, calendarID string) *domain.ConnectedCalendar {
	t.Helper()
	cal, err := domain.NewConnectedCalendar(userID, domain.ProviderCalDAV, calendarID, "Home")
	require.NoError(t, err)
	return cal
}

func TestSQLiteConnectedCalendarRepository_SaveAndFindByID(t *testing.T) {
	repo := NewSQLiteConnectedCalendarRepository(setupTestDB(t))
	ctx := context.Background()
	userID := uuid.New()

	cal := newCalendar(t, userID, "/calendars/home/")
	cal.SetConfig("base_url", "https://caldav.example.com")
	require.NoError(t, repo.Save(ctx, cal))

	found, err := repo.FindByID(ctx, cal.ID())

	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, cal.ID(), found.ID())
	assert.Equal(t, userID, found.UserID())
	assert.Equal(t, domain.ProviderCalDAV, found.Provider())
	assert.Equal(t, "/calendars/home/", found.CalendarID())
	assert.Equal(t, "https://caldav.example.com", found.Config("base_url"))
}

func TestSQLiteConnectedCalendarRepository_FindByID_NotFound(t *testing.T) {
	repo := NewSQLiteConnectedCalendarRepository(setupTestDB(t))

	found, err := repo.FindByID(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestSQLiteConnectedCalendarRepository_SaveUpdates(t *testing.T) {
	repo := NewSQLiteConnectedCalendarRepository(setupTestDB(t))
	ctx := context.Background()

	cal := newCalendar(t, uuid.New(), "/calendars/home/")
	require.NoError(t, repo.Save(ctx, cal))

	cal.MarkPrimary()
	require.NoError(t, repo.Save(ctx, cal))

	found, err := repo.FindByID(ctx, cal.ID())
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.True(t, found.IsPrimary())
}

func TestSQLiteConnectedCalendarRepository_FindByUser(t *testing.T) {
	repo := NewSQLiteConnectedCalendarRepository(setupTestDB(t))
	ctx := context.Background()
	userID := uuid.New()

	work := newCalendar(t, userID, "/calendars/work/")
	home := newCalendar(t, userID, "/calendars/home/")
	home.MarkPrimary()
	require.NoError(t, repo.Save(ctx, work))
	require.NoError(t, repo.Save(ctx, home))
	require.NoError(t, repo.Save(ctx, newCalendar(t, uuid.New(), "/calendars/other/")))

	found, err := repo.FindByUser(ctx, userID)

	require.NoError(t, err)
	require.Len(t, found, 2)
	// Primary sorts first.
	assert.Equal(t, home.ID(), found[0].ID())
}

func TestSQLiteConnectedCalendarRepository_FindPrimaryByUser(t *testing.T) {
	repo := NewSQLiteConnectedCalendarRepository(setupTestDB(t))
	ctx := context.Background()
	userID := uuid.New()

	t.Run("no calendars", func(t *testing.T) {
		found, err := repo.FindPrimaryByUser(ctx, userID)
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("primary exists", func(t *testing.T) {
		cal := newCalendar(t, userID, "/calendars/home/")
		cal.MarkPrimary()
		require.NoError(t, repo.Save(ctx, cal))

		found, err := repo.FindPrimaryByUser(ctx, userID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, cal.ID(), found.ID())
	})

	t.Run("disabled primary is ignored", func(t *testing.T) {
		otherUser := uuid.New()
		cal := newCalendar(t, otherUser, "/calendars/home/")
		cal.MarkPrimary()
		cal.Disable()
		require.NoError(t, repo.Save(ctx, cal))

		found, err := repo.FindPrimaryByUser(ctx, otherUser)
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestSQLiteConnectedCalendarRepository_Delete(t *testing.T) {
	repo := NewSQLiteConnectedCalendarRepository(setupTestDB(t))
	ctx := context.Background()

	cal := newCalendar(t, uuid.New(), "/calendars/home/")
	require.NoError(t, repo.Save(ctx, cal))
	require.NoError(t, repo.Delete(ctx, cal.ID()))

	found, err := repo.FindByID(ctx, cal.ID())
	require.NoError(t, err)
	assert.Nil(t, found)
}
