package cli

import (
	"github.com/google/uuid"
	"github.com/tetherhq/tether/internal/availability/application/queries"
)

// App holds the CLI application dependencies.
type App struct {
	FindAvailabilityHandler *queries.FindAvailabilityHandler
	CheckConflictsHandler   *queries.CheckConflictsHandler

	// Current user (configured per environment)
	CurrentUserID uuid.UUID
}

// NewApp creates a CLI application with the given handlers.
func NewApp(find *queries.FindAvailabilityHandler, conflicts *queries.CheckConflictsHandler) *App {
	return &App{
		FindAvailabilityHandler: find,
		CheckConflictsHandler:   conflicts,
	}
}

// SetCurrentUserID sets the active user for commands that act on one participant.
func (a *App) SetCurrentUserID(id uuid.UUID) {
	a.CurrentUserID = id
}

// app is the global CLI application instance
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}
