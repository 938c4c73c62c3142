// Package xrm describes the automation surface the step definers drive: the
// application's dialogs, navigation, quick create panel and main form, plus a
// low-level Driver for the few steps that work on raw elements.
package xrm

import (
	"context"
	"time"

	"github.com/copyleftdev/xrmsteps/internal/fields"
)

// Credentials identify the user a session signs in as.
type Credentials struct {
	Username  string
	Password  string
	MFASecret string
}

type App interface {
	Dialogs() Dialogs
	Navigation() Navigation
	QuickCreate() QuickCreate
	Entity() Entity

	// Login signs in at the organisation URL and waits for the app shell.
	Login(ctx context.Context, creds Credentials) error
	// ThinkTime pauses the scenario, returning early if ctx is done.
	ThinkTime(ctx context.Context, d time.Duration) error
}

type Dialogs interface {
	ConfirmationDialog(ctx context.Context, confirm bool) error
	Assign(ctx context.Context, to AssignTo, name string) error
	CloseOpportunity(ctx context.Context, won bool) error
	CloseWarningDialog(ctx context.Context) error
	PublishDialog(ctx context.Context, confirm bool) error
	SetStateDialog(ctx context.Context, ok bool) error
}

type Navigation interface {
	OpenApp(ctx context.Context, appName string) error
	OpenArea(ctx context.Context, area string) error
	OpenSubArea(ctx context.Context, area, subArea string) error
	OpenGroupSubArea(ctx context.Context, group, subArea string) error
	OpenGlobalSearch(ctx context.Context) error
	QuickCreate(ctx context.Context, entity string) error
	SignOut(ctx context.Context) error
}

type QuickCreate interface {
	fields.Setter

	Save(ctx context.Context) error
	Cancel(ctx context.Context) error

	ClearValue(ctx context.Context, name string) error
	ClearOptionSet(ctx context.Context, field fields.OptionSet) error
	ClearLookup(ctx context.Context, field fields.LookupItem) error

	GetValue(ctx context.Context, name string) (string, error)
	GetOptionSet(ctx context.Context, field fields.OptionSet) (string, error)
	GetLookup(ctx context.Context, field fields.LookupItem) (string, error)
	GetBoolean(ctx context.Context, field fields.BooleanItem) (bool, error)
}

// Entity is the record form, including fields rendered inside custom dialogs.
type Entity interface {
	fields.Setter
}
