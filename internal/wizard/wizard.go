// Package wizard holds the upgrade wizard registry: the canonical list of
// wizards, their scheduled/done state, and single-wizard execution.
package wizard

import (
	"context"
	"time"

	"github.com/conn-castle/upgrade-console/internal/app"
	"github.com/conn-castle/upgrade-console/internal/codec"
)

// Wizard is one self-contained upgrade step.
type Wizard interface {
	// Identifier is unique and stable across releases.
	Identifier() string
	Title() string
	Description() string
	// Execute performs the migration and returns a diagnostic message.
	Execute(ctx context.Context, env *app.Context, args map[string]any) (string, error)
}

// Applicable is implemented by wizards that only apply in some host states.
// A wizard that is not applicable is never scheduled.
type Applicable interface {
	Applicable(ctx context.Context, env *app.Context) (bool, error)
}

// Confirmable is implemented by wizards that need explicit consent, passed to
// Execute as the "confirm" argument.
type Confirmable interface {
	Confirmation() Confirmation
}

// Confirmation is the question asked before a confirmable wizard runs.
type Confirmation struct {
	Question string
	Default  bool
}

// Descriptor describes a wizard in a listing.
type Descriptor struct {
	Identifier   string
	Title        string
	Description  string
	Done         bool
	Confirmation *Confirmation
}

// Listing splits wizards into scheduled and done, each in declaration order.
type Listing struct {
	Scheduled []Descriptor
	Done      []Descriptor
}

// Find returns the descriptor for id from either list.
func (l Listing) Find(id string) (Descriptor, bool) {
	for _, list := range [][]Descriptor{l.Scheduled, l.Done} {
		for _, d := range list {
			if d.Identifier == id {
				return d, true
			}
		}
	}
	return Descriptor{}, false
}

// Request asks for one wizard execution.
type Request struct {
	Identifier string
	Arguments  map[string]any
	Force      bool
}

// Status is the terminal state of a wizard execution.
type Status string

// Statuses.
const (
	StatusDone    Status = "done"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Result is produced once per execution and not modified afterwards.
type Result struct {
	Identifier string
	Status     Status
	Succeeded  bool
	Message    string
	Error      *codec.RemoteError
	Duration   time.Duration
}

// Failed builds a failed result for id.
func Failed(id string, kind string, message string) Result {
	return Result{
		Identifier: id,
		Status:     StatusFailed,
		Error:      &codec.RemoteError{Kind: kind, Message: message},
	}
}
