package wizard

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/juju/loggo"

	"github.com/conn-castle/upgrade-console/internal/app"
	"github.com/conn-castle/upgrade-console/internal/codec"
	"github.com/conn-castle/upgrade-console/internal/ident"
	"github.com/conn-castle/upgrade-console/internal/messages"
)

var logger = loggo.GetLogger("uc.wizard")

// Registry holds wizards in canonical declaration order.
type Registry struct {
	wizards []Wizard
	byID    map[string]Wizard
}

// NewRegistry registers wizards in the given order. Identifiers must be
// non-empty and unique.
func NewRegistry(wizards ...Wizard) (*Registry, error) {
	r := &Registry{byID: make(map[string]Wizard, len(wizards))}
	for _, w := range wizards {
		id := w.Identifier()
		if id == "" || id != ident.Normalize(id) {
			return nil, fmt.Errorf(messages.WizardInvalidIdentifierFmt, id)
		}
		if _, dup := r.byID[id]; dup {
			return nil, fmt.Errorf(messages.WizardDuplicateIdentifierFmt, id)
		}
		r.byID[id] = w
		r.wizards = append(r.wizards, w)
	}
	return r, nil
}

// Wizards returns the registered wizards in order.
func (r *Registry) Wizards() []Wizard {
	return append([]Wizard(nil), r.wizards...)
}

// Get returns the wizard for id or an ident.UnknownError.
func (r *Registry) Get(id string) (Wizard, error) {
	w, ok := r.byID[ident.Normalize(id)]
	if !ok {
		return nil, ident.Unknown(ident.KindWizard, id)
	}
	return w, nil
}

// List reads done flags from env.Store. Wizards that are neither done nor
// applicable are left out of both lists.
func (r *Registry) List(ctx context.Context, env *app.Context) (Listing, error) {
	listing := Listing{Scheduled: []Descriptor{}, Done: []Descriptor{}}
	for _, w := range r.wizards {
		done, err := env.Store.IsDone(ctx, w.Identifier())
		if err != nil {
			return Listing{}, err
		}
		d := describe(w, done)
		if done {
			listing.Done = append(listing.Done, d)
			continue
		}
		applicable, err := isApplicable(ctx, env, w)
		if err != nil {
			return Listing{}, fmt.Errorf(messages.WizardApplicableFmt, w.Identifier(), err)
		}
		if applicable {
			listing.Scheduled = append(listing.Scheduled, d)
		}
	}
	return listing, nil
}

// Execute runs one wizard. It returns an error only when the identifier is
// unknown or the done flag cannot be read; every other outcome is a Result.
// A done wizard is skipped unless req.Force is set. A successful execution
// is marked done exactly once.
func (r *Registry) Execute(ctx context.Context, env *app.Context, req Request) (Result, error) {
	w, err := r.Get(req.Identifier)
	if err != nil {
		return Result{}, err
	}
	id := w.Identifier()
	done, err := env.Store.IsDone(ctx, id)
	if err != nil {
		return Result{}, err
	}
	if done && !req.Force {
		logger.Infof("wizard %s already done, skipping", id)
		return Result{Identifier: id, Status: StatusSkipped, Succeeded: true}, nil
	}

	start := env.Clock.Now()
	message, execErr := safeExecute(ctx, env, w, req.Arguments)
	elapsed := env.Clock.Now().Sub(start)
	if execErr != nil {
		logger.Warningf("wizard %s failed: %v", id, execErr)
		result := Failed(id, codec.KindWizardExecution, execErr.Error())
		result.Message = message
		result.Duration = elapsed
		return result, nil
	}
	if err := env.Store.MarkDone(ctx, id); err != nil {
		result := Failed(id, codec.KindInternal, fmt.Sprintf(messages.WizardMarkDoneFmt, id, err))
		result.Message = message
		result.Duration = elapsed
		return result, nil
	}
	logger.Infof("wizard %s done in %s", id, elapsed)
	return Result{Identifier: id, Status: StatusDone, Succeeded: true, Message: message, Duration: elapsed}, nil
}

// safeExecute turns a panicking wizard into an ordinary failure.
func safeExecute(ctx context.Context, env *app.Context, w Wizard, args map[string]any) (message string, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			logger.Errorf("wizard %s panicked: %v\n%s", w.Identifier(), recovered, debug.Stack())
			err = fmt.Errorf(messages.WizardPanicFmt, recovered)
		}
	}()
	if args == nil {
		args = map[string]any{}
	}
	return w.Execute(ctx, env, args)
}

func isApplicable(ctx context.Context, env *app.Context, w Wizard) (bool, error) {
	a, ok := w.(Applicable)
	if !ok {
		return true, nil
	}
	return a.Applicable(ctx, env)
}

func describe(w Wizard, done bool) Descriptor {
	d := Descriptor{
		Identifier:  w.Identifier(),
		Title:       w.Title(),
		Description: w.Description(),
		Done:        done,
	}
	if c, ok := w.(Confirmable); ok {
		confirmation := c.Confirmation()
		d.Confirmation = &confirmation
	}
	return d
}
