// Package upgrade drives wizard listing and execution through worker
// processes and checks extension compatibility before an upgrade.
package upgrade

import (
	"context"
	"errors"
	"fmt"

	"github.com/juju/loggo"

	"github.com/conn-castle/upgrade-console/internal/constraint"
	"github.com/conn-castle/upgrade-console/internal/extension"
	"github.com/conn-castle/upgrade-console/internal/ident"
	"github.com/conn-castle/upgrade-console/internal/messages"
	"github.com/conn-castle/upgrade-console/internal/subprocess"
	"github.com/conn-castle/upgrade-console/internal/version"
	"github.com/conn-castle/upgrade-console/internal/wizard"
)

var logger = loggo.GetLogger("uc.upgrade")

// ErrFailed reports a failure that was already rendered to the user.
var ErrFailed = errors.New(messages.UpgradeFailed)

// ConfirmArgument is the wizard argument a confirmation answer is stored in.
const ConfirmArgument = "confirm"

// Caller runs one operation in isolation. subprocess.Runner is the
// production implementation.
type Caller interface {
	Run(ctx context.Context, op subprocess.Operation, args map[string]any) (any, error)
}

// ConfirmFunc asks the user a yes/no question.
type ConfirmFunc func(question string, def bool) (bool, error)

// ActiveFunc returns the keys of activated extensions. A nil map means every
// installed extension is active.
type ActiveFunc func(ctx context.Context) (map[string]bool, error)

// Orchestrator implements the upgrade commands.
type Orchestrator struct {
	Caller   Caller
	Reporter *Reporter
	// Confirm is nil when no one can answer; wizards then use their defaults.
	Confirm    ConfirmFunc
	Extensions extension.Registry
	// Active limits an unkeyed constraint check to activated extensions.
	// Nil checks every installed one.
	Active  ActiveFunc
	Checker constraint.Checker
	// Marker selects third-party extensions by path.
	Marker string
	// HostName and Version describe the installed application.
	HostName string
	Version  string
}

// ListOptions controls List.
type ListOptions struct {
	All     bool
	Verbose bool
}

// List prints the scheduled wizards and, with opts.All, the done ones.
func (o *Orchestrator) List(ctx context.Context, opts ListOptions) error {
	listing, err := o.listing(ctx)
	if err != nil {
		return err
	}
	o.Reporter.Listing(listing, opts.All, opts.Verbose)
	return nil
}

// Wizard executes one wizard. A failed wizard is rendered and reported as
// ErrFailed; a skipped one is not a failure.
func (o *Orchestrator) Wizard(ctx context.Context, id string, args Arguments, force bool) (wizard.Result, error) {
	id = ident.Normalize(id)
	if id == "" {
		return wizard.Result{}, errors.New(messages.UpgradeIdentifierRequired)
	}
	for _, other := range args.Identifiers() {
		if other != id {
			o.Reporter.Warning(fmt.Sprintf(messages.UpgradeUnusedArgumentsFmt, other))
		}
	}
	wizardArgs := args.For(id)
	if o.Confirm != nil {
		if _, answered := wizardArgs[ConfirmArgument]; !answered {
			listing, err := o.listing(ctx)
			if err != nil {
				return wizard.Result{}, err
			}
			if d, ok := listing.Find(id); ok && (!d.Done || force) {
				if err := o.confirm(d, wizardArgs); err != nil {
					return wizard.Result{}, err
				}
			}
		}
	}
	result, err := o.execute(ctx, wizard.Request{Identifier: id, Arguments: wizardArgs, Force: force})
	if err != nil {
		return wizard.Result{}, err
	}
	o.Reporter.Result(result)
	if !result.Succeeded {
		return result, ErrFailed
	}
	return result, nil
}

// All executes every scheduled wizard in registry order. The list is read
// again after each batch so wizards scheduled by another wizard's side
// effects run in the same pass; no wizard runs twice. The first failure
// stops the pass. Wizard messages are printed only in the verbose report.
func (o *Orchestrator) All(ctx context.Context, args Arguments, verbose bool) ([]wizard.Result, error) {
	if flat := args.FlatKeys(); len(flat) > 0 {
		return nil, fmt.Errorf(messages.UpgradeAllFlatArgumentFmt, flat[0], flat[0])
	}
	o.Reporter.Heading(fmt.Sprintf(messages.UpgradeInitiatingFmt, o.HostName))

	attempted := map[string]bool{}
	var results []wizard.Result
	for {
		listing, err := o.listing(ctx)
		if err != nil {
			return results, err
		}
		var batch []wizard.Descriptor
		for _, d := range listing.Scheduled {
			if !attempted[d.Identifier] {
				batch = append(batch, d)
			}
		}
		if len(batch) == 0 {
			break
		}
		logger.Debugf("executing batch of %d wizards", len(batch))
		err = RunSequence(ctx, batch, FailFast, func(ctx context.Context, d wizard.Descriptor) error {
			attempted[d.Identifier] = true
			wizardArgs := args.For(d.Identifier)
			if err := o.confirm(d, wizardArgs); err != nil {
				return err
			}
			result, err := o.execute(ctx, wizard.Request{Identifier: d.Identifier, Arguments: wizardArgs})
			if err != nil {
				return o.stopped(d.Identifier, err)
			}
			results = append(results, result)
			o.Reporter.Summary(result)
			if !result.Succeeded {
				o.Reporter.Error(fmt.Sprintf(messages.UpgradeStoppedFmt, d.Identifier))
				return ErrFailed
			}
			return nil
		})
		if err != nil {
			if verbose {
				o.Reporter.Report(results)
			}
			return results, err
		}
	}

	for _, id := range args.Identifiers() {
		if !attempted[id] {
			o.Reporter.Warning(fmt.Sprintf(messages.UpgradeUnusedArgumentsFmt, id))
		}
	}
	if verbose {
		o.Reporter.Report(results)
	}
	o.Reporter.Success(fmt.Sprintf(messages.UpgradeSucceededFmt, o.HostName, o.Version))
	return results, nil
}

// CheckExtensionConstraints checks third-party extensions against target,
// or the installed version when target is empty. With no keys every
// installed third-party extension is checked. Each violation prints one
// error line; the result is ErrFailed when any check failed.
func (o *Orchestrator) CheckExtensionConstraints(ctx context.Context, keys []string, target string) ([]constraint.Outcome, error) {
	if target == "" {
		target = o.Version
	}
	target, err := version.Normalize(target)
	if err != nil {
		return nil, err
	}
	modules, err := o.modules(ctx, keys)
	if err != nil {
		return nil, err
	}

	var outcomes []constraint.Outcome
	err = RunSequence(ctx, modules, CollectAll, func(_ context.Context, m extension.Module) error {
		outcome := o.Checker.Check(m, target)
		outcomes = append(outcomes, outcome)
		if outcome.Warning != "" {
			o.Reporter.Warning(outcome.Warning)
		}
		if !outcome.Satisfied {
			o.Reporter.Error(outcome.Message)
			return ErrFailed
		}
		return nil
	})
	if errors.Is(err, ErrFailed) {
		return outcomes, ErrFailed
	}
	if err != nil {
		return outcomes, err
	}
	o.Reporter.Success(fmt.Sprintf(messages.UpgradeConstraintsOKFmt, o.HostName, target))
	return outcomes, nil
}

// modules resolves keys to third-party modules. Unknown keys are reported
// and skipped.
func (o *Orchestrator) modules(ctx context.Context, keys []string) ([]extension.Module, error) {
	var candidates []extension.Module
	if len(keys) == 0 {
		all, err := o.Extensions.Modules(ctx)
		if err != nil {
			return nil, fmt.Errorf(messages.UpgradeListExtensionsFmt, err)
		}
		candidates, err = o.activeOnly(ctx, all)
		if err != nil {
			return nil, err
		}
	} else {
		for _, key := range keys {
			m, err := o.Extensions.Get(ctx, key)
			if errors.Is(err, ident.ErrUnknown) {
				o.Reporter.Warning(fmt.Sprintf(messages.UpgradeExtensionNotFoundFmt, key))
				continue
			}
			if err != nil {
				return nil, err
			}
			candidates = append(candidates, m)
		}
	}
	var out []extension.Module
	for _, m := range candidates {
		if !m.IsThirdParty(o.Marker) {
			logger.Debugf("skipping core extension %s", m.Key)
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// stopped reports a wizard whose worker failed and returns ErrFailed wrapping
// err. An interrupt is returned unchanged.
func (o *Orchestrator) stopped(id string, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	o.Reporter.Error(err.Error())
	o.Reporter.Error(fmt.Sprintf(messages.UpgradeStoppedFmt, id))
	return fmt.Errorf("%w: %w", ErrFailed, err)
}

func (o *Orchestrator) activeOnly(ctx context.Context, modules []extension.Module) ([]extension.Module, error) {
	if o.Active == nil {
		return modules, nil
	}
	active, err := o.Active(ctx)
	if err != nil {
		return nil, fmt.Errorf(messages.UpgradeActiveExtensionsFmt, err)
	}
	if active == nil {
		return modules, nil
	}
	out := make([]extension.Module, 0, len(modules))
	for _, m := range modules {
		if !active[m.Key] {
			logger.Debugf("skipping inactive extension %s", m.Key)
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (o *Orchestrator) listing(ctx context.Context) (wizard.Listing, error) {
	value, err := o.Caller.Run(ctx, subprocess.OpListWizards, nil)
	if err != nil {
		return wizard.Listing{}, err
	}
	listing, err := wizard.ListingFromValue(value)
	if err != nil {
		return wizard.Listing{}, fmt.Errorf(messages.UpgradeDecodeListingFmt, err)
	}
	return listing, nil
}

func (o *Orchestrator) execute(ctx context.Context, req wizard.Request) (wizard.Result, error) {
	value, err := o.Caller.Run(ctx, subprocess.OpExecuteWizard, wizard.RequestToValue(req))
	if err != nil {
		return wizard.Result{}, err
	}
	result, err := wizard.ResultFromValue(value)
	if err != nil {
		return wizard.Result{}, fmt.Errorf(messages.UpgradeDecodeResultFmt, req.Identifier, err)
	}
	return result, nil
}

// confirm asks d's question unless args already answer it.
func (o *Orchestrator) confirm(d wizard.Descriptor, args map[string]any) error {
	if d.Confirmation == nil || o.Confirm == nil {
		return nil
	}
	if _, answered := args[ConfirmArgument]; answered {
		return nil
	}
	answer, err := o.Confirm(d.Confirmation.Question, d.Confirmation.Default)
	if err != nil {
		return fmt.Errorf(messages.UpgradeConfirmFmt, d.Identifier, err)
	}
	args[ConfirmArgument] = answer
	return nil
}
