package upgrade

import (
	"bytes"
	"context"
	"errors"
	"os"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/juju/clock/testclock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/upgrade-console/internal/app"
	"github.com/conn-castle/upgrade-console/internal/codec"
	"github.com/conn-castle/upgrade-console/internal/constraint"
	"github.com/conn-castle/upgrade-console/internal/extension"
	"github.com/conn-castle/upgrade-console/internal/ident"
	"github.com/conn-castle/upgrade-console/internal/state"
	"github.com/conn-castle/upgrade-console/internal/subprocess"
	"github.com/conn-castle/upgrade-console/internal/wizard"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

// inProcessCaller runs the worker handlers in-process but still goes
// through the wire codec, like subprocess.Runner does.
type inProcessCaller struct {
	handlers subprocess.Handlers
	calls    []subprocess.Operation
}

func (c *inProcessCaller) Run(ctx context.Context, op subprocess.Operation, args map[string]any) (any, error) {
	c.calls = append(c.calls, op)
	var in, out bytes.Buffer
	req := codec.Request{ID: codec.NewRequestID(), Command: string(op), Arguments: args}
	if err := codec.WriteRequest(&in, req); err != nil {
		return nil, err
	}
	if err := subprocess.Serve(ctx, &in, &out, c.handlers); err != nil {
		return nil, err
	}
	resp, err := codec.ReadResponse(&out)
	if err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, &subprocess.RemoteError{Operation: op, Remote: resp.Error}
	}
	return resp.Result, nil
}

type world struct {
	runs    []string
	enabled map[string]bool
}

type testWizard struct {
	id       string
	w        *world
	fail     bool
	enables  string
	gated    bool
	question string
	gotArgs  map[string]any
}

func (t *testWizard) Identifier() string  { return t.id }
func (t *testWizard) Title() string       { return "Title of " + t.id }
func (t *testWizard) Description() string { return "Describes " + t.id }

func (t *testWizard) Execute(_ context.Context, _ *app.Context, args map[string]any) (string, error) {
	t.w.runs = append(t.w.runs, t.id)
	t.gotArgs = args
	if t.fail {
		return "", errors.New("column missing")
	}
	if t.enables != "" {
		t.w.enabled[t.enables] = true
	}
	return "changed " + t.id, nil
}

type gatedTestWizard struct{ *testWizard }

func (g gatedTestWizard) Applicable(context.Context, *app.Context) (bool, error) {
	return g.w.enabled[g.id], nil
}

type confirmTestWizard struct{ *testWizard }

func (c confirmTestWizard) Confirmation() wizard.Confirmation {
	return wizard.Confirmation{Question: c.question, Default: false}
}

type fixture struct {
	orch   *Orchestrator
	caller *inProcessCaller
	store  *state.MemoryStore
	world  *world
	out    *bytes.Buffer
	errOut *bytes.Buffer
}

func newFixture(t *testing.T, wizards []*testWizard, done ...string) *fixture {
	t.Helper()
	w := &world{enabled: map[string]bool{}}
	var registered []wizard.Wizard
	for _, tw := range wizards {
		tw.w = w
		switch {
		case tw.gated:
			registered = append(registered, gatedTestWizard{tw})
		case tw.question != "":
			registered = append(registered, confirmTestWizard{tw})
		default:
			registered = append(registered, tw)
		}
	}
	reg, err := wizard.NewRegistry(registered...)
	require.NoError(t, err)
	store := state.NewMemoryStore(done...)
	env := &app.Context{Store: store, Clock: testclock.NewClock(time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC))}
	caller := &inProcessCaller{handlers: WorkerHandlers(env, reg)}
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	return &fixture{
		orch: &Orchestrator{
			Caller:   caller,
			Reporter: NewReporter(out, errOut),
			HostName: "TYPO3",
			Version:  "11.5.0",
		},
		caller: caller,
		store:  store,
		world:  w,
		out:    out,
		errOut: errOut,
	}
}

func noArgs(t *testing.T) Arguments {
	t.Helper()
	args, err := ParseArguments(nil)
	require.NoError(t, err)
	return args
}

func TestListShowsScheduledAndDone(t *testing.T) {
	f := newFixture(t, []*testWizard{{id: "a"}, {id: "b"}, {id: "c", gated: true}}, "a")

	require.NoError(t, f.orch.List(context.Background(), ListOptions{All: true, Verbose: true}))

	out := f.out.String()
	assert.Contains(t, out, "Wizards scheduled for execution:\n  b: Title of b\n      Describes b\n")
	assert.Contains(t, out, "Wizards marked as done:\n  a: Title of a\n")
	assert.NotContains(t, out, "Title of c")
	assert.Equal(t, []subprocess.Operation{subprocess.OpListWizards}, f.caller.calls)
}

func TestListWithoutAllHidesDone(t *testing.T) {
	f := newFixture(t, []*testWizard{{id: "a"}}, "a")

	require.NoError(t, f.orch.List(context.Background(), ListOptions{}))
	assert.Equal(t, "No wizards scheduled for execution.\n", f.out.String())
}

func TestAllPicksUpWizardsScheduledBySideEffects(t *testing.T) {
	f := newFixture(t, []*testWizard{
		{id: "a"},
		{id: "b", enables: "c"},
		{id: "c", gated: true},
		{id: "d"},
	})

	results, err := f.orch.All(context.Background(), noArgs(t), true)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "d", "c"}, f.world.runs)
	require.Len(t, results, 4)
	for _, id := range []string{"a", "b", "c", "d"} {
		assert.Equal(t, 1, f.store.Marks(id), id)
	}
	out := f.out.String()
	assert.True(t, strings.HasPrefix(out, "Initiating TYPO3 upgrade\n"))
	assert.Contains(t, out, "Upgrade report:")
	assert.True(t, strings.HasSuffix(out, "Successfully upgraded TYPO3 to version 11.5.0\n"))
}

func TestAllStopsAtFirstFailure(t *testing.T) {
	f := newFixture(t, []*testWizard{{id: "a"}, {id: "b", fail: true}, {id: "c"}})

	results, err := f.orch.All(context.Background(), noArgs(t), false)
	require.ErrorIs(t, err, ErrFailed)
	assert.Equal(t, []string{"a", "b"}, f.world.runs)
	require.Len(t, results, 2)
	assert.Equal(t, wizard.StatusFailed, results[1].Status)
	assert.Equal(t, 1, f.store.Marks("a"))
	assert.Equal(t, 0, f.store.Marks("b"))
	assert.NotContains(t, f.out.String(), "Successfully upgraded")
	assert.Contains(t, f.out.String(), "[failed] b")
	assert.Contains(t, f.errOut.String(), "Upgrade stopped: wizard b failed")
}

func TestAllWithNothingScheduled(t *testing.T) {
	f := newFixture(t, []*testWizard{{id: "a"}}, "a")

	results, err := f.orch.All(context.Background(), noArgs(t), false)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Empty(t, f.world.runs)
	assert.Contains(t, f.out.String(), "Successfully upgraded TYPO3 to version 11.5.0")
}

func TestAllRejectsFlatArguments(t *testing.T) {
	f := newFixture(t, []*testWizard{{id: "a"}})
	args, err := ParseArguments([]string{"install=1"})
	require.NoError(t, err)

	_, err = f.orch.All(context.Background(), args, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "identifier[install]=value")
	assert.Empty(t, f.caller.calls)
}

func TestAllRoutesScopedArgumentsAndConfirms(t *testing.T) {
	plain := &testWizard{id: "plain"}
	ask := &testWizard{id: "ask", question: "Install it?"}
	answered := &testWizard{id: "answered", question: "Really?"}
	f := newFixture(t, []*testWizard{plain, ask, answered})
	var asked []string
	f.orch.Confirm = func(question string, def bool) (bool, error) {
		asked = append(asked, question)
		assert.False(t, def)
		return true, nil
	}
	args, err := ParseArguments([]string{"plain[mode]=fast,answered[confirm]=0", "ghost[x]=1"})
	require.NoError(t, err)

	_, err = f.orch.All(context.Background(), args, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Install it?"}, asked)
	assert.Equal(t, map[string]any{"mode": "fast"}, plain.gotArgs)
	assert.Equal(t, map[string]any{"confirm": true}, ask.gotArgs)
	assert.Equal(t, map[string]any{"confirm": "0"}, answered.gotArgs)
	assert.Contains(t, f.errOut.String(), `arguments for wizard "ghost" were not used`)
}

func TestWizardSkipsDoneWithoutForce(t *testing.T) {
	f := newFixture(t, []*testWizard{{id: "bar"}}, "bar")

	result, err := f.orch.Wizard(context.Background(), "bar", noArgs(t), false)
	require.NoError(t, err)
	assert.Equal(t, wizard.StatusSkipped, result.Status)
	assert.Empty(t, f.world.runs)
	assert.Contains(t, f.out.String(), "[skipped] bar")
	assert.Equal(t, []subprocess.Operation{subprocess.OpExecuteWizard}, f.caller.calls)
}

func TestWizardForceRerunsDoneWizard(t *testing.T) {
	f := newFixture(t, []*testWizard{{id: "bar"}}, "bar")

	result, err := f.orch.Wizard(context.Background(), "bar", noArgs(t), true)
	require.NoError(t, err)
	assert.Equal(t, wizard.StatusDone, result.Status)
	assert.Equal(t, []string{"bar"}, f.world.runs)
	done, err := f.store.IsDone(context.Background(), "bar")
	require.NoError(t, err)
	assert.True(t, done)
	assert.Contains(t, f.out.String(), "changed bar")
}

func TestWizardFlatAndScopedArguments(t *testing.T) {
	target := &testWizard{id: "foo"}
	f := newFixture(t, []*testWizard{target})
	args, err := ParseArguments([]string{"mode=slow", "foo[mode]=fast", "limit=3"})
	require.NoError(t, err)

	_, err = f.orch.Wizard(context.Background(), "foo", args, false)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"mode": "fast", "limit": "3"}, target.gotArgs)
}

func TestWizardPromptsOnlyWhenUnanswered(t *testing.T) {
	ask := &testWizard{id: "ask", question: "Install it?"}
	f := newFixture(t, []*testWizard{ask})
	prompts := 0
	f.orch.Confirm = func(string, bool) (bool, error) {
		prompts++
		return false, nil
	}

	_, err := f.orch.Wizard(context.Background(), "ask", noArgs(t), false)
	require.NoError(t, err)
	assert.Equal(t, 1, prompts)
	assert.Equal(t, map[string]any{"confirm": false}, ask.gotArgs)

	args, err := ParseArguments([]string{"confirm=1"})
	require.NoError(t, err)
	_, err = f.orch.Wizard(context.Background(), "ask", args, true)
	require.NoError(t, err)
	assert.Equal(t, 1, prompts)
}

func TestWizardFailureIsReported(t *testing.T) {
	f := newFixture(t, []*testWizard{{id: "a", fail: true}})

	result, err := f.orch.Wizard(context.Background(), "a", noArgs(t), false)
	require.ErrorIs(t, err, ErrFailed)
	assert.False(t, result.Succeeded)
	assert.Contains(t, f.out.String(), "[failed] a")
	assert.Contains(t, f.out.String(), "column missing")
}

func TestWizardUnknownIdentifier(t *testing.T) {
	f := newFixture(t, []*testWizard{{id: "a"}})

	_, err := f.orch.Wizard(context.Background(), "ghost", noArgs(t), false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ident.ErrUnknown))
	assert.Empty(t, f.out.String())
}

type memoryExtensions map[string]extension.Module

func (m memoryExtensions) Modules(context.Context) ([]extension.Module, error) {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	out := make([]extension.Module, 0, len(keys))
	for _, key := range keys {
		out = append(out, m[key])
	}
	return out, nil
}

func (m memoryExtensions) Get(_ context.Context, key string) (extension.Module, error) {
	module, ok := m[key]
	if !ok {
		return extension.Module{}, ident.Unknown(ident.KindExtension, key)
	}
	return module, nil
}

func constraintFixture(t *testing.T) *fixture {
	t.Helper()
	f := newFixture(t, nil)
	f.orch.Extensions = memoryExtensions{
		"foo":  {Key: "foo", Path: "/site/typo3conf/ext/foo", Constraints: map[string]string{"typo3": ">=10.0,<11.0"}},
		"bar":  {Key: "bar", Path: "/site/typo3conf/ext/bar", Constraints: map[string]string{"typo3": "10.4.0-11.5.99"}},
		"core": {Key: "core", Path: "/site/typo3/sysext/core", Constraints: map[string]string{"typo3": "9.5.0-9.5.99"}},
		"odd":  {Key: "odd", Path: "/site/typo3conf/ext/odd", Constraints: map[string]string{"typo3": "banana"}},
	}
	f.orch.Checker = constraint.Checker{HostKey: "typo3"}
	f.orch.Marker = "typo3conf/ext"
	return f
}

func TestCheckExtensionConstraintsReportsViolation(t *testing.T) {
	f := constraintFixture(t)

	outcomes, err := f.orch.CheckExtensionConstraints(context.Background(), []string{"foo"}, "11.5.0")
	require.ErrorIs(t, err, ErrFailed)
	require.Len(t, outcomes, 1)
	assert.False(t, outcomes[0].Satisfied)
	lines := strings.Split(strings.TrimRight(f.errOut.String(), "\n"), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `extension "foo"`)
	assert.Empty(t, f.out.String())
}

func TestCheckExtensionConstraintsAllThirdParty(t *testing.T) {
	f := constraintFixture(t)

	outcomes, err := f.orch.CheckExtensionConstraints(context.Background(), nil, "")
	require.ErrorIs(t, err, ErrFailed)
	var keys []string
	for _, o := range outcomes {
		keys = append(keys, o.ExtensionKey)
	}
	assert.Equal(t, []string{"bar", "foo", "odd"}, keys)
	assert.Contains(t, f.errOut.String(), "banana")
	assert.Equal(t, 1, strings.Count(f.errOut.String(), "[error]"))
}

func TestCheckExtensionConstraintsUnknownKeyWarns(t *testing.T) {
	f := constraintFixture(t)

	_, err := f.orch.CheckExtensionConstraints(context.Background(), []string{"ghost", "bar", "core"}, "11.5.0")
	require.NoError(t, err)
	assert.Contains(t, f.errOut.String(), `Extension "ghost" is not found in the system`)
	assert.Equal(t, "All third party extensions claim to be compatible with TYPO3 version 11.5.0\n", f.out.String())
}

func TestCheckExtensionConstraintsNormalizesTarget(t *testing.T) {
	f := constraintFixture(t)

	_, err := f.orch.CheckExtensionConstraints(context.Background(), []string{"bar"}, "11.5")
	require.NoError(t, err)
	assert.Equal(t, "All third party extensions claim to be compatible with TYPO3 version 11.5.0\n", f.out.String())

	_, err = f.orch.CheckExtensionConstraints(context.Background(), []string{"bar"}, "eleven")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrFailed)
}

func TestAllVerboseReportCarriesWizardMessages(t *testing.T) {
	f := newFixture(t, []*testWizard{{id: "a"}, {id: "b"}})

	_, err := f.orch.All(context.Background(), noArgs(t), true)
	require.NoError(t, err)
	out := f.out.String()
	report := strings.Index(out, "Upgrade report:")
	require.GreaterOrEqual(t, report, 0)
	assert.Equal(t, 1, strings.Count(out, "changed a"))
	assert.Greater(t, strings.Index(out, "changed a"), report)
	assert.Contains(t, out[report:], "[ok] a (0s)\nchanged a\n[ok] b (0s)\nchanged b\n")
}

func TestAllQuietKeepsWizardMessagesOut(t *testing.T) {
	f := newFixture(t, []*testWizard{{id: "a"}})

	_, err := f.orch.All(context.Background(), noArgs(t), false)
	require.NoError(t, err)
	assert.Contains(t, f.out.String(), "[ok] a (0s)")
	assert.NotContains(t, f.out.String(), "changed a")
	assert.NotContains(t, f.out.String(), "Upgrade report:")
}

// crashingCaller answers like a worker that dies while executing one wizard.
type crashingCaller struct {
	inner   Caller
	crashOn string
}

func (c *crashingCaller) Run(ctx context.Context, op subprocess.Operation, args map[string]any) (any, error) {
	if op == subprocess.OpExecuteWizard && args["identifier"] == c.crashOn {
		return nil, &subprocess.ChildCrashedError{Operation: op, ExitCode: 139, Stderr: "Segmentation fault"}
	}
	return c.inner.Run(ctx, op, args)
}

func TestAllReportsCrashedWorker(t *testing.T) {
	f := newFixture(t, []*testWizard{{id: "a"}, {id: "b"}, {id: "c"}})
	f.orch.Caller = &crashingCaller{inner: f.caller, crashOn: "b"}

	_, err := f.orch.All(context.Background(), noArgs(t), false)
	require.ErrorIs(t, err, ErrFailed)
	var crashed *subprocess.ChildCrashedError
	require.ErrorAs(t, err, &crashed)
	assert.Equal(t, []string{"a"}, f.world.runs)
	assert.Contains(t, f.errOut.String(), "[error] worker for execute-wizard exited with code 139 before responding")
	assert.Contains(t, f.errOut.String(), "[error] Upgrade stopped: wizard b failed")
	assert.NotContains(t, f.out.String(), "Successfully upgraded")
}

func TestAllInterruptIsNotReportedAsFailure(t *testing.T) {
	f := newFixture(t, []*testWizard{{id: "a"}})
	f.orch.Caller = callerFunc(func(ctx context.Context, op subprocess.Operation, args map[string]any) (any, error) {
		if op == subprocess.OpExecuteWizard {
			return nil, &subprocess.ChildCrashedError{Operation: op, Canceled: true, Err: context.Canceled}
		}
		return f.caller.Run(ctx, op, args)
	})

	_, err := f.orch.All(context.Background(), noArgs(t), false)
	require.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrFailed)
	assert.Empty(t, f.errOut.String())
}

type callerFunc func(ctx context.Context, op subprocess.Operation, args map[string]any) (any, error)

func (f callerFunc) Run(ctx context.Context, op subprocess.Operation, args map[string]any) (any, error) {
	return f(ctx, op, args)
}

func TestCheckExtensionConstraintsSkipsInactiveExtensions(t *testing.T) {
	f := constraintFixture(t)
	f.orch.Active = func(context.Context) (map[string]bool, error) {
		return map[string]bool{"bar": true, "core": true}, nil
	}

	outcomes, err := f.orch.CheckExtensionConstraints(context.Background(), nil, "11.5.0")
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.Equal(t, "bar", outcomes[0].ExtensionKey)
	assert.Empty(t, f.errOut.String())

	f.out.Reset()
	outcomes, err = f.orch.CheckExtensionConstraints(context.Background(), []string{"foo"}, "11.5.0")
	require.ErrorIs(t, err, ErrFailed, "named keys are checked even when inactive")
	require.Len(t, outcomes, 1)
}

func TestCheckExtensionConstraintsActiveSetError(t *testing.T) {
	f := constraintFixture(t)
	f.orch.Active = func(context.Context) (map[string]bool, error) {
		return nil, errors.New("settings unreadable")
	}

	_, err := f.orch.CheckExtensionConstraints(context.Background(), nil, "11.5.0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "settings unreadable")
}
