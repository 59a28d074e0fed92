package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conn-castle/upgrade-console/internal/app"
	"github.com/conn-castle/upgrade-console/internal/config"
	"github.com/conn-castle/upgrade-console/internal/constraint"
	"github.com/conn-castle/upgrade-console/internal/extension"
	"github.com/conn-castle/upgrade-console/internal/logging"
	"github.com/conn-castle/upgrade-console/internal/messages"
	"github.com/conn-castle/upgrade-console/internal/prompt"
	"github.com/conn-castle/upgrade-console/internal/root"
	"github.com/conn-castle/upgrade-console/internal/subprocess"
	"github.com/conn-castle/upgrade-console/internal/terminal"
	"github.com/conn-castle/upgrade-console/internal/upgrade"
)

// workerInvocation returns the executable and leading arguments that start
// a worker. Tests point it at the test binary.
var workerInvocation = func() (string, []string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", nil, fmt.Errorf(messages.CLIExecutableFmt, err)
	}
	return exe, nil, nil
}

// confirmer asks wizard confirmation questions.
type confirmer interface {
	Interactive() bool
	Confirm(question string, def bool) (bool, error)
}

var newConfirmer = func() confirmer { return prompt.NewConfirmer() }

// session is the resolved state a command runs with.
type session struct {
	opts    *globalOptions
	root    string
	config  *config.Config
	logSpec string
}

// newSession resolves the root, loads config, and sets up logging and color.
func newSession(cmd *cobra.Command, opts *globalOptions) (*session, error) {
	rootDir, err := resolveRoot(opts.root)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(rootDir, opts.configPath)
	if err != nil {
		return nil, err
	}
	spec := cfg.Log.Spec
	if strings.TrimSpace(opts.logLevel) != "" {
		spec = opts.logLevel
	}
	spec, err = logging.NormalizeSpec(spec)
	if err != nil {
		return nil, err
	}
	if err := logging.Configure(cmd.ErrOrStderr(), spec); err != nil {
		return nil, err
	}
	color.NoColor = !terminal.ColorEnabled(opts.noColor, cmd.OutOrStdout())
	return &session{opts: opts, root: rootDir, config: cfg, logSpec: spec}, nil
}

func resolveRoot(flagRoot string) (string, error) {
	if strings.TrimSpace(flagRoot) != "" {
		return filepath.Abs(flagRoot)
	}
	cwd, err := getwd()
	if err != nil {
		return "", fmt.Errorf(messages.CLIGetwdFmt, err)
	}
	return root.FindRoot(cwd)
}

func (s *session) timeout() time.Duration {
	if s.opts.timeout > 0 {
		return s.opts.timeout
	}
	return s.config.TimeoutDuration()
}

// runner starts workers with the same root, config, and log spec as the
// parent. Worker stderr is passed through to the parent's stderr.
func (s *session) runner(cmd *cobra.Command) (*subprocess.Runner, error) {
	exe, args, err := workerInvocation()
	if err != nil {
		return nil, err
	}
	args = append(args, "--root", s.root)
	if s.opts.configPath != "" {
		configPath, err := config.Resolve(s.root, s.opts.configPath)
		if err != nil {
			return nil, err
		}
		args = append(args, "--config", configPath)
	}
	args = append(args, messages.UpgradeSubprocessUse)
	return &subprocess.Runner{
		Executable: exe,
		Args:       args,
		Env:        append(os.Environ(), config.EnvLog+"="+s.logSpec),
		Dir:        s.root,
		Timeout:    s.timeout(),
		Stderr:     cmd.ErrOrStderr(),
	}, nil
}

func (s *session) orchestrator(cmd *cobra.Command) (*upgrade.Orchestrator, error) {
	runner, err := s.runner(cmd)
	if err != nil {
		return nil, err
	}
	settingsPath, err := config.Resolve(s.root, s.config.App.Settings)
	if err != nil {
		return nil, err
	}
	o := &upgrade.Orchestrator{
		Caller:     runner,
		Reporter:   upgrade.NewReporter(cmd.OutOrStdout(), cmd.ErrOrStderr()),
		Extensions: extension.NewFileRegistry(s.root, s.config.Extensions.Paths),
		Active: func(context.Context) (map[string]bool, error) {
			settings, err := app.ReadSettings(settingsPath)
			if err != nil {
				return nil, err
			}
			return settings.ActiveExtensions(), nil
		},
		Checker:  constraint.Checker{HostKey: s.config.App.Key, Strict: s.config.Constraints.Strict},
		Marker:   s.config.Extensions.ThirdPartyMarker,
		HostName: strings.ToUpper(s.config.App.Key),
		Version:  s.config.App.Version,
	}
	if !s.opts.noInteraction {
		if c := newConfirmer(); c.Interactive() {
			o.Confirm = c.Confirm
		}
	}
	return o, nil
}

// exitError turns an already reported failure into a silent exit code.
func exitError(err error) error {
	if errors.Is(err, upgrade.ErrFailed) {
		return &SilentExitError{Code: 1}
	}
	if errors.Is(err, context.Canceled) {
		return &SilentExitError{Code: 130}
	}
	return err
}
