package main

import (
	"github.com/spf13/cobra"

	"github.com/conn-castle/upgrade-console/internal/app"
	"github.com/conn-castle/upgrade-console/internal/messages"
	"github.com/conn-castle/upgrade-console/internal/subprocess"
	"github.com/conn-castle/upgrade-console/internal/upgrade"
	"github.com/conn-castle/upgrade-console/internal/wizard/builtin"
)

// newWizardRegistry is a test seam for the worker's wizard set.
var newWizardRegistry = builtin.NewRegistry

func newCheckConstraintsCmd(opts *globalOptions) *cobra.Command {
	var target string
	cmd := &cobra.Command{
		Use:   messages.ConstraintsUse,
		Short: messages.ConstraintsShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, opts)
			if err != nil {
				return err
			}
			o, err := s.orchestrator(cmd)
			if err != nil {
				return err
			}
			_, err = o.CheckExtensionConstraints(cmd.Context(), upgrade.SplitList(args), target)
			return exitError(err)
		},
	}
	cmd.Flags().StringVar(&target, "typo3-version", "", messages.ConstraintsFlagTarget)
	return cmd
}

func newUpgradeListCmd(opts *globalOptions) *cobra.Command {
	var listOpts upgrade.ListOptions
	cmd := &cobra.Command{
		Use:   messages.UpgradeListUse,
		Short: messages.UpgradeListShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, opts)
			if err != nil {
				return err
			}
			o, err := s.orchestrator(cmd)
			if err != nil {
				return err
			}
			return exitError(o.List(cmd.Context(), listOpts))
		},
	}
	cmd.Flags().BoolVar(&listOpts.All, "all", false, messages.UpgradeListFlagAll)
	cmd.Flags().BoolVarP(&listOpts.Verbose, "verbose", "v", false, messages.UpgradeFlagVerbose)
	return cmd
}

func newUpgradeWizardCmd(opts *globalOptions) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   messages.UpgradeWizardUse,
		Short: messages.UpgradeWizardShort,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wizardArgs, err := upgrade.ParseArguments(args[1:])
			if err != nil {
				return err
			}
			s, err := newSession(cmd, opts)
			if err != nil {
				return err
			}
			o, err := s.orchestrator(cmd)
			if err != nil {
				return err
			}
			_, err = o.Wizard(cmd.Context(), args[0], wizardArgs, force)
			return exitError(err)
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, messages.UpgradeWizardFlagForce)
	return cmd
}

func newUpgradeAllCmd(opts *globalOptions) *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   messages.UpgradeAllUse,
		Short: messages.UpgradeAllShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			wizardArgs, err := upgrade.ParseArguments(args)
			if err != nil {
				return err
			}
			s, err := newSession(cmd, opts)
			if err != nil {
				return err
			}
			o, err := s.orchestrator(cmd)
			if err != nil {
				return err
			}
			_, err = o.All(cmd.Context(), wizardArgs, verbose)
			return exitError(err)
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, messages.UpgradeFlagVerbose)
	return cmd
}

// newUpgradeSubprocessCmd is the worker side: one request frame on stdin,
// one response frame on stdout. Logs go to stderr only.
func newUpgradeSubprocessCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:    messages.UpgradeSubprocessUse,
		Short:  messages.UpgradeSubprocessShort,
		Args:   cobra.NoArgs,
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, opts)
			if err != nil {
				return err
			}
			env, err := app.Bootstrap(cmd.Context(), app.Options{Root: s.root, Config: s.config})
			if err != nil {
				return err
			}
			defer func() { _ = env.Close() }()
			reg, err := newWizardRegistry()
			if err != nil {
				return err
			}
			return subprocess.Serve(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), upgrade.WorkerHandlers(env, reg))
		},
	}
}
