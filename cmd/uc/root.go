package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/conn-castle/upgrade-console/internal/messages"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configPath    string
	root          string
	timeout       time.Duration
	logLevel      string
	noInteraction bool
	noColor       bool
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	cmd := &cobra.Command{
		Use:           messages.RootUse,
		Short:         messages.RootShort,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", messages.FlagConfig)
	flags.StringVar(&opts.root, "root", "", messages.FlagRoot)
	flags.DurationVar(&opts.timeout, "timeout", 0, messages.FlagTimeout)
	flags.StringVar(&opts.logLevel, "log-level", "", messages.FlagLogLevel)
	flags.BoolVarP(&opts.noInteraction, "no-interaction", "n", false, messages.FlagNoInteraction)
	flags.BoolVar(&opts.noColor, "no-color", false, messages.FlagNoColor)

	cmd.AddCommand(
		newCheckConstraintsCmd(opts),
		newUpgradeListCmd(opts),
		newUpgradeWizardCmd(opts),
		newUpgradeAllCmd(opts),
		newUpgradeSubprocessCmd(opts),
	)
	return cmd
}
