package messages

// CLI command and flag text.
const (
	RootUse   = "uc"
	RootShort = "Run application upgrade wizards and check extension compatibility"

	FlagConfig        = "path to config.toml (default <root>/.upgrade-console/config.toml)"
	FlagRoot          = "application root (default: detected from the working directory)"
	FlagTimeout       = "per-worker timeout, e.g. 5m (0 disables; default from config)"
	FlagLogLevel      = "log level or loggo spec, e.g. DEBUG or <root>=INFO;uc.subprocess=TRACE"
	FlagNoInteraction = "never prompt; confirmable wizards use their defaults"
	FlagNoColor       = "disable colored output"

	ConstraintsUse        = "check-extension-constraints [extension-keys...]"
	ConstraintsShort      = "Check that third-party extensions support the target version"
	ConstraintsFlagTarget = "target application version (default: installed version)"

	UpgradeListUse         = "upgrade:list"
	UpgradeListShort       = "List wizards scheduled for execution"
	UpgradeListFlagAll     = "also list wizards marked as done"
	UpgradeFlagVerbose     = "show wizard descriptions and a full report"
	UpgradeWizardUse       = "upgrade:wizard <identifier> [arguments...]"
	UpgradeWizardShort     = "Execute a single upgrade wizard"
	UpgradeWizardFlagForce = "execute the wizard even if it is marked as done"
	UpgradeAllUse          = "upgrade:all [arguments...]"
	UpgradeAllShort        = "Execute all scheduled upgrade wizards"
	UpgradeSubprocessUse   = "upgrade:subprocess"
	UpgradeSubprocessShort = "Serve one upgrade operation over stdin/stdout"

	CLIExecutableFmt = "locate executable: %w"
	CLIGetwdFmt      = "get working directory: %w"

	VersionTemplate  = "{{.Version}}\n"
	VersionFullFmt   = "%s (%s)"
	VersionCommitFmt = "commit %s"
	VersionBuildFmt  = "built %s"
)
