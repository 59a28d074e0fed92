package messages

// Upgrade orchestration and report messages.
const (
	UpgradeFailed = "upgrade failed"

	UpgradeScheduledHeading   = "Wizards scheduled for execution:"
	UpgradeDoneHeading        = "Wizards marked as done:"
	UpgradeNoneScheduled      = "No wizards scheduled for execution."
	UpgradeListItemFmt        = "  %s: %s\n"
	UpgradeListDescriptionFmt = "      %s\n"
	UpgradeInitiatingFmt      = "Initiating %s upgrade"
	UpgradeSucceededFmt       = "Successfully upgraded %s to version %s"
	UpgradeStoppedFmt         = "Upgrade stopped: wizard %s failed"
	UpgradeReportHeading      = "Upgrade report:"
	UpgradeResultLineFmt      = "%s %s (%s)\n"
	UpgradeResultErrorFmt     = "    %s\n"
	UpgradeLabelOK            = "[ok]"
	UpgradeLabelSkipped       = "[skipped]"
	UpgradeLabelFailed        = "[failed]"
	UpgradeLabelWarning       = "[warning]"
	UpgradeLabelError         = "[error]"
	UpgradeNothingExecuted    = "No wizards were executed."

	UpgradeExtensionNotFoundFmt = "Extension \"%s\" is not found in the system"
	UpgradeConstraintsOKFmt     = "All third party extensions claim to be compatible with %s version %s"
	UpgradeListExtensionsFmt    = "list extensions: %w"
	UpgradeActiveExtensionsFmt  = "read active extensions: %w"

	UpgradeArgumentSyntaxFmt  = "invalid wizard argument %q: expected key=value or identifier[key]=value"
	UpgradeAllFlatArgumentFmt = "argument %q must name its wizard, e.g. identifier[%s]=value"
	UpgradeUnusedArgumentsFmt = "arguments for wizard %q were not used"
	UpgradeDecodeListingFmt   = "decode wizard listing: %w"
	UpgradeDecodeResultFmt    = "decode result of wizard %s: %w"
	UpgradeConfirmFmt         = "confirm wizard %s: %w"
	UpgradeIdentifierRequired = "wizard identifier is required"
)
