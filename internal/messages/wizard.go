package messages

// Wizard registry messages.
const (
	WizardInvalidIdentifierFmt   = "invalid wizard identifier %q"
	WizardDuplicateIdentifierFmt = "wizard %q is registered twice"
	WizardApplicableFmt          = "check whether wizard %s applies: %w"
	WizardMarkDoneFmt            = "wizard %s succeeded but could not be marked done: %v"
	WizardPanicFmt               = "wizard panicked: %v"
	WizardUnknownStatusFmt       = "unknown wizard status %q"
)
