package messages

// Built-in wizard messages.
const (
	BuiltinNoChanges         = "settings already up to date"
	BuiltinInvalidBoolArgFmt = "argument %q must be a yes/no value, got %v"

	BuiltinKeyRenameTitle       = "Rename deprecated settings keys"
	BuiltinKeyRenameDescription = "Moves settings that were renamed in this release to their new keys."
	BuiltinDefaultsTitle        = "Add required settings defaults"
	BuiltinDefaultsDescription  = "Adds settings that are mandatory in this release and have no value yet."

	BuiltinActivationTitle       = "Install the legacy compatibility extension"
	BuiltinActivationDescription = "Optionally activates the extension that keeps removed core behavior available."
	BuiltinActivationQuestion    = "Install the legacy compatibility extension?"
	BuiltinActivationDeclined    = "legacy compatibility extension not installed"

	BuiltinLegacyTitle       = "Migrate legacy options"
	BuiltinLegacyDescription = "Moves legacy system options into the compatibility extension's configuration."
)
