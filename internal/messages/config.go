package messages

// Configuration and environment file messages.
const (
	ConfigResolvePathFmt      = "resolve config path %s: %w"
	ConfigMissingFileFmt      = "read config %s: %w"
	ConfigInvalidConfigFmt    = "invalid config %s: %w"
	ConfigUnrecognizedKeysFmt = "config %s has unrecognized keys: %w"

	ConfigAppKeyRequiredFmt           = "%s: app.key is required"
	ConfigAppVersionInvalidFmt        = "%s: app.version: %w"
	ConfigAppSettingsRequiredFmt      = "%s: app.settings is required"
	ConfigExtensionPathEmptyFmt       = "%s: extensions.paths[%d] is empty"
	ConfigThirdPartyMarkerRequiredFmt = "%s: extensions.third_party_marker is required"
	ConfigTimeoutInvalidFmt           = "%s: upgrade.timeout %q must be a non-negative duration such as \"90s\""
	ConfigStatePathRequiredFmt        = "%s: state.path is required for the file backend"
	ConfigStateDSNRequiredFmt         = "%s: state.dsn (or UC_STATE_DSN) is required for the postgres backend"
	ConfigStateBackendInvalidFmt      = "%s: state.backend %q must be \"file\" or \"postgres\""

	EnvfileReadFileFmt             = "read env file %s: %w"
	EnvfileInvalidFmt              = "invalid env file %s: %w"
	EnvfileLineErrorFmt            = "line %d: %w"
	EnvfileReadFailedFmt           = "failed to read env content: %w"
	EnvfileExpectedKeyValue        = "expected KEY=VALUE"
	EnvfileUnterminatedQuotedValue = "unterminated quoted value"
	EnvfileInvalidQuotedSuffix     = "invalid trailing characters after quoted value"

	RootFindFmt           = "find %s directory from %s: %w"
	RootNotDirectoryFmt   = "%s exists but is not a directory"
	RootStartRequired     = "start path is required"
	RootResolveStartFmt   = "resolve start path %s: %w"
	LoggingInvalidSpecFmt = "invalid log level %q: %w"
)
