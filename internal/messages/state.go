package messages

// Wizard state store messages.
const (
	StateOpenLockFmt    = "open state lock %s: %w"
	StateLockFmt        = "lock state file %s: %w"
	StateLockTimeoutFmt = "timed out after %s waiting for the state lock"
	StateCreateDirFmt   = "create state directory %s: %w"
	StateReadFmt        = "read wizard state %s: %w"
	StateDecodeFmt      = "decode wizard state %s: %w"
	StateEncodeFmt      = "encode wizard state %s: %w"
	StateWriteFmt       = "write wizard state %s: %w"

	StatePostgresDSNRequired        = "state.dsn (or UC_STATE_DSN) is required for the postgres backend"
	StatePostgresPingTimeoutInvalid = "postgres ping timeout must be >= 0"
	StatePostgresOpenFmt            = "open postgres: %w"
	StatePostgresPingFmt            = "ping postgres: %w"
	StatePostgresSchemaFmt          = "create wizard state table: %w"
	StatePostgresQueryFmt           = "read wizard state for %q: %w"
	StatePostgresMarkFmt            = "mark wizard %q done: %w"
	StateUnknownBackendFmt          = "unknown state backend %q (supported: file, postgres)"
)
