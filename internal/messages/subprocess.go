package messages

// Subprocess runner and worker messages.
const (
	SubprocessLaunchFmt         = "start worker %s: %v"
	SubprocessCrashedFmt        = "worker for %s exited with code %d before responding"
	SubprocessTimedOutFmt       = "worker for %s timed out after %s"
	SubprocessInterruptedFmt    = "worker for %s was interrupted"
	SubprocessStderrTailFmt     = "%s\nworker stderr:\n%s"
	SubprocessProtocolFmt       = "worker for %s sent an invalid response: %v"
	SubprocessRemoteFmt         = "worker for %s failed: %s"
	SubprocessEncodeRequestFmt  = "encode %s request: %w"
	SubprocessIDMismatchFmt     = "response id %q does not match request id %q"
	SubprocessTrailingOutputFmt = "%d unexpected bytes after the response"
	SubprocessReadRequestFmt    = "read request: %w"
	SubprocessWriteResponseFmt  = "write response: %w"
	SubprocessEncodeResultFmt   = "encode result of %s: %v"
	SubprocessHandlerPanicFmt   = "handler for %s panicked: %v"
	SubprocessLateResponseFmt   = "worker for %s exited with %v after a complete response"
)
