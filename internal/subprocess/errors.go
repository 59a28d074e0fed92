package subprocess

import (
	"fmt"
	"time"

	"github.com/conn-castle/upgrade-console/internal/codec"
	"github.com/conn-castle/upgrade-console/internal/ident"
	"github.com/conn-castle/upgrade-console/internal/messages"
)

// LaunchError reports that the worker process could not be started.
type LaunchError struct {
	Executable string
	Err        error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf(messages.SubprocessLaunchFmt, e.Executable, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// ChildCrashedError reports that the worker ended without a complete
// response: a non-zero exit, a signal, a timeout, or an interrupt.
type ChildCrashedError struct {
	Operation Operation
	ExitCode  int
	Stderr    string
	TimedOut  bool
	Timeout   time.Duration
	Canceled  bool
	Err       error
}

func (e *ChildCrashedError) Error() string {
	var msg string
	switch {
	case e.TimedOut:
		msg = fmt.Sprintf(messages.SubprocessTimedOutFmt, e.Operation, e.Timeout)
	case e.Canceled:
		msg = fmt.Sprintf(messages.SubprocessInterruptedFmt, e.Operation)
	default:
		msg = fmt.Sprintf(messages.SubprocessCrashedFmt, e.Operation, e.ExitCode)
	}
	if e.Stderr != "" {
		msg = fmt.Sprintf(messages.SubprocessStderrTailFmt, msg, e.Stderr)
	}
	return msg
}

func (e *ChildCrashedError) Unwrap() error { return e.Err }

// ProtocolError reports a response that could not be decoded or does not
// answer the request that was sent.
type ProtocolError struct {
	Operation Operation
	Err       error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf(messages.SubprocessProtocolFmt, e.Operation, e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// RemoteError is a dispatch error reported by the worker.
type RemoteError struct {
	Operation Operation
	Remote    *codec.RemoteError
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf(messages.SubprocessRemoteFmt, e.Operation, e.Remote.Message)
}

// Unwrap maps remote kinds back onto the local sentinels so callers can use
// errors.Is on either side of the process boundary.
func (e *RemoteError) Unwrap() error {
	switch e.Remote.Kind {
	case codec.KindUnknownIdentifier:
		return ident.ErrUnknown
	case codec.KindInvalidArguments:
		return codec.ErrInvalidPayload
	}
	return e.Remote
}
