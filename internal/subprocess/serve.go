package subprocess

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime/debug"

	"github.com/conn-castle/upgrade-console/internal/codec"
	"github.com/conn-castle/upgrade-console/internal/ident"
	"github.com/conn-castle/upgrade-console/internal/messages"
)

// HandlerFunc answers one operation inside the worker.
type HandlerFunc func(ctx context.Context, args map[string]any) (any, error)

// Handlers maps each served operation to its handler.
type Handlers map[Operation]HandlerFunc

// Serve reads one request from in, dispatches it, and writes one response to
// out. Dispatch failures are reported inside the response; the returned
// error covers only a request that cannot be read or a response that cannot
// be written.
func Serve(ctx context.Context, in io.Reader, out io.Writer, handlers Handlers) error {
	req, err := codec.ReadRequest(in)
	if err != nil {
		return fmt.Errorf(messages.SubprocessReadRequestFmt, err)
	}
	logger.Debugf("serving %s (request %s)", req.Command, req.ID)

	resp := codec.Response{ID: req.ID}
	result, err := dispatch(ctx, req, handlers)
	if err != nil {
		resp.Error = remoteError(err)
	} else if resp.Result, err = codec.Normalize(result); err != nil {
		resp.Error = &codec.RemoteError{
			Kind:    codec.KindInternal,
			Message: fmt.Sprintf(messages.SubprocessEncodeResultFmt, req.Command, err),
		}
	}
	if err := codec.WriteResponse(out, resp); err != nil {
		return fmt.Errorf(messages.SubprocessWriteResponseFmt, err)
	}
	return nil
}

func dispatch(ctx context.Context, req codec.Request, handlers Handlers) (result any, err error) {
	op, err := ParseOperation(req.Command)
	if err != nil {
		return nil, err
	}
	handler, ok := handlers[op]
	if !ok {
		return nil, ident.Unknown(ident.KindOperation, req.Command)
	}
	defer func() {
		if recovered := recover(); recovered != nil {
			logger.Errorf("handler for %s panicked: %v\n%s", op, recovered, debug.Stack())
			err = fmt.Errorf(messages.SubprocessHandlerPanicFmt, op, recovered)
		}
	}()
	return handler(ctx, req.Arguments)
}

// remoteError classifies a dispatch failure for the wire.
func remoteError(err error) *codec.RemoteError {
	var remote *codec.RemoteError
	switch {
	case errors.As(err, &remote):
		return remote
	case errors.Is(err, ident.ErrUnknown):
		return &codec.RemoteError{Kind: codec.KindUnknownIdentifier, Message: err.Error()}
	case errors.Is(err, codec.ErrInvalidPayload):
		return &codec.RemoteError{Kind: codec.KindInvalidArguments, Message: err.Error()}
	}
	return &codec.RemoteError{Kind: codec.KindInternal, Message: err.Error()}
}
