package codec

import (
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/conn-castle/upgrade-console/internal/messages"
)

// Error kinds carried by RemoteError.
const (
	KindUnknownIdentifier = "unknown_identifier"
	KindWizardExecution   = "wizard_execution"
	KindInvalidArguments  = "invalid_arguments"
	KindInternal          = "internal"
)

// ErrInvalidPayload marks a well-formed document whose fields do not match
// what an operation expects.
var ErrInvalidPayload = errors.New(messages.CodecInvalidPayload)

// Request asks the worker to run one operation.
type Request struct {
	ID        string
	Command   string
	Arguments map[string]any
}

// RemoteError is an error reported across the process boundary.
type RemoteError struct {
	Kind    string
	Message string
}

func (e *RemoteError) Error() string {
	return e.Kind + ": " + e.Message
}

// Response answers a Request with the same ID. Exactly one of Result or Error
// is meaningful.
type Response struct {
	ID     string
	Result any
	Error  *RemoteError
}

// NewRequestID returns a fresh request identifier.
func NewRequestID() string {
	return uuid.NewString()
}

// WriteRequest encodes req as one frame.
func WriteRequest(w io.Writer, req Request) error {
	body, err := Encode(map[string]any{
		"id":        req.ID,
		"command":   req.Command,
		"arguments": argumentsOrEmpty(req.Arguments),
	})
	if err != nil {
		return err
	}
	return WriteFrame(w, body)
}

// ReadRequest reads and decodes one request frame.
func ReadRequest(r io.Reader) (Request, error) {
	doc, err := readDocument(r, "request")
	if err != nil {
		return Request{}, err
	}
	var req Request
	if req.ID, err = stringField(doc, "id"); err != nil {
		return Request{}, err
	}
	if req.Command, err = stringField(doc, "command"); err != nil {
		return Request{}, err
	}
	switch args := doc["arguments"].(type) {
	case nil:
		req.Arguments = map[string]any{}
	case map[string]any:
		req.Arguments = args
	default:
		return Request{}, fmt.Errorf(messages.CodecFieldTypeFmt, "arguments", args, "map")
	}
	return req, nil
}

// WriteResponse encodes resp as one frame.
func WriteResponse(w io.Writer, resp Response) error {
	doc := map[string]any{"id": resp.ID, "result": resp.Result}
	if resp.Error != nil {
		doc["result"] = nil
		doc["error"] = map[string]any{"kind": resp.Error.Kind, "message": resp.Error.Message}
	}
	body, err := Encode(doc)
	if err != nil {
		return err
	}
	return WriteFrame(w, body)
}

// ReadResponse reads and decodes one response frame.
func ReadResponse(r io.Reader) (Response, error) {
	doc, err := readDocument(r, "response")
	if err != nil {
		return Response{}, err
	}
	var resp Response
	if resp.ID, err = stringField(doc, "id"); err != nil {
		return Response{}, err
	}
	resp.Result = doc["result"]
	switch remote := doc["error"].(type) {
	case nil:
	case map[string]any:
		kind, err := stringField(remote, "kind")
		if err != nil {
			return Response{}, err
		}
		message, err := stringField(remote, "message")
		if err != nil {
			return Response{}, err
		}
		resp.Error = &RemoteError{Kind: kind, Message: message}
	default:
		return Response{}, fmt.Errorf(messages.CodecFieldTypeFmt, "error", remote, "map")
	}
	return resp, nil
}

func readDocument(r io.Reader, what string) (map[string]any, error) {
	body, err := ReadFrame(r)
	if err != nil {
		return nil, err
	}
	value, err := Decode(body)
	if err != nil {
		return nil, err
	}
	doc, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf(messages.CodecNotAMapFmt, what, value)
	}
	return doc, nil
}

func stringField(doc map[string]any, key string) (string, error) {
	value, ok := doc[key].(string)
	if !ok {
		return "", fmt.Errorf(messages.CodecFieldTypeFmt, key, doc[key], "string")
	}
	return value, nil
}

func argumentsOrEmpty(args map[string]any) map[string]any {
	if args == nil {
		return map[string]any{}
	}
	return args
}
