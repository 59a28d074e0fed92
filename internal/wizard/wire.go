package wizard

import (
	"fmt"
	"time"

	"github.com/conn-castle/upgrade-console/internal/codec"
	"github.com/conn-castle/upgrade-console/internal/messages"
)

// Conversions between wizard types and codec values. Field names are part
// of the worker protocol.

// ListingToValue encodes a listing.
func ListingToValue(l Listing) map[string]any {
	return map[string]any{
		"scheduled": descriptorsToValue(l.Scheduled),
		"done":      descriptorsToValue(l.Done),
	}
}

// ListingFromValue decodes a listing.
func ListingFromValue(v any) (Listing, error) {
	doc, err := asMap("listing", v)
	if err != nil {
		return Listing{}, err
	}
	scheduled, err := descriptorsFromValue("scheduled", doc["scheduled"])
	if err != nil {
		return Listing{}, err
	}
	done, err := descriptorsFromValue("done", doc["done"])
	if err != nil {
		return Listing{}, err
	}
	return Listing{Scheduled: scheduled, Done: done}, nil
}

// RequestToValue encodes an execution request.
func RequestToValue(req Request) map[string]any {
	args := req.Arguments
	if args == nil {
		args = map[string]any{}
	}
	return map[string]any{
		"identifier": req.Identifier,
		"arguments":  args,
		"force":      req.Force,
	}
}

// RequestFromValue decodes an execution request.
func RequestFromValue(v any) (Request, error) {
	doc, err := asMap("request", v)
	if err != nil {
		return Request{}, err
	}
	var req Request
	if req.Identifier, err = requireString(doc, "identifier"); err != nil {
		return Request{}, err
	}
	switch args := doc["arguments"].(type) {
	case nil:
		req.Arguments = map[string]any{}
	case map[string]any:
		req.Arguments = args
	default:
		return Request{}, invalid("arguments", args, "map")
	}
	if req.Force, err = optionalBool(doc, "force"); err != nil {
		return Request{}, err
	}
	return req, nil
}

// ResultToValue encodes a result. Succeeded is derived from Status.
func ResultToValue(r Result) map[string]any {
	doc := map[string]any{
		"identifier":  r.Identifier,
		"status":      string(r.Status),
		"message":     r.Message,
		"duration_ns": r.Duration.Nanoseconds(),
		"error":       nil,
	}
	if r.Error != nil {
		doc["error"] = map[string]any{"kind": r.Error.Kind, "message": r.Error.Message}
	}
	return doc
}

// ResultFromValue decodes a result.
func ResultFromValue(v any) (Result, error) {
	doc, err := asMap("result", v)
	if err != nil {
		return Result{}, err
	}
	var r Result
	if r.Identifier, err = requireString(doc, "identifier"); err != nil {
		return Result{}, err
	}
	status, err := requireString(doc, "status")
	if err != nil {
		return Result{}, err
	}
	switch Status(status) {
	case StatusDone, StatusSkipped, StatusFailed:
		r.Status = Status(status)
	default:
		return Result{}, fmt.Errorf("%w: "+messages.WizardUnknownStatusFmt, codec.ErrInvalidPayload, status)
	}
	r.Succeeded = r.Status != StatusFailed
	if r.Message, err = optionalString(doc, "message"); err != nil {
		return Result{}, err
	}
	if ns, ok := doc["duration_ns"].(int64); ok {
		r.Duration = time.Duration(ns)
	}
	if raw := doc["error"]; raw != nil {
		remote, err := asMap("error", raw)
		if err != nil {
			return Result{}, err
		}
		kind, err := requireString(remote, "kind")
		if err != nil {
			return Result{}, err
		}
		message, err := optionalString(remote, "message")
		if err != nil {
			return Result{}, err
		}
		r.Error = &codec.RemoteError{Kind: kind, Message: message}
	}
	return r, nil
}

func descriptorsToValue(ds []Descriptor) []any {
	out := make([]any, 0, len(ds))
	for _, d := range ds {
		doc := map[string]any{
			"identifier":   d.Identifier,
			"title":        d.Title,
			"description":  d.Description,
			"done":         d.Done,
			"confirmation": nil,
		}
		if d.Confirmation != nil {
			doc["confirmation"] = map[string]any{
				"question": d.Confirmation.Question,
				"default":  d.Confirmation.Default,
			}
		}
		out = append(out, doc)
	}
	return out
}

func descriptorsFromValue(field string, v any) ([]Descriptor, error) {
	if v == nil {
		return []Descriptor{}, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, invalid(field, v, "list")
	}
	out := make([]Descriptor, 0, len(items))
	for _, item := range items {
		doc, err := asMap(field, item)
		if err != nil {
			return nil, err
		}
		var d Descriptor
		if d.Identifier, err = requireString(doc, "identifier"); err != nil {
			return nil, err
		}
		if d.Title, err = optionalString(doc, "title"); err != nil {
			return nil, err
		}
		if d.Description, err = optionalString(doc, "description"); err != nil {
			return nil, err
		}
		if d.Done, err = optionalBool(doc, "done"); err != nil {
			return nil, err
		}
		if raw := doc["confirmation"]; raw != nil {
			conf, err := asMap("confirmation", raw)
			if err != nil {
				return nil, err
			}
			question, err := optionalString(conf, "question")
			if err != nil {
				return nil, err
			}
			def, err := optionalBool(conf, "default")
			if err != nil {
				return nil, err
			}
			d.Confirmation = &Confirmation{Question: question, Default: def}
		}
		out = append(out, d)
	}
	return out, nil
}

func asMap(field string, v any) (map[string]any, error) {
	doc, ok := v.(map[string]any)
	if !ok {
		return nil, invalid(field, v, "map")
	}
	return doc, nil
}

func requireString(doc map[string]any, key string) (string, error) {
	value, ok := doc[key].(string)
	if !ok || value == "" {
		return "", invalid(key, doc[key], "non-empty string")
	}
	return value, nil
}

func optionalString(doc map[string]any, key string) (string, error) {
	switch value := doc[key].(type) {
	case nil:
		return "", nil
	case string:
		return value, nil
	default:
		return "", invalid(key, value, "string")
	}
}

func optionalBool(doc map[string]any, key string) (bool, error) {
	switch value := doc[key].(type) {
	case nil:
		return false, nil
	case bool:
		return value, nil
	default:
		return false, invalid(key, value, "bool")
	}
}

func invalid(field string, got any, want string) error {
	return fmt.Errorf("%w: "+messages.CodecFieldTypeFmt, codec.ErrInvalidPayload, field, got, want)
}
