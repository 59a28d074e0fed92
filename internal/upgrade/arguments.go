package upgrade

import (
	"fmt"
	"sort"
	"strings"

	"github.com/conn-castle/upgrade-console/internal/ident"
	"github.com/conn-castle/upgrade-console/internal/messages"
)

// Arguments are wizard arguments from the command line. A token is either
// flat (key=value) or scoped to one wizard (identifier[key]=value).
type Arguments struct {
	flat   map[string]any
	scoped map[string]map[string]any
	// order keeps first-seen flat keys for error messages.
	order []string
}

// SplitList splits comma-separated tokens and drops empty entries.
func SplitList(tokens []string) []string {
	var out []string
	for _, token := range tokens {
		for _, part := range strings.Split(token, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// ParseArguments reads argument tokens. Tokens may carry several
// comma-separated arguments.
func ParseArguments(tokens []string) (Arguments, error) {
	args := Arguments{flat: map[string]any{}, scoped: map[string]map[string]any{}}
	for _, token := range SplitList(tokens) {
		name, value, ok := strings.Cut(token, "=")
		if !ok {
			return Arguments{}, fmt.Errorf(messages.UpgradeArgumentSyntaxFmt, token)
		}
		id, key, scoped, err := splitName(name)
		if err != nil || key == "" {
			return Arguments{}, fmt.Errorf(messages.UpgradeArgumentSyntaxFmt, token)
		}
		if !scoped {
			if _, seen := args.flat[key]; !seen {
				args.order = append(args.order, key)
			}
			args.flat[key] = value
			continue
		}
		if args.scoped[id] == nil {
			args.scoped[id] = map[string]any{}
		}
		args.scoped[id][key] = value
	}
	return args, nil
}

// splitName parses "key" or "identifier[key]".
func splitName(name string) (id string, key string, scoped bool, err error) {
	open := strings.IndexByte(name, '[')
	if open < 0 {
		if strings.ContainsAny(name, "[]") {
			return "", "", false, fmt.Errorf(messages.UpgradeArgumentSyntaxFmt, name)
		}
		return "", ident.Normalize(name), false, nil
	}
	if !strings.HasSuffix(name, "]") || open == 0 {
		return "", "", false, fmt.Errorf(messages.UpgradeArgumentSyntaxFmt, name)
	}
	id = ident.Normalize(name[:open])
	key = ident.Normalize(name[open+1 : len(name)-1])
	if id == "" || strings.ContainsAny(key, "[]") {
		return "", "", false, fmt.Errorf(messages.UpgradeArgumentSyntaxFmt, name)
	}
	return id, key, true, nil
}

// For returns the arguments for wizard id. Scoped values win over flat ones.
func (a Arguments) For(id string) map[string]any {
	out := make(map[string]any, len(a.flat)+len(a.scoped[id]))
	for key, value := range a.flat {
		out[key] = value
	}
	for key, value := range a.scoped[id] {
		out[key] = value
	}
	return out
}

// FlatKeys returns the keys given without a wizard identifier.
func (a Arguments) FlatKeys() []string {
	return append([]string(nil), a.order...)
}

// Identifiers returns the wizards named by scoped arguments, sorted.
func (a Arguments) Identifiers() []string {
	ids := make([]string, 0, len(a.scoped))
	for id := range a.scoped {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
