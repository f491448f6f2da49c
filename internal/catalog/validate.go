package catalog

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// ValidationReason splits validation failures into the two caller-visible
// families: something required was absent vs. the supplied set is invalid.
type ValidationReason int

const (
	ReasonMissingParameter ValidationReason = iota
	ReasonInvalidCombination
)

// ValidationError is a rejected parameter set. Msg is the caller-visible
// message.
type ValidationError struct {
	Reason ValidationReason
	Msg    string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func missingErr(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: ReasonMissingParameter, Msg: fmt.Sprintf(format, args...)}
}

func invalidErr(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: ReasonInvalidCombination, Msg: fmt.Sprintf(format, args...)}
}

// Values holds validated parameters: types coerced, defaults applied,
// mutual-exclusion groups resolved to their single winner. Group losers
// and empty-string values are absent.
type Values map[string]any

// Has reports whether the parameter was supplied (or defaulted).
func (v Values) Has(name string) bool {
	_, ok := v[name]
	return ok
}

// Str returns a string parameter, "" when absent.
func (v Values) Str(name string) string {
	s, _ := v[name].(string)
	return s
}

// Bool returns a boolean parameter, false when absent.
func (v Values) Bool(name string) bool {
	b, _ := v[name].(bool)
	return b
}

// Int returns an integer parameter, 0 when absent.
func (v Values) Int(name string) int {
	i, _ := v[name].(int)
	return i
}

// Float returns a float parameter, 0 when absent.
func (v Values) Float(name string) float64 {
	f, _ := v[name].(float64)
	return f
}

// Validate checks args against the spec and returns canonical Values.
// It is pure: file-path parameters are checked for existence later, at
// the dispatch layer, never here.
func Validate(spec Spec, args map[string]any) (Values, error) {
	// Reject parameters outside the schema. Sorted for a stable message.
	names := make([]string, 0, len(args))
	for name := range args {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, ok := spec.Param(name); !ok {
			return nil, invalidErr("unknown parameter '%s' for %s", name, spec.Op.ToolName())
		}
	}

	out := make(Values, len(spec.Params))
	for _, p := range spec.Params {
		raw, present := args[p.Name]
		if !present {
			continue
		}
		val, err := coerce(p, raw)
		if err != nil {
			return nil, err
		}
		if val == nil {
			// Empty strings count as omitted, matching the original's
			// handling of "" for region/pattern/output paths.
			continue
		}
		out[p.Name] = val
	}

	for _, p := range spec.Params {
		if p.Required && !out.Has(p.Name) {
			return nil, missingErr("'%s' is required", p.Name)
		}
	}

	if err := resolveGroups(spec, out); err != nil {
		return nil, err
	}

	for _, p := range spec.Params {
		if p.Default != nil && !out.Has(p.Name) {
			out[p.Name] = p.Default
		}
	}

	if spec.Op == OpSample && out.Has("proportion") {
		if prop := out.Float("proportion"); prop <= 0 || prop > 1 {
			return nil, invalidErr("'proportion' must be within (0, 1], got %v", prop)
		}
	}

	return out, nil
}

// resolveGroups enforces exactly-one-present per mutual-exclusion group.
// When several members are present the first in declaration order wins
// and the rest are removed.
func resolveGroups(spec Spec, out Values) error {
	seen := make(map[string]bool)
	for _, p := range spec.Params {
		if p.Group == "" || seen[p.Group] {
			continue
		}
		seen[p.Group] = true

		var members []Param
		for _, q := range spec.Params {
			if q.Group == p.Group {
				members = append(members, q)
			}
		}

		winner := ""
		for _, m := range members {
			if !out.Has(m.Name) {
				continue
			}
			if winner == "" {
				winner = m.Name
			} else {
				delete(out, m.Name)
			}
		}
		if winner == "" {
			quoted := make([]string, len(members))
			for i, m := range members {
				quoted[i] = "'" + m.Name + "'"
			}
			return invalidErr("Either %s must be specified", strings.Join(quoted, " or "))
		}
	}
	return nil
}

func coerce(p Param, raw any) (any, error) {
	switch p.Kind {
	case KindString:
		s, ok := raw.(string)
		if !ok {
			return nil, invalidErr("parameter '%s' must be a string", p.Name)
		}
		if s == "" {
			return nil, nil
		}
		return s, nil

	case KindBool:
		b, ok := raw.(bool)
		if !ok {
			return nil, invalidErr("parameter '%s' must be a boolean", p.Name)
		}
		return b, nil

	case KindInt:
		switch n := raw.(type) {
		case int:
			return n, nil
		case int64:
			return int(n), nil
		case float64:
			// JSON numbers arrive as float64; only integral values pass.
			if math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) {
				return nil, invalidErr("parameter '%s' must be an integer", p.Name)
			}
			return int(n), nil
		default:
			return nil, invalidErr("parameter '%s' must be an integer", p.Name)
		}

	case KindFloat:
		switch n := raw.(type) {
		case float64:
			return n, nil
		case int:
			return float64(n), nil
		case int64:
			return float64(n), nil
		default:
			return nil, invalidErr("parameter '%s' must be a number", p.Name)
		}

	case KindEnum:
		s, ok := raw.(string)
		if !ok {
			return nil, invalidErr("parameter '%s' must be a string", p.Name)
		}
		if s == "" {
			return nil, nil
		}
		for _, allowed := range p.Enum {
			if s == allowed {
				return s, nil
			}
		}
		return nil, invalidErr("parameter '%s' must be one of %s", p.Name, strings.Join(p.Enum, ", "))

	default:
		return nil, invalidErr("parameter '%s' has unsupported kind", p.Name)
	}
}
