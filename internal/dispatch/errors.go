package dispatch

import (
	"errors"
	"fmt"

	"github.com/bio-mcp/bio-mcp-seqkit/internal/catalog"
	"github.com/bio-mcp/bio-mcp-seqkit/internal/toolkit"
)

// FaultKind classifies a failed dispatch. Every error leaving the
// dispatcher carries exactly one of these.
type FaultKind int

const (
	FaultUnknownOperation FaultKind = iota
	FaultInputNotFound
	FaultMissingParameter
	FaultInvalidCombination
	FaultInputTooLarge
	FaultExternalTool
	FaultTimeout
	FaultSpawn
	FaultResource
	FaultUnexpected
)

func (k FaultKind) String() string {
	switch k {
	case FaultUnknownOperation:
		return "unknown_operation"
	case FaultInputNotFound:
		return "input_not_found"
	case FaultMissingParameter:
		return "missing_parameter"
	case FaultInvalidCombination:
		return "invalid_combination"
	case FaultInputTooLarge:
		return "input_too_large"
	case FaultExternalTool:
		return "external_tool_failure"
	case FaultTimeout:
		return "timeout"
	case FaultSpawn:
		return "spawn_error"
	case FaultResource:
		return "resource_error"
	default:
		return "unexpected"
	}
}

// Fault is a classified dispatch failure. Msg is the full caller-visible
// text, delivered in-band as the tool result.
type Fault struct {
	Kind FaultKind
	Msg  string
	Err  error
}

func (f *Fault) Error() string {
	return f.Msg
}

func (f *Fault) Unwrap() error {
	return f.Err
}

func faultf(kind FaultKind, format string, args ...any) *Fault {
	return &Fault{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// classify maps any error from the dispatch pipeline onto a Fault.
// Unrecognized errors become FaultUnexpected with an "Error:" prefix.
func classify(err error) *Fault {
	var fault *Fault
	if errors.As(err, &fault) {
		return fault
	}

	var valErr *catalog.ValidationError
	if errors.As(err, &valErr) {
		kind := FaultMissingParameter
		if valErr.Reason == catalog.ReasonInvalidCombination {
			kind = FaultInvalidCombination
		}
		return &Fault{Kind: kind, Msg: valErr.Msg, Err: err}
	}

	var execErr *toolkit.ExecError
	if errors.As(err, &execErr) {
		var kind FaultKind
		switch execErr.Kind {
		case toolkit.ExecSpawn:
			kind = FaultSpawn
		case toolkit.ExecTimeout:
			kind = FaultTimeout
		default:
			kind = FaultExternalTool
		}
		return &Fault{Kind: kind, Msg: execErr.Error(), Err: err}
	}

	return &Fault{Kind: FaultUnexpected, Msg: fmt.Sprintf("Error: %v", err), Err: err}
}
