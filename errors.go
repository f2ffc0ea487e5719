package safedecoding

import (
	"errors"
	"fmt"
	"strings"

	"github.com/renato-iar/safedecoding/i18n"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeMissingKey           = "missing_key"
	CodeTypeMismatch         = "type_mismatch"
	CodeItemDecode           = "item_decode"
	CodeValueDecode          = "value_decode"
	CodeAmbiguousVariant     = "ambiguous_variant"
	CodeNoMatchingCase       = "no_matching_case"
	CodeInvalidConfiguration = "invalid_configuration"
	CodeParseError           = "parse_error"
)

// Issue represents a single decode or configuration entry.
type Issue struct {
	Path    string // JSON Pointer (for example: /items/2).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints, expected shapes, etc.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"key":"type", "got":"legacy"})
	// for i18n and observability.
	Params map[string]any
}

// Issues is a collection of decode errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. type_mismatch at /path
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// issuesFromErr converts an error into Issues, wrapping foreign errors with
// CodeParseError.
func issuesFromErr(path string, err error) Issues {
	if err == nil {
		return nil
	}
	if i2, ok := AsIssues(err); ok {
		return i2
	}
	return Issues{Issue{Path: path, Code: CodeParseError, Message: err.Error(), Cause: err}}
}

// wrapRecovered tags a captured element or entry failure with its taxonomy
// code (item_decode for sequence/set elements, value_decode for dictionary
// values) before it reaches a reporter. The causing error rides along.
func wrapRecovered(code, path string, err error) Issues {
	return Issues{Issue{Path: path, Code: code, Message: i18n.T(code, nil), Cause: err}}
}

// rebaseIssues prefixes child issue paths with base ("/field") so nested
// failures point into the enclosing container.
func rebaseIssues(base string, err error) Issues {
	child := issuesFromErr(base, err)
	var out Issues
	for _, it := range child {
		p := it.Path
		if p == "" || p == "/" {
			p = base
		} else if p[0] == '/' {
			p = base + p
		} else {
			p = base + "/" + p
		}
		out = AppendIssues(out, Issue{Path: p, Code: it.Code, Message: it.Message, Hint: it.Hint, Cause: it.Cause, Params: it.Params})
	}
	return out
}
