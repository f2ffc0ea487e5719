package safedecoding

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	gojson "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Source abstracts over polymorphic input sources. Value materializes the
// whole document as object/array/scalar values the engine decodes from.
type Source interface {
	Value() (any, error)
	Name() string
}

// JSONDriver converts JSON input into a Source via a pluggable SPI. The
// default implementation is based on goccy/go-json and may be swapped with
// SetJSONDriver.
type JSONDriver interface {
	NewBytes(b []byte) Source
	NewReader(r io.Reader) Source
	Name() string
}

var (
	jsonDriverMu      sync.RWMutex
	currentJSONDriver JSONDriver = gojsonDriver{}
)

// SetJSONDriver replaces the global JSON driver; nil values are ignored.
func SetJSONDriver(d JSONDriver) {
	if d == nil {
		return
	}
	jsonDriverMu.Lock()
	currentJSONDriver = d
	jsonDriverMu.Unlock()
}

// UseDefaultJSONDriver restores the default goccy/go-json-backed driver.
func UseDefaultJSONDriver() {
	jsonDriverMu.Lock()
	currentJSONDriver = gojsonDriver{}
	jsonDriverMu.Unlock()
}

func getJSONDriver() JSONDriver {
	jsonDriverMu.RLock()
	d := currentJSONDriver
	jsonDriverMu.RUnlock()
	return d
}

// gojsonDriver wraps the goccy/go-json implementation. Numbers are preserved
// as json.Number so integer fields do not lose precision through float64.
type gojsonDriver struct{}

func (gojsonDriver) NewBytes(b []byte) Source {
	return valueSource{name: "json", load: func() (any, error) {
		dec := gojson.NewDecoder(bytes.NewReader(b))
		dec.UseNumber()
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	}}
}

func (gojsonDriver) NewReader(r io.Reader) Source {
	return valueSource{name: "json", load: func() (any, error) {
		dec := gojson.NewDecoder(r)
		dec.UseNumber()
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	}}
}

func (gojsonDriver) Name() string { return "goccy/go-json" }

// JSONBytes wraps a byte slice as a JSON Source.
func JSONBytes(b []byte) Source { return getJSONDriver().NewBytes(b) }

// JSONReader wraps an io.Reader as a JSON Source.
func JSONReader(r io.Reader) Source { return getJSONDriver().NewReader(r) }

// YAMLBytes wraps a byte slice as a YAML Source. Mappings are normalized to
// map[string]any so the engine sees one container shape regardless of driver.
func YAMLBytes(b []byte) Source {
	return valueSource{name: "yaml", load: func() (any, error) {
		var v any
		if err := yaml.Unmarshal(b, &v); err != nil {
			return nil, err
		}
		return normalizeYAML(v), nil
	}}
}

// YAMLReader wraps an io.Reader as a YAML Source.
func YAMLReader(r io.Reader) Source {
	return valueSource{name: "yaml", load: func() (any, error) {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return normalizeYAML(v), nil
	}}
}

type valueSource struct {
	name string
	load func() (any, error)
}

func (s valueSource) Value() (any, error) { return s.load() }
func (s valueSource) Name() string        { return s.name }

// normalizeYAML rewrites yaml.v3 container values into the engine's wire
// shape: map[string]any objects and []any arrays, with non-string mapping
// keys rendered to their string spelling.
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalizeYAML(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalizeYAML(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalizeYAML(val)
		}
		return out
	default:
		return v
	}
}

// DecodeFrom is the primary entry point: it materializes the Source and
// delegates to the schema's decode procedure.
func DecodeFrom(ctx context.Context, s TypeSchema, src Source) (any, error) {
	if s == nil {
		return nil, Issues{Issue{Path: "/", Code: CodeParseError, Message: "nil schema"}}
	}
	v, err := src.Value()
	if err != nil {
		return nil, issuesFromErr("/", err)
	}
	return s.DecodeValue(ctx, v)
}

// DecodeFromWithReporter is DecodeFrom with an explicit reporter.
func DecodeFromWithReporter(ctx context.Context, s TypeSchema, src Source, rep Reporter) (any, error) {
	if s == nil {
		return nil, Issues{Issue{Path: "/", Code: CodeParseError, Message: "nil schema"}}
	}
	v, err := src.Value()
	if err != nil {
		return nil, issuesFromErr("/", err)
	}
	return s.DecodeValueWithReporter(ctx, v, rep)
}
