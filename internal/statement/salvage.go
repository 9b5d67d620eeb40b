package statement

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// salvageStep rewrites a model reply toward bare JSON. ok is false when the
// reply cannot contain JSON at all.
type salvageStep func(text string) (out string, ok bool)

var (
	arraySpan  = jsonSpan('[', ']')
	objectSpan = jsonSpan('{', '}')
)

func trimSpace(text string) (string, bool) {
	return strings.TrimSpace(text), true
}

// jsonSpan keeps everything from the first open to the last close and drops
// the surrounding prose
func jsonSpan(open, close byte) salvageStep {
	return func(text string) (string, bool) {
		start := strings.IndexByte(text, open)
		if start == -1 {
			return "", false
		}
		end := strings.LastIndexByte(text, close)
		if end < start {
			return "", false
		}
		return text[start : end+1], true
	}
}

func stripFences(text string) (string, bool) {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return text, true
}

// salvage runs the steps left to right around span; the first failing step ends salvage
func salvage(text string, span salvageStep) (string, bool) {
	for _, step := range []salvageStep{trimSpace, span, stripFences, trimSpace} {
		var ok bool
		if text, ok = step(text); !ok {
			return "", false
		}
	}
	return text, true
}

// spanOrder lists the spans to try. The array span comes first unless the
// reply opens with an object, so a bare object is not mistaken for its nested
// transactions array while prose braces before an array still fall through.
func spanOrder(text string) []salvageStep {
	if i := strings.IndexAny(text, "[{"); i != -1 && text[i] == '{' {
		return []salvageStep{objectSpan, arraySpan}
	}
	return []salvageStep{arraySpan, objectSpan}
}

// decodeReply salvages a model reply and decodes it. Numbers are kept as
// json.Number so amounts keep the digits the model wrote. The error of the
// first candidate span is reported when none decodes.
func decodeReply(reply string) (any, error) {
	var firstErr error
	for _, span := range spanOrder(reply) {
		text, ok := salvage(reply, span)
		if !ok {
			continue
		}
		v, err := decodeJSON(text)
		if err == nil {
			return v, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	if firstErr == nil {
		return nil, fmt.Errorf("no JSON found in response")
	}
	return nil, firstErr
}

// decodeJSON decodes exactly one JSON array or object
func decodeJSON(text string) (any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("unmarshaling json: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("unexpected data after JSON value")
	}

	switch v.(type) {
	case []any, map[string]any:
		return v, nil
	default:
		return nil, fmt.Errorf("expected JSON array or object, got %T", v)
	}
}
