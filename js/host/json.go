package host

import (
	"strconv"
	"strings"

	"github.com/kestrelweb/corebrowser/js/interp"
)

// installJSON ports builtins::{json_parse, json_stringify}. The original's
// parse_json_value is a hand-rolled recursive-descent reader (split on top
// level commas/colons, no nested-structure awareness) rather than a real
// JSON parser; this port keeps that same shape rather than reaching for a
// conformant decoder, since spec §4.10 only asks for a plausible JSON
// object, not standards compliance.
func installJSON(in *interp.Interp) {
	obj := interp.NewObject()
	obj.Set("parse", nativeFn("parse", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
		s := arg(args, 0).ToJsString()
		if v, ok := parseJSONValue(s); ok {
			return v, nil
		}
		return interp.Null, nil
	}))
	obj.Set("stringify", nativeFn("stringify", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
		return interp.String(stringifyJSONValue(arg(args, 0))), nil
	}))
	in.DefineGlobal("JSON", interp.ObjectValue(obj))
}

func parseJSONValue(s string) (interp.Value, bool) {
	s = strings.TrimSpace(s)
	switch s {
	case "null":
		return interp.Null, true
	case "true":
		return interp.Bool(true), true
	case "false":
		return interp.Bool(false), true
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return interp.Number(n), true
	}
	if strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) && len(s) >= 2 {
		return interp.String(s[1 : len(s)-1]), true
	}
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		inner := s[1 : len(s)-1]
		var elems []interp.Value
		for _, item := range splitTopLevel(inner, ',') {
			if v, ok := parseJSONValue(item); ok {
				elems = append(elems, v)
			}
		}
		return interp.ArrayValue(&interp.Array{Elems: elems}), true
	}
	if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
		obj := interp.NewObject()
		inner := s[1 : len(s)-1]
		for _, pair := range splitTopLevel(inner, ',') {
			parts := strings.SplitN(pair, ":", 2)
			if len(parts) != 2 {
				continue
			}
			key := strings.Trim(strings.TrimSpace(parts[0]), `"`)
			if v, ok := parseJSONValue(parts[1]); ok {
				obj.Set(key, v)
			}
		}
		return interp.ObjectValue(obj), true
	}
	return interp.Undefined, false
}

// splitTopLevel splits on sep, ignoring separators nested inside [] {} ""
// — a minimal stand-in for a real tokenizer, sufficient for the flat
// object/array literals JSON.parse is exercised with here.
func splitTopLevel(s string, sep byte) []string {
	var out []string
	depth := 0
	inStr := false
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			inStr = !inStr
		case inStr:
		case c == '[' || c == '{':
			depth++
		case c == ']' || c == '}':
			depth--
		case c == sep && depth == 0:
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}

func stringifyJSONValue(v interp.Value) string {
	switch v.Kind {
	case interp.KindNull:
		return "null"
	case interp.KindUndefined:
		return "undefined"
	case interp.KindBoolean:
		return strconv.FormatBool(v.Bool)
	case interp.KindNumber:
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	case interp.KindString:
		return `"` + v.Str + `"`
	case interp.KindArray:
		parts := make([]string, len(v.Arr.Elems))
		for i, e := range v.Arr.Elems {
			parts[i] = stringifyJSONValue(e)
		}
		return "[" + strings.Join(parts, ",") + "]"
	case interp.KindObject:
		parts := make([]string, 0, len(v.Obj.Keys))
		for _, k := range v.Obj.Keys {
			val, _ := v.Obj.Get(k)
			parts = append(parts, `"`+k+`":`+stringifyJSONValue(val))
		}
		return "{" + strings.Join(parts, ",") + "}"
	default:
		return "null"
	}
}
