// Package interp is the tree-walking evaluator for js/ast programs (spec
// §4.9), grounded on original_source/crates/js_engine/src/{interpreter.rs,
// value.rs}. JsValue's Rust enum becomes a Go struct tagged by Kind, with
// reference-typed variants (Object/Array) holding a pointer so two
// Values can share the same identity the way Rc<RefCell<..>> does.
package interp

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kestrelweb/corebrowser/js/ast"
)

type Kind uint8

const (
	KindUndefined Kind = iota
	KindNull
	KindBoolean
	KindNumber
	KindString
	KindObject
	KindArray
	KindFunction
	KindNativeFunction
	KindSymbol
	KindRegExp
)

// Object is the shared backing store for a JS object; two Values holding
// the same *Object pointer are the same reference, mirroring Rc::ptr_eq.
type Object struct {
	Props map[string]Value
	// Keys records insertion order since Go maps don't, for Object.keys
	// and for-in enumeration (spec §4.9's for-in walks an object's keys).
	Keys []string
	// Native optionally anchors this object to a host-side value it wraps
	// (e.g. js/host's DOM element objects hold the *dom.Node they mirror),
	// so host methods can operate on live state instead of only the
	// snapshotted Props above. Plain JS objects leave this nil.
	Native any
}

func NewObject() *Object {
	return &Object{Props: make(map[string]Value)}
}

func (o *Object) Set(key string, v Value) {
	if _, ok := o.Props[key]; !ok {
		o.Keys = append(o.Keys, key)
	}
	o.Props[key] = v
}

func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.Props[key]
	return v, ok
}

type Array struct {
	Elems []Value
}

// Function is a user-defined function or arrow closure. Arrow bodies use
// ExprBody for the concise form; Body otherwise. Closure is the defining
// scope chain, captured at creation time so the function sees its lexical
// environment rather than the caller's.
type Function struct {
	Name      string
	Params    []ast.Param
	Body      []ast.Stmt
	ExprBody  ast.Expr
	IsArrow   bool
	OuterThis Value // arrow functions inherit the enclosing `this`
	Closure   *Scope
}

type NativeFunc struct {
	Name string
	Fn   func(in *Interp, this Value, args []Value) (Value, error)
}

// Value is the interpreter's runtime representation of a JavaScript value.
type Value struct {
	Kind   Kind
	Bool   bool
	Num    float64
	Str    string
	Obj    *Object
	Arr    *Array
	Fn     *Function
	Native *NativeFunc
	Regex  string // "/pattern/flags" rendering, regex execution is not modeled
}

var Undefined = Value{Kind: KindUndefined}
var Null = Value{Kind: KindNull}

func Bool(b bool) Value   { return Value{Kind: KindBoolean, Bool: b} }
func Number(n float64) Value { return Value{Kind: KindNumber, Num: n} }
func String(s string) Value  { return Value{Kind: KindString, Str: s} }

func ObjectValue(o *Object) Value { return Value{Kind: KindObject, Obj: o} }
func ArrayValue(a *Array) Value   { return Value{Kind: KindArray, Arr: a} }
func FunctionValue(f *Function) Value { return Value{Kind: KindFunction, Fn: f} }
func NativeValue(n *NativeFunc) Value { return Value{Kind: KindNativeFunction, Native: n} }

// ToJsString mirrors JsValue::to_js_string.
func (v Value) ToJsString() string {
	switch v.Kind {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindBoolean:
		return strconv.FormatBool(v.Bool)
	case KindNumber:
		if math.IsNaN(v.Num) {
			return "NaN"
		}
		if math.IsInf(v.Num, 1) {
			return "Infinity"
		}
		if math.IsInf(v.Num, -1) {
			return "-Infinity"
		}
		if v.Num == 0 {
			return "0"
		}
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	case KindString:
		return v.Str
	case KindObject:
		return "[object Object]"
	case KindArray:
		parts := make([]string, len(v.Arr.Elems))
		for i, e := range v.Arr.Elems {
			parts[i] = e.ToJsString()
		}
		return strings.Join(parts, ",")
	case KindFunction:
		name := v.Fn.Name
		if name == "" {
			name = "anonymous"
		}
		return fmt.Sprintf("function %s() { [code] }", name)
	case KindNativeFunction:
		return fmt.Sprintf("function %s() { [native code] }", v.Native.Name)
	case KindSymbol:
		return fmt.Sprintf("Symbol(%s)", v.Str)
	case KindRegExp:
		return v.Regex
	default:
		return ""
	}
}

// ToNumber mirrors JsValue::to_number.
func (v Value) ToNumber() float64 {
	switch v.Kind {
	case KindUndefined:
		return math.NaN()
	case KindNull:
		return 0
	case KindBoolean:
		if v.Bool {
			return 1
		}
		return 0
	case KindNumber:
		return v.Num
	case KindString:
		s := strings.TrimSpace(v.Str)
		if s == "" {
			return 0
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return n
	default:
		return math.NaN()
	}
}

// IsTruthy mirrors JsValue::is_truthy.
func (v Value) IsTruthy() bool {
	switch v.Kind {
	case KindUndefined, KindNull:
		return false
	case KindBoolean:
		return v.Bool
	case KindNumber:
		return v.Num != 0 && !math.IsNaN(v.Num)
	case KindString:
		return v.Str != ""
	default:
		return true
	}
}

func (v Value) IsNullish() bool { return v.Kind == KindUndefined || v.Kind == KindNull }

func (v Value) IsCallable() bool { return v.Kind == KindFunction || v.Kind == KindNativeFunction }

// TypeOf mirrors JsValue::type_of, including the historical `typeof null
// === "object"` quirk.
func (v Value) TypeOf() string {
	switch v.Kind {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "object"
	case KindBoolean:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindSymbol:
		return "symbol"
	case KindFunction, KindNativeFunction:
		return "function"
	default:
		return "object"
	}
}

// Equals mirrors JsValue's PartialEq impl: reference types compare by
// identity, primitives by value, NaN never equals itself.
func (v Value) Equals(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindUndefined, KindNull:
		return true
	case KindBoolean:
		return v.Bool == o.Bool
	case KindNumber:
		if math.IsNaN(v.Num) || math.IsNaN(o.Num) {
			return false
		}
		return v.Num == o.Num
	case KindString:
		return v.Str == o.Str
	case KindObject:
		return v.Obj == o.Obj
	case KindArray:
		return v.Arr == o.Arr
	case KindFunction:
		return v.Fn == o.Fn
	case KindNativeFunction:
		return v.Native == o.Native
	default:
		return false
	}
}

// LooseEquals mirrors Interpreter::loose_equals's simplified abstract
// equality: null/undefined coalesce, same-kind pairs compare by value,
// everything else falls back to strict identity (no string/number coercion
// across kinds, the original's own documented narrowing).
func LooseEquals(a, b Value) bool {
	if (a.Kind == KindUndefined && b.Kind == KindNull) || (a.Kind == KindNull && b.Kind == KindUndefined) {
		return true
	}
	if a.Kind == KindNumber && b.Kind == KindNumber {
		return a.Num == b.Num
	}
	if a.Kind == KindString && b.Kind == KindString {
		return a.Str == b.Str
	}
	if a.Kind == KindBoolean && b.Kind == KindBoolean {
		return a.Bool == b.Bool
	}
	return a.Equals(b)
}
