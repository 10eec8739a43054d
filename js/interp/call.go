package interp

import (
	"strconv"

	"github.com/kestrelweb/corebrowser/browsererr"
)

// callFunction dispatches a call expression's already-evaluated callee and
// arguments, mirroring Interpreter::call_function's three-way match. this
// is the receiver for method calls (the evaluated object of a MemberExpr
// callee); it is Undefined for a bare call.
func (in *Interp) callFunction(callee Value, this Value, args []Value) (Value, error) {
	switch callee.Kind {
	case KindNativeFunction:
		return callee.Native.Fn(in, this, args)
	case KindFunction:
		ctx := in.contextFor(callee.Fn, this)
		return in.invokeFunction(callee.Fn, this, args, ctx)
	default:
		return Undefined, browsererr.NewTypeError(callee.TypeOf() + " is not a function")
	}
}

// contextFor picks the right execution-context kind for a function value:
// arrow functions inherit the this captured at creation time, plain
// functions bind whatever receiver the call site supplied (Undefined for a
// bare call, the member object for obj.method()).
func (in *Interp) contextFor(fn *Function, this Value) execContext {
	if fn.IsArrow {
		return arrowContext(fn.OuterThis, fn.Name)
	}
	if this.Kind != KindUndefined {
		return methodContext(this, fn.Name)
	}
	return functionContext(this, fn.Name)
}

// invokeFunction runs a user-defined function's body in a fresh scope
// chained off its closure (not the caller's scope), binding parameters
// positionally with Undefined padding for missing arguments, and collects
// the first Return signal, mirroring call_function's JsValue::Function arm.
func (in *Interp) invokeFunction(fn *Function, this Value, args []Value, ctx execContext) (Value, error) {
	savedScope := in.scope
	in.scope = newScope(fn.Closure)
	in.pushContext(ctx)
	defer func() {
		in.popContext()
		in.scope = savedScope
	}()

	for i, p := range fn.Params {
		if p.Rest {
			rest := make([]Value, 0)
			if i < len(args) {
				rest = append(rest, args[i:]...)
			}
			in.scope.define(p.Name, ArrayValue(&Array{Elems: rest}))
			break
		}
		var v Value
		if i < len(args) {
			v = args[i]
		} else if p.Default != nil {
			dv, err := in.eval(p.Default)
			if err != nil {
				return Undefined, err
			}
			v = dv
		} else {
			v = Undefined
		}
		in.scope.define(p.Name, v)
	}

	result := Undefined
	for _, stmt := range fn.Body {
		flow, err := in.execStmt(stmt)
		if err != nil {
			return Undefined, err
		}
		if flow.kind == flowReturn {
			result = flow.val
			break
		}
	}
	return result, nil
}

// getProperty mirrors Interpreter::get_property: Object is a plain map
// lookup, Array exposes .length and numeric indices, String exposes
// .length (byte length, not rune count, reproducing the original's own
// s.len() choice) and a rune-indexed single-character lookup. Everything
// else reads as Undefined rather than erroring.
func (in *Interp) getProperty(obj Value, prop string) Value {
	switch obj.Kind {
	case KindObject:
		if v, ok := obj.Obj.Get(prop); ok {
			return v
		}
		return Undefined
	case KindArray:
		if prop == "length" {
			return Number(float64(len(obj.Arr.Elems)))
		}
		if idx, err := strconv.Atoi(prop); err == nil && idx >= 0 && idx < len(obj.Arr.Elems) {
			return obj.Arr.Elems[idx]
		}
		return Undefined
	case KindString:
		if prop == "length" {
			return Number(float64(len(obj.Str)))
		}
		if idx, err := strconv.Atoi(prop); err == nil {
			runes := []rune(obj.Str)
			if idx >= 0 && idx < len(runes) {
				return String(string(runes[idx]))
			}
		}
		return Undefined
	default:
		return Undefined
	}
}

// setProperty mutates an Object's property map or an Array's indexed slot
// (growing it with Undefined padding, same as a direct index assignment in
// JS would). Assignment to anything else is a silent no-op, matching the
// original's Assignment arm which only handles the JsValue::Object case.
func (in *Interp) setProperty(obj Value, prop string, v Value) {
	switch obj.Kind {
	case KindObject:
		obj.Obj.Set(prop, v)
	case KindArray:
		if prop == "length" {
			n := int(v.ToNumber())
			if n < len(obj.Arr.Elems) {
				obj.Arr.Elems = obj.Arr.Elems[:n]
			} else {
				for len(obj.Arr.Elems) < n {
					obj.Arr.Elems = append(obj.Arr.Elems, Undefined)
				}
			}
			return
		}
		if idx, err := strconv.Atoi(prop); err == nil && idx >= 0 {
			for len(obj.Arr.Elems) <= idx {
				obj.Arr.Elems = append(obj.Arr.Elems, Undefined)
			}
			obj.Arr.Elems[idx] = v
		}
	}
}
