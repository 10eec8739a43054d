package host

import (
	"math"
	"strings"
	"time"

	"github.com/kestrelweb/corebrowser/js/interp"
)

// installObjectConstructor ports builtins::create_object_constructor's
// keys/values/entries/assign statics.
func installObjectConstructor(in *interp.Interp) {
	ctor := interp.NewObject()
	ctor.Set("keys", nativeFn("keys", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
		o := arg(args, 0)
		if o.Kind != interp.KindObject {
			return interp.ArrayValue(&interp.Array{}), nil
		}
		keys := make([]interp.Value, len(o.Obj.Keys))
		for i, k := range o.Obj.Keys {
			keys[i] = interp.String(k)
		}
		return interp.ArrayValue(&interp.Array{Elems: keys}), nil
	}))
	ctor.Set("values", nativeFn("values", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
		o := arg(args, 0)
		if o.Kind != interp.KindObject {
			return interp.ArrayValue(&interp.Array{}), nil
		}
		vals := make([]interp.Value, len(o.Obj.Keys))
		for i, k := range o.Obj.Keys {
			vals[i], _ = o.Obj.Get(k)
		}
		return interp.ArrayValue(&interp.Array{Elems: vals}), nil
	}))
	ctor.Set("entries", nativeFn("entries", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
		o := arg(args, 0)
		if o.Kind != interp.KindObject {
			return interp.ArrayValue(&interp.Array{}), nil
		}
		entries := make([]interp.Value, len(o.Obj.Keys))
		for i, k := range o.Obj.Keys {
			v, _ := o.Obj.Get(k)
			entries[i] = interp.ArrayValue(&interp.Array{Elems: []interp.Value{interp.String(k), v}})
		}
		return interp.ArrayValue(&interp.Array{Elems: entries}), nil
	}))
	ctor.Set("assign", nativeFn("assign", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
		target := arg(args, 0)
		if target.Kind != interp.KindObject {
			return interp.Undefined, nil
		}
		for _, src := range args[1:] {
			if src.Kind != interp.KindObject {
				continue
			}
			for _, k := range src.Obj.Keys {
				v, _ := src.Obj.Get(k)
				target.Obj.Set(k, v)
			}
		}
		return target, nil
	}))
	in.DefineGlobal("Object", interp.ObjectValue(ctor))
}

// installArrayConstructor ports create_array_constructor's isArray/from/of.
func installArrayConstructor(in *interp.Interp) {
	ctor := interp.NewObject()
	ctor.Set("isArray", nativeFn("isArray", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
		return interp.Bool(arg(args, 0).Kind == interp.KindArray), nil
	}))
	ctor.Set("from", nativeFn("from", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
		a := arg(args, 0)
		switch a.Kind {
		case interp.KindArray:
			elems := append([]interp.Value(nil), a.Arr.Elems...)
			return interp.ArrayValue(&interp.Array{Elems: elems}), nil
		case interp.KindString:
			var elems []interp.Value
			for _, r := range a.Str {
				elems = append(elems, interp.String(string(r)))
			}
			return interp.ArrayValue(&interp.Array{Elems: elems}), nil
		default:
			return interp.ArrayValue(&interp.Array{}), nil
		}
	}))
	ctor.Set("of", nativeFn("of", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
		return interp.ArrayValue(&interp.Array{Elems: append([]interp.Value(nil), args...)}), nil
	}))
	in.DefineGlobal("Array", interp.ObjectValue(ctor))
}

// installStringConstructor ports create_string_constructor's fromCharCode.
func installStringConstructor(in *interp.Interp) {
	ctor := interp.NewObject()
	ctor.Set("fromCharCode", nativeFn("fromCharCode", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
		var b strings.Builder
		for _, a := range args {
			b.WriteRune(rune(int(a.ToNumber())))
		}
		return interp.String(b.String()), nil
	}))
	in.DefineGlobal("String", interp.ObjectValue(ctor))
}

// installNumberConstructor ports create_number_constructor's statics.
func installNumberConstructor(in *interp.Interp) {
	ctor := interp.NewObject()
	ctor.Set("isNaN", nativeFn("isNaN", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
		return interp.Bool(math.IsNaN(arg(args, 0).ToNumber())), nil
	}))
	ctor.Set("isFinite", nativeFn("isFinite", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
		n := arg(args, 0).ToNumber()
		return interp.Bool(!math.IsNaN(n) && !math.IsInf(n, 0)), nil
	}))
	ctor.Set("isInteger", nativeFn("isInteger", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
		n := arg(args, 0).ToNumber()
		return interp.Bool(!math.IsInf(n, 0) && n == math.Trunc(n)), nil
	}))
	ctor.Set("MAX_VALUE", interp.Number(math.MaxFloat64))
	ctor.Set("MIN_VALUE", interp.Number(4.9e-324))
	ctor.Set("NaN", interp.Number(math.NaN()))
	ctor.Set("POSITIVE_INFINITY", interp.Number(math.Inf(1)))
	ctor.Set("NEGATIVE_INFINITY", interp.Number(math.Inf(-1)))
	in.DefineGlobal("Number", interp.ObjectValue(ctor))
}

// installDate ports create_date_constructor: a NativeFunction whose call
// returns an object snapshotting the current wall-clock time plus two
// methods, rather than a real Date instance with the full ECMA-262 API.
func installDate(in *interp.Interp) {
	date := interp.NativeValue(&interp.NativeFunc{
		Name: "Date",
		Fn: func(in *interp.Interp, this interp.Value, args []interp.Value) (interp.Value, error) {
			now := float64(time.Now().UnixMilli())
			obj := interp.NewObject()
			obj.Set("timestamp", interp.Number(now))
			obj.Set("getTime", nativeFn("getTime", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
				return interp.Number(float64(time.Now().UnixMilli())), nil
			}))
			obj.Set("toISOString", nativeFn("toISOString", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
				return interp.String(time.Now().UTC().Format("2006-01-02T15:04:05.000Z")), nil
			}))
			return interp.ObjectValue(obj), nil
		},
	})
	in.DefineGlobal("Date", date)
}

func promiseLike(state string, value interp.Value) interp.Value {
	obj := interp.NewObject()
	obj.Set("[[PromiseState]]", interp.String(state))
	obj.Set("[[PromiseResult]]", value)
	obj.Set("then", nativeFn("then", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
		return arg(args, 0), nil
	}))
	return interp.ObjectValue(obj)
}

// installPromise ports create_promise_constructor's resolve/reject/all.
// Promises aren't actually scheduled (spec's non-goals exclude a real
// microtask queue); resolve/reject/all all settle synchronously.
func installPromise(in *interp.Interp) {
	ctor := interp.NewObject()
	ctor.Set("resolve", nativeFn("resolve", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
		return promiseLike("fulfilled", arg(args, 0)), nil
	}))
	ctor.Set("reject", nativeFn("reject", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
		return promiseLike("rejected", arg(args, 0)), nil
	}))
	ctor.Set("all", nativeFn("all", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
		a := arg(args, 0)
		if a.Kind != interp.KindArray {
			return promiseLike("fulfilled", interp.ArrayValue(&interp.Array{})), nil
		}
		return promiseLike("fulfilled", a), nil
	}))
	in.DefineGlobal("Promise", interp.ObjectValue(ctor))
}
