package host

import (
	"math"
	"math/rand"

	"github.com/kestrelweb/corebrowser/js/interp"
)

// installMath ports builtins::create_math's constants and methods.
// math_random's original PRNG is a handwritten LCG over the system clock;
// this port uses math/rand instead since Math.random only needs to look
// plausible, not reproduce the original's exact sequence.
func installMath(in *interp.Interp) {
	obj := interp.NewObject()
	obj.Set("PI", interp.Number(math.Pi))
	obj.Set("E", interp.Number(math.E))
	obj.Set("LN2", interp.Number(math.Ln2))
	obj.Set("LN10", interp.Number(math.Log(10)))
	obj.Set("LOG2E", interp.Number(1/math.Ln2))
	obj.Set("LOG10E", interp.Number(1/math.Log(10)))
	obj.Set("SQRT2", interp.Number(math.Sqrt2))
	obj.Set("SQRT1_2", interp.Number(1/math.Sqrt2))

	unary := func(name string, f func(float64) float64) {
		obj.Set(name, nativeFn(name, func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
			return interp.Number(f(arg(args, 0).ToNumber())), nil
		}))
	}
	unary("floor", math.Floor)
	unary("ceil", math.Ceil)
	unary("round", math.Round)
	unary("abs", math.Abs)
	unary("sqrt", math.Sqrt)
	unary("sin", math.Sin)
	unary("cos", math.Cos)
	unary("tan", math.Tan)
	unary("asin", math.Asin)
	unary("acos", math.Acos)
	unary("atan", math.Atan)
	unary("log", math.Log)
	unary("log10", math.Log10)
	unary("log2", math.Log2)
	unary("exp", math.Exp)
	unary("trunc", math.Trunc)
	unary("sign", func(n float64) float64 {
		switch {
		case n > 0:
			return 1
		case n < 0:
			return -1
		default:
			return 0
		}
	})

	obj.Set("pow", nativeFn("pow", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
		return interp.Number(math.Pow(arg(args, 0).ToNumber(), arg(args, 1).ToNumber())), nil
	}))
	obj.Set("atan2", nativeFn("atan2", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
		return interp.Number(math.Atan2(arg(args, 0).ToNumber(), arg(args, 1).ToNumber())), nil
	}))
	obj.Set("random", nativeFn("random", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
		return interp.Number(rand.Float64()), nil
	}))
	obj.Set("min", nativeFn("min", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
		if len(args) == 0 {
			return interp.Number(math.Inf(1)), nil
		}
		m := math.Inf(1)
		for _, a := range args {
			m = math.Min(m, a.ToNumber())
		}
		return interp.Number(m), nil
	}))
	obj.Set("max", nativeFn("max", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
		if len(args) == 0 {
			return interp.Number(math.Inf(-1)), nil
		}
		m := math.Inf(-1)
		for _, a := range args {
			m = math.Max(m, a.ToNumber())
		}
		return interp.Number(m), nil
	}))
	in.DefineGlobal("Math", interp.ObjectValue(obj))
}
