package host

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kestrelweb/corebrowser/js/interp"
)

// installGlobalFunctions ports the free functions builtins.rs installs
// straight onto the global object: parseInt/parseFloat/isNaN/isFinite,
// encodeURIComponent/decodeURIComponent, the timer family, alert/confirm/
// prompt. None of these schedule real work; spec's non-goals exclude a
// microtask/event-loop implementation, so timers only log and hand back a
// plausible id, exactly like the original.
func installGlobalFunctions(in *interp.Interp) {
	in.DefineGlobal("parseInt", nativeFn("parseInt", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
		s := strings.TrimSpace(arg(args, 0).ToJsString())
		radix := 10
		if len(args) > 1 && !arg(args, 1).IsNullish() {
			if r := int(arg(args, 1).ToNumber()); r != 0 {
				radix = r
			}
		}
		neg := false
		if strings.HasPrefix(s, "-") {
			neg = true
			s = s[1:]
		} else if strings.HasPrefix(s, "+") {
			s = s[1:]
		}
		if radix == 16 {
			s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
		}
		end := 0
		for end < len(s) && isDigitInRadix(s[end], radix) {
			end++
		}
		if end == 0 {
			return interp.Number(math.NaN()), nil
		}
		n, err := strconv.ParseInt(s[:end], radix, 64)
		if err != nil {
			return interp.Number(math.NaN()), nil
		}
		if neg {
			return interp.Number(-float64(n)), nil
		}
		return interp.Number(float64(n)), nil
	}))

	in.DefineGlobal("parseFloat", nativeFn("parseFloat", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
		s := strings.TrimSpace(arg(args, 0).ToJsString())
		end := 0
		seenDot, seenDigit := false, false
		for end < len(s) {
			c := s[end]
			switch {
			case c >= '0' && c <= '9':
				seenDigit = true
			case c == '.' && !seenDot:
				seenDot = true
			case (c == '+' || c == '-') && end == 0:
			default:
				goto done
			}
			end++
		}
	done:
		if !seenDigit {
			return interp.Number(math.NaN()), nil
		}
		n, err := strconv.ParseFloat(s[:end], 64)
		if err != nil {
			return interp.Number(math.NaN()), nil
		}
		return interp.Number(n), nil
	}))

	in.DefineGlobal("isNaN", nativeFn("isNaN", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
		return interp.Bool(math.IsNaN(arg(args, 0).ToNumber())), nil
	}))
	in.DefineGlobal("isFinite", nativeFn("isFinite", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
		n := arg(args, 0).ToNumber()
		return interp.Bool(!math.IsNaN(n) && !math.IsInf(n, 0)), nil
	}))

	in.DefineGlobal("encodeURIComponent", nativeFn("encodeURIComponent", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
		var b strings.Builder
		for _, c := range arg(args, 0).ToJsString() {
			if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || strings.ContainsRune("-_.~", c) {
				b.WriteRune(c)
			} else {
				fmt.Fprintf(&b, "%%%02X", c)
			}
		}
		return interp.String(b.String()), nil
	}))
	in.DefineGlobal("decodeURIComponent", nativeFn("decodeURIComponent", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
		s := arg(args, 0).ToJsString()
		var b strings.Builder
		for i := 0; i < len(s); i++ {
			if s[i] == '%' && i+2 < len(s) {
				if code, err := strconv.ParseUint(s[i+1:i+3], 16, 8); err == nil {
					b.WriteByte(byte(code))
					i += 2
					continue
				}
			}
			b.WriteByte(s[i])
		}
		return interp.String(b.String()), nil
	}))

	timerID := 1.0
	timer := func(name string) func(*interp.Interp, []interp.Value) (interp.Value, error) {
		return func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
			delay := arg(args, 1).ToNumber()
			tracer().Debugf("%s registered callback with delay %gms (not scheduled)", name, delay)
			id := timerID
			timerID++
			return interp.Number(id), nil
		}
	}
	in.DefineGlobal("setTimeout", nativeFn("setTimeout", timer("setTimeout")))
	in.DefineGlobal("setInterval", nativeFn("setInterval", timer("setInterval")))
	in.DefineGlobal("clearTimeout", nativeFn("clearTimeout", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
		return interp.Undefined, nil
	}))
	in.DefineGlobal("clearInterval", nativeFn("clearInterval", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
		return interp.Undefined, nil
	}))
	in.DefineGlobal("requestAnimationFrame", nativeFn("requestAnimationFrame", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
		return interp.Number(1), nil
	}))
	in.DefineGlobal("cancelAnimationFrame", nativeFn("cancelAnimationFrame", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
		return interp.Undefined, nil
	}))

	in.DefineGlobal("alert", nativeFn("alert", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
		in.AppendConsole("[ALERT] " + arg(args, 0).ToJsString())
		return interp.Undefined, nil
	}))
	in.DefineGlobal("confirm", nativeFn("confirm", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
		in.AppendConsole("[CONFIRM] " + arg(args, 0).ToJsString())
		return interp.Bool(true), nil
	}))
	in.DefineGlobal("prompt", nativeFn("prompt", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
		def := arg(args, 1).ToJsString()
		in.AppendConsole(fmt.Sprintf("[PROMPT] %s (default: %s)", arg(args, 0).ToJsString(), def))
		return interp.String(def), nil
	}))
}

func isDigitInRadix(c byte, radix int) bool {
	var v int
	switch {
	case c >= '0' && c <= '9':
		v = int(c - '0')
	case c >= 'a' && c <= 'z':
		v = int(c-'a') + 10
	case c >= 'A' && c <= 'Z':
		v = int(c-'A') + 10
	default:
		return false
	}
	return v < radix
}
