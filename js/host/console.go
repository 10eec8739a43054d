package host

import (
	"strings"

	"github.com/kestrelweb/corebrowser/js/interp"
)

// installConsole ports builtins::create_console, replacing its println!
// side effects with Interp.AppendConsole so a caller (cmd/browserdebug,
// tests) can inspect output after the fact instead of scraping stdout.
func installConsole(in *interp.Interp) {
	obj := interp.NewObject()
	logger := func(prefix string) func(*interp.Interp, []interp.Value) (interp.Value, error) {
		return func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
			parts := make([]string, len(args))
			for i, a := range args {
				parts[i] = a.ToJsString()
			}
			line := strings.TrimSpace(prefix + " " + strings.Join(parts, " "))
			in.AppendConsole(line)
			return interp.Undefined, nil
		}
	}
	obj.Set("log", nativeFn("log", logger("[JS]")))
	obj.Set("debug", nativeFn("debug", logger("[JS]")))
	obj.Set("trace", nativeFn("trace", logger("[JS]")))
	obj.Set("warn", nativeFn("warn", logger("[JS WARN]")))
	obj.Set("error", nativeFn("error", logger("[JS ERROR]")))
	obj.Set("info", nativeFn("info", logger("[JS INFO]")))
	obj.Set("time", nativeFn("time", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
		return interp.Undefined, nil
	}))
	obj.Set("timeEnd", nativeFn("timeEnd", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
		return interp.Undefined, nil
	}))
	obj.Set("clear", nativeFn("clear", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
		in.AppendConsole("[Console cleared]")
		return interp.Undefined, nil
	}))
	in.DefineGlobal("console", interp.ObjectValue(obj))
}
