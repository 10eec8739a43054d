package host

import (
	"github.com/kestrelweb/corebrowser/js/interp"
)

// installStorage ports builtins::{create_local_storage, create_session_
// storage}: getItem/setItem/removeItem/clear/key over a plain string map.
// The original guards a process-wide lazy_static behind a Mutex since Rust
// closures can run from any thread; this interpreter only ever runs on one
// goroutine, so a bare map serves the same purpose without the lock.
func installStorage(in *interp.Interp) {
	in.DefineGlobal("localStorage", newStorageObject())
	in.DefineGlobal("sessionStorage", newStorageObject())
}

func newStorageObject() interp.Value {
	store := make(map[string]string)
	var keyOrder []string

	obj := interp.NewObject()
	obj.Set("getItem", nativeFn("getItem", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
		key := arg(args, 0).ToJsString()
		if v, ok := store[key]; ok {
			return interp.String(v), nil
		}
		return interp.Null, nil
	}))
	obj.Set("setItem", nativeFn("setItem", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
		key := arg(args, 0).ToJsString()
		value := arg(args, 1).ToJsString()
		if _, exists := store[key]; !exists {
			keyOrder = append(keyOrder, key)
		}
		store[key] = value
		return interp.Undefined, nil
	}))
	obj.Set("removeItem", nativeFn("removeItem", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
		key := arg(args, 0).ToJsString()
		if _, ok := store[key]; ok {
			delete(store, key)
			for i, k := range keyOrder {
				if k == key {
					keyOrder = append(keyOrder[:i], keyOrder[i+1:]...)
					break
				}
			}
		}
		return interp.Undefined, nil
	}))
	obj.Set("clear", nativeFn("clear", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
		store = make(map[string]string)
		keyOrder = nil
		return interp.Undefined, nil
	}))
	obj.Set("key", nativeFn("key", func(in *interp.Interp, args []interp.Value) (interp.Value, error) {
		idx := int(arg(args, 0).ToNumber())
		if idx < 0 || idx >= len(keyOrder) {
			return interp.Null, nil
		}
		return interp.String(keyOrder[idx]), nil
	}))
	return interp.ObjectValue(obj)
}
