//go:build js && wasm

package wasmhost

import (
	"math"
	"syscall/js"

	"github.com/lixenwraith/bouncegolf/physics"
)

var callbacks []js.Func

// Register installs the exports on the JavaScript global object
func Register() error {
	export("add", func(_ js.Value, args []js.Value) any {
		if len(args) < 2 || args[0].Type() != js.TypeNumber || args[1].Type() != js.TypeNumber {
			return js.Undefined()
		}
		return Add(uint32(args[0].Int()), uint32(args[1].Int()))
	})

	export("step", func(_ js.Value, args []js.Value) any {
		if len(args) < 2 || !isObject(args[0]) {
			return js.Undefined()
		}
		return merge(args[0], StepObject(reader(args[0]), number(args[1])))
	})

	export("currentPosition", func(_ js.Value, args []js.Value) any {
		if len(args) < 1 || !isObject(args[0]) {
			return js.Undefined()
		}
		now := js.Global().Get("Date").Call("now").Float()
		if len(args) > 1 {
			now = number(args[1])
		}
		return merge(args[0], ProjectObject(reader(args[0]), now))
	})

	export("degreesToVector", func(_ js.Value, args []js.Value) any {
		if len(args) < 1 {
			return js.Undefined()
		}
		v := physics.DegreesToVector(number(args[0]))
		return js.ValueOf([]any{v.X(), v.Y()})
	})

	return nil
}

// Release removes the exports and frees their callbacks
func Release() {
	for _, name := range ExportNames {
		js.Global().Delete(name)
	}
	for _, cb := range callbacks {
		cb.Release()
	}
	callbacks = nil
}

func export(name string, fn func(js.Value, []js.Value) any) {
	cb := js.FuncOf(fn)
	callbacks = append(callbacks, cb)
	js.Global().Set(name, cb)
}

// merge copies the host object and overwrites the computed fields
func merge(src js.Value, fields map[string]any) js.Value {
	out := js.Global().Get("Object").Call("assign", js.ValueOf(map[string]any{}), src)
	for k, v := range fields {
		out.Set(k, v)
	}
	return out
}

// isObject rejects primitives, null and undefined; Get on them panics
func isObject(v js.Value) bool {
	return v.Type() == js.TypeObject
}

func reader(v js.Value) FieldReader {
	return func(name string) float64 {
		return number(v.Get(name))
	}
}

func number(v js.Value) float64 {
	if v.Type() != js.TypeNumber {
		return math.NaN()
	}
	return v.Float()
}
