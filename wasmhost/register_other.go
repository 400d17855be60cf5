//go:build !(js && wasm)

package wasmhost

// Register is only available in js/wasm builds
func Register() error {
	return ErrUnsupported
}

// Release is a no-op outside js/wasm builds
func Release() {}
