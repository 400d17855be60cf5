package wasmhost

import "github.com/pkg/errors"

// ErrUnsupported is returned by Register outside a js/wasm build
var ErrUnsupported = errors.New("wasmhost: exports require GOOS=js GOARCH=wasm")
