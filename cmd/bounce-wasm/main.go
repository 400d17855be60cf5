// Command bounce-wasm exposes the ball stepper to a browser page
//
//	GOOS=js GOARCH=wasm go build -o bounce.wasm ./cmd/bounce-wasm
package main

import (
	"fmt"
	"os"

	"github.com/lixenwraith/bouncegolf/wasmhost"
)

func main() {
	if err := wasmhost.Register(); err != nil {
		fmt.Fprintf(os.Stderr, "bounce-wasm: %v\n", err)
		os.Exit(1)
	}
	defer wasmhost.Release()

	// Exports are served from callbacks; keep the runtime alive
	select {}
}
