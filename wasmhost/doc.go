// Package wasmhost exposes the numeric entry points to a browser host.
//
// Built with GOOS=js GOARCH=wasm, Register installs the following functions on
// the JavaScript global object:
//
//	add(a, b)                  unsigned 32-bit sum
//	step(ball, dt)             one physics tick, other ball fields copied through
//	currentPosition(ball, now) forward projection to now (milliseconds)
//	degreesToVector(deg)       [x, y] unit direction of a stroke
//
// Ball objects carry numeric x, y, dx, dy and ts fields. On every other
// platform Register returns ErrUnsupported.
package wasmhost
