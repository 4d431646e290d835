// Package webgl renders the ring in a browser canvas through WebGL 1. It is
// only built for GOOS=js GOARCH=wasm.
package webgl
