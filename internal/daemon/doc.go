// Package daemon runs the notiqd event loop. All queue mutations are
// funneled through a single goroutine; D-Bus handlers and signal
// handlers post closures to it instead of touching the engine directly.
package daemon
