// Package driving defines the interfaces through which consumers (CLI
// commands, schedulers) drive the orchestration core.
package driving
