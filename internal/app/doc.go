// Package app assembles the story components from configuration. The
// server and the storygen command share it so both run the same pipeline
// against the same store.
package app
