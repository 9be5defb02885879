// Package main hosts the ruv-dl CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into catalog
// lookups, download runs, library organization, and configuration
// scaffolding. It centralizes configuration resolution and structured logging
// setup so subcommands can focus on user experience instead of wiring.
package main
