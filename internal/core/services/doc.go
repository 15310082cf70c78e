// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Parsing, validation and diffing are delegated to the pure core
// packages; services add document discovery, lockfile persistence and
// run history around them.
package services
