// Package driving defines the interfaces through which the outside world
// drives the core (HTTP API, CLI commands, watch loops).
//
// These are the "driving" or "primary" ports in hexagonal architecture.
// Core services implement them; driving adapters call them.
package driving
