// Package driving defines the interfaces that external actors use to
// drive the core (primary ports in hexagonal architecture).
//
// The CLI depends only on these interfaces; core services implement
// them.
package driving
