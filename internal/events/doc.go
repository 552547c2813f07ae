// Package events provides types and interfaces for an event-driven architecture.
//
// The review service emits an Event after each committed attempt and after a
// word is mastered. Handlers register with an emitter and react without the
// service knowing about them.
//
// The primary components are:
// - Event: a typed notification carrying a JSON payload
// - EventHandler: Interface for components that can handle events
// - EventEmitter: Interface for components that can emit events
package events
