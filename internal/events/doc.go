// Package events provides the in-process business event bus.
//
// Components publish named events with JSON payloads without knowing who
// consumes them. Handlers registered on an InMemoryEventEmitter receive every
// event; the Redis publisher and the marker result cache are both handlers.
//
// The primary components are:
// - Event: a named event with a JSON payload
// - EventHandler: interface for components that can handle events
// - EventEmitter: interface for components that can emit events
package events
