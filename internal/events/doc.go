// Package events provides types and interfaces for in-process domain events.
//
// Components publish events such as a recorded card answer or a finished quiz
// without knowing which handlers will process them. The primary components are:
// - Event: a typed, JSON-encoded domain occurrence
// - EventHandler: interface for components that can handle events
// - EventEmitter: interface for components that can emit events
package events
