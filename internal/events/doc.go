// Package events provides the analytics event stream.
//
// Services emit url_created and url_clicked events without knowing who
// consumes them. The in-memory emitter fans an event out to registered
// handlers (metrics, the queue forwarder); the queue emitter appends it to
// a shared list for downstream consumers. Emission is best-effort and never
// fails the request that produced the event.
package events
