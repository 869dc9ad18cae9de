// Package domain defines the core entities of the link shortener: short URLs,
// the background job items fanned out when a short URL is created, the
// terminal results those jobs produce, and the analytics events emitted on
// creation and redirect.
//
// Types in this package carry no persistence or transport concerns; stores,
// queues and handlers translate to and from them.
package domain
