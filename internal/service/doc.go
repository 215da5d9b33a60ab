// Package service implements the view sessions of the fibremap server.
//
// A session is one browser page looking at the network. It owns an isolated
// graph dataset seeded with the base graph, the expansion state of its active
// branch and the page URL. Sessions share the loaded topology index, which is
// never mutated; a reload swaps in a new index for sessions opened afterwards.
//
// # Concurrency
//
// Clicks on one session are serialised by the session mutex so each expansion
// or collapse runs to completion before the next starts. The session table has
// its own lock and is never held while a click runs.
//
// # Event System
//
// ViewService publishes events via EventBus: session lifecycle, the dataset
// delta of every click that changed something, and topology reloads. The SSE
// hub forwards them to the clients watching each session.
package service
