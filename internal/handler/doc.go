// Package handler implements the HTTP API of the fibremap server.
//
// ViewHandler exposes view sessions: opening a view (optionally deep-linked
// with from_device), applying clicks, reading snapshots, exporting the rendered
// graph and closing the session. Topology statistics and a liveness check sit
// alongside.
//
// Errors are returned as JSON with an {error, details} structure. Unknown
// sessions map to 404, malformed or invalid bodies to 400.
//
// Middleware provides panic recovery, CORS and request logging with
// Prometheus metrics.
package handler
