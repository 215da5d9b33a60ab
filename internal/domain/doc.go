// Package domain defines the core domain types for the fibremap topology viewer.
//
// This package contains the records loaded from the topology document and the
// node/edge types rendered by the browser graph engine.
//
// # Topology Records
//
// Closure, FeederCable, OpticalTap and FibreCable mirror the four sequences of
// the input document. Every raw field is kept in Attributes so nothing from the
// document is lost, while the fields the viewer relies on are typed.
//
// Index groups fibre cables by their source node and optical taps by label.
// It is built once per loaded document and shared read-only by every view.
//
// # Graph Types
//
// Node represents a closure (OLT or SP), an optical tap or a bare fibre
// endpoint. Its Kind is serialised as the vis-network group.
//
// Edge represents a feeder cable (permanent, part of the base graph) or a
// fibre cable (revealed by expansion, rendered dashed).
//
// Graph is a full snapshot of what a session renders; GraphDelta is what one
// click changed.
package domain
