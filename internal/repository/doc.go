// Package repository defines the data access interface for topology
// snapshots.
//
// A snapshot is a copy of the topology document stored locally so the server
// can start without reaching the original source (a remote URL or S3 object).
// The fibremap import command writes snapshots; the sqlite:// source reads
// them back.
//
// # SQLite Implementation
//
// The sqlite subpackage stores each record sequence in its own table in
// document order, with unmodelled fields kept as JSON attributes. Imports
// replace the whole snapshot in one transaction.
package repository
