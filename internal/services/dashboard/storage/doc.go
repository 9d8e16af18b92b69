// Package storage defines persistence contracts for the dashboard's local
// state: the remote API bearer token and the journal of applied changes.
//
// Entities themselves are never stored locally; the remote API owns them.
package storage
