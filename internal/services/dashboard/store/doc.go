// Package store holds the dashboard's in-memory view of the remote data: the
// company being edited with its contact and photos, and the list of company
// summaries.
//
// Operations call the remote data source and reconcile memory afterwards.
// They never return remote errors; the last failure is kept as a message in
// the snapshot. Subscribers are told about every mutation.
package store
