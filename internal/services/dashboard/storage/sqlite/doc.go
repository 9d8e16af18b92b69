// Package sqlite implements dashboard storage on SQLite.
package sqlite
