// Package organization defines the funeral-service company model managed by
// the dashboard: companies, their responsible contact, contract and photos.
//
// Entities travel to the remote API as JSON and are diffed as Records, so the
// JSON field names here are the wire names.
package organization
