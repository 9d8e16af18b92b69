// Package dashboard serves the funeral-services admin dashboard.
//
// Handlers render templ pages over a single OrganizationStore that caches the
// company being edited. Every applied mutation is appended to the change
// journal and pushed to open browsers over the live websocket.
package dashboard
