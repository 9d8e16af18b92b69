// Package timeouts defines shared timeout constants used across the dashboard.
package timeouts

import "time"

// TokenRequest caps the wait for bearer token acquisition.
const TokenRequest = 5 * time.Second

// RemoteRequest caps a single call from the dashboard to the remote API.
const RemoteRequest = 10 * time.Second

// RemoteUpload caps a photo upload, which carries a request body.
const RemoteUpload = 30 * time.Second

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// LiveWrite caps a single websocket push to a browser.
const LiveWrite = 2 * time.Second

// JournalWrite caps appending one entry to the change journal.
const JournalWrite = 2 * time.Second
