// Package remote is the authenticated REST client for the funeral-services
// API.
//
// A bearer token is acquired once from the auth endpoint and attached to
// every call. Failures come back as *errors.Error values classified by kind;
// nothing is retried. A 401 drops the token so the next call acquires a new
// one.
package remote
