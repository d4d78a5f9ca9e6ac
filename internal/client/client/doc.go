// Package client contains the console's backend plumbing.
//
// # Overview
//
// The package provides:
//  1. The API contract (see the Client interface): role lookup and token
//     exchange for sign-in, and the read-only vendor, customer and
//     subscription listings behind the dashboards.
//  2. A REST implementation (see HTTPClient) that tags every request with
//     an X-Request-ID, attaches the stored bearer token, and maps HTTP
//     statuses to sentinel errors.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Failures are *APIError values when the server answered, unwrapping to
// ErrUnauthorized (401, 403), ErrNotFound (404) or ErrUnavailable (5xx).
// Transport failures and timeouts wrap ErrUnavailable. Match with
// errors.Is; read the server's text with errors.As.
package client
