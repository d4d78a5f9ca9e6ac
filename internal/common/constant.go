// Package common contains constants and helpers shared by console components.
package common

const (
	// AuthorizationHeaderName carries the bearer token on API requests.
	AuthorizationHeaderName = "Authorization"

	// RequestIDHeaderName tags every outbound request for log correlation.
	RequestIDHeaderName = "X-Request-ID"
)

// Keys of the durable metadata table.
const (
	MetadataKeyToken   = "token"
	MetadataKeyMobile  = "mobile"
	MetadataKeySavedAt = "token_saved_at"
)
