// Package models defines the data the console exchanges with the backend
// API and keeps in its session: the authenticated Principal and the
// read-only vendor, customer and subscription views.
package models
