// Package service contains the application use cases: generating copy
// against a session's credits and fabricating session users. Services
// depend on the interfaces in internal/generation and internal/store, never
// on a concrete provider or backend.
package service
