// Package api serves the StoreBoost HTTP JSON API: fabricated sessions,
// copy generation against a session's credits, generation history, and the
// static option and plan catalogues. Handlers translate between HTTP and
// the services in internal/service; errors are mapped to status codes and
// safe messages in errors.go.
package api
