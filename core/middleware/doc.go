// Package middleware groups the HTTP middleware used by the serve command.
//
// # Components
//
//   - auth: API key validation protecting the report endpoints.
//   - rayid: assigns a unique Request ID (RayID) to every incoming request,
//     injecting it into the context and response headers for tracing.
//
// These components are registered globally in cmd/serve.go.
package middleware
