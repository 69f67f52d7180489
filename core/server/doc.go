// Package server holds the HTTP server configuration for the serve command.
//
// While cmd/serve.go handles the server startup, this package defines the
// configuration structure: listen port, optional API key and whether the
// report is preloaded at startup.
package server
