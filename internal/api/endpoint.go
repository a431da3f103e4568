// Package api provides the HTTP endpoint registry, the CLI-side API client,
// and structured CLI output helpers.
package api

import (
	"net/http"

	"github.com/spf13/cobra"
)

// Endpoint is one HTTP route. Each endpoint also yields a cobra command so
// the CLI and the HTTP API stay in lockstep.
type Endpoint interface {
	// Route returns the HTTP method, path pattern and handler.
	Route() (method, path string, handler http.HandlerFunc)

	// Command returns the CLI command for this endpoint, or nil when the
	// endpoint has no CLI equivalent.
	Command(getServerURL func() string) *cobra.Command
}

// Registry collects endpoints and wires them onto a mux.
type Registry struct {
	endpoints []Endpoint
}

// NewRegistry creates an empty endpoint registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds an endpoint.
func (r *Registry) Register(ep Endpoint) {
	r.endpoints = append(r.endpoints, ep)
}

// RegisterRoutes registers all endpoints on the mux using method-qualified
// patterns.
func (r *Registry) RegisterRoutes(mux *http.ServeMux) {
	for _, ep := range r.endpoints {
		method, path, handler := ep.Route()
		mux.HandleFunc(method+" "+path, handler)
	}
}

// Commands returns the CLI commands for all endpoints that provide one.
func (r *Registry) Commands(getServerURL func() string) []*cobra.Command {
	var cmds []*cobra.Command
	for _, ep := range r.endpoints {
		if cmd := ep.Command(getServerURL); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return cmds
}
