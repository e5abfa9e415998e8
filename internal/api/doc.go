// Package api provides the HTTP REST API and WebSocket server for
// Ecosfera Core.
//
// It exposes CRUD endpoints for users, devices, automations, energy
// readings and alerts, the consumption prediction endpoint, and a
// WebSocket event feed for dashboards.
//
// The server follows the same lifecycle pattern as the other
// infrastructure components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// All methods are safe for concurrent use from multiple goroutines.
package api
