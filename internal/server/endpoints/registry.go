package endpoints

import (
	"github.com/jackzampolin/cookbook/internal/api"
)

// All returns all endpoint instances. The static endpoint goes last so its
// catch-all route does not shadow the API routes.
func All() []api.Endpoint {
	return []api.Endpoint{
		// Health endpoints
		&HealthEndpoint{},
		&StatusEndpoint{},

		// Cookbook job endpoints
		&SubmitEndpoint{},
		&JobStatusEndpoint{},
		&JobResultEndpoint{},

		// Static frontend (catch-all)
		&StaticEndpoint{},
	}
}
