package endpoints

import (
	"github.com/jackzampolin/provlink/internal/api"
)

// All returns all endpoint instances.
func All() []api.Endpoint {
	return []api.Endpoint{
		// Health endpoints
		&HealthEndpoint{},
		&ReadyEndpoint{},
		&StatusEndpoint{},

		// Confidence
		&ConfidenceEndpoint{},

		// Session endpoints
		&CreateSessionEndpoint{},
		&ListSessionsEndpoint{},
		&GetSessionEndpoint{},
		&DeleteSessionEndpoint{},

		// Document endpoints
		&SwitchDocumentEndpoint{},
		&RetryEndpoint{},
		&DocumentContentEndpoint{},

		// Viewport endpoints
		&PageEndpoint{},
		&ZoomEndpoint{},
		&RenderEndpoint{},
		&CommitRenderEndpoint{},

		// Selection endpoints
		&SelectFieldEndpoint{},
		&ClearHighlightEndpoint{},
		&OverlayEndpoint{},
		&FieldsEndpoint{},
		&SurfaceEndpoint{},

		// Settings
		&ListSettingsEndpoint{},

		// Swagger/OpenAPI endpoints
		&SwaggerEndpoint{},
		&SwaggerUIEndpoint{},
	}
}

// SessionCommands returns endpoints grouped under the "sessions" subcommand.
func SessionCommands() []api.Endpoint {
	return []api.Endpoint{
		&CreateSessionEndpoint{},
		&ListSessionsEndpoint{},
		&GetSessionEndpoint{},
		&DeleteSessionEndpoint{},
		&SwitchDocumentEndpoint{},
		&RetryEndpoint{},
		&DocumentContentEndpoint{},
		&PageEndpoint{},
		&ZoomEndpoint{},
		&RenderEndpoint{},
		&CommitRenderEndpoint{},
		&SelectFieldEndpoint{},
		&ClearHighlightEndpoint{},
		&OverlayEndpoint{},
		&FieldsEndpoint{},
		&SurfaceEndpoint{},
	}
}
