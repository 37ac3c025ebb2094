package api

import (
	"github.com/makerhub/project-editor-backend/platform"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(platformClient *platform.Client) *routeHandlers {
	sessions := newSessionRegistry()
	return &routeHandlers{
		sessionHandler:  newSessionHandler(sessions, platformClient),
		categoryHandler: newCategoryHandler(platformClient),
	}
}
