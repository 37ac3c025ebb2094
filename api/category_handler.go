package api

import (
	"net/http"

	"github.com/makerhub/project-editor-backend/platform"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type categoryHandler struct {
	responder Responder
	logger    zerolog.Logger
	platform  *platform.Client
}

func newCategoryHandler(platformClient *platform.Client) categoryHandler {
	logger := log.With().Str("handlerName", "categoryHandler").Logger()

	return categoryHandler{
		responder: NewResponder(logger),
		logger:    logger,
		platform:  platformClient,
	}
}

// getCategories passes the platform category list through unchanged. The
// editor only reads it.
func (h categoryHandler) getCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := h.platform.FetchCategories(r.Context(), ctxGetToken(r.Context()))
		if err != nil {
			h.logger.Error().Err(err).Msg("Failed to fetch categories")
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, map[string]any{
			"categories": categories,
			"total":      len(categories),
		})
	}
}
