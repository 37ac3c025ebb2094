package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/makerhub/project-editor-backend/draft"
	"github.com/makerhub/project-editor-backend/errs"
	"github.com/makerhub/project-editor-backend/models"
	"github.com/makerhub/project-editor-backend/platform"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type sessionHandler struct {
	responder Responder
	logger    zerolog.Logger
	sessions  *sessionRegistry
	platform  *platform.Client
}

func newSessionHandler(sessions *sessionRegistry, platformClient *platform.Client) sessionHandler {
	logger := log.With().Str("handlerName", "sessionHandler").Logger()

	return sessionHandler{
		responder: NewResponder(logger),
		logger:    logger,
		sessions:  sessions,
		platform:  platformClient,
	}
}

// sessionView is the editor state returned to the client.
type sessionView struct {
	SessionID     string              `json:"session_id"`
	Mode          string              `json:"mode"`
	Draft         models.ProjectDraft `json:"draft"`
	Dirty         bool                `json:"dirty"`
	ActiveSection draft.Section       `json:"active_section"`
	Sections      []draft.Section     `json:"sections"`
	Flash         string              `json:"flash,omitempty"`
}

func (h sessionHandler) view(session *editorSession, withFlash bool) sessionView {
	d := session.store.Draft()
	mode := "create"
	if d.Persisted() {
		mode = "edit"
	}
	v := sessionView{
		SessionID:     session.id,
		Mode:          mode,
		Draft:         d,
		Dirty:         session.store.Dirty(),
		ActiveSection: session.seq.Active(),
		Sections:      draft.Sections,
	}
	if withFlash {
		v.Flash = session.takeFlash()
	}
	return v
}

// resolve looks up a session and checks it belongs to the caller.
func (h sessionHandler) resolve(r *http.Request) (*editorSession, error) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		return nil, errs.NewBadRequestError("missing sessionID")
	}
	session, ok := h.sessions.get(sessionID)
	if !ok {
		return nil, errs.NewNotFoundError("editor session not found")
	}
	user, err := ctxGetUser(r.Context())
	if err != nil {
		return nil, errs.NewUnauthorizedError("not authenticated")
	}
	if session.owner.ID != user.ID {
		return nil, errs.NewForbiddenError("editor session belongs to another user")
	}
	return session, nil
}

type openSessionRequest struct {
	ProjectID int64 `json:"project_id,omitempty"`
}

// openSession starts an editor session. Without a project_id an empty draft
// is created with the caller as initial team member; with one, the project
// is fetched from the platform and hydrated for editing.
func (h sessionHandler) openSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := ctxGetUser(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewUnauthorizedError("not authenticated"))
			return
		}

		// An empty body opens a creation session.
		var body openSessionRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		var store *draft.Store
		if body.ProjectID != 0 {
			record, err := h.platform.FetchProject(r.Context(), ctxGetToken(r.Context()), body.ProjectID)
			if err != nil {
				h.logger.Error().Err(err).Int64("projectId", body.ProjectID).Msg("Failed to load project for editing")
				h.responder.WriteError(w, err)
				return
			}
			store = draft.FromRemote(record)
		} else {
			store = draft.NewStore(user)
		}

		seq := draft.NewSequencer()
		session := &editorSession{
			owner:      user,
			store:      store,
			seq:        seq,
			controller: draft.NewController(store, h.platform, seq),
		}
		h.sessions.add(session)

		h.logger.Info().
			Str("sessionId", session.id).
			Int64("userId", user.ID).
			Int64("projectId", body.ProjectID).
			Msg("Editor session opened")

		h.responder.WriteJSONStatus(w, http.StatusCreated, h.view(session, false))
	}
}

// getSession returns the current editor state, consuming any pending flash.
func (h sessionHandler) getSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := h.resolve(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, h.view(session, true))
	}
}

type fieldUpdateRequest struct {
	Field string          `json:"field"`
	Value json.RawMessage `json:"value"`
}

// updateField applies a scalar field update to the working draft.
func (h sessionHandler) updateField() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := h.resolve(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var body fieldUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		if err := applyFieldUpdate(session.store, body.Field, body.Value); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, h.view(session, false))
	}
}

func applyFieldUpdate(store *draft.Store, field string, value json.RawMessage) error {
	decodeString := func() (string, error) {
		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			return "", errs.NewInvalidFieldError(field, "expected a string value")
		}
		return s, nil
	}

	switch field {
	case "title":
		s, err := decodeString()
		if err != nil {
			return err
		}
		store.SetTitle(s)
	case "description":
		s, err := decodeString()
		if err != nil {
			return err
		}
		store.SetDescription(s)
	case "elevator_pitch":
		s, err := decodeString()
		if err != nil {
			return err
		}
		store.SetElevatorPitch(s)
	case "story_content":
		s, err := decodeString()
		if err != nil {
			return err
		}
		store.SetStoryContent(s)
	case "category_id":
		var id int64
		if err := json.Unmarshal(value, &id); err != nil {
			return errs.NewInvalidFieldError(field, "expected a numeric category id")
		}
		store.SetCategoryID(id)
	case "difficulty":
		s, err := decodeString()
		if err != nil {
			return err
		}
		return store.SetDifficulty(models.Difficulty(s))
	case "status":
		s, err := decodeString()
		if err != nil {
			return err
		}
		return store.SetStatus(models.ProjectStatus(s))
	case "cover_image":
		var m models.Media
		if err := json.Unmarshal(value, &m); err != nil {
			return errs.NewInvalidFieldError(field, "expected a media value")
		}
		store.SetCoverImage(m)
	default:
		return errs.NewInvalidFieldError(field, "unknown draft field")
	}
	return nil
}

// updateCollection replaces one of the four nested collections wholesale.
func (h sessionHandler) updateCollection() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := h.resolve(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		name := chi.URLParam(r, "collection")
		if err := applyCollectionUpdate(r, name, session.store); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, h.view(session, false))
	}
}

func applyCollectionUpdate(r *http.Request, name string, store *draft.Store) error {
	decoder := json.NewDecoder(r.Body)
	switch name {
	case "team_members":
		var rows []models.TeamMember
		if err := decoder.Decode(&rows); err != nil {
			return errs.NewInvalidJSONError(err)
		}
		return store.ReplaceTeamMembers(rows)
	case "work_attributions":
		var rows []models.WorkAttribution
		if err := decoder.Decode(&rows); err != nil {
			return errs.NewInvalidJSONError(err)
		}
		return store.ReplaceWorkAttributions(rows)
	case "bill_of_materials":
		var rows []models.BillOfMaterialsItem
		if err := decoder.Decode(&rows); err != nil {
			return errs.NewInvalidJSONError(err)
		}
		return store.ReplaceBillOfMaterials(rows)
	case "attachments":
		var rows []models.Attachment
		if err := decoder.Decode(&rows); err != nil {
			return errs.NewInvalidJSONError(err)
		}
		return store.ReplaceAttachments(rows)
	default:
		return errs.NewBadRequestError("unknown collection")
	}
}

// advanceSection moves the wizard forward, returning validation errors
// instead when the basics section does not pass.
func (h sessionHandler) advanceSection() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := h.resolve(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		fieldErrors, err := session.seq.Advance(session.store.Draft())
		if errors.Is(err, draft.ErrLastSection) {
			h.responder.WriteError(w, errs.NewBadRequestError("final section reached; save instead"))
			return
		}
		if len(fieldErrors) > 0 {
			h.responder.WriteJSONStatus(w, http.StatusUnprocessableEntity, map[string]any{
				"field_errors":   fieldErrors,
				"active_section": session.seq.Active(),
			})
			return
		}
		h.responder.WriteJSON(w, h.view(session, false))
	}
}

type jumpSectionRequest struct {
	Section draft.Section `json:"section"`
}

// jumpSection revisits any section directly.
func (h sessionHandler) jumpSection() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := h.resolve(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var body jumpSectionRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		if err := session.seq.Jump(body.Section); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError(err.Error()))
			return
		}
		h.responder.WriteJSON(w, h.view(session, false))
	}
}

// save runs one submission. Local and remote field errors come back with
// 422 and the per-field map; transport failures surface as a single generic
// error for the banner.
func (h sessionHandler) save() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := h.resolve(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		outcome, err := session.controller.Save(r.Context(), ctxGetToken(r.Context()))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if len(outcome.FieldErrors) > 0 {
			h.responder.WriteJSONStatus(w, http.StatusUnprocessableEntity, map[string]any{
				"field_errors":   outcome.FieldErrors,
				"active_section": session.seq.Active(),
			})
			return
		}

		if outcome.Created {
			// The success message survives the client's navigation
			// replace: it is stored here and handed out exactly once
			// by the next session read.
			session.setFlash(outcome.Message)
		}

		response := map[string]any{
			"created":        outcome.Created,
			"project_id":     outcome.ProjectID,
			"message":        outcome.Message,
			"dirty":          session.store.Dirty(),
			"mode":           "edit",
			"active_section": session.seq.Active(),
		}
		h.responder.WriteJSON(w, response)
	}
}

// deleteProject removes the remote project and invalidates the bound draft.
func (h sessionHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := h.resolve(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		d := session.store.Draft()
		if !d.Persisted() {
			h.responder.WriteError(w, errs.NewBadRequestError("draft has not been saved yet"))
			return
		}

		if err := h.platform.DeleteProject(r.Context(), ctxGetToken(r.Context()), d.ID); err != nil {
			h.logger.Error().Err(err).Int64("projectId", d.ID).Msg("Failed to delete project")
			h.responder.WriteError(w, err)
			return
		}

		session.controller.Invalidate()
		h.sessions.remove(session.id)

		h.logger.Info().Int64("projectId", d.ID).Msg("Project deleted, draft invalidated")
		h.responder.WriteJSON(w, map[string]any{"message": "Project deleted"})
	}
}

// discardSession drops the session without persisting anything.
func (h sessionHandler) discardSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := h.resolve(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.sessions.remove(session.id)
		h.logger.Info().Str("sessionId", session.id).Msg("Editor session discarded")
		w.WriteHeader(http.StatusNoContent)
	}
}
