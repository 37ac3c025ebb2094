package draft

import (
	"context"
	"errors"
	"sync"

	"github.com/makerhub/project-editor-backend/errs"
	"github.com/makerhub/project-editor-backend/platform"
	"github.com/makerhub/project-editor-backend/transport"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// State is the submission state machine position. The controller passes
// through Validating, Serializing and Sending during a save and always
// settles back on Idle.
type State string

const (
	StateIdle        State = "idle"
	StateValidating  State = "validating"
	StateSerializing State = "serializing"
	StateSending     State = "sending"
)

// SaveOutcome is the result of one save run.
type SaveOutcome struct {
	Created     bool        `json:"created,omitempty"`
	ProjectID   int64       `json:"project_id,omitempty"`
	FieldErrors FieldErrors `json:"field_errors,omitempty"`
	Message     string      `json:"message,omitempty"`
}

// Succeeded reports whether the submission was accepted by the platform.
func (o SaveOutcome) Succeeded() bool {
	return len(o.FieldErrors) == 0 && o.ProjectID != 0
}

// Controller orchestrates validate -> serialize -> send -> reconcile. On a
// successful creation it binds the issued identifier to the draft so every
// later save becomes an update, and it resets the baseline to the submitted
// snapshot so the dirty flag clears.
//
// Only one save may be in flight per controller; a second attempt while one
// is running is rejected rather than queued.
type Controller struct {
	mu       sync.Mutex
	state    State
	inFlight bool

	store  *Store
	client *platform.Client
	seq    *Sequencer
	logger zerolog.Logger
}

func NewController(store *Store, client *platform.Client, seq *Sequencer) *Controller {
	return &Controller{
		state:  StateIdle,
		store:  store,
		client: client,
		seq:    seq,
		logger: log.With().Str("component", "submissionController").Logger(),
	}
}

// State returns the current state machine position.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// Save runs one submission for the current draft. Local validation failures
// and remote field rejections are reported through the outcome's
// FieldErrors; transport-level failures are returned as an error with no
// field information. Editing may continue while the request is in flight:
// the submission works on a snapshot taken at entry, and that same snapshot
// becomes the new baseline on success.
func (c *Controller) Save(ctx context.Context, token string) (SaveOutcome, error) {
	c.mu.Lock()
	if c.store == nil {
		c.mu.Unlock()
		return SaveOutcome{}, errs.NewDraftInvalidatedError()
	}
	if c.inFlight {
		c.mu.Unlock()
		return SaveOutcome{}, errs.NewSaveInFlightError()
	}
	c.inFlight = true
	c.state = StateValidating
	store := c.store
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.inFlight = false
		c.state = StateIdle
		c.mu.Unlock()
	}()

	snapshot := store.Draft()

	if fe := ValidateRequired(snapshot); len(fe) > 0 {
		// All required fields live in the basics section; surface it.
		_ = c.seq.Jump(SectionBasics)
		c.logger.Debug().Int("fieldErrors", len(fe)).Msg("Save rejected by local validation")
		return SaveOutcome{FieldErrors: fe}, nil
	}

	c.setState(StateSerializing)
	params := transport.Serialize(snapshot, store.AuthorID())

	c.setState(StateSending)
	creating := !snapshot.Persisted()

	var (
		id  int64
		err error
	)
	if creating {
		id, err = c.client.CreateProject(ctx, token, params)
	} else {
		id, err = c.client.UpdateProject(ctx, token, snapshot.ID, params)
		if id == 0 {
			id = snapshot.ID
		}
	}
	if err != nil {
		var remote *errs.RemoteValidationError
		if errors.As(err, &remote) {
			c.logger.Warn().Int("status", remote.StatusCode).Msg("Platform rejected submission fields")
			return SaveOutcome{FieldErrors: FieldErrors(remote.Fields)}, nil
		}
		c.logger.Error().Err(err).Bool("creating", creating).Msg("Submission failed")
		return SaveOutcome{}, err
	}

	if creating {
		store.BindID(id)
		snapshot.ID = id
	}
	store.SetBaseline(snapshot)

	message := "Project updated"
	if creating {
		message = "Project saved as draft"
	}

	c.logger.Info().
		Int64("projectId", id).
		Bool("created", creating).
		Msg("Draft submitted")

	return SaveOutcome{
		Created:   creating,
		ProjectID: id,
		Message:   message,
	}, nil
}

// Invalidate releases the draft after its remote project was deleted.
// Further saves through this controller are refused.
func (c *Controller) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store = nil
}

// Valid reports whether the controller is still bound to a live draft.
func (c *Controller) Valid() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store != nil
}
