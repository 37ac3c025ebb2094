package api

import (
	"sync"

	"github.com/google/uuid"
	"github.com/makerhub/project-editor-backend/draft"
	"github.com/makerhub/project-editor-backend/models"
)

// editorSession is one user's live editor instance: exactly one draft for
// its lifetime, never shared with another session. The mutex guards the
// flash message; the store, sequencer and controller carry their own
// synchronization so editing stays possible while a save is in flight.
type editorSession struct {
	id    string
	owner models.User

	store      *draft.Store
	seq        *draft.Sequencer
	controller *draft.Controller

	mu    sync.Mutex
	flash string
}

func (s *editorSession) setFlash(message string) {
	s.mu.Lock()
	s.flash = message
	s.mu.Unlock()
}

// takeFlash returns the pending flash message and clears it, so a repeated
// read never redisplays it.
func (s *editorSession) takeFlash() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	message := s.flash
	s.flash = ""
	return message
}

type sessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*editorSession
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{sessions: make(map[string]*editorSession)}
}

func (r *sessionRegistry) add(session *editorSession) string {
	id := uuid.NewString()
	session.id = id
	r.mu.Lock()
	r.sessions[id] = session
	r.mu.Unlock()
	return id
}

func (r *sessionRegistry) get(id string) (*editorSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[id]
	return session, ok
}

func (r *sessionRegistry) remove(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}
