package draft

import (
	"errors"
	"fmt"
	"sync"

	"github.com/makerhub/project-editor-backend/models"
)

// Section identifies one logical tab of the editor.
type Section string

const (
	SectionBasics      Section = "basics"
	SectionTeam        Section = "team"
	SectionThings      Section = "things"
	SectionStory       Section = "story"
	SectionAttachments Section = "attachments"
)

// Sections is the fixed navigation order of the editor.
var Sections = []Section{
	SectionBasics,
	SectionTeam,
	SectionThings,
	SectionStory,
	SectionAttachments,
}

// ErrLastSection is returned by Advance on the final section, whose forward
// action is the save instead.
var ErrLastSection = errors.New("already on the final section")

// Sequencer tracks the active section and gates forward navigation out of
// the first section on its required-field validation. Any section already
// in the sequence may be revisited freely via Jump. The sequencer is safe
// for concurrent use; navigation handlers and the submission path read and
// move the active section without external locking.
type Sequencer struct {
	mu     sync.Mutex
	active Section
}

func NewSequencer() *Sequencer {
	return &Sequencer{active: SectionBasics}
}

func (q *Sequencer) Active() Section {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.active
}

// IsLast reports whether the active section is the final one.
func (q *Sequencer) IsLast() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.active == Sections[len(Sections)-1]
}

// Advance moves to the next section. Leaving the basics section requires its
// required fields to validate; on failure the returned FieldErrors are
// non-empty and the active section does not change.
func (q *Sequencer) Advance(d models.ProjectDraft) (FieldErrors, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.active == SectionBasics {
		if fe := ValidateRequired(d); len(fe) > 0 {
			return fe, nil
		}
	}
	idx := indexOf(q.active)
	if idx == len(Sections)-1 {
		return nil, ErrLastSection
	}
	q.active = Sections[idx+1]
	return nil, nil
}

// Jump activates the named section directly.
func (q *Sequencer) Jump(sec Section) error {
	if indexOf(sec) < 0 {
		return fmt.Errorf("unknown section %q", sec)
	}
	q.mu.Lock()
	q.active = sec
	q.mu.Unlock()
	return nil
}

func indexOf(sec Section) int {
	for i, s := range Sections {
		if s == sec {
			return i
		}
	}
	return -1
}
