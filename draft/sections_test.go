package draft

import (
	"errors"
	"sync"
	"testing"

	"github.com/makerhub/project-editor-backend/models"
)

func filledDraft() models.ProjectDraft {
	return models.ProjectDraft{
		Title:         "LED Cube",
		Description:   "An 8x8x8 cube of LEDs",
		ElevatorPitch: "blinkenlights in 3D",
		CategoryID:    3,
	}
}

func TestAdvanceGatesOnBasics(t *testing.T) {
	q := NewSequencer()

	fe, err := q.Advance(models.ProjectDraft{})
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if len(fe) == 0 {
		t.Fatal("expected field errors leaving basics with an empty draft")
	}
	if q.Active() != SectionBasics {
		t.Errorf("active = %s after failed validation, want basics", q.Active())
	}
	for _, field := range []string{"title", "description", "elevator_pitch", "category_id"} {
		if fe[field] == "" {
			t.Errorf("missing field error for %s", field)
		}
	}

	fe, err = q.Advance(filledDraft())
	if err != nil || len(fe) != 0 {
		t.Fatalf("Advance with filled basics: fe=%v err=%v", fe, err)
	}
	if q.Active() != SectionTeam {
		t.Errorf("active = %s, want team", q.Active())
	}
}

func TestAdvanceOnlyValidatesBasics(t *testing.T) {
	q := NewSequencer()
	if err := q.Jump(SectionTeam); err != nil {
		t.Fatalf("Jump: %v", err)
	}

	// Later sections advance freely even with an empty draft.
	fe, err := q.Advance(models.ProjectDraft{})
	if err != nil || len(fe) != 0 {
		t.Fatalf("Advance from team: fe=%v err=%v", fe, err)
	}
	if q.Active() != SectionThings {
		t.Errorf("active = %s, want things", q.Active())
	}
}

func TestAdvanceStopsAtLastSection(t *testing.T) {
	q := NewSequencer()
	d := filledDraft()
	for !q.IsLast() {
		if fe, err := q.Advance(d); err != nil || len(fe) != 0 {
			t.Fatalf("Advance at %s: fe=%v err=%v", q.Active(), fe, err)
		}
	}
	if q.Active() != SectionAttachments {
		t.Fatalf("last section = %s, want attachments", q.Active())
	}

	if _, err := q.Advance(d); !errors.Is(err, ErrLastSection) {
		t.Errorf("Advance on last section = %v, want ErrLastSection", err)
	}
	if q.Active() != SectionAttachments {
		t.Errorf("active moved off the last section: %s", q.Active())
	}
}

func TestSequencerConcurrentNavigation(t *testing.T) {
	// Navigation handlers and the submission path hit the sequencer from
	// different goroutines with no shared lock; run under -race.
	q := NewSequencer()
	d := filledDraft()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				q.Advance(d)
				_ = q.Active()
				_ = q.IsLast()
				if err := q.Jump(SectionBasics); err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}
	wg.Wait()

	if indexOf(q.Active()) < 0 {
		t.Errorf("active section %q is not in the sequence", q.Active())
	}
}

func TestJump(t *testing.T) {
	q := NewSequencer()
	if err := q.Jump(SectionStory); err != nil {
		t.Fatalf("Jump: %v", err)
	}
	if q.Active() != SectionStory {
		t.Errorf("active = %s, want story", q.Active())
	}
	if err := q.Jump(Section("settings")); err == nil {
		t.Error("unknown section accepted")
	}
	if q.Active() != SectionStory {
		t.Error("failed jump moved the active section")
	}
}
