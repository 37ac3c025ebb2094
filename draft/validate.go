package draft

import (
	"strings"

	"github.com/makerhub/project-editor-backend/models"
)

// FieldErrors maps a field name to a user-facing message. It is the shared
// shape for local validation failures and remote-reported field errors.
type FieldErrors map[string]string

// ValidateRequired checks the four required top-level fields that gate
// submission. All of them live in the basics section.
func ValidateRequired(d models.ProjectDraft) FieldErrors {
	fe := FieldErrors{}
	if strings.TrimSpace(d.Title) == "" {
		fe["title"] = "Project title is required"
	}
	if strings.TrimSpace(d.Description) == "" {
		fe["description"] = "Project description is required"
	}
	if strings.TrimSpace(d.ElevatorPitch) == "" {
		fe["elevator_pitch"] = "Elevator pitch is required"
	}
	if d.CategoryID == 0 {
		fe["category_id"] = "Category is required"
	}
	return fe
}
