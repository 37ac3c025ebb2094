package models

// Difficulty is the skill level a project is aimed at.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "Beginner"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyAdvanced     Difficulty = "Advanced"
)

// ProjectStatus is the visibility state of a project. StatusPublished is
// assigned by moderation and is never set through the editor.
type ProjectStatus string

const (
	StatusDraft     ProjectStatus = "draft"
	StatusPrivate   ProjectStatus = "private"
	StatusPending   ProjectStatus = "pending"
	StatusPublished ProjectStatus = "published"
)

// User is the platform user as resolved by the remote API.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// Category is a read-only project category entry.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ProjectDraft is the in-memory working copy of a project being composed.
// ID is zero until the first successful save assigns a remote identifier.
type ProjectDraft struct {
	ID            int64         `json:"id,omitempty"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	ElevatorPitch string        `json:"elevator_pitch"`
	CoverImage    Media         `json:"cover_image"`
	CategoryID    int64         `json:"category_id,omitempty"`
	Difficulty    Difficulty    `json:"difficulty"`
	Status        ProjectStatus `json:"status"`
	StoryContent  string        `json:"story_content"`

	TeamMembers      []TeamMember          `json:"team_members"`
	WorkAttributions []WorkAttribution     `json:"work_attributions"`
	BillOfMaterials  []BillOfMaterialsItem `json:"bill_of_materials"`
	Attachments      []Attachment          `json:"attachments"`
}

// Persisted reports whether the draft is already bound to a remote project.
func (d ProjectDraft) Persisted() bool {
	return d.ID != 0
}

// Clone returns a deep copy of the draft. Nested collections are copied so
// that no slice is ever shared between two drafts.
func (d ProjectDraft) Clone() ProjectDraft {
	out := d
	if d.TeamMembers != nil {
		out.TeamMembers = make([]TeamMember, len(d.TeamMembers))
		copy(out.TeamMembers, d.TeamMembers)
	}
	if d.WorkAttributions != nil {
		out.WorkAttributions = make([]WorkAttribution, len(d.WorkAttributions))
		copy(out.WorkAttributions, d.WorkAttributions)
	}
	if d.BillOfMaterials != nil {
		out.BillOfMaterials = make([]BillOfMaterialsItem, len(d.BillOfMaterials))
		copy(out.BillOfMaterials, d.BillOfMaterials)
	}
	if d.Attachments != nil {
		out.Attachments = make([]Attachment, len(d.Attachments))
		copy(out.Attachments, d.Attachments)
	}
	out.CoverImage = d.CoverImage.Clone()
	for i := range out.BillOfMaterials {
		out.BillOfMaterials[i].Image = out.BillOfMaterials[i].Image.Clone()
	}
	for i := range out.Attachments {
		out.Attachments[i].FileUpload = out.Attachments[i].FileUpload.Clone()
	}
	return out
}
