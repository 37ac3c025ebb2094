package platform

import "github.com/makerhub/project-editor-backend/models"

// Wire shapes of the platform REST API. Nested collections come back with
// their sub-entities resolved, e.g. each team member carries the full user
// object rather than a bare reference.

// ProjectRecord is the full project as returned by GET /projects/{id}.
type ProjectRecord struct {
	ID              int64               `json:"id"`
	Title           string              `json:"title"`
	Description     string              `json:"description"`
	ElevatorPitch   string              `json:"elevator_pitch"`
	StoryContent    string              `json:"story_content"`
	CoverImage      string              `json:"cover_image"`
	Category        *models.Category    `json:"category"`
	CategoryID      int64               `json:"category_id"`
	Difficulty      string              `json:"difficulty"`
	Status          string              `json:"status"`
	Author          *models.User        `json:"author"`
	TeamMembers     []MemberRecord      `json:"team_members"`
	Attributions    []AttributionRecord `json:"work_attributions"`
	BillOfMaterials []BomRecord         `json:"bill_of_materials"`
	Attachments     []AttachmentRecord  `json:"attachments"`
}

// MemberRecord is one team member row with its resolved user.
type MemberRecord struct {
	User         models.User `json:"user"`
	Contribution string      `json:"contribution"`
	Role         string      `json:"role"`
}

// AttributionRecord is one external-contributor credit row.
type AttributionRecord struct {
	ContributorName   string `json:"contributor_name"`
	CreditDescription string `json:"credit_description"`
	Link              string `json:"link"`
}

// BomRecord is one bill-of-materials row. Image is a stored-file reference.
type BomRecord struct {
	ItemType    string `json:"item_type"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	Image       string `json:"image"`
	Link        string `json:"link"`
}

// AttachmentRecord is one attachment row. FileUpload is a stored-file reference.
type AttachmentRecord struct {
	AttachmentType string `json:"attachment_type"`
	Title          string `json:"title"`
	FileUpload     string `json:"file_upload"`
	RepositoryLink string `json:"repository_link"`
	Description    string `json:"description"`
}

// ResolvedCategoryID returns the category reference regardless of whether the
// API embedded the category object or only its id.
func (p ProjectRecord) ResolvedCategoryID() int64 {
	if p.Category != nil && p.Category.ID != 0 {
		return p.Category.ID
	}
	return p.CategoryID
}

// saveResponse is the body returned by POST /projects and PUT /projects/{id}.
type saveResponse struct {
	ID int64 `json:"id"`
}

// categoryPage is the paginated envelope some deployments return for list
// endpoints; others return a bare array.
type categoryPage struct {
	Results []models.Category `json:"results"`
}
