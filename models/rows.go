package models

// The four nested collections of a ProjectDraft. Every row carries a Key, a
// locally generated identifier assigned by the draft store when the row first
// appears; updates and removals address rows by Key, never by position.

// TeamMember credits a platform user on the project. Duplicate users within
// one draft are forbidden.
type TeamMember struct {
	Key          string     `json:"key"`
	UserID       int64      `json:"user_id"`
	User         User       `json:"user"`
	Contribution string     `json:"contribution"`
	Role         MemberRole `json:"role"`
}

// MemberRole is the permission level of a team member.
type MemberRole string

const (
	RoleManage MemberRole = "Manage"
	RoleRead   MemberRole = "Read"
)

// WorkAttribution credits an external contributor by name. A row with all
// fields blank is considered non-existent.
type WorkAttribution struct {
	Key               string `json:"key"`
	ContributorName   string `json:"contributor_name"`
	CreditDescription string `json:"credit_description"`
	Link              string `json:"link"`
}

// Empty reports whether the row carries no user-entered data.
func (w WorkAttribution) Empty() bool {
	return w.ContributorName == "" && w.CreditDescription == "" && w.Link == ""
}

// ItemType classifies a bill-of-materials row.
type ItemType string

const (
	ItemHardware ItemType = "Hardware"
	ItemSoftware ItemType = "Software"
	ItemTool     ItemType = "Tool"
)

// BillOfMaterialsItem is one row of the project's bill of materials.
// Quantity is always at least 1.
type BillOfMaterialsItem struct {
	Key         string   `json:"key"`
	ItemType    ItemType `json:"item_type"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Quantity    int      `json:"quantity"`
	Link        string   `json:"link"`
	Image       Media    `json:"image"`
}

// AttachmentType classifies a project attachment.
type AttachmentType string

const (
	AttachmentCode      AttachmentType = "Code"
	AttachmentSchematic AttachmentType = "Schematic"
	AttachmentCAD       AttachmentType = "CAD"
)

// Attachment is a file or external link attached to the project. Either the
// uploaded file or the repository link is expected to carry the payload.
type Attachment struct {
	Key            string         `json:"key"`
	AttachmentType AttachmentType `json:"attachment_type"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	RepositoryLink string         `json:"repository_link"`
	FileUpload     Media          `json:"file_upload"`
}
