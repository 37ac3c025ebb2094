package draft

import (
	"encoding/json"
	"sort"

	"github.com/makerhub/project-editor-backend/models"
)

// Canonicalization projects a draft onto the field subset the remote side
// cares about, sorts every nested collection by its natural key so that
// reordering alone never counts as a change, and renders the result as a
// deterministic string for strict equality. Pending-upload payloads cannot
// be compared by value and collapse to a nil placeholder; persisted files
// compare by their reference string.

type memberSnapshot struct {
	UserID       int64  `json:"user_id"`
	Contribution string `json:"contribution"`
	Role         string `json:"role"`
}

type attributionSnapshot struct {
	ContributorName   string `json:"contributor_name"`
	CreditDescription string `json:"credit_description"`
	Link              string `json:"link"`
}

type bomSnapshot struct {
	ItemType    string  `json:"item_type"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	Image       *string `json:"image"`
	Link        string  `json:"link"`
}

type attachmentSnapshot struct {
	AttachmentType string  `json:"attachment_type"`
	Title          string  `json:"title"`
	FileUpload     *string `json:"file_upload"`
	RepositoryLink string  `json:"repository_link"`
	Description    string  `json:"description"`
}

type draftSnapshot struct {
	Title            string                `json:"title"`
	Description      string                `json:"description"`
	ElevatorPitch    string                `json:"elevator_pitch"`
	StoryContent     string                `json:"story_content"`
	CoverImage       *string               `json:"cover_image"`
	CategoryID       int64                 `json:"category_id"`
	Difficulty       string                `json:"difficulty"`
	Status           string                `json:"status"`
	TeamMembers      []memberSnapshot      `json:"team_members"`
	WorkAttributions []attributionSnapshot `json:"work_attributions"`
	BillOfMaterials  []bomSnapshot         `json:"bill_of_materials"`
	Attachments      []attachmentSnapshot  `json:"attachments"`
}

func mediaRef(m models.Media) *string {
	if !m.IsPersisted() {
		return nil
	}
	ref := m.Reference()
	return &ref
}

// Canonicalize produces the order-independent comparable form of a draft.
// It never mutates its input.
func Canonicalize(d models.ProjectDraft) string {
	snap := draftSnapshot{
		Title:            d.Title,
		Description:      d.Description,
		ElevatorPitch:    d.ElevatorPitch,
		StoryContent:     d.StoryContent,
		CoverImage:       mediaRef(d.CoverImage),
		CategoryID:       d.CategoryID,
		Difficulty:       string(d.Difficulty),
		Status:           string(d.Status),
		TeamMembers:      make([]memberSnapshot, 0, len(d.TeamMembers)),
		WorkAttributions: make([]attributionSnapshot, 0, len(d.WorkAttributions)),
		BillOfMaterials:  make([]bomSnapshot, 0, len(d.BillOfMaterials)),
		Attachments:      make([]attachmentSnapshot, 0, len(d.Attachments)),
	}

	for _, m := range d.TeamMembers {
		snap.TeamMembers = append(snap.TeamMembers, memberSnapshot{
			UserID:       m.UserID,
			Contribution: m.Contribution,
			Role:         string(m.Role),
		})
	}
	sort.Slice(snap.TeamMembers, func(i, j int) bool {
		return snap.TeamMembers[i].UserID < snap.TeamMembers[j].UserID
	})

	for _, w := range d.WorkAttributions {
		snap.WorkAttributions = append(snap.WorkAttributions, attributionSnapshot{
			ContributorName:   w.ContributorName,
			CreditDescription: w.CreditDescription,
			Link:              w.Link,
		})
	}
	sort.Slice(snap.WorkAttributions, func(i, j int) bool {
		return snap.WorkAttributions[i].ContributorName < snap.WorkAttributions[j].ContributorName
	})

	for _, b := range d.BillOfMaterials {
		quantity := b.Quantity
		if quantity < 1 {
			quantity = 1
		}
		snap.BillOfMaterials = append(snap.BillOfMaterials, bomSnapshot{
			ItemType:    string(b.ItemType),
			Name:        b.Name,
			Description: b.Description,
			Quantity:    quantity,
			Image:       mediaRef(b.Image),
			Link:        b.Link,
		})
	}
	sort.Slice(snap.BillOfMaterials, func(i, j int) bool {
		return snap.BillOfMaterials[i].Name < snap.BillOfMaterials[j].Name
	})

	for _, a := range d.Attachments {
		snap.Attachments = append(snap.Attachments, attachmentSnapshot{
			AttachmentType: string(a.AttachmentType),
			Title:          a.Title,
			FileUpload:     mediaRef(a.FileUpload),
			RepositoryLink: a.RepositoryLink,
			Description:    a.Description,
		})
	}
	sort.Slice(snap.Attachments, func(i, j int) bool {
		return snap.Attachments[i].Title < snap.Attachments[j].Title
	})

	// Marshaling a tree of plain structs and strings cannot fail.
	encoded, _ := json.Marshal(snap)
	return string(encoded)
}

// IsDirty reports whether the current draft differs from the baseline in any
// way the remote side would care about.
func IsDirty(current, baseline models.ProjectDraft) bool {
	return Canonicalize(current) != Canonicalize(baseline)
}
