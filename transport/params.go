package transport

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/makerhub/project-editor-backend/models"
)

// The remote API reconstructs nested collections strictly from bracketed,
// zero-based parameter indices. Rows are filtered before indexing so the
// produced indices are always contiguous.

// defaultContribution is substituted for blank team member contribution text;
// the remote API rejects blank contributions.
const defaultContribution = "Contributor"

// FileParam is a binary payload attached to a parameter.
type FileParam struct {
	Filename string
	Content  []byte
}

// Param is a single flat parameter. Exactly one of Value and File is set.
type Param struct {
	Name  string
	Value string
	File  *FileParam
}

// ParameterSet is an ordered flat parameter list suitable for a multipart
// request body.
type ParameterSet struct {
	params []Param
}

// Params returns the parameters in append order.
func (ps ParameterSet) Params() []Param {
	return ps.params
}

// Len returns the number of parameters.
func (ps ParameterSet) Len() int {
	return len(ps.params)
}

// Get returns the text value of the first parameter with the given name.
func (ps ParameterSet) Get(name string) (string, bool) {
	for _, p := range ps.params {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// Has reports whether any parameter with the given name exists.
func (ps ParameterSet) Has(name string) bool {
	for _, p := range ps.params {
		if p.Name == name {
			return true
		}
	}
	return false
}

func (ps *ParameterSet) add(name, value string) {
	ps.params = append(ps.params, Param{Name: name, Value: value})
}

func (ps *ParameterSet) addFile(name string, m models.Media) {
	ps.params = append(ps.params, Param{Name: name, File: &FileParam{
		Filename: m.Filename(),
		Content:  m.Payload(),
	}})
}

func filled(s string) bool {
	return strings.TrimSpace(s) != ""
}

// Serialize flattens a draft into the parameter set the remote API expects.
// The draft itself is never mutated. Media fields are included only while
// they hold a pending upload; a persisted reference is omitted entirely so
// the remote side keeps its stored file.
func Serialize(d models.ProjectDraft, authorID int64) ParameterSet {
	var ps ParameterSet

	ps.add("title", d.Title)
	ps.add("description", d.Description)
	ps.add("elevator_pitch", d.ElevatorPitch)
	ps.add("story_content", d.StoryContent)
	ps.add("category_id", strconv.FormatInt(d.CategoryID, 10))
	ps.add("difficulty", string(d.Difficulty))
	ps.add("status", string(d.Status))
	ps.add("author_id", strconv.FormatInt(authorID, 10))

	if d.CoverImage.IsPending() {
		ps.addFile("cover_image", d.CoverImage)
	}

	serializeTeamMembers(&ps, d.TeamMembers)
	serializeWorkAttributions(&ps, d.WorkAttributions)
	serializeBillOfMaterials(&ps, d.BillOfMaterials)
	serializeAttachments(&ps, d.Attachments)

	return ps
}

func serializeTeamMembers(ps *ParameterSet, members []models.TeamMember) {
	for i, m := range members {
		prefix := fmt.Sprintf("team_members_data[%d]", i)
		ps.add(prefix+".user_id", strconv.FormatInt(m.UserID, 10))
		if m.Role != "" {
			ps.add(prefix+".role", string(m.Role))
		}
		contribution := strings.TrimSpace(m.Contribution)
		if contribution == "" {
			contribution = defaultContribution
		}
		ps.add(prefix+".contribution", contribution)
	}
}

func serializeWorkAttributions(ps *ParameterSet, rows []models.WorkAttribution) {
	idx := 0
	for _, w := range rows {
		if w.Empty() {
			continue
		}
		prefix := fmt.Sprintf("work_attributions_data[%d]", idx)
		if w.ContributorName != "" {
			ps.add(prefix+".contributor_name", w.ContributorName)
		}
		if w.CreditDescription != "" {
			ps.add(prefix+".credit_description", w.CreditDescription)
		}
		if w.Link != "" {
			ps.add(prefix+".link", w.Link)
		}
		idx++
	}
}

func serializeBillOfMaterials(ps *ParameterSet, rows []models.BillOfMaterialsItem) {
	idx := 0
	for _, b := range rows {
		// A row without a name and a type is treated as non-existent,
		// including the ambiguous case of a row holding only its
		// default quantity of 1.
		if !filled(b.Name) || !filled(string(b.ItemType)) {
			continue
		}
		prefix := fmt.Sprintf("bill_of_materials_data[%d]", idx)
		ps.add(prefix+".item_type", string(b.ItemType))
		ps.add(prefix+".name", b.Name)
		if b.Description != "" {
			ps.add(prefix+".description", b.Description)
		}
		quantity := b.Quantity
		if quantity < 1 {
			quantity = 1
		}
		ps.add(prefix+".quantity", strconv.Itoa(quantity))
		if b.Link != "" {
			ps.add(prefix+".link", b.Link)
		}
		if b.Image.IsPending() {
			ps.addFile(prefix+".image", b.Image)
		}
		idx++
	}
}

func serializeAttachments(ps *ParameterSet, rows []models.Attachment) {
	idx := 0
	for _, a := range rows {
		if !filled(a.Title) || !filled(string(a.AttachmentType)) {
			continue
		}
		prefix := fmt.Sprintf("attachments_data[%d]", idx)
		ps.add(prefix+".attachment_type", string(a.AttachmentType))
		ps.add(prefix+".title", a.Title)
		if a.Description != "" {
			ps.add(prefix+".description", a.Description)
		}
		if a.RepositoryLink != "" {
			ps.add(prefix+".repository_link", a.RepositoryLink)
		}
		if a.FileUpload.IsPending() {
			ps.addFile(prefix+".file_upload", a.FileUpload)
		}
		idx++
	}
}
