package draft

import (
	"sync"

	"github.com/google/uuid"
	"github.com/makerhub/project-editor-backend/errs"
	"github.com/makerhub/project-editor-backend/models"
	"github.com/makerhub/project-editor-backend/platform"
)

// Store owns the single mutable working copy of a project draft together
// with its baseline, the last persisted (or last loaded) snapshot used for
// dirty-checking. Updates replace the draft wholesale with a deep copy so
// callers never observe partial mutation and no nested slice is ever shared
// between two drafts.
//
// The store is safe for concurrent use; editing may continue while a save
// holds a snapshot.
type Store struct {
	mu       sync.RWMutex
	draft    models.ProjectDraft
	baseline *models.ProjectDraft
	authorID int64
}

// NewStore builds an empty draft for creation mode. The authoring user is
// inserted as the initial team member with the Manage role.
func NewStore(author models.User) *Store {
	d := models.ProjectDraft{
		Difficulty: models.DifficultyBeginner,
		Status:     models.StatusDraft,
		TeamMembers: []models.TeamMember{{
			Key:    uuid.NewString(),
			UserID: author.ID,
			User:   author,
			Role:   models.RoleManage,
		}},
	}
	return &Store{draft: d, authorID: author.ID}
}

// FromRemote hydrates a store from a fetched project record for edit mode.
// Every nested row is field-mapped into the draft shape and assigned a fresh
// row key; a deep copy of the result becomes the baseline.
func FromRemote(record *platform.ProjectRecord) *Store {
	d := models.ProjectDraft{
		ID:            record.ID,
		Title:         record.Title,
		Description:   record.Description,
		ElevatorPitch: record.ElevatorPitch,
		StoryContent:  record.StoryContent,
		CoverImage:    models.PersistedMedia(record.CoverImage),
		CategoryID:    record.ResolvedCategoryID(),
		Difficulty:    models.Difficulty(record.Difficulty),
		Status:        models.ProjectStatus(record.Status),
	}
	if d.Difficulty == "" {
		d.Difficulty = models.DifficultyBeginner
	}
	if d.Status == "" {
		d.Status = models.StatusDraft
	}

	for _, m := range record.TeamMembers {
		d.TeamMembers = append(d.TeamMembers, models.TeamMember{
			Key:          uuid.NewString(),
			UserID:       m.User.ID,
			User:         m.User,
			Contribution: m.Contribution,
			Role:         models.MemberRole(m.Role),
		})
	}
	for _, w := range record.Attributions {
		d.WorkAttributions = append(d.WorkAttributions, models.WorkAttribution{
			Key:               uuid.NewString(),
			ContributorName:   w.ContributorName,
			CreditDescription: w.CreditDescription,
			Link:              w.Link,
		})
	}
	for _, b := range record.BillOfMaterials {
		quantity := b.Quantity
		if quantity < 1 {
			quantity = 1
		}
		d.BillOfMaterials = append(d.BillOfMaterials, models.BillOfMaterialsItem{
			Key:         uuid.NewString(),
			ItemType:    models.ItemType(b.ItemType),
			Name:        b.Name,
			Description: b.Description,
			Quantity:    quantity,
			Link:        b.Link,
			Image:       models.PersistedMedia(b.Image),
		})
	}
	for _, a := range record.Attachments {
		d.Attachments = append(d.Attachments, models.Attachment{
			Key:            uuid.NewString(),
			AttachmentType: models.AttachmentType(a.AttachmentType),
			Title:          a.Title,
			Description:    a.Description,
			RepositoryLink: a.RepositoryLink,
			FileUpload:     models.PersistedMedia(a.FileUpload),
		})
	}

	authorID := int64(0)
	if record.Author != nil {
		authorID = record.Author.ID
	} else if len(d.TeamMembers) > 0 {
		authorID = d.TeamMembers[0].UserID
	}

	baseline := d.Clone()
	return &Store{draft: d, baseline: &baseline, authorID: authorID}
}

// Draft returns a deep copy of the current working draft.
func (s *Store) Draft() models.ProjectDraft {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.draft.Clone()
}

// Baseline returns a deep copy of the baseline, or nil before the draft has
// ever been loaded or persisted.
func (s *Store) Baseline() *models.ProjectDraft {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.baseline == nil {
		return nil
	}
	b := s.baseline.Clone()
	return &b
}

// SetBaseline records the given draft as the new baseline.
func (s *Store) SetBaseline(d models.ProjectDraft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := d.Clone()
	s.baseline = &b
}

// BindID attaches the remote identifier issued by the first successful save.
func (s *Store) BindID(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.ID = id
}

// AuthorID is the user the draft was started (or loaded) for.
func (s *Store) AuthorID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authorID
}

// Dirty reports whether the working copy has diverged from the baseline.
// Before a baseline exists the draft counts as dirty.
func (s *Store) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.baseline == nil {
		return true
	}
	return IsDirty(s.draft, *s.baseline)
}

func (s *Store) update(mutate func(*models.ProjectDraft)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.draft.Clone()
	mutate(&next)
	s.draft = next
}

func (s *Store) SetTitle(v string) {
	s.update(func(d *models.ProjectDraft) { d.Title = v })
}

func (s *Store) SetDescription(v string) {
	s.update(func(d *models.ProjectDraft) { d.Description = v })
}

func (s *Store) SetElevatorPitch(v string) {
	s.update(func(d *models.ProjectDraft) { d.ElevatorPitch = v })
}

func (s *Store) SetStoryContent(v string) {
	s.update(func(d *models.ProjectDraft) { d.StoryContent = v })
}

func (s *Store) SetCategoryID(v int64) {
	s.update(func(d *models.ProjectDraft) { d.CategoryID = v })
}

func (s *Store) SetCoverImage(m models.Media) {
	s.update(func(d *models.ProjectDraft) { d.CoverImage = m })
}

func (s *Store) SetDifficulty(v models.Difficulty) error {
	switch v {
	case models.DifficultyBeginner, models.DifficultyIntermediate, models.DifficultyAdvanced:
	default:
		return errs.NewInvalidFieldError("difficulty", "unknown difficulty level")
	}
	s.update(func(d *models.ProjectDraft) { d.Difficulty = v })
	return nil
}

// SetStatus changes the requested visibility. Published is a moderation
// outcome and cannot be requested through the editor.
func (s *Store) SetStatus(v models.ProjectStatus) error {
	switch v {
	case models.StatusDraft, models.StatusPrivate, models.StatusPending:
	default:
		return errs.NewInvalidFieldError("status", "status cannot be set through the editor")
	}
	s.update(func(d *models.ProjectDraft) { d.Status = v })
	return nil
}

// ReplaceTeamMembers replaces the team collection. Rows without a key are
// new and get one assigned. Duplicate users are forbidden and the authoring
// user may not be removed.
func (s *Store) ReplaceTeamMembers(rows []models.TeamMember) error {
	seen := make(map[int64]bool, len(rows))
	hasAuthor := false
	next := make([]models.TeamMember, len(rows))
	for i, m := range rows {
		if m.UserID == 0 {
			return errs.NewInvalidFieldError("team_members", "team member is missing a user reference")
		}
		if seen[m.UserID] {
			return errs.NewInvalidFieldError("team_members", "a user may only appear once in the team")
		}
		seen[m.UserID] = true
		if m.Key == "" {
			m.Key = uuid.NewString()
		}
		if m.UserID == s.AuthorID() {
			hasAuthor = true
		}
		next[i] = m
	}
	if s.AuthorID() != 0 && !hasAuthor {
		return errs.NewInvalidFieldError("team_members", "the project author cannot be removed from the team")
	}
	s.update(func(d *models.ProjectDraft) { d.TeamMembers = next })
	return nil
}

// ReplaceWorkAttributions replaces the attribution collection, assigning keys
// to new rows.
func (s *Store) ReplaceWorkAttributions(rows []models.WorkAttribution) error {
	next := make([]models.WorkAttribution, len(rows))
	for i, w := range rows {
		if w.Key == "" {
			w.Key = uuid.NewString()
		}
		next[i] = w
	}
	s.update(func(d *models.ProjectDraft) { d.WorkAttributions = next })
	return nil
}

// ReplaceBillOfMaterials replaces the bill of materials. Quantities are
// coerced to at least 1.
func (s *Store) ReplaceBillOfMaterials(rows []models.BillOfMaterialsItem) error {
	next := make([]models.BillOfMaterialsItem, len(rows))
	for i, b := range rows {
		if b.Key == "" {
			b.Key = uuid.NewString()
		}
		if b.Quantity < 1 {
			b.Quantity = 1
		}
		if b.ItemType != "" && !validItemType(b.ItemType) {
			return errs.NewInvalidFieldError("bill_of_materials", "unknown item type")
		}
		next[i] = b
	}
	s.update(func(d *models.ProjectDraft) { d.BillOfMaterials = next })
	return nil
}

// ReplaceAttachments replaces the attachment collection, assigning keys to
// new rows.
func (s *Store) ReplaceAttachments(rows []models.Attachment) error {
	next := make([]models.Attachment, len(rows))
	for i, a := range rows {
		if a.Key == "" {
			a.Key = uuid.NewString()
		}
		if a.AttachmentType != "" && !validAttachmentType(a.AttachmentType) {
			return errs.NewInvalidFieldError("attachments", "unknown attachment type")
		}
		next[i] = a
	}
	s.update(func(d *models.ProjectDraft) { d.Attachments = next })
	return nil
}

func validItemType(t models.ItemType) bool {
	switch t {
	case models.ItemHardware, models.ItemSoftware, models.ItemTool:
		return true
	}
	return false
}

func validAttachmentType(t models.AttachmentType) bool {
	switch t {
	case models.AttachmentCode, models.AttachmentSchematic, models.AttachmentCAD:
		return true
	}
	return false
}
