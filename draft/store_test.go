package draft

import (
	"testing"

	"github.com/makerhub/project-editor-backend/models"
	"github.com/makerhub/project-editor-backend/platform"
)

func author() models.User {
	return models.User{ID: 7, Username: "maker"}
}

func TestNewStoreInsertsAuthor(t *testing.T) {
	s := NewStore(author())
	d := s.Draft()

	if len(d.TeamMembers) != 1 {
		t.Fatalf("expected 1 initial team member, got %d", len(d.TeamMembers))
	}
	m := d.TeamMembers[0]
	if m.UserID != 7 || m.Role != models.RoleManage {
		t.Errorf("initial member = %+v, want author with Manage role", m)
	}
	if m.Key == "" {
		t.Error("initial member has no row key")
	}
	if d.Status != models.StatusDraft || d.Difficulty != models.DifficultyBeginner {
		t.Errorf("unexpected defaults: status=%s difficulty=%s", d.Status, d.Difficulty)
	}
	if s.Baseline() != nil {
		t.Error("a fresh creation draft must have no baseline")
	}
	if !s.Dirty() {
		t.Error("a draft without baseline counts as dirty")
	}
}

func TestStoreUpdatesAreIsolated(t *testing.T) {
	s := NewStore(author())
	before := s.Draft()

	s.SetTitle("Weather Station")

	if before.Title != "" {
		t.Error("earlier snapshot observed a later mutation")
	}
	if s.Draft().Title != "Weather Station" {
		t.Error("update not applied")
	}

	// Snapshots own their collections.
	snap := s.Draft()
	snap.TeamMembers[0].Contribution = "scribbled on a copy"
	if s.Draft().TeamMembers[0].Contribution != "" {
		t.Error("mutating a snapshot leaked into the store")
	}
}

func TestReplaceTeamMembers(t *testing.T) {
	authorRow := func(s *Store) models.TeamMember {
		return s.Draft().TeamMembers[0]
	}

	t.Run("assigns keys to new rows", func(t *testing.T) {
		s := NewStore(author())
		err := s.ReplaceTeamMembers([]models.TeamMember{
			authorRow(s),
			{UserID: 12, User: models.User{ID: 12, Username: "friend"}, Role: models.RoleRead},
		})
		if err != nil {
			t.Fatalf("ReplaceTeamMembers: %v", err)
		}
		rows := s.Draft().TeamMembers
		if rows[1].Key == "" {
			t.Error("new row was not assigned a key")
		}
		if rows[0].Key == rows[1].Key {
			t.Error("duplicate row keys")
		}
	})

	t.Run("rejects duplicate users", func(t *testing.T) {
		s := NewStore(author())
		err := s.ReplaceTeamMembers([]models.TeamMember{
			authorRow(s),
			{UserID: 7},
		})
		if err == nil {
			t.Error("duplicate user accepted")
		}
	})

	t.Run("rejects removing the author", func(t *testing.T) {
		s := NewStore(author())
		err := s.ReplaceTeamMembers([]models.TeamMember{
			{UserID: 12},
		})
		if err == nil {
			t.Error("author removal accepted")
		}
	})

	t.Run("rejects missing user reference", func(t *testing.T) {
		s := NewStore(author())
		err := s.ReplaceTeamMembers([]models.TeamMember{
			authorRow(s),
			{Contribution: "ghost"},
		})
		if err == nil {
			t.Error("member without user reference accepted")
		}
	})
}

func TestReplaceBillOfMaterialsCoercesQuantity(t *testing.T) {
	s := NewStore(author())
	err := s.ReplaceBillOfMaterials([]models.BillOfMaterialsItem{
		{ItemType: models.ItemHardware, Name: "Resistor"},
		{ItemType: models.ItemHardware, Name: "LED", Quantity: -4},
		{ItemType: models.ItemHardware, Name: "Wire", Quantity: 12},
	})
	if err != nil {
		t.Fatalf("ReplaceBillOfMaterials: %v", err)
	}

	for _, b := range s.Draft().BillOfMaterials {
		if b.Quantity < 1 {
			t.Errorf("row %q has quantity %d, want >= 1", b.Name, b.Quantity)
		}
	}
	if got := s.Draft().BillOfMaterials[2].Quantity; got != 12 {
		t.Errorf("explicit quantity rewritten to %d", got)
	}
}

func TestSetStatusRejectsModerationStates(t *testing.T) {
	s := NewStore(author())
	if err := s.SetStatus(models.StatusPending); err != nil {
		t.Errorf("pending should be settable: %v", err)
	}
	if err := s.SetStatus(models.StatusPrivate); err != nil {
		t.Errorf("private should be settable: %v", err)
	}
	if err := s.SetStatus(models.StatusPublished); err == nil {
		t.Error("published must not be settable through the editor")
	}
}

func remoteRecord() *platform.ProjectRecord {
	return &platform.ProjectRecord{
		ID:            31,
		Title:         "CNC Plotter",
		Description:   "A pen plotter from scrap printers",
		ElevatorPitch: "drawing machines for everyone",
		StoryContent:  "<p>long story</p>",
		CoverImage:    "covers/plotter.jpg",
		Category:      &models.Category{ID: 4, Name: "CNC"},
		Difficulty:    "Advanced",
		Status:        "draft",
		Author:        &models.User{ID: 7, Username: "maker"},
		TeamMembers: []platform.MemberRecord{
			{User: models.User{ID: 7, Username: "maker"}, Contribution: "Everything", Role: "Manage"},
		},
		Attributions: []platform.AttributionRecord{
			{ContributorName: "Ada", CreditDescription: "Stepper math"},
		},
		BillOfMaterials: []platform.BomRecord{
			{ItemType: "Hardware", Name: "NEMA17", Quantity: 2, Image: "bom/nema17.jpg"},
		},
		Attachments: []platform.AttachmentRecord{
			{AttachmentType: "Code", Title: "gcode sender", FileUpload: "attachments/sender.py"},
		},
	}
}

func TestFromRemote(t *testing.T) {
	s := FromRemote(remoteRecord())
	d := s.Draft()

	if d.ID != 31 || !d.Persisted() {
		t.Fatalf("draft not bound to remote id: %+v", d.ID)
	}
	if d.CategoryID != 4 {
		t.Errorf("category id = %d, want 4 from embedded category", d.CategoryID)
	}
	if !d.CoverImage.IsPersisted() || d.CoverImage.Reference() != "covers/plotter.jpg" {
		t.Errorf("cover image not mapped to a persisted reference: %+v", d.CoverImage)
	}
	if len(d.TeamMembers) != 1 || d.TeamMembers[0].User.Username != "maker" {
		t.Errorf("team member user object not preserved: %+v", d.TeamMembers)
	}
	if d.TeamMembers[0].Key == "" || d.BillOfMaterials[0].Key == "" {
		t.Error("hydrated rows were not assigned keys")
	}
	if !d.BillOfMaterials[0].Image.IsPersisted() {
		t.Error("bom image not mapped to a persisted reference")
	}
	if s.AuthorID() != 7 {
		t.Errorf("author id = %d", s.AuthorID())
	}

	if s.Baseline() == nil {
		t.Fatal("edit mode must start with a baseline")
	}
	if s.Dirty() {
		t.Error("a freshly loaded draft must be clean")
	}

	s.SetTitle("CNC Plotter v2")
	if !s.Dirty() {
		t.Error("editing a loaded draft must flip the dirty flag")
	}
}

func TestBaselineIsDeepCopy(t *testing.T) {
	s := FromRemote(remoteRecord())

	// Mutating the draft's collections must never reach the baseline.
	if err := s.ReplaceWorkAttributions(nil); err != nil {
		t.Fatalf("ReplaceWorkAttributions: %v", err)
	}
	b := s.Baseline()
	if len(b.WorkAttributions) != 1 {
		t.Error("baseline shared a collection with the working draft")
	}
	if !s.Dirty() {
		t.Error("clearing a collection must be dirty")
	}
}
