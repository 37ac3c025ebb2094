package platform

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/makerhub/project-editor-backend/errs"
	"github.com/makerhub/project-editor-backend/models"
	"github.com/makerhub/project-editor-backend/transport"
)

func TestFetchProject(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/projects/31/" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q", got)
		}
		w.Write([]byte(`{
			"id": 31,
			"title": "CNC Plotter",
			"category": {"id": 4, "name": "CNC"},
			"difficulty": "Advanced",
			"status": "draft",
			"team_members": [{"user": {"id": 7, "username": "maker"}, "contribution": "Everything", "role": "Manage"}],
			"bill_of_materials": [{"item_type": "Hardware", "name": "NEMA17", "quantity": 2}]
		}`))
	}))
	defer server.Close()

	record, err := NewClient(server.URL).FetchProject(context.Background(), "tok", 31)
	if err != nil {
		t.Fatalf("FetchProject: %v", err)
	}
	if record.ID != 31 || record.Title != "CNC Plotter" {
		t.Errorf("record = %+v", record)
	}
	if record.ResolvedCategoryID() != 4 {
		t.Errorf("ResolvedCategoryID = %d, want 4 from embedded category", record.ResolvedCategoryID())
	}
	if len(record.TeamMembers) != 1 || record.TeamMembers[0].User.Username != "maker" {
		t.Errorf("team members = %+v", record.TeamMembers)
	}
	if len(record.BillOfMaterials) != 1 || record.BillOfMaterials[0].Quantity != 2 {
		t.Errorf("bill of materials = %+v", record.BillOfMaterials)
	}
}

func TestFetchProjectNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	_, err := NewClient(server.URL).FetchProject(context.Background(), "tok", 12)
	if err == nil {
		t.Fatal("expected an error")
	}
	var apiErr *errs.ApiErr
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("err = %v, want a 404 ApiErr", err)
	}
}

func TestFetchCategories(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bare array", `[{"id": 1, "name": "Robotics"}, {"id": 2, "name": "Wearables"}]`},
		{"paginated envelope", `{"count": 2, "results": [{"id": 1, "name": "Robotics"}, {"id": 2, "name": "Wearables"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/categories/" {
					t.Errorf("path = %s", r.URL.Path)
				}
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			categories, err := NewClient(server.URL).FetchCategories(context.Background(), "tok")
			if err != nil {
				t.Fatalf("FetchCategories: %v", err)
			}
			if len(categories) != 2 || categories[1].Name != "Wearables" {
				t.Errorf("categories = %+v", categories)
			}
		})
	}
}

func minimalParams() transport.ParameterSet {
	return transport.Serialize(models.ProjectDraft{
		Title:         "LED Cube",
		Description:   "desc",
		ElevatorPitch: "pitch",
		CategoryID:    3,
		Difficulty:    models.DifficultyBeginner,
		Status:        models.StatusDraft,
	}, 7)
}

func TestCreateProject(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/projects/" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("body is not multipart: %v", err)
		}
		if got := r.FormValue("title"); got != "LED Cube" {
			t.Errorf("title = %q", got)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": 99, "title": "LED Cube"}`))
	}))
	defer server.Close()

	id, err := NewClient(server.URL).CreateProject(context.Background(), "tok", minimalParams())
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	if id != 99 {
		t.Errorf("id = %d, want 99", id)
	}
}

func TestUpdateProject(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/projects/99/" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"id": 99}`))
	}))
	defer server.Close()

	id, err := NewClient(server.URL).UpdateProject(context.Background(), "tok", 99, minimalParams())
	if err != nil {
		t.Fatalf("UpdateProject: %v", err)
	}
	if id != 99 {
		t.Errorf("id = %d", id)
	}
}

func TestUpdateProjectEmptyResponseBody(t *testing.T) {
	// An accepted update may come back with no body at all; that is not a
	// parse failure, the caller keeps the id it already has.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	id, err := NewClient(server.URL).UpdateProject(context.Background(), "tok", 99, minimalParams())
	if err != nil {
		t.Fatalf("UpdateProject: %v", err)
	}
	if id != 0 {
		t.Errorf("id = %d, want 0 for an empty body", id)
	}
}

func TestSubmitFieldRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"title": ["Too long."], "category_id": "Invalid pk."}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL).CreateProject(context.Background(), "tok", minimalParams())
	var remote *errs.RemoteValidationError
	if !errors.As(err, &remote) {
		t.Fatalf("err = %v, want RemoteValidationError", err)
	}
	if remote.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d", remote.StatusCode)
	}
	// A DRF error value may be a list of strings or a bare string.
	if remote.Fields["title"] != "Too long." {
		t.Errorf("title message = %q", remote.Fields["title"])
	}
	if remote.Fields["category_id"] != "Invalid pk." {
		t.Errorf("category_id message = %q", remote.Fields["category_id"])
	}
	if !errs.IsRemoteRejected(err) {
		t.Error("remote validation error does not match the rejected sentinel")
	}
}

func TestSubmitServerFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := NewClient(server.URL).CreateProject(context.Background(), "tok", minimalParams())
	if err == nil {
		t.Fatal("expected an error")
	}
	var remote *errs.RemoteValidationError
	if errors.As(err, &remote) {
		t.Error("a 500 must not be treated as field validation")
	}
}

func TestDeleteProject(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/projects/31/" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	if err := NewClient(server.URL).DeleteProject(context.Background(), "tok", 31); err != nil {
		t.Errorf("DeleteProject: %v", err)
	}
}

func TestDeleteProjectUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	err := NewClient(server.URL).DeleteProject(context.Background(), "tok", 31)
	if !errs.IsRemoteUnavailable(err) {
		t.Errorf("err = %v, want remote-unavailable", err)
	}
}
