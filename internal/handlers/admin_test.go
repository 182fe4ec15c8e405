package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/impactprize/platform/backend/internal/models"
)

func withID(c *gin.Context, id int) {
	c.Params = gin.Params{{Key: "id", Value: strconv.Itoa(id)}}
}

func TestApproveProfile(t *testing.T) {
	db := setupTestDB(t)
	h := NewAdminProfileHandler(db)
	owner := createUser(t, db, "owner@example.org", models.AccountTypeSubmitter, 2)

	profile := models.Profile{OrganizationName: "Pending Org", Status: models.StatusPending, UserID: owner.ID}
	if err := db.Create(&profile).Error; err != nil {
		t.Fatalf("create profile: %v", err)
	}

	c, w := newContext(t, "POST", "/admin/profiles/1/approve", nil, nil)
	withID(c, profile.ID)
	h.Approve(c)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", w.Code, w.Body.String())
	}

	db.First(&profile, profile.ID)
	if profile.Status != models.StatusApproved {
		t.Errorf("status = %q, want approved", profile.Status)
	}
}

func TestRejectProfileRequiresReason(t *testing.T) {
	tests := []struct {
		name   string
		reason string
		want   int
	}{
		{"empty reason", "", http.StatusUnprocessableEntity},
		{"whitespace reason", "   ", http.StatusUnprocessableEntity},
		{"valid reason", "Profile is incomplete", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupTestDB(t)
			h := NewAdminProfileHandler(db)
			owner := createUser(t, db, "owner@example.org", models.AccountTypeSubmitter, 2)
			profile := models.Profile{OrganizationName: "Org", Status: models.StatusPending, UserID: owner.ID}
			if err := db.Create(&profile).Error; err != nil {
				t.Fatalf("create profile: %v", err)
			}

			c, w := newContext(t, "POST", "/admin/profiles/1/reject",
				models.RejectProfileRequest{Reason: tt.reason}, nil)
			withID(c, profile.ID)
			h.Reject(c)
			if w.Code != tt.want {
				t.Fatalf("expected %d got %d: %s", tt.want, w.Code, w.Body.String())
			}

			db.First(&profile, profile.ID)
			if tt.want == http.StatusOK {
				if profile.Status != models.StatusRejected || profile.RejectionReason != tt.reason {
					t.Errorf("profile = %q/%q, want rejected with reason", profile.Status, profile.RejectionReason)
				}
			} else if profile.Status != models.StatusPending {
				// Refused before any state change.
				t.Errorf("status = %q, want pending (unchanged)", profile.Status)
			}
		})
	}
}

func TestAssignProfile(t *testing.T) {
	db := setupTestDB(t)
	h := NewAdminProfileHandler(db)
	owner := createUser(t, db, "owner@example.org", models.AccountTypeSubmitter, 2)
	taken := createUser(t, db, "taken@example.org", models.AccountTypeSubmitter, 2)
	fresh := createUser(t, db, "fresh@example.org", "", 2)

	profile := createApprovedProfile(t, db, owner, "Org A")
	createApprovedProfile(t, db, taken, "Org B")

	// Target already owns a profile.
	c, w := newContext(t, "POST", "/admin/profiles/1/assign",
		models.AssignProfileRequest{UserID: taken.ID}, nil)
	withID(c, profile.ID)
	h.Assign(c)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d: %s", w.Code, w.Body.String())
	}

	// Fresh target: reassigned and tagged as submitter.
	c, w = newContext(t, "POST", "/admin/profiles/1/assign",
		models.AssignProfileRequest{UserID: fresh.ID}, nil)
	withID(c, profile.ID)
	h.Assign(c)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", w.Code, w.Body.String())
	}

	db.First(profile, profile.ID)
	if profile.UserID != fresh.ID {
		t.Errorf("profile.user_id = %d, want %d", profile.UserID, fresh.ID)
	}
	db.First(fresh, fresh.ID)
	if fresh.AccountType != models.AccountTypeSubmitter {
		t.Errorf("account_type = %q, want submitter", fresh.AccountType)
	}
}

func TestCategoryUpdateKeepsSlug(t *testing.T) {
	db := setupTestDB(t)
	h := NewReferenceHandler(db, t.TempDir())

	c, w := newContext(t, "POST", "/admin/categories", map[string]any{"name": "Health"}, nil)
	h.CreateCategory(c)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", w.Code, w.Body.String())
	}

	var category models.Category
	if err := db.Where("slug = ?", "health").First(&category).Error; err != nil {
		t.Fatalf("expected slug %q: %v", "health", err)
	}

	// Deactivate without touching the slug.
	c, w = newContext(t, "POST", "/admin/categories/1",
		map[string]any{"name": "Health", "is_active": false}, nil)
	withID(c, category.ID)
	h.UpdateCategory(c)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", w.Code, w.Body.String())
	}

	db.First(&category, category.ID)
	if category.Slug != "health" {
		t.Errorf("slug = %q, want unchanged %q", category.Slug, "health")
	}
	if category.IsActive {
		t.Error("expected category to be inactive")
	}

	// Inactive categories disappear from the public list but stay in admin.
	c, w = newContext(t, "GET", "/categories", nil, nil)
	h.ListCategories(c)
	env := decodeEnvelope(t, w)
	var public []models.Category
	if err := json.Unmarshal(env.Data, &public); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(public) != 0 {
		t.Errorf("public list = %+v, want empty", public)
	}

	c, w = newContext(t, "GET", "/admin/categories", nil, nil)
	h.AdminListCategories(c)
	env = decodeEnvelope(t, w)
	var all []models.Category
	if err := json.Unmarshal(env.Data, &all); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("admin list = %+v, want one entry", all)
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Health", "health"},
		{"Health & Wellbeing", "health-wellbeing"},
		{"  Climate Action  ", "climate-action"},
		{"Éducation", "ducation"},
	}
	for _, tt := range tests {
		if got := slugify(tt.in); got != tt.want {
			t.Errorf("slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAdminListProfilesFilters(t *testing.T) {
	db := setupTestDB(t)
	h := NewAdminProfileHandler(db)
	a := createUser(t, db, "a@example.org", models.AccountTypeSubmitter, 2)
	b := createUser(t, db, "b@example.org", models.AccountTypeSubmitter, 2)
	createApprovedProfile(t, db, a, "Approved Org")
	pending := models.Profile{OrganizationName: "Pending Org", Status: models.StatusPending, UserID: b.ID}
	if err := db.Create(&pending).Error; err != nil {
		t.Fatalf("create profile: %v", err)
	}

	c, w := newContext(t, "GET", "/admin/profiles?status=pending", nil, nil)
	h.List(c)
	env := decodeEnvelope(t, w)
	var data struct {
		Profiles []struct {
			OrganizationName string `json:"organization_name"`
			Status           string `json:"status"`
		} `json:"profiles"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(data.Profiles) != 1 || data.Profiles[0].Status != models.StatusPending {
		t.Fatalf("status filter returned %+v", data.Profiles)
	}
}

func TestBroadcastEmail(t *testing.T) {
	db := setupTestDB(t)
	sender := &fakeBroadcaster{}
	h := NewBroadcastHandler(db, sender)

	createUser(t, db, "voter@example.org", models.AccountTypeVoter, 2)
	createUser(t, db, "submitter@example.org", models.AccountTypeSubmitter, 2)
	unverified := models.User{Name: "Ghost", Email: "ghost@example.org", Password: "x"}
	if err := db.Create(&unverified).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	// Empty subject refused before anything is sent.
	c, w := newContext(t, "POST", "/admin/broadcast-email",
		map[string]string{"subject": "", "body": "hello"}, nil)
	h.Send(c)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", w.Code)
	}
	if sender.subject != "" {
		t.Error("broadcast was sent despite validation failure")
	}

	c, w = newContext(t, "POST", "/admin/broadcast-email",
		map[string]string{"subject": "News", "body": "<p>Voting opens soon</p>", "audience": "voters"}, nil)
	h.Send(c)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", w.Code, w.Body.String())
	}
	if len(sender.recipients) != 1 || sender.recipients[0] != "voter@example.org" {
		t.Errorf("recipients = %v, want just the voter", sender.recipients)
	}

	c, w = newContext(t, "POST", "/admin/broadcast-email",
		map[string]string{"subject": "News", "body": "b"}, nil)
	h.Send(c)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	// Unverified accounts never receive mail.
	if len(sender.recipients) != 2 {
		t.Errorf("recipients = %v, want the two verified accounts", sender.recipients)
	}
}

func TestSettingsUpsert(t *testing.T) {
	db := setupTestDB(t)
	h := NewSettingHandler(db)

	c, w := newContext(t, "POST", "/admin/settings", map[string]any{
		"group": "voting",
		"settings": map[string]string{
			"voting_start_date": "2026-03-02",
			"voting_end_date":   "2026-03-07",
		},
	}, nil)
	h.AdminUpdate(c)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", w.Code, w.Body.String())
	}

	// Second write updates in place.
	c, w = newContext(t, "POST", "/admin/settings", map[string]any{
		"group":    "voting",
		"settings": map[string]string{"voting_end_date": "2026-03-09"},
	}, nil)
	h.AdminUpdate(c)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}

	c, w = newContext(t, "GET", "/settings?group=voting", nil, nil)
	h.Show(c)
	env := decodeEnvelope(t, w)
	var values map[string]string
	if err := json.Unmarshal(env.Data, &values); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if values["voting_start_date"] != "2026-03-02" || values["voting_end_date"] != "2026-03-09" {
		t.Errorf("settings = %v", values)
	}

	var count int64
	db.Model(&models.Setting{}).Count(&count)
	if count != 2 {
		t.Errorf("setting rows = %d, want 2 (upsert, not duplicate)", count)
	}
}
