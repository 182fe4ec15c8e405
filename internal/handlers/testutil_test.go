package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/impactprize/platform/backend/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testDBSeq atomic.Int64

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Use a unique in-memory database per test to avoid cross-test collisions.
	dsn := "file:" + t.Name() + "_" + strconv.FormatInt(testDBSeq.Add(1), 10) + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Role{}, &models.Permission{}, &models.User{},
		&models.Category{}, &models.Profile{}, &models.Vote{},
		&models.Judge{}, &models.Partner{}, &models.FAQ{}, &models.Setting{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func createUser(t *testing.T, db *gorm.DB, email, accountType string, roleID int) *models.User {
	t.Helper()
	now := time.Now().UTC()
	user := models.User{
		Name:            "Test User",
		Email:           email,
		Password:        "$2a$10$notarealhashnotarealhashnotarealhash12",
		RoleID:          roleID,
		AccountType:     accountType,
		EmailVerifiedAt: &now,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return &user
}

func createApprovedProfile(t *testing.T, db *gorm.DB, owner *models.User, name string) *models.Profile {
	t.Helper()
	profile := models.Profile{
		OrganizationName: name,
		Country:          "KE",
		Status:           models.StatusApproved,
		LogoPath:         "/uploads/logo.png",
		UserID:           owner.ID,
	}
	if err := db.Create(&profile).Error; err != nil {
		t.Fatalf("create profile: %v", err)
	}
	return &profile
}

func setVotingWindow(t *testing.T, db *gorm.DB, start, end string) {
	t.Helper()
	for key, value := range map[string]string{
		"voting_start_date": start,
		"voting_end_date":   end,
	} {
		if err := db.Create(&models.Setting{Group: "voting", Key: key, Value: value}).Error; err != nil {
			t.Fatalf("seed setting %s: %v", key, err)
		}
	}
}

// newContext builds a gin context around a JSON request. A non-nil user is
// attached the way the auth middleware would attach it.
func newContext(t *testing.T, method, target string, body any, user *models.User) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(buf)
	}
	c.Request = httptest.NewRequest(method, target, reader)
	if body != nil {
		c.Request.Header.Set("Content-Type", "application/json")
	}
	if user != nil {
		c.Set("user_id", user.ID)
		c.Set("current_user", user)
	}
	return c, w
}

// newFormContext builds a gin context around a multipart form request.
func newFormContext(t *testing.T, target string, fields map[string]string, files map[string][]byte, user *models.User) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := mw.WriteField(key, value); err != nil {
			t.Fatalf("write field %s: %v", key, err)
		}
	}
	for key, content := range files {
		fw, err := mw.CreateFormFile(key, key+".png")
		if err != nil {
			t.Fatalf("create form file %s: %v", key, err)
		}
		if _, err := fw.Write(content); err != nil {
			t.Fatalf("write form file %s: %v", key, err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", target, &buf)
	c.Request.Header.Set("Content-Type", mw.FormDataContentType())
	if user != nil {
		c.Set("user_id", user.ID)
		c.Set("current_user", user)
	}
	return c, w
}

type envelope struct {
	Status  bool            `json:"status"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body: %s)", err, w.Body.String())
	}
	return env
}

// fakeCodeSender records sent codes and accepts "123456" as valid.
type fakeCodeSender struct {
	sent []string
}

func (f *fakeCodeSender) SendCode(_ context.Context, email string) error {
	f.sent = append(f.sent, email)
	return nil
}

func (f *fakeCodeSender) CheckCode(_ context.Context, _ string, code string) (bool, error) {
	return code == "123456", nil
}

// fakeBroadcaster records the last broadcast.
type fakeBroadcaster struct {
	recipients []string
	subject    string
	body       string
}

func (f *fakeBroadcaster) Broadcast(_ context.Context, recipients []string, subject, body string) error {
	f.recipients = recipients
	f.subject = subject
	f.body = body
	return nil
}
