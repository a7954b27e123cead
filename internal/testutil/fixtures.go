package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nileshk07/bloghub/internal/domain"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserBuilder creates test users directly in the database.
type UserBuilder struct {
	username string
	email    string
	password string
	fullName string
}

func NewUserBuilder() *UserBuilder {
	suffix := uuid.New().String()[:8]
	return &UserBuilder{
		username: "testuser_" + suffix,
		email:    "testuser_" + suffix + "@example.com",
		password: "testpassword123",
		fullName: "Test User",
	}
}

func (b *UserBuilder) WithUsername(username string) *UserBuilder {
	b.username = username
	return b
}

func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// Build creates the user and returns it with the raw password.
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Username:     strings.ToLower(b.username),
		Email:        strings.ToLower(b.email),
		PasswordHash: string(hashed),
		FullName:     b.fullName,
		Gender:       domain.GenderOther,
		AvatarURL:    "https://media.test/avatars/" + b.username + ".png",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user, b.password
}

// BlogBuilder creates test blogs directly in the database.
type BlogBuilder struct {
	title       string
	description string
	ownerID     uuid.UUID
	createdAt   time.Time
}

func NewBlogBuilder(ownerID uuid.UUID) *BlogBuilder {
	return &BlogBuilder{
		title:       "Test Blog " + uuid.New().String()[:8],
		description: "A test blog about nothing in particular.",
		ownerID:     ownerID,
		createdAt:   time.Now(),
	}
}

func (b *BlogBuilder) WithTitle(title string) *BlogBuilder {
	b.title = title
	return b
}

func (b *BlogBuilder) WithDescription(description string) *BlogBuilder {
	b.description = description
	return b
}

func (b *BlogBuilder) WithCreatedAt(at time.Time) *BlogBuilder {
	b.createdAt = at
	return b
}

func (b *BlogBuilder) Build(t *testing.T, db *gorm.DB) *domain.Blog {
	t.Helper()

	blog := &domain.Blog{
		ID:          uuid.New(),
		Title:       b.title,
		Description: b.description,
		OwnerID:     b.ownerID,
		CreatedAt:   b.createdAt,
	}
	if err := db.Create(blog).Error; err != nil {
		t.Fatalf("failed to create blog: %v", err)
	}
	return blog
}

// RegisterForm posts a multipart registration with an avatar file and
// returns the response.
func RegisterForm(t *testing.T, baseURL, username, email, password string) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for field, value := range map[string]string{
		"username": username,
		"email":    email,
		"password": password,
		"fullname": "Test User",
		"gender":   "other",
	} {
		if err := mw.WriteField(field, value); err != nil {
			t.Fatalf("failed to write field: %v", err)
		}
	}
	fw, err := mw.CreateFormFile("avatar", "avatar.png")
	if err != nil {
		t.Fatalf("failed to create avatar part: %v", err)
	}
	if _, err := fw.Write([]byte("fake-png-bytes")); err != nil {
		t.Fatalf("failed to write avatar: %v", err)
	}
	mw.Close()

	resp, err := http.Post(baseURL+"/api/user/register", mw.FormDataContentType(), &buf)
	if err != nil {
		t.Fatalf("register request failed: %v", err)
	}
	return resp
}

// CreateBlogForm posts a multipart blog creation with one image file and
// returns the response.
func CreateBlogForm(t *testing.T, baseURL, token, title, description string) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("title", title)
	_ = mw.WriteField("description", description)
	fw, err := mw.CreateFormFile("images", "photo.jpg")
	if err != nil {
		t.Fatalf("failed to create image part: %v", err)
	}
	if _, err := fw.Write([]byte("fake-jpg-bytes")); err != nil {
		t.Fatalf("failed to write image: %v", err)
	}
	mw.Close()

	req, err := http.NewRequest(http.MethodPost, baseURL+"/api/blog/create", &buf)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("create blog request failed: %v", err)
	}
	return resp
}

// Login authenticates and returns the access token.
func Login(t *testing.T, baseURL, username, password string) string {
	t.Helper()

	body, _ := json.Marshal(map[string]string{"username": username, "password": password})
	resp, err := http.Post(baseURL+"/api/user/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("login request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(resp.Body)
		t.Fatalf("login failed: %s: %s", resp.Status, payload)
	}

	var envelope struct {
		Data struct {
			AccessToken string `json:"accessToken"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	return envelope.Data.AccessToken
}

// DoJSON performs an authenticated JSON request and returns the response.
func DoJSON(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	return resp
}

// DecodeData unmarshals the envelope's data field into out.
func DecodeData(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode envelope: %v", err)
	}
	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			t.Fatalf("failed to decode data: %v", err)
		}
	}
}
