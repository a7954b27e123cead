// Seeds a running server with demo users, blogs and follows, then asks a
// question against the indexed content. Useful for manual frontend testing.
//
// Usage: go run ./scripts/seed-demo.go (server on localhost:8080)
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"mime/multipart"
	"net/http"
	"os"
	"time"
)

const apiBase = "http://localhost:8080/api"

type User struct {
	Username string
	Password string
	Token    string
	UserID   string
}

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
}

var demoBlogs = []struct {
	Title       string
	Description string
}{
	{"Sourdough Basics", "Feed your sourdough starter with equal parts flour and water every morning."},
	{"Raised Bed Gardening", "Tomatoes and peppers thrive in raised beds with compost-rich soil."},
	{"Trail Running 101", "Start with short trails and build weekly mileage slowly to avoid injury."},
	{"Coffee Brewing Guide", "A medium grind and water just off the boil make the best pour-over coffee."},
}

func registerUser(username, password string) (*User, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for field, value := range map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": password,
		"fullname": "Demo " + username,
		"gender":   "other",
	} {
		_ = mw.WriteField(field, value)
	}
	fw, err := mw.CreateFormFile("avatar", "avatar.png")
	if err != nil {
		return nil, err
	}
	if _, err := fw.Write([]byte("demo-avatar-bytes")); err != nil {
		return nil, err
	}
	mw.Close()

	resp, err := http.Post(apiBase+"/user/register", mw.FormDataContentType(), &buf)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("registration failed (%d): %s", resp.StatusCode, string(bodyBytes))
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode failed: %w", err)
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &created); err != nil {
		return nil, fmt.Errorf("decode failed: %w", err)
	}

	return &User{Username: username, Password: password, UserID: created.ID}, nil
}

func login(user *User) error {
	body, _ := json.Marshal(map[string]string{
		"username": user.Username,
		"password": user.Password,
	})

	resp, err := http.Post(apiBase+"/user/login", "application/json", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("login failed (%d): %s", resp.StatusCode, string(bodyBytes))
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	var data struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	user.Token = data.AccessToken
	return nil
}

func createBlog(token, title, description string) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("title", title)
	_ = mw.WriteField("description", description)
	fw, err := mw.CreateFormFile("images", "cover.jpg")
	if err != nil {
		return err
	}
	if _, err := fw.Write([]byte("demo-image-bytes")); err != nil {
		return err
	}
	mw.Close()

	req, _ := http.NewRequest("POST", apiBase+"/blog/create", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("create blog failed (%d): %s", resp.StatusCode, string(bodyBytes))
	}
	return nil
}

func followUser(token, userID string) error {
	body, _ := json.Marshal(map[string]string{"userId": userID})

	req, _ := http.NewRequest("POST", apiBase+"/user/followUser", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("follow failed (%d): %s", resp.StatusCode, string(bodyBytes))
	}
	return nil
}

func ask(token, question string) (string, error) {
	body, _ := json.Marshal(map[string]string{"question": question})

	req, _ := http.NewRequest("POST", apiBase+"/blog/ask", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("ask failed (%d): %s", resp.StatusCode, string(bodyBytes))
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return "", fmt.Errorf("decode failed: %w", err)
	}
	var data struct {
		Answer string `json:"answer"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return "", fmt.Errorf("decode failed: %w", err)
	}
	return data.Answer, nil
}

func generateUsername(index int) string {
	const letters = "abcdefghijklmnopqrstuvwxyz0123456789"
	random := make([]byte, 4)
	for i := range random {
		random[i] = letters[rand.Intn(len(letters))]
	}
	return fmt.Sprintf("demo_%d_%d_%s", index, time.Now().Unix(), string(random))
}

func main() {
	fmt.Println("Seeding demo data...")

	password := "demopassword123"
	var users []*User

	fmt.Println("\nRegistering 3 users...")
	for i := 1; i <= 3; i++ {
		user, err := registerUser(generateUsername(i), password)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to register user %d: %v\n", i, err)
			os.Exit(1)
		}
		if err := login(user); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to log in user %d: %v\n", i, err)
			os.Exit(1)
		}
		users = append(users, user)
		fmt.Printf("  ✓ User %d: %s\n", i, user.Username)
	}

	fmt.Println("\nCreating blogs...")
	for i, blog := range demoBlogs {
		author := users[i%len(users)]
		if err := createBlog(author.Token, blog.Title, blog.Description); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create blog %q: %v\n", blog.Title, err)
			os.Exit(1)
		}
		fmt.Printf("  ✓ %s (by %s)\n", blog.Title, author.Username)
	}

	fmt.Println("\nWiring follows...")
	for i, user := range users {
		followee := users[(i+1)%len(users)]
		if err := followUser(user.Token, followee.UserID); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to follow: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("  ✓ %s follows %s\n", user.Username, followee.Username)
	}

	// Give the background indexer a moment before querying.
	fmt.Println("\nAsking a question against the indexed blogs...")
	time.Sleep(2 * time.Second)
	answer, err := ask(users[0].Token, "How often should I feed a sourdough starter?")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to ask: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("  ✓ Answer: %s\n", answer)

	fmt.Println("\nDone. Log in with any demo user, password:", password)
}
