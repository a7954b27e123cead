package handlers_test

import (
	"net/http"
	"testing"

	"github.com/nileshk07/bloghub/internal/domain"
	"github.com/nileshk07/bloghub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRegisterAndLogin(t *testing.T) {
	ts := testutil.NewTestServer(t)

	resp := testutil.RegisterForm(t, ts.Server.URL, "alice", "alice@example.com", "password123")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var user domain.User
	testutil.DecodeData(t, resp, &user)
	assert.Equal(t, "alice", user.Username)
	assert.Empty(t, user.PasswordHash, "password hash must never be serialized")

	t.Run("duplicate username", func(t *testing.T) {
		resp := testutil.RegisterForm(t, ts.Server.URL, "alice", "other@example.com", "password123")
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("login sets cookies", func(t *testing.T) {
		token := testutil.Login(t, ts.Server.URL, "alice", "password123")
		assert.NotEmpty(t, token)
	})

	t.Run("wrong password", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodPost, ts.URL("/api/user/login"), "", map[string]string{
			"username": "alice",
			"password": "nope",
		})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestUserIsAuthenticated(t *testing.T) {
	ts := testutil.NewTestServer(t)

	resp := testutil.RegisterForm(t, ts.Server.URL, "bob", "bob@example.com", "password123")
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	token := testutil.Login(t, ts.Server.URL, "bob", "password123")

	t.Run("with token", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodGet, ts.URL("/api/user/isAuthenticated"), token, nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("without token", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodGet, ts.URL("/api/user/isAuthenticated"), "", nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestUserRefresh(t *testing.T) {
	ts := testutil.NewTestServer(t)

	resp := testutil.RegisterForm(t, ts.Server.URL, "carol", "carol@example.com", "password123")
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	loginResp := testutil.DoJSON(t, http.MethodPost, ts.URL("/api/user/login"), "", map[string]string{
		"username": "carol",
		"password": "password123",
	})
	var loginData struct {
		RefreshToken string `json:"refreshToken"`
	}
	testutil.DecodeData(t, loginResp, &loginData)
	require.NotEmpty(t, loginData.RefreshToken)

	refreshResp := testutil.DoJSON(t, http.MethodPost, ts.URL("/api/user/refresh"), "", map[string]string{
		"refreshToken": loginData.RefreshToken,
	})
	var refreshData struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	require.Equal(t, http.StatusOK, refreshResp.StatusCode)
	testutil.DecodeData(t, refreshResp, &refreshData)
	assert.NotEmpty(t, refreshData.AccessToken)

	// The old refresh token was rotated out.
	stale := testutil.DoJSON(t, http.MethodPost, ts.URL("/api/user/refresh"), "", map[string]string{
		"refreshToken": loginData.RefreshToken,
	})
	defer stale.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, stale.StatusCode)
}

func TestUserFollowFlow(t *testing.T) {
	ts := testutil.NewTestServer(t)

	for _, name := range []string{"dave", "erin"} {
		resp := testutil.RegisterForm(t, ts.Server.URL, name, name+"@example.com", "password123")
		resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}
	daveToken := testutil.Login(t, ts.Server.URL, "dave", "password123")
	erinToken := testutil.Login(t, ts.Server.URL, "erin", "password123")

	// Erin's id comes from her own details.
	detailsResp := testutil.DoJSON(t, http.MethodGet, ts.URL("/api/user/getUserDetails"), erinToken, nil)
	var erinDetails struct {
		User domain.User `json:"user"`
	}
	testutil.DecodeData(t, detailsResp, &erinDetails)

	resp := testutil.DoJSON(t, http.MethodPost, ts.URL("/api/user/followUser"), daveToken, map[string]string{
		"userId": erinDetails.User.ID.String(),
	})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Erin now has one follower.
	detailsResp = testutil.DoJSON(t, http.MethodGet, ts.URL("/api/user/getUserDetails")+"?id="+erinDetails.User.ID.String(), daveToken, nil)
	var details struct {
		User      domain.User `json:"user"`
		Followers []string    `json:"followers"`
		Following []string    `json:"following"`
	}
	testutil.DecodeData(t, detailsResp, &details)
	assert.Len(t, details.Followers, 1)
	assert.Empty(t, details.Following)

	t.Run("self follow rejected", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodPost, ts.URL("/api/user/followUser"), erinToken, map[string]string{
			"userId": erinDetails.User.ID.String(),
		})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unfollow", func(t *testing.T) {
		resp := testutil.DoJSON(t, http.MethodPost, ts.URL("/api/user/unfollowUser"), daveToken, map[string]string{
			"userId": erinDetails.User.ID.String(),
		})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestUserFeed(t *testing.T) {
	ts := testutil.NewTestServer(t)

	for _, name := range []string{"frank", "grace"} {
		resp := testutil.RegisterForm(t, ts.Server.URL, name, name+"@example.com", "password123")
		resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}
	frankToken := testutil.Login(t, ts.Server.URL, "frank", "password123")
	graceToken := testutil.Login(t, ts.Server.URL, "grace", "password123")

	detailsResp := testutil.DoJSON(t, http.MethodGet, ts.URL("/api/user/getUserDetails"), graceToken, nil)
	var graceDetails struct {
		User domain.User `json:"user"`
	}
	testutil.DecodeData(t, detailsResp, &graceDetails)

	resp := testutil.DoJSON(t, http.MethodPost, ts.URL("/api/user/followUser"), frankToken, map[string]string{
		"userId": graceDetails.User.ID.String(),
	})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	t.Run("empty when followed user has no posts", func(t *testing.T) {
		feedResp := testutil.DoJSON(t, http.MethodGet, ts.URL("/api/user/getUserFeed"), frankToken, nil)
		require.Equal(t, http.StatusOK, feedResp.StatusCode)
		var feed []domain.Blog
		testutil.DecodeData(t, feedResp, &feed)
		assert.Empty(t, feed)
	})

	t.Run("contains followed user's posts", func(t *testing.T) {
		createResp := testutil.CreateBlogForm(t, ts.Server.URL, graceToken, "Grace's Post", "Hello from grace.")
		createResp.Body.Close()
		require.Equal(t, http.StatusCreated, createResp.StatusCode)

		feedResp := testutil.DoJSON(t, http.MethodGet, ts.URL("/api/user/getUserFeed"), frankToken, nil)
		var feed []domain.Blog
		testutil.DecodeData(t, feedResp, &feed)
		require.Len(t, feed, 1)
		assert.Equal(t, "Grace's Post", feed[0].Title)
	})
}

func TestUsersList(t *testing.T) {
	ts := testutil.NewTestServer(t)

	resp := testutil.RegisterForm(t, ts.Server.URL, "heidi", "heidi@example.com", "password123")
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	token := testutil.Login(t, ts.Server.URL, "heidi", "password123")

	usersResp := testutil.DoJSON(t, http.MethodGet, ts.URL("/api/user/users"), token, nil)
	require.Equal(t, http.StatusOK, usersResp.StatusCode)
	var users []domain.User
	testutil.DecodeData(t, usersResp, &users)
	assert.Len(t, users, 1)
}

func TestUserLogout(t *testing.T) {
	ts := testutil.NewTestServer(t)

	resp := testutil.RegisterForm(t, ts.Server.URL, "ivan", "ivan@example.com", "password123")
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	token := testutil.Login(t, ts.Server.URL, "ivan", "password123")

	logoutResp := testutil.DoJSON(t, http.MethodPost, ts.URL("/api/user/logout"), token, nil)
	defer logoutResp.Body.Close()
	assert.Equal(t, http.StatusOK, logoutResp.StatusCode)
}
