package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/nileshk07/bloghub/internal/api/middleware"
	"github.com/nileshk07/bloghub/internal/service"
)

// Uploaded files at or below this size stay in memory during parsing.
const maxMultipartMemory = 16 << 20

type UserHandler struct {
	userService   *service.UserService
	blogService   *service.BlogService
	authService   *service.AuthService
	secureCookies bool
}

func NewUserHandler(userService *service.UserService, blogService *service.BlogService, authService *service.AuthService, secureCookies bool) *UserHandler {
	return &UserHandler{
		userService:   userService,
		blogService:   blogService,
		authService:   authService,
		secureCookies: secureCookies,
	}
}

// Register creates a user from a multipart form: username, email,
// password, fullname, optional gender, and a required avatar file.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		badRequest(w, "invalid multipart form")
		return
	}

	input := service.RegisterInput{
		Username: r.FormValue("username"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
		FullName: r.FormValue("fullname"),
		Gender:   r.FormValue("gender"),
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		badRequest(w, "avatar file is required")
		return
	}
	defer file.Close()

	avatar := &service.FileUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
	}

	user, err := h.userService.Register(r.Context(), input, avatar)
	if err != nil {
		respondError(w, err)
		return
	}

	respond(w, http.StatusCreated, "User created successfully", user)
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	ident := req.Username
	if ident == "" {
		ident = req.Email
	}

	result, err := h.userService.Login(r.Context(), ident, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	h.setTokenCookies(w, result.Tokens.AccessToken, result.Tokens.RefreshToken)
	respond(w, http.StatusOK, "User logged in successfully", map[string]any{
		"user":         result.User,
		"accessToken":  result.Tokens.AccessToken,
		"refreshToken": result.Tokens.RefreshToken,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Refresh exchanges a valid refresh token for a rotated pair. The token
// comes from the body or the refreshToken cookie.
func (h *UserHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.RefreshToken == "" {
		if cookie, err := r.Cookie("refreshToken"); err == nil {
			req.RefreshToken = cookie.Value
		}
	}

	tokens, err := h.authService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		respondError(w, err)
		return
	}

	h.setTokenCookies(w, tokens.AccessToken, tokens.RefreshToken)
	respond(w, http.StatusOK, "Tokens refreshed", map[string]any{
		"accessToken":  tokens.AccessToken,
		"refreshToken": tokens.RefreshToken,
	})
}

func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, errUnauthenticated)
		return
	}

	if err := h.userService.Logout(r.Context(), userID); err != nil {
		respondError(w, err)
		return
	}

	h.clearTokenCookies(w)
	respond(w, http.StatusOK, "User logged out successfully", nil)
}

func (h *UserHandler) IsAuthenticated(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUser(r.Context()); !ok {
		respondError(w, errUnauthenticated)
		return
	}
	respond(w, http.StatusOK, "User is authenticated", nil)
}

// GetUserDetails returns the user for ?id=..., defaulting to the caller.
func (h *UserHandler) GetUserDetails(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetUser(r.Context())
	if !ok {
		respondError(w, errUnauthenticated)
		return
	}

	id := caller.ID
	if raw := r.URL.Query().Get("id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			badRequest(w, "invalid user id")
			return
		}
		id = parsed
	}

	user, err := h.userService.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	followers, err := h.userService.Followers(r.Context(), user.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	following, err := h.userService.Following(r.Context(), user.ID)
	if err != nil {
		respondError(w, err)
		return
	}

	respond(w, http.StatusOK, "User found", map[string]any{
		"user":      user,
		"followers": followers,
		"following": following,
	})
}

func (h *UserHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "Users found", users)
}

type followRequest struct {
	UserID string `json:"userId"`
}

func (h *UserHandler) FollowUser(w http.ResponseWriter, r *http.Request) {
	h.changeFollow(w, r, h.userService.Follow, "User followed")
}

func (h *UserHandler) UnfollowUser(w http.ResponseWriter, r *http.Request) {
	h.changeFollow(w, r, h.userService.Unfollow, "User unfollowed")
}

func (h *UserHandler) changeFollow(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, followerID, followeeID uuid.UUID) error, message string) {
	caller, ok := middleware.GetUser(r.Context())
	if !ok {
		respondError(w, errUnauthenticated)
		return
	}

	var req followRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	followeeID, err := uuid.Parse(req.UserID)
	if err != nil {
		badRequest(w, "invalid user id")
		return
	}

	if err := op(r.Context(), caller.ID, followeeID); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, message, nil)
}

func (h *UserHandler) GetUserFeed(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, errUnauthenticated)
		return
	}

	blogs, err := h.blogService.Feed(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "Feed found", blogs)
}

func (h *UserHandler) setTokenCookies(w http.ResponseWriter, accessToken, refreshToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "accessToken",
		Value:    accessToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteNoneMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     "refreshToken",
		Value:    refreshToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteNoneMode,
	})
}

func (h *UserHandler) clearTokenCookies(w http.ResponseWriter) {
	for _, name := range []string{"accessToken", "refreshToken"} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   h.secureCookies,
			SameSite: http.SameSiteNoneMode,
		})
	}
}
