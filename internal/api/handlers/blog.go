package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/nileshk07/bloghub/internal/api/middleware"
	"github.com/nileshk07/bloghub/internal/service"
)

type BlogHandler struct {
	blogService *service.BlogService
}

func NewBlogHandler(blogService *service.BlogService) *BlogHandler {
	return &BlogHandler{blogService: blogService}
}

func (h *BlogHandler) List(w http.ResponseWriter, r *http.Request) {
	blogs, err := h.blogService.ListAll(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "Blogs found", blogs)
}

// Create builds a blog from a multipart form: title, description and up
// to ten image files under "images".
func (h *BlogHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, errUnauthenticated)
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		badRequest(w, "invalid multipart form")
		return
	}

	var images []*service.FileUpload
	if r.MultipartForm != nil {
		files := r.MultipartForm.File["images"]
		if len(files) > 10 {
			badRequest(w, "at most 10 images are allowed")
			return
		}
		for _, header := range files {
			file, err := header.Open()
			if err != nil {
				badRequest(w, "unreadable image file")
				return
			}
			defer file.Close()
			images = append(images, &service.FileUpload{
				Filename:    header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Body:        file,
			})
		}
	}

	blog, err := h.blogService.Create(r.Context(), userID, r.FormValue("title"), r.FormValue("description"), images)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, "Blog created", blog)
}

func (h *BlogHandler) Like(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, errUnauthenticated)
		return
	}
	blogID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid blog id")
		return
	}

	blog, err := h.blogService.ToggleLike(r.Context(), userID, blogID)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "Blog like toggled", blog)
}

type commentRequest struct {
	BlogID string `json:"blogId"`
	Text   string `json:"text"`
}

func (h *BlogHandler) Comment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, errUnauthenticated)
		return
	}

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	blogID, err := uuid.Parse(req.BlogID)
	if err != nil {
		badRequest(w, "invalid blog id")
		return
	}

	blog, err := h.blogService.Comment(r.Context(), userID, blogID, req.Text)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "Blog commented", blog)
}

type updateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (h *BlogHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, errUnauthenticated)
		return
	}
	blogID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid blog id")
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	blog, err := h.blogService.Update(r.Context(), userID, blogID, req.Title, req.Description)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "Blog updated", blog)
}

func (h *BlogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, errUnauthenticated)
		return
	}
	blogID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid blog id")
		return
	}

	if err := h.blogService.Delete(r.Context(), userID, blogID); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "Blog deleted", nil)
}

func (h *BlogHandler) UserBlogs(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, errUnauthenticated)
		return
	}

	blogs, err := h.blogService.ListByOwner(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "Blogs found", blogs)
}

type askRequest struct {
	Question string `json:"question"`
}

// Ask answers a question grounded in the indexed blog corpus.
func (h *BlogHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	answer, err := h.blogService.Ask(r.Context(), req.Question)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "Answer generated", map[string]string{"answer": answer})
}
