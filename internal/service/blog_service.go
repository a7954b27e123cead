package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nileshk07/bloghub/internal/domain"
	"github.com/nileshk07/bloghub/internal/media"
	"github.com/nileshk07/bloghub/internal/repository"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// indexTimeout bounds the detached embedding upserts that run off the
// request path.
const indexTimeout = 30 * time.Second

type BlogService struct {
	blogRepo   repository.BlogRepository
	followRepo repository.FollowRepository
	media      media.Store
	rag        *RAGService
	log        *zap.SugaredLogger
}

func NewBlogService(blogRepo repository.BlogRepository, followRepo repository.FollowRepository, mediaStore media.Store, rag *RAGService, log *zap.SugaredLogger) *BlogService {
	return &BlogService{
		blogRepo:   blogRepo,
		followRepo: followRepo,
		media:      mediaStore,
		rag:        rag,
		log:        log,
	}
}

func (s *BlogService) ListAll(ctx context.Context) ([]*domain.Blog, error) {
	blogs, err := s.blogRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInternal, err)
	}
	return blogs, nil
}

func (s *BlogService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Blog, error) {
	blog, err := s.blogRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBlogNotFound
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrInternal, err)
	}
	return blog, nil
}

// Create uploads every image before persisting, so a storage failure
// leaves no blog row behind. Embedding runs detached: a provider outage
// must not decide whether the blog exists.
func (s *BlogService) Create(ctx context.Context, ownerID uuid.UUID, title, description string, images []*FileUpload) (*domain.Blog, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" || description == "" {
		return nil, fmt.Errorf("%w: title and description are required", domain.ErrInvalidArgument)
	}

	imageURLs := make([]string, 0, len(images))
	for _, img := range images {
		url, err := s.media.Upload(ctx, media.ObjectKey("blogs", img.Filename), img.ContentType, img.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: image upload failed: %v", domain.ErrInternal, err)
		}
		imageURLs = append(imageURLs, url)
	}

	blog := &domain.Blog{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		Images:      datatypes.NewJSONSlice(imageURLs),
		OwnerID:     ownerID,
	}
	if err := s.blogRepo.Create(ctx, blog); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInternal, err)
	}

	s.indexAsync(blog)

	return s.GetByID(ctx, blog.ID)
}

// ToggleLike likes the blog, or removes the like when it already exists.
func (s *BlogService) ToggleLike(ctx context.Context, userID, blogID uuid.UUID) (*domain.Blog, error) {
	if _, err := s.GetByID(ctx, blogID); err != nil {
		return nil, err
	}
	if _, err := s.blogRepo.ToggleLike(ctx, blogID, userID); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInternal, err)
	}
	return s.GetByID(ctx, blogID)
}

func (s *BlogService) Comment(ctx context.Context, userID, blogID uuid.UUID, text string) (*domain.Blog, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: comment text is required", domain.ErrInvalidArgument)
	}
	if _, err := s.GetByID(ctx, blogID); err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		ID:        uuid.New(),
		BlogID:    blogID,
		UserID:    userID,
		Text:      text,
		CreatedAt: time.Now(),
	}
	if err := s.blogRepo.AddComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInternal, err)
	}
	return s.GetByID(ctx, blogID)
}

// Update edits only the provided fields. A text change makes the stored
// embedding stale, so it is recomputed.
func (s *BlogService) Update(ctx context.Context, callerID, blogID uuid.UUID, title, description string) (*domain.Blog, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" && description == "" {
		return nil, fmt.Errorf("%w: nothing to update", domain.ErrInvalidArgument)
	}

	blog, err := s.GetByID(ctx, blogID)
	if err != nil {
		return nil, err
	}
	if blog.OwnerID != callerID {
		return nil, domain.ErrNotBlogOwner
	}

	if title != "" {
		blog.Title = title
	}
	if description != "" {
		blog.Description = description
	}
	if err := s.blogRepo.Update(ctx, blog); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInternal, err)
	}

	s.indexAsync(blog)

	return s.GetByID(ctx, blogID)
}

// Delete removes the vector record before the row: a vector that outlives
// its blog would keep feeding deleted content to retrieval.
func (s *BlogService) Delete(ctx context.Context, callerID, blogID uuid.UUID) error {
	blog, err := s.GetByID(ctx, blogID)
	if err != nil {
		return err
	}
	if blog.OwnerID != callerID {
		return domain.ErrNotBlogOwner
	}

	if err := s.rag.RemoveBlog(ctx, blogID); err != nil {
		return err
	}
	if err := s.blogRepo.Delete(ctx, blogID); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInternal, err)
	}
	return nil
}

func (s *BlogService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Blog, error) {
	blogs, err := s.blogRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInternal, err)
	}
	return blogs, nil
}

// Feed returns posts from followed users, newest first. Following nobody
// yields an empty feed, not an error.
func (s *BlogService) Feed(ctx context.Context, userID uuid.UUID) ([]*domain.Blog, error) {
	followees, err := s.followRepo.FolloweeIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInternal, err)
	}
	if len(followees) == 0 {
		return []*domain.Blog{}, nil
	}
	blogs, err := s.blogRepo.ListByOwners(ctx, followees)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInternal, err)
	}
	return blogs, nil
}

// Ask answers a question grounded in the indexed blog corpus.
func (s *BlogService) Ask(ctx context.Context, question string) (string, error) {
	return s.rag.Answer(ctx, question)
}

func (s *BlogService) indexAsync(blog *domain.Blog) {
	copied := *blog
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), indexTimeout)
		defer cancel()
		if err := s.rag.IndexBlog(ctx, &copied); err != nil {
			s.log.Warnw("blog indexing failed", "blogId", copied.ID, "error", err)
		}
	}()
}
