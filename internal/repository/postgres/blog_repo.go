package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/nileshk07/bloghub/internal/domain"
	"gorm.io/gorm"
)

type blogRepository struct {
	db *gorm.DB
}

func NewBlogRepository(db *gorm.DB) *blogRepository {
	return &blogRepository{db: db}
}

func (r *blogRepository) Create(ctx context.Context, blog *domain.Blog) error {
	return r.db.WithContext(ctx).Create(blog).Error
}

func (r *blogRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Blog, error) {
	var blog domain.Blog
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Likes").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at ASC")
		}).
		First(&blog, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &blog, nil
}

func (r *blogRepository) Update(ctx context.Context, blog *domain.Blog) error {
	return r.db.WithContext(ctx).
		Model(blog).
		Updates(map[string]any{
			"title":       blog.Title,
			"description": blog.Description,
		}).Error
}

func (r *blogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	// Likes and comments are owned rows; remove them with the blog.
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("blog_id = ?", id).Delete(&domain.BlogLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("blog_id = ?", id).Delete(&domain.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Blog{}, "id = ?", id).Error
	})
}

func (r *blogRepository) List(ctx context.Context) ([]*domain.Blog, error) {
	var blogs []*domain.Blog
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Likes").
		Preload("Comments").
		Order("created_at DESC").
		Find(&blogs).Error
	if err != nil {
		return nil, err
	}
	return blogs, nil
}

func (r *blogRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Blog, error) {
	return r.ListByOwners(ctx, []uuid.UUID{ownerID})
}

func (r *blogRepository) ListByOwners(ctx context.Context, ownerIDs []uuid.UUID) ([]*domain.Blog, error) {
	if len(ownerIDs) == 0 {
		return []*domain.Blog{}, nil
	}
	var blogs []*domain.Blog
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Likes").
		Preload("Comments").
		Where("owner_id IN ?", ownerIDs).
		Order("created_at DESC").
		Find(&blogs).Error
	if err != nil {
		return nil, err
	}
	return blogs, nil
}

func (r *blogRepository) ToggleLike(ctx context.Context, blogID, userID uuid.UUID) (bool, error) {
	// Remove-if-present, add-if-absent: the delete doubles as the
	// presence check, so there is no read-modify-write window.
	res := r.db.WithContext(ctx).
		Where("blog_id = ? AND user_id = ?", blogID, userID).
		Delete(&domain.BlogLike{})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return false, nil
	}

	like := &domain.BlogLike{ID: uuid.New(), BlogID: blogID, UserID: userID}
	if err := r.db.WithContext(ctx).Create(like).Error; err != nil {
		// A concurrent toggle already inserted the edge; the blog is liked.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return true, nil
		}
		return false, err
	}
	return true, nil
}

func (r *blogRepository) AddComment(ctx context.Context, comment *domain.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}
