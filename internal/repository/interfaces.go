package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/nileshk07/bloghub/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	// UpdateRefreshToken writes only the refresh token column.
	UpdateRefreshToken(ctx context.Context, id uuid.UUID, token string) error
}

type FollowRepository interface {
	// Create is idempotent: following an already-followed user is a no-op.
	Create(ctx context.Context, followerID, followeeID uuid.UUID) error
	Delete(ctx context.Context, followerID, followeeID uuid.UUID) error
	Exists(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error)
	FolloweeIDs(ctx context.Context, followerID uuid.UUID) ([]uuid.UUID, error)
	FollowerIDs(ctx context.Context, followeeID uuid.UUID) ([]uuid.UUID, error)
}

type BlogRepository interface {
	Create(ctx context.Context, blog *domain.Blog) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Blog, error)
	Update(ctx context.Context, blog *domain.Blog) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*domain.Blog, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Blog, error)
	ListByOwners(ctx context.Context, ownerIDs []uuid.UUID) ([]*domain.Blog, error)
	// ToggleLike removes the like edge if present, inserts it otherwise.
	// Returns whether the blog ends up liked by the user.
	ToggleLike(ctx context.Context, blogID, userID uuid.UUID) (bool, error)
	AddComment(ctx context.Context, comment *domain.Comment) error
}

type Repositories struct {
	User   UserRepository
	Follow FollowRepository
	Blog   BlogRepository
}
