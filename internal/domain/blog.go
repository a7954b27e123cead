package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Blog struct {
	ID          uuid.UUID                   `json:"id" gorm:"type:uuid;primary_key"`
	Title       string                      `json:"title" gorm:"not null"`
	Description string                      `json:"description" gorm:"not null"`
	Images      datatypes.JSONSlice[string] `json:"images" gorm:"type:jsonb"`
	OwnerID     uuid.UUID                   `json:"ownerId" gorm:"type:uuid;not null;index"`
	Owner       *User                       `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Likes       []BlogLike                  `json:"likes" gorm:"foreignKey:BlogID"`
	Comments    []Comment                   `json:"comments" gorm:"foreignKey:BlogID"`
	CreatedAt   time.Time                   `json:"createdAt"`
	UpdatedAt   time.Time                   `json:"updatedAt"`
}

// EmbeddingText is the passage indexed for retrieval.
func (b *Blog) EmbeddingText() string {
	return b.Title + ". " + b.Description
}

// BlogLike records one user's like of one blog. A user appears at most
// once per blog; toggling removes the row instead of duplicating it.
type BlogLike struct {
	ID        uuid.UUID `json:"-" gorm:"type:uuid;primary_key"`
	BlogID    uuid.UUID `json:"-" gorm:"type:uuid;not null;uniqueIndex:idx_blog_like"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_blog_like"`
	CreatedAt time.Time `json:"-"`
}

// Comment is append-only; no edit or delete.
type Comment struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	BlogID    uuid.UUID `json:"-" gorm:"type:uuid;not null;index"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;not null"`
	Text      string    `json:"text" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
}
