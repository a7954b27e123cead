package domain

import (
	"time"

	"github.com/google/uuid"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// ParseGender normalizes free-form input to a known gender value,
// defaulting to GenderOther.
func ParseGender(s string) Gender {
	switch Gender(s) {
	case GenderMale, GenderFemale:
		return Gender(s)
	default:
		return GenderOther
	}
}

type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	Username     string    `json:"username" gorm:"uniqueIndex;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	FullName     string    `json:"fullname" gorm:"not null"`
	Gender       Gender    `json:"gender,omitempty"`
	AvatarURL    string    `json:"avatar" gorm:"not null"`
	RefreshToken string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Follow is a directed edge: follower follows followee. The composite
// unique index makes the edge itself the single source of truth for
// both sides of the relation.
type Follow struct {
	ID         uuid.UUID `json:"-" gorm:"type:uuid;primary_key"`
	FollowerID uuid.UUID `json:"followerId" gorm:"type:uuid;not null;uniqueIndex:idx_follow_edge"`
	FolloweeID uuid.UUID `json:"followeeId" gorm:"type:uuid;not null;uniqueIndex:idx_follow_edge"`
	CreatedAt  time.Time `json:"createdAt"`
}
