package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/nileshk07/bloghub/internal/domain"
	"github.com/nileshk07/bloghub/internal/media"
	"github.com/nileshk07/bloghub/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
	auth       *AuthService
	media      media.Store
	log        *zap.SugaredLogger
}

func NewUserService(userRepo repository.UserRepository, followRepo repository.FollowRepository, auth *AuthService, mediaStore media.Store, log *zap.SugaredLogger) *UserService {
	return &UserService{
		userRepo:   userRepo,
		followRepo: followRepo,
		auth:       auth,
		media:      mediaStore,
		log:        log,
	}
}

// FileUpload is an inbound multipart file handed down from the handler.
type FileUpload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
	Gender   string
}

type AuthResult struct {
	User   *domain.User
	Tokens *TokenPair
}

// Register creates a user. The avatar upload must succeed before anything
// is persisted, so a storage failure never leaves a user row behind.
func (s *UserService) Register(ctx context.Context, input RegisterInput, avatar *FileUpload) (*domain.User, error) {
	username := strings.ToLower(strings.TrimSpace(input.Username))
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if username == "" || email == "" || input.Password == "" || strings.TrimSpace(input.FullName) == "" {
		return nil, fmt.Errorf("%w: username, email, password and fullname are required", domain.ErrInvalidArgument)
	}
	if avatar == nil {
		return nil, fmt.Errorf("%w: avatar is required", domain.ErrInvalidArgument)
	}

	if _, err := s.userRepo.GetByUsername(ctx, username); err == nil {
		return nil, domain.ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %v", domain.ErrInternal, err)
	}
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %v", domain.ErrInternal, err)
	}

	avatarURL, err := s.media.Upload(ctx, media.ObjectKey("avatars", avatar.Filename), avatar.ContentType, avatar.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: avatar upload failed: %v", domain.ErrInternal, err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInternal, err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hashed),
		FullName:     strings.TrimSpace(input.FullName),
		Gender:       domain.ParseGender(strings.ToLower(input.Gender)),
		AvatarURL:    avatarURL,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInternal, err)
	}

	s.log.Infow("user registered", "id", user.ID, "username", user.Username)
	return user, nil
}

// Login accepts either a username or an email and rotates the token pair
// on success.
func (s *UserService) Login(ctx context.Context, usernameOrEmail, password string) (*AuthResult, error) {
	if usernameOrEmail == "" {
		return nil, fmt.Errorf("%w: username or email is required", domain.ErrInvalidArgument)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", domain.ErrInvalidArgument)
	}

	ident := strings.ToLower(strings.TrimSpace(usernameOrEmail))
	user, err := s.userRepo.GetByUsername(ctx, ident)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user, err = s.userRepo.GetByEmail(ctx, ident)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrInternal, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	tokens, err := s.auth.RotateTokens(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.RefreshToken = tokens.RefreshToken

	return &AuthResult{User: user, Tokens: tokens}, nil
}

func (s *UserService) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.userRepo.UpdateRefreshToken(ctx, userID, ""); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInternal, err)
	}
	return nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrInternal, err)
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInternal, err)
	}
	return users, nil
}

// Follow is idempotent; following an already-followed user succeeds.
func (s *UserService) Follow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	if followerID == followeeID {
		return domain.ErrSelfFollow
	}
	if _, err := s.userRepo.GetByID(ctx, followeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("%w: %v", domain.ErrInternal, err)
	}
	if err := s.followRepo.Create(ctx, followerID, followeeID); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInternal, err)
	}
	return nil
}

func (s *UserService) Unfollow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	if err := s.followRepo.Delete(ctx, followerID, followeeID); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInternal, err)
	}
	return nil
}

func (s *UserService) Following(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	ids, err := s.followRepo.FolloweeIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInternal, err)
	}
	return ids, nil
}

func (s *UserService) Followers(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	ids, err := s.followRepo.FollowerIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInternal, err)
	}
	return ids, nil
}
