package services

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/wordflash/wordflash/internal/cache"
	"github.com/wordflash/wordflash/internal/errors"
	"github.com/wordflash/wordflash/internal/logger"
	"github.com/wordflash/wordflash/internal/models"
	"github.com/wordflash/wordflash/internal/repository"
)

const maxUsernameLength = 64

// UserService handles user-related business logic
type UserService interface {
	Register(ctx context.Context, username string) (*models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	LinkTelegram(ctx context.Context, id string, chatID *int64, enabled bool) (*models.User, error)
	Delete(ctx context.Context, id string) error
}

type userService struct {
	userRepo repository.UserRepository
	cache    cache.Cache
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository, c cache.Cache) UserService {
	if c == nil {
		c = cache.NewNoop()
	}
	return &userService{userRepo: userRepo, cache: c}
}

func (s *userService) Register(ctx context.Context, username string) (*models.User, error) {
	log := logger.FromContext(ctx)
	username = strings.TrimSpace(username)
	log.Debug("registering user: username=%s", username)

	if username == "" {
		return nil, errors.NewValidationError("username", "cannot be empty")
	}
	if len(username) > maxUsernameLength {
		return nil, errors.NewValidationError("username", "must be at most 64 characters")
	}

	user, err := s.userRepo.Upsert(ctx, username)
	if err != nil {
		log.Error("failed to register user: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return user, nil
}

func (s *userService) Get(ctx context.Context, id string) (*models.User, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting user: id=%s", id)

	user, err := s.userRepo.Get(ctx, id)
	if err != nil {
		log.Error("failed to get user: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if user == nil {
		return nil, errors.NewNotFoundError("user", id)
	}
	return user, nil
}

func (s *userService) List(ctx context.Context) ([]models.User, error) {
	log := logger.FromContext(ctx)

	users, err := s.userRepo.List(ctx)
	if err != nil {
		log.Error("failed to list users: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return users, nil
}

func (s *userService) LinkTelegram(ctx context.Context, id string, chatID *int64, enabled bool) (*models.User, error) {
	log := logger.FromContext(ctx)
	log.Debug("linking telegram: user_id=%s, enabled=%t", id, enabled)

	if enabled && chatID == nil {
		return nil, errors.NewValidationError("chat_id", "required when reminders are enabled")
	}

	if err := s.userRepo.SetTelegramChat(ctx, id, chatID, enabled); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NewNotFoundError("user", id)
		}
		log.Error("failed to link telegram: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return s.Get(ctx, id)
}

func (s *userService) Delete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)
	log.Info("deleting user: id=%s", id)

	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		log.Error("failed to delete user: %v", err)
		return errors.NewInternalError(err)
	}
	if err := s.cache.Delete(ctx, cache.StatsKey(id)); err != nil {
		log.Warn("failed to drop cached stats: %v", err)
	}
	return nil
}
