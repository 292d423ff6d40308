package application

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/userhub/user-service/internal/domain/entity"
	repo "github.com/userhub/user-service/internal/domain/repository"
	"github.com/userhub/user-service/internal/events"
	"github.com/userhub/user-service/pkg/helpers"
)

const listCacheKey = "users:list"

// Service orchestrates the user CRUD rules: uniqueness and existence checks
// around the repository, persistence-then-notify ordering for the event side
// channel. It holds no per-call state and is safe to share across handlers.
type Service struct {
	Repo     repo.UserRepository
	Events   events.Publisher // nil disables notifications
	Redis    *redis.Client    // nil disables the list cache
	CacheTTL time.Duration
	Logger   *logrus.Logger
}

func NewService(r repo.UserRepository, ev events.Publisher, logger *logrus.Logger) *Service {
	return &Service{Repo: r, Events: ev, Logger: logger}
}

// WithListCache enables caching of List responses in Redis.
func (s *Service) WithListCache(rdb *redis.Client, ttl time.Duration) *Service {
	s.Redis = rdb
	s.CacheTTL = ttl
	return s
}

type CreateUserInput struct {
	Name  string
	Email string
	Age   int
}

// UserResponse is the read projection returned by every operation.
type UserResponse struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Age       *int       `json:"age"`
	CreatedAt *time.Time `json:"created_at"`
}

func toResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Age:       u.Age,
		CreatedAt: u.CreatedAt,
	}
}

// List returns all users. An empty store yields an empty slice, not an error.
// Results are cached briefly in Redis when a client is configured; cache
// failures fall through to the repository.
func (s *Service) List(ctx context.Context) ([]UserResponse, error) {
	if s.Redis != nil {
		var cached []UserResponse
		if ok, err := helpers.RedisGetJSON(ctx, s.Redis, listCacheKey, &cached); err == nil && ok {
			return cached, nil
		}
	}

	users, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toResponse(u))
	}

	if s.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, s.Redis, listCacheKey, out, s.CacheTTL); err != nil && s.Logger != nil {
			s.Logger.WithError(err).Warn("users list cache write failed")
		}
	}
	return out, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (UserResponse, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return UserResponse{}, &NotFoundError{ID: id}
		}
		return UserResponse{}, err
	}
	return toResponse(u), nil
}

// Create persists a new user after the uniqueness pre-check and emits a
// created event only once the save has committed. A concurrent create racing
// past the pre-check is caught by the store constraint and surfaces as the
// same conflict; no event is emitted for it.
func (s *Service) Create(ctx context.Context, in CreateUserInput) (UserResponse, error) {
	exists, err := s.Repo.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return UserResponse{}, err
	}
	if exists {
		return UserResponse{}, &ConflictError{Email: in.Email}
	}

	age := in.Age
	u := &entity.User{
		Name:  in.Name,
		Email: in.Email,
		Age:   &age,
	}
	if err := s.Repo.Save(ctx, u); err != nil {
		if errors.Is(err, repo.ErrEmailTaken) {
			return UserResponse{}, &ConflictError{Email: in.Email}
		}
		return UserResponse{}, err
	}

	s.invalidateListCache(ctx)
	if s.Events != nil {
		s.Events.PublishCreated(ctx, u.Email, u.Name)
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "email": u.Email}).Info("user created")
	}
	return toResponse(u), nil
}

// Update overwrites name, email and age on an existing user. CreatedAt is
// never touched and no event is emitted.
func (s *Service) Update(ctx context.Context, id int64, in CreateUserInput) (UserResponse, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return UserResponse{}, &NotFoundError{ID: id}
		}
		return UserResponse{}, err
	}

	taken, err := s.Repo.ExistsByEmailExcluding(ctx, in.Email, id)
	if err != nil {
		return UserResponse{}, err
	}
	if taken {
		return UserResponse{}, &ConflictError{Email: in.Email}
	}

	age := in.Age
	u.Name = in.Name
	u.Email = in.Email
	u.Age = &age
	if err := s.Repo.Save(ctx, u); err != nil {
		switch {
		case errors.Is(err, repo.ErrEmailTaken):
			return UserResponse{}, &ConflictError{Email: in.Email}
		case errors.Is(err, repo.ErrNotFound):
			return UserResponse{}, &NotFoundError{ID: id}
		}
		return UserResponse{}, err
	}

	s.invalidateListCache(ctx)
	return toResponse(u), nil
}

// Delete removes the user and emits a deleted event with the email and name
// captured before the delete; the record is gone afterwards.
func (s *Service) Delete(ctx context.Context, id int64) error {
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return &NotFoundError{ID: id}
		}
		return err
	}

	if err := s.Repo.DeleteByID(ctx, id); err != nil {
		return err
	}

	s.invalidateListCache(ctx)
	if s.Events != nil {
		s.Events.PublishDeleted(ctx, u.Email, u.Name)
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": id, "email": u.Email}).Info("user deleted")
	}
	return nil
}

func (s *Service) invalidateListCache(ctx context.Context) {
	if s.Redis == nil {
		return
	}
	if err := helpers.RedisDel(ctx, s.Redis, listCacheKey); err != nil && s.Logger != nil {
		s.Logger.WithError(err).Warn("users list cache invalidation failed")
	}
}
