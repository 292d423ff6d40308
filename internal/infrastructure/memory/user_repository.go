package memory

import (
	"context"
	"sync"
	"time"

	"github.com/userhub/user-service/internal/domain/entity"
	"github.com/userhub/user-service/internal/domain/repository"
)

// UserRepository is an in-memory repository.UserRepository used by tests and
// the seed tool. It mirrors the Postgres semantics: ids are assigned from a
// monotonically increasing counter and are never reused, created_at is set
// once on first save, and Save enforces the unique-email backstop.
type UserRepository struct {
	mu     sync.RWMutex
	users  map[int64]*entity.User
	nextID int64
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[int64]*entity.User), nextID: 1}
}

func (r *UserRepository) GetByID(_ context.Context, id int64) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyUser(u), nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) ExistsByID(_ context.Context, id int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.users[id]
	return ok, nil
}

func (r *UserRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *UserRepository) ExistsByEmailExcluding(_ context.Context, email string, id int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email && u.ID != id {
			return true, nil
		}
	}
	return false, nil
}

func (r *UserRepository) Save(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Unique-email backstop, same contract as the users_email_key constraint.
	for _, existing := range r.users {
		if existing.Email == u.Email && existing.ID != u.ID {
			return repository.ErrEmailTaken
		}
	}

	if u.ID == 0 {
		u.ID = r.nextID
		r.nextID++
		if u.CreatedAt == nil {
			now := time.Now().UTC()
			u.CreatedAt = &now
		}
		r.users[u.ID] = copyUser(u)
		return nil
	}

	existing, ok := r.users[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	updated := copyUser(u)
	updated.CreatedAt = existing.CreatedAt // updates never touch created_at
	r.users[u.ID] = updated
	u.CreatedAt = existing.CreatedAt
	return nil
}

func (r *UserRepository) DeleteByID(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

func (r *UserRepository) List(_ context.Context) ([]*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]*entity.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, copyUser(u))
	}
	return users, nil
}

// Len reports the number of stored users. Test helper.
func (r *UserRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}

func copyUser(u *entity.User) *entity.User {
	c := *u
	if u.Age != nil {
		age := *u.Age
		c.Age = &age
	}
	if u.CreatedAt != nil {
		ts := *u.CreatedAt
		c.CreatedAt = &ts
	}
	return &c
}

var _ repository.UserRepository = (*UserRepository)(nil)
