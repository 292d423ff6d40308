package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/userhub/user-service/internal/domain/entity"
	"github.com/userhub/user-service/internal/domain/repository"
)

func TestSaveAssignsIDAndCreatedAt(t *testing.T) {
	r := NewUserRepository()
	ctx := context.Background()

	u := &entity.User{Name: "John", Email: "john@example.com"}
	if err := r.Save(ctx, u); err != nil {
		t.Fatalf("save: %v", err)
	}
	if u.ID == 0 {
		t.Fatal("expected id to be assigned")
	}
	if u.CreatedAt == nil {
		t.Fatal("expected created_at to be set")
	}
}

func TestSaveNeverOverwritesCreatedAt(t *testing.T) {
	r := NewUserRepository()
	ctx := context.Background()

	u := &entity.User{Name: "John", Email: "john@example.com"}
	if err := r.Save(ctx, u); err != nil {
		t.Fatalf("save: %v", err)
	}
	first := *u.CreatedAt

	// attempt to smuggle in a different timestamp on update
	bogus := first.Add(time.Hour)
	u.CreatedAt = &bogus
	u.Name = "Johnny"
	if err := r.Save(ctx, u); err != nil {
		t.Fatalf("update: %v", err)
	}
	if !u.CreatedAt.Equal(first) {
		t.Fatalf("created_at changed: %v -> %v", first, u.CreatedAt)
	}

	got, err := r.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.CreatedAt.Equal(first) {
		t.Fatalf("stored created_at changed: %v", got.CreatedAt)
	}
}

func TestSaveUniqueEmailBackstop(t *testing.T) {
	r := NewUserRepository()
	ctx := context.Background()

	if err := r.Save(ctx, &entity.User{Name: "A", Email: "a@example.com"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	err := r.Save(ctx, &entity.User{Name: "B", Email: "a@example.com"})
	if !errors.Is(err, repository.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestIDsAreNotReused(t *testing.T) {
	r := NewUserRepository()
	ctx := context.Background()

	u1 := &entity.User{Name: "A", Email: "a@example.com"}
	if err := r.Save(ctx, u1); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := r.DeleteByID(ctx, u1.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	u2 := &entity.User{Name: "B", Email: "b@example.com"}
	if err := r.Save(ctx, u2); err != nil {
		t.Fatalf("save: %v", err)
	}
	if u2.ID == u1.ID {
		t.Fatalf("id %d was reused", u1.ID)
	}
}

func TestDeleteIsIdempotentAtStorageLayer(t *testing.T) {
	r := NewUserRepository()
	ctx := context.Background()

	if err := r.DeleteByID(ctx, 12345); err != nil {
		t.Fatalf("delete of missing id should not error, got %v", err)
	}
}

func TestExistsByEmailExcluding(t *testing.T) {
	r := NewUserRepository()
	ctx := context.Background()

	u := &entity.User{Name: "A", Email: "a@example.com"}
	if err := r.Save(ctx, u); err != nil {
		t.Fatalf("save: %v", err)
	}

	// own id excluded
	taken, err := r.ExistsByEmailExcluding(ctx, "a@example.com", u.ID)
	if err != nil || taken {
		t.Fatalf("expected not taken for own id, got taken=%v err=%v", taken, err)
	}
	// other id sees it
	taken, err = r.ExistsByEmailExcluding(ctx, "a@example.com", u.ID+1)
	if err != nil || !taken {
		t.Fatalf("expected taken for other id, got taken=%v err=%v", taken, err)
	}
}
