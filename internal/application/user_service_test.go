package application_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/userhub/user-service/internal/application"
	"github.com/userhub/user-service/internal/infrastructure/memory"
)

type publishedEvent struct {
	Kind  string
	Email string
	Name  string
}

// recordingPublisher records every publish call instead of talking to a broker.
type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) PublishCreated(_ context.Context, email, name string) {
	p.record("created", email, name)
}

func (p *recordingPublisher) PublishDeleted(_ context.Context, email, name string) {
	p.record("deleted", email, name)
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) record(kind, email, name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Kind: kind, Email: email, Name: name})
}

func (p *recordingPublisher) all() []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]publishedEvent(nil), p.events...)
}

func newTestService() (*application.Service, *memory.UserRepository, *recordingPublisher) {
	repo := memory.NewUserRepository()
	pub := &recordingPublisher{}
	return application.NewService(repo, pub, nil), repo, pub
}

func input(name, email string, age int) application.CreateUserInput {
	return application.CreateUserInput{Name: name, Email: email, Age: age}
}

func TestCreateFreshEmail(t *testing.T) {
	svc, _, pub := newTestService()
	ctx := context.Background()

	before := time.Now()
	res, err := svc.Create(ctx, input("John Doe", "john@example.com", 30))
	require.NoError(t, err)

	assert.NotZero(t, res.ID)
	assert.Equal(t, "John Doe", res.Name)
	assert.Equal(t, "john@example.com", res.Email)
	require.NotNil(t, res.Age)
	assert.Equal(t, 30, *res.Age)
	require.NotNil(t, res.CreatedAt)
	assert.False(t, res.CreatedAt.After(time.Now()))
	assert.False(t, res.CreatedAt.Before(before.Add(-time.Second)))

	got, err := svc.GetByID(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, res, got)

	require.Len(t, pub.all(), 1)
	assert.Equal(t, publishedEvent{Kind: "created", Email: "john@example.com", Name: "John Doe"}, pub.all()[0])
}

func TestCreateDuplicateEmail(t *testing.T) {
	svc, repo, pub := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, input("John Doe", "john@example.com", 30))
	require.NoError(t, err)

	_, err = svc.Create(ctx, input("Someone Else", "john@example.com", 25))
	var conflict *application.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "User with email john@example.com already exists", err.Error())

	// no new record, no second event
	assert.Equal(t, 1, repo.Len())
	assert.Len(t, pub.all(), 1)
}

func TestMissingIDOperations(t *testing.T) {
	svc, repo, pub := newTestService()
	ctx := context.Background()

	var nf *application.NotFoundError

	_, err := svc.GetByID(ctx, 99)
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "User not found with id: 99", err.Error())

	_, err = svc.Update(ctx, 99, input("X", "x@example.com", 1))
	require.ErrorAs(t, err, &nf)

	err = svc.Delete(ctx, 99)
	require.ErrorAs(t, err, &nf)

	assert.Equal(t, 0, repo.Len())
	assert.Empty(t, pub.all())
}

func TestUpdatePreservesCreatedAt(t *testing.T) {
	svc, _, pub := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, input("John Doe", "john@example.com", 30))
	require.NoError(t, err)
	require.NotNil(t, created.CreatedAt)

	updated, err := svc.Update(ctx, created.ID, input("Johnny", "johnny@example.com", 31))
	require.NoError(t, err)
	assert.Equal(t, "Johnny", updated.Name)
	assert.Equal(t, "johnny@example.com", updated.Email)
	require.NotNil(t, updated.CreatedAt)
	assert.True(t, created.CreatedAt.Equal(*updated.CreatedAt))

	// update emits no event
	assert.Len(t, pub.all(), 1)
}

func TestUpdateToOwnEmail(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, input("John Doe", "john@example.com", 30))
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, input("John Doe Jr", "john@example.com", 31))
	require.NoError(t, err)
	assert.Equal(t, "John Doe Jr", updated.Name)
}

func TestUpdateToTakenEmail(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, input("John Doe", "john@example.com", 30))
	require.NoError(t, err)
	other, err := svc.Create(ctx, input("Jane Roe", "jane@example.com", 27))
	require.NoError(t, err)

	_, err = svc.Update(ctx, other.ID, input("Jane Roe", "john@example.com", 27))
	var conflict *application.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "User with email john@example.com already exists", err.Error())
}

func TestDelete(t *testing.T) {
	svc, repo, pub := newTestService()
	ctx := context.Background()

	john, err := svc.Create(ctx, input("John Doe", "john@example.com", 30))
	require.NoError(t, err)
	jane, err := svc.Create(ctx, input("Jane Roe", "jane@example.com", 27))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, john.ID))

	// exactly that record removed
	assert.Equal(t, 1, repo.Len())
	_, err = svc.GetByID(ctx, jane.ID)
	assert.NoError(t, err)

	evs := pub.all()
	require.Len(t, evs, 3) // two created, one deleted
	assert.Equal(t, publishedEvent{Kind: "deleted", Email: "john@example.com", Name: "John Doe"}, evs[2])
}

func TestDeleteTwice(t *testing.T) {
	svc, _, pub := newTestService()
	ctx := context.Background()

	john, err := svc.Create(ctx, input("John Doe", "john@example.com", 30))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, john.ID))

	err = svc.Delete(ctx, john.ID)
	var nf *application.NotFoundError
	require.ErrorAs(t, err, &nf)

	// one created, one deleted, nothing more
	assert.Len(t, pub.all(), 2)
}

func TestList(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	empty, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	ids := make([]int64, 0, 3)
	for _, in := range []application.CreateUserInput{
		input("A", "a@example.com", 1),
		input("B", "b@example.com", 2),
		input("C", "c@example.com", 3),
	} {
		res, err := svc.Create(ctx, in)
		require.NoError(t, err)
		ids = append(ids, res.ID)
	}

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, len(ids))

	byID := make(map[int64]application.UserResponse, len(all))
	for _, u := range all {
		byID[u.ID] = u
	}
	for _, id := range ids {
		listed, ok := byID[id]
		require.True(t, ok)
		got, err := svc.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, got, listed)
	}
}

func TestNilPublisher(t *testing.T) {
	repo := memory.NewUserRepository()
	svc := application.NewService(repo, nil, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, input("John Doe", "john@example.com", 30))
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, created.ID))
}
