package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/lwindle/MeetMoment/internal/domain"
	"github.com/lwindle/MeetMoment/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type fakeUserRepo struct {
	mu      sync.Mutex
	nextID  uint
	users   map[uint]*domain.User
	byPhone map[string]uint
	tags    map[uint][]string
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:   make(map[uint]*domain.User),
		byPhone: make(map[string]uint),
		tags:    make(map[uint][]string),
	}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	r.users[user.ID] = &clone
	r.byPhone[user.Phone] = user.ID
	return nil
}

func (r *fakeUserRepo) GetByPhone(_ context.Context, phone string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byPhone[phone]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *r.users[id]
	return &clone, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uint) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) UpdateOnlineStatus(_ context.Context, id uint, online bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	user.IsOnline = online
	return nil
}

func (r *fakeUserRepo) SaveInterests(_ context.Context, userID uint, tags []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tags[userID] = tags
	return nil
}

type recordingBound struct {
	mu        sync.Mutex
	ended     []uint
	refreshed []uint
}

func (b *recordingBound) EndSession(userID uint) {
	b.mu.Lock()
	b.ended = append(b.ended, userID)
	b.mu.Unlock()
}

func (b *recordingBound) CredentialRefreshed(userID uint) {
	b.mu.Lock()
	b.refreshed = append(b.refreshed, userID)
	b.mu.Unlock()
}

func registerRequest() *RegisterRequest {
	return &RegisterRequest{
		Phone:      "13800138000",
		Password:   "secret123",
		Nickname:   "小雨",
		Gender:     2,
		Age:        26,
		City:       "北京",
		Occupation: "设计师",
		Bio:        "喜欢摄影",
		Avatar:     "/avatar.jpg",
		Interests:  []string{"摄影", "旅行"},
	}
}

func TestRegisterAndVerifyToken(t *testing.T) {
	repo := newFakeUserRepo()
	uc := NewUseCase(repo, memory.NewSessionStore(), testSecret, time.Hour)
	ctx := context.Background()

	result, err := uc.Register(ctx, registerRequest(), "test-agent", "127.0.0.1")
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	assert.True(t, result.ExpiresAt.After(time.Now()))

	assert.Equal(t, 100, result.User.ProfileComplete)
	assert.Equal(t, 60, result.User.AIScore)
	assert.True(t, result.User.IsOnline)
	assert.Equal(t, []string{"摄影", "旅行"}, repo.tags[result.User.ID])

	userID, err := uc.VerifyToken(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, userID)
}

func TestRegisterComputesPartialCompleteness(t *testing.T) {
	repo := newFakeUserRepo()
	uc := NewUseCase(repo, memory.NewSessionStore(), testSecret, time.Hour)

	req := registerRequest()
	req.Bio = ""
	req.Avatar = ""

	result, err := uc.Register(context.Background(), req, "", "")
	require.NoError(t, err)
	assert.Equal(t, 75, result.User.ProfileComplete)
}

func TestRegisterDuplicatePhone(t *testing.T) {
	repo := newFakeUserRepo()
	uc := NewUseCase(repo, memory.NewSessionStore(), testSecret, time.Hour)
	ctx := context.Background()

	_, err := uc.Register(ctx, registerRequest(), "", "")
	require.NoError(t, err)

	_, err = uc.Register(ctx, registerRequest(), "", "")
	assert.ErrorIs(t, err, domain.ErrPhoneTaken)
}

func TestLoginSuccess(t *testing.T) {
	repo := newFakeUserRepo()
	uc := NewUseCase(repo, memory.NewSessionStore(), testSecret, time.Hour)
	ctx := context.Background()

	registered, err := uc.Register(ctx, registerRequest(), "", "")
	require.NoError(t, err)

	result, err := uc.Login(ctx, &LoginRequest{Phone: "13800138000", Password: "secret123"}, "", "")
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, result.User.ID)
	assert.True(t, result.User.IsOnline)

	userID, err := uc.VerifyToken(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, userID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	repo := newFakeUserRepo()
	uc := NewUseCase(repo, memory.NewSessionStore(), testSecret, time.Hour)
	ctx := context.Background()

	_, err := uc.Register(ctx, registerRequest(), "", "")
	require.NoError(t, err)

	_, err = uc.Login(ctx, &LoginRequest{Phone: "13800138000", Password: "wrong"}, "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = uc.Login(ctx, &LoginRequest{Phone: "13900000000", Password: "secret123"}, "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogoutRevokesSessionAndTearsDownState(t *testing.T) {
	repo := newFakeUserRepo()
	bound := &recordingBound{}
	uc := NewUseCase(repo, memory.NewSessionStore(), testSecret, time.Hour, bound)
	ctx := context.Background()

	result, err := uc.Register(ctx, registerRequest(), "", "")
	require.NoError(t, err)

	require.NoError(t, uc.Logout(ctx, result.Token))

	_, err = uc.VerifyToken(ctx, result.Token)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	assert.Equal(t, []uint{result.User.ID}, bound.ended)

	user, err := repo.GetByID(ctx, result.User.ID)
	require.NoError(t, err)
	assert.False(t, user.IsOnline)
}

func TestLoginNotifiesCredentialRefresh(t *testing.T) {
	repo := newFakeUserRepo()
	bound := &recordingBound{}
	uc := NewUseCase(repo, memory.NewSessionStore(), testSecret, time.Hour, bound)
	ctx := context.Background()

	registered, err := uc.Register(ctx, registerRequest(), "", "")
	require.NoError(t, err)

	_, err = uc.Login(ctx, &LoginRequest{Phone: "13800138000", Password: "secret123"}, "", "")
	require.NoError(t, err)

	// Register and login each issue a credential, so both notify.
	assert.Equal(t, []uint{registered.User.ID, registered.User.ID}, bound.refreshed)
	assert.Empty(t, bound.ended)
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	uc := NewUseCase(newFakeUserRepo(), memory.NewSessionStore(), testSecret, time.Hour)

	_, err := uc.VerifyToken(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerifyTokenRejectsForeignSignature(t *testing.T) {
	store := memory.NewSessionStore()
	issuer := NewUseCase(newFakeUserRepo(), store, "another-secret-another-secret-32", time.Hour)
	verifier := NewUseCase(newFakeUserRepo(), store, testSecret, time.Hour)
	ctx := context.Background()

	result, err := issuer.Register(ctx, registerRequest(), "", "")
	require.NoError(t, err)

	_, err = verifier.VerifyToken(ctx, result.Token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}
