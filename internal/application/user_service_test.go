package application

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tikkit/tikkit-api/internal/domain/entity"
	"github.com/tikkit/tikkit-api/internal/domain/errcode"
	repo "github.com/tikkit/tikkit-api/internal/domain/repository"
)

type memUserRepo struct {
	mu      sync.Mutex
	byEmail map[string]*entity.User
	nextID  int64

	existsCalls int
	createCalls int
	existsErr   error
	createErr   error
	// hideExisting makes ExistsByEmail miss, simulating a concurrent insert between check and write
	hideExisting bool
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byEmail: map[string]*entity.User{}}
}

func (r *memUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.existsCalls++
	if r.existsErr != nil {
		return false, r.existsErr
	}
	if r.hideExisting {
		return false, nil
	}
	_, ok := r.byEmail[email]
	return ok, nil
}

func (r *memUserRepo) Create(ctx context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createCalls++
	if r.createErr != nil {
		return r.createErr
	}
	if _, ok := r.byEmail[u.Email]; ok {
		return repo.ErrDuplicateEmail
	}
	r.nextID++
	u.ID = r.nextID
	cp := *u
	r.byEmail[u.Email] = &cp
	return nil
}

type fakeHasher struct {
	calls []string
	err   error
}

func (h *fakeHasher) Hash(raw string) (string, error) {
	h.calls = append(h.calls, raw)
	if h.err != nil {
		return "", h.err
	}
	return "hashed:" + raw, nil
}

type recordingListener struct {
	users []*entity.User
	err   error
}

func (l *recordingListener) UserRegistered(ctx context.Context, u *entity.User) error {
	l.users = append(l.users, u)
	return l.err
}

var fixedNow = time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestService(r *memUserRepo, h *fakeHasher, listeners ...RegistrationListener) *Service {
	s := NewService(r, h, quietLogger(), listeners...)
	s.now = func() time.Time { return fixedNow }
	return s
}

func TestRegister_Success(t *testing.T) {
	r := newMemUserRepo()
	h := &fakeHasher{}
	s := newTestService(r, h)

	u, err := s.Register(context.Background(), RegisterInput{
		Email: "a@b.com", Password: "validpass123", Name: "Tester", Phone: "01012345678",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, "a@b.com", u.Email)
	assert.Equal(t, "Tester", u.Name)
	assert.Equal(t, "01012345678", u.Phone)
	assert.Equal(t, "hashed:validpass123", u.Password)
	assert.NotEqual(t, "validpass123", u.Password)
	assert.Equal(t, entity.RoleUser, u.Role)
	assert.Equal(t, entity.StatusActive, u.Status)
	assert.Equal(t, fixedNow, u.CreatedAt)
	assert.Equal(t, fixedNow, u.UpdatedAt)
	assert.Nil(t, u.DeletedAt)

	assert.Equal(t, []string{"validpass123"}, h.calls)
	assert.Equal(t, 1, r.existsCalls)
	assert.Equal(t, 1, r.createCalls)
	assert.Equal(t, "hashed:validpass123", r.byEmail["a@b.com"].Password)
}

func TestRegister_PaddedNameKeptVerbatim(t *testing.T) {
	r := newMemUserRepo()
	s := newTestService(r, &fakeHasher{})
	name := "  " + strings.Repeat("n", NameMaxLength) + "  "

	u, err := s.Register(context.Background(), RegisterInput{
		Email: "a@b.com", Password: "validpass123", Name: name, Phone: "01012345678",
	})
	require.NoError(t, err)
	assert.Equal(t, name, u.Name)
	assert.Equal(t, name, r.byEmail["a@b.com"].Name)
	assert.Equal(t, 1, r.createCalls)
}

func TestRegister_ValidationFailureSkipsStore(t *testing.T) {
	tests := []struct {
		name string
		in   RegisterInput
		want *errcode.Error
	}{
		{"empty email", RegisterInput{Email: "", Password: "validpass123", Name: "Tester", Phone: "01012345678"}, errcode.ErrEmailRequired},
		{"short password", RegisterInput{Email: "a@b.com", Password: "short", Name: "Tester", Phone: "01012345678"}, errcode.ErrPasswordLengthInvalid},
		{"bad phone", RegisterInput{Email: "a@b.com", Password: "validpass123", Name: "Tester", Phone: "123"}, errcode.ErrInvalidPhoneFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newMemUserRepo()
			h := &fakeHasher{}
			s := newTestService(r, h)

			u, err := s.Register(context.Background(), tt.in)
			assert.Nil(t, u)
			assert.ErrorIs(t, err, tt.want)
			assert.Zero(t, r.existsCalls)
			assert.Zero(t, r.createCalls)
			assert.Empty(t, h.calls)
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	r := newMemUserRepo()
	h := &fakeHasher{}
	s := newTestService(r, h)
	ctx := context.Background()

	_, err := s.Register(ctx, RegisterInput{Email: "dup@b.com", Password: "validpass123", Name: "First", Phone: "01012345678"})
	require.NoError(t, err)

	_, err = s.Register(ctx, RegisterInput{Email: "dup@b.com", Password: "otherpass123", Name: "Second", Phone: "0212345678"})
	assert.ErrorIs(t, err, errcode.ErrDuplicateEmail)

	assert.Equal(t, 2, r.existsCalls)
	assert.Equal(t, 1, r.createCalls)
	assert.Equal(t, []string{"validpass123"}, h.calls, "password of the rejected candidate must not be hashed")
	assert.Equal(t, "First", r.byEmail["dup@b.com"].Name)
}

func TestRegister_DuplicateEmailIgnoresCase(t *testing.T) {
	r := newMemUserRepo()
	s := newTestService(r, &fakeHasher{})
	ctx := context.Background()

	u, err := s.Register(ctx, RegisterInput{Email: "Existing@Email.com", Password: "password1234", Name: "Tester", Phone: "01077779999"})
	require.NoError(t, err)
	assert.Equal(t, "existing@email.com", u.Email)

	_, err = s.Register(ctx, RegisterInput{Email: "EXISTING@email.COM", Password: "password1234", Name: "Tester", Phone: "01077779999"})
	assert.ErrorIs(t, err, errcode.ErrDuplicateEmail)
}

func TestRegister_ConstraintRaceSurfacesAsDuplicate(t *testing.T) {
	r := newMemUserRepo()
	r.byEmail["race@b.com"] = &entity.User{ID: 99, Email: "race@b.com"}
	r.hideExisting = true
	s := newTestService(r, &fakeHasher{})

	_, err := s.Register(context.Background(), RegisterInput{Email: "race@b.com", Password: "validpass123", Name: "Tester", Phone: "01012345678"})
	assert.ErrorIs(t, err, errcode.ErrDuplicateEmail)
	assert.Equal(t, 1, r.createCalls)
}

func TestRegister_InfrastructureFailures(t *testing.T) {
	dbDown := errors.New("connection refused")
	ctx := context.Background()
	in := RegisterInput{Email: "a@b.com", Password: "validpass123", Name: "Tester", Phone: "01012345678"}

	t.Run("exists check", func(t *testing.T) {
		r := newMemUserRepo()
		r.existsErr = dbDown
		h := &fakeHasher{}
		_, err := newTestService(r, h).Register(ctx, in)
		assert.ErrorIs(t, err, dbDown)
		_, isDomain := errcode.As(err)
		assert.False(t, isDomain)
		assert.Empty(t, h.calls)
	})

	t.Run("hasher", func(t *testing.T) {
		r := newMemUserRepo()
		hashErr := errors.New("cost too high")
		_, err := newTestService(r, &fakeHasher{err: hashErr}).Register(ctx, in)
		assert.ErrorIs(t, err, hashErr)
		assert.Zero(t, r.createCalls)
	})

	t.Run("create", func(t *testing.T) {
		r := newMemUserRepo()
		r.createErr = dbDown
		_, err := newTestService(r, &fakeHasher{}).Register(ctx, in)
		assert.ErrorIs(t, err, dbDown)
		_, isDomain := errcode.As(err)
		assert.False(t, isDomain)
	})
}

func TestRegister_NotifiesListeners(t *testing.T) {
	ok := &recordingListener{}
	failing := &recordingListener{err: errors.New("broker unavailable")}
	r := newMemUserRepo()
	s := newTestService(r, &fakeHasher{}, failing, ok)

	u, err := s.Register(context.Background(), RegisterInput{Email: "a@b.com", Password: "validpass123", Name: "Tester", Phone: "01012345678"})
	require.NoError(t, err, "listener failures must not fail registration")

	require.Len(t, ok.users, 1)
	assert.Same(t, u, ok.users[0])
	assert.Len(t, failing.users, 1)
}

func TestRegister_NoListenersOnFailure(t *testing.T) {
	l := &recordingListener{}
	s := newTestService(newMemUserRepo(), &fakeHasher{}, l)

	_, err := s.Register(context.Background(), RegisterInput{Email: "", Password: "validpass123", Name: "Tester", Phone: "01012345678"})
	require.Error(t, err)
	assert.Empty(t, l.users)
}

func TestIsEmailDuplicated(t *testing.T) {
	r := newMemUserRepo()
	s := newTestService(r, &fakeHasher{})
	ctx := context.Background()

	_, err := s.Register(ctx, RegisterInput{Email: "dup@b.com", Password: "validpass123", Name: "Tester", Phone: "01012345678"})
	require.NoError(t, err)

	dup, err := s.IsEmailDuplicated(ctx, "dup@b.com")
	require.NoError(t, err)
	assert.True(t, dup)

	dup, err = s.IsEmailDuplicated(ctx, "DUP@b.com")
	require.NoError(t, err)
	assert.True(t, dup)

	// malformed input is looked up, not rejected
	dup, err = s.IsEmailDuplicated(ctx, "not an email")
	require.NoError(t, err)
	assert.False(t, dup)
}

func TestIsEmailDuplicated_StoreError(t *testing.T) {
	r := newMemUserRepo()
	r.existsErr = errors.New("timeout")
	_, err := newTestService(r, &fakeHasher{}).IsEmailDuplicated(context.Background(), "a@b.com")
	assert.ErrorIs(t, err, r.existsErr)
}
