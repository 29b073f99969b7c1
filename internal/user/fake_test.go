package user

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/ovaphlow/pitchfork/service-investment-go/internal/user/entity"
	userrepo "github.com/ovaphlow/pitchfork/service-investment-go/internal/user/repo"
)

// memStore is an in-memory Store keyed by id.
type memStore struct {
	mu    sync.Mutex
	users map[string]*entity.User
	err   error
}

func newMemStore() *memStore {
	return &memStore{users: map[string]*entity.User{}}
}

func (m *memStore) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for _, existing := range m.users {
		if existing.Email == u.Email || existing.Username == u.Username {
			return userrepo.ErrDuplicate
		}
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memStore) GetByID(_ context.Context, id string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, userrepo.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, userrepo.ErrNotFound
}

func (m *memStore) ExistsByEmailOrUsername(_ context.Context, email, username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	for _, u := range m.users {
		if u.Email == email || u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) UpdateProfile(_ context.Context, id string, upd entity.ProfileUpdate) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, userrepo.ErrNotFound
	}
	for otherID, other := range m.users {
		if otherID == id {
			continue
		}
		if (upd.Email != nil && *upd.Email == other.Email) || (upd.Username != nil && *upd.Username == other.Username) {
			return nil, userrepo.ErrDuplicate
		}
	}
	if upd.Username != nil {
		u.Username = *upd.Username
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.PasswordHash != nil {
		u.PasswordHash = *upd.PasswordHash
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

// stubIssuer returns "token-for-<id>".
type stubIssuer struct{ err error }

func (s stubIssuer) Issue(userID string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "token-for-" + userID, nil
}

var errStoreDown = errors.New("store down")

func newTestService(store Store) *UserService {
	return NewUserService(store, BcryptHasher{Cost: bcrypt.MinCost}, stubIssuer{})
}
