package user

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/ovaphlow/pitchfork/service-investment-go/internal/user/entity"
	userrepo "github.com/ovaphlow/pitchfork/service-investment-go/internal/user/repo"
	"github.com/ovaphlow/pitchfork/service-investment-go/pkg/utilities"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrBadCredentials  = errors.New("invalid credentials")
	ErrCredentialInUse = errors.New("credential already in use")
)

const (
	minUsernameLen = 3
	minPasswordLen = 6
	// bcrypt refuses longer input
	maxPasswordBytes = 72
)

// emailPattern is the stored-shape check: something@something.tld, no spaces.
var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// Store is the credential store the service needs.
type Store interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error)
	UpdateProfile(ctx context.Context, id string, upd entity.ProfileUpdate) (*entity.User, error)
}

// TokenIssuer mints a bearer token for a user id.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// UserService orchestrates registration, login and profile flows.
type UserService struct {
	repo   Store
	hasher PasswordHasher
	tokens TokenIssuer
	newID  func() string
	now    func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

func NewUserService(r Store, hasher PasswordHasher, tokens TokenIssuer) *UserService {
	if hasher == nil {
		hasher = BcryptHasher{Cost: DefaultCost}
	}
	return &UserService{
		repo:   r,
		hasher: hasher,
		tokens: tokens,
		newID:  utilities.NewKSUID,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// RegisterInput is the registration payload.
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in *RegisterInput) normalize() {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = normalizeEmail(in.Email)
}

func (in RegisterInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Username, usernameRules()...),
		validation.Field(&in.Email, emailRules()...),
		validation.Field(&in.Password, passwordRules()...),
	)
}

// LoginInput is the login payload.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in LoginInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Email, emailRules()...),
		validation.Field(&in.Password, validation.Required),
	)
}

// UpdateInput is the profile update payload. Absent fields stay unchanged;
// a blank NewPassword keeps the current password.
type UpdateInput struct {
	Username    *string `json:"username"`
	Email       *string `json:"email"`
	NewPassword string  `json:"newPassword"`
}

func (in *UpdateInput) normalize() {
	if in.Username != nil {
		u := strings.TrimSpace(*in.Username)
		in.Username = &u
	}
	if in.Email != nil {
		e := normalizeEmail(*in.Email)
		in.Email = &e
	}
}

// changesPassword is false for a blank newPassword. The password itself is
// hashed exactly as sent.
func (in UpdateInput) changesPassword() bool {
	return strings.TrimSpace(in.NewPassword) != ""
}

func (in UpdateInput) Validate() error {
	var fields []*validation.FieldRules
	if in.changesPassword() {
		fields = append(fields, validation.Field(&in.NewPassword, passwordRules()...))
	}
	if in.Username != nil {
		fields = append(fields, validation.Field(&in.Username, usernameRules()...))
	}
	if in.Email != nil {
		fields = append(fields, validation.Field(&in.Email, emailRules()...))
	}
	return validation.ValidateStruct(&in, fields...)
}

func usernameRules() []validation.Rule {
	return []validation.Rule{validation.Required, validation.Length(minUsernameLen, 0)}
}

func passwordRules() []validation.Rule {
	return []validation.Rule{validation.Required, validation.Length(minPasswordLen, 0), maxBytes(maxPasswordBytes)}
}

// maxBytes limits the encoded length; Length counts runes.
func maxBytes(n int) validation.Rule {
	return validation.By(func(value interface{}) error {
		if s, ok := value.(string); ok && len(s) > n {
			return fmt.Errorf("must be at most %d bytes long", n)
		}
		return nil
	})
}

func emailRules() []validation.Rule {
	return []validation.Rule{validation.Required, is.Email, validation.Match(emailPattern)}
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Register validates the input, rejects taken credentials and stores the
// new user. No token is issued; the caller logs in separately.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	in.normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	taken, err := s.repo.ExistsByEmailOrUsername(ctx, in.Email, in.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrCredentialInUse
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &entity.User{
		ID:           s.newID(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		CreatedAt:    s.now(),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, userrepo.ErrDuplicate) {
			return nil, ErrCredentialInUse
		}
		return nil, err
	}
	return u, nil
}

// Login returns a fresh token. Unknown email and wrong password produce the
// same ErrBadCredentials.
func (s *UserService) Login(ctx context.Context, in LoginInput) (string, error) {
	in.Email = normalizeEmail(in.Email)
	if err := in.Validate(); err != nil {
		return "", err
	}

	u, err := s.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			s.compareDummy(in.Password)
			return "", ErrBadCredentials
		}
		return "", err
	}
	if !s.hasher.Verify(u.PasswordHash, in.Password) {
		return "", ErrBadCredentials
	}

	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// Profile loads the caller's own user record.
func (s *UserService) Profile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// UpdateProfile changes username, email and/or password of the caller.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateInput) (*entity.User, error) {
	in.normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	upd := entity.ProfileUpdate{Username: in.Username, Email: in.Email}
	if in.changesPassword() {
		hash, err := s.hasher.Hash(in.NewPassword)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		upd.PasswordHash = &hash
	}
	if upd.Empty() {
		return s.Profile(ctx, userID)
	}

	u, err := s.repo.UpdateProfile(ctx, userID, upd)
	switch {
	case errors.Is(err, userrepo.ErrNotFound):
		return nil, ErrUserNotFound
	case errors.Is(err, userrepo.ErrDuplicate):
		return nil, ErrCredentialInUse
	case err != nil:
		return nil, err
	}
	return u, nil
}

// compareDummy spends one hash comparison so that an unknown email takes as
// long as a wrong password.
func (s *UserService) compareDummy(pw string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash("dummy-password-for-timing")
	})
	s.hasher.Verify(s.dummyHash, pw)
}
