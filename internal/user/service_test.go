package user

import (
	"context"
	"errors"
	"strings"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validationFields(t *testing.T, err error) validation.Errors {
	t.Helper()
	var verrs validation.Errors
	require.True(t, errors.As(err, &verrs), "expected validation errors, got %v", err)
	return verrs
}

func TestRegister_Success(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	u, err := svc.Register(context.Background(), RegisterInput{
		Username: "  alice ",
		Email:    " Alice@X.com ",
		Password: "secret1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "alice@x.com", u.Email)
	assert.NotEqual(t, "secret1", u.PasswordHash)
	assert.False(t, u.CreatedAt.IsZero())
	assert.Equal(t, 1, store.count())
}

func TestRegister_Validation(t *testing.T) {
	svc := newTestService(newMemStore())

	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "",
		Email:    "not-an-email",
		Password: "12345",
	})
	fields := validationFields(t, err)
	assert.Contains(t, fields, "username")
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")
}

func TestRegister_ShortUsername(t *testing.T) {
	svc := newTestService(newMemStore())

	_, err := svc.Register(context.Background(), RegisterInput{Username: " al ", Email: "al@x.com", Password: "secret1"})
	fields := validationFields(t, err)
	assert.Contains(t, fields, "username")
	assert.Len(t, fields, 1)
}

func TestRegister_PasswordByteLimit(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@x.com", Password: strings.Repeat("a", 80)})
	fields := validationFields(t, err)
	assert.Contains(t, fields, "password")
	assert.Len(t, fields, 1)
	assert.Equal(t, 0, store.count())

	// 25 three-byte runes, 75 bytes
	_, err = svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@x.com", Password: strings.Repeat("€", 25)})
	assert.Contains(t, validationFields(t, err), "password")

	_, err = svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@x.com", Password: strings.Repeat("a", 72)})
	require.NoError(t, err)
	_, err = svc.Login(ctx, LoginInput{Email: "alice@x.com", Password: strings.Repeat("a", 72)})
	assert.NoError(t, err)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@x.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Username: "other", Email: "ALICE@x.com", Password: "secret2"})
	assert.ErrorIs(t, err, ErrCredentialInUse)
	assert.Equal(t, 1, store.count())
}

func TestRegister_DuplicateUsername(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@x.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice2@x.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrCredentialInUse)
	assert.Equal(t, 1, store.count())
}

func TestRegister_StoreError(t *testing.T) {
	store := newMemStore()
	store.err = errStoreDown
	svc := newTestService(store)

	_, err := svc.Register(context.Background(), RegisterInput{Username: "alice", Email: "alice@x.com", Password: "secret1"})
	assert.ErrorIs(t, err, errStoreDown)
}

func TestLogin(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@x.com", Password: "secret1"})
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		token, err := svc.Login(ctx, LoginInput{Email: "alice@x.com", Password: "secret1"})
		require.NoError(t, err)
		assert.Equal(t, "token-for-"+u.ID, token)
	})

	t.Run("email is case-insensitive", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginInput{Email: "ALICE@x.com", Password: "secret1"})
		assert.NoError(t, err)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginInput{Email: "alice@x.com", Password: "nope123"})
		assert.ErrorIs(t, err, ErrBadCredentials)
	})

	t.Run("unknown user looks the same", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginInput{Email: "bob@x.com", Password: "secret1"})
		assert.ErrorIs(t, err, ErrBadCredentials)
	})

	t.Run("validation", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginInput{Email: "bad", Password: ""})
		fields := validationFields(t, err)
		assert.Contains(t, fields, "email")
		assert.Contains(t, fields, "password")
	})
}

func TestLogin_IssuerError(t *testing.T) {
	store := newMemStore()
	svc := NewUserService(store, BcryptHasher{Cost: 4}, stubIssuer{err: errors.New("sign")})
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@x.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginInput{Email: "alice@x.com", Password: "secret1"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrBadCredentials)
}

func TestProfile(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@x.com", Password: "secret1"})
	require.NoError(t, err)

	got, err := svc.Profile(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	_, err = svc.Profile(ctx, "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func strptr(s string) *string { return &s }

func TestUpdateProfile(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	alice, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@x.com", Password: "secret1"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, RegisterInput{Username: "bob", Email: "bob@x.com", Password: "secret1"})
	require.NoError(t, err)

	t.Run("change username only", func(t *testing.T) {
		u, err := svc.UpdateProfile(ctx, alice.ID, UpdateInput{Username: strptr(" alicia ")})
		require.NoError(t, err)
		assert.Equal(t, "alicia", u.Username)
		assert.Equal(t, "alice@x.com", u.Email)
	})

	t.Run("blank password keeps old one", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, alice.ID, UpdateInput{NewPassword: "   "})
		require.NoError(t, err)
		_, err = svc.Login(ctx, LoginInput{Email: "alice@x.com", Password: "secret1"})
		assert.NoError(t, err)
	})

	t.Run("new password", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, alice.ID, UpdateInput{NewPassword: "secret9"})
		require.NoError(t, err)
		_, err = svc.Login(ctx, LoginInput{Email: "alice@x.com", Password: "secret1"})
		assert.ErrorIs(t, err, ErrBadCredentials)
		_, err = svc.Login(ctx, LoginInput{Email: "alice@x.com", Password: "secret9"})
		assert.NoError(t, err)
	})

	t.Run("new password is stored as sent", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, alice.ID, UpdateInput{NewPassword: " newpass1 "})
		require.NoError(t, err)
		_, err = svc.Login(ctx, LoginInput{Email: "alice@x.com", Password: " newpass1 "})
		assert.NoError(t, err)
		_, err = svc.Login(ctx, LoginInput{Email: "alice@x.com", Password: "newpass1"})
		assert.ErrorIs(t, err, ErrBadCredentials)
	})

	t.Run("new password over 72 bytes", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, alice.ID, UpdateInput{NewPassword: strings.Repeat("b", 80)})
		fields := validationFields(t, err)
		assert.Contains(t, fields, "newPassword")
		_, err = svc.Login(ctx, LoginInput{Email: "alice@x.com", Password: " newpass1 "})
		assert.NoError(t, err)
	})

	t.Run("nothing to change returns profile", func(t *testing.T) {
		u, err := svc.UpdateProfile(ctx, alice.ID, UpdateInput{})
		require.NoError(t, err)
		assert.Equal(t, "alicia", u.Username)

		_, err = svc.UpdateProfile(ctx, "ghost", UpdateInput{NewPassword: " "})
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("email taken", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, alice.ID, UpdateInput{Email: strptr("BOB@x.com")})
		assert.ErrorIs(t, err, ErrCredentialInUse)
	})

	t.Run("invalid fields", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, alice.ID, UpdateInput{Username: strptr(""), Email: strptr("nope"), NewPassword: "123"})
		fields := validationFields(t, err)
		assert.Len(t, fields, 3)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, "ghost", UpdateInput{Username: strptr("ghosty")})
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

// countingHasher records how often Verify runs.
type countingHasher struct {
	BcryptHasher
	verifies int
}

func (c *countingHasher) Verify(hash, pw string) bool {
	c.verifies++
	return c.BcryptHasher.Verify(hash, pw)
}

func TestLogin_UnknownEmailStillCompares(t *testing.T) {
	hasher := &countingHasher{BcryptHasher: BcryptHasher{Cost: 4}}
	svc := NewUserService(newMemStore(), hasher, stubIssuer{})
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@x.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginInput{Email: "alice@x.com", Password: "wrong12"})
	assert.ErrorIs(t, err, ErrBadCredentials)
	assert.Equal(t, 1, hasher.verifies)

	_, err = svc.Login(ctx, LoginInput{Email: "nobody@x.com", Password: "wrong12"})
	assert.ErrorIs(t, err, ErrBadCredentials)
	assert.Equal(t, 2, hasher.verifies)
	assert.NotEmpty(t, svc.dummyHash)
}
