package service

import (
	"testing"
	"time"

	"soundhaus/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeAdminRepo struct {
	admins map[string]*repository.Admin
}

func (f *fakeAdminRepo) GetByEmail(email string) (*repository.Admin, error) {
	admin, ok := f.admins[email]
	if !ok {
		return nil, nil
	}
	return admin, nil
}

func (f *fakeAdminRepo) CreateAdmin(email, password string) error {
	return nil
}

func TestIsAdmin(t *testing.T) {
	svc := NewAdminAuthService(&fakeAdminRepo{}, "owner@soundhaus.example, Booker@soundhaus.example")

	t.Run("membership is case-insensitive", func(t *testing.T) {
		assert.True(t, svc.IsAdmin("owner@soundhaus.example"))
		assert.True(t, svc.IsAdmin("OWNER@soundhaus.example"))
		assert.True(t, svc.IsAdmin("booker@Soundhaus.Example"))
		assert.True(t, svc.IsAdmin("  owner@soundhaus.example  "))
	})

	t.Run("unknown and empty identities are denied", func(t *testing.T) {
		assert.False(t, svc.IsAdmin("intern@soundhaus.example"))
		assert.False(t, svc.IsAdmin(""))
		assert.False(t, svc.IsAdmin("   "))
	})

	t.Run("empty allow-list denies everyone", func(t *testing.T) {
		empty := NewAdminAuthService(&fakeAdminRepo{}, "")
		assert.False(t, empty.IsAdmin("owner@soundhaus.example"))
	})
}

func TestLogin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := &fakeAdminRepo{admins: map[string]*repository.Admin{
		"owner@soundhaus.example": {ID: 1, Email: "owner@soundhaus.example", PasswordHash: string(hash)},
	}}
	svc := NewAdminAuthService(repo, "owner@soundhaus.example")

	t.Run("valid credentials produce a token", func(t *testing.T) {
		token, err := svc.Login("owner@soundhaus.example", "correct-horse")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		_, err := svc.Login("owner@soundhaus.example", "wrong")
		assert.Error(t, err)
	})

	t.Run("credentials outside the allow-list are rejected", func(t *testing.T) {
		_, err := svc.Login("intern@soundhaus.example", "correct-horse")
		assert.Error(t, err)
	})
}

func TestCreateAdmin(t *testing.T) {
	repo := &fakeAdminRepo{admins: map[string]*repository.Admin{}}
	svc := NewAdminAuthService(repo, "owner@soundhaus.example")

	t.Run("allow-listed email gets credentials", func(t *testing.T) {
		require.NoError(t, svc.CreateAdmin("owner@soundhaus.example", "correct-horse"))
	})

	t.Run("email outside the allow-list is refused", func(t *testing.T) {
		assert.Error(t, svc.CreateAdmin("intern@soundhaus.example", "correct-horse"))
	})

	t.Run("empty credentials are refused", func(t *testing.T) {
		assert.Error(t, svc.CreateAdmin("", "correct-horse"))
		assert.Error(t, svc.CreateAdmin("owner@soundhaus.example", ""))
	})
}

func TestVerifyAdminAccess(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	svc := NewAdminAuthService(&fakeAdminRepo{}, "owner@soundhaus.example")

	signToken := func(t *testing.T, claims jwt.MapClaims, secret string) string {
		t.Helper()
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return token
	}

	t.Run("allow-listed token resolves the identity", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{
			"email": "Owner@Soundhaus.Example",
			"exp":   time.Now().Add(time.Hour).Unix(),
		}, "test-secret")

		email, err := svc.VerifyAdminAccess(token)
		require.NoError(t, err)
		assert.Equal(t, "Owner@Soundhaus.Example", email)
	})

	t.Run("non-admin identity is denied", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{
			"email": "intern@soundhaus.example",
			"exp":   time.Now().Add(time.Hour).Unix(),
		}, "test-secret")

		_, err := svc.VerifyAdminAccess(token)
		assert.Error(t, err)
	})

	t.Run("expired token is denied", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{
			"email": "owner@soundhaus.example",
			"exp":   time.Now().Add(-time.Hour).Unix(),
		}, "test-secret")

		_, err := svc.VerifyAdminAccess(token)
		assert.Error(t, err)
	})

	t.Run("token signed with another secret is denied", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{
			"email": "owner@soundhaus.example",
			"exp":   time.Now().Add(time.Hour).Unix(),
		}, "other-secret")

		_, err := svc.VerifyAdminAccess(token)
		assert.Error(t, err)
	})

	t.Run("garbage token is denied", func(t *testing.T) {
		_, err := svc.VerifyAdminAccess("not-a-token")
		assert.Error(t, err)
	})
}
