package service

import (
	"errors"
	"os"
	"strings"
	"time"

	"soundhaus/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type AdminAuthService interface {
	Login(email, password string) (string, error)
	CreateAdmin(email, password string) error
	IsAdmin(identity string) bool
	VerifyAdminAccess(tokenString string) (string, error)
}

type adminAuthService struct {
	repo      repository.AdminAuthRepository
	allowList map[string]struct{}
}

// NewAdminAuthService builds the gate from a comma-separated allow-list of
// admin emails (ADMIN_EMAILS). The list is fixed for the process lifetime.
func NewAdminAuthService(repo repository.AdminAuthRepository, allowedEmails string) AdminAuthService {
	allowList := make(map[string]struct{})
	for _, email := range strings.Split(allowedEmails, ",") {
		email = strings.ToLower(strings.TrimSpace(email))
		if email == "" {
			continue
		}
		allowList[email] = struct{}{}
	}
	return &adminAuthService{repo: repo, allowList: allowList}
}

// IsAdmin is a case-insensitive set-membership check. An empty identity is
// always denied.
func (s *adminAuthService) IsAdmin(identity string) bool {
	identity = strings.ToLower(strings.TrimSpace(identity))
	if identity == "" {
		return false
	}
	_, ok := s.allowList[identity]
	return ok
}

func (s *adminAuthService) Login(email, password string) (string, error) {
	if !s.IsAdmin(email) {
		return "", errors.New("invalid credentials")
	}

	admin, err := s.repo.GetByEmail(email)
	if err != nil {
		return "", err
	}
	if admin == nil {
		return "", errors.New("invalid credentials")
	}

	err = bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password))
	if err != nil {
		return "", errors.New("invalid credentials")
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", errors.New("JWT_SECRET not set")
	}

	claims := jwt.MapClaims{
		"admin_id": admin.ID,
		"email":    admin.Email,
		"exp":      time.Now().Add(time.Hour * 1).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// VerifyAdminAccess resolves the caller identity from a session token and
// delegates to IsAdmin. Returns the admin email for audit attribution.
func (s *adminAuthService) VerifyAdminAccess(tokenString string) (string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", errors.New("JWT_SECRET not set")
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return "", errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid token claims")
	}
	email, _ := claims["email"].(string)
	if !s.IsAdmin(email) {
		return "", errors.New("not an admin")
	}
	return email, nil
}

// CreateAdmin provisions login credentials. Only allow-listed emails get a
// row; anyone else could never pass the gate anyway.
func (s *adminAuthService) CreateAdmin(email, password string) error {
	if email == "" || password == "" {
		return errors.New("email and password cannot be empty")
	}
	if !s.IsAdmin(email) {
		return errors.New("email is not on the admin allow-list")
	}
	return s.repo.CreateAdmin(email, password)
}
