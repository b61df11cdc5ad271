package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/campusvote/election-system/internal/core/domain"
	"github.com/campusvote/election-system/internal/core/ports"
)

// AuthService implements login and admin bootstrap on top of the voter records.
type AuthService struct {
	voters    ports.VoterRepository
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(voters ports.VoterRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 7 * 24 * time.Hour
	}
	return &AuthService{voters: voters, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

func (s *AuthService) Login(ctx context.Context, email, password, role string) (string, *domain.Voter, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	voter, err := s.voters.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrVoterNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("login: %w", err)
	}
	// Unknown email and wrong role look the same to the caller.
	if voter.Role != role {
		return "", nil, domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(voter.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(voter)
	if err != nil {
		return "", nil, fmt.Errorf("login: sign token: %w", err)
	}
	return token, voter, nil
}

func (s *AuthService) Profile(ctx context.Context, voterID string) (*domain.Voter, error) {
	return s.voters.FindByID(ctx, voterID)
}

// EnsureAdmin creates the bootstrap admin unless a record with that email exists.
func (s *AuthService) EnsureAdmin(ctx context.Context, name, email, password string) (*domain.Voter, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidInput
	}

	existing, err := s.voters.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role != domain.RoleAdmin {
			return nil, domain.ErrVoterExists
		}
		return existing, nil
	case !errors.Is(err, domain.ErrVoterNotFound):
		return nil, fmt.Errorf("ensure admin: %w", err)
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		name = "Administrator"
	}

	now := time.Now().UTC()
	return s.voters.Create(ctx, &domain.Voter{
		Name:          strings.TrimSpace(name),
		Email:         email,
		PasswordHash:  hash,
		Role:          domain.RoleAdmin,
		SelectedClubs: []string{},
		CreatedAt:     now,
		UpdatedAt:     now,
	})
}

func (s *AuthService) generateToken(voter *domain.Voter) (string, error) {
	claims := jwt.MapClaims{
		"sub":  voter.ID,
		"role": voter.Role,
		"exp":  time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
