package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"rsm-commerce/internal/apperr"
	"rsm-commerce/internal/config"
	"rsm-commerce/internal/domain"
	"rsm-commerce/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	// BcryptCost is the cost factor for bcrypt hashing
	BcryptCost = 10

	defaultAccessTokenExpiration  = 15 * time.Minute
	defaultRefreshTokenExpiration = 7 * 24 * time.Hour
)

var (
	ErrInvalidCredentials = apperr.Unauthorized("invalid email or password")
	ErrInvalidToken       = apperr.Unauthorized("invalid token")
	ErrTokenExpired       = apperr.Unauthorized("token has expired")
	ErrEmailTaken         = apperr.Conflict("a user with this email already exists")
	ErrUserNotFound       = apperr.NotFound("user not found")
	ErrEditForbidden      = apperr.Forbidden("you can only edit your own profile")
	ErrNotOwner           = apperr.Forbidden("you can only view your own purchases")
)

// UserService defines the interface for account and session logic
type UserService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, user *domain.User, err error)
	Logout(ctx context.Context, refreshToken string) error
	RefreshToken(ctx context.Context, refreshToken string) (newAccessToken string, err error)
	ValidateToken(tokenString string) (*Claims, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	UpdateProfile(ctx context.Context, actor Actor, userID uuid.UUID, update domain.ProfileUpdate) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
	UpdateRole(ctx context.Context, userID uuid.UUID, role string) (*domain.User, error)
	DeleteUser(ctx context.Context, userID uuid.UUID) error
}

// RegisterInput carries the fields of a new account
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Address  string
	Phone    string
}

// Actor is the authenticated caller of an operation
type Actor struct {
	UserID uuid.UUID
	Role   string
}

// ownsEmail reports whether actor may read customer data keyed by email:
// staff always, everyone else only for the email of their own account.
func ownsEmail(ctx context.Context, users repository.UserRepository, actor Actor, email string) (bool, error) {
	if domain.IsStaff(actor.Role) {
		return true, nil
	}
	caller, err := users.FindByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return false, nil
		}
		return false, apperr.Persistence("failed to look up caller", err)
	}
	return caller.Email == NormalizeEmail(email), nil
}

// Claims represents the JWT claims
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	Role   string    `json:"role"`
	jwt.RegisteredClaims
}

type userService struct {
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	jwtSecret        string
	accessTTL        time.Duration
	refreshTTL       time.Duration
}

// NewUserService creates a new instance of UserService
func NewUserService(
	userRepo repository.UserRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	jwtCfg config.JWTConfig,
) UserService {
	accessTTL := time.Duration(jwtCfg.AccessExpiry) * time.Minute
	if accessTTL <= 0 {
		accessTTL = defaultAccessTokenExpiration
	}
	refreshTTL := time.Duration(jwtCfg.RefreshExpiry) * 24 * time.Hour
	if refreshTTL <= 0 {
		refreshTTL = defaultRefreshTokenExpiration
	}

	return &userService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		jwtSecret:        jwtCfg.Secret,
		accessTTL:        accessTTL,
		refreshTTL:       refreshTTL,
	}
}

// NormalizeEmail trims and lowercases an address before storage or lookup
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new user account with hashed password
func (s *userService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	email := NormalizeEmail(input.Email)

	existingUser, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return nil, apperr.Persistence("failed to check existing user", err)
	}
	if existingUser != nil {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := s.hashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New(),
		Username:     strings.TrimSpace(input.Username),
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         domain.RoleUser,
		Address:      input.Address,
		Phone:        input.Phone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, repository.ErrUserAlreadyExists) {
			return nil, ErrEmailTaken
		}
		return nil, apperr.Persistence("failed to create user", err)
	}

	return user, nil
}

// Login authenticates a user and returns JWT tokens
func (s *userService) Login(ctx context.Context, email, password string) (accessToken, refreshToken string, user *domain.User, err error) {
	user, err = s.userRepo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", "", nil, ErrInvalidCredentials
		}
		return "", "", nil, apperr.Persistence("failed to find user", err)
	}

	if err := s.verifyPassword(user.PasswordHash, password); err != nil {
		return "", "", nil, ErrInvalidCredentials
	}

	accessToken, err = s.generateAccessToken(user)
	if err != nil {
		return "", "", nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err = s.generateRefreshToken(ctx, user)
	if err != nil {
		return "", "", nil, apperr.Persistence("failed to store refresh token", err)
	}

	return accessToken, refreshToken, user, nil
}

// Logout invalidates the refresh token
func (s *userService) Logout(ctx context.Context, refreshToken string) error {
	if err := s.refreshTokenRepo.Revoke(ctx, refreshToken); err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			// Token doesn't exist, consider it already logged out
			return nil
		}
		return apperr.Persistence("failed to revoke refresh token", err)
	}
	return nil
}

// RefreshToken generates a new access token using a valid refresh token
func (s *userService) RefreshToken(ctx context.Context, refreshTokenString string) (newAccessToken string, err error) {
	refreshToken, err := s.refreshTokenRepo.FindByToken(ctx, refreshTokenString)
	if err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) || errors.Is(err, repository.ErrRefreshTokenRevoked) {
			return "", ErrInvalidToken
		}
		return "", apperr.Persistence("failed to find refresh token", err)
	}

	if time.Now().After(refreshToken.ExpiresAt) {
		return "", ErrTokenExpired
	}

	// Role is re-read so a role change applies on the next refresh
	user, err := s.userRepo.FindByID(ctx, refreshToken.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", ErrInvalidToken
		}
		return "", apperr.Persistence("failed to find user", err)
	}

	newAccessToken, err = s.generateAccessToken(user)
	if err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}

	return newAccessToken, nil
}

// ValidateToken validates a JWT token and returns the claims
func (s *userService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, apperr.Persistence("failed to get user", err)
	}
	return user, nil
}

// UpdateProfile applies a partial profile edit. Only staff may edit others.
func (s *userService) UpdateProfile(ctx context.Context, actor Actor, userID uuid.UUID, update domain.ProfileUpdate) (*domain.User, error) {
	if actor.UserID != userID && !domain.IsStaff(actor.Role) {
		return nil, ErrEditForbidden
	}

	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	update.Apply(user)
	if strings.TrimSpace(user.Username) == "" {
		return nil, apperr.Validation("username cannot be empty")
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, apperr.Persistence("failed to update profile", err)
	}

	return user, nil
}

// ListUsers returns every account, newest first
func (s *userService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, apperr.Persistence("failed to list users", err)
	}
	return users, nil
}

// UpdateRole changes a user's role and ends their sessions so the new role
// is picked up at the next login
func (s *userService) UpdateRole(ctx context.Context, userID uuid.UUID, role string) (*domain.User, error) {
	switch role {
	case domain.RoleUser, domain.RoleAdmin, domain.RoleManager:
	default:
		return nil, apperr.Validation(fmt.Sprintf("unknown role %q", role))
	}

	if err := s.userRepo.UpdateRole(ctx, userID, role); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, apperr.Persistence("failed to update role", err)
	}

	if err := s.refreshTokenRepo.RevokeAllForUser(ctx, userID); err != nil {
		return nil, apperr.Persistence("failed to revoke sessions", err)
	}

	return s.GetUserByID(ctx, userID)
}

// DeleteUser removes an account with its sessions and reviews. Products the
// user authored stay in the catalog.
func (s *userService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return apperr.Persistence("failed to delete user", err)
	}
	return nil
}

// hashPassword hashes a password using bcrypt with cost factor 10
func (s *userService) hashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *userService) verifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// generateAccessToken signs a JWT carrying the user ID and role
func (s *userService) generateAccessToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// generateRefreshToken generates a refresh token and stores it in the database
func (s *userService) generateRefreshToken(ctx context.Context, user *domain.User) (string, error) {
	tokenString := uuid.New().String()

	refreshToken := &domain.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		Token:     tokenString,
		ExpiresAt: time.Now().Add(s.refreshTTL),
		CreatedAt: time.Now(),
		Revoked:   false,
	}

	if err := s.refreshTokenRepo.Create(ctx, refreshToken); err != nil {
		return "", err
	}

	return tokenString, nil
}
