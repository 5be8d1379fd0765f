// Package auth handles registration, login and token verification. Tokens
// are HMAC-signed JWTs backed by a server-side session record, so logout
// actually revokes.
package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lwindle/MeetMoment/internal/domain"
	"github.com/lwindle/MeetMoment/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// SessionBound is any component holding per-user runtime state that must be
// torn down on logout.
type SessionBound interface {
	EndSession(userID uint)
}

// CredentialRefresher is implemented by bound components that latch on a
// stale credential and must recover once a new one is issued.
type CredentialRefresher interface {
	CredentialRefreshed(userID uint)
}

type UseCase struct {
	users     repository.UserRepository
	sessions  repository.SessionStore
	jwtSecret string
	tokenTTL  time.Duration
	bound     []SessionBound
}

func NewUseCase(users repository.UserRepository, sessions repository.SessionStore, jwtSecret string, tokenTTL time.Duration, bound ...SessionBound) *UseCase {
	return &UseCase{
		users:     users,
		sessions:  sessions,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		bound:     bound,
	}
}

type RegisterRequest struct {
	Phone      string   `json:"phone" binding:"required"`
	Password   string   `json:"password" binding:"required,min=6"`
	Nickname   string   `json:"nickname" binding:"required"`
	Gender     int      `json:"gender" binding:"min=0,max=2"`
	Age        int      `json:"age" binding:"required,min=18,max=60"`
	City       string   `json:"city" binding:"required"`
	Occupation string   `json:"occupation" binding:"required"`
	Bio        string   `json:"bio"`
	Avatar     string   `json:"avatar"`
	Interests  []string `json:"interests"`
}

type LoginRequest struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *domain.User `json:"user"`
}

// Register creates a user account and opens a session for it.
func (uc *UseCase) Register(ctx context.Context, req *RegisterRequest, deviceInfo, ipAddress string) (*AuthResponse, error) {
	_, err := uc.users.GetByPhone(ctx, req.Phone)
	if err == nil {
		return nil, domain.ErrPhoneTaken
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check phone: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Phone:           req.Phone,
		Password:        string(hash),
		Nickname:        req.Nickname,
		Gender:          req.Gender,
		Age:             req.Age,
		City:            req.City,
		Occupation:      req.Occupation,
		Bio:             req.Bio,
		Avatar:          req.Avatar,
		IsOnline:        true,
		AIScore:         60,
		ProfileComplete: profileCompleteness(req),
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if len(req.Interests) > 0 {
		if err := uc.users.SaveInterests(ctx, user.ID, req.Interests); err != nil {
			slog.Warn("failed to save interests", "user_id", user.ID, "error", err)
		}
	}

	token, expiresAt, err := uc.openSession(ctx, user.ID, deviceInfo, ipAddress)
	if err != nil {
		return nil, err
	}
	uc.notifyRefreshed(user.ID)

	return &AuthResponse{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Login verifies credentials and opens a session.
func (uc *UseCase) Login(ctx context.Context, req *LoginRequest, deviceInfo, ipAddress string) (*AuthResponse, error) {
	user, err := uc.users.GetByPhone(ctx, req.Phone)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if err := uc.users.UpdateOnlineStatus(ctx, user.ID, true); err != nil {
		slog.Warn("failed to mark user online", "user_id", user.ID, "error", err)
	}
	user.IsOnline = true

	token, expiresAt, err := uc.openSession(ctx, user.ID, deviceInfo, ipAddress)
	if err != nil {
		return nil, err
	}
	uc.notifyRefreshed(user.ID)

	return &AuthResponse{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Logout revokes the session and tears down any per-user runtime state
// bound to it.
func (uc *UseCase) Logout(ctx context.Context, token string) error {
	tokenHash := hashToken(token)

	session, err := uc.sessions.Get(ctx, tokenHash)
	if err == nil {
		if err := uc.users.UpdateOnlineStatus(ctx, session.UserID, false); err != nil {
			slog.Warn("failed to mark user offline", "user_id", session.UserID, "error", err)
		}
		for _, b := range uc.bound {
			b.EndSession(session.UserID)
		}
	}

	return uc.sessions.Delete(ctx, tokenHash)
}

// GetUser loads the account behind an authenticated request.
func (uc *UseCase) GetUser(ctx context.Context, userID uint) (*domain.User, error) {
	return uc.users.GetByID(ctx, userID)
}

// VerifyToken checks the JWT signature and the server-side session record,
// returning the user ID the token belongs to.
func (uc *UseCase) VerifyToken(ctx context.Context, tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(uc.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, domain.ErrInvalidToken
	}
	rawID, ok := claims["user_id"].(float64)
	if !ok {
		return 0, domain.ErrInvalidToken
	}
	userID := uint(rawID)

	session, err := uc.sessions.Get(ctx, hashToken(tokenString))
	if err != nil {
		return 0, err
	}
	if session.UserID != userID {
		return 0, domain.ErrInvalidToken
	}
	if session.IsExpired() {
		return 0, domain.ErrSessionExpired
	}

	return userID, nil
}

// notifyRefreshed tells bound components that a fresh credential exists for
// the user, so stale-credential latches release.
func (uc *UseCase) notifyRefreshed(userID uint) {
	for _, b := range uc.bound {
		if r, ok := b.(CredentialRefresher); ok {
			r.CredentialRefreshed(userID)
		}
	}
}

func (uc *UseCase) openSession(ctx context.Context, userID uint, deviceInfo, ipAddress string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(uc.tokenTTL)

	claims := jwt.MapClaims{
		"user_id": userID,
		"iat":     now.Unix(),
		"exp":     expiresAt.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(uc.jwtSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	session := &domain.Session{
		Token:      hashToken(token),
		UserID:     userID,
		DeviceInfo: deviceInfo,
		IPAddress:  ipAddress,
		ExpiresAt:  expiresAt,
	}
	if err := uc.sessions.Save(ctx, session); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to save session: %w", err)
	}

	return token, expiresAt, nil
}

// profileCompleteness scores how many of the eight profile fields are set,
// as a percentage.
func profileCompleteness(req *RegisterRequest) int {
	fields := []bool{
		req.Nickname != "",
		req.Age > 0,
		req.City != "",
		req.Occupation != "",
		req.Bio != "",
		req.Avatar != "",
		len(req.Interests) > 0,
		req.Gender > 0,
	}
	filled := 0
	for _, set := range fields {
		if set {
			filled++
		}
	}
	return filled * 100 / len(fields)
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
