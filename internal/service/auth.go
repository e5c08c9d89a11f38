package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Mukulraj109/rez-backend-sub002/internal/domain"
	"github.com/Mukulraj109/rez-backend-sub002/internal/model"
	"github.com/Mukulraj109/rez-backend-sub002/pkg/jwtutil"
	"github.com/Mukulraj109/rez-backend-sub002/prometheus"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type RegisterInput struct {
	BusinessName string `json:"businessName" validate:"required,min=2,max=150"`
	OwnerName    string `json:"ownerName" validate:"required,max=100"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8"`
	Phone        string `json:"phone" validate:"omitempty,max=30"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResult struct {
	Token    string          `json:"token"`
	Merchant *model.Merchant `json:"merchant"`
}

// TokenIssuer signs access tokens
type TokenIssuer interface {
	GenerateToken(email string, merchantID uint, role string) (string, error)
}

type AuthService struct {
	merchants domain.MerchantRepository
	tokens    TokenIssuer
	log       *zap.Logger
	now       Clock
}

func NewAuthService(merchants domain.MerchantRepository, tokens TokenIssuer, log *zap.Logger) *AuthService {
	return &AuthService{merchants: merchants, tokens: tokens, log: log, now: time.Now}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a pending merchant account and signs a token for it
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email := normalizeEmail(in.Email)

	if _, err := s.merchants.GetByEmail(ctx, email); err == nil {
		prometheus.RecordAuthAttempt("register", "conflict")
		return nil, fmt.Errorf("email %s: %w", email, domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, wrap("lookup merchant", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, wrap("hash password", err)
	}

	merchant := &model.Merchant{
		BusinessName: strings.TrimSpace(in.BusinessName),
		OwnerName:    strings.TrimSpace(in.OwnerName),
		Email:        email,
		Password:     string(hashed),
		Phone:        in.Phone,
		Role:         jwtutil.RoleMerchant,
		Status:       model.MerchantPending,
	}
	if err := s.merchants.Create(ctx, merchant); err != nil {
		prometheus.RecordAuthAttempt("register", "failure")
		return nil, wrap("create merchant", err)
	}

	token, err := s.tokens.GenerateToken(merchant.Email, merchant.ID, merchant.Role)
	if err != nil {
		return nil, wrap("generate token", err)
	}

	prometheus.RecordAuthAttempt("register", "success")
	s.log.Info("Merchant registered successfully",
		zap.Uint("merchant_id", merchant.ID),
		zap.String("email", merchant.Email))
	return &AuthResult{Token: token, Merchant: merchant}, nil
}

// Login checks credentials. Unknown email and wrong password are indistinguishable.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	merchant, err := s.merchants.GetByEmail(ctx, normalizeEmail(in.Email))
	if errors.Is(err, domain.ErrNotFound) {
		prometheus.RecordAuthAttempt("login", "failure")
		return nil, domain.ErrUnauthorized
	}
	if err != nil {
		return nil, wrap("lookup merchant", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(merchant.Password), []byte(in.Password)); err != nil {
		prometheus.RecordAuthAttempt("login", "failure")
		return nil, domain.ErrUnauthorized
	}

	if !merchant.CanSignIn() {
		prometheus.RecordAuthAttempt("login", "blocked")
		return nil, fmt.Errorf("account %s: %w", merchant.Status, domain.ErrForbidden)
	}

	now := s.now()
	merchant.LastLoginAt = &now
	if err := s.merchants.Save(ctx, merchant); err != nil {
		s.log.Warn("Failed to record last login", zap.Uint("merchant_id", merchant.ID), zap.Error(err))
	}

	token, err := s.tokens.GenerateToken(merchant.Email, merchant.ID, merchant.Role)
	if err != nil {
		return nil, wrap("generate token", err)
	}

	prometheus.RecordAuthAttempt("login", "success")
	return &AuthResult{Token: token, Merchant: merchant}, nil
}

func (s *AuthService) Me(ctx context.Context, merchantID uint) (*model.Merchant, error) {
	return s.merchants.GetByID(ctx, merchantID)
}

// EnsureAdmin creates the admin account or resets its password and role
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password, name string) (*model.Merchant, error) {
	if len(password) < 8 {
		return nil, domain.Invalid("password", "must be at least 8 characters")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, wrap("hash password", err)
	}

	email = normalizeEmail(email)
	merchant, err := s.merchants.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		merchant = &model.Merchant{
			BusinessName: name,
			OwnerName:    name,
			Email:        email,
			Password:     string(hashed),
			Role:         jwtutil.RoleAdmin,
			Status:       model.MerchantApproved,
		}
		if err := s.merchants.Create(ctx, merchant); err != nil {
			return nil, wrap("create admin", err)
		}
	case err != nil:
		return nil, wrap("lookup admin", err)
	default:
		merchant.Password = string(hashed)
		merchant.Role = jwtutil.RoleAdmin
		merchant.Status = model.MerchantApproved
		if err := s.merchants.Save(ctx, merchant); err != nil {
			return nil, wrap("update admin", err)
		}
	}

	s.log.Info("Admin account ready", zap.Uint("merchant_id", merchant.ID), zap.String("email", email))
	return merchant, nil
}
