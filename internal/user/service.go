package user

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"pingchat/internal/apperr"
)

const tokenTTL = 7 * 24 * time.Hour

// WelcomeSender is what we need from the email collaborator. Fire-and-forget:
// implementations must never block or fail the signup path.
type WelcomeSender interface {
	SendWelcomeAsync(name, email string)
}

// Uploader is what we need from the media-hosting collaborator.
type Uploader interface {
	Upload(ctx context.Context, dataURI string) (string, error)
}

type Service struct {
	repo      *Repository
	jwtSecret string
	uploader  Uploader
	welcome   WelcomeSender
	validate  *validator.Validate
}

type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	jwt.RegisteredClaims
}

func NewService(repo *Repository, secret string, uploader Uploader, welcome WelcomeSender) *Service {
	return &Service{
		repo:      repo,
		jwtSecret: secret,
		uploader:  uploader,
		welcome:   welcome,
		validate:  validator.New(),
	}
}

// Signup creates an account, returns the profile plus a signed session token,
// and schedules the welcome email off the critical path.
func (s *Service) Signup(ctx context.Context, req *SignupRequest) (*Profile, string, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, "", apperr.InvalidArg("full name, a valid email and a password of at least 6 characters are required")
	}

	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", apperr.Internal("internal server error", err)
	}

	u := &User{
		FullName: req.FullName,
		Email:    req.Email,
		Password: string(hashedPwd),
	}

	if _, err := s.repo.CreateUser(ctx, u); err != nil {
		if isUniqueViolation(err) {
			return nil, "", apperr.AlreadyExists("email already exists")
		}
		return nil, "", apperr.Storage(err)
	}

	token, err := s.signToken(u.ID)
	if err != nil {
		return nil, "", apperr.Internal("internal server error", err)
	}

	if s.welcome != nil {
		s.welcome.SendWelcomeAsync(u.FullName, u.Email)
	}

	return u.Profile(), token, nil
}

func (s *Service) Login(ctx context.Context, req *LoginRequest) (*Profile, string, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, "", apperr.InvalidArg("email and password are required")
	}

	u, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, "", apperr.InvalidArg("invalid credentials")
		}
		return nil, "", apperr.Storage(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)); err != nil {
		return nil, "", apperr.InvalidArg("invalid credentials")
	}

	token, err := s.signToken(u.ID)
	if err != nil {
		return nil, "", apperr.Internal("internal server error", err)
	}
	return u.Profile(), token, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*Profile, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperr.InvalidArg("profile pic is required")
	}

	url, err := s.uploader.Upload(ctx, req.ProfilePic)
	if err != nil {
		log.Printf("profile pic upload failed for %s: %v", userID, err)
		return nil, err
	}

	u, err := s.repo.UpdateProfilePic(ctx, userID, url)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Storage(err)
	}
	return u.Profile(), nil
}

func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	u, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Storage(err)
	}
	return u.Profile(), nil
}

func (s *Service) signToken(userID uuid.UUID) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "pingchat",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
		},
	})
	return token.SignedString([]byte(s.jwtSecret))
}

// ValidateToken parses a session token and returns the user it belongs to.
func (s *Service) ValidateToken(tokenString string) (uuid.UUID, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, apperr.Unauthorized("invalid token")
	}
	return claims.UserID, nil
}
