package user

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pingchat/internal/apperr"
)

func TestService_Tokens(t *testing.T) {
	svc := NewService(nil, "test-secret", nil, nil)
	userID := uuid.New()

	t.Run("signed tokens round-trip", func(t *testing.T) {
		token, err := svc.signToken(userID)
		require.NoError(t, err)

		got, err := svc.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, userID, got)
	})

	t.Run("garbage tokens are rejected", func(t *testing.T) {
		_, err := svc.ValidateToken("not.a.token")
		assert.Error(t, err)
	})

	t.Run("tokens signed with another secret are rejected", func(t *testing.T) {
		other := NewService(nil, "other-secret", nil, nil)
		token, err := other.signToken(userID)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.Error(t, err)
	})
}

// Validation failures return before the repository is touched, so a nil repo
// is fine here.
func TestService_SignupValidation(t *testing.T) {
	svc := NewService(nil, "test-secret", nil, nil)
	ctx := context.Background()

	cases := []struct {
		name string
		req  SignupRequest
	}{
		{"missing full name", SignupRequest{Email: "a@b.co", Password: "secret1"}},
		{"missing email", SignupRequest{FullName: "A", Password: "secret1"}},
		{"bad email", SignupRequest{FullName: "A", Email: "not-an-email", Password: "secret1"}},
		{"short password", SignupRequest{FullName: "A", Email: "a@b.co", Password: "12345"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Signup(ctx, &tc.req)
			var ae *apperr.AppError
			require.ErrorAs(t, err, &ae)
			assert.Equal(t, apperr.CodeInvalidArgument, ae.Code)
		})
	}
}

func TestService_LoginValidation(t *testing.T) {
	svc := NewService(nil, "test-secret", nil, nil)
	ctx := context.Background()

	_, _, err := svc.Login(ctx, &LoginRequest{Email: "a@b.co"})
	var ae *apperr.AppError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, apperr.CodeInvalidArgument, ae.Code)
}

func TestUser_Profile(t *testing.T) {
	u := &User{
		ID:         uuid.New(),
		FullName:   "Ada Lovelace",
		Email:      "ada@example.com",
		Password:   "$2a$10$hash",
		ProfilePic: "https://cdn.example.com/ada.png",
	}

	p := u.Profile()
	assert.Equal(t, u.ID, p.ID)
	assert.Equal(t, u.FullName, p.FullName)
	assert.Equal(t, u.Email, p.Email)
	assert.Equal(t, u.ProfilePic, p.ProfilePic)
}
