package auth

import (
	"strings"
	"taskmarket/domain"
	"taskmarket/errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHashAndCompare(t *testing.T) {
	req := require.New(t)
	password := "fix-my-sink"

	hash, err := HashPassword(password)
	req.NoError(err)
	req.True(strings.HasPrefix(hash, "$argon2id$"))

	match, err := ComparePassword(password, hash)
	req.NoError(err)
	req.True(match)

	// Wrong password
	match, err = ComparePassword("wrong-password", hash)
	req.NoError(err)
	req.False(match)
}

func TestCompare_Invalid_Hash(t *testing.T) {
	req := require.New(t)

	_, err := ComparePassword("secret", "$bcrypt$whatever")

	req.ErrorIs(err, ErrInvalidHash)
	req.True(IsInvalidCredentials(err))
}

func TestValidateSignUp(t *testing.T) {
	valid := domain.SignUpCommand{
		FirstName:       "Ada",
		LastName:        "Lovelace",
		Phone:           "0102030405",
		Address:         "12 Analytical St",
		Email:           "ada@example.com",
		Password:        "secret",
		ConfirmPassword: "secret",
	}
	tests := []struct {
		name    string
		mutate  func(c *domain.SignUpCommand)
		wantErr error
	}{
		{"Valid request", func(*domain.SignUpCommand) {}, nil},
		{"Blank first name", func(c *domain.SignUpCommand) { c.FirstName = "   " }, errors.ErrMissingFields},
		{"Missing confirmation", func(c *domain.SignUpCommand) { c.ConfirmPassword = "" }, errors.ErrMissingFields},
		{"Password too short", func(c *domain.SignUpCommand) { c.Password, c.ConfirmPassword = "abc", "abc" }, errors.ErrWeakPassword},
		{"Short and mismatched", func(c *domain.SignUpCommand) { c.Password = "abc" }, errors.ErrWeakPassword},
		{"Mismatch", func(c *domain.SignUpCommand) { c.ConfirmPassword = "secret2" }, errors.ErrPasswordMismatch},
		{"Invalid email", func(c *domain.SignUpCommand) { c.Email = "not-an-email" }, errors.ErrInvalidEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			cmd := valid
			tt.mutate(&cmd)
			_, err := ValidateSignUp(cmd)
			if tt.wantErr == nil {
				req.NoError(err)
				return
			}
			req.ErrorIs(err, tt.wantErr)
			req.ErrorIs(err, errors.ErrValidation)
		})
	}
}

func TestTokenIssuer(t *testing.T) {
	req := require.New(t)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	issuer, err := NewTokenIssuer(strings.Repeat("k", 32), time.Hour, clock)
	req.NoError(err)

	token, err := issuer.Generate("u1", "ada@example.com")
	req.NoError(err)

	claims, err := issuer.Validate(token)
	req.NoError(err)
	req.Equal("u1", claims.UserID)
	req.Equal("ada@example.com", claims.Email)

	// Expired once the clock moves past the duration
	now = now.Add(2 * time.Hour)
	_, err = issuer.Validate(token)
	req.Error(err)
}

func TestTokenIssuer_Rejects_Foreign_Signature(t *testing.T) {
	req := require.New(t)
	clock := time.Now
	mine, err := NewTokenIssuer(strings.Repeat("a", 32), time.Hour, clock)
	req.NoError(err)
	theirs, err := NewTokenIssuer(strings.Repeat("b", 32), time.Hour, clock)
	req.NoError(err)

	token, err := theirs.Generate("u1", "ada@example.com")
	req.NoError(err)

	_, err = mine.Validate(token)
	req.Error(err)
}

func TestNewTokenIssuer_Short_Secret(t *testing.T) {
	_, err := NewTokenIssuer("short", time.Hour, time.Now)
	require.Error(t, err)
}

func BenchmarkHashPassword(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = HashPassword("A-very-long-and-complex-password-for-bench-123!")
	}
}
