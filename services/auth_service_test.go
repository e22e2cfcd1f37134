package services

import (
	"context"
	"testing"

	"github.com/Dosada05/bracket-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthService() (AuthService, *fakeUserRepo) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo).(*authService)
	svc.cost = bcrypt.MinCost
	return svc, repo
}

func TestRegister(t *testing.T) {
	svc, repo := newTestAuthService()
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Email: " Host@Example.com", Password: "supersecret", Role: models.RoleHost})
	require.NoError(t, err)
	assert.Equal(t, "host@example.com", user.Email)
	assert.Equal(t, models.RoleHost, user.Role)
	assert.Empty(t, user.PasswordHash)

	stored, err := repo.GetByEmail(ctx, "host@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "supersecret", stored.PasswordHash)

	viewer, err := svc.Register(ctx, RegisterInput{Email: "fan@example.com", Password: "supersecret"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleViewer, viewer.Role)
}

func TestRegister_Rejects(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterInput{Email: "taken@example.com", Password: "supersecret"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		input RegisterInput
		want  error
	}{
		{"bad email", RegisterInput{Email: "not-an-email", Password: "supersecret"}, ErrInvalidEmail},
		{"short password", RegisterInput{Email: "a@example.com", Password: "short"}, ErrPasswordTooShort},
		{"unknown role", RegisterInput{Email: "b@example.com", Password: "supersecret", Role: "admin"}, ErrInvalidRole},
		{"duplicate email", RegisterInput{Email: "TAKEN@example.com", Password: "supersecret"}, ErrAuthEmailTaken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLogin(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()
	registered, err := svc.Register(ctx, RegisterInput{Email: "host@example.com", Password: "supersecret", Role: models.RoleHost})
	require.NoError(t, err)

	user, err := svc.Login(ctx, LoginInput{Email: "HOST@example.com", Password: "supersecret"})
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.Empty(t, user.PasswordHash)

	_, err = svc.Login(ctx, LoginInput{Email: "host@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrAuthInvalidCredentials)

	_, err = svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "supersecret"})
	assert.ErrorIs(t, err, ErrAuthInvalidCredentials)
}
