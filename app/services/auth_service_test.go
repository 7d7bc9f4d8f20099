package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/priyamehta/aarohi/app/services"
	"github.com/priyamehta/aarohi/pkg/apperr"
	"github.com/priyamehta/aarohi/pkg/auth"
)

func registerInput() services.RegisterInput {
	return services.RegisterInput{
		Username:  "asha_v",
		FirstName: "Asha",
		LastName:  "Verma",
		Email:     "asha@example.com",
		Password:  "s3cret-password",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc := services.NewAuthService(newFakeUsers())
	ctx := context.Background()

	res, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "user", res.User.Role)
	assert.NotEqual(t, "s3cret-password", res.User.Password, "password must be stored hashed")

	logged, err := svc.Login(ctx, services.LoginInput{Email: "asha@example.com", Password: "s3cret-password"})
	require.NoError(t, err)
	assert.NotEmpty(t, logged.Token)
	assert.NotNil(t, logged.User.LastLogin)

	claims, err := auth.ValidateToken(logged.Token)
	require.NoError(t, err)
	assert.Equal(t, logged.User.ID.Hex(), claims.UserID)
}

func TestRegisterEmailConflict(t *testing.T) {
	svc := services.NewAuthService(newFakeUsers())
	ctx := context.Background()

	_, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)

	in := registerInput()
	in.Username = "someone_else"
	_, err = svc.Register(ctx, in)
	assert.True(t, apperr.IsConflict(err), "got %v", err)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := services.NewAuthService(newFakeUsers())
	ctx := context.Background()

	_, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)

	_, err = svc.Login(ctx, services.LoginInput{Email: "asha@example.com", Password: "wrong"})
	assert.True(t, apperr.IsInvalid(err), "got %v", err)

	// Unknown email fails identically.
	_, err = svc.Login(ctx, services.LoginInput{Email: "nobody@example.com", Password: "wrong"})
	assert.True(t, apperr.IsInvalid(err), "got %v", err)
}

func TestUpdateProfilePartial(t *testing.T) {
	svc := services.NewAuthService(newFakeUsers())
	ctx := context.Background()

	res, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)

	first := "Aasha"
	updated, err := svc.UpdateProfile(ctx, res.User.ID.Hex(), services.UpdateProfileInput{FirstName: &first})
	require.NoError(t, err)
	assert.Equal(t, "Aasha", updated.FirstName)
	assert.Equal(t, "Verma", updated.LastName, "untouched field preserved")
}
