package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/4ourCEo/Kitly/internal/apperror"
	"github.com/4ourCEo/Kitly/internal/client"
	"github.com/4ourCEo/Kitly/internal/model"
	"github.com/4ourCEo/Kitly/internal/repository"
	"github.com/4ourCEo/Kitly/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- mock google client ----

type mockGoogleClient struct {
	token    *client.GoogleToken
	tokenErr error
	info     *client.GoogleUserInfo
	infoErr  error
}

func (m *mockGoogleClient) AuthorizeURL(state string) string {
	return "https://accounts.google.com/o/oauth2/v2/auth?state=" + state
}
func (m *mockGoogleClient) ExchangeCode(_ context.Context, _ string) (*client.GoogleToken, error) {
	return m.token, m.tokenErr
}
func (m *mockGoogleClient) FetchUserInfo(_ context.Context, _ string) (*client.GoogleUserInfo, error) {
	return m.info, m.infoErr
}

func newAuthService(t *testing.T, google client.GoogleClient) service.AuthService {
	t.Helper()
	db := newTestDB(t)
	if google == nil {
		google = &mockGoogleClient{}
	}
	return service.NewAuthService(repository.NewUserRepository(db), google, "test-secret", time.Hour)
}

func TestSignUpAndSignIn(t *testing.T) {
	svc := newAuthService(t, nil)
	ctx := context.Background()

	signedUp, err := svc.SignUp(ctx, "founder@kitly.app", "hunter22")
	require.NoError(t, err)
	assert.NotEmpty(t, signedUp.Token)
	assert.NotEmpty(t, signedUp.UserID)

	signedIn, err := svc.SignIn(ctx, "founder@kitly.app", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, signedUp.UserID, signedIn.UserID)

	userID, err := svc.ValidateToken(signedIn.Token)
	require.NoError(t, err)
	assert.Equal(t, signedUp.UserID, userID)
}

func TestSignUpDuplicateEmail(t *testing.T) {
	svc := newAuthService(t, nil)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "founder@kitly.app", "hunter22")
	require.NoError(t, err)

	_, err = svc.SignUp(ctx, "founder@kitly.app", "other-password")
	assert.Equal(t, apperror.KindInvalidRequest, apperror.KindOf(err))
}

func TestSignInWrongPassword(t *testing.T) {
	svc := newAuthService(t, nil)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "founder@kitly.app", "hunter22")
	require.NoError(t, err)

	_, err = svc.SignIn(ctx, "founder@kitly.app", "wrong")
	assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))

	_, err = svc.SignIn(ctx, "nobody@kitly.app", "hunter22")
	assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := newAuthService(t, nil)

	_, err := svc.ValidateToken("not-a-token")
	assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))
}

func TestGoogleSignInCreatesUserOnce(t *testing.T) {
	google := &mockGoogleClient{
		token: &client.GoogleToken{AccessToken: "ya29.test"},
		info:  &client.GoogleUserInfo{Sub: "g-123", Email: "founder@kitly.app"},
	}
	svc := newAuthService(t, google)
	ctx := context.Background()

	first, err := svc.CompleteGoogleSignIn(ctx, "auth-code")
	require.NoError(t, err)
	assert.Equal(t, "founder@kitly.app", first.Email)

	second, err := svc.CompleteGoogleSignIn(ctx, "auth-code")
	require.NoError(t, err)
	assert.Equal(t, first.UserID, second.UserID)
}

func TestGoogleSignInLinksExistingAccount(t *testing.T) {
	google := &mockGoogleClient{
		token: &client.GoogleToken{AccessToken: "ya29.test"},
		info:  &client.GoogleUserInfo{Sub: "g-123", Email: "founder@kitly.app"},
	}
	db := newTestDB(t)
	userRepo := repository.NewUserRepository(db)
	svc := service.NewAuthService(userRepo, google, "test-secret", time.Hour)
	ctx := context.Background()

	local, err := svc.SignUp(ctx, "founder@kitly.app", "hunter22")
	require.NoError(t, err)

	linked, err := svc.CompleteGoogleSignIn(ctx, "auth-code")
	require.NoError(t, err)
	assert.Equal(t, local.UserID, linked.UserID)

	user, err := userRepo.FindByEmail(ctx, "founder@kitly.app")
	require.NoError(t, err)
	assert.Equal(t, "google", user.Provider)

	var count int64
	require.NoError(t, db.Model(&model.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGoogleSignInMissingCode(t *testing.T) {
	svc := newAuthService(t, nil)

	_, err := svc.CompleteGoogleSignIn(context.Background(), "")
	assert.Equal(t, apperror.KindInvalidRequest, apperror.KindOf(err))
}
