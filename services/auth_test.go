package services

import (
	"context"
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/alexvillacis/instituciones-app/models"
)

const testSecret = "test_secret"

func newAuthFixture(t *testing.T, verifiers map[string]IdentityVerifier) (*AuthService, *gorm.DB, *fakeMailer) {
	t.Helper()
	db := newTestDB(t)
	mailer := &fakeMailer{}
	roles := NewRoleService(db, NewPermissionService(db, mailer), &fakeNotifier{})
	require.NoError(t, db.Create(&models.Role{Name: "user", IsDefault: true}).Error)
	return NewAuthService(db, roles, mailer, verifiers, nil, testSecret), db, mailer
}

func googleIdentity() *Identity {
	return &Identity{
		Provider:   "google",
		ProviderID: "goog-123",
		Email:      "ana@example.com",
		Name:       "Ana",
		LastName:   "Lopez",
		Picture:    "https://example.com/ana.png",
	}
}

func TestSocialLoginCreatesVerifiedUser(t *testing.T) {
	svc, db, mailer := newAuthFixture(t, map[string]IdentityVerifier{
		"google": &stubVerifier{identity: googleIdentity()},
	})

	resp := svc.SocialLogin(context.Background(), "google", "id-token")
	require.Equal(t, 200, resp.Status)

	var user models.User
	require.NoError(t, db.Preload("SocialNetworks").Where("email = ?", "ana@example.com").First(&user).Error)
	assert.True(t, user.Verified)
	assert.True(t, user.Status)
	require.Len(t, user.SocialNetworks, 1)
	assert.Equal(t, "goog-123", user.SocialNetworks[0].ProviderID)
	assert.Equal(t, 1, mailer.countTemplate("welcome.html"))

	payload := resp.Data.(map[string]interface{})
	assert.NotEmpty(t, payload["token"])
	assert.NotEmpty(t, payload["refreshToken"])
}

func TestSocialLoginIsIdempotent(t *testing.T) {
	svc, db, mailer := newAuthFixture(t, map[string]IdentityVerifier{
		"google": &stubVerifier{identity: googleIdentity()},
	})

	require.Equal(t, 200, svc.SocialLogin(context.Background(), "google", "id-token").Status)
	require.Equal(t, 200, svc.SocialLogin(context.Background(), "google", "id-token").Status)

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.EqualValues(t, 1, users)
	var networks int64
	require.NoError(t, db.Model(&models.SocialNetwork{}).Count(&networks).Error)
	assert.EqualValues(t, 1, networks)

	assert.Equal(t, 1, mailer.countTemplate("welcome.html"))
	assert.Equal(t, 1, mailer.countTemplate("session_notification.html"))
}

func TestSocialLoginLinksSecondProviderToSameAccount(t *testing.T) {
	facebook := &Identity{
		Provider:   "facebook",
		ProviderID: "fb-456",
		Email:      "ana@example.com",
		Name:       "Ana",
	}
	svc, db, _ := newAuthFixture(t, map[string]IdentityVerifier{
		"google":   &stubVerifier{identity: googleIdentity()},
		"facebook": &stubVerifier{identity: facebook},
	})

	require.Equal(t, 200, svc.SocialLogin(context.Background(), "google", "t1").Status)
	require.Equal(t, 200, svc.SocialLogin(context.Background(), "facebook", "t2").Status)

	var user models.User
	require.NoError(t, db.Preload("SocialNetworks").Where("email = ?", "ana@example.com").First(&user).Error)
	assert.Len(t, user.SocialNetworks, 2)
}

func TestSocialLoginUnknownProvider(t *testing.T) {
	svc, _, _ := newAuthFixture(t, map[string]IdentityVerifier{})

	resp := svc.SocialLogin(context.Background(), "myspace", "token")
	assert.Equal(t, 400, resp.Status)
}

func TestSocialLoginVerificationFailure(t *testing.T) {
	svc, db, _ := newAuthFixture(t, map[string]IdentityVerifier{
		"google": &stubVerifier{err: errors.New("token expired")},
	})

	resp := svc.SocialLogin(context.Background(), "google", "stale")
	assert.Equal(t, 401, resp.Status)

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.Zero(t, users)
}

func TestSocialLoginWithoutDefaultRole(t *testing.T) {
	db := newTestDB(t)
	roles := NewRoleService(db, NewPermissionService(db, &fakeMailer{}), &fakeNotifier{})
	svc := NewAuthService(db, roles, &fakeMailer{}, map[string]IdentityVerifier{
		"google": &stubVerifier{identity: googleIdentity()},
	}, nil, testSecret)

	resp := svc.SocialLogin(context.Background(), "google", "id-token")
	assert.Equal(t, 500, resp.Status)
}

func TestAccessTokenCarriesRoleClaims(t *testing.T) {
	svc, _, _ := newAuthFixture(t, map[string]IdentityVerifier{
		"google": &stubVerifier{identity: googleIdentity()},
	})

	resp := svc.SocialLogin(context.Background(), "google", "id-token")
	require.Equal(t, 200, resp.Status)
	raw := resp.Data.(map[string]interface{})["token"].(string)

	token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "ana@example.com", claims["email"])
	assert.Equal(t, "user", claims["role"])
}

func TestPasswordLogin(t *testing.T) {
	svc, db, _ := newAuthFixture(t, nil)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	require.NoError(t, err)
	var role models.Role
	require.NoError(t, db.Where("is_default = ?", true).First(&role).Error)
	require.NoError(t, db.Create(&models.User{
		Name: "Ana", Email: "ana@example.com", Password: string(hash), RoleID: role.ID,
	}).Error)

	assert.Equal(t, 200, svc.PasswordLogin(context.Background(), "ana@example.com", "secret123").Status)
	assert.Equal(t, 401, svc.PasswordLogin(context.Background(), "ana@example.com", "wrong").Status)
	assert.Equal(t, 401, svc.PasswordLogin(context.Background(), "nobody@example.com", "secret123").Status)
}

func TestPasswordLoginRejectedForSocialOnlyAccount(t *testing.T) {
	svc, db, _ := newAuthFixture(t, map[string]IdentityVerifier{
		"google": &stubVerifier{identity: googleIdentity()},
	})
	require.Equal(t, 200, svc.SocialLogin(context.Background(), "google", "id-token").Status)

	var user models.User
	require.NoError(t, db.Where("email = ?", "ana@example.com").First(&user).Error)
	require.Empty(t, user.Password)

	assert.Equal(t, 401, svc.PasswordLogin(context.Background(), "ana@example.com", "anything").Status)
}
