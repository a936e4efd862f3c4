package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/alexvillacis/instituciones-app/models"
	"github.com/alexvillacis/instituciones-app/utils"
)

// errRetryLookup signals that a concurrent login created the user between
// our read and our insert; the retry re-reads and links instead.
var errRetryLookup = errors.New("user created concurrently")

// AuthService resolves social-provider assertions to local accounts and
// issues session tokens. Verifiers are constructed once at startup and
// reused for the process lifetime.
type AuthService struct {
	db        *gorm.DB
	roles     *RoleService
	mailer    Mailer
	verifiers map[string]IdentityVerifier
	outlook   *OutlookFlow
	secret    string
}

func NewAuthService(db *gorm.DB, roles *RoleService, mailer Mailer, verifiers map[string]IdentityVerifier, outlook *OutlookFlow, secret string) *AuthService {
	return &AuthService{
		db:        db,
		roles:     roles,
		mailer:    mailer,
		verifiers: verifiers,
		outlook:   outlook,
		secret:    secret,
	}
}

// SocialLogin verifies the provider assertion and resolves it to a user,
// creating or linking the account as needed.
func (s *AuthService) SocialLogin(ctx context.Context, provider, assertion string) *utils.APIResponse {
	verifier, ok := s.verifiers[provider]
	if !ok {
		return utils.Response(400, "Unknown provider: "+provider, nil, nil)
	}

	identity, err := verifier.Verify(ctx, assertion)
	if err != nil {
		return utils.Response(401, "Social token verification failed.", nil, err.Error())
	}
	return s.completeLogin(ctx, identity)
}

// OutlookAuthorizationURL starts the two-step Outlook flow.
func (s *AuthService) OutlookAuthorizationURL(ctx context.Context) *utils.APIResponse {
	url, state, err := s.outlook.AuthorizationURL(ctx)
	if err != nil {
		return utils.Response(500, "ERROR", nil, err.Error())
	}
	return utils.Response(200, "", map[string]interface{}{"url": url, "state": state}, nil)
}

// OutlookLogin finishes the two-step Outlook flow.
func (s *AuthService) OutlookLogin(ctx context.Context, code, state string) *utils.APIResponse {
	identity, err := s.outlook.Exchange(ctx, code, state)
	if err != nil {
		return utils.Response(401, "Outlook login failed.", nil, err.Error())
	}
	return s.completeLogin(ctx, identity)
}

// PasswordLogin authenticates with email and password.
func (s *AuthService) PasswordLogin(ctx context.Context, email, password string) *utils.APIResponse {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.Response(401, "Invalid credentials.", nil, nil)
	}
	if err != nil {
		return utils.Response(500, "ERROR", nil, err.Error())
	}
	if user.Password == "" || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return utils.Response(401, "Invalid credentials.", nil, nil)
	}
	return s.respondWithTokens(&user)
}

// Logout is stateless: tokens expire on their own, the client drops them.
func (s *AuthService) Logout() *utils.APIResponse {
	return utils.Response(200, "Logout successful.", nil, nil)
}

func (s *AuthService) completeLogin(ctx context.Context, identity *Identity) *utils.APIResponse {
	user, created, err := s.reconcile(ctx, identity)
	if err != nil {
		return utils.Response(500, "ERROR", nil, err.Error())
	}

	if created {
		sendMail(s.mailer, user.Email, "Nuevo usuario registrado", "welcome.html", map[string]interface{}{
			"name":      user.Name,
			"last_name": user.LastName,
			"email":     user.Email,
		})
	} else {
		sendMail(s.mailer, user.Email, "Inicio de sesión en tu cuenta", "session_notification.html", map[string]interface{}{
			"name":      user.Name,
			"last_name": user.LastName,
			"provider":  identity.Provider,
		})
	}

	return s.respondWithTokens(user)
}

// reconcile maps the identity to exactly one user. The read-then-create runs
// inside a transaction and leans on the unique email index: when a
// concurrent first login wins the insert, the duplicate-key error sends us
// back around to the read path, so at most one user exists per email.
func (s *AuthService) reconcile(ctx context.Context, identity *Identity) (*models.User, bool, error) {
	for attempt := 0; attempt < 2; attempt++ {
		user, created, err := s.reconcileOnce(ctx, identity)
		if errors.Is(err, errRetryLookup) {
			continue
		}
		return user, created, err
	}
	return nil, false, errors.New("could not resolve user for " + identity.Email)
}

func (s *AuthService) reconcileOnce(ctx context.Context, identity *Identity) (*models.User, bool, error) {
	var user models.User
	created := false

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Preload("SocialNetworks").Where("email = ?", identity.Email).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			defaultRole, roleErr := s.roles.GetDefaultRole()
			if roleErr != nil {
				return roleErr
			}
			if defaultRole == nil {
				return errors.New("no default role found")
			}

			user = models.User{
				Name:     identity.Name,
				LastName: identity.LastName,
				Email:    identity.Email,
				Verified: true,
				Status:   true,
				RoleID:   defaultRole.ID,
				Photo:    identity.Picture,
			}
			if createErr := tx.Create(&user).Error; createErr != nil {
				if isDuplicateKey(createErr) {
					return errRetryLookup
				}
				return createErr
			}
			created = true
		} else if err != nil {
			return err
		}

		for _, network := range user.SocialNetworks {
			if network.Provider == identity.Provider && network.ProviderID == identity.ProviderID {
				// Known identity, pure login.
				return nil
			}
		}

		network := models.SocialNetwork{
			Provider:   identity.Provider,
			ProviderID: identity.ProviderID,
			ProfileURL: identity.Picture,
			UserID:     user.ID,
		}
		if err := tx.Create(&network).Error; err != nil {
			if isDuplicateKey(err) {
				// The identity is already linked, possibly to another user.
				return nil
			}
			return err
		}
		user.SocialNetworks = append(user.SocialNetworks, network)
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return &user, created, nil
}

func (s *AuthService) respondWithTokens(user *models.User) *utils.APIResponse {
	var role models.Role
	if err := s.db.First(&role, user.RoleID).Error; err != nil {
		return utils.Response(500, "Failed to fetch role.", nil, err.Error())
	}

	claims := jwt.MapClaims{
		"id":      user.ID,
		"email":   user.Email,
		"role":    role.Name,
		"role_id": role.ID,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.secret))
	if err != nil {
		return utils.Response(500, "Failed to generate token.", nil, err.Error())
	}

	refreshClaims := jwt.MapClaims{
		"id":    user.ID,
		"email": user.Email,
		"exp":   time.Now().Add(7 * 24 * time.Hour).Unix(),
	}
	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString([]byte(s.secret))
	if err != nil {
		return utils.Response(500, "Failed to generate refresh token.", nil, err.Error())
	}

	return utils.Response(200, "Login successful.", map[string]interface{}{
		"token":        accessToken,
		"refreshToken": refreshToken,
		"user": map[string]interface{}{
			"id":      user.ID,
			"name":    user.Name,
			"email":   user.Email,
			"role":    role.Name,
			"role_id": role.ID,
		},
	}, nil)
}
