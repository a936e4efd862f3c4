package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/microsoft"

	"github.com/alexvillacis/instituciones-app/utils"
)

const outlookStateTTL = 10 * time.Minute

// OutlookFlow drives the two-step Microsoft login: an authorization URL with
// a PKCE challenge, then a code exchange plus a Graph profile fetch. The
// code verifier lives in redis between the two steps, keyed by state, so the
// callback can land on any instance.
type OutlookFlow struct {
	config *oauth2.Config
	states *redis.Client
}

func NewOutlookFlow(states *redis.Client) *OutlookFlow {
	tenant := os.Getenv("OUTLOOK_TENANT_ID")
	return &OutlookFlow{
		config: &oauth2.Config{
			ClientID:     os.Getenv("OUTLOOK_CLIENT_ID"),
			ClientSecret: os.Getenv("OUTLOOK_CLIENT_SECRET"),
			RedirectURL:  os.Getenv("OUTLOOK_REDIRECT_URI"),
			Scopes:       []string{"user.read", "offline_access"},
			Endpoint:     microsoft.AzureADEndpoint(tenant),
		},
		states: states,
	}
}

// AuthorizationURL returns the consent URL the client must visit. The PKCE
// verifier is stored under the returned state for the callback step.
func (f *OutlookFlow) AuthorizationURL(ctx context.Context) (string, string, error) {
	verifier := oauth2.GenerateVerifier()
	state := utils.GenerateState()

	key := "oauth:outlook:" + state
	if err := f.states.Set(ctx, key, verifier, outlookStateTTL).Err(); err != nil {
		return "", "", fmt.Errorf("failed to store PKCE verifier: %w", err)
	}

	url := f.config.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
	return url, state, nil
}

// Exchange redeems the authorization code using the stored PKCE verifier and
// resolves the Microsoft Graph profile behind the token.
func (f *OutlookFlow) Exchange(ctx context.Context, code, state string) (*Identity, error) {
	verifier, err := f.states.GetDel(ctx, "oauth:outlook:"+state).Result()
	if err != nil {
		return nil, errors.New("unknown or expired authorization state")
	}

	token, err := f.config.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	client := f.config.Client(ctx, token)
	resp, err := client.Get("https://graph.microsoft.com/v1.0/me")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch Microsoft profile: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Microsoft profile request rejected: %s", resp.Status)
	}

	var profile struct {
		ID                string `json:"id"`
		GivenName         string `json:"givenName"`
		Surname           string `json:"surname"`
		Mail              string `json:"mail"`
		UserPrincipalName string `json:"userPrincipalName"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode Microsoft profile: %w", err)
	}

	email := profile.Mail
	if email == "" {
		email = profile.UserPrincipalName
	}
	if email == "" {
		return nil, errors.New("profile carries no email")
	}

	return &Identity{
		Provider:   "outlook",
		ProviderID: profile.ID,
		Email:      email,
		Name:       profile.GivenName,
		LastName:   profile.Surname,
	}, nil
}
