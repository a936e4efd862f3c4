package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
)

// Identity is a verified external-provider assertion reduced to the claims
// the reconciler needs.
type Identity struct {
	Provider   string
	ProviderID string
	Email      string
	Name       string
	LastName   string
	Picture    string
}

// IdentityVerifier checks a provider assertion (ID token or access token)
// and extracts the identity behind it.
type IdentityVerifier interface {
	Verify(ctx context.Context, assertion string) (*Identity, error)
}

// OIDCVerifier validates provider-signed ID tokens against the issuer's
// published keys. Covers Google, Google One Tap and Apple. Constructed once
// at startup; stateless and safe for concurrent use afterwards.
type OIDCVerifier struct {
	provider string
	verifier *oidc.IDTokenVerifier
}

func NewOIDCVerifier(ctx context.Context, provider, issuer, clientID string) (*OIDCVerifier, error) {
	oidcProvider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to discover %s provider: %w", provider, err)
	}
	return &OIDCVerifier{
		provider: provider,
		verifier: oidcProvider.Verifier(&oidc.Config{ClientID: clientID}),
	}, nil
}

func (v *OIDCVerifier) Verify(ctx context.Context, rawToken string) (*Identity, error) {
	idToken, err := v.verifier.Verify(ctx, rawToken)
	if err != nil {
		return nil, fmt.Errorf("failed to verify ID token: %w", err)
	}

	var claims struct {
		Email      string `json:"email"`
		Name       string `json:"name"`
		GivenName  string `json:"given_name"`
		FamilyName string `json:"family_name"`
		Picture    string `json:"picture"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("failed to parse claims: %w", err)
	}
	if claims.Email == "" {
		return nil, errors.New("token carries no email claim")
	}

	name := claims.GivenName
	if name == "" {
		name = claims.Name
	}
	return &Identity{
		Provider:   v.provider,
		ProviderID: idToken.Subject,
		Email:      claims.Email,
		Name:       name,
		LastName:   claims.FamilyName,
		Picture:    claims.Picture,
	}, nil
}

// ProfileVerifier resolves an opaque access token by fetching the provider's
// profile endpoint (Facebook Graph, legacy Google userinfo).
type ProfileVerifier struct {
	provider string
	endpoint string
	client   *http.Client
}

func NewProfileVerifier(provider, endpoint string) *ProfileVerifier {
	return &ProfileVerifier{
		provider: provider,
		endpoint: endpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (v *ProfileVerifier) Verify(ctx context.Context, accessToken string) (*Identity, error) {
	endpoint := v.endpoint + "&access_token=" + url.QueryEscape(accessToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s profile: %w", v.provider, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s profile request rejected: %s", v.provider, resp.Status)
	}

	var profile struct {
		ID         string `json:"id"`
		Email      string `json:"email"`
		Name       string `json:"name"`
		GivenName  string `json:"given_name"`
		FamilyName string `json:"family_name"`
		Picture    string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode %s profile: %w", v.provider, err)
	}
	if profile.Email == "" {
		return nil, errors.New("profile carries no email")
	}

	name, lastName := profile.GivenName, profile.FamilyName
	if name == "" {
		// Facebook only returns the full display name.
		name = profile.Name
		if idx := strings.Index(profile.Name, " "); idx > 0 {
			name, lastName = profile.Name[:idx], profile.Name[idx+1:]
		}
	}
	return &Identity{
		Provider:   v.provider,
		ProviderID: profile.ID,
		Email:      profile.Email,
		Name:       name,
		LastName:   lastName,
		Picture:    profile.Picture,
	}, nil
}

// DefaultVerifiers builds the process-wide verifier set from environment
// configuration. Google One Tap credentials are ordinary Google ID tokens,
// so both routes share one verifier.
func DefaultVerifiers(ctx context.Context) (map[string]IdentityVerifier, error) {
	google, err := NewOIDCVerifier(ctx, "google", "https://accounts.google.com", os.Getenv("GOOGLE_CLIENT_ID"))
	if err != nil {
		return nil, err
	}
	apple, err := NewOIDCVerifier(ctx, "apple", "https://appleid.apple.com", os.Getenv("APPLE_CLIENT_ID"))
	if err != nil {
		return nil, err
	}
	return map[string]IdentityVerifier{
		"google":         google,
		"google_one_tap": google,
		"google_plus":    NewProfileVerifier("google_plus", "https://www.googleapis.com/oauth2/v1/userinfo?alt=json"),
		"facebook":       NewProfileVerifier("facebook", "https://graph.facebook.com/me?fields=id,name,email,picture"),
		"apple":          apple,
	}, nil
}
