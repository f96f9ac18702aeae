package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gbpdash/backend/internal/domain/integration"
	"github.com/gbpdash/backend/internal/infrastructure/config"
	"golang.org/x/oauth2"
)

var _ integration.OAuthProvider = (*OAuthClient)(nil)

// OAuthClient implements integration.OAuthProvider against Google's
// authorization server
type OAuthClient struct {
	oauth       *oauth2.Config
	userInfoURL string
	revokeURL   string
	transport   *transport
}

// NewOAuthClient creates the client. ClientID, ClientSecret and RedirectURL
// are required.
func NewOAuthClient(cfg config.GoogleConfig, opts ...Option) (*OAuthClient, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("%w: google client id and secret are required", integration.ErrPlatformNotConfigured)
	}
	if cfg.RedirectURL == "" {
		return nil, fmt.Errorf("%w: google redirect url is required", integration.ErrPlatformNotConfigured)
	}
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = integration.DefaultScopes
	}
	return &OAuthClient{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.AuthURL,
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		userInfoURL: cfg.UserInfoURL,
		revokeURL:   cfg.RevokeURL,
		transport:   newTransport(cfg, opts...),
	}, nil
}

// AuthCodeURL requests offline access with forced consent so Google always
// returns a refresh token
func (c *OAuthClient) AuthCodeURL(state, codeChallenge string) string {
	return c.oauth.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.ApprovalForce,
		oauth2.SetAuthURLParam("include_granted_scopes", "true"),
		oauth2.SetAuthURLParam("code_challenge", codeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)
}

// Exchange trades the authorization code for tokens
func (c *OAuthClient) Exchange(ctx context.Context, code, codeVerifier string) (*integration.TokenSet, error) {
	token, err := c.oauth.Exchange(c.withClient(ctx), code, oauth2.VerifierOption(codeVerifier))
	if err != nil {
		return nil, mapTokenError(err)
	}
	return toTokenSet(token, ""), nil
}

// Refresh obtains a new access token
func (c *OAuthClient) Refresh(ctx context.Context, refreshToken string) (*integration.TokenSet, error) {
	if refreshToken == "" {
		return nil, integration.ErrPlatformInvalidGrant
	}
	source := c.oauth.TokenSource(c.withClient(ctx), &oauth2.Token{RefreshToken: refreshToken})
	token, err := source.Token()
	if err != nil {
		return nil, mapTokenError(err)
	}
	return toTokenSet(token, refreshToken), nil
}

type userInfoResponse struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

// UserInfo reads the OpenID Connect profile
func (c *OAuthClient) UserInfo(ctx context.Context, accessToken string) (*integration.UserInfo, error) {
	var resp userInfoResponse
	if err := c.transport.do(ctx, call{
		method:      http.MethodGet,
		url:         c.userInfoURL,
		accessToken: accessToken,
		out:         &resp,
	}); err != nil {
		return nil, err
	}
	if resp.Subject == "" {
		return nil, fmt.Errorf("%w: userinfo has no subject", integration.ErrPlatformInvalidResponse)
	}
	return &integration.UserInfo{
		Subject:       resp.Subject,
		Email:         resp.Email,
		EmailVerified: resp.EmailVerified,
		Name:          resp.Name,
	}, nil
}

// Revoke invalidates token. Tokens Google no longer knows count as revoked.
func (c *OAuthClient) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.revokeURL,
		strings.NewReader(url.Values{"token": {token}}.Encode()))
	if err != nil {
		return fmt.Errorf("google: failed to create revoke request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.transport.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", integration.ErrPlatformUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := readLimited(resp.Body, c.transport.maxBody)
	if err != nil {
		return err
	}
	switch {
	case resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusBadRequest && strings.Contains(string(body), "invalid_token"):
		return nil
	default:
		return newAPIError(resp, body)
	}
}

func (c *OAuthClient) withClient(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.transport.http)
}

// toTokenSet keeps RefreshToken empty unless Google rotated it
func toTokenSet(token *oauth2.Token, previousRefresh string) *integration.TokenSet {
	set := &integration.TokenSet{
		AccessToken: token.AccessToken,
		TokenType:   token.Type(),
		Expiry:      token.Expiry,
	}
	if token.RefreshToken != previousRefresh {
		set.RefreshToken = token.RefreshToken
	}
	if scope, ok := token.Extra("scope").(string); ok && scope != "" {
		set.Scopes = strings.Fields(scope)
	}
	return set
}

func mapTokenError(err error) error {
	var retrieve *oauth2.RetrieveError
	if !errors.As(err, &retrieve) {
		return fmt.Errorf("%w: %v", integration.ErrPlatformUnavailable, err)
	}
	switch {
	case retrieve.ErrorCode == "invalid_grant":
		return fmt.Errorf("%w: %s", integration.ErrPlatformInvalidGrant, retrieve.ErrorDescription)
	case retrieve.Response != nil && retrieve.Response.StatusCode >= 500:
		return fmt.Errorf("%w: token endpoint returned %d", integration.ErrPlatformUnavailable, retrieve.Response.StatusCode)
	default:
		return fmt.Errorf("%w: %s %s", integration.ErrPlatformAuthFailed, retrieve.ErrorCode, retrieve.ErrorDescription)
	}
}
