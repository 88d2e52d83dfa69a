package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/daymark/daymark/internal/config"
	userdomain "github.com/daymark/daymark/internal/user/domain"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const userinfoEndpoint = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleAuthenticator drives the OAuth code flow against Google and
// resolves the signed-in identity.
type GoogleAuthenticator struct {
	oauth *oauth2.Config
}

func NewGoogleAuthenticator(cfg config.Config) *GoogleAuthenticator {
	return &GoogleAuthenticator{
		oauth: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
	}
}

// AuthURL returns the consent page URL for the given anti-forgery state.
func (g *GoogleAuthenticator) AuthURL(state string) string {
	return g.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades the callback code for a token and fetches the
// profile behind it.
func (g *GoogleAuthenticator) Exchange(ctx context.Context, code string) (userdomain.Identity, error) {
	token, err := g.oauth.Exchange(ctx, code)
	if err != nil {
		return userdomain.Identity{}, fmt.Errorf("exchange code: %w", err)
	}

	client := g.oauth.Client(ctx, token)
	resp, err := client.Get(userinfoEndpoint)
	if err != nil {
		return userdomain.Identity{}, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return userdomain.Identity{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return userdomain.Identity{}, fmt.Errorf("userinfo returned %d", resp.StatusCode)
	}

	var info struct {
		ID         string `json:"id"`
		Email      string `json:"email"`
		GivenName  string `json:"given_name"`
		FamilyName string `json:"family_name"`
		Picture    string `json:"picture"`
	}
	if err := json.Unmarshal(raw, &info); err != nil {
		return userdomain.Identity{}, err
	}

	return userdomain.Identity{
		GoogleID:  info.ID,
		Email:     info.Email,
		FirstName: info.GivenName,
		LastName:  info.FamilyName,
		Avatar:    info.Picture,
	}, nil
}
