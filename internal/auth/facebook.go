package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
)

// defaultGraphURL is the Facebook Graph API endpoint for the token's owner.
const defaultGraphURL = "https://graph.facebook.com/v19.0/me"

// FacebookUser is the portion of the Graph /me response we care about.
type FacebookUser struct {
	ID   string `json:"id"` // Facebook's user ID, stable across logins
	Name string `json:"name"`
}

// FacebookVerifier resolves a client-supplied Facebook access token to the
// Facebook user it belongs to.
//
// The client app performs the Facebook login itself and sends us the
// resulting access token; we only confirm whose token it is by asking the
// Graph API. There is no authorization-code exchange on this side.
type FacebookVerifier struct {
	graphURL string
}

// NewFacebookVerifier creates a verifier against the real Graph API.
func NewFacebookVerifier() *FacebookVerifier {
	return &FacebookVerifier{graphURL: defaultGraphURL}
}

// NewFacebookVerifierForTest creates a verifier pointed at a test server.
func NewFacebookVerifierForTest(graphURL string) *FacebookVerifier {
	return &FacebookVerifier{graphURL: graphURL}
}

// RemoteID calls the Graph API with the supplied token and returns the
// Facebook user ID it belongs to. Network and API failures come back as
// plain errors; the caller must not reclassify them as a permission
// problem with the token's owner.
func (v *FacebookVerifier) RemoteID(ctx context.Context, accessToken string) (string, error) {
	// oauth2.NewClient wraps the transport so the token rides along as the
	// Authorization header on every request.
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: accessToken},
	))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.graphURL+"?fields=id,name", nil)
	if err != nil {
		return "", fmt.Errorf("auth: building Graph API request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("auth: calling Graph API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("auth: Graph API returned status %d", resp.StatusCode)
	}

	var fbUser FacebookUser
	if err := json.NewDecoder(resp.Body).Decode(&fbUser); err != nil {
		return "", fmt.Errorf("auth: decoding Graph API response: %w", err)
	}

	if fbUser.ID == "" {
		return "", fmt.Errorf("auth: Graph API returned an empty user ID")
	}

	return fbUser.ID, nil
}
