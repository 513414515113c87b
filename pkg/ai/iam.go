package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

const iamGrantType = "urn:ibm:params:oauth:grant-type:apikey"

// iamTokenSource exchanges an IBM Cloud API key for a bearer token
type iamTokenSource struct {
	tokenURL string
	apiKey   string
	client   *http.Client
}

type iamTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	Expiration   int64  `json:"expiration"`
}

// NewIAMTokenSource returns a caching token source for the given API key.
// Tokens are reused until shortly before they expire.
func NewIAMTokenSource(tokenURL, apiKey string, timeout time.Duration) oauth2.TokenSource {
	return oauth2.ReuseTokenSource(nil, &iamTokenSource{
		tokenURL: tokenURL,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
	})
}

// NewIAMHTTPClient returns an http.Client that authenticates every request
// with an IAM bearer token
func NewIAMHTTPClient(tokenURL, apiKey string, timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &oauth2.Transport{
			Source: NewIAMTokenSource(tokenURL, apiKey, 30*time.Second),
			Base:   http.DefaultTransport,
		},
	}
}

// Token implements oauth2.TokenSource
func (s *iamTokenSource) Token() (*oauth2.Token, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("iam: api key is empty")
	}

	form := url.Values{}
	form.Set("grant_type", iamGrantType)
	form.Set("apikey", s.apiKey)

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, s.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("iam: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("iam: request token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, statusError("iam", resp)
	}

	var tr iamTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("iam: decode token: %w", err)
	}
	if tr.AccessToken == "" {
		return nil, fmt.Errorf("iam: empty access token")
	}

	token := &oauth2.Token{
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
		TokenType:    "Bearer",
	}
	switch {
	case tr.Expiration > 0:
		token.Expiry = time.Unix(tr.Expiration, 0)
	case tr.ExpiresIn > 0:
		token.Expiry = time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	}
	return token, nil
}
