package github

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/appforge/clientportal/internal/config"
	"github.com/appforge/clientportal/internal/pkg/apperr"
	"github.com/appforge/clientportal/internal/pkg/metrics"
	"github.com/bytedance/sonic"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// OAuthApp is the portal's registered OAuth application.
type OAuthApp struct {
	conf       *oauth2.Config
	httpClient *http.Client
	log        *zap.Logger
}

func NewOAuthApp(cfg *config.Config, log *zap.Logger) *OAuthApp {
	timeout := time.Duration(cfg.GitHub.RequestTimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &OAuthApp{
		conf: &oauth2.Config{
			ClientID:     cfg.GitHub.ClientID,
			ClientSecret: cfg.GitHub.ClientSecret,
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.GitHub.AuthorizeURL,
				TokenURL: cfg.GitHub.TokenURL,
			},
			Scopes: []string{cfg.GitHub.Scope},
		},
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

func (a *OAuthApp) AuthCodeURL(state string) string {
	return a.conf.AuthCodeURL(state)
}

type exchangeRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	Code         string `json:"code"`
}

type exchangeResponse struct {
	AccessToken      string `json:"access_token"`
	TokenType        string `json:"token_type"`
	Scope            string `json:"scope"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// Exchange trades an authorization code for an access token. The token
// endpoint reports a rejected code with HTTP 200 and an error body, which is
// returned as *apperr.OAuthError.
func (a *OAuthApp) Exchange(ctx context.Context, code string) (string, error) {
	body, err := sonic.Marshal(exchangeRequest{
		ClientID:     a.conf.ClientID,
		ClientSecret: a.conf.ClientSecret,
		Code:         code,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.conf.Endpoint.TokenURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := a.httpClient.Do(req)
	metrics.RecordProviderCall("oauth_exchange", err, time.Since(start))
	if err != nil {
		return "", fmt.Errorf("%w: %w", apperr.ErrOAuthExchangeFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response body: %w", apperr.ErrOAuthExchangeFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		a.log.Error("oauth token exchange failed",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(respBody)))
		return "", fmt.Errorf("%w: status %d", apperr.ErrOAuthExchangeFailed, resp.StatusCode)
	}

	var out exchangeResponse
	if err := sonic.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("%w: unmarshal response: %w", apperr.ErrOAuthExchangeFailed, err)
	}
	if out.Error != "" {
		return "", &apperr.OAuthError{Code: out.Error, Description: out.ErrorDescription}
	}
	if out.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token", apperr.ErrOAuthExchangeFailed)
	}
	return out.AccessToken, nil
}
