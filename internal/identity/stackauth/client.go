package stackauth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kamrel/kamrel/internal/config"
	"go.uber.org/zap"
)

// User is the identity provider's view of a user.
type User struct {
	ID              string `json:"id"`
	PrimaryEmail    string `json:"primary_email"`
	DisplayName     string `json:"display_name"`
	ProfileImageURL string `json:"profile_image_url"`
	SelectedTeamID  string `json:"selected_team_id"`
}

// Team is the identity provider's view of a team.
type Team struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Client calls the Stack Auth server API.
type Client struct {
	baseURL         string
	projectID       string
	secretServerKey string
	http            *http.Client
	log             *zap.Logger
}

func New(cfg config.Config, log *zap.Logger) *Client {
	return &Client{
		baseURL:         strings.TrimRight(cfg.StackAuth.BaseURL, "/"),
		projectID:       cfg.StackAuth.ProjectID,
		secretServerKey: cfg.StackAuth.SecretServerKey,
		http:            &http.Client{Timeout: 10 * time.Second},
		log:             log.Named("stackauth.client"),
	}
}

// ExchangeCode trades an authorization code for an access token.
func (c *Client) ExchangeCode(ctx context.Context, code string) (string, error) {
	body := map[string]string{
		"grant_type": "authorization_code",
		"code":       strings.TrimSpace(code),
	}
	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/oauth/token", "", body, &out); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", fmt.Errorf("stackauth: empty access token")
	}
	return out.AccessToken, nil
}

// CurrentUser resolves the user behind an access token.
func (c *Client) CurrentUser(ctx context.Context, accessToken string) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/api/v1/users/me", accessToken, nil, &user); err != nil {
		return nil, err
	}
	if user.ID == "" {
		return nil, fmt.Errorf("stackauth: user response missing id")
	}
	return &user, nil
}

// ListTeams lists teams the user belongs to.
func (c *Client) ListTeams(ctx context.Context, userID string) ([]Team, error) {
	var out struct {
		Items []Team `json:"items"`
	}
	path := fmt.Sprintf("/api/v1/teams?user_id=%s", strings.TrimSpace(userID))
	if err := c.do(ctx, http.MethodGet, path, "", nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// CreateTeam creates a team and adds the user to it.
func (c *Client) CreateTeam(ctx context.Context, userID, displayName string) (*Team, error) {
	body := map[string]string{
		"display_name":    strings.TrimSpace(displayName),
		"creator_user_id": strings.TrimSpace(userID),
	}
	var team Team
	if err := c.do(ctx, http.MethodPost, "/api/v1/teams", "", body, &team); err != nil {
		return nil, err
	}
	if team.ID == "" {
		return nil, fmt.Errorf("stackauth: team response missing id")
	}
	return &team, nil
}

func (c *Client) do(ctx context.Context, method, path, accessToken string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Stack-Access-Type", "server")
	req.Header.Set("X-Stack-Project-Id", c.projectID)
	req.Header.Set("X-Stack-Secret-Server-Key", c.secretServerKey)
	if accessToken != "" {
		req.Header.Set("X-Stack-Access-Token", accessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log.Warn("identity provider request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return fmt.Errorf("stackauth: %s %s returned %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
