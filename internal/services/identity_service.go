package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"schedulepro/internal/models"

	"github.com/google/uuid"
)

// IdentityProvider is the external auth provider holding user credentials.
type IdentityProvider interface {
	SignUp(ctx context.Context, email, password string, metadata map[string]any) (*models.AuthUser, *models.AuthSession, error)
	SignInWithPassword(ctx context.Context, email, password string) (*models.AuthUser, *models.AuthSession, error)
	SignOut(ctx context.Context, accessToken string) error
}

// ProviderError is a non-2xx answer from the auth provider.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("auth provider returned %d: %s", e.StatusCode, e.Message)
}

type goTrueClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewIdentityProvider returns a client for a GoTrue compatible REST API
// rooted at baseURL (the /auth/v1 prefix is added by the client).
func NewIdentityProvider(baseURL, apiKey string, httpClient *http.Client) IdentityProvider {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &goTrueClient{
		baseURL: strings.TrimRight(baseURL, "/") + "/auth/v1",
		apiKey:  apiKey,
		http:    httpClient,
	}
}

type goTrueUser struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// goTrueSession covers both the session answer and the bare user answer
// returned by signup when email confirmation is pending.
type goTrueSession struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	TokenType    string      `json:"token_type"`
	ExpiresIn    int         `json:"expires_in"`
	ExpiresAt    int64       `json:"expires_at"`
	User         *goTrueUser `json:"user"`
	ID           uuid.UUID   `json:"id"`
	Email        string      `json:"email"`
}

type goTrueError struct {
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (e goTrueError) text() string {
	for _, s := range []string{e.Msg, e.ErrorDescription, e.Message, e.Error} {
		if s != "" {
			return s
		}
	}
	return ""
}

func (s goTrueSession) split() (*models.AuthUser, *models.AuthSession) {
	user := &models.AuthUser{ID: s.ID, Email: s.Email}
	if s.User != nil {
		user = &models.AuthUser{ID: s.User.ID, Email: s.User.Email}
	}
	if s.AccessToken == "" {
		return user, nil
	}
	return user, &models.AuthSession{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		TokenType:    s.TokenType,
		ExpiresIn:    s.ExpiresIn,
		ExpiresAt:    s.ExpiresAt,
	}
}

func (c *goTrueClient) SignUp(ctx context.Context, email, password string, metadata map[string]any) (*models.AuthUser, *models.AuthSession, error) {
	body := map[string]any{
		"email":    email,
		"password": password,
		"data":     metadata,
	}
	var out goTrueSession
	if err := c.makeRequest(ctx, http.MethodPost, "/signup", "", body, &out); err != nil {
		return nil, nil, err
	}
	user, session := out.split()
	if user.ID == uuid.Nil {
		return nil, nil, &ProviderError{StatusCode: http.StatusBadGateway, Message: "signup response carried no user"}
	}
	return user, session, nil
}

func (c *goTrueClient) SignInWithPassword(ctx context.Context, email, password string) (*models.AuthUser, *models.AuthSession, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}
	var out goTrueSession
	if err := c.makeRequest(ctx, http.MethodPost, "/token?grant_type=password", "", body, &out); err != nil {
		return nil, nil, err
	}
	user, session := out.split()
	if session == nil {
		return nil, nil, &ProviderError{StatusCode: http.StatusBadGateway, Message: "token response carried no session"}
	}
	return user, session, nil
}

func (c *goTrueClient) SignOut(ctx context.Context, accessToken string) error {
	return c.makeRequest(ctx, http.MethodPost, "/logout", accessToken, nil, nil)
}

func (c *goTrueClient) makeRequest(ctx context.Context, method, path, bearer string, body, out any) error {
	var reader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	} else if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("auth provider request %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr goTrueError
		_ = json.Unmarshal(data, &apiErr)
		msg := apiErr.text()
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &ProviderError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode auth provider response: %w", err)
	}
	return nil
}
