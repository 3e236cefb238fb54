// esports-community-system/services/auth_service_client.go
package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// ErrUnauthorized is returned when the auth service rejects an access token
// (missing, expired, revoked or unknown).
var ErrUnauthorized = errors.New("invalid or expired access token")

// ProviderError carries a client-facing message from the auth service, e.g.
// "A user with this email address has already been registered".
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string { return e.Message }

// AuthUser is the auth service's view of an account. IsAdmin comes from the
// account's app metadata, not from the domain profile.
type AuthUser struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}

// UserMetadata is stored on the auth service account at signup.
type UserMetadata struct {
	Name         string `json:"name"`
	Location     string `json:"location,omitempty"`
	FavoriteGame string `json:"favorite_game,omitempty"`
	Birthday     string `json:"birthday,omitempty"`
}

// IdentityProvider is the surface of the external auth service the handlers
// rely on. Token verification is fully delegated to the provider — no token is
// ever decoded or trusted locally.
type IdentityProvider interface {
	CreateUser(email, password string, meta UserMetadata) (*AuthUser, error)
	GetUser(accessToken string) (*AuthUser, error)
	DeleteUser(userID string) error
}

// AuthServiceClient talks to the managed auth service over HTTP using a
// service-to-service token for the admin endpoints.
type AuthServiceClient struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

func NewAuthServiceClient(baseURL, token string) *AuthServiceClient {
	return &AuthServiceClient{
		BaseURL: baseURL,
		Token:   token,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type authUserPayload struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	AppMetadata struct {
		IsAdmin bool `json:"is_admin"`
	} `json:"app_metadata"`
}

func (p *authUserPayload) toAuthUser() *AuthUser {
	return &AuthUser{ID: p.ID, Email: p.Email, IsAdmin: p.AppMetadata.IsAdmin}
}

// CreateUser provisions an account with the email pre-confirmed (no
// verification mail flow is configured for this project).
func (c *AuthServiceClient) CreateUser(email, password string, meta UserMetadata) (*AuthUser, error) {
	url := fmt.Sprintf("%s/admin/users", c.BaseURL)

	reqBody := map[string]interface{}{
		"email":         email,
		"password":      password,
		"email_confirm": true,
		"user_metadata": meta,
	}
	jsonData, _ := json.Marshal(reqBody)

	req, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		log.Printf("AuthService create user returned %d: %s", resp.StatusCode, string(body))
		return nil, &ProviderError{StatusCode: resp.StatusCode, Message: providerMessage(body)}
	}

	var out authUserPayload
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	return out.toAuthUser(), nil
}

// GetUser resolves a user's access token to the account it belongs to. Any
// rejection by the auth service maps to ErrUnauthorized.
func (c *AuthServiceClient) GetUser(accessToken string) (*AuthUser, error) {
	url := fmt.Sprintf("%s/user", c.BaseURL)

	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("X-Service-Token", c.Token)

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, ErrUnauthorized
	}

	var out authUserPayload
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, ErrUnauthorized
	}
	if out.ID == "" {
		return nil, ErrUnauthorized
	}
	return out.toAuthUser(), nil
}

// DeleteUser removes an account from the auth service.
func (c *AuthServiceClient) DeleteUser(userID string) error {
	url := fmt.Sprintf("%s/admin/users/%s", c.BaseURL, userID)

	req, err := http.NewRequest("DELETE", url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(resp.Body)
		log.Printf("AuthService delete user %s returned %d: %s", userID, resp.StatusCode, string(body))
		return fmt.Errorf("auth service delete failed: %d", resp.StatusCode)
	}
	return nil
}

func providerMessage(body []byte) string {
	var parsed struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Error != "" {
			return parsed.Error
		}
		if parsed.Message != "" {
			return parsed.Message
		}
	}
	return "auth service rejected the request"
}
