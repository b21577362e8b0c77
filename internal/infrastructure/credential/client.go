// Package credential implements the HTTP client for the remote platform
// backend's credential endpoints. All backend traffic is JSON over HTTP; the
// client normalizes every failure into the domain error taxonomy so the
// session store never sees a raw transport error.
package credential

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/medishare/donation-gateway/internal/core/domain"
	"github.com/medishare/donation-gateway/internal/core/ports"
)

const defaultTimeout = 10 * time.Second

// Client talks to the remote credential service.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// userPayload tolerates the backend's inconsistent field casing: some
// endpoints return "name"/"role", others "Name"/"Role".
type userPayload struct {
	ID       string `json:"id"`
	AltID    string `json:"_id"`
	Name     string `json:"name"`
	AltName  string `json:"Name"`
	Email    string `json:"email"`
	AltEmail string `json:"Email"`
	Role     string `json:"role"`
	AltRole  string `json:"Role"`
}

func (u *userPayload) toIdentity() *domain.Identity {
	if u == nil {
		return nil
	}
	return &domain.Identity{
		ID:    firstNonEmpty(u.ID, u.AltID),
		Name:  firstNonEmpty(u.Name, u.AltName),
		Email: firstNonEmpty(u.Email, u.AltEmail),
		Role:  firstNonEmpty(u.Role, u.AltRole),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *userPayload `json:"user"`
}

func (c *Client) Login(ctx context.Context, creds ports.Credentials) (*ports.LoginResult, error) {
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login", "", loginRequest(creds), &resp)
	if err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, domain.ErrMalformedResponse
	}

	return &ports.LoginResult{Token: resp.Token, Identity: resp.User.toIdentity()}, nil
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (c *Client) Register(ctx context.Context, input ports.RegistrationInput) (string, error) {
	var resp messageResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/register", "", registerRequest(input), &resp)
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *Client) Logout(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", token, nil, nil)
}

type updateProfileResponse struct {
	User *userPayload `json:"user"`
}

func (c *Client) UpdateProfile(ctx context.Context, token, identityID string, fields ports.ProfileUpdate) (*domain.Identity, error) {
	body := map[string]string{}
	if fields.Name != nil {
		body["name"] = *fields.Name
	}
	if fields.Email != nil {
		body["email"] = *fields.Email
	}
	if fields.Phone != nil {
		body["phone"] = *fields.Phone
	}
	if fields.Address != nil {
		body["address"] = *fields.Address
	}

	var resp updateProfileResponse
	err := c.do(ctx, http.MethodPut, "/api/users/"+identityID, token, body, &resp)
	if err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, domain.ErrMalformedResponse
	}
	return resp.User.toIdentity(), nil
}

// do performs one JSON round trip. Transport failures wrap
// ErrTransportUnreachable; non-2xx answers become RejectionError carrying the
// backend's message; undecodable success bodies become ErrMalformedResponse.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("path", path).Msg("credential service unreachable")
		return fmt.Errorf("%w: %v", domain.ErrTransportUnreachable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrTransportUnreachable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &domain.RejectionError{Status: resp.StatusCode, Message: rejectionMessage(raw)}
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return domain.ErrMalformedResponse
	}
	return nil
}

// rejectionMessage digs the human-readable message out of an error body,
// whichever of the backend's envelope fields it arrived in.
func rejectionMessage(raw []byte) string {
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if envelope.Message != "" {
			return envelope.Message
		}
		if envelope.Error != "" {
			return envelope.Error
		}
	}
	return ""
}
