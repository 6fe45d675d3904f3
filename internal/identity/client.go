package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rasuta1125/banasukoAI/internal/config"
)

// Sentinel errors for classifiable provider responses. Sign-in failures are
// collapsed into ErrBadCredentials on purpose: callers must not be able to
// tell "user not found" apart from "wrong password".
var (
	ErrBadCredentials = errors.New("identity: bad credentials")
	ErrEmailExists    = errors.New("identity: email already exists")
	ErrWeakPassword   = errors.New("identity: weak password")
)

// Account is the subset of the provider's response the service uses.
type Account struct {
	LocalID string `json:"localId"`
	Email   string `json:"email"`
	IDToken string `json:"idToken"`
}

// Client wraps the hosted identity provider's REST surface
// (accounts:signInWithPassword / accounts:signUp, keyed by a web API key).
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(cfg config.IdentityConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

// SignIn authenticates email/password against the provider.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Account, error) {
	return c.post(ctx, "signInWithPassword", email, password)
}

// SignUp creates a new account. The provider enforces the password policy
// (6 characters minimum); the service does not duplicate it locally.
func (c *Client) SignUp(ctx context.Context, email, password string) (*Account, error) {
	return c.post(ctx, "signUp", email, password)
}

type credentialRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type providerError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) post(ctx context.Context, op, email, password string) (*Account, error) {
	body, err := json.Marshal(credentialRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling %s request: %w", op, err)
	}

	url := fmt.Sprintf("%s%s?key=%s", c.baseURL, op, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling identity provider %s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.classify(op, resp)
	}

	var account Account
	if err := json.NewDecoder(resp.Body).Decode(&account); err != nil {
		return nil, fmt.Errorf("decoding %s response: %w", op, err)
	}
	return &account, nil
}

func (c *Client) classify(op string, resp *http.Response) error {
	var pe providerError
	if err := json.NewDecoder(resp.Body).Decode(&pe); err != nil {
		return fmt.Errorf("identity provider %s: status %d", op, resp.StatusCode)
	}

	msg := pe.Error.Message
	switch {
	case msg == "EMAIL_EXISTS":
		return ErrEmailExists
	case strings.HasPrefix(msg, "WEAK_PASSWORD"):
		return ErrWeakPassword
	case op == "signInWithPassword":
		// EMAIL_NOT_FOUND, INVALID_PASSWORD, INVALID_LOGIN_CREDENTIALS and
		// friends all collapse into one generic answer.
		return ErrBadCredentials
	default:
		return fmt.Errorf("identity provider %s: %s", op, msg)
	}
}
