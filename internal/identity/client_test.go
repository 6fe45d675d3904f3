package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rasuta1125/banasukoAI/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.IdentityConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL + "/v1/accounts:",
		Timeout: 5 * time.Second,
	})
}

func providerErrorBody(msg string) []byte {
	b, _ := json.Marshal(map[string]any{"error": map[string]any{"message": msg}})
	return b
}

func TestSignIn_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/accounts:signInWithPassword", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "user@example.com", req["email"])
		assert.Equal(t, true, req["returnSecureToken"])

		json.NewEncoder(w).Encode(Account{
			LocalID: "uid-123",
			Email:   "user@example.com",
			IDToken: "token-abc",
		})
	})

	acct, err := client.SignIn(context.Background(), "user@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "uid-123", acct.LocalID)
	assert.Equal(t, "token-abc", acct.IDToken)
}

func TestSignIn_BadCredentialsAreGeneric(t *testing.T) {
	for _, msg := range []string{"EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS"} {
		t.Run(msg, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				w.Write(providerErrorBody(msg))
			})

			_, err := client.SignIn(context.Background(), "user@example.com", "wrong")
			assert.ErrorIs(t, err, ErrBadCredentials)
		})
	}
}

func TestSignUp_EmailExists(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/accounts:signUp", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		w.Write(providerErrorBody("EMAIL_EXISTS"))
	})

	_, err := client.SignUp(context.Background(), "taken@example.com", "hunter22")
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestSignUp_WeakPassword(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write(providerErrorBody("WEAK_PASSWORD : Password should be at least 6 characters"))
	})

	_, err := client.SignUp(context.Background(), "new@example.com", "abc")
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestSignUp_UnknownProviderError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write(providerErrorBody("OPERATION_NOT_ALLOWED"))
	})

	_, err := client.SignUp(context.Background(), "new@example.com", "hunter22")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmailExists)
	assert.NotErrorIs(t, err, ErrWeakPassword)
	assert.Contains(t, err.Error(), "OPERATION_NOT_ALLOWED")
}
