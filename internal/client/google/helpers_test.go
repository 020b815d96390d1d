package google

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

// staticAuth hands out a fixed client; it stands in for a real strategy.
type staticAuth struct {
	client *http.Client
	scopes []string
}

func (a *staticAuth) HTTPClient(_ context.Context, scopes ...string) (*http.Client, error) {
	a.scopes = scopes
	return a.client, nil
}

// newTokenServer serves an OAuth token endpoint that always returns accessToken.
// The returned counter reports how many token requests were made.
func newTokenServer(t *testing.T, accessToken string, check func(*http.Request)) (string, *atomic.Int32) {
	t.Helper()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		require.NoError(t, r.ParseForm())
		if check != nil {
			check(r)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  accessToken,
			"token_type":    "Bearer",
			"refresh_token": "test-refresh-token",
			"expires_in":    3600,
		})
	}))
	t.Cleanup(srv.Close)

	return srv.URL + "/token", &calls
}

// newAPIServer records the bearer token of every request it receives.
func newAPIServer(t *testing.T) (string, *atomic.Value) {
	t.Helper()

	var lastAuth atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lastAuth.Store(r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	return srv.URL, &lastAuth
}

func writeServiceAccountKey(t *testing.T, tokenURL string) string {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	keyPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})

	data, err := json.Marshal(map[string]string{
		"type":           "service_account",
		"project_id":     "test-project",
		"private_key_id": "key-1",
		"private_key":    string(keyPEM),
		"client_email":   "robot@test-project.iam.gserviceaccount.com",
		"client_id":      "1234567890",
		"token_uri":      tokenURL,
	})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func writeClientSecrets(t *testing.T, tokenURL string) string {
	t.Helper()

	data, err := json.Marshal(map[string]any{
		"installed": map[string]any{
			"client_id":     "test-client",
			"client_secret": "test-secret",
			"auth_uri":      "https://accounts.example.com/o/oauth2/auth",
			"token_uri":     tokenURL,
			"redirect_uris": []string{"http://localhost"},
		},
	})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "client_secrets.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func doGet(t *testing.T, client *http.Client, url string) {
	t.Helper()

	resp, err := client.Get(url)
	require.NoError(t, err)
	resp.Body.Close()
}

func newServer(t *testing.T, handler http.Handler) string {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv.URL
}
