package google

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"gsuitetool/internal/apierrors"
	"io"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	stateTokenBytes = 16
	callbackPath    = "/"
	shutdownTimeout = 5 * time.Second
)

// Personal authenticates as a human user through OAuth consent. The token is cached at
// TokenPath; when none is cached the browser flow runs: a loopback callback server is bound,
// OpenURL is handed the consent URL, and the returned code is exchanged with PKCE.
// When OpenURL is nil or fails the URL is printed to Out (stderr when nil).
//
// The returned client refreshes its token with ctx, so ctx must outlive it.
type Personal struct {
	ClientSecretsPath string
	TokenPath         string
	OpenURL           func(string) error
	Out               io.Writer
	Logger            *zap.Logger
}

type callbackResult struct {
	code string
	err  error
}

func (p *Personal) HTTPClient(ctx context.Context, scopes ...string) (*http.Client, error) {
	logger := nopIfNil(p.Logger)

	b, err := os.ReadFile(p.ClientSecretsPath)
	if err != nil {
		return nil, apierrors.NewAuthenticationError("unable to read client secrets file", err)
	}

	cfg, err := google.ConfigFromJSON(b, scopes...)
	if err != nil {
		return nil, apierrors.NewAuthenticationError("unable to parse client secrets file", err)
	}

	tok, err := LoadToken(p.TokenPath)
	if err != nil {
		return nil, apierrors.NewAuthenticationError("unable to load cached token", err)
	}

	if tok == nil {
		logger.Info("no cached token, starting browser consent flow", zap.String("path", p.TokenPath))

		tok, err = p.consent(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		if err := SaveToken(p.TokenPath, tok); err != nil {
			return nil, apierrors.NewLocalIOError("unable to cache token", err)
		}
	} else {
		logger.Debug("loaded cached token",
			zap.String("path", p.TokenPath),
			zap.Time("expiry", tok.Expiry),
			zap.Bool("expired", !tok.Expiry.IsZero() && tok.Expiry.Before(time.Now())),
		)
	}

	src := &persistingTokenSource{
		base:   cfg.TokenSource(ctx, tok),
		path:   p.TokenPath,
		last:   tok.AccessToken,
		logger: logger,
	}
	return oauth2.NewClient(ctx, src), nil
}

func (p *Personal) consent(ctx context.Context, cfg *oauth2.Config, logger *zap.Logger) (*oauth2.Token, error) {
	resultCh := make(chan callbackResult, 1)
	mux := http.NewServeMux()

	srv, port, err := startCallbackServer(ctx, mux, resultCh, logger)
	if err != nil {
		return nil, err
	}
	defer shutdownCallbackServer(srv, logger)

	cfg.RedirectURL = fmt.Sprintf("http://127.0.0.1:%d%s", port, callbackPath)

	verifier := oauth2.GenerateVerifier()
	state, err := generateState()
	if err != nil {
		return nil, fmt.Errorf("generating state token: %w", err)
	}

	mux.HandleFunc("GET "+callbackPath+"{$}", func(w http.ResponseWriter, r *http.Request) {
		handleOAuthCallback(w, r, state, resultCh)
	})

	authURL := cfg.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.S256ChallengeOption(verifier),
	)
	p.launchBrowser(authURL, logger)

	var code string
	select {
	case result := <-resultCh:
		if result.err != nil {
			return nil, apierrors.NewAuthenticationError("consent failed", result.err)
		}
		code = result.code
	case <-ctx.Done():
		return nil, apierrors.NewAuthenticationError("consent cancelled", ctx.Err())
	}

	tok, err := cfg.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, apierrors.NewAuthenticationError("token exchange failed", err)
	}

	logger.Info("consent granted", zap.Time("expiry", tok.Expiry))
	return tok, nil
}

func (p *Personal) launchBrowser(authURL string, logger *zap.Logger) {
	if p.OpenURL != nil {
		err := p.OpenURL(authURL)
		if err == nil {
			return
		}
		logger.Warn("failed to open browser, printing URL", zap.Error(err))
	}
	out := p.Out
	if out == nil {
		out = os.Stderr
	}
	fmt.Fprintf(out, "Open this URL in your browser:\n%s\n", authURL)
}

func startCallbackServer(ctx context.Context, mux *http.ServeMux, resultCh chan<- callbackResult, logger *zap.Logger) (*http.Server, int, error) {
	lc := net.ListenConfig{}

	listener, err := lc.Listen(ctx, "tcp", "127.0.0.1:0")
	if err != nil {
		return nil, 0, apierrors.NewAuthenticationError("binding loopback listener", err)
	}

	tcpAddr, ok := listener.Addr().(*net.TCPAddr)
	if !ok {
		listener.Close()
		return nil, 0, apierrors.NewAuthenticationError("listener address is not TCP", nil)
	}
	logger.Debug("callback server listening", zap.Int("port", tcpAddr.Port))

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: shutdownTimeout,
	}

	go func() {
		if serveErr := srv.Serve(listener); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			sendResult(resultCh, callbackResult{err: fmt.Errorf("callback server: %w", serveErr)})
		}
	}()

	return srv, tcpAddr.Port, nil
}

func handleOAuthCallback(w http.ResponseWriter, r *http.Request, state string, resultCh chan<- callbackResult) {
	q := r.URL.Query()

	if q.Get("state") != state {
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		sendResult(resultCh, callbackResult{err: errors.New("OAuth2 state mismatch")})
		return
	}

	if errParam := q.Get("error"); errParam != "" {
		http.Error(w, "Authorization failed: "+errParam, http.StatusBadRequest)
		sendResult(resultCh, callbackResult{err: fmt.Errorf("authorization denied: %s", errParam)})
		return
	}

	code := q.Get("code")
	if code == "" {
		http.Error(w, "Missing authorization code", http.StatusBadRequest)
		sendResult(resultCh, callbackResult{err: errors.New("callback missing authorization code")})
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, "<html><body><h1>Authentication successful</h1>"+
		"<p>You can close this window and return to the terminal.</p></body></html>")
	sendResult(resultCh, callbackResult{code: code})
}

// sendResult keeps the first callback outcome and drops later ones.
func sendResult(resultCh chan<- callbackResult, result callbackResult) {
	select {
	case resultCh <- result:
	default:
	}
}

func shutdownCallbackServer(srv *http.Server, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("callback server shutdown error", zap.Error(err))
	}
}

func generateState() (string, error) {
	b := make([]byte, stateTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// persistingTokenSource writes refreshed tokens back to the cache file.
type persistingTokenSource struct {
	base   oauth2.TokenSource
	path   string
	logger *zap.Logger

	mu   sync.Mutex
	last string
}

func (s *persistingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, apierrors.NewAuthenticationError("token refresh failed", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if tok.AccessToken != s.last {
		if err := SaveToken(s.path, tok); err != nil {
			s.logger.Warn("failed to persist refreshed token", zap.String("path", s.path), zap.Error(err))
		} else {
			s.logger.Debug("refreshed token saved", zap.Time("expiry", tok.Expiry))
		}
		s.last = tok.AccessToken
	}
	return tok, nil
}
