package google

import (
	"context"
	"fmt"
	"gsuitetool/config"
	"gsuitetool/internal/apierrors"
	"io"
	"net/http"

	"go.uber.org/zap"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Authenticator produces an HTTP client authorized for the given scopes.
// ServiceAccount and Personal are the two strategies; tests substitute their own.
type Authenticator interface {
	HTTPClient(ctx context.Context, scopes ...string) (*http.Client, error)
}

// Client is an authenticated spreadsheet handle.
type Client struct {
	Service *sheets.Service
}

func NewSheetsClient(ctx context.Context, auth Authenticator, scopes []string, opts ...option.ClientOption) (*Client, error) {
	hc, err := authorize(ctx, auth, scopes)
	if err != nil {
		return nil, err
	}

	srv, err := sheets.NewService(ctx, append([]option.ClientOption{option.WithHTTPClient(hc)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return &Client{Service: srv}, nil
}

func NewDriveService(ctx context.Context, auth Authenticator, scopes []string, opts ...option.ClientOption) (*drive.Service, error) {
	hc, err := authorize(ctx, auth, scopes)
	if err != nil {
		return nil, err
	}

	srv, err := drive.NewService(ctx, append([]option.ClientOption{option.WithHTTPClient(hc)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("unable to create drive service: %w", err)
	}
	return srv, nil
}

// AuthenticatePersonal returns a spreadsheet handle for the user who owns the cached OAuth
// token, running the browser consent flow first when no token is cached. The consent URL
// goes to openURL, or is printed to out when that fails.
func AuthenticatePersonal(ctx context.Context, cfg config.Google, logger *zap.Logger, openURL func(string) error, out io.Writer) (*Client, error) {
	return NewSheetsClient(ctx, &Personal{
		ClientSecretsPath: cfg.ClientSecretsPath,
		TokenPath:         cfg.TokenPath,
		OpenURL:           openURL,
		Out:               out,
		Logger:            logger,
	}, cfg.Scopes)
}

// AuthenticateService returns a spreadsheet handle for the service account in cfg.KeyPath.
func AuthenticateService(ctx context.Context, cfg config.Google, logger *zap.Logger) (*Client, error) {
	return NewSheetsClient(ctx, &ServiceAccount{KeyPath: cfg.KeyPath, Logger: logger}, cfg.Scopes)
}

// NewAuthenticator picks the strategy named by cfg.Auth.
func NewAuthenticator(cfg config.Google, logger *zap.Logger, openURL func(string) error, out io.Writer) (Authenticator, error) {
	switch cfg.Auth {
	case config.AuthPersonal:
		return &Personal{
			ClientSecretsPath: cfg.ClientSecretsPath,
			TokenPath:         cfg.TokenPath,
			OpenURL:           openURL,
			Out:               out,
			Logger:            logger,
		}, nil
	case config.AuthService:
		return &ServiceAccount{KeyPath: cfg.KeyPath, Logger: logger}, nil
	default:
		return nil, apierrors.NewValidationError(fmt.Sprintf("unknown auth mode %q", cfg.Auth), nil)
	}
}

func authorize(ctx context.Context, auth Authenticator, scopes []string) (*http.Client, error) {
	if len(scopes) == 0 {
		scopes = config.DefaultScopes
	}
	return auth.HTTPClient(ctx, scopes...)
}

func nopIfNil(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
