package google

import (
	"context"
	"gsuitetool/internal/apierrors"
	"net/http"
	"os"

	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
)

// ServiceAccount authenticates as the application described by a service-account key file.
type ServiceAccount struct {
	KeyPath string
	Logger  *zap.Logger
}

func (s *ServiceAccount) HTTPClient(ctx context.Context, scopes ...string) (*http.Client, error) {
	logger := nopIfNil(s.Logger)

	b, err := os.ReadFile(s.KeyPath)
	if err != nil {
		return nil, apierrors.NewAuthenticationError("unable to read service account file", err)
	}

	config, err := google.JWTConfigFromJSON(b, scopes...)
	if err != nil {
		return nil, apierrors.NewAuthenticationError("unable to parse service account file", err)
	}

	logger.Debug("authenticated with service account",
		zap.String("email", config.Email),
		zap.Strings("scopes", scopes),
	)
	return config.Client(ctx), nil
}
