package main

import (
	"context"
	"fmt"
	"gsuitetool/config"
	googleClient "gsuitetool/internal/client/google"
	"gsuitetool/internal/gdrive"
	"io"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Persistent flags, bound in newRootCmd.
var (
	flagConfigPath string
	flagAuth       string
	flagFolderURL  string
)

// resolvedCfg is loaded by the root PersistentPreRunE before any subcommand runs.
var resolvedCfg config.Config

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "gsuitetool",
		Short:         "Google Drive and Sheets command line helper",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return loadConfig(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "config file path")
	cmd.PersistentFlags().StringVar(&flagAuth, "auth", "", "authentication mode: personal or service")
	cmd.PersistentFlags().StringVar(&flagFolderURL, "folder-url", "", "default Drive folder link")

	cmd.AddCommand(newAuthCmd())
	cmd.AddCommand(newSheetsCmd())
	cmd.AddCommand(newDriveCmd())
	cmd.AddCommand(newScheduleCmd())

	return cmd
}

// loadConfig reads the config file and applies flag overrides on top of it.
func loadConfig(cmd *cobra.Command) error {
	cfg, err := config.Read(flagConfigPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if cmd.Flags().Changed("auth") {
		cfg.Google.Auth = flagAuth
	}
	if cmd.Flags().Changed("folder-url") {
		cfg.Drive.FolderUrl = flagFolderURL
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	resolvedCfg = cfg
	return nil
}

func buildLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	zc := zap.NewProductionConfig()
	if lvl.Level() == zapcore.DebugLevel {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = lvl

	return zc.Build()
}

// app bundles what every command needs once the config is resolved.
type app struct {
	logger *zap.Logger
	cfg    config.Config
	errOut io.Writer
}

func newApp(cmd *cobra.Command) (*app, error) {
	logger, err := buildLogger(resolvedCfg.Log.Level)
	if err != nil {
		return nil, err
	}
	return &app{logger: logger, cfg: resolvedCfg, errOut: cmd.ErrOrStderr()}, nil
}

func (a *app) close() {
	_ = a.logger.Sync()
}

func (a *app) scopes() []string {
	if len(a.cfg.Google.Scopes) == 0 {
		return config.DefaultScopes
	}
	return a.cfg.Google.Scopes
}

func (a *app) authenticator() (googleClient.Authenticator, error) {
	return googleClient.NewAuthenticator(a.cfg.Google, a.logger, browser.OpenURL, a.errOut)
}

func (a *app) drive(ctx context.Context) (*gdrive.Service, error) {
	auth, err := a.authenticator()
	if err != nil {
		return nil, err
	}

	srv, err := googleClient.NewDriveService(ctx, auth, a.scopes())
	if err != nil {
		return nil, err
	}

	return gdrive.New(a.logger, gdrive.NewGoogleRepository(srv),
		gdrive.WithFolderURL(a.cfg.Drive.FolderUrl),
		gdrive.WithPathSeparator(a.cfg.Drive.PathSeparator),
		gdrive.WithMaxPathDepth(a.cfg.Drive.MaxPathDepth),
	)
}

func (a *app) sheets(ctx context.Context) (*googleClient.Client, error) {
	g := a.cfg.Google
	g.Scopes = a.scopes()
	if g.Auth == config.AuthPersonal {
		return googleClient.AuthenticatePersonal(ctx, g, a.logger, browser.OpenURL, a.errOut)
	}
	return googleClient.AuthenticateService(ctx, g, a.logger)
}
