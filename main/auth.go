package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAuthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with Google and cache the credentials",
		Long: `Authenticate with the configured mode.

In personal mode this runs the browser consent flow when no token is cached and
stores the token at google.tokenPath. In service mode it checks that the key
file at google.keyPath can sign requests.`,
		Args: cobra.NoArgs,
		RunE: runAuth,
	}
}

func runAuth(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	auth, err := a.authenticator()
	if err != nil {
		return err
	}
	if _, err := auth.HTTPClient(cmd.Context(), a.scopes()...); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Authenticated (%s)\n", a.cfg.Google.Auth)
	return nil
}
