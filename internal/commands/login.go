package commands

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/oauth2"

	"tasklist/internal/config"
	"tasklist/internal/exitcode"
	"tasklist/internal/service"
)

func init() {
	Register(&LoginCmd{})
}

// LoginCmd stores credentials for the configured backend.
// The REST backend takes a bearer token from --token; the Google backend runs
// the OAuth browser flow.
type LoginCmd struct {
	token string
}

// SetToken sets the --token flag (for testing).
func (c *LoginCmd) SetToken(token string) {
	c.token = token
}

func (c *LoginCmd) Name() string       { return "login" }
func (c *LoginCmd) Aliases() []string  { return nil }
func (c *LoginCmd) Synopsis() string   { return "Store credentials for the task backend" }
func (c *LoginCmd) Usage() string      { return "tasklist login [common flags] [--token <token>]" }
func (c *LoginCmd) NeedsService() bool { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.token, "token", "", "")
}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if cfg.Backend == config.BackendGoogle {
		return googleLogin(ctx, cfg, out, errOut)
	}

	token := strings.TrimSpace(c.token)
	if token == "" {
		fmt.Fprintln(errOut, "error: token required (use --token)")
		return exitcode.UserError
	}

	if err := cfg.EnsureDir(); err != nil {
		fmt.Fprintf(errOut, "error: failed to create config directory: %v\n", err)
		return exitcode.AuthError
	}
	if err := saveToken(cfg.TokenPath(), &oauth2.Token{AccessToken: token, TokenType: "Bearer"}); err != nil {
		fmt.Fprintf(errOut, "error: failed to save token: %v\n", err)
		return exitcode.AuthError
	}
	cfg.Logger.Debug("saved token", "path", cfg.TokenPath())

	printOK(out, cfg.Quiet)
	return exitcode.Success
}

// saveToken writes token to path with mode 0600.
func saveToken(path string, token *oauth2.Token) error {
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
