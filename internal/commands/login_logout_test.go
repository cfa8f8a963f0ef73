package commands_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/oauth2"

	"tasklist/internal/commands"
	"tasklist/internal/config"
	"tasklist/internal/exitcode"
)

func TestLoginCommand_RESTRequiresToken(t *testing.T) {
	cmd := &commands.LoginCmd{}
	cfg := newConfig(t, false)

	var outBuf, errBuf bytes.Buffer
	code := cmd.Run(context.Background(), cfg, nil, nil, &outBuf, &errBuf)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if errBuf.String() != "error: token required (use --token)\n" {
		t.Errorf("unexpected stderr %q", errBuf.String())
	}
	if cfg.HasToken() {
		t.Error("no token should be written")
	}
}

func TestLoginCommand_RESTSavesToken(t *testing.T) {
	cmd := &commands.LoginCmd{}
	cmd.SetToken("s3cret")
	cfg := newConfig(t, false)
	cfg.Dir = filepath.Join(cfg.Dir, "nested")

	var outBuf, errBuf bytes.Buffer
	code := cmd.Run(context.Background(), cfg, nil, nil, &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Fatalf("expected success, got %d (stderr %q)", code, errBuf.String())
	}
	if outBuf.String() != "ok\n" {
		t.Errorf("expected ok, got %q", outBuf.String())
	}

	info, err := os.Stat(cfg.TokenPath())
	if err != nil {
		t.Fatalf("token not written: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected mode 0600, got %v", info.Mode().Perm())
	}

	data, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		t.Fatal(err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		t.Fatalf("invalid token.json: %v", err)
	}
	if tok.AccessToken != "s3cret" || tok.TokenType != "Bearer" {
		t.Errorf("unexpected token %+v", tok)
	}
}

func TestLoginCommand_GoogleNoOAuthClient(t *testing.T) {
	cmd := &commands.LoginCmd{}
	cfg := newConfig(t, false)
	cfg.Backend = config.BackendGoogle

	var outBuf, errBuf bytes.Buffer
	code := cmd.Run(context.Background(), cfg, nil, nil, &outBuf, &errBuf)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if outBuf.String() != "" {
		t.Errorf("expected no stdout, got %q", outBuf.String())
	}
	if !bytes.Contains(errBuf.Bytes(), []byte("oauth_client.json not found")) {
		t.Errorf("expected setup instructions, got %q", errBuf.String())
	}
}

func TestLoginCommand_GoogleTokenWithoutRefresh(t *testing.T) {
	cmd := &commands.LoginCmd{}
	cfg := newConfig(t, false)
	cfg.Backend = config.BackendGoogle

	oauthClient := `{"installed":{"client_id":"test","client_secret":"test","redirect_uris":["http://localhost"]}}`
	if err := os.WriteFile(cfg.OAuthClientPath(), []byte(oauthClient), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cfg.TokenPath(), []byte(`{"access_token":"expired","token_type":"Bearer"}`), 0600); err != nil {
		t.Fatal(err)
	}

	// Cancelled up front so the flow gives up instead of waiting for a browser.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var outBuf, errBuf bytes.Buffer
	code := cmd.Run(ctx, cfg, nil, nil, &outBuf, &errBuf)

	if outBuf.String() == "already logged in\n" {
		t.Error("a token without refresh token must not count as logged in")
	}
	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
}

func TestLogoutCommand(t *testing.T) {
	cmd := &commands.LogoutCmd{}
	cfg := newConfig(t, false)
	if err := os.WriteFile(cfg.TokenPath(), []byte(`{"access_token":"x"}`), 0600); err != nil {
		t.Fatal(err)
	}

	var outBuf, errBuf bytes.Buffer
	code := cmd.Run(context.Background(), cfg, nil, nil, &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Errorf("expected success, got %d", code)
	}
	if outBuf.String() != "ok\n" {
		t.Errorf("expected ok, got %q", outBuf.String())
	}
	if cfg.HasToken() {
		t.Error("expected token removed")
	}
}

func TestLogoutCommand_NotLoggedIn(t *testing.T) {
	cmd := &commands.LogoutCmd{}

	var outBuf, errBuf bytes.Buffer
	code := cmd.Run(context.Background(), newConfig(t, false), nil, nil, &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Errorf("expected success, got %d", code)
	}
	if outBuf.String() != "not logged in\n" {
		t.Errorf("expected %q, got %q", "not logged in\n", outBuf.String())
	}

	outBuf.Reset()
	cmd.Run(context.Background(), newConfig(t, true), nil, nil, &outBuf, &errBuf)
	if outBuf.String() != "" {
		t.Errorf("expected quiet output, got %q", outBuf.String())
	}
}
