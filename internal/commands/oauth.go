package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"

	"tasklist/internal/backend/googletasks"
	"tasklist/internal/config"
	"tasklist/internal/exitcode"
)

const (
	oauthCallbackTimeout = 5 * time.Minute
	tokenExchangeTimeout = 30 * time.Second
	tokenCheckTimeout    = 10 * time.Second

	// Loopback ports tried for the OAuth redirect.
	oauthStartPort       = 8085
	oauthMaxPortAttempts = 5
)

// googleLogin runs the installed-app OAuth flow with PKCE and stores the
// resulting token.
func googleLogin(ctx context.Context, cfg *config.Config, out, errOut io.Writer) int {
	if !cfg.HasOAuthClient() {
		printOAuthSetup(errOut, cfg.Dir)
		return exitcode.AuthError
	}

	oauthConfig, err := googletasks.LoadOAuthConfig(cfg)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}

	if cfg.HasToken() && tokenUsable(ctx, oauthConfig, cfg.TokenPath()) {
		if !cfg.Quiet {
			fmt.Fprintln(out, "already logged in")
		}
		return exitcode.Success
	}

	port, listener, err := listenLoopback()
	if err != nil {
		fmt.Fprintln(errOut, "error: could not bind to local port for OAuth callback")
		return exitcode.AuthError
	}
	defer listener.Close()

	oauthConfig.RedirectURL = fmt.Sprintf("http://localhost:%d/callback", port)
	verifier := oauth2.GenerateVerifier()
	authURL := oauthConfig.AuthCodeURL("state",
		oauth2.AccessTypeOffline,
		oauth2.S256ChallengeOption(verifier),
	)

	fmt.Fprintln(errOut, "Open this URL in your browser:")
	fmt.Fprintln(errOut, authURL)

	code, err := awaitCallback(ctx, listener)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}

	exchangeCtx, cancel := context.WithTimeout(ctx, tokenExchangeTimeout)
	defer cancel()
	token, err := oauthConfig.Exchange(exchangeCtx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		fmt.Fprintf(errOut, "error: failed to exchange code for token: %v\n", err)
		return exitcode.AuthError
	}

	if err := cfg.EnsureDir(); err != nil {
		fmt.Fprintf(errOut, "error: failed to create config directory: %v\n", err)
		return exitcode.AuthError
	}
	if err := saveToken(cfg.TokenPath(), token); err != nil {
		fmt.Fprintf(errOut, "error: failed to save token: %v\n", err)
		return exitcode.AuthError
	}

	printOK(out, cfg.Quiet)
	return exitcode.Success
}

func printOAuthSetup(w io.Writer, dir string) {
	fmt.Fprintf(w, "error: %s not found in %s\n\n", config.OAuthClientFile, dir)
	fmt.Fprintln(w, "The google backend needs OAuth credentials:")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "1. Open https://console.cloud.google.com/apis/credentials")
	fmt.Fprintln(w, "2. Enable the Google Tasks API for your project")
	fmt.Fprintln(w, "3. Create an OAuth client ID of type 'Desktop app'")
	fmt.Fprintln(w, "4. Download the JSON file and save it as:")
	fmt.Fprintf(w, "   %s/%s\n", dir, config.OAuthClientFile)
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "Then run '%s login' again.\n", config.AppName)
}

// awaitCallback serves the redirect on listener and returns the auth code.
func awaitCallback(ctx context.Context, listener net.Listener) (string, error) {
	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "No code in callback", http.StatusBadRequest)
			select {
			case errCh <- errors.New("no code in callback"):
			default:
			}
			return
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html><body><h1>Authentication successful</h1><p>You may close this window.</p></body></html>")
		select {
		case codeCh <- code:
		default:
		}
	})

	server := &http.Server{Handler: mux}
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case errCh <- err:
			default:
			}
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	select {
	case code := <-codeCh:
		return code, nil
	case err := <-errCh:
		return "", err
	case <-time.After(oauthCallbackTimeout):
		return "", errors.New("oauth callback timed out")
	case <-ctx.Done():
		return "", errors.New("cancelled")
	}
}

func listenLoopback() (int, net.Listener, error) {
	for i := 0; i < oauthMaxPortAttempts; i++ {
		port := oauthStartPort + i
		listener, err := net.Listen("tcp", fmt.Sprintf("localhost:%d", port))
		if err == nil {
			return port, listener, nil
		}
	}
	return 0, nil, errors.New("no available port found")
}

// tokenUsable reports whether the stored token has a refresh token that the
// provider still accepts.
func tokenUsable(ctx context.Context, oauthConfig *oauth2.Config, path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil || token.RefreshToken == "" {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, tokenCheckTimeout)
	defer cancel()
	_, err = oauthConfig.TokenSource(ctx, &token).Token()
	return err == nil
}
