// Command portal-admin is an operator CLI for the portal: it logs in,
// inspects the current identity, and logs out against a running instance.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/sva-utd/portal-api/internal/bootstrap"
	"github.com/sva-utd/portal-api/internal/session"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx     context.Context
	Logger  *slog.Logger
	BaseURL string
}

func main() {
	logger := bootstrap.InitLogger()

	if len(os.Args) < 2 {
		if err := printUsage(); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when no command is provided
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		if err := writef(os.Stderr, "unknown command %q\n\n", cmdName); err != nil {
			logger.Error("print unknown command message failed", "error", err)
		}
		if err := printUsage(); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when command is unknown
	}

	baseURL := os.Getenv("PORTAL_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	cmdCtx := &commandContext{
		Ctx:     context.Background(),
		Logger:  logger,
		BaseURL: strings.TrimSuffix(baseURL, "/"),
	}
	if runErr := cmd.run(cmdCtx, os.Args[2:]); runErr != nil {
		logger.ErrorContext(cmdCtx.Ctx, "command failed", "command", cmdName, "error", runErr)
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func commands() map[string]command {
	return map[string]command{
		"login": {
			name:        "login",
			description: "Authenticate and store the session token locally",
			run:         runLogin,
		},
		"whoami": {
			name:        "whoami",
			description: "Show the identity behind the stored session token",
			run:         runWhoami,
		},
		"logout": {
			name:        "logout",
			description: "Revoke the session and remove the stored token",
			run:         runLogout,
		},
	}
}

func printUsage() error {
	if err := writef(os.Stderr, "usage: portal-admin <command> [flags]\n\ncommands:\n"); err != nil {
		return err
	}
	for _, c := range commands() {
		if err := writef(os.Stderr, "  %-8s %s\n", c.name, c.description); err != nil {
			return err
		}
	}
	return writef(os.Stderr, "\nPORTAL_URL selects the target instance (default http://localhost:8080).\n")
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func runLogin(ctx *commandContext, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password (prefer PORTAL_PASSWORD)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *password == "" {
		*password = os.Getenv("PORTAL_PASSWORD")
	}
	if *email == "" || *password == "" {
		return errors.New("both -email and a password (flag or PORTAL_PASSWORD) are required")
	}

	client := &session.Client{BaseURL: ctx.BaseURL}
	result, err := client.Login(ctx.Ctx, *email, *password)
	if err != nil {
		return err
	}

	if err := saveToken(result.Token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return writef(os.Stdout, "logged in as %s (%s)\n", result.Name, result.Role)
}

func runWhoami(ctx *commandContext, args []string) error {
	fs := flag.NewFlagSet("whoami", flag.ContinueOnError)
	force := fs.Bool("force", false, "bypass the session cache's dedupe and cooldown windows")
	if err := fs.Parse(args); err != nil {
		return err
	}

	tok, err := loadToken()
	if err != nil {
		return errors.New("no stored session; run portal-admin login first")
	}

	client := &session.Client{
		BaseURL:     ctx.BaseURL,
		TokenSource: func() string { return tok },
	}
	cache := session.New(session.Options{Fetcher: client, Logger: ctx.Logger})

	if *force {
		if err := cache.Refresh(ctx.Ctx, true); err != nil {
			return err
		}
	} else {
		cache.EnsureInit(ctx.Ctx)
	}

	snap := cache.Snapshot()
	if snap.Err != nil {
		return snap.Err
	}
	if snap.Identity == nil {
		return errors.New("session is no longer valid; run portal-admin login again")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(snap.Identity)
}

func runLogout(ctx *commandContext, _ []string) error {
	tok, err := loadToken()
	if err != nil {
		return writef(os.Stdout, "no stored session\n")
	}

	client := &session.Client{
		BaseURL:     ctx.BaseURL,
		TokenSource: func() string { return tok },
	}
	if err := client.Logout(ctx.Ctx); err != nil {
		ctx.Logger.WarnContext(ctx.Ctx, "server-side logout failed", "error", err)
	}

	if err := removeToken(); err != nil {
		return fmt.Errorf("remove token: %w", err)
	}
	return writef(os.Stdout, "logged out\n")
}

// tokenPath returns the stored-token location, honoring PORTAL_TOKEN_FILE.
func tokenPath() (string, error) {
	if p := os.Getenv("PORTAL_TOKEN_FILE"); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "portal", "token"), nil
}

func saveToken(tok string) error {
	p, err := tokenPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
		return err
	}
	return os.WriteFile(p, []byte(tok), 0o600)
}

func loadToken() (string, error) {
	p, err := tokenPath()
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return "", err
	}
	tok := strings.TrimSpace(string(data))
	if tok == "" {
		return "", errors.New("empty token file")
	}
	return tok, nil
}

func removeToken() error {
	p, err := tokenPath()
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
