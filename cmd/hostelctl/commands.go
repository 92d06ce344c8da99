package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/yeremiapane/hostel-app/client"
)

// --- Global flags ---
var (
	apiURL      string
	backendKind string
	sessionPath string
	localDBPath string

	rootCmd = &cobra.Command{
		Use:           "hostelctl",
		Short:         "Manage hostel complaints, services, leave, payments and announcements",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	defaultAPI := os.Getenv("HOSTELCTL_API")
	if defaultAPI == "" {
		defaultAPI = "http://localhost:5000/api"
	}
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", defaultAPI, "base URL of the hostel API")
	rootCmd.PersistentFlags().StringVar(&backendKind, "backend", "http", "data backend: http or local")
	rootCmd.PersistentFlags().StringVar(&sessionPath, "session", "", "session file (default: user config dir)")
	rootCmd.PersistentFlags().StringVar(&localDBPath, "db", "", "SQLite file for --backend=local (default: next to the session file)")

	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd, overviewCmd)
	rootCmd.AddCommand(complaintsCmd, servicesCmd, leaveCmd, paymentsCmd, announcementsCmd, usersCmd)
}

// app is an opened Store plus whatever must be released afterwards.
type app struct {
	store *client.Store
	close func()
}

func openApp(ctx context.Context) (*app, error) {
	path := sessionPath
	if path == "" {
		var err error
		if path, err = client.DefaultSessionPath(); err != nil {
			return nil, err
		}
	}
	session := &client.SessionFile{Path: path}

	switch backendKind {
	case "http":
		return &app{store: client.NewStore(client.NewHTTPBackend(apiURL), session), close: func() {}}, nil
	case "local":
		dbPath := localDBPath
		if dbPath == "" {
			dbPath = filepath.Join(filepath.Dir(path), "local.db")
			if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
				return nil, err
			}
		}
		backend, err := client.NewLocalBackend(ctx, dbPath)
		if err != nil {
			return nil, fmt.Errorf("open local database: %w", err)
		}
		return &app{
			store: client.NewStore(backend, session),
			close: func() { _ = backend.Close() },
		}, nil
	default:
		return nil, fmt.Errorf("unknown backend %q (want http or local)", backendKind)
	}
}

// withSession runs fn with a store restored from the saved session.
func withSession(fn func(ctx context.Context, s *client.Store, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.store.Restore(ctx); err != nil {
			if errors.Is(err, client.ErrNoSession) || errors.Is(err, client.ErrUnauthorized) {
				return errors.New("not logged in, run `hostelctl login` first")
			}
			return err
		}
		return fn(ctx, a.store, args)
	}
}
