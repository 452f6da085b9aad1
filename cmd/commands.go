package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/yungbote/daghub-backend/internal/app"
	"github.com/yungbote/daghub-backend/internal/data/db"
	"github.com/yungbote/daghub-backend/internal/data/seed"
	"github.com/yungbote/daghub-backend/internal/domain/entry"
	"github.com/yungbote/daghub-backend/internal/domain/ownership"
	"github.com/yungbote/daghub-backend/internal/platform/logger"
	"github.com/yungbote/daghub-backend/internal/services"
)

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := app.NewLogger()
			if err != nil {
				return err
			}
			a, err := app.New(log)
			if err != nil {
				log.Sync()
				return err
			}
			defer a.Close()
			a.Start()

			errCh := make(chan error, 1)
			go func() { errCh <- a.Run() }()

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(stop)

			select {
			case err := <-errCh:
				return err
			case sig := <-stop:
				log.Info("Shutting down", "signal", sig.String())
			}
			ctx, cancel := context.WithTimeout(context.Background(), a.Cfg.ShutdownTimeout)
			defer cancel()
			return a.Shutdown(ctx)
		},
	}
}

func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the catalogue schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(log *logger.Logger, store *db.Service) error {
				log.Info("Schema is up to date")
				return nil
			})
		},
	}
}

func seedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the built-in reference dimensions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(log *logger.Logger, store *db.Service) error {
				ref, err := seed.Default()
				if err != nil {
					return err
				}
				return seed.NewLoader(store.DB(), log).Load(cmd.Context(), ref)
			})
		},
	}
}

func importCommand() *cobra.Command {
	var (
		userID int64
		admin  bool
	)
	cmd := &cobra.Command{
		Use:       "import organisations|solutions <file.json>",
		Short:     "Bulk import catalogue entries from a JSON array",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"organisations", "solutions"},
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[1], err)
			}
			actor := identity(userID, admin)

			log, err := app.NewLogger()
			if err != nil {
				return err
			}
			a, err := app.New(log)
			if err != nil {
				log.Sync()
				return err
			}
			defer a.Close()

			var res services.BulkResult
			switch args[0] {
			case "organisations":
				var drafts []entry.OrganisationDraft
				if err := json.Unmarshal(raw, &drafts); err != nil {
					return fmt.Errorf("decode organisations: %w", err)
				}
				res, err = a.Services.DataEntry.BulkOrganisations(cmd.Context(), actor, drafts)
			case "solutions":
				var drafts []entry.SolutionDraft
				if err := json.Unmarshal(raw, &drafts); err != nil {
					return fmt.Errorf("decode solutions: %w", err)
				}
				res, err = a.Services.DataEntry.BulkSolutions(cmd.Context(), actor, drafts)
			default:
				return fmt.Errorf("unknown kind %q, want organisations or solutions", args[0])
			}
			if res.FailedIndex != nil {
				log.Error("Import stopped", "applied", res.Applied, "failed_index", *res.FailedIndex)
			}
			if err != nil {
				return err
			}
			out, _ := json.MarshalIndent(res, "", "  ")
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	cmd.Flags().Int64Var(&userID, "user", 0, "acting user id")
	cmd.Flags().BoolVar(&admin, "admin", false, "act with the ADMIN role")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func tokenCommand() *cobra.Command {
	var (
		userID int64
		admin  bool
		email  string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for development",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := app.NewLogger()
			if err != nil {
				return err
			}
			defer log.Sync()
			cfg := app.LoadConfig(log)
			if cfg.JWTSecretKey == "" {
				return errors.New("JWT_SECRET_KEY is required")
			}
			id := identity(userID, admin)
			id.Email = email
			tok, err := services.NewTokenService(log, cfg.JWTSecretKey, cfg.JWTIssuer).Issue(id, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().Int64Var(&userID, "user", 0, "user id carried in the sub claim")
	cmd.Flags().BoolVar(&admin, "admin", false, "add the ADMIN role")
	cmd.Flags().StringVar(&email, "email", "", "email claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func identity(userID int64, admin bool) ownership.Identity {
	roles := []ownership.Role{ownership.RoleOwner}
	if admin {
		roles = append(roles, ownership.RoleAdmin)
	}
	return ownership.Identity{UserID: userID, Roles: roles}
}

// withStore opens and migrates the database for the one-shot commands.
func withStore(fn func(log *logger.Logger, store *db.Service) error) error {
	log, err := app.NewLogger()
	if err != nil {
		return err
	}
	defer log.Sync()
	store, err := app.OpenStore(log, app.LoadConfig(log))
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(log, store)
}
