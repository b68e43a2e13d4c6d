// Command fraudctl runs maintenance tasks against the fraudwatch database.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"fraudwatch/internal/config"
	"fraudwatch/internal/logger"
	"fraudwatch/internal/models"
	"fraudwatch/internal/repositories"
	"fraudwatch/internal/seed"
	"fraudwatch/internal/services/alert"
	"fraudwatch/internal/services/auth"
	"fraudwatch/internal/services/transaction"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:           "fraudctl",
		Short:         "fraudctl - maintenance tasks for the fraud review database",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(createAdminCmd())
	rootCmd.AddCommand(scoreCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// env loads configuration and opens the database.
type env struct {
	cfg   *config.Config
	log   *logrus.Logger
	db    *gorm.DB
	store *repositories.Store
}

func open() (*env, error) {
	config.LoadEnv()
	cfg := config.Load()

	log, err := logger.New(logger.Config{Level: cfg.Log.Level, FilePath: cfg.Log.FilePath})
	if err != nil {
		return nil, err
	}
	db, err := repositories.InitDB(cfg.Database, log)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: log, db: db, store: repositories.NewStore(db)}, nil
}

func (e *env) close() {
	if err := repositories.Close(e.db); err != nil {
		e.log.WithError(err).Warn("Failed to close database connection")
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := open()
			if err != nil {
				return err
			}
			defer e.close()

			if err := repositories.Migrate(e.db); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the reference users, accounts, merchants and transactions",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := open()
			if err != nil {
				return err
			}
			defer e.close()

			if err := repositories.Migrate(e.db); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			summary, err := seed.Run(cmd.Context(), e.store, seed.Options{Password: password}, e.log)
			if errors.Is(err, seed.ErrAlreadySeeded) {
				fmt.Fprintln(cmd.OutOrStdout(), "Reference data already present")
				return nil
			}
			if err != nil {
				return err
			}
			return printJSON(cmd, summary)
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", seed.DefaultPassword, "password given to every seeded user")
	return cmd
}

func createAdminCmd() *cobra.Command {
	var req auth.RegisterRequest

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an Admin user",
		Long: `Create an Admin user. Values not given as flags are read from
ADMIN_USERNAME, ADMIN_EMAIL and ADMIN_PASSWORD.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := open()
			if err != nil {
				return err
			}
			defer e.close()

			if req.Username == "" {
				req.Username = config.GetEnv("ADMIN_USERNAME", "")
			}
			if req.Email == "" {
				req.Email = config.GetEnv("ADMIN_EMAIL", "")
			}
			if req.Password == "" {
				req.Password = config.GetEnv("ADMIN_PASSWORD", "")
			}

			svc := auth.NewService(e.store.Users, nil, auth.NewTokenManager(e.cfg.JWT.Secret, e.cfg.JWT.TTL), e.log)
			user, err := svc.CreateUser(cmd.Context(), req, models.RoleAdmin)
			if errors.Is(err, auth.ErrUsernameTaken) || errors.Is(err, auth.ErrEmailTaken) {
				fmt.Fprintln(cmd.OutOrStdout(), "Admin user already exists")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Admin %s created with id %d\n", user.Username, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&req.Username, "username", "u", "", "admin username")
	cmd.Flags().StringVarP(&req.Email, "email", "e", "", "admin email")
	cmd.Flags().StringVar(&req.FullName, "name", "Administrator", "admin full name")
	cmd.Flags().StringVar(&req.Password, "password", "", "admin password")
	return cmd
}

func scoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "score [transaction-id]",
		Short: "Print the current risk assessment of a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var id uint
			if _, err := fmt.Sscan(args[0], &id); err != nil || id == 0 {
				return fmt.Errorf("invalid transaction id %q", args[0])
			}

			e, err := open()
			if err != nil {
				return err
			}
			defer e.close()

			alerts := alert.NewService(e.store, nil, e.log)
			scored, err := transaction.NewService(e.store, alerts, nil, e.log).Assess(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd, scored)
		},
	}
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
