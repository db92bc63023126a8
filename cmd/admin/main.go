package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ai-mart-inventory/config"
	"ai-mart-inventory/internal/migrate"
	"ai-mart-inventory/internal/notify"
	"ai-mart-inventory/internal/refill"
	"ai-mart-inventory/internal/repository"
	"ai-mart-inventory/internal/scheduler"
	"ai-mart-inventory/internal/service"
	"ai-mart-inventory/pkg/database"
	"ai-mart-inventory/pkg/jwt"
	"ai-mart-inventory/pkg/logger"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "admin",
		Short:         "AI Mart inventory maintenance commands",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(refillCmd())
	rootCmd.AddCommand(resetPasswordCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(alertsCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// env is what every command needs: config, logger and a migrated database.
type env struct {
	cfg  *config.Config
	log  *zap.Logger
	db   *gorm.DB
	repo *repository.Repository
}

func open(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		return nil, err
	}
	db, err := database.ConnectDB(cfg.DB, log)
	if err != nil {
		return nil, err
	}
	if err := migrate.Run(ctx, db, log, migrate.DefaultOptions()); err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: log, db: db, repo: repository.New(db)}, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func refillCmd() *cobra.Command {
	var (
		storeFlag string
		dryRun    bool
	)
	cmd := &cobra.Command{
		Use:   "refill",
		Short: "Run the auto-refill engine for one store or every enabled store",
		Long: `Run the auto-refill engine once.

With --store the engine runs for that store only and the result is printed.
Without it every store with auto-refill enabled is processed, the same way
the hourly job does it.

Examples:
  admin refill --store 3f0c... --dry-run
  admin refill`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := open(ctx)
			if err != nil {
				return err
			}
			engine := refill.NewEngine(e.db, e.log)

			if storeFlag != "" {
				id, err := uuid.Parse(storeFlag)
				if err != nil {
					return fmt.Errorf("invalid store id: %w", err)
				}
				res, err := engine.Run(ctx, id, refill.Options{DryRun: dryRun})
				if err != nil {
					return err
				}
				return printJSON(res)
			}

			if dryRun {
				stores, err := e.repo.Stores.ListAutoRefillEnabled(ctx)
				if err != nil {
					return err
				}
				results := make([]*refill.Result, 0, len(stores))
				for _, st := range stores {
					res, err := engine.Run(ctx, st.ID, refill.Options{DryRun: true})
					if err != nil {
						return fmt.Errorf("store %s: %w", st.ID, err)
					}
					results = append(results, res)
				}
				return printJSON(results)
			}

			sched, err := scheduler.New(e.cfg.Scheduler, engine, e.repo.Stores, nil, e.log)
			if err != nil {
				return err
			}
			rep, err := sched.RunRefillOnce(ctx)
			if err != nil {
				return err
			}
			return printJSON(rep)
		},
	}
	cmd.Flags().StringVarP(&storeFlag, "store", "s", "", "store id (default: all enabled stores)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "compute the plan without writing")
	return cmd
}

func resetPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-password EMAIL PASSWORD",
		Short: "Set a user's password",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := open(cmd.Context())
			if err != nil {
				return err
			}
			tokens := jwt.NewManager(e.cfg.JWT.Secret, e.cfg.JWT.TTL)
			auth := service.NewAuthService(e.repo, tokens, notify.LogMailer{Log: e.log}, e.cfg.FrontendURL, e.log)
			if err := auth.SetPassword(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("Password for %s updated\n", args[0])
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create a demo owner, store and items",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := open(cmd.Context())
			if err != nil {
				return err
			}
			store, err := migrate.SeedDemo(cmd.Context(), e.db, e.log)
			if err != nil {
				return err
			}
			if store == nil {
				fmt.Println("Demo data already present")
				return nil
			}
			fmt.Printf("Seeded %s / %s, store %s\n", migrate.DemoEmail, migrate.DemoPassword, store.ID)
			return nil
		},
	}
}

func alertsCmd() *cobra.Command {
	var storeFlag string
	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Send the daily stock alert email now",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := open(ctx)
			if err != nil {
				return err
			}
			loc, err := time.LoadLocation(e.cfg.Scheduler.AlertTimezone)
			if err != nil {
				return err
			}
			mailer, closeMailer := notify.FromConfig(e.cfg, e.log)
			defer closeMailer()
			alerts := service.NewAlertService(e.repo, mailer, e.cfg.SMTP.From, loc, e.log)

			if storeFlag != "" {
				id, err := uuid.Parse(storeFlag)
				if err != nil {
					return fmt.Errorf("invalid store id: %w", err)
				}
				report, err := alerts.SendStore(ctx, id)
				if err != nil {
					return err
				}
				return printJSON(report)
			}
			sent, err := alerts.SendAll(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Alerts sent to %d stores\n", sent)
			return nil
		},
	}
	cmd.Flags().StringVarP(&storeFlag, "store", "s", "", "store id (default: all stores)")
	return cmd
}
