package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yungbote/pathwise-backend/internal/data/db"
	"github.com/yungbote/pathwise-backend/internal/data/repos"
	"github.com/yungbote/pathwise-backend/internal/services"
)

func newResetCreditsCommand() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "reset-credits",
		Short: "Restore every active user's credits to their plan allowance",
		Long: `Runs the monthly credit reset against the database configured by
DB_DRIVER, POSTGRES_* and SQLITE_PATH. Intended for a monthly cron job.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger()
			if err != nil {
				return err
			}
			defer log.Sync()

			dbService, err := db.NewService(log, db.ConfigFromEnv())
			if err != nil {
				return err
			}
			defer dbService.Close()
			if migrate {
				if err := dbService.AutoMigrateAll(); err != nil {
					return fmt.Errorf("automigrate: %w", err)
				}
			}

			catalog, err := services.LoadPlanCatalog()
			if err != nil {
				return err
			}
			gdb := dbService.DB()
			svc := services.NewSubscriptionService(
				gdb,
				log,
				repos.NewUserRepo(gdb, log),
				repos.NewSubscriptionRepo(gdb, log),
				catalog,
			)
			n, err := svc.ResetMonthlyCredits(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]int64{"users_reset": n})
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "Run schema migrations before resetting")
	return cmd
}
