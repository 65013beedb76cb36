package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/yungbote/pathwise-backend/internal/platform/envutil"
	"github.com/yungbote/pathwise-backend/internal/platform/logger"
)

const version = "0.1.0"

var logMode string

func main() {
	_ = godotenv.Load()
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pathctl",
		Short: "pathctl - operate the Pathwise course pipeline",
		Long: `pathctl runs the course generator and billing maintenance outside the API server.
Output is JSON (pipe through jq for human-readable formatting).`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().StringVar(&logMode, "log-mode", envutil.String("LOG_MODE", "test"), "Logger mode: development, production, test")

	rootCmd.AddCommand(newGenerateCommand())
	rootCmd.AddCommand(newPlansCommand())
	rootCmd.AddCommand(newResetCreditsCommand())
	return rootCmd
}

func newLogger() (*logger.Logger, error) {
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return log, nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
