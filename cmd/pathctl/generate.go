package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	types "github.com/yungbote/pathwise-backend/internal/domain"
	"github.com/yungbote/pathwise-backend/internal/domain/learning"
	"github.com/yungbote/pathwise-backend/internal/modules/learning/coursegen"
	"github.com/yungbote/pathwise-backend/internal/platform/articles"
	"github.com/yungbote/pathwise-backend/internal/platform/envutil"
	"github.com/yungbote/pathwise-backend/internal/platform/llm"
	"github.com/yungbote/pathwise-backend/internal/platform/youtube"
)

func newGenerateCommand() *cobra.Command {
	var (
		topic     string
		level     string
		pace      string
		goals     []string
		provider  string
		model     string
		playlists bool
		timeout   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a course and print it as JSON",
		Long: `Runs the full course pipeline (LLM, parse, enrichment, template fallback)
without touching the database. Missing API keys fall back to template and
curated content.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			topic = strings.TrimSpace(topic)
			if topic == "" {
				return fmt.Errorf("--topic is required")
			}
			lvl := types.Level(level)
			if !lvl.Valid() {
				return fmt.Errorf("invalid --level %q", level)
			}
			p := types.Pace(pace)
			if !p.Valid() {
				return fmt.Errorf("invalid --pace %q", pace)
			}

			log, err := newLogger()
			if err != nil {
				return err
			}
			defer log.Sync()

			gen := coursegen.New(coursegen.Deps{
				Log:      log,
				LLM:      llm.NewAdapter(log, llm.Options{Backends: llm.DefaultBackends(log), RetryDelay: llm.DefaultRetryDelay}),
				Videos:   youtube.New(log, youtube.Config{}),
				Articles: articles.New(log, articles.Config{}),
			}, coursegen.Config{Provider: provider, Model: model, IncludePlaylists: playlists})

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			res := gen.Generate(ctx, coursegen.Request{Topic: topic, Level: lvl, Pace: p, Goals: goals})
			return printJSON(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringVar(&topic, "topic", "", "Course topic")
	cmd.Flags().StringVar(&level, "level", string(learning.LevelHighSchool), "Education level")
	cmd.Flags().StringVar(&pace, "pace", string(learning.PaceSelfPaced), "Pace: self-paced, intensive, casual")
	cmd.Flags().StringArrayVar(&goals, "goal", nil, "Learning goal (repeatable)")
	cmd.Flags().StringVar(&provider, "provider", envutil.String("COURSEGEN_PROVIDER", coursegen.DefaultProvider), "LLM provider: openai, anthropic, gemini")
	cmd.Flags().StringVar(&model, "model", envutil.String("COURSEGEN_MODEL", coursegen.DefaultModel), "LLM model")
	cmd.Flags().BoolVar(&playlists, "playlists", envutil.Bool("COURSEGEN_INCLUDE_PLAYLISTS", false), "Include playlists for the main topic")
	cmd.Flags().DurationVar(&timeout, "timeout", envutil.Seconds("COURSEGEN_TIMEOUT_SECONDS", 120*time.Second), "Overall generation timeout")
	return cmd
}
