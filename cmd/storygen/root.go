package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/phrazzld/tales-api/internal/app"
	"github.com/phrazzld/tales-api/internal/config"
	"github.com/phrazzld/tales-api/internal/domain"
	"github.com/phrazzld/tales-api/internal/platform/logger"
	"github.com/spf13/cobra"
)

// options holds the flag values of the storygen command.
type options struct {
	Name       string
	Age        int
	Animal     string
	Color      string
	Activity   string
	Characters []string
	StoryType  string
	Save       bool
}

func (o options) request() domain.StoryRequest {
	return domain.StoryRequest{
		Personalization: domain.Personalization{
			ChildName:            o.Name,
			ChildAge:             o.Age,
			FavoriteAnimal:       o.Animal,
			FavoriteColor:        o.Color,
			FavoriteActivity:     o.Activity,
			AdditionalCharacters: o.Characters,
		},
		StoryType: o.StoryType,
	}
}

// configLoader loads application configuration. Tests replace it.
type configLoader func() (*config.Config, error)

// newRootCmd builds the storygen command. A nil load uses config.Load.
func newRootCmd(load configLoader) *cobra.Command {
	if load == nil {
		load = config.Load
	}
	var opts options

	cmd := &cobra.Command{
		Use:   "storygen",
		Short: "Generate a personalized illustrated children's story",
		Long: `storygen builds a prompt from the given personalization, asks the configured
text model for a story, illustrates it, and prints the result as JSON.

Configuration is read from config.yaml and TALES_* environment variables,
the same way the server reads it.`,
		Example:       "  storygen --name Mia --age 5 --animal lion --type adventure --character Grandma",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.Name, "name", "", "child's name")
	flags.IntVar(&opts.Age, "age", 5, "child's age in years")
	flags.StringVar(&opts.Animal, "animal", "", "favorite animal")
	flags.StringVar(&opts.Color, "color", "", "favorite color")
	flags.StringVar(&opts.Activity, "activity", "", "favorite activity")
	flags.StringArrayVar(&opts.Characters, "character", nil, "additional character (repeatable)")
	flags.StringVar(&opts.StoryType, "type", "adventure", "story type, e.g. adventure or bedtime")
	flags.BoolVar(&opts.Save, "save", false, "persist the story through the configured store")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

// run generates one story and writes it to out as indented JSON. Logs go
// to errOut so out stays machine-readable.
func run(ctx context.Context, cfg *config.Config, opts options, out, errOut io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	l := logger.New(errOut, cfg.Server.LogLevel)

	pipeline, err := app.NewStoryGenerator(ctx, cfg, l)
	if err != nil {
		return err
	}

	result := pipeline.GenerateStory(ctx, opts.request())
	if !result.OK() {
		return errors.New(result.Message)
	}
	story := result.Story

	if opts.Save {
		storyStore, cleanup, err := app.OpenStoryStore(ctx, cfg.Store, l)
		defer cleanup()
		if err != nil {
			return err
		}
		if err := storyStore.Save(ctx, story); err != nil {
			return fmt.Errorf("error while saving the story: %w", err)
		}
		l.Info("story saved", slog.String("story_id", story.ID))
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(story)
}
