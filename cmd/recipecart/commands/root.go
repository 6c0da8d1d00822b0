package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"recipecart/internal/app"
	"recipecart/lib/telemetry"

	"github.com/spf13/cobra"
)

var (
	envFile       string
	configFile    string
	translateFlag bool
	verbose       bool
)

var errMissingLink = errors.New("please provide a recipe link")

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "The env file holding USR, PASS and LIST.")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "recipecart.json5", "The settings file.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output and dump http exchanges to disk.")
	rootCmd.Flags().BoolVar(&translateFlag, "translate", false, "Translate ingredients before adding them.")
}

var rootCmd = &cobra.Command{
	Use:   "recipecart <recipe-url>",
	Short: "recipecart adds the ingredients of a recipe to an ICA shopping list.",
	// errors are logged once by the caller of ExecuteContext
	SilenceErrors: true,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return errMissingLink
		}
		return nil
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(verbose)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		ctx := cmd.Context()
		env, err := loadEnv(translateFlag)
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}

		a, err := app.New(app.Options{
			Credentials: env.creds,
			Extractor:   env.extractor,
			Translator:  env.translator,
			Vendor:      env.vendor,
		})
		if err != nil {
			return fmt.Errorf("initialize: %w", err)
		}

		result, err := a.Run(ctx, args[0])
		if err != nil {
			return fmt.Errorf("add recipe: %w", err)
		}

		slog.Info(
			"added ingredients",
			"recipe", result.Recipe.Title,
			"list", env.creds.ListName,
			"created_list", result.ListCreated,
			"items", len(result.Items),
		)
		return nil
	},
}

// ExecuteContext runs the command tree and returns the first error,
// usage has already been printed for argument errors.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
