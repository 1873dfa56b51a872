package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/hazadus/go-playdeck/internal/config"
)

// createRootCommand создает корневую команду с настроенными подкомандами
func (app *Application) createRootCommand(ctx context.Context) *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "playdeck",
		Short:         "Terminal playlist and playback controller",
		Long:          `Play a song list with search, favorites and transport controls in the terminal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return app.Init(configPath)
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "path to the config file")

	// Добавляем команды, передавая в них экземпляр приложения и контекст
	rootCmd.AddCommand(app.createTUICommand(ctx))
	rootCmd.AddCommand(app.createListCommand(ctx))
	rootCmd.AddCommand(app.createFavoritesCommand())
	rootCmd.AddCommand(app.createThemeCommand())
	rootCmd.AddCommand(app.createImportCommand(ctx))

	return rootCmd
}
