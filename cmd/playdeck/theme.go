package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hazadus/go-playdeck/internal/theme"
)

// createThemeCommand создает команду theme
func (app *Application) createThemeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Show the current theme",
		RunE: func(_ *cobra.Command, _ []string) error {
			fmt.Printf("🎨 Тема: %s\n", theme.Load(app.Store))
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "toggle",
		Short: "Switch between light and dark theme",
		RunE: func(_ *cobra.Command, _ []string) error {
			next, err := theme.Toggle(app.Store, theme.Load(app.Store))
			if err != nil {
				return err
			}
			fmt.Printf("🎨 Тема: %s\n", next)
			return nil
		},
	})

	return cmd
}
