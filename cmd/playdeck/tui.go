package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hazadus/go-playdeck/internal/data"
	"github.com/hazadus/go-playdeck/internal/deck"
	"github.com/hazadus/go-playdeck/internal/durations"
	"github.com/hazadus/go-playdeck/internal/favorites"
	"github.com/hazadus/go-playdeck/internal/metadata"
	"github.com/hazadus/go-playdeck/internal/player"
	"github.com/hazadus/go-playdeck/internal/playback"
	"github.com/hazadus/go-playdeck/internal/theme"
	"github.com/hazadus/go-playdeck/internal/tui"
	tuiapp "github.com/hazadus/go-playdeck/internal/tui/app"
)

// createTUICommand создает команду tui с привязкой к экземпляру приложения
func (app *Application) createTUICommand(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "tui [files...]",
		Short: "Launch TUI (Terminal User Interface)",
		Long: `Launch interactive terminal user interface with the song list, search, favorites and transport controls.
Files given as arguments are added to the top of the list for this session only.`,
		RunE: func(_ *cobra.Command, args []string) error {
			files, err := localFiles(args)
			if err != nil {
				return err
			}

			opener := app.newOpener()
			primitive := player.NewPlayer(opener, app.Config.Volume, app.Logger)
			defer primitive.Close()

			return app.launchTUI(ctx, app.newController(primitive, opener), primitive.Events(), files)
		},
	}
}

// newController собирает контроллер поверх библиотеки и хранилища
func (app *Application) newController(primitive playback.Primitive, opener metadata.Opener) *deck.Controller {
	extractor := metadata.NewExtractor(opener)
	return deck.New(deck.Deps{
		Playlist:  data.NewPlaylist(app.Library.Songs),
		Favorites: favorites.Load(app.Store, app.Logger),
		Durations: durations.New(extractor, app.Config.ProbeConcurrency, app.Logger),
		Primitive: primitive,
		Logger:    app.Logger,
	})
}

func (app *Application) launchTUI(ctx context.Context, ctl *deck.Controller, events <-chan playback.Event, files []data.LocalFile) error {
	// Пробы для всех песен, включая новые, запускает сам интерфейс
	_ = ctl.AddLocal(ctx, files)

	tuiApp := tui.NewApp(tuiapp.Options{
		Controller: ctl,
		Events:     events,
		Store:      app.Store,
		Theme:      theme.Load(app.Store),
		Logger:     app.Logger,
	})

	if err := tuiApp.Run(ctx); err != nil {
		return fmt.Errorf("ошибка работы интерфейса: %w", err)
	}
	return nil
}
