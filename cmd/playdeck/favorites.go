package main

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/hazadus/go-playdeck/internal/data"
	"github.com/hazadus/go-playdeck/internal/favorites"
)

// createFavoritesCommand создает команду favorites с подкомандами
func (app *Application) createFavoritesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "favorites",
		Short: "Show favorite songs",
		Long:  `Display the favorite songs in the order they were added.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			app.listFavorites()
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "toggle [song id]",
		Short: "Add a song to favorites or remove it",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return app.toggleFavorite(args[0])
		},
	})

	return cmd
}

func (app *Application) listFavorites() {
	favs := favorites.Load(app.Store, app.Logger)
	if favs.Len() == 0 {
		fmt.Println("☆ Избранных песен нет.")
		return
	}

	index := lo.KeyBy(app.Library.Songs, func(s data.Song) string { return s.ID })

	fmt.Printf("★ Избранных песен: %d\n\n", favs.Len())
	for _, id := range favs.IDs() {
		song, ok := index[id]
		if !ok {
			// ID мог остаться от локального файла прошлой сессии
			fmt.Printf("  %s (нет в библиотеке)\n", id)
			continue
		}
		fmt.Printf("  %s  %s - %s\n", id, song.Artist, song.Title)
	}
}

func (app *Application) toggleFavorite(id string) error {
	song, ok := lo.Find(app.Library.Songs, func(s data.Song) bool { return s.ID == id })
	if !ok {
		return fmt.Errorf("%w: %s", data.ErrSongNotFound, id)
	}

	favs := favorites.Load(app.Store, app.Logger)
	added, err := favs.Toggle(id)
	if err != nil {
		return err
	}

	if added {
		fmt.Printf("★ Добавлено в избранное: %s - %s\n", song.Artist, song.Title)
	} else {
		fmt.Printf("☆ Удалено из избранного: %s - %s\n", song.Artist, song.Title)
	}
	return nil
}
