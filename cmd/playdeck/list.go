package main

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/hazadus/go-playdeck/internal/durations"
	"github.com/hazadus/go-playdeck/internal/favorites"
	"github.com/hazadus/go-playdeck/internal/metadata"
	"github.com/hazadus/go-playdeck/internal/render"
	"github.com/hazadus/go-playdeck/internal/search"
	"github.com/hazadus/go-playdeck/internal/utils"
)

// probeTimeout ограничивает время определения длительностей для list
const probeTimeout = 30 * time.Second

// createListCommand создает команду list с привязкой к экземпляру приложения
func (app *Application) createListCommand(ctx context.Context) *cobra.Command {
	var (
		query         string
		favoritesOnly bool
		noProbe       bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List songs from the library",
		Long:  `Display the song list with favorites and durations. Durations are probed from the sources unless --no-probe is given.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return app.listSongs(ctx, search.Filter{Query: query, FavoritesOnly: favoritesOnly}, !noProbe)
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "show only songs whose title or artist contains the text")
	cmd.Flags().BoolVarP(&favoritesOnly, "favorites", "f", false, "show only favorite songs")
	cmd.Flags().BoolVar(&noProbe, "no-probe", false, "do not read durations from the sources")

	return cmd
}

func (app *Application) listSongs(ctx context.Context, filter search.Filter, probe bool) error {
	if len(app.Library.Songs) == 0 {
		fmt.Println("📚 Библиотека пуста. Добавьте песни с помощью команды 'import'.")
		return nil
	}

	favs := favorites.Load(app.Store, app.Logger)
	visible := search.Visible(app.Library.Songs, filter, favs)

	cache := durations.New(metadata.NewExtractor(app.newOpener()), app.Config.ProbeConcurrency, app.Logger)
	if probe {
		probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
		defer cancel()
		runProbes(cache, cache.ProbeAll(probeCtx, visible))
	}

	listing := render.Project(visible, "", favs, cache, filter.FavoritesOnly)
	if listing.Empty() {
		fmt.Println("🔍 " + listing.Placeholder)
		return nil
	}

	fmt.Printf("📚 Найдено песен: %d\n\n", len(listing.Rows))

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.SetAllowedRowLength(terminalWidth())
	t.AppendHeader(table.Row{"", "ID", "Исполнитель", "Название", "Длительность"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 5, Align: text.AlignRight},
	})

	for _, row := range listing.Rows {
		t.AppendRow(table.Row{
			row.FavoriteGlyph,
			row.SongID,
			utils.TruncateString(row.Artist, 28),
			utils.TruncateString(row.Title, 40),
			row.Duration,
		})
	}
	t.Render()

	fmt.Println()
	fmt.Println("💡 Используйте 'playdeck tui' для воспроизведения")
	return nil
}

// runProbes выполняет пробы параллельно и применяет результаты в текущей горутине
func runProbes(cache *durations.Cache, jobs []durations.Job) {
	results := make([]durations.Result, len(jobs))

	var wg sync.WaitGroup
	for i, job := range jobs {
		wg.Add(1)
		go func(i int, job durations.Job) {
			defer wg.Done()
			results[i] = job()
		}(i, job)
	}
	wg.Wait()

	for _, r := range results {
		cache.Apply(r)
	}
}

// terminalWidth возвращает ширину терминала или значение по умолчанию
func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 120
	}
	return width
}
