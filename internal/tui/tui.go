// Package tui содержит компоненты для текстового пользовательского интерфейса
package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hazadus/go-playdeck/internal/tui/app"
)

// App представляет основное TUI приложение
type App struct {
	opts app.Options
}

// NewApp создает новый экземпляр TUI приложения
func NewApp(opts app.Options) *App {
	return &App{opts: opts}
}

// Model создает главную модель. Вынесено отдельно для тестов
func (tuiApp *App) Model(ctx context.Context) *app.MainModel {
	return app.NewMainModel(ctx, tuiApp.opts)
}

// Run запускает TUI приложение и блокируется до выхода пользователя
func (tuiApp *App) Run(ctx context.Context) error {
	p := tea.NewProgram(tuiApp.Model(ctx), tea.WithAltScreen(), tea.WithContext(ctx))

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		// Выход по отмене контекста (Ctrl+C в терминале до запуска TUI)
		return nil
	}
	return err
}
