// Package styles содержит палитры lipgloss для светлой и темной темы
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/go-playdeck/internal/theme"
)

// Palette - набор цветов темы
type Palette struct {
	Foreground lipgloss.Color
	Dim        lipgloss.Color
	Accent     lipgloss.Color
	Selected   lipgloss.Color
	Favorite   lipgloss.Color
	Error      lipgloss.Color
}

var (
	light = Palette{
		Foreground: lipgloss.Color("#1F2937"),
		Dim:        lipgloss.Color("#6B7280"),
		Accent:     lipgloss.Color("#2563EB"),
		Selected:   lipgloss.Color("170"),
		Favorite:   lipgloss.Color("#D97706"),
		Error:      lipgloss.Color("#DC2626"),
	}
	dark = Palette{
		Foreground: lipgloss.Color("#F9FAFB"),
		Dim:        lipgloss.Color("#9CA3AF"),
		Accent:     lipgloss.Color("#E5A00D"),
		Selected:   lipgloss.Color("212"),
		Favorite:   lipgloss.Color("#FBBF24"),
		Error:      lipgloss.Color("#EF4444"),
	}
)

// Styles - готовые стили интерфейса
type Styles struct {
	Theme   theme.Theme
	Palette Palette

	Title       lipgloss.Style
	Tab         lipgloss.Style
	ActiveTab   lipgloss.Style
	Item        lipgloss.Style
	Selected    lipgloss.Style
	Active      lipgloss.Style
	Favorite    lipgloss.Style
	Placeholder lipgloss.Style
	NowTitle    lipgloss.Style
	NowArtist   lipgloss.Style
	Controls    lipgloss.Style
	Disabled    lipgloss.Style
	Status      lipgloss.Style
	Help        lipgloss.Style
	Input       lipgloss.Style
}

// New возвращает стили для темы
func New(t theme.Theme) Styles {
	p := light
	if t == theme.Dark {
		p = dark
	}

	return Styles{
		Theme:   t,
		Palette: p,

		Title:       lipgloss.NewStyle().Bold(true).Foreground(p.Accent).MarginLeft(2),
		Tab:         lipgloss.NewStyle().Foreground(p.Dim).Padding(0, 1),
		ActiveTab:   lipgloss.NewStyle().Foreground(p.Foreground).Background(p.Accent).Padding(0, 1),
		Item:        lipgloss.NewStyle().PaddingLeft(4).Foreground(p.Foreground),
		Selected:    lipgloss.NewStyle().PaddingLeft(2).Foreground(p.Selected),
		Active:      lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		Favorite:    lipgloss.NewStyle().Foreground(p.Favorite),
		Placeholder: lipgloss.NewStyle().PaddingLeft(4).Italic(true).Foreground(p.Dim),
		NowTitle:    lipgloss.NewStyle().Bold(true).Foreground(p.Foreground),
		NowArtist:   lipgloss.NewStyle().Foreground(p.Dim),
		Controls:    lipgloss.NewStyle().Foreground(p.Accent),
		Disabled:    lipgloss.NewStyle().Foreground(p.Dim).Faint(true),
		Status:      lipgloss.NewStyle().Foreground(p.Dim).Italic(true),
		Help:        lipgloss.NewStyle().Foreground(p.Dim).PaddingLeft(2),
		Input:       lipgloss.NewStyle().Foreground(p.Foreground).PaddingLeft(2),
	}
}
