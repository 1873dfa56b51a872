// Package player содержит панель текущей песни для TUI
package player

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"

	"github.com/hazadus/go-playdeck/internal/deck"
	"github.com/hazadus/go-playdeck/internal/tui/styles"
)

// Snapshot - отображаемое состояние транспорта
type Snapshot struct {
	Now       deck.NowPlaying
	State     deck.State
	Controls  bool
	PlayLabel string
	MuteGlyph string
	Volume    float64
	Status    string
}

// SnapshotOf снимает состояние с контроллера
func SnapshotOf(ctl *deck.Controller) Snapshot {
	return Snapshot{
		Now:       ctl.Now(),
		State:     ctl.State(),
		Controls:  ctl.ControlsEnabled(),
		PlayLabel: ctl.PlayLabel(),
		MuteGlyph: ctl.MuteGlyph(),
		Volume:    ctl.Volume(),
		Status:    ctl.Status(),
	}
}

// Model представляет панель текущей песни
type Model struct {
	progressBar progress.Model
	styles      *styles.Styles
	width       int
}

// NewModel создает панель
func NewModel(st *styles.Styles) *Model {
	m := &Model{styles: st}
	m.ApplyStyles()
	return m
}

// ApplyStyles перестраивает прогресс-бар под текущую палитру
func (m *Model) ApplyStyles() {
	width := 40
	if m.progressBar.Width > 0 {
		width = m.progressBar.Width
	}
	m.progressBar = progress.New(
		progress.WithSolidFill(string(m.styles.Palette.Accent)),
		progress.WithoutPercentage(),
	)
	m.progressBar.Width = width
}

// SetWidth задает ширину панели
func (m *Model) SetWidth(width int) {
	m.width = width
	m.progressBar.Width = max(10, min(60, width-20))
}

// Height возвращает высоту панели в строках
func (m *Model) Height() int {
	return 4
}

// View отображает панель
func (m *Model) View(s Snapshot) string {
	st := m.styles

	// Информация о песне
	var info string
	if s.State == deck.Idle {
		info = st.NowArtist.Render("Ничего не играет")
	} else {
		fav := s.Now.FavoriteGlyph()
		info = fmt.Sprintf("%s %s  %s",
			stateIcon(s.State),
			st.NowTitle.Render(s.Now.Title),
			st.NowArtist.Render(s.Now.Artist+"  "+fav),
		)
	}

	// Прогресс-бар и время
	bar := fmt.Sprintf("%s %s / %s",
		m.progressBar.ViewAs(s.Now.SeekPct/100),
		s.Now.CurTime,
		s.Now.DurTime,
	)

	// Элементы управления
	controls := fmt.Sprintf("⏮  [%s]  ⏭   %s %d%%",
		s.PlayLabel,
		s.MuteGlyph,
		int(s.Volume*100+0.5),
	)
	if s.Controls {
		controls = st.Controls.Render(controls)
	} else {
		controls = st.Disabled.Render(controls)
	}

	return strings.Join([]string{
		"  " + info,
		"  " + bar,
		"  " + controls,
		st.Status.Render("  " + s.Status),
	}, "\n")
}

func stateIcon(s deck.State) string {
	if s == deck.LoadedPlaying {
		return "▶"
	}
	return "⏸"
}
