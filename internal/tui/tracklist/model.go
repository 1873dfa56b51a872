// Package tracklist содержит модель списка песен для TUI
package tracklist

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/hazadus/go-playdeck/internal/render"
	"github.com/hazadus/go-playdeck/internal/tui/styles"
	"github.com/hazadus/go-playdeck/internal/utils"
)

// Ширины колонок
const (
	titleWidth  = 40
	artistWidth = 24
)

// IntentMsg отправляется при действии над строкой списка
type IntentMsg struct {
	Intent render.Intent
}

// rowItem реализует интерфейс list.Item для строки
type rowItem struct {
	row render.Row
}

func (i rowItem) FilterValue() string {
	return i.row.Title + " " + i.row.Artist
}

// rowDelegate реализует отображение строк списка
type rowDelegate struct {
	styles *styles.Styles
}

func (d rowDelegate) Height() int                             { return 1 }
func (d rowDelegate) Spacing() int                            { return 0 }
func (d rowDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d rowDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(rowItem)
	if !ok {
		return
	}
	s := d.styles

	// Форматируем строку: Избранное | Локальный | Название | Исполнитель | Продолжительность
	title := runewidth.FillRight(utils.TruncateString(i.row.Title, titleWidth), titleWidth)
	artist := runewidth.FillRight(utils.TruncateString(i.row.Artist, artistWidth), artistWidth)
	if i.row.Active {
		title = s.Active.Render(title)
	}
	glyph := i.row.FavoriteGlyph
	if i.row.Favorite {
		glyph = s.Favorite.Render(glyph)
	}
	local := " "
	if i.row.IsLocal {
		local = render.GlyphLocal
	}
	str := fmt.Sprintf("%s %s%s %s %5s", glyph, local, title, artist, i.row.Duration)

	marker := "  "
	if i.row.Active {
		marker = "♪ "
	}

	if index == m.Index() {
		fmt.Fprint(w, s.Selected.Render("> "+marker+str))
		return
	}
	fmt.Fprint(w, s.Item.Render(marker+str))
}

// Model представляет модель списка песен
type Model struct {
	list        list.Model
	styles      *styles.Styles
	placeholder string
}

// NewModel создает пустую модель списка
func NewModel(st *styles.Styles) *Model {
	l := list.New(nil, rowDelegate{styles: st}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)
	l.Styles.PaginationStyle = list.DefaultStyles().PaginationStyle.PaddingLeft(4)

	return &Model{
		list:   l,
		styles: st,
	}
}

// SetListing заменяет строки списка. Курсор остается на той же песне, если она видна
func (m *Model) SetListing(listing render.Listing) {
	m.placeholder = listing.Placeholder

	selectedID := ""
	if row, ok := m.Selected(); ok {
		selectedID = row.SongID
	}

	items := make([]list.Item, len(listing.Rows))
	cursor := 0
	for i, row := range listing.Rows {
		items[i] = rowItem{row: row}
		if row.SongID == selectedID {
			cursor = i
		}
	}
	m.list.SetItems(items)
	if len(items) > 0 {
		m.list.Select(cursor)
	}
}

// Selected возвращает строку под курсором
func (m *Model) Selected() (render.Row, bool) {
	item, ok := m.list.SelectedItem().(rowItem)
	if !ok {
		return render.Row{}, false
	}
	return item.row, true
}

// Len возвращает количество строк
func (m *Model) Len() int {
	return len(m.list.Items())
}

// SetSize задает размеры списка
func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, max(height, 1))
}

// Update обрабатывает сообщения и обновляет модель
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter", " ":
			return m, m.intent(render.ActionPlay)
		case "f":
			return m, m.intent(render.ActionFavorite)
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View отображает модель
func (m *Model) View() string {
	if m.Len() == 0 {
		return m.styles.Placeholder.Render(m.placeholder)
	}
	return m.list.View()
}

// intent создает команду с действием для строки под курсором
func (m *Model) intent(action render.Action) tea.Cmd {
	row, ok := m.Selected()
	if !ok {
		return nil
	}
	return func() tea.Msg {
		return IntentMsg{Intent: row.Intent(action)}
	}
}
