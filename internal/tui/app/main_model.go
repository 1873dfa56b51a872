// Package app содержит основную логику TUI приложения
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/hazadus/go-playdeck/internal/data"
	"github.com/hazadus/go-playdeck/internal/deck"
	"github.com/hazadus/go-playdeck/internal/durations"
	"github.com/hazadus/go-playdeck/internal/playback"
	"github.com/hazadus/go-playdeck/internal/storage"
	"github.com/hazadus/go-playdeck/internal/theme"
	tuiPlayer "github.com/hazadus/go-playdeck/internal/tui/player"
	"github.com/hazadus/go-playdeck/internal/tui/styles"
	"github.com/hazadus/go-playdeck/internal/tui/tracklist"
)

// Шаги перемотки и громкости для клавиш
const (
	seekStep   = 5.0
	volumeStep = 0.1
)

// modeType определяет, куда направляется ввод
type modeType int

const (
	browseMode modeType = iota
	searchMode
	addFilesMode
)

// eventMsg - событие примитива воспроизведения
type eventMsg struct {
	event playback.Event
}

// startMsg - итог задачи запуска
type startMsg struct {
	result deck.StartResult
}

// durationMsg - итог пробы длительности
type durationMsg struct {
	result durations.Result
}

// Options - зависимости главной модели
type Options struct {
	Controller *deck.Controller
	Events     <-chan playback.Event
	Store      storage.KV
	Theme      theme.Theme
	Logger     *slog.Logger
}

// MainModel представляет главную модель TUI
type MainModel struct {
	ctx    context.Context
	ctl    *deck.Controller
	events <-chan playback.Event
	store  storage.KV
	logger *slog.Logger

	theme  theme.Theme
	styles *styles.Styles

	mode           modeType
	searchInput    textinput.Model
	addInput       textinput.Model
	tracklistModel *tracklist.Model
	playerModel    *tuiPlayer.Model

	width  int
	height int
}

// NewMainModel создает новую главную модель
func NewMainModel(ctx context.Context, opts Options) *MainModel {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	st := styles.New(opts.Theme)

	search := textinput.New()
	search.Prompt = "🔍 "
	search.Placeholder = "Поиск по названию или исполнителю"

	add := textinput.New()
	add.Prompt = "➕ "
	add.Placeholder = "Путь к файлу или шаблон, например ~/Music/*.mp3"

	m := &MainModel{
		ctx:            ctx,
		ctl:            opts.Controller,
		events:         opts.Events,
		store:          opts.Store,
		logger:         logger,
		theme:          opts.Theme,
		styles:         &st,
		searchInput:    search,
		addInput:       add,
		tracklistModel: tracklist.NewModel(&st),
		playerModel:    tuiPlayer.NewModel(&st),
		width:          80,
		height:         24,
	}
	m.layout()
	m.refresh()
	return m
}

// Init запускает прослушивание событий и пробы длительностей
func (m *MainModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.listenForEvents()}
	cmds = append(cmds, probeCmds(m.ctl.ProbeAll(m.ctx))...)
	return tea.Batch(cmds...)
}

// Update обрабатывает сообщения
func (m *MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case tea.KeyMsg:
		// Глобальные горячие клавиши
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case searchMode:
			return m, m.updateSearch(msg)
		case addFilesMode:
			return m, m.updateAddFiles(msg)
		default:
			return m, m.updateBrowse(msg)
		}

	case tracklist.IntentMsg:
		cmd := startCmd(m.ctl.Dispatch(msg.Intent))
		m.refresh()
		return m, cmd

	case startMsg:
		m.ctl.ApplyStart(msg.result)
		return m, nil

	case eventMsg:
		cmd := startCmd(m.ctl.HandleEvent(msg.event))
		if msg.event.Kind != playback.EventPosition {
			m.refresh()
		}
		return m, tea.Batch(m.listenForEvents(), cmd)

	case durationMsg:
		if m.ctl.ApplyDuration(msg.result) {
			m.refresh()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.tracklistModel, cmd = m.tracklistModel.Update(msg)
	return m, cmd
}

// updateBrowse обрабатывает клавиши в режиме просмотра списка
func (m *MainModel) updateBrowse(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd

	switch msg.String() {
	case "q":
		return tea.Quit
	case "/":
		m.mode = searchMode
		return m.searchInput.Focus()
	case "a":
		m.mode = addFilesMode
		m.addInput.SetValue("")
		return m.addInput.Focus()
	case "tab":
		m.ctl.SetFavoritesOnly(!m.ctl.Filter().FavoritesOnly)
	case "esc":
		if m.ctl.Filter().Query == "" {
			return nil
		}
		m.searchInput.SetValue("")
		m.ctl.SetQuery("")
	case "p":
		cmd = startCmd(m.ctl.TogglePlayPause())
	case "n":
		cmd = startCmd(m.ctl.Next())
	case "b":
		cmd = startCmd(m.ctl.Previous())
	case "left":
		m.ctl.SeekBy(-seekStep)
	case "right":
		m.ctl.SeekBy(seekStep)
	case "+", "=":
		m.ctl.SetVolume(m.ctl.Volume() + volumeStep)
	case "-":
		m.ctl.SetVolume(m.ctl.Volume() - volumeStep)
	case "m":
		m.ctl.ToggleMute()
	case "F":
		m.ctl.ToggleNowFavorite()
	case "t":
		m.toggleTheme()
	default:
		m.tracklistModel, cmd = m.tracklistModel.Update(msg)
		return cmd
	}

	m.refresh()
	return cmd
}

// updateSearch передает ввод в строку поиска и сразу фильтрует список
func (m *MainModel) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter", "esc":
		m.mode = browseMode
		m.searchInput.Blur()
		return nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.ctl.SetQuery(m.searchInput.Value())
	m.refresh()
	return cmd
}

// updateAddFiles обрабатывает ввод пути к локальным файлам
func (m *MainModel) updateAddFiles(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.mode = browseMode
		m.addInput.Blur()
		return nil
	case "enter":
		m.mode = browseMode
		m.addInput.Blur()
		files, err := ExpandFiles(m.addInput.Value())
		if err != nil {
			m.ctl.SetStatus(err.Error())
			return nil
		}
		jobs := m.ctl.AddLocal(m.ctx, files)
		m.refresh()
		return tea.Batch(probeCmds(jobs)...)
	}

	var cmd tea.Cmd
	m.addInput, cmd = m.addInput.Update(msg)
	return cmd
}

// toggleTheme переключает и сохраняет тему
func (m *MainModel) toggleTheme() {
	next, err := theme.Toggle(m.store, m.theme)
	if err != nil {
		m.logger.Error("не удалось сохранить тему", "error", err)
		m.ctl.SetStatus("Не удалось сохранить тему.")
	} else {
		m.ctl.SetStatus(fmt.Sprintf("Тема: %s", next))
	}

	m.theme = next
	*m.styles = styles.New(next)
	m.playerModel.ApplyStyles()
}

// View отображает интерфейс
func (m *MainModel) View() string {
	st := m.styles

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		st.Title.Render("🎵 playdeck"),
		"  ",
		m.tabs(),
	)

	var input string
	switch m.mode {
	case searchMode:
		input = st.Input.Render(m.searchInput.View())
	case addFilesMode:
		input = st.Input.Render(m.addInput.View())
	default:
		if q := m.ctl.Filter().Query; q != "" {
			input = st.Input.Render("🔍 " + q)
		} else {
			input = st.Help.Render("/: поиск")
		}
	}

	help := st.Help.Render(m.helpText())

	return strings.Join([]string{
		header,
		input,
		m.tracklistModel.View(),
		m.playerModel.View(tuiPlayer.SnapshotOf(m.ctl)),
		help,
	}, "\n")
}

// Theme возвращает текущую тему
func (m *MainModel) Theme() theme.Theme {
	return m.theme
}

func (m *MainModel) tabs() string {
	st := m.styles
	all, favs := st.Tab, st.Tab
	if m.ctl.Filter().FavoritesOnly {
		favs = st.ActiveTab
	} else {
		all = st.ActiveTab
	}
	return all.Render("Все песни") + " " + favs.Render("★ Избранное")
}

func (m *MainModel) helpText() string {
	switch m.mode {
	case searchMode:
		return "Enter/Esc: готово"
	case addFilesMode:
		return "Enter: добавить • Esc: отмена"
	}
	return "Enter: играть • f: избранное • F: избранное (текущая) • p: пауза • n/b: след./пред. • ←/→: перемотка • +/-: громкость • m: звук • Tab: вкладка • a: добавить • t: тема • q: выход"
}

// refresh перестраивает строки списка после изменения состояния
func (m *MainModel) refresh() {
	m.tracklistModel.SetListing(m.ctl.Listing())
}

// layout распределяет высоту окна между списком и панелью
func (m *MainModel) layout() {
	m.playerModel.SetWidth(m.width)
	m.searchInput.Width = max(10, m.width-10)
	m.addInput.Width = max(10, m.width-10)

	// Заголовок, строка ввода и справка
	const chrome = 3
	m.tracklistModel.SetSize(m.width, m.height-chrome-m.playerModel.Height())
}

// listenForEvents ждет следующее событие примитива
func (m *MainModel) listenForEvents() tea.Cmd {
	events := m.events
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		return eventMsg{event: <-events}
	}
}

// startCmd выполняет задачу запуска вне цикла событий
func startCmd(start deck.Start) tea.Cmd {
	if start == nil {
		return nil
	}
	return func() tea.Msg {
		return startMsg{result: start()}
	}
}

// probeCmds превращает задачи проб в команды
func probeCmds(jobs []durations.Job) []tea.Cmd {
	return lo.Map(jobs, func(job durations.Job, _ int) tea.Cmd {
		return func() tea.Msg {
			return durationMsg{result: job()}
		}
	})
}

// ExpandFiles превращает путь или шаблон в список локальных файлов.
// Несколько шаблонов разделяются точкой с запятой
func ExpandFiles(input string) ([]data.LocalFile, error) {
	var files []data.LocalFile
	for _, pattern := range strings.Split(input, ";") {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		pattern = expandHome(pattern)

		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("некорректный шаблон %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("файлы не найдены: %s", pattern)
		}
		for _, match := range matches {
			abs, err := filepath.Abs(match)
			if err != nil {
				abs = match
			}
			files = append(files, data.LocalFile{Name: filepath.Base(match), Src: abs})
		}
	}
	if len(files) == 0 {
		return nil, errors.New("не указаны файлы")
	}
	return lo.UniqBy(files, func(f data.LocalFile) string { return f.Src }), nil
}

func expandHome(filePath string) string {
	if !strings.HasPrefix(filePath, "~") {
		return filePath
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filePath
	}
	return strings.Replace(filePath, "~", home, 1)
}
