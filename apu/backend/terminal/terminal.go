package terminal

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/valerio/go-apu/apu/backend"
	"github.com/valerio/go-apu/apu/backend/terminal/render"
	"github.com/valerio/go-apu/apu/debug"
	"github.com/valerio/go-apu/apu/song"
)

const (
	minTermWidth  = 64
	minTermHeight = 22
	scopeHeight   = 7
	logCapacity   = 100
	helpText      = "space play/pause  1-5 mute  shift+1-5 solo  +/- log level  q quit"
)

var soloRunes = map[rune]int{'!': 0, '@': 1, '#': 2, '$': 3, '%': 4}

// Backend implements the Backend interface as a tcell playback monitor
type Backend struct {
	screen    tcell.Screen
	logBuffer *render.LogBuffer
	logLevel  slog.Level
	config    backend.BackendConfig

	interrupted atomic.Bool
	done        chan struct{}
}

// New creates a new terminal backend
func New() *Backend {
	return &Backend{
		logLevel: slog.LevelInfo,
	}
}

// NewWithScreen creates a terminal backend drawing to screen, which Init
// initializes. Used with tcell simulation screens.
func NewWithScreen(screen tcell.Screen) *Backend {
	t := New()
	t.screen = screen
	return t
}

// Init initializes the terminal backend
func (t *Backend) Init(config backend.BackendConfig) error {
	t.config = config
	t.done = make(chan struct{})

	if t.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("failed to initialize terminal: %w", err)
		}
		t.screen = screen
	}
	if err := t.screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}

	// logs go to the monitor panel, writing to stderr would tear the screen
	t.logBuffer = render.NewLogBuffer(logCapacity)
	slog.SetDefault(slog.New(render.NewLogBufferHandler(t.logBuffer, slog.LevelDebug)))

	if config.ShowDebug {
		t.logLevel = slog.LevelDebug
	}
	slog.Info("Terminal monitor initialized", "song", config.SongName)

	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.Clear()

	go t.handleSignals()

	return nil
}

// Update draws the snapshot and returns the keys pressed since the last frame
func (t *Backend) Update(snap *debug.Snapshot) ([]backend.Action, error) {
	var actions []backend.Action

	for t.screen.HasPendingEvent() {
		switch ev := t.screen.PollEvent().(type) {
		case *tcell.EventKey:
			if act, ok := t.processKeyEvent(ev); ok {
				actions = append(actions, act)
			}
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}

	if t.interrupted.Load() {
		actions = append(actions, backend.Action{Type: backend.ActionQuit})
	}

	for _, act := range actions {
		if act.Type == backend.ActionQuit && t.config.Callbacks.OnQuit != nil {
			t.config.Callbacks.OnQuit()
			break
		}
	}

	if snap == nil {
		snap = &debug.Snapshot{}
	}
	t.render(snap)
	return actions, nil
}

// Cleanup cleans up terminal resources
func (t *Backend) Cleanup() error {
	if t.done != nil {
		close(t.done)
		t.done = nil
	}
	if t.screen != nil {
		slog.Info("Cleaning up terminal backend")
		t.screen.Fini()
	}
	return nil
}

func (t *Backend) handleSignals() {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)
	defer signal.Stop(signals)

	select {
	case <-signals:
		t.interrupted.Store(true)
	case <-t.done:
	}
}

func (t *Backend) processKeyEvent(ev *tcell.EventKey) (backend.Action, bool) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return backend.Action{Type: backend.ActionQuit}, true
	case tcell.KeyRune:
	default:
		return backend.Action{}, false
	}

	r := ev.Rune()
	switch {
	case r == 'q' || r == 'Q':
		return backend.Action{Type: backend.ActionQuit}, true
	case r == ' ':
		return backend.Action{Type: backend.ActionPlayToggle}, true
	case r >= '1' && int(r-'1') < song.Channels:
		return backend.Action{Type: backend.ActionChannelToggle, Channel: int(r - '1')}, true
	case r == '+' || r == '=':
		t.changeLogLevel(1)
		return backend.Action{}, false
	case r == '-':
		t.changeLogLevel(-1)
		return backend.Action{}, false
	}

	if index, ok := soloRunes[r]; ok {
		return backend.Action{Type: backend.ActionChannelSolo, Channel: index}, true
	}
	return backend.Action{}, false
}

func (t *Backend) changeLogLevel(direction int) {
	oldLevel := t.logLevel
	switch direction {
	case -1:
		switch t.logLevel {
		case slog.LevelDebug:
			t.logLevel = slog.LevelInfo
		case slog.LevelInfo:
			t.logLevel = slog.LevelWarn
		case slog.LevelWarn:
			t.logLevel = slog.LevelError
		}
	case 1:
		switch t.logLevel {
		case slog.LevelError:
			t.logLevel = slog.LevelWarn
		case slog.LevelWarn:
			t.logLevel = slog.LevelInfo
		case slog.LevelInfo:
			t.logLevel = slog.LevelDebug
		}
	}
	if oldLevel != t.logLevel {
		slog.Info("Log filter changed", "from", oldLevel, "to", t.logLevel)
	}
}

func (t *Backend) render(snap *debug.Snapshot) {
	t.screen.Clear()
	termWidth, termHeight := t.screen.Size()
	if termWidth < minTermWidth || termHeight < minTermHeight {
		msg := fmt.Sprintf("Terminal too small (need %dx%d)", minTermWidth, minTermHeight)
		t.drawText(0, termHeight/2, termWidth, msg, tcell.StyleDefault.Foreground(tcell.ColorRed))
		t.screen.Show()
		return
	}

	titleStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	borderStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)

	title := t.config.Title
	if t.config.SongName != "" {
		title += " | " + t.config.SongName
	}
	t.drawText(1, 0, termWidth-2, title, titleStyle)
	t.drawText(1, 1, termWidth-2, statusLine(snap), tcell.StyleDefault)

	y := 2
	t.drawRule(y, termWidth, borderStyle)
	y++
	y = t.drawChannels(y, termWidth, snap)
	t.drawRule(y, termWidth, borderStyle)
	y++
	y = t.drawScope(y, termWidth, snap)
	t.drawMeters(y, termWidth, snap)
	y++
	t.drawRule(y, termWidth, borderStyle)
	y++
	t.drawLogs(1, y, termWidth-2, termHeight-1)
	t.drawText(1, termHeight-1, termWidth-2, helpText, borderStyle)

	t.screen.Show()
}

func statusLine(snap *debug.Snapshot) string {
	if !snap.Loaded {
		return "No song loaded"
	}
	state := "paused"
	if snap.Playing {
		state = "playing"
	}
	return fmt.Sprintf("%-7s  pattern %02d row %03d  tempo %d bps x %d tpb  volume %.2f",
		state, snap.Pattern, snap.Row, snap.BPS, snap.TPB, snap.SongVolume)
}

func (t *Backend) drawChannels(y, width int, snap *debug.Snapshot) int {
	mutedStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	activeStyle := tcell.StyleDefault.Foreground(tcell.ColorGreen)

	for i := 0; i < song.Channels; i++ {
		if i >= len(snap.Channels) {
			t.drawText(1, y+i, width-2, fmt.Sprintf("%d  ...", i), mutedStyle)
			continue
		}
		ch := snap.Channels[i]
		style := tcell.StyleDefault
		switch {
		case !ch.Enabled:
			style = mutedStyle
		case ch.Active:
			style = activeStyle
		}
		t.drawText(1, y+i, width-2, ch.String(), style)
	}
	return y + song.Channels
}

func (t *Backend) drawScope(y, width int, snap *debug.Snapshot) int {
	axisStyle := tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	traceStyle := tcell.StyleDefault.Foreground(tcell.ColorAqua)

	for x := 1; x < width-1; x++ {
		t.screen.SetContent(x, y+scopeHeight/2, '·', nil, axisStyle)
	}
	for x, row := range render.ScopeRows(snap.Waveform, width-2, scopeHeight) {
		t.screen.SetContent(x+1, y+row, '•', nil, traceStyle)
	}
	return y + scopeHeight
}

func (t *Backend) drawMeters(y, width int, snap *debug.Snapshot) {
	barWidth := max(1, (width-30)/2)
	line := fmt.Sprintf("peak %s %.3f  rms %s %.3f",
		render.LevelBar(snap.Peak, barWidth), snap.Peak,
		render.LevelBar(snap.RMS, barWidth), snap.RMS)
	t.drawText(1, y, width-2, line, tcell.StyleDefault.Foreground(tcell.ColorGreen))
}

func (t *Backend) drawRule(y, width int, style tcell.Style) {
	for x := 0; x < width; x++ {
		t.screen.SetContent(x, y, '─', nil, style)
	}
}

func (t *Backend) drawLogs(x, startY, width, endY int) {
	availableHeight := endY - startY
	if width <= 0 || availableHeight <= 0 {
		return
	}

	debugStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	infoStyle := tcell.StyleDefault.Foreground(tcell.ColorBlue)
	warnStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	errStyle := tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)

	for i, entry := range t.logBuffer.Recent(availableHeight, t.logLevel) {
		style := infoStyle
		switch entry.Level {
		case slog.LevelDebug:
			style = debugStyle
		case slog.LevelWarn:
			style = warnStyle
		case slog.LevelError:
			style = errStyle
		}
		t.drawText(x, startY+i, width, render.FormatLogEntry(entry), style)
	}
}

// drawText writes text from (x, y), cutting it with "..." past maxWidth cells.
func (t *Backend) drawText(x, y, maxWidth int, text string, style tcell.Style) {
	runes := []rune(strings.ReplaceAll(text, "\n", " "))
	if len(runes) > maxWidth {
		if maxWidth > 3 {
			runes = append(runes[:maxWidth-3], '.', '.', '.')
		} else {
			runes = runes[:max(0, maxWidth)]
		}
	}
	for i, r := range runes {
		t.screen.SetContent(x+i, y, r, nil, style)
	}
}

var _ backend.Backend = (*Backend)(nil)
