// Package screen is the bubbletea model of the recording screen: start and
// stop a recording, upload each finished recording once, show the latest
// inference result and play back past recordings.
package screen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/chaz8081/speakerid/internal/inference"
	"github.com/chaz8081/speakerid/internal/locator"
	"github.com/chaz8081/speakerid/internal/recording"
	"github.com/chaz8081/speakerid/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
)

// UploadErrorText is the alert shown for any upload failure.
const UploadErrorText = "Error uploading file"

// playbackPollInterval is how often the screen checks whether a clip has
// finished playing on its own.
const playbackPollInterval = 250 * time.Millisecond

// Recorder starts and stops recording sessions. *recording.Recorder satisfies it.
type Recorder interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) (locator.Locator, error)
}

// Uploader sends a recording to the inference service. *inference.Client satisfies it.
type Uploader interface {
	Process(ctx context.Context, loc locator.Locator) (inference.Result, error)
}

// Player plays recordings. *audio.Player satisfies it.
type Player interface {
	Play(loc locator.Locator) error
	Stop() error
	Current() (locator.Locator, bool)
	Playing() bool
}

// Injector delivers transcriptions elsewhere. *inject.Injector satisfies it.
type Injector interface {
	Inject(text string) error
}

// Deps are the collaborators the screen drives.
type Deps struct {
	Recorder Recorder
	Uploader Uploader
	Player   Player
	Injector Injector // optional
	Endpoint string   // shown in the header
}

// Model is the root bubbletea model.
type Model struct {
	ctx  context.Context
	deps Deps

	// Recording state
	recording  bool
	starting   bool
	stopping   bool
	stopQueued bool // stop requested while a start was in flight

	// Recorded items, in stop order
	recordings []locator.Locator
	selected   int
	playing    locator.Locator
	playGen    int // bumped on every successful play

	// Latest inference result
	result    *inference.Result
	uploading int

	// UI state
	alerts    []string // one per failure, oldest first
	status    string
	statusErr bool
	width     int
	height    int
}

// New creates a Model. ctx bounds every command the screen starts.
func New(ctx context.Context, deps Deps) Model {
	return Model{
		ctx:    ctx,
		deps:   deps,
		status: "Idle",
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Recordings returns the recorded items in stop order.
func (m Model) Recordings() []locator.Locator {
	return m.recordings
}

// Result returns the latest inference result, if any.
func (m Model) Result() (inference.Result, bool) {
	if m.result == nil {
		return inference.Result{}, false
	}
	return *m.result, true
}

// Alert returns the visible alert text, or "".
func (m Model) Alert() string {
	if len(m.alerts) == 0 {
		return ""
	}
	return m.alerts[0]
}

// Alerts returns every alert not yet dismissed, oldest first.
func (m Model) Alerts() []string {
	return m.alerts
}

func (m Model) startCmd() tea.Cmd {
	return func() tea.Msg {
		return RecordingStartedMsg{Err: m.deps.Recorder.Start(m.ctx)}
	}
}

func (m Model) stopCmd() tea.Cmd {
	return func() tea.Msg {
		_, err := m.deps.Recorder.Stop(m.ctx)
		return RecordingStoppedMsg{Err: err}
	}
}

func (m Model) uploadCmd(loc locator.Locator) tea.Cmd {
	return func() tea.Msg {
		res, err := m.deps.Uploader.Process(m.ctx, loc)
		if err != nil {
			return UploadFailedMsg{Locator: loc, Err: err}
		}
		return UploadDoneMsg{Locator: loc, Result: res}
	}
}

func (m Model) playCmd(loc locator.Locator) tea.Cmd {
	return func() tea.Msg {
		return PlaybackStartedMsg{Locator: loc, Err: m.deps.Player.Play(loc)}
	}
}

func (m Model) stopPlaybackCmd() tea.Cmd {
	return func() tea.Msg {
		return PlaybackStoppedMsg{Err: m.deps.Player.Stop()}
	}
}

// pollPlaybackCmd reports after an interval whether loc is still playing.
func (m Model) pollPlaybackCmd(gen int, loc locator.Locator) tea.Cmd {
	return tea.Tick(playbackPollInterval, func(time.Time) tea.Msg {
		cur, ok := m.deps.Player.Current()
		return playbackTickMsg{
			gen:  gen,
			done: !ok || cur != loc || !m.deps.Player.Playing(),
		}
	})
}

func (m Model) injectCmd(text string) tea.Cmd {
	if m.deps.Injector == nil || text == "" {
		return nil
	}
	return func() tea.Msg {
		if err := m.deps.Injector.Inject(text); err != nil {
			return InjectFailedMsg{Err: err}
		}
		return nil
	}
}

// Update processes messages and returns the updated model and any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case HotkeyMsg:
		if msg.Start {
			return m.requestStart()
		}
		return m.requestStop()

	case RecordingStartedMsg:
		m.starting = false
		queued := m.stopQueued
		m.stopQueued = false
		if msg.Err != nil {
			m.setError(startErrorText(msg.Err))
			if !errors.Is(msg.Err, recording.ErrSessionActive) {
				return m, nil
			}
			m.recording = true
		} else {
			m.recording = true
			m.setStatus("Recording...")
		}
		if queued {
			return m.requestStop()
		}
		return m, nil

	case RecordingStoppedMsg:
		m.stopping = false
		m.recording = false
		switch {
		case errors.Is(msg.Err, recording.ErrNoActiveSession):
			m.setStatus("No recording in progress")
		case msg.Err != nil:
			m.setError("Failed to stop recording: " + msg.Err.Error())
		default:
			m.setStatus("Recording stopped")
		}
		return m, nil

	case RecordedMsg:
		m.recordings = append(m.recordings, msg.Locator)
		m.selected = len(m.recordings) - 1
		m.uploading++
		m.setStatus("Uploading " + msg.Locator.Base() + "...")
		return m, m.uploadCmd(msg.Locator)

	case UploadDoneMsg:
		m.uploading = max(0, m.uploading-1)
		res := msg.Result
		m.result = &res
		m.setStatus("Result received for " + msg.Locator.Base())
		if res.Transcription != nil {
			return m, m.injectCmd(*res.Transcription)
		}
		return m, nil

	case UploadFailedMsg:
		m.uploading = max(0, m.uploading-1)
		slog.Error("[screen] error uploading file", "locator", msg.Locator.String(), "error", msg.Err)
		m.alerts = append(m.alerts, UploadErrorText)
		return m, nil

	case PlaybackStartedMsg:
		if msg.Err != nil {
			slog.Error("[screen] failed to play recording", "locator", msg.Locator.String(), "error", msg.Err)
			m.setError("Failed to play " + msg.Locator.Base())
			return m, nil
		}
		m.playing = msg.Locator
		m.playGen++
		m.setStatus("Playing " + msg.Locator.Base())
		return m, m.pollPlaybackCmd(m.playGen, msg.Locator)

	case playbackTickMsg:
		if msg.gen != m.playGen || m.playing == "" {
			return m, nil
		}
		if msg.done {
			m.setStatus("Finished playing " + m.playing.Base())
			m.playing = ""
			return m, nil
		}
		return m, m.pollPlaybackCmd(m.playGen, m.playing)

	case PlaybackStoppedMsg:
		m.playing = ""
		if msg.Err != nil {
			slog.Error("[screen] failed to stop playback", "error", msg.Err)
			m.setError("Failed to stop playback")
			return m, nil
		}
		m.setStatus("Playback stopped")
		return m, nil

	case InjectFailedMsg:
		slog.Error("[screen] failed to deliver transcription", "error", msg.Err)
		m.setError("Failed to deliver transcription")
		return m, nil
	}

	return m, nil
}

func (m Model) requestStart() (tea.Model, tea.Cmd) {
	if m.starting {
		// A start pressed again before the first one lands cancels a queued stop.
		m.stopQueued = false
		return m, nil
	}
	if m.stopping {
		return m, nil
	}
	m.starting = true
	m.setStatus("Starting...")
	return m, m.startCmd()
}

// requestStop stops the active session. A stop that arrives while a start is
// still in flight is queued and sent once the start result is in.
func (m Model) requestStop() (tea.Model, tea.Cmd) {
	if m.stopping {
		return m, nil
	}
	if m.starting {
		m.stopQueued = true
		return m, nil
	}
	m.stopping = true
	return m, m.stopCmd()
}

// handleKey processes key presses. While an alert is visible only dismiss
// and quit keys are handled.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == KeyQuit || key == KeyCtrlC {
		return m, tea.Quit
	}

	if len(m.alerts) > 0 {
		if key == KeyEsc || key == KeyEnter {
			m.alerts = m.alerts[1:]
		}
		return m, nil
	}

	switch key {
	case KeyStart:
		return m.requestStart()

	case KeyStop:
		return m.requestStop()

	case KeyUp, KeyK:
		if m.selected > 0 {
			m.selected--
		}
		return m, nil

	case KeyDown, KeyJ:
		if m.selected < len(m.recordings)-1 {
			m.selected++
		}
		return m, nil

	case KeyPlay, KeyEnter:
		if m.selected < len(m.recordings) {
			return m, m.playCmd(m.recordings[m.selected])
		}
		return m, nil

	case KeyStopPlayback:
		return m, m.stopPlaybackCmd()
	}

	return m, nil
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(s string) {
	m.status = s
	m.statusErr = true
}

func startErrorText(err error) string {
	switch {
	case errors.Is(err, recording.ErrPermissionDenied):
		return "Permission to access microphone was denied"
	case errors.Is(err, recording.ErrSessionActive):
		return "Already recording"
	default:
		return "Failed to start recording: " + err.Error()
	}
}

func (m Model) viewWidth() int {
	if m.width == 0 {
		return 80
	}
	return m.width
}

// View renders the full screen.
func (m Model) View() string {
	width := m.viewWidth()
	divider := ui.DividerStyle.Render(strings.Repeat("─", width))

	sections := []string{
		m.renderHeader(),
		m.renderStatusBar(),
		divider,
		m.renderRecordings(),
		divider,
		m.renderResult(),
	}

	if len(m.alerts) > 0 {
		sections = append(sections, m.renderAlert())
	}

	sections = append(sections, divider, m.renderFooter())
	return strings.Join(sections, "\n")
}

func (m Model) renderHeader() string {
	title := ui.TitleStyle.Render("SPEAKER ID")
	if m.deps.Endpoint == "" {
		return title
	}
	return title + ui.DimStyle.Render("  "+m.deps.Endpoint)
}

func (m Model) renderStatusBar() string {
	var dot string
	if m.recording {
		dot = ui.RecordingDotStyle.Render("● REC")
	} else {
		dot = ui.IdleDotStyle.Render("○ IDLE")
	}

	var uploading string
	if m.uploading > 0 {
		uploading = "  " + ui.SpinnerStyle.Render(fmt.Sprintf("⟳ uploading (%d)", m.uploading))
	}

	status := ui.StatusStyle.Render(m.status)
	if m.statusErr {
		status = ui.ErrorTextStyle.Render(m.status)
	}

	return dot + uploading + "  " + status
}

func (m Model) renderRecordings() string {
	lines := []string{ui.PanelTitleStyle.Render(fmt.Sprintf("RECORDINGS (%d)", len(m.recordings)))}

	if len(m.recordings) == 0 {
		lines = append(lines, ui.DimStyle.Render("  Press r to start recording, s to stop"))
		return strings.Join(lines, "\n")
	}

	for i, loc := range m.visibleRecordings() {
		idx := i + m.firstVisible()
		marker := "  "
		if loc == m.playing {
			marker = ui.PlayingStyle.Render("▶ ")
		}

		label := fmt.Sprintf("%d. %s", idx+1, loc.String())
		if idx == m.selected {
			lines = append(lines, marker+ui.SelectedStyle.Render("> "+label))
		} else {
			lines = append(lines, marker+"  "+label)
		}
	}
	return strings.Join(lines, "\n")
}

// listHeight is the number of recording rows that fit on screen.
func (m Model) listHeight() int {
	if m.height == 0 {
		return 10
	}
	// Reserve: header, status, 3 dividers, list title, result (3), footer, alert (3)
	return max(3, m.height-13)
}

func (m Model) firstVisible() int {
	h := m.listHeight()
	if len(m.recordings) <= h || m.selected < h {
		return 0
	}
	return min(m.selected-h+1, len(m.recordings)-h)
}

func (m Model) visibleRecordings() []locator.Locator {
	start := m.firstVisible()
	end := min(start+m.listHeight(), len(m.recordings))
	return m.recordings[start:end]
}

func (m Model) renderResult() string {
	if m.result == nil {
		return ui.DimStyle.Render("No result yet")
	}
	lines := m.result.Lines()
	for i, l := range lines {
		lines[i] = ui.ResultLabelStyle.Render(l)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderAlert() string {
	title := "Error"
	if n := len(m.alerts); n > 1 {
		title = fmt.Sprintf("Error (1 of %d)", n)
	}
	body := ui.ErrorStyle.Render(title) + "\n" +
		ui.ErrorTextStyle.Render(m.alerts[0]) + "\n" +
		ui.DimStyle.Render("enter/esc to dismiss")
	return ui.AlertStyle.Render(body)
}

func (m Model) renderFooter() string {
	parts := []string{
		ui.FooterKeyStyle.Render("r") + ui.FooterDescStyle.Render(" Record"),
		ui.FooterKeyStyle.Render("s") + ui.FooterDescStyle.Render(" Stop"),
		ui.FooterKeyStyle.Render("j/k") + ui.FooterDescStyle.Render(" Select"),
		ui.FooterKeyStyle.Render("p") + ui.FooterDescStyle.Render(" Play"),
		ui.FooterKeyStyle.Render("x") + ui.FooterDescStyle.Render(" Stop playback"),
		ui.FooterKeyStyle.Render("q") + ui.FooterDescStyle.Render(" Quit"),
	}
	return strings.Join(parts, "  ")
}
