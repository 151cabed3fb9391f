// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"

	"github.com/recap-cli/recap/constant"
	"github.com/recap-cli/recap/internal/ui"
	"github.com/recap-cli/recap/key"
	"github.com/recap-cli/recap/meeting"
	"github.com/recap-cli/recap/session"
	"github.com/recap-cli/recap/style"
	"github.com/recap-cli/recap/transcript"
	"github.com/recap-cli/recap/util"
)

// loadedMeeting carries everything the player screen needs once the
// descriptor and transcript have been fetched and canonicalized.
type loadedMeeting struct {
	meeting         *meeting.Meeting
	segments        []transcript.Segment
	wasHierarchical bool
	resumeAt        float64

	// processing marks a meeting whose transcription has not finished;
	// the player opens read-only with no backend attached.
	processing bool
}

// statefulBubble encapsulates the comprehensive application state, including component models and workflow tracking.
type statefulBubble struct {
	state         state
	statesHistory util.Stack[state]
	loading       bool
	busy          bool // Protects against rapid input during async ops

	keymap *statefulKeymap

	// components
	spinnerC  spinner.Model
	searchC   textinput.Model
	editC     textinput.Model
	historyC  list.Model
	segmentsC list.Model
	speakersC list.Model
	progressC progress.Model
	helpC     help.Model

	meetingLoadedChannel chan *loadedMeeting
	timeUpdateChannel    chan float64
	stateChangeChannel   chan struct{}
	savedChannel         chan error
	errorChannel         chan error

	progressStatus string

	target     string
	meeting    *meeting.Meeting
	editor     *transcript.Editor
	processing bool

	// visible is the filtered slice of editor indices currently listed.
	visible       []int
	query         string
	speakerFilter string

	playback      *session.Session
	releaseHandle func()
	activeIndex   int // editor index of the active segment, -1 when none
	follow        bool

	editingIndex   int
	editingSpeaker bool

	lastPositionSave time.Time

	pendingHistoryCmd tea.Cmd

	lastError error

	width, height int
	notifier      *ui.Model

	options *Options
}

// raiseError dispatches a terminal error and transitions the application to the failure view.
func (b *statefulBubble) raiseError(err error) {
	b.lastError = err
	b.newState(errorState)
}

// setState performs a synchronous transition of both the application workflow and its associated keymap.
func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

// newState facilitates an idempotent transition to a target state, recording the previous state in the navigation history when appropriate.
func (b *statefulBubble) newState(s state) {
	if b.state == s {
		return
	}

	// Do not push these states to history
	if !lo.Contains([]state{
		loadingState,
		searchState,
		editState,
	}, b.state) {
		b.statesHistory.Push(b.state)
	}

	b.setState(s)
}

// previousState restores the application to its immediate predecessor in the navigation stack.
func (b *statefulBubble) previousState() {
	if b.statesHistory.Len() > 0 {
		s := b.statesHistory.Pop()
		b.setState(s)
	}
}

// resize propagates terminal dimension changes to all child component models.
func (b *statefulBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()
	xx, yy := listExtraPaddingStyle.GetFrameSize()

	styledWidth := width - x
	styledHeight := height - y

	listWidth := width - xx
	listHeight := height - yy

	b.historyC.SetSize(listWidth, listHeight)
	b.historyC.Help.Width = listWidth

	b.speakersC.SetSize(listWidth, listHeight)
	b.speakersC.Help.Width = listWidth

	// The transcript list shares the screen with the playback header.
	b.segmentsC.SetSize(listWidth, util.Max(listHeight-playerHeaderHeight, 4))
	b.segmentsC.Help.Width = listWidth

	b.progressC.Width = styledWidth
	b.searchC.Width = styledWidth
	b.editC.Width = styledWidth

	b.width = styledWidth
	b.height = styledHeight
	b.helpC.Width = listWidth
}

// startLoading enters a concurrent loading state, initializing visual indicators across child components.
func (b *statefulBubble) startLoading() tea.Cmd {
	b.loading = true
	b.busy = true
	return tea.Batch(b.segmentsC.StartSpinner(), b.spinnerC.Tick)
}

// stopLoading exits the loading state and synchronizes child component visual indicators.
func (b *statefulBubble) stopLoading() tea.Cmd {
	b.loading = false
	b.busy = false
	b.segmentsC.StopSpinner()
	return nil
}

// newBubble performs a complete initialization of the application's primary UI model.
func newBubble(options *Options) *statefulBubble {
	keymap := newStatefulKeymap()
	bubble := statefulBubble{
		statesHistory: util.Stack[state]{},
		keymap:        keymap,

		meetingLoadedChannel: make(chan *loadedMeeting),
		timeUpdateChannel:    make(chan float64, 8),
		stateChangeChannel:   make(chan struct{}, 1),
		savedChannel:         make(chan error),
		errorChannel:         make(chan error),

		target:        options.Target,
		speakerFilter: transcript.SpeakerAll,
		activeIndex:   -1,
		follow:        viper.GetBool(key.TUIFollowPlayback),

		notifier: &ui.Model{},
	}

	type listOptions struct {
		TitleStyle mo.Option[lipgloss.Style]
	}

	makeList := func(title string, description bool, options *listOptions) list.Model {
		delegate := list.NewDefaultDelegate()
		delegate.ShowDescription = description
		delegate.Styles.SelectedTitle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder(), false, false, false, true).
			BorderForeground(style.AccentColor).
			Foreground(style.AccentColor).
			Padding(0, 0, 0, 1)
		delegate.Styles.NormalTitle = delegate.Styles.NormalTitle.Foreground(lipgloss.Color("7"))
		delegate.Styles.SelectedDesc = delegate.Styles.SelectedTitle

		listC := list.New([]list.Item{}, delegate, 0, 0)
		listC.KeyMap = bubble.keymap.forList()
		listC.AdditionalShortHelpKeys = bubble.keymap.ShortHelp
		listC.AdditionalFullHelpKeys = func() []bubblesKey.Binding {
			return bubble.keymap.FullHelp()[0]
		}
		listC.Title = title
		listC.Styles.NoItems = paddingStyle
		if titleStyle, ok := options.TitleStyle.Get(); ok {
			listC.Styles.Title = titleStyle
		}
		listC.SetShowPagination(false)
		listC.SetShowStatusBar(false)

		return listC
	}

	bubble.helpC = help.New()

	bubble.spinnerC = spinner.New()
	bubble.spinnerC.Spinner = spinner.Dot
	bubble.spinnerC.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	bubble.searchC = textinput.New()
	bubble.searchC.Placeholder = fmt.Sprintf("Search transcript (v%s)", constant.Version)
	bubble.searchC.CharLimit = 60
	bubble.searchC.Prompt = viper.GetString(key.TUISearchPromptString)

	bubble.editC = textinput.New()
	bubble.editC.CharLimit = 500
	bubble.editC.Prompt = "> "

	bubble.progressC = progress.New(progress.WithDefaultGradient())

	bubble.historyC = makeList("Recent Recordings", true, &listOptions{
		TitleStyle: mo.Some(
			lipgloss.NewStyle().Foreground(style.Base).Background(style.Yellow).Padding(0, 1),
		),
	})
	bubble.historyC.SetStatusBarItemName("recording", "recordings")

	bubble.segmentsC = makeList("Transcript", true, &listOptions{
		TitleStyle: mo.Some(
			lipgloss.NewStyle().Foreground(style.Base).Background(style.AccentColor).Padding(0, 1),
		),
	})
	bubble.segmentsC.SetStatusBarItemName("segment", "segments")

	bubble.speakersC = makeList("Speakers", false, &listOptions{
		TitleStyle: mo.Some(
			lipgloss.NewStyle().Foreground(style.Base).Background(style.Blue).Padding(0, 1),
		),
	})
	bubble.speakersC.SetStatusBarItemName("speaker", "speakers")

	bubble.options = options

	if w, h, err := util.TerminalSize(); err == nil {
		bubble.resize(w, h)
	}

	return &bubble
}
