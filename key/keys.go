// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Media Playback - these keys maintain the state and configuration for playback backends.
const (
	PlayerVolume         = "player.volume"
	PlayerRate           = "player.rate"
	PlayerSkipSeconds    = "player.skip_seconds"
	PlayerAutoplayOnSeek = "player.autoplay_on_seek"
	PlayerResume         = "player.resume"
)

// Transcript Processing - these keys govern canonicalization and search behavior.
const (
	TranscriptFuzzySearch   = "transcript.fuzzy_search"
	TranscriptValidateWords = "transcript.validate_words"
)

// Search - these keys configure transcript search history and suggestion behavior.
const (
	SearchShowQuerySuggestions = "search.show_query_suggestions"
)

// History Tracking - these keys configure the persistence of playback position state.
const (
	HistorySaveOnPlay = "history.save_on_play"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Terminal User Interface (TUI) - these keys define the primary interactive environment's styling and logic.
const (
	TUIFollowPlayback     = "tui.follow_playback"
	TUISearchPromptString = "tui.search_prompt"
	TUIShowConfidence     = "tui.show_confidence"
	TUIShowSpeakerColors  = "tui.show_speaker_colors"
)

// Minimalist (Mini) Mode - these keys configure the specialized lightweight console player.
const (
	MiniResultLimit = "mini.result_limit"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-TUI application behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
