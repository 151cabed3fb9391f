package icon

// Icon identifies a renderable UI symbol in the global registry.
type Icon int

const (
	Play Icon = iota + 1
	Pause
	Clock
	Speaker
	Search
	Edit
	Link
	Progress
	Success
	Fail
	Question
	Mark
)

// icons maps every Icon identifier to its per-variant representations.
var icons = map[Icon]*iconDef{
	Play: {
		emoji:   "▶️",
		nerd:    "",
		plain:   ">",
		kaomoji: "(ﾉ>ω<)ﾉ",
		squares: "▶",
	},
	Pause: {
		emoji:   "⏸️",
		nerd:    "",
		plain:   "||",
		kaomoji: "(－ω－) zzZ",
		squares: "⏸",
	},
	Clock: {
		emoji:   "🕐",
		nerd:    "",
		plain:   "@",
		kaomoji: "(o^^)o",
		squares: "◷",
	},
	Speaker: {
		emoji:   "🗣️",
		nerd:    "",
		plain:   "#",
		kaomoji: "( ﾟдﾟ)",
		squares: "◉",
	},
	Search: {
		emoji:   "🔍",
		nerd:    "",
		plain:   "/",
		kaomoji: "(⌐■_■)",
		squares: "◎",
	},
	Edit: {
		emoji:   "✏️",
		nerd:    "",
		plain:   "*",
		kaomoji: "φ(．．)",
		squares: "▣",
	},
	Link: {
		emoji:   "🔗",
		nerd:    "",
		plain:   "~",
		kaomoji: "(づ｡◕‿‿◕｡)づ",
		squares: "▢",
	},
	Progress: {
		emoji:   "👀",
		nerd:    "",
		plain:   "...",
		kaomoji: "ᕙ(`▿´)ᕗ",
		squares: "◕",
	},
	Success: {
		emoji:   "🎉",
		nerd:    "",
		plain:   "+",
		kaomoji: "(ᵔ◡ᵔ)",
		squares: "◍",
	},
	Fail: {
		emoji:   "💀",
		nerd:    "",
		plain:   "-",
		kaomoji: "(╥﹏╥)",
		squares: "◌",
	},
	Question: {
		emoji:   "🤨",
		nerd:    "",
		plain:   "?",
		kaomoji: "(￢ヘ￢)",
		squares: "◔",
	},
	Mark: {
		emoji:   "🚩",
		nerd:    "",
		plain:   "o",
		kaomoji: "(＠＾◡＾)",
		squares: "●",
	},
}
