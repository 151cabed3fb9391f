package transcript

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/recap-cli/recap/style"
)

// Tier buckets a word confidence score for display.
type Tier int

const (
	TierVeryLow Tier = iota
	TierLow
	TierMedium
	TierHigh
)

// TierOf maps a confidence score onto its display tier:
// >= 0.8 high, >= 0.6 medium, >= 0.4 low, below that very low.
func TierOf(confidence float64) Tier {
	switch {
	case confidence >= 0.8:
		return TierHigh
	case confidence >= 0.6:
		return TierMedium
	case confidence >= 0.4:
		return TierLow
	default:
		return TierVeryLow
	}
}

func (t Tier) String() string {
	switch t {
	case TierHigh:
		return "high"
	case TierMedium:
		return "medium"
	case TierLow:
		return "low"
	default:
		return "very-low"
	}
}

// Style returns the lipgloss style used to tint a word of this tier.
// Low tiers get a background wash so weak transcriptions stand out.
func (t Tier) Style() lipgloss.Style {
	switch t {
	case TierHigh:
		return style.New().Foreground(style.Text)
	case TierMedium:
		return style.New().Foreground(style.Yellow)
	case TierLow:
		return style.Colored(style.Peach, style.Surface)
	default:
		return style.Colored(style.Red, style.Surface)
	}
}
