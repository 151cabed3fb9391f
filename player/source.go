// Package player defines a unified abstraction layer for media playback backends.
package player

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// SourceKind discriminates the media source variants.
type SourceKind int

const (
	KindNone SourceKind = iota
	KindVideo
	KindAudio
	KindYouTube
)

func (k SourceKind) String() string {
	switch k {
	case KindVideo:
		return "video"
	case KindAudio:
		return "audio"
	case KindYouTube:
		return "youtube"
	default:
		return "none"
	}
}

// MediaSource is a tagged union: exactly one kind is active per playback
// session. Switching kinds requires tearing the session down and building a
// new one — backends are not hot-swappable mid-session.
type MediaSource struct {
	Kind SourceKind
	URL  string
}

// NewMediaSource validates and constructs a media source of the given kind.
func NewMediaSource(kind SourceKind, rawURL string) (MediaSource, error) {
	if kind == KindNone {
		return MediaSource{}, nil
	}

	safe, err := sanitizeMediaTarget(rawURL)
	if err != nil {
		return MediaSource{}, fmt.Errorf("invalid %s source: %w", kind, err)
	}

	return MediaSource{Kind: kind, URL: safe}, nil
}

// sanitizeMediaTarget validates that a URL or path is safe to hand to a
// playback process. Prevents flag injection from untrusted transcripts or
// meeting descriptors.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty URL")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in URL")
	}

	// URLs must not start with '-': mpv would read them as flags.
	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("url must not start with '-' (looks like a flag)")
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	// Treat as local file path
	return filepath.Clean(l), nil
}
