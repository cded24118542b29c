package channelid

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

// Kind discriminates the reference forms a YouTube channel link can carry.
type Kind int

const (
	// KindID is a raw channel ID ("UC" + 22 characters).
	KindID Kind = iota
	// KindHandle is an @handle, stored without the leading "@".
	KindHandle
	// KindCustom is a legacy /c/... or /user/... segment, or a vanity path.
	KindCustom
	// KindQuery is free text that needs a search call to resolve.
	KindQuery
)

// Ref is a parsed channel reference.
type Ref struct {
	Kind  Kind
	Value string
}

// ErrNotChannel is returned for URLs that point at videos, playlists or
// non-YouTube hosts.
var ErrNotChannel = errors.New("not a recognizable channel reference")

var (
	idRe     = regexp.MustCompile(`^UC[A-Za-z0-9_-]{22}$`)
	handleRe = regexp.MustCompile(`^[A-Za-z0-9._-]{3,30}$`)
)

// IsChannelID reports whether s is a well-formed YouTube channel ID.
func IsChannelID(s string) bool {
	return idRe.MatchString(s)
}

// Parse extracts a channel reference from user input. Accepted forms:
// full channel URLs (/channel/UC..., /@handle, /c/Name, /user/Name,
// vanity paths), a bare "@handle", a bare channel ID, or free text
// (resolved later via search). Video and playlist URLs are rejected.
func Parse(raw string) (Ref, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Ref{}, ErrNotChannel
	}

	if IsChannelID(s) {
		return Ref{Kind: KindID, Value: s}, nil
	}

	if strings.HasPrefix(s, "@") {
		h := strings.TrimPrefix(s, "@")
		if handleRe.MatchString(h) {
			return Ref{Kind: KindHandle, Value: h}, nil
		}
		return Ref{}, ErrNotChannel
	}

	if looksLikeURL(s) {
		return parseURL(s)
	}

	// Free text, e.g. a channel name typed into the form.
	return Ref{Kind: KindQuery, Value: s}, nil
}

func looksLikeURL(s string) bool {
	if strings.Contains(s, "://") {
		return true
	}
	return strings.Contains(s, "youtube.com/") || strings.Contains(s, "youtu.be/")
}

func parseURL(s string) (Ref, error) {
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil {
		return Ref{}, ErrNotChannel
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	host = strings.TrimPrefix(host, "m.")
	if host != "youtube.com" {
		// youtu.be links always address a video, never a channel.
		return Ref{}, ErrNotChannel
	}

	segs := splitPath(u.EscapedPath())
	if len(segs) == 0 {
		return Ref{}, ErrNotChannel
	}

	switch segs[0] {
	case "channel":
		if len(segs) >= 2 && IsChannelID(segs[1]) {
			return Ref{Kind: KindID, Value: segs[1]}, nil
		}
		return Ref{}, ErrNotChannel
	case "c", "user":
		if len(segs) >= 2 && segs[1] != "" {
			return Ref{Kind: KindCustom, Value: segs[1]}, nil
		}
		return Ref{}, ErrNotChannel
	case "watch", "shorts", "playlist", "embed", "live":
		return Ref{}, ErrNotChannel
	}

	if strings.HasPrefix(segs[0], "@") {
		h := strings.TrimPrefix(segs[0], "@")
		if handleRe.MatchString(h) {
			return Ref{Kind: KindHandle, Value: h}, nil
		}
		return Ref{}, ErrNotChannel
	}

	// Vanity path: youtube.com/SomeName
	return Ref{Kind: KindCustom, Value: segs[0]}, nil
}

func splitPath(p string) []string {
	var segs []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			if dec, err := url.PathUnescape(s); err == nil {
				s = dec
			}
			segs = append(segs, s)
		}
	}
	return segs
}
