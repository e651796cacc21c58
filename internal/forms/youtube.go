package forms

import (
	"net/url"
	"regexp"
	"strings"
)

var youtubeID = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// ParseYouTube extracts the video id from watch, short-link and embed URLs.
func ParseYouTube(raw string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return "", false
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	host = strings.TrimPrefix(host, "m.")

	var id string
	switch host {
	case "youtu.be":
		id = strings.Trim(u.Path, "/")
	case "youtube.com", "youtube-nocookie.com":
		switch {
		case u.Path == "/watch":
			id = u.Query().Get("v")
		case strings.HasPrefix(u.Path, "/embed/"):
			id = strings.TrimPrefix(u.Path, "/embed/")
		case strings.HasPrefix(u.Path, "/shorts/"):
			id = strings.TrimPrefix(u.Path, "/shorts/")
		}
	}

	id = strings.Trim(id, "/")
	if !youtubeID.MatchString(id) {
		return "", false
	}
	return id, true
}

// EmbedURL returns the iframe source for a trailer URL, or "" if it is not a
// YouTube link.
func EmbedURL(raw string) string {
	id, ok := ParseYouTube(raw)
	if !ok {
		return ""
	}
	return "https://www.youtube.com/embed/" + id
}
