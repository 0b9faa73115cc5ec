package schema

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrUnknownPlatform is returned when a platform name or URL cannot be mapped.
var ErrUnknownPlatform = errors.New("unknown platform")

// platformHosts maps registrable domains to platforms.
var platformHosts = map[string]Platform{
	"tiktok.com":    TikTok,
	"instagram.com": Instagram,
	"snapchat.com":  Snapchat,
	"twitter.com":   Twitter,
	"x.com":         Twitter,
	"facebook.com":  Facebook,
	"fb.watch":      Facebook,
	"youtube.com":   YouTube,
	"youtu.be":      YouTube,
}

// ParsePlatform converts a user supplied name into a Platform.
func ParsePlatform(name string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := ValidPlatforms[p]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownPlatform, name)
	}
	return p, nil
}

// InferPlatform derives the platform from the host of a submission URL.
// Subdomains like www., m. and vm. are accepted.
func InferPlatform(rawURL string) (Platform, error) {
	s := strings.TrimSpace(rawURL)
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnknownPlatform, err)
	}
	host := strings.ToLower(u.Hostname())
	for host != "" {
		if p, ok := platformHosts[host]; ok {
			return p, nil
		}
		dot := strings.IndexByte(host, '.')
		if dot < 0 {
			break
		}
		host = host[dot+1:]
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPlatform, rawURL)
}

// HasLikes reports whether the platform exposes a reliable like count.
func (p Platform) HasLikes() bool {
	return p != Snapchat
}

// HasShares reports whether the platform exposes a share count.
func (p Platform) HasShares() bool {
	return p != YouTube && p != Instagram
}

// HasSaves reports whether the platform exposes a save count.
func (p Platform) HasSaves() bool {
	switch p {
	case Snapchat, YouTube, Instagram:
		return false
	default:
		return true
	}
}

// Metrics returns the metrics meaningful for the platform in column order.
func (p Platform) Metrics() []Metric {
	metrics := []Metric{MetricViews}
	if p.HasLikes() {
		metrics = append(metrics, MetricLikes)
	}
	metrics = append(metrics, MetricComments)
	if p.HasShares() {
		metrics = append(metrics, MetricShares)
	}
	if p.HasSaves() {
		metrics = append(metrics, MetricSaves)
	}
	return metrics
}
