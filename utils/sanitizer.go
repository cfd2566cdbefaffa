package utils

import (
	"net/url"
	"regexp"
	"strings"
)

var topicIDPattern = regexp.MustCompile(`/t/[^/]+/(\d+)`)

// TopicMarker is the path segment Discourse uses for topic pages.
const TopicMarker = "/t/"

// Sanitizer handles topic URL cleaning and resolution against a page URL
type Sanitizer struct {
	Base *url.URL
}

// NewSanitizer parses the page URL relative hrefs are resolved against
func NewSanitizer(pageURL string) (*Sanitizer, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, err
	}
	return &Sanitizer{Base: base}, nil
}

// Resolve turns an href found on the page into an absolute URL.
// Empty, fragment-only and javascript: hrefs return "".
func (s *Sanitizer) Resolve(href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(strings.ToLower(href), "javascript:") {
		return ""
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if s.Base != nil {
		u = s.Base.ResolveReference(u)
	}
	return u.String()
}

// CleanURL strips query params and fragments. Returns input unchanged if it does not parse.
func CleanURL(input string) string {
	u, err := url.Parse(input)
	if err != nil {
		return input
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

// ExtractTopicID pulls the numeric topic id out of /t/<slug>/<id> URLs.
// Returns "" when the URL has no id.
func ExtractTopicID(link string) string {
	if link == "" {
		return ""
	}
	match := topicIDPattern.FindStringSubmatch(link)
	if match == nil {
		return ""
	}
	return match[1]
}

// IsTopicLink reports whether the link points at a topic page
func IsTopicLink(link string) bool {
	return strings.Contains(link, TopicMarker)
}

// JoinPath appends path segments to base, keeping exactly one slash between them.
func JoinPath(base string, segments ...string) string {
	out := strings.TrimRight(base, "/")
	for _, seg := range segments {
		out += "/" + strings.Trim(seg, "/")
	}
	return out
}
