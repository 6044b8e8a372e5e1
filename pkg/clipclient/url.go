package clipclient

import "strings"

// URLJoin appends path to base with exactly one separating slash.
// path is used as given.
func URLJoin(base, path string) string {
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + path
}

// ResolveBaseURL returns the trimmed input, or the client's default base
// URL when the input is empty or whitespace-only.
func (c *Client) ResolveBaseURL(input string) string {
	if u := strings.TrimSpace(input); u != "" {
		return u
	}
	return c.defaultBaseURL
}
