package planner

import (
	"regexp"
	"strings"
)

// meetingURLPattern recognizes join links for Zoom, MS Teams, Webex,
// Google Meet and internal conference pages. External providers must be
// https and the hosts are matched exactly, so lookalikes such as
// me-et.google.com or tea-ms.live.com do not pass.
var meetingURLPattern = regexp.MustCompile(strings.Join([]string{
	`https://[\w-]+\.zoom\.us/my/[\w.-]+(\?\S*)?`,
	`https://[\w-]+\.zoom\.us/j/\d+(\?\S*)?`,
	`https://[\w-]+\.zoom\.us/\d+(\?\S*)?`,
	`https://teams\.microsoft\.com/l/meetup-join/\S+`,
	`https://teams\.live\.com/meet/\d+`,
	`https://[\w-]+\.webex\.com/meet/\S+`,
	`https://[\w-]+\.webex\.com/[\w-]+/j\.php\?\S+`,
	`https://meet\.google\.com/[\w-]+`,
	`https://[\w.-]+/courses/\d+/conferences/\d+/join`,
}, "|"))

// extractMeetingURL scans the event description, then the location text.
// The first match wins; a match in the description beats any in the
// location. Empty string means no recognized link.
func extractMeetingURL(description, location *string) string {
	for _, text := range []*string{description, location} {
		if text == nil {
			continue
		}
		if url := meetingURLPattern.FindString(*text); url != "" {
			return url
		}
	}
	return ""
}
