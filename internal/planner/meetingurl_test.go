package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractMeetingURL(t *testing.T) {
	validLinks := []string{
		"https://myschool.zoom.us/123456",
		"https://myschool.zoom.us/j/123456",
		"https://myschool.zoom.us/my/123456",
		"https://instructure.zoom.us/my/abcd.12345",
		"https://instructure.zoom.us/j/9585021282",
		"https://us01.zoom.us/j/9585001282?",
		"https://instructure.zoom.us/j/9585021282?pwd=NlRIRURaRlRmTC9kVUU2QnIwQkJZZz09",
		"https://instr-ucture.zoom.us/my/12345",
		"https://instr-ucture.zoom.us/j/9585021282",
		"https://teams.microsoft.com/l/meetup-join/19%3ameeting_MjAyMjU4Y2QtZTc0Mi00OTI1LTllYTUtNjEzNTBhMjY3OTZi%40thread.v2/0?context=%7B%22Tid%22%3A%22b8e866dc%22%7D",
		"https://teams.live.com/meet/93298311589140",
		"https://meet146.webex.com/meet/pr-._25535050184",
		"https://meet146.webex.com/meet146/j.php?MTID=mb0f63c6586178c903f161b109886066b",
		"https://meet-146.webex.com/meet/pr-._25535050184",
		"https://meet.google.com/sbs-ycbe-yhu",
		"https://myschool.instructure.com/courses/17/conferences/19/join",
	}

	invalidLinks := []string{
		"http://instructure.zoom.us/my/abcd.12345",
		"https://us01.zoom.us/j/abc123",
		"https://zoom.us/j/9585021282?pwd=NlRIRURaRlRmTC9kVUU2QnIwQkJZZz09",
		"https://teams.live.com/join/93298311589140",
		"https://meet146.webex.com/join/pr-._25535050184",
		"https://meet146.webex.com/meet146/j?MTID=mb0f63c6586178c903f161b109886066b",
		"https://google.com/sbs-ycbe-yhu",
		"https://instructure.com",
		"not even a link . zoom",
		"http://example.com/124?pwd=1234",
		"https://me-et.google.com/sbs-ycbe-yhu",
		"https://tea-ms.microsoft.com/l/meetup-join/19%3ameeting_MjAyMjU4Y2QtZTc0Mi00OTI1%40thread.v2/0",
		"https://teams.micro-soft.com/l/meetup-join/19%3ameeting_MjAyMjU4Y2QtZTc0Mi00OTI1%40thread.v2/0",
		"https://tea-ms.live.com/meet/93298311589140",
		"https://myschool.instructure.com/courses/17/conferences",
	}

	t.Run("valid links in the description", func(t *testing.T) {
		for _, link := range validLinks {
			text := "meeting at " + link + " for this thing"
			assert.Equal(t, link, extractMeetingURL(&text, nil), link)
		}
	})

	t.Run("valid links in the location", func(t *testing.T) {
		for _, link := range validLinks {
			text := "meeting at " + link + " for this thing"
			assert.Equal(t, link, extractMeetingURL(nil, &text), link)
		}
	})

	t.Run("invalid links are ignored", func(t *testing.T) {
		for _, link := range invalidLinks {
			text := "meeting at " + link + " maybe"
			assert.Empty(t, extractMeetingURL(&text, &text), link)
		}
	})

	t.Run("description wins over location", func(t *testing.T) {
		desc := "join https://meet.google.com/abc-defg-hij"
		loc := "https://teams.live.com/meet/42"
		assert.Equal(t, "https://meet.google.com/abc-defg-hij", extractMeetingURL(&desc, &loc))
	})

	t.Run("nil inputs", func(t *testing.T) {
		assert.Empty(t, extractMeetingURL(nil, nil))
	})
}
