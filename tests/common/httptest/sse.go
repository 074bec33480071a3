//go:build unit || e2e

package httptest

import (
	"bufio"
	"strings"
)

type SSEvent struct {
	Event string
	Data  string
}

// parses a text/event-stream body into events
func ParseSSE(body string) []SSEvent {
	var (
		events []SSEvent
		cur    SSEvent
		data   []string
	)
	flush := func() {
		if cur.Event != "" || len(data) > 0 {
			cur.Data = strings.Join(data, "\n")
			events = append(events, cur)
		}
		cur = SSEvent{}
		data = nil
	}

	sc := bufio.NewScanner(strings.NewReader(body))
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := sc.Text()
		switch {
		case line == "":
			flush()
		case strings.HasPrefix(line, "event:"):
			cur.Event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data = append(data, strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		}
	}
	flush()
	return events
}

// filters events by name
func EventsNamed(events []SSEvent, name string) []SSEvent {
	var out []SSEvent
	for _, e := range events {
		if e.Event == name {
			out = append(out, e)
		}
	}
	return out
}
