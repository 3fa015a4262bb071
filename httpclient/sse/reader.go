// Package sse decodes text/event-stream bodies returned by streaming calls.
package sse

import (
	"bufio"
	"encoding/json"
	"io"
	"strconv"
	"strings"
	"time"
)

// maxLineSize bounds a single field line. Job traces and large payloads
// easily exceed bufio's 64KiB default.
const maxLineSize = 1 << 20

// Event is one dispatched server-sent event.
type Event struct {
	// Event is the "event:" type. Empty for plain message events.
	Event string
	// Data joins every "data:" line of the event with newlines.
	Data string
	// ID is the last "id:" value seen on the stream.
	ID string
	// Retry is the reconnection delay requested by the server, if any.
	Retry time.Duration
}

// Decode unmarshals the event data as JSON into v.
func (e *Event) Decode(v any) error {
	return json.Unmarshal([]byte(e.Data), v)
}

// Reader reads server-sent events from a stream.
type Reader interface {
	// Next returns the next event, or io.EOF once the stream ends.
	Next() (*Event, error)
	// Close releases the underlying stream.
	Close() error
}

type reader struct {
	scanner *bufio.Scanner
	body    io.ReadCloser
	lastID  string
}

// NewReader wraps body in an event reader. The reader owns body.
func NewReader(body io.ReadCloser) Reader {
	s := bufio.NewScanner(body)
	s.Buffer(make([]byte, 0, 4096), maxLineSize)
	return &reader{scanner: s, body: body}
}

func (r *reader) Next() (*Event, error) {
	var event Event
	var hasData bool

	for r.scanner.Scan() {
		line := strings.TrimSuffix(r.scanner.Text(), "\r")

		if line == "" {
			if hasData {
				event.ID = r.lastID
				return &event, nil
			}
			event = Event{}
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value := parseLine(line)
		switch field {
		case "data":
			if hasData {
				event.Data += "\n" + value
			} else {
				event.Data = value
				hasData = true
			}
		case "event":
			event.Event = value
		case "id":
			if !strings.ContainsRune(value, 0) {
				r.lastID = value
			}
		case "retry":
			if ms, err := strconv.Atoi(value); err == nil && ms >= 0 {
				event.Retry = time.Duration(ms) * time.Millisecond
			}
		}
	}

	if err := r.scanner.Err(); err != nil {
		return nil, err
	}
	// A trailing event without its blank line is still delivered.
	if hasData {
		event.ID = r.lastID
		return &event, nil
	}
	return nil, io.EOF
}

func (r *reader) Close() error {
	return r.body.Close()
}

// parseLine splits "field: value", dropping one leading space from the value.
func parseLine(line string) (field, value string) {
	idx := strings.IndexByte(line, ':')
	if idx < 0 {
		return line, ""
	}
	field = line[:idx]
	value = strings.TrimPrefix(line[idx+1:], " ")
	return field, value
}
