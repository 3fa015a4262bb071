package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/kbukum/requester/httpclient"
	"github.com/kbukum/requester/requester"
	"github.com/kbukum/requester/security"
)

var (
	okColor    = color.New(color.FgGreen, color.Bold)
	errColor   = color.New(color.FgRed, color.Bold)
	eventColor = color.New(color.FgCyan)
	dimColor   = color.New(color.Faint)
)

func printStatus(w io.Writer, resp *requester.Response) {
	okColor.Fprintf(w, "%d", resp.Status)
	if ct := resp.Headers["content-type"]; ct != "" {
		dimColor.Fprintf(w, " %s", ct)
	}
	fmt.Fprintln(w)
}

// printBody writes a decoded body. Structured bodies are indented unless raw
// is set; text is written unchanged.
func printBody(w io.Writer, body any, raw bool) error {
	if s, ok := body.(string); ok {
		_, err := io.WriteString(w, s)
		if err == nil && s != "" && s[len(s)-1] != '\n' {
			_, err = io.WriteString(w, "\n")
		}
		return err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if !raw {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(body); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func printEvents(w io.Writer, resp *requester.Response) error {
	events, err := resp.Events()
	if err != nil {
		return err
	}
	defer events.Close()

	for {
		ev, err := events.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if ev.Event != "" {
			eventColor.Fprintf(w, "%s ", ev.Event)
		}
		fmt.Fprintln(w, ev.Data)
	}
}

func printError(w io.Writer, err error) {
	var cfgErr *security.ConfigurationError
	if errors.As(err, &cfgErr) {
		errColor.Fprint(w, "configuration error: ")
		fmt.Fprintln(w, cfgErr.Error())
		return
	}

	e, ok := httpclient.AsError(err)
	if !ok {
		errColor.Fprint(w, "error: ")
		fmt.Fprintln(w, err)
		return
	}
	if e.StatusCode > 0 {
		errColor.Fprintf(w, "%d %s", e.StatusCode, e.Code)
	} else {
		errColor.Fprint(w, e.Code.String())
	}
	msg := e.Description
	if msg == "" {
		msg = e.Message
	}
	fmt.Fprintf(w, ": %s\n", msg)
}
