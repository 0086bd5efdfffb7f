// Package prompt provides interactive terminal prompts: yes/no confirmation
// and fuzzy selection of clients and servers. All prompts take explicit
// reader/writer pairs so tests can drive them without a terminal.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/thoreinstein/mcpsync/internal/client"
	"github.com/thoreinstein/mcpsync/internal/errors"
	"github.com/thoreinstein/mcpsync/internal/mcp"
	"github.com/thoreinstein/mcpsync/internal/paths"
)

// ErrAborted is returned when the user cancels a fuzzy selection.
var ErrAborted = errors.New("selection aborted")

// Confirm asks a yes/no question and returns true only if the user enters
// "y" or "yes" (case-insensitive). Any read error counts as no.
func Confirm(w io.Writer, r io.Reader, question string) bool {
	fmt.Fprintf(w, "%s [y/N]: ", question)

	reader := bufio.NewReader(r)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

// SelectClient fuzzy-picks one client kind from the given handles.
func SelectClient(handles []client.Handle) (client.Handle, error) {
	if len(handles) == 0 {
		return client.Handle{}, errors.New("no clients available")
	}

	idx, err := fuzzyfinder.Find(
		handles,
		func(i int) string {
			return fmt.Sprintf("%s (%s)", paths.DisplayName(handles[i].Kind), handles[i].ConfigPath)
		},
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return client.Handle{}, ErrAborted
		}
		return client.Handle{}, errors.Wrap(err, "client selection failed")
	}
	return handles[idx], nil
}

// SelectServer fuzzy-picks one server record, with a preview of its full
// definition.
func SelectServer(servers []mcp.Server) (mcp.Server, error) {
	if len(servers) == 0 {
		return mcp.Server{}, errors.New("no servers configured")
	}

	idx, err := fuzzyfinder.Find(
		servers,
		func(i int) string {
			return servers[i].Name
		},
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			return previewServer(servers[i])
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return mcp.Server{}, ErrAborted
		}
		return mcp.Server{}, errors.Wrap(err, "server selection failed")
	}
	return servers[idx], nil
}

func previewServer(s mcp.Server) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\nTransport: %s\n", s.Name, s.EffectiveTransport())
	if s.IsRemote() {
		fmt.Fprintf(&b, "URL: %s\n", s.URL)
	} else {
		fmt.Fprintf(&b, "Command: %s\n", s.Command)
		if len(s.Args) > 0 {
			fmt.Fprintf(&b, "Args: %s\n", strings.Join(s.Args, " "))
		}
	}
	if len(s.Env) > 0 {
		fmt.Fprintf(&b, "Env vars: %d\n", len(s.Env))
	}
	fmt.Fprintf(&b, "Enabled: %t\n", s.Enabled)
	if s.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", s.Description)
	}
	return b.String()
}
