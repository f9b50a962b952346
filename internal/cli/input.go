// Package cli handles line based queries from a terminal, for debugging and
// browsing the dictionary without an IPC client.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/bastiangx/lexserve/internal/utils"
	"github.com/bastiangx/lexserve/pkg/router"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	indexStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	wordStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("75"))
	meaningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).PaddingLeft(4)
	noticeStyle  = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("214"))
)

// InputHandler reads queries line by line and prints the routed results as
// numbered cards.
type InputHandler struct {
	router       *router.Router
	limit        int
	noFilter     bool
	in           io.Reader
	out          io.Writer
	requestCount int
}

// NewInputHandler creates a handler bound to stdin/stdout
func NewInputHandler(rt *router.Router, limit int, noFilter bool) *InputHandler {
	return NewInputHandlerWithIO(rt, limit, noFilter, os.Stdin, os.Stdout)
}

// NewInputHandlerWithIO creates a handler reading from in and printing to out
func NewInputHandlerWithIO(rt *router.Router, limit int, noFilter bool, in io.Reader, out io.Writer) *InputHandler {
	return &InputHandler{
		router:   rt,
		limit:    limit,
		noFilter: noFilter,
		in:       in,
		out:      out,
	}
}

// Start runs the loop until the input ends. Reaching the end of input is not an error.
func (h *InputHandler) Start() error {
	fmt.Fprintln(h.out, headerStyle.Render("LexServe CLI"))
	fmt.Fprintln(h.out, "type a word, a prefix or a pattern with '*' and '?' (Ctrl+C to exit):")

	reader := bufio.NewReader(h.in)
	for {
		fmt.Fprint(h.out, "> ")
		line, err := reader.ReadString('\n')
		if line = strings.TrimSpace(line); line != "" {
			h.handleInput(line)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(h.out)
				return nil
			}
			return err
		}
	}
}

func (h *InputHandler) handleInput(query string) {
	h.requestCount++

	if !h.noFilter && !utils.IsValidQuery(query) {
		log.Debugf("Query %q filtered out", query)
		fmt.Fprintln(h.out, "No matches found.")
		return
	}

	start := time.Now()
	res := h.router.Route(query, h.limit)
	log.Debugf("Took [ %v ] for query '%s' (%s)", time.Since(start), query, res.Kind)

	switch res.Kind {
	case router.KindEmpty:
		return
	case router.KindRejected:
		fmt.Fprintln(h.out, noticeStyle.Render("Query is too long."))
		return
	case router.KindNoMatch:
		fmt.Fprintln(h.out, "No matches found.")
		return
	case router.KindCorrected:
		fmt.Fprintln(h.out, noticeStyle.Render(fmt.Sprintf("No words start with '%s', showing corrections:", res.Query)))
	default:
		if len(res.Entries) < res.Total {
			fmt.Fprintf(h.out, "Showing %s of %s matches for '%s':\n",
				utils.FormatCount(len(res.Entries)), utils.FormatCount(res.Total), res.Query)
		} else {
			noun := "matches"
			if res.Total == 1 {
				noun = "match"
			}
			fmt.Fprintf(h.out, "Found %s %s for '%s':\n", utils.FormatCount(res.Total), noun, res.Query)
		}
	}

	for i, e := range res.Entries {
		fmt.Fprintf(h.out, "%s %s\n", indexStyle.Render(fmt.Sprintf("%2d.", i+1)), wordStyle.Render(e.Word))
		if e.Meaning != "" {
			fmt.Fprintln(h.out, meaningStyle.Render(e.Meaning))
		}
	}
}
