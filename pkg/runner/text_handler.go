package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/courier/pkg/domain"
	"golang.org/x/term"
)

// TextHandler implements the human-readable interface.
type TextHandler struct {
	source      io.Reader
	interactive bool // reading from a terminal: EOF is transient
	Reader      *bufio.Reader
	Writer      io.Writer
	Renderer    ContentRenderer

	inputChan chan inputResult
	eof       chan struct{} // closed once a non-terminal source is exhausted
	startOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the grid renderer used on position updates.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// WithTextHandlerInput sets the input source (default os.Stdin).
func WithTextHandlerInput(r io.Reader) TextHandlerOption {
	return func(h *TextHandler) {
		h.source = r
	}
}

// NewTextHandler creates a handler writing to w.
func NewTextHandler(w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		source: os.Stdin,
		Writer: w,
	}
	for _, opt := range opts {
		opt(h)
	}

	h.interactive = isTerminal(h.source)
	h.Reader = bufio.NewReader(h.source)
	return h
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputResult)
		h.eof = make(chan struct{})
		go h.pump()
	})
}

func (h *TextHandler) pump() {
	for {
		text, err := h.Reader.ReadString('\n')
		if text != "" {
			h.inputChan <- inputResult{text: text}
		}

		if err != nil {
			if err == io.EOF {
				if h.interactive {
					// A signal may have interrupted the read; the terminal is still usable.
					h.inputChan <- inputResult{err: io.EOF}
					time.Sleep(50 * time.Millisecond)
					continue
				}
				close(h.eof)
				return
			}
			h.inputChan <- inputResult{err: err}
			time.Sleep(50 * time.Millisecond)
		}
	}
}

// FeedInput injects a line as if it was typed. Used by tests and bridges.
// It blocks until Input picks the line up, even after the source reached EOF.
func (h *TextHandler) FeedInput(text string, err error) {
	h.initPump()
	h.inputChan <- inputResult{text: text, err: err}
}

// Output prints one line per event. Position deliveries redraw the grid
// when a Renderer is configured.
func (h *TextHandler) Output(ctx context.Context, event Event) error {
	switch event.Type {
	case EventPlan:
		p := event.Plan
		fmt.Fprintf(h.Writer, "Route %dx%d: %s (%d stops, %d steps)\n", p.Rows, p.Cols, p.Route, len(p.Stops), p.Steps)
	case EventNotice:
		fmt.Fprintf(h.Writer, "! %s\n", event.Notice.Message)
	case EventDeliver:
		if event.Channel == domain.ChannelDirection {
			fmt.Fprintf(h.Writer, "%s %-6s %s\n", event.Step.Direction.Code(), event.Step.Direction.Name(), event.Session.Result)
			return nil
		}
		if h.Renderer != nil {
			out, err := h.Renderer(event.Session)
			if err == nil {
				fmt.Fprintln(h.Writer, strings.TrimRight(out, "\n"))
				return nil
			}
		}
		fmt.Fprintf(h.Writer, "  at %s\n", event.Step.Position)
	case EventFinished:
		s := event.Session
		fmt.Fprintf(h.Writer, "Result: %s  Position: %s  Status: %s\n", s.Result, s.Current, s.Status)
	}
	return nil
}

// Input prompts and returns one sanitized line.
func (h *TextHandler) Input(ctx context.Context) (string, error) {
	h.initPump()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
			fmt.Fprint(h.Writer, "> ")
		}

		var res inputResult
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case res = <-h.inputChan:
		case <-h.eof:
			// Fed lines still win over the exhausted source.
			select {
			case res = <-h.inputChan:
			default:
				return "", io.EOF
			}
		}

		if res.err != nil {
			return "", res.err
		}

		clean, err := SanitizeInput(strings.TrimSpace(res.text))
		if err != nil {
			fmt.Fprintf(h.Writer, "Error: %v. Please try again.\n", err)
			continue
		}
		return clean, nil
	}
}

// SystemOutput prints msg with a [System] prefix.
func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	fmt.Fprintf(h.Writer, "[System] %s\n", msg)
	return nil
}
