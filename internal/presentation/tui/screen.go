package tui

import (
	"context"
	"errors"
	"sync"

	"github.com/aretw0/courier/pkg/domain"
	"github.com/aretw0/courier/pkg/runner"
	"github.com/gdamore/tcell/v2"
)

// ErrNoPrompt is returned by ScreenHandler.Input; the full-screen view
// needs its input up front.
var ErrNoPrompt = errors.New("full-screen view cannot prompt for input")

const maxScreenNotices = 5

var (
	styleCourier = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleTarget  = tcell.StyleDefault.Foreground(tcell.ColorHotPink)
	styleEmpty   = tcell.StyleDefault.Dim(true)
	styleLabel   = tcell.StyleDefault.Foreground(tcell.ColorTeal).Bold(true)
	styleNotice  = tcell.StyleDefault.Foreground(tcell.ColorRed)
)

// ScreenHandler is a runner.IOHandler drawing the live grid on a tcell
// screen. Esc, Ctrl-C or q call quit and close Done.
type ScreenHandler struct {
	screen tcell.Screen
	quit   func()

	mu      sync.Mutex
	session *domain.Session
	notices []string
	status  string

	once sync.Once
	done chan struct{}
}

var _ runner.IOHandler = (*ScreenHandler)(nil)

// NewScreenHandler draws on an initialized screen and starts polling its
// key events. The caller owns the screen and must Fini it.
func NewScreenHandler(screen tcell.Screen, quit func()) *ScreenHandler {
	h := &ScreenHandler{
		screen: screen,
		quit:   quit,
		done:   make(chan struct{}),
		status: "waiting for route",
	}
	go h.poll()
	h.draw()
	return h
}

// Done is closed once the user asked to quit.
func (h *ScreenHandler) Done() <-chan struct{} {
	return h.done
}

func (h *ScreenHandler) poll() {
	for {
		ev := h.screen.PollEvent()
		if ev == nil {
			return // screen finalized
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
				(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
				h.stop()
			}
		case *tcell.EventResize:
			h.screen.Sync()
			h.draw()
		}
	}
}

func (h *ScreenHandler) stop() {
	h.once.Do(func() {
		if h.quit != nil {
			h.quit()
		}
		close(h.done)
	})
}

// Output implements runner.IOHandler.
func (h *ScreenHandler) Output(ctx context.Context, event runner.Event) error {
	h.mu.Lock()
	if event.Session != nil {
		h.session = event.Session
	}
	switch event.Type {
	case runner.EventPlan:
		h.status = "running"
	case runner.EventNotice:
		h.notices = append(h.notices, event.Notice.Message)
		if len(h.notices) > maxScreenNotices {
			h.notices = h.notices[len(h.notices)-maxScreenNotices:]
		}
	case runner.EventFinished:
		h.status = string(event.Session.Status) + "  (q to quit)"
	}
	h.mu.Unlock()

	h.draw()
	return nil
}

// Input implements runner.IOHandler. It always fails with ErrNoPrompt.
func (h *ScreenHandler) Input(ctx context.Context) (string, error) {
	return "", ErrNoPrompt
}

// SystemOutput shows msg on the status line.
func (h *ScreenHandler) SystemOutput(ctx context.Context, msg string) error {
	h.mu.Lock()
	h.status = msg
	h.mu.Unlock()
	h.draw()
	return nil
}

func (h *ScreenHandler) draw() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.screen.Clear()
	s := h.session
	if s == nil {
		s = domain.NewSession("")
	}

	row := 0
	row = h.line(row, "route ", s.Route)
	row = h.line(row, "result", s.Result)
	row = h.line(row, "at    ", s.Current.String())
	row = h.line(row, "status", h.status)
	row++

	if s.Rows > 0 && s.Cols > 0 && s.Rows <= MaxGridRows && s.Cols <= MaxGridCols {
		targets := domain.NewPointSet(s.Points...)
		for x := s.Rows - 1; x >= 0; x-- {
			for y := 0; y < s.Cols; y++ {
				p := domain.P(x, y)
				glyph, style := rune(glyphEmpty[0]), styleEmpty
				switch {
				case s.Current.Equal(p):
					glyph, style = rune(glyphCourier[0]), styleCourier
				case targets.Includes(p):
					glyph, style = rune(glyphTarget[0]), styleTarget
				}
				h.screen.SetContent(2*y, row, glyph, nil, style)
			}
			row++
		}
		row++
	}

	for _, n := range h.notices {
		h.text(0, row, "! "+n, styleNotice)
		row++
	}
	h.screen.Show()
}

func (h *ScreenHandler) line(row int, label, value string) int {
	h.text(0, row, label, styleLabel)
	h.text(len(label)+1, row, value, tcell.StyleDefault)
	return row + 1
}

func (h *ScreenHandler) text(x, y int, s string, style tcell.Style) {
	for i, r := range []rune(s) {
		h.screen.SetContent(x+i, y, r, nil, style)
	}
}
