package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the courier banner followed by version.
func PrintBanner(w io.Writer, version string) {
	p := termenv.EnvColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"   ___                  _           ", "#818cf8"},
		{"  / __|___ _  _ _ _ __ (_)___ _ _   ", "#a78bfa"},
		{" | (__/ _ \\ || | '_/ _|| / -_) '_| ", "#c084fc"},
		{"  \\___\\___/\\_,_|_| \\__||_\\___|_|   ", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintf(w, "  %s\n\n", p.String("v"+strings.TrimSpace(version)).Faint())
}
