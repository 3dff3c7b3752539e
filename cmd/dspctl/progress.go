package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/moffa90/go-sigmadsp/eeprom"
)

// progressBar prints EEPROM programming progress. On a terminal it redraws
// one line sized to the window; otherwise it prints a line per phase.
type progressBar struct {
	out   io.Writer
	tty   bool
	width int
	phase string
}

func newProgressBar(w io.Writer) *progressBar {
	pb := &progressBar{out: w, width: 40}
	f, ok := w.(*os.File)
	if !ok {
		return pb
	}
	fd := int(f.Fd())
	if term.IsTerminal(fd) {
		pb.tty = true
		if w, _, err := term.GetSize(fd); err == nil && w > 60 {
			pb.width = w - 50
		}
	}
	return pb
}

// Render returns the bar for percentage.
func (pb *progressBar) Render(percentage float64) string {
	filled := int(float64(pb.width) * percentage / 100.0)
	if filled > pb.width {
		filled = pb.width
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", pb.width-filled) + "]"
}

func (pb *progressBar) Update(p eeprom.Progress) {
	if !pb.tty {
		if p.Phase != pb.phase {
			fmt.Fprintf(pb.out, "%-9s %5.1f%% %d/%d bytes\n", p.Phase, p.Percentage, p.BytesWritten, p.TotalBytes)
			pb.phase = p.Phase
		}
		return
	}

	eta := ""
	if p.Percentage > 0 && p.Percentage < 100 {
		remaining := time.Duration(float64(p.ElapsedTime) * (100 - p.Percentage) / p.Percentage)
		eta = " ETA " + remaining.Round(time.Second).String()
	}
	fmt.Fprintf(pb.out, "\r%-9s %s %5.1f%%%s   ", p.Phase, pb.Render(p.Percentage), p.Percentage, eta)
	if p.Phase == eeprom.PhaseComplete {
		fmt.Fprintln(pb.out)
	}
}
