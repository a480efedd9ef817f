// Package surface selects how a report reaches the user. Each surface
// declares whether it can run in the current environment; selection walks
// the candidates in preference order and falls back, and only when no
// surface at all can run does the program fail, with an error that says
// why each candidate was rejected.
package surface

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hostscope/hostscope/internal/errors"
	"github.com/hostscope/hostscope/internal/logger"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Surface is one way of presenting reports.
type Surface interface {
	// Name identifies the surface in logs and errors.
	Name() string

	// CanRun reports whether the current environment supports this
	// surface. A non-nil error explains what is missing.
	CanRun() error

	// Run drives the surface until the user quits or the context ends.
	Run(ctx context.Context) error
}

// Select returns the first candidate that can run. When every candidate
// is rejected, the returned error carries each rejection reason.
func Select(candidates []Surface, log logger.Logger) (Surface, error) {
	var rejections []string
	for _, s := range candidates {
		if err := s.CanRun(); err != nil {
			log.Debug("surface %s unavailable: %v", s.Name(), err)
			rejections = append(rejections, fmt.Sprintf("%s: %v", s.Name(), err))
			continue
		}
		log.Debug("selected surface: %s", s.Name())
		return s, nil
	}

	return nil, errors.New(errors.ErrDisplay,
		"No display surface is available ("+strings.Join(rejections, "; ")+")",
		"Run with --plain to write the report to stdout, or attach a terminal")
}

// IsInteractive reports whether fd is a terminal capable of hosting the
// dashboard. A dumb terminal counts as non-interactive even when fd is a
// TTY.
func IsInteractive(fd int) bool {
	if !term.IsTerminal(fd) {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return true
}

// ColorProfile reports the terminal's color capability for styling
// decisions. Ascii means no color support at all.
func ColorProfile() termenv.Profile {
	return termenv.ColorProfile()
}
