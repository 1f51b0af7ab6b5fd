// Package cli is the line-driven menu used to browse and edit a store
// from a terminal.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/jd-116/fooddb/store"
	"github.com/jd-116/fooddb/types"
)

// Saver persists store snapshots; db.SnapshotProvider satisfies it
type Saver interface {
	Save(ctx context.Context, snapshot types.Snapshot) error
}

// Session runs the menu against a single store
type Session struct {
	Store *store.Store
	// Optional; without one the save option reports that nothing is configured
	Saver Saver
	Out   io.Writer
	Now   func() time.Time

	logger  zerolog.Logger
	heading lipgloss.Style
	lines   <-chan string
}

// NewSession creates a session writing to out
func NewSession(s *store.Store, saver Saver, out io.Writer, logger zerolog.Logger) *Session {
	renderer := lipgloss.NewRenderer(out)
	return &Session{
		Store:   s,
		Saver:   saver,
		Out:     out,
		Now:     time.Now,
		logger:  logger,
		heading: renderer.NewStyle().Bold(true),
	}
}

type option struct {
	key         rune
	description string
}

var mainMenu = []option{
	{'n', "New food"},
	{'s', "Search foods"},
	{'m', "New meal"},
	{'a', "Add food to meal"},
	{'d', "Show day"},
	{'f', "Find meals"},
	{'w', "Save"},
	{'q', "Quit"},
}

// Run shows the main menu until the user quits or the input ends,
// both of which return nil. Cancelling ctx returns its error.
func (s *Session) Run(ctx context.Context, in io.Reader) error {
	done := make(chan struct{})
	defer close(done)
	s.lines = readLines(in, done)

	for {
		choice, err := s.menu(ctx, "Please choose an operation.", mainMenu)
		if err != nil {
			return endOfSession(err)
		}

		var actionErr error
		switch choice {
		case 'n':
			actionErr = s.newFood(ctx)
		case 's':
			actionErr = s.searchFoods(ctx)
		case 'm':
			actionErr = s.newMeal(ctx)
		case 'a':
			actionErr = s.addFoodToMeal(ctx)
		case 'd':
			actionErr = s.showDay(ctx)
		case 'f':
			actionErr = s.findMeals(ctx)
		case 'w':
			actionErr = s.save(ctx)
		case 'q':
			s.println("Goodbye.")
			return nil
		}
		if actionErr != nil {
			return endOfSession(actionErr)
		}
	}
}

func endOfSession(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// readLines feeds input lines to the session until the input ends
// or done is closed
func readLines(in io.Reader, done <-chan struct{}) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
	}()
	return lines
}

func (s *Session) readLine(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-s.lines:
		if !ok {
			return "", io.EOF
		}
		return line, nil
	}
}

// menu prints the options and reads lines until one starts with a valid key
func (s *Session) menu(ctx context.Context, prompt string, options []option) (rune, error) {
	for {
		s.println(prompt)
		for _, o := range options {
			s.printf("%c: %s\n", o.key, o.description)
		}

		line, err := s.readLine(ctx)
		if err != nil {
			return 0, err
		}
		if line == "" {
			continue
		}

		choice, _ := utf8.DecodeRuneInString(line)
		for _, o := range options {
			if o.key == choice {
				return choice, nil
			}
		}
		s.printf("Sorry, %c is an invalid selection.\n", choice)
	}
}

func (s *Session) ask(ctx context.Context, prompt string) (string, error) {
	s.printf("%s ", prompt)
	line, err := s.readLine(ctx)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// askNumber re-prompts until it reads a non-negative number.
// A blank answer returns fallback.
func (s *Session) askNumber(ctx context.Context, prompt string, fallback float64) (float64, error) {
	for {
		answer, err := s.ask(ctx, prompt)
		if err != nil {
			return 0, err
		}
		if answer == "" {
			return fallback, nil
		}

		value, err := strconv.ParseFloat(answer, 64)
		if err == nil && value >= 0 {
			return value, nil
		}
		s.printf("Sorry, '%s' is not a non-negative number.\n", answer)
	}
}

func (s *Session) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *Session) println(a ...interface{}) {
	fmt.Fprintln(s.Out, a...)
}

func (s *Session) printf(format string, a ...interface{}) {
	fmt.Fprintf(s.Out, format, a...)
}
