package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/keepers/internal/logging"
	"github.com/dmitrijs2005/keepers/internal/store"
	"golang.org/x/term"
)

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

// Uploader stores an export remotely and returns where it went.
type Uploader interface {
	Upload(ctx context.Context, data []byte) (string, error)
}

type App struct {
	store     *store.Store
	uploader  Uploader
	exportDir string
	log       logging.Logger

	in          io.Reader
	out         io.Writer
	scanner     *bufio.Scanner
	interactive bool
}

type Option func(*App)

// WithUploader enables the backup command.
func WithUploader(u Uploader) Option {
	return func(a *App) { a.uploader = u }
}

func WithExportDir(dir string) Option {
	return func(a *App) { a.exportDir = dir }
}

func WithLogger(l logging.Logger) Option {
	return func(a *App) { a.log = l }
}

// WithIO replaces stdin and stdout.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(a *App) {
		a.in = in
		a.out = out
	}
}

func NewApp(s *store.Store, opts ...Option) *App {
	a := &App{
		store:     s,
		exportDir: ".",
		log:       logging.Nop(),
		in:        os.Stdin,
		out:       os.Stdout,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.scanner = bufio.NewScanner(a.in)
	if f, ok := a.in.(*os.File); ok {
		a.interactive = isTerminal(int(f.Fd()))
	}
	return a
}

// Run serves commands until input ends or the user quits.
func (a *App) Run(ctx context.Context) {
	if a.interactive {
		a.printf("keepers (type 'help' for commands)\n")
	}
	runREPL(ctx, a, a.prompt, a.scanner)
}

func (a *App) prompt() string {
	if !a.interactive {
		return ""
	}
	doc := a.store.Snapshot()
	active := doc.Settings.Active.Count(doc.CollectionIDs())
	return fmt.Sprintf("keepers (%d/%d active) > ", active, len(doc.Collections))
}

func (a *App) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(a.out, format, args...)
}

// confirm asks a yes/no question on the command input.
func (a *App) confirm(question string) bool {
	a.printf("%s [y/N] ", question)
	if !a.scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(a.scanner.Text()))
	return answer == "y" || answer == "yes"
}
