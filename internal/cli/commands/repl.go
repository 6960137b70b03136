package commands

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/fixpq/pkg/format"
	"github.com/leapstack-labs/fixpq/pkg/parser"
)

const (
	replPrompt     = "fixpq> "
	replContPrompt = "  ...> "
)

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Parse SQL interactively",
		Long: `Start an interactive session. Input accumulates until a line ends with
a semicolon; the statement is then parsed and its tree printed.

Commands: .help, .tokens (toggle token listing), .quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runREPL(cmd)
		},
	}
}

func runREPL(cmd *cobra.Command) error {
	cc := NewCommandContextWithoutStore(cmd)

	historyFile := ""
	if cc.Cfg.History.Path != "" {
		historyFile = filepath.Join(filepath.Dir(cc.Cfg.History.Path), "repl_history")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "fixpq REPL. Type .help for commands, .quit to exit")

	session := newREPLSession(cmd.OutOrStdout(), cmd.ErrOrStderr(), cc.ParseOptions()...)
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			session.Reset()
			rl.SetPrompt(replPrompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if session.Feed(line) {
			return nil
		}
		rl.SetPrompt(session.Prompt())
	}
}

// replSession accumulates input lines and parses complete statements.
type replSession struct {
	out, errOut io.Writer
	opts        []parser.Option
	buf         strings.Builder
	showTokens  bool
}

func newREPLSession(out, errOut io.Writer, opts ...parser.Option) *replSession {
	return &replSession{out: out, errOut: errOut, opts: opts}
}

// Prompt returns the prompt for the next line.
func (s *replSession) Prompt() string {
	if s.buf.Len() > 0 {
		return replContPrompt
	}
	return replPrompt
}

// Reset drops any pending input.
func (s *replSession) Reset() {
	s.buf.Reset()
}

// Feed consumes one input line. It returns true when the session should end.
func (s *replSession) Feed(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}

	if s.buf.Len() == 0 && strings.HasPrefix(trimmed, ".") {
		return s.dotCommand(trimmed)
	}

	s.buf.WriteString(line)
	s.buf.WriteString("\n")
	if !strings.HasSuffix(trimmed, ";") {
		return false
	}

	src := s.buf.String()
	s.buf.Reset()
	s.evaluate(src)
	return false
}

func (s *replSession) evaluate(src string) {
	tokens, res := parser.ParseString(src, s.opts...)
	if s.showTokens {
		_ = format.TokensTable(s.out, tokens)
	}
	if !res.OK() {
		_, _ = fmt.Fprintf(s.errOut, "Error: %v\n", res.Err)
		return
	}
	_ = format.TreeText(s.out, res.Root)
	_, _ = fmt.Fprintf(s.out, "(%d nodes)\n", res.Nodes())
}

func (s *replSession) dotCommand(line string) bool {
	switch strings.ToLower(strings.Fields(line)[0]) {
	case ".quit", ".exit":
		return true
	case ".tokens":
		s.showTokens = !s.showTokens
		state := "off"
		if s.showTokens {
			state = "on"
		}
		_, _ = fmt.Fprintf(s.out, "token listing %s\n", state)
	case ".help":
		_, _ = fmt.Fprintln(s.out, `Enter SQL terminated by ";" to see its tree.
  .tokens  toggle the token table
  .help    show this help
  .quit    leave the REPL`)
	default:
		_, _ = fmt.Fprintf(s.errOut, "unknown command %s (try .help)\n", line)
	}
	return false
}
