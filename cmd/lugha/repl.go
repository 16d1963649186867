package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/urfave/cli/v2"

	"github.com/lugha-lang/lugha"
)

const historyFile = ".lugha_history"

var banner = "Lugha. Ctrl+C inafuta mstari, Ctrl+D inatoka."

// linerHost routes the language's own soma/somaNambari reads through the
// line editor, so interactive programs get history and editing too.
type linerHost struct {
	line *liner.State
	out  io.Writer
}

func (h *linerHost) WriteLine(s string) {
	fmt.Fprintln(h.out, s)
}

func (h *linerHost) ReadLine(prompt string) (string, error) {
	s, err := h.line.Prompt(prompt)
	if err == liner.ErrPromptAborted {
		return "", io.EOF
	}
	return s, err
}

func (h *linerHost) ClearScreen() {
	fmt.Fprint(h.out, "\x1b[2J\x1b[H")
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, historyFile)
}

func runRepl(c *cli.Context) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	if p := historyPath(); p != "" {
		if f, err := os.Open(p); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
		defer func() {
			if f, err := os.Create(p); err == nil {
				line.WriteHistory(f)
				f.Close()
			}
		}()
	}

	in, cfg, err := newInterp(c, &linerHost{line: line, out: os.Stdout})
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	fmt.Println(banner)
	for {
		src, err := line.Prompt(cfg.Prompt)
		if err == liner.ErrPromptAborted {
			continue
		}
		if err != nil {
			fmt.Println()
			return nil
		}
		if strings.TrimSpace(src) == "" {
			continue
		}
		line.AppendHistory(src)
		for {
			v, err := in.RunString(src, "<repl>")
			if se, ok := err.(*lugha.SyntaxError); ok && strings.HasSuffix(se.Msg, "end of input") {
				// The input is a prefix of something longer; keep
				// reading until it parses or the user bails.
				more, perr := line.Prompt(cfg.ContPrompt)
				if perr != nil {
					fmt.Fprintln(os.Stderr, render(err, src))
					break
				}
				line.AppendHistory(more)
				src += "\n" + more
				continue
			}
			if err != nil {
				fmt.Fprintln(os.Stderr, render(err, src))
				break
			}
			if _, isNull := v.(*lugha.Null); !isNull {
				fmt.Println(v.String())
			}
			break
		}
	}
}
