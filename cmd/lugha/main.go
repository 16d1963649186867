package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/lugha-lang/lugha"
)

var flags = []cli.Flag{
	&cli.StringFlag{
		Name:    "logfmt",
		Aliases: []string{"f"},
		Usage:   "`format` logs as text or json",
		Value:   "text",
		EnvVars: []string{"LUGHA_LOGFMT"},
	},
	&cli.StringFlag{
		Name:    "loglvl",
		Usage:   "set logging `level` to trace, debug, info, warn, error or fatal",
		Value:   "info",
		EnvVars: []string{"LUGHA_LOGLVL"},
	},
	&cli.PathFlag{
		Name:        "config",
		Usage:       "load configuration from `path`",
		DefaultText: "~/.lugha.yaml",
		EnvVars:     []string{"LUGHA_CONFIG"},
	},
	&cli.IntFlag{
		Name:        "max-iterations",
		Usage:       "bound each loop activation to `n` iterations",
		DefaultText: "10000",
		EnvVars:     []string{"LUGHA_MAX_ITERATIONS"},
	},
	&cli.BoolFlag{
		Name:  "trace",
		Usage: "log every visited node at trace level",
	},
}

func main() {
	app := &cli.App{
		Name:                 "lugha",
		Usage:                "the Lugha scripting language",
		UsageText:            "lugha [global options] [command] [arguments...]",
		Flags:                flags,
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "run a Lugha source file",
				ArgsUsage: "FILE",
				Action:    runFile,
			},
			{
				Name:   "repl",
				Usage:  "start an interactive session",
				Action: runRepl,
			},
			{
				Name:      "ast",
				Usage:     "parse a source file and dump its syntax tree",
				ArgsUsage: "FILE",
				Action:    dumpAST,
			},
		},
		// With no subcommand, a file argument runs it and nothing
		// starts the REPL.
		Action: func(c *cli.Context) error {
			if c.Args().Present() {
				return runFile(c)
			}
			return runRepl(c)
		},
	}
	if err := app.Run(os.Args); err != nil {
		logger(nil).Fatal(err)
	}
}

// logger builds the process logger from the global flags. A nil context
// yields the defaults.
func logger(c *cli.Context) *logrus.Logger {
	log := logrus.New()
	if c == nil {
		return log
	}
	if c.String("logfmt") == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	if lvl, err := logrus.ParseLevel(c.String("loglvl")); err == nil {
		log.SetLevel(lvl)
	}
	return log
}

func configPath(c *cli.Context) string {
	if p := c.Path("config"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".lugha.yaml")
}

// newInterp builds an interpreter from the config file and flag overrides.
func newInterp(c *cli.Context, host lugha.Host) (*lugha.Interp, lugha.Config, error) {
	cfg := lugha.DefaultConfig()
	if p := configPath(c); p != "" {
		loaded, err := lugha.LoadConfig(p)
		if err != nil {
			return nil, cfg, fmt.Errorf("config %s: %w", p, err)
		}
		cfg = loaded
	}
	if n := c.Int("max-iterations"); n > 0 {
		cfg.MaxIterations = n
	}
	in := lugha.NewWithConfig(host, cfg)
	if c.Bool("trace") {
		log := logger(c)
		log.SetLevel(logrus.TraceLevel)
		in.Trace = log
	}
	return in, cfg, nil
}

func runFile(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return cli.Exit("usage: lugha run FILE", 2)
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	in, _, err := newInterp(c, nil)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if _, err := in.RunString(string(src), path); err != nil {
		fmt.Fprintln(os.Stderr, render(err, string(src)))
		return cli.Exit("", 1)
	}
	return nil
}

func dumpAST(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return cli.Exit("usage: lugha ast FILE", 2)
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	root, err := lugha.ParseSource(strings.NewReader(string(src)), path)
	if err != nil {
		fmt.Fprintln(os.Stderr, render(err, string(src)))
		return cli.Exit("", 1)
	}
	spew.Fdump(os.Stdout, root)
	return nil
}

// render formats an interpreter error with its source underlined.
func render(err error, src string) string {
	switch e := err.(type) {
	case *lugha.RuntimeError:
		return e.WithSource(src)
	case *lugha.SyntaxError:
		return e.WithSource(src)
	}
	return err.Error()
}
