package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"
	"github.com/sirupsen/logrus"

	reckon "github.com/xirelogy/go-reckon"
	"github.com/xirelogy/go-reckon/internal/config"
)

const (
	exitUsage = 64
	exitIO    = 74
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("reckon", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: reckon [-config file] [-trace] [path]\n")
		fs.PrintDefaults()
	}
	cfgPath := fs.String("config", "", "path to "+config.FileName+" (default: search upward from the working directory)")
	trace := fs.Bool("trace", false, "dump compiled chunks and trace execution")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return exitUsage
	}
	if fs.NArg() > 1 {
		fs.Usage()
		return exitUsage
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}
	if *trace {
		cfg.Trace = true
	}

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if lvl, err := cfg.Level(); err == nil {
		logger.SetLevel(lvl)
	}
	if cfg.Path != "" {
		logger.WithField("path", cfg.Path).Debug("loaded configuration")
	}

	in := reckon.New(reckon.WithConfig(cfg), reckon.WithLogger(logger))

	if fs.NArg() == 1 {
		return runFile(in, fs.Arg(0))
	}
	return repl(in, cfg)
}

func loadConfig(path string) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.FindAndLoad(".")
	}
	if err != nil {
		return cfg, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func runFile(in *reckon.Interpreter, path string) int {
	v, res, err := in.InterpretFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitIO
	}
	if res == reckon.ResultOK {
		fmt.Println(reckon.FormatValue(v))
	}
	return res.ExitCode()
}

func historyPath(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, name)
}

func repl(in *reckon.Interpreter, cfg config.Config) int {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := historyPath(cfg.HistoryFile)
	if histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(histPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	for {
		line, err := ln.Prompt(cfg.Prompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				continue
			}
			if errors.Is(err, io.EOF) {
				fmt.Println()
				return 0
			}
			fmt.Fprintln(os.Stderr, err)
			return exitIO
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(line)

		if v, res := in.Interpret(line); res == reckon.ResultOK {
			fmt.Println(reckon.FormatValue(v))
		}
	}
}
