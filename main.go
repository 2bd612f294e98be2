package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/nishanthkj/llmkit/internal/config"
	"github.com/nishanthkj/llmkit/internal/errors"
	"github.com/nishanthkj/llmkit/internal/logging"
	"github.com/nishanthkj/llmkit/pkg/llmkit"
)

// CLI defines the command-line interface
var CLI struct {
	File        string   `help:"Path to input file. If not specified, reads from stdin." short:"f" type:"path"`
	Output      string   `help:"Path to write the bundle to. If not specified, writes to stdout." short:"o" type:"path"`
	Targets     []string `help:"Comma separated render targets (json, yaml, toml, csv). Defaults to every available target." short:"t" sep:","`
	Format      string   `help:"Render a single target. Overrides --targets."`
	Permissive  bool     `help:"Repair malformed JSON and recover HTML tables that strict detection rejects."`
	MaxBytes    int      `help:"Truncate the input to this many bytes before processing." name:"max-bytes"`
	Config      string   `help:"Path to config file. If not specified, searches for .llmkit.yml in current and parent directories." short:"c" type:"path"`
	Debug       bool     `help:"Enable debug logging." short:"d"`
	LogLevel    string   `help:"Log level: debug, info, warn or error." name:"log-level"`
	ListTargets bool     `help:"List the render targets compiled into this build." name:"list-targets"`
	Version     bool     `help:"Show version information." short:"v"`
	Interactive bool     `help:"Run in interactive mode, allowing pasted model output with Ctrl+D to process." short:"I"`
}

// Context holds the runtime context
type Context struct {
	Config *config.Config
	Logger *slog.Logger
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	parser := kong.Must(&CLI,
		kong.Name("llmkit"),
		kong.Description("Detect the format of model-generated structured text and re-render it as JSON, YAML, TOML and CSV"),
		kong.UsageOnError(),
	)

	// Check if no arguments provided and set interactive mode by default
	if len(os.Args) == 1 {
		CLI.Interactive = true
	}

	if _, err := parser.Parse(os.Args[1:]); err != nil {
		// Usage is already shown by kong.UsageOnError()
		os.Exit(1)
	}

	if CLI.Version {
		fmt.Printf("llmkit version %s\n", Version)
		return
	}

	if CLI.ListTargets {
		for _, t := range llmkit.AvailableTargets() {
			fmt.Println(t)
		}
		return
	}

	ctx, err := newContext()
	if err == nil {
		err = run(ctx)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(os.Stderr, "\nFor help, run: llmkit --help\n")
		os.Exit(1)
	}
}

// newContext resolves configuration and builds the logger
func newContext() (*Context, error) {
	targets := CLI.Targets
	if CLI.Format != "" {
		targets = []string{CLI.Format}
	}

	cfg, err := config.LoadConfigWithCLI(CLI.Config, config.Overrides{
		Targets:    targets,
		Permissive: CLI.Permissive,
		MaxBytes:   CLI.MaxBytes,
		LogLevel:   CLI.LogLevel,
	})
	if err != nil {
		return nil, err
	}

	levelName := cfg.LogLevel
	if levelName == "" {
		levelName = logging.LevelFromEnv()
	}
	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return nil, errors.NewConfigurationError(err.Error(), err)
	}
	if CLI.Debug {
		level = slog.LevelDebug
	}

	logger := logging.New(os.Stderr, level)
	logger.Debug("configuration loaded",
		"targets", cfg.Targets,
		"permissive", cfg.Permissive,
		"max_bytes", cfg.MaxBytes,
		"log_level", logging.LevelString(level),
	)
	return &Context{Config: cfg, Logger: logger}, nil
}

// run executes the main program logic
func run(ctx *Context) error {
	input, err := readInput()
	if err != nil {
		return err
	}

	bundle, err := llmkit.Convert(input, llmkit.Options{
		Targets:    ctx.Config.Targets,
		Permissive: ctx.Config.Permissive,
		MaxBytes:   ctx.Config.MaxBytes,
		Render:     ctx.Config.RenderOptions(),
		Logger:     ctx.Logger,
	})
	if err != nil {
		return err
	}

	out, err := encodeBundle(bundle)
	if err != nil {
		return errors.NewOutputError("failed to encode result bundle", err)
	}
	return writeOutput(out)
}

// encodeBundle renders the bundle as indented JSON without HTML escaping
func encodeBundle(b *llmkit.Bundle) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(b); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// readInput reads raw bytes from the input file or stdin
func readInput() ([]byte, error) {
	if CLI.File != "" {
		if info, err := os.Stat(CLI.File); err == nil && info.IsDir() {
			return nil, errors.NewInputError(fmt.Sprintf("'%s' is a directory", CLI.File), errors.ErrInvalidFilePath)
		}
		data, err := os.ReadFile(CLI.File)
		if err != nil {
			if stderrors.Is(err, os.ErrNotExist) {
				return nil, errors.NewInputError(fmt.Sprintf("file '%s' does not exist", CLI.File), errors.ErrFileNotFound)
			}
			return nil, errors.NewInputError(fmt.Sprintf("failed to read file '%s'", CLI.File), err)
		}
		return data, nil
	}

	stdinInfo, err := os.Stdin.Stat()
	if err != nil {
		return nil, errors.NewInputError("failed to access stdin", err)
	}

	if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
		// Terminal is interactive (not piped)
		if CLI.Interactive {
			return readInteractiveInput()
		}
		return nil, errors.NewInputError("no input provided", errors.ErrNoInput)
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, errors.NewInputError("failed to read from stdin", err)
	}
	return data, nil
}

// writeOutput writes the bundle to file or stdout
func writeOutput(data []byte) error {
	if CLI.Output != "" {
		if err := os.WriteFile(CLI.Output, data, 0o644); err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", CLI.Output), err)
		}
		fmt.Fprintf(os.Stderr, "Result bundle written to %s\n", CLI.Output)
		return nil
	}

	if _, err := os.Stdout.Write(data); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

// readInteractiveInput lets users paste model output and signal completion
// with Ctrl+D (EOF)
func readInteractiveInput() ([]byte, error) {
	fmt.Fprintln(os.Stderr, "llmkit interactive mode")
	fmt.Fprintln(os.Stderr, "Paste model output below and press Ctrl+D (or Ctrl+Z on Windows) when done:")

	reader := bufio.NewReader(os.Stdin)
	var builder strings.Builder
	for {
		line, err := reader.ReadString('\n')
		builder.WriteString(line)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewInputError("error reading input", err)
		}
	}

	fmt.Fprintln(os.Stderr, "\nProcessing input...")
	return []byte(builder.String()), nil
}
