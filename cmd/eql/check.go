package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/rlch/eql"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// Check command errors.
var ErrCheckFailed = errors.New("files contain errors")

var (
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	locationStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))
)

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Verify transaction files parse cleanly",
		ArgsUsage: "[files or directories...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "color",
				Usage: "colorize output: auto, always, never",
				Value: "auto",
			},
		},
		Action: runCheck,
	}
}

func runCheck(ctx context.Context, cmd *cli.Command) error {
	logger, err := newLogger(cmd.Bool("verbose"))
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	cfg := loadConfig()

	color := cmd.String("color")
	if color == "auto" && cfg != nil && cfg.Check.Color != "" {
		color = cfg.Check.Color
	}

	colorize := shouldColorize(color)

	files, err := discoverFiles(cmd.Args().Slice(), cfg.Extensions())
	if err != nil {
		return err
	}

	var failed int

	for _, file := range files {
		logger.Debug("checking", zap.String("file", file))

		data, err := os.ReadFile(file) //nolint:gosec // G304: file path from user input is expected
		if err != nil {
			return fmt.Errorf("reading %s: %w", file, err)
		}

		if err := checkSource(data); err != nil {
			failed++

			printDiagnostic(displayPath(file), err, colorize)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d files failed", ErrCheckFailed, failed, len(files))
	}

	msg := fmt.Sprintf("ok: %d files checked", len(files))
	if colorize {
		msg = okStyle.Render(msg)
	}

	fmt.Println(msg)

	return nil
}

// checkSource parses one file's contents, keeping positions for diagnostics.
func checkSource(data []byte) error {
	value, err := eql.ReadStringWithMeta(string(data))
	if err != nil {
		return err
	}

	_, err = eql.Parse(value)

	return err
}

func printDiagnostic(file string, err error, colorize bool) {
	location := file

	var parseErr *eql.ParseError
	if errors.As(err, &parseErr) && parseErr.Line > 0 {
		location = fmt.Sprintf("%s:%d:%d", file, parseErr.Line, parseErr.Column)
	}

	label := "error:"
	if colorize {
		location = locationStyle.Render(location)
		label = errorStyle.Render(label)
	}

	fmt.Fprintf(os.Stderr, "%s: %s %v\n", location, label, err)
}

func shouldColorize(mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		return isatty.IsTerminal(os.Stderr.Fd())
	}
}
