package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rlch/eql"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// Format command errors.
var ErrNotFormatted = errors.New("files are not formatted")

func fmtCommand() *cli.Command {
	return &cli.Command{
		Name:      "fmt",
		Usage:     "Canonicalize and format transaction files",
		ArgsUsage: "[files or directories...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "write",
				Aliases: []string{"w"},
				Usage:   "rewrite files in place instead of printing to stdout",
			},
			&cli.BoolFlag{
				Name:    "list",
				Aliases: []string{"l"},
				Usage:   "list files whose formatting differs",
			},
			&cli.IntFlag{
				Name:  "width",
				Usage: "maximum line width (overrides config)",
			},
		},
		Action: runFmt,
	}
}

func runFmt(ctx context.Context, cmd *cli.Command) error {
	logger, err := newLogger(cmd.Bool("verbose"))
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	cfg := loadConfig()

	maxWidth := int(cmd.Int("width"))
	if maxWidth == 0 {
		maxWidth = cfg.MaxWidth()
	}

	files, err := discoverFiles(cmd.Args().Slice(), cfg.Extensions())
	if err != nil {
		return err
	}

	var changed []string

	for _, file := range files {
		logger.Debug("formatting", zap.String("file", file))

		data, err := os.ReadFile(file) //nolint:gosec // G304: file path from user input is expected
		if err != nil {
			return fmt.Errorf("reading %s: %w", file, err)
		}

		formatted, err := formatSource(data, maxWidth)
		if err != nil {
			return fmt.Errorf("%s: %w", displayPath(file), err)
		}

		if string(data) == formatted {
			continue
		}

		changed = append(changed, file)

		switch {
		case cmd.Bool("write"):
			if err := os.WriteFile(file, []byte(formatted), 0o600); err != nil {
				return fmt.Errorf("writing %s: %w", file, err)
			}
		case cmd.Bool("list"):
			fmt.Println(displayPath(file))
		default:
			fmt.Print(formatted)
		}
	}

	if cmd.Bool("list") && len(changed) > 0 {
		return ErrNotFormatted
	}

	return nil
}

// formatSource reads, canonicalizes, and pretty-prints one file's contents.
func formatSource(data []byte, maxWidth int) (string, error) {
	value, err := eql.Read(data)
	if err != nil {
		return "", err
	}

	root, err := eql.Parse(value)
	if err != nil {
		return "", err
	}

	return eql.FormatWidth(eql.Unparse(root), maxWidth), nil
}
