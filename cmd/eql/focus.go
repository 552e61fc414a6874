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

// Focus command errors.
var (
	ErrMissingPath   = errors.New("missing path argument")
	ErrNotAQuery     = errors.New("top-level form is not a query vector")
	ErrPathNotFound  = errors.New("path not found in query")
	ErrPathNotVector = errors.New("path argument must be a vector")
)

func focusCommand() *cli.Command {
	return &cli.Command{
		Name:      "focus",
		Usage:     "Extract the sub-query at a path",
		ArgsUsage: "PATH [files or directories...]",
		Description: `PATH is a vector of dispatch keys in surface syntax, for example
'[:favorite-albums :album/artist]'. Each key selects a join (or union
branch) one level deeper; the sub-query rooted there is printed.`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "width",
				Usage: "maximum line width (overrides config)",
			},
		},
		Action: runFocus,
	}
}

func runFocus(ctx context.Context, cmd *cli.Command) error {
	logger, err := newLogger(cmd.Bool("verbose"))
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	args := cmd.Args().Slice()
	if len(args) == 0 {
		return ErrMissingPath
	}

	path, err := parsePathArg(args[0])
	if err != nil {
		return err
	}

	cfg := loadConfig()

	maxWidth := int(cmd.Int("width"))
	if maxWidth == 0 {
		maxWidth = cfg.MaxWidth()
	}

	files, err := discoverFiles(args[1:], cfg.Extensions())
	if err != nil {
		return err
	}

	var missed int

	for _, file := range files {
		logger.Debug("focusing", zap.String("file", file))

		data, err := os.ReadFile(file) //nolint:gosec // G304: file path from user input is expected
		if err != nil {
			return fmt.Errorf("reading %s: %w", file, err)
		}

		query, err := readQuery(data)
		if err != nil {
			return fmt.Errorf("%s: %w", displayPath(file), err)
		}

		sub, ok := eql.FocusSubquery(query, path...)
		if !ok {
			missed++

			fmt.Fprintf(os.Stderr, "%s: %v: %s\n", displayPath(file), ErrPathNotFound, args[0])

			continue
		}

		if len(files) > 1 {
			fmt.Printf("%s:\n", displayPath(file))
		}

		fmt.Print(eql.FormatWidth(sub, maxWidth))
	}

	if missed > 0 {
		return ErrPathNotFound
	}

	return nil
}

// parsePathArg reads the path argument, a vector of dispatch keys.
func parsePathArg(arg string) ([]any, error) {
	value, err := eql.ReadString(arg)
	if err != nil {
		return nil, fmt.Errorf("parsing path: %w", err)
	}

	seq, ok := value.(eql.Seq)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPathNotVector, arg)
	}

	return seq, nil
}

// readQuery reads and canonicalizes one file's top-level query vector.
func readQuery(data []byte) (eql.Seq, error) {
	value, err := eql.Read(data)
	if err != nil {
		return nil, err
	}

	root, err := eql.Parse(value)
	if err != nil {
		return nil, err
	}

	query, ok := eql.Unparse(root).(eql.Seq)
	if !ok {
		return nil, ErrNotAQuery
	}

	return query, nil
}
