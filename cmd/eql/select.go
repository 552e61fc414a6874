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

// Select command errors.
var ErrMissingExpression = errors.New("missing selector expression")

func selectCommand() *cli.Command {
	return &cli.Command{
		Name:      "select",
		Usage:     "Find nodes matching a selector expression",
		ArgsUsage: "EXPR [files or directories...]",
		Description: `EXPR is evaluated against every node of each parsed file; matching
nodes are printed in surface syntax. The expression sees the fields
kind, key, dispatchKey, unionKey, params, hasParams, depth, unbounded,
and childCount, for example:

    eql select 'kind == "join" && unbounded'
    eql select 'hasParams && params[":with"] != nil'`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "count",
				Aliases: []string{"c"},
				Usage:   "print only the number of matches per file",
			},
		},
		Action: runSelect,
	}
}

func runSelect(ctx context.Context, cmd *cli.Command) error {
	logger, err := newLogger(cmd.Bool("verbose"))
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	args := cmd.Args().Slice()
	if len(args) == 0 {
		return ErrMissingExpression
	}

	selector, err := eql.CompileSelector(args[0])
	if err != nil {
		return fmt.Errorf("compiling selector: %w", err)
	}

	cfg := loadConfig()

	files, err := discoverFiles(args[1:], cfg.Extensions())
	if err != nil {
		return err
	}

	for _, file := range files {
		logger.Debug("selecting", zap.String("file", file))

		data, err := os.ReadFile(file) //nolint:gosec // G304: file path from user input is expected
		if err != nil {
			return fmt.Errorf("reading %s: %w", file, err)
		}

		value, err := eql.Read(data)
		if err != nil {
			return fmt.Errorf("%s: %w", displayPath(file), err)
		}

		root, err := eql.Parse(value)
		if err != nil {
			return fmt.Errorf("%s: %w", displayPath(file), err)
		}

		matches, err := selector.Select(root)
		if err != nil {
			return fmt.Errorf("%s: %w", displayPath(file), err)
		}

		if cmd.Bool("count") {
			fmt.Printf("%s: %d\n", displayPath(file), len(matches))

			continue
		}

		for _, node := range matches {
			fmt.Printf("%s: %s\n", displayPath(file), eql.WriteString(eql.Unparse(node)))
		}
	}

	return nil
}
