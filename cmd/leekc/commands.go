package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gopkg.in/urfave/cli.v1"

	"github.com/leekwars/leekc/internal/ast"
	leekcli "github.com/leekwars/leekc/internal/cli"
	"github.com/leekwars/leekc/internal/config"
	"github.com/leekwars/leekc/internal/definitions"
	"github.com/leekwars/leekc/internal/parser"
	"github.com/leekwars/leekc/internal/vfs"
)

var (
	strictFlag = cli.BoolFlag{
		Name:  "strict",
		Usage: "Treat warnings as failures",
	}
	jobsFlag = cli.IntFlag{
		Name:  "jobs",
		Usage: "Files compiled concurrently",
		Value: runtime.NumCPU(),
	}
	lineFlag = cli.IntFlag{
		Name:  "line",
		Usage: "Cursor line",
	}
	columnFlag = cli.IntFlag{
		Name:  "column",
		Usage: "Cursor column",
	}
	utf16Flag = cli.BoolFlag{
		Name:  "utf16",
		Usage: "Line and column are 0-based with a UTF-16 column, as editors send them",
	}
	statsFlag = cli.BoolFlag{
		Name:  "stats",
		Usage: "Print parse counters after the tree",
	}
	jsonFlag = cli.BoolFlag{
		Name:  "json",
		Usage: "Output in JSON format",
	}

	checkCommand = cli.Command{
		Action:    check,
		Name:      "check",
		Usage:     "Compile files and report diagnostics",
		ArgsUsage: "<file> [file...]",
		Flags:     []cli.Flag{strictFlag, jobsFlag},
		Description: `Each file is compiled in its own session, concurrently.
The command fails when any file has an error, or a warning with --strict.`,
	}
	parseCommand = cli.Command{
		Action:    parse,
		Name:      "parse",
		Usage:     "Print the instruction tree of a file",
		ArgsUsage: "<file>",
		Flags:     []cli.Flag{statsFlag},
	}
	symbolsCommand = cli.Command{
		Action:    symbols,
		Name:      "symbols",
		Usage:     "List the globals, functions and classes of a file",
		ArgsUsage: "<file>",
	}
	definitionsCommand = cli.Command{
		Action:    printDefinitions,
		Name:      "definitions",
		Usage:     "Print the definitions visible at a cursor as JSON",
		ArgsUsage: "<file>",
		Flags:     []cli.Flag{lineFlag, columnFlag, utf16Flag},
	}
	watchCommand = cli.Command{
		Action:    watch,
		Name:      "watch",
		Usage:     "Check files again whenever they or their includes change",
		ArgsUsage: "<file> [file...]",
		Flags:     []cli.Flag{strictFlag},
	}
	dumpConfigCommand = cli.Command{
		Action:      dumpConfig,
		Name:        "dumpconfig",
		Usage:       "Show configuration values",
		ArgsUsage:   "[file]",
		Description: `The dumpconfig command shows the effective configuration as TOML.`,
	}
	versionCommand = cli.Command{
		Action: printVersion,
		Name:   "version",
		Usage:  "Print version numbers",
		Flags:  []cli.Flag{jsonFlag},
	}
)

// checkFiles compiles every path concurrently and reports through r
func checkFiles(ctx context.Context, e *env, r *leekcli.Reporter, paths []string, jobs int) error {
	g, gctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for _, path := range paths {
		path := path
		g.Go(func() error {
			res, err := e.compile(gctx, path, e.options())
			if err != nil {
				return err
			}
			r.Report(path, res.Diagnostics)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return r.Summary(len(paths))
}

func check(ctx *cli.Context) error {
	if err := leekcli.ValidateArgs(ctx.Args(), 1, "leekc check <file> [file...]"); err != nil {
		return err
	}
	e, err := makeEnv(ctx)
	if err != nil {
		return err
	}
	strict := e.cfg.Strict || ctx.Bool(strictFlag.Name)
	return checkFiles(context.Background(), e, leekcli.NewReporter(strict), ctx.Args(), ctx.Int(jobsFlag.Name))
}

// single compiles the one file a command names
func single(ctx *cli.Context, usage string) (*parser.Result, error) {
	if err := leekcli.ValidateArgs(ctx.Args(), 1, usage); err != nil {
		return nil, err
	}
	e, err := makeEnv(ctx)
	if err != nil {
		return nil, err
	}
	res, err := e.compile(context.Background(), ctx.Args().First(), e.options())
	return res, err
}

func parse(ctx *cli.Context) error {
	res, err := single(ctx, "leekc parse <file>")
	if err != nil {
		return err
	}
	if res.Program == nil {
		leekcli.NewReporter(false).Report(ctx.Args().First(), res.Diagnostics)
		return leekcli.ErrCheckFailed
	}
	fmt.Print(ast.Sprint(res.Program))
	if ctx.Bool(statsFlag.Name) {
		leekcli.PrintStats(os.Stdout, res.Program)
	}
	if !res.Success {
		leekcli.NewReporter(false).Report(ctx.Args().First(), res.Diagnostics)
		return leekcli.ErrCheckFailed
	}
	return nil
}

func symbols(ctx *cli.Context) error {
	res, err := single(ctx, "leekc symbols <file>")
	if err != nil {
		return err
	}
	if res.Program == nil {
		leekcli.NewReporter(false).Report(ctx.Args().First(), res.Diagnostics)
		return leekcli.ErrCheckFailed
	}
	leekcli.PrintSymbols(os.Stdout, res.Program)
	return nil
}

func printDefinitions(ctx *cli.Context) error {
	usage := "leekc definitions --line L --column C [--utf16] <file>"
	if err := leekcli.ValidateArgs(ctx.Args(), 1, usage); err != nil {
		return err
	}
	e, err := makeEnv(ctx)
	if err != nil {
		return err
	}
	background := context.Background()
	unit, err := e.loader.Load(background, ctx.Args().First())
	if err != nil {
		return err
	}
	line, column := ctx.Int(lineFlag.Name), ctx.Int(columnFlag.Name)
	cursor := definitions.Cursor{File: unit.Path, Line: line, Column: column}
	if ctx.Bool(utf16Flag.Name) {
		cursor = definitions.CursorFromUTF16(unit.File, line, column)
	}
	result, _, err := definitions.Collect(background, unit, cursor, e.options())
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func watch(ctx *cli.Context) error {
	if err := leekcli.ValidateArgs(ctx.Args(), 1, "leekc watch <file> [file...]"); err != nil {
		return err
	}
	e, err := makeEnv(ctx)
	if err != nil {
		return err
	}
	paths := ctx.Args()
	strict := e.cfg.Strict || ctx.Bool(strictFlag.Name)

	w, err := vfs.NewFSWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	dirs := make(map[string]bool)
	for _, p := range append([]string{e.cfg.IncludeRoot}, paths...) {
		dir := filepath.Dir(p)
		if p == e.cfg.IncludeRoot {
			dir = p
		}
		if !dirs[dir] {
			dirs[dir] = true
			if err := w.Add(dir); err != nil {
				return err
			}
		}
	}

	background, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	changed := make(chan string, 1)
	go func() {
		err := e.loader.Watch(background, w, func(path string) {
			if !vfs.IsSource(path) {
				return
			}
			select {
			case changed <- path:
			default:
			}
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			e.logger.Warn("watch stopped", "err", err)
		}
	}()

	for {
		// A failed check is reported and the watch goes on
		if err := checkFiles(background, e, leekcli.NewReporter(strict), paths, runtime.NumCPU()); err != nil && leekcli.ExitCode(err) != 1 {
			return err
		}
		select {
		case <-background.Done():
			return nil
		case path := <-changed:
			e.logger.Info("rechecking", "changed", path)
		}
	}
}

func dumpConfig(ctx *cli.Context) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	dump := os.Stdout
	if ctx.NArg() > 0 {
		dump, err = os.OpenFile(ctx.Args().Get(0), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
		defer dump.Close()
	}
	return config.Dump(dump, cfg)
}

func printVersion(ctx *cli.Context) error {
	return leekcli.PrintVersion(os.Stdout, "leekc", ctx.Bool(jsonFlag.Name))
}
