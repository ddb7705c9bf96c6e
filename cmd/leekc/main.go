// Command leekc checks LeekScript sources and inspects what the parser
// builds from them.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/urfave/cli.v1"

	leekcli "github.com/leekwars/leekc/internal/cli"
	"github.com/leekwars/leekc/internal/config"
	"github.com/leekwars/leekc/internal/parser"
	"github.com/leekwars/leekc/internal/source"
	"github.com/leekwars/leekc/internal/vfs"
)

var (
	configFileFlag = cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
	languageFlag = cli.IntFlag{
		Name:  "version-lang",
		Usage: "Language version (1-4), overrides the configuration",
	}
	timeoutFlag = cli.DurationFlag{
		Name:  "timeout",
		Usage: "Compile budget per file, overrides the configuration",
	}
	verboseFlag = cli.BoolFlag{
		Name:  "verbose",
		Usage: "Log progress",
	}
	debugFlag = cli.BoolFlag{
		Name:  "debug",
		Usage: "Log parser tracing",
	}
)

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "leekc"
	app.Usage = "LeekScript parser and checker"
	app.Version = leekcli.Version
	app.Flags = []cli.Flag{configFileFlag, languageFlag, timeoutFlag, verboseFlag, debugFlag}
	app.Commands = []cli.Command{
		checkCommand,
		parseCommand,
		symbolsCommand,
		definitionsCommand,
		watchCommand,
		dumpConfigCommand,
		versionCommand,
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		leekcli.Fatal(err)
	}
}

// env is what every command shares: effective configuration, logger and
// a loader over the OS filesystem
type env struct {
	cfg    *config.Config
	logger *slog.Logger
	loader *source.Loader
}

func makeConfig(ctx *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(ctx.GlobalString(configFileFlag.Name))
	if err != nil {
		return nil, err
	}
	if v := ctx.GlobalInt(languageFlag.Name); v != 0 {
		cfg.Version = v
	}
	if d := ctx.GlobalDuration(timeoutFlag.Name); d != 0 {
		cfg.TimeoutMs = int(d / time.Millisecond)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func makeEnv(ctx *cli.Context) (*env, error) {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return nil, err
	}
	logger := leekcli.NewLogger(ctx.GlobalBool(verboseFlag.Name), ctx.GlobalBool(debugFlag.Name))
	cache, err := source.NewCache(cfg.CacheSize, logger)
	if err != nil {
		return nil, err
	}
	loader, err := source.NewLoader(vfs.NewOS(), source.LoaderConfig{
		Root:    cfg.IncludeRoot,
		Version: cfg.Version,
		Cache:   cache,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("configuration", "version", cfg.Version, "timeout", cfg.Timeout(), "root", cfg.IncludeRoot)
	return &env{cfg: cfg, logger: logger, loader: loader}, nil
}

// options returns the compile options of one session. The deadline is
// left to Compile so each file gets its own budget.
func (e *env) options() parser.Options {
	return parser.Options{
		Version:   e.cfg.Version,
		Timeout:   e.cfg.Timeout(),
		MaxErrors: e.cfg.MaxErrors,
		Resolver:  e.loader,
		Logger:    e.logger,
	}
}

// compile loads path and compiles it in its own session
func (e *env) compile(ctx context.Context, path string, opts parser.Options) (*parser.Result, error) {
	unit, err := e.loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	res, err := parser.Compile(ctx, unit, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	e.logger.Info("compiled", "path", path, "success", res.Success, "diagnostics", len(res.Diagnostics), "elapsed", res.Elapsed)
	return res, nil
}
