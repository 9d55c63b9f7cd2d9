package main

import (
	"os"

	"github.com/alecthomas/kong"
	"golang.org/x/exp/slog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Context struct {
	Debug  bool
	Logger *slog.Logger

	gorm.Config
}

var cli struct {
	Debug     bool   `help:"Enable debug mode."`
	LogFormat string `help:"Log output format." enum:"text,json" default:"text"`

	Serve       ServeCmd       `cmd:"" help:"Serve a federation over HTTP."`
	Demo        DemoCmd        `cmd:"" help:"Run the two server demo federation and print each inbox."`
	AutoMigrate AutoMigrateCmd `cmd:"" help:"Create the journal tables."`
}

func main() {
	ctx := kong.Parse(&cli)
	err := ctx.Run(&Context{
		Debug:  cli.Debug,
		Logger: newLogger(cli.LogFormat, cli.Debug),
		Config: gorm.Config{
			Logger: logger.Default.LogMode(func() logger.LogLevel {
				if cli.Debug {
					return logger.Info
				}
				return logger.Warn
			}()),
		},
	})
	ctx.FatalIfErrorf(err)
}

func newLogger(format string, debug bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if debug {
		opts.Level = slog.LevelDebug
	}
	var logger *slog.Logger
	switch format {
	case "json":
		logger = slog.New(slog.NewJSONHandler(os.Stderr, opts))
	default:
		logger = slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	slog.SetDefault(logger)
	return logger
}
