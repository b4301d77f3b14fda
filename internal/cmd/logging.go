package cmd

import (
	"log/slog"
	"os"

	"github.com/gogpu/gg"
	"github.com/spf13/viper"
)

var logger *slog.Logger

func initLogging() {
	level := slog.LevelInfo
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}

	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	gg.SetLogger(logger)
}
