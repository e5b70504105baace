package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/amirasaad/usdtgate/pkg/config"
	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"golang.org/x/term"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{Level: log.WarnLevel, Prefix: "[usdtgate]"})
	slog.SetDefault(slog.New(logger))

	color.NoColor = os.Getenv("NO_COLOR") != "" || !term.IsTerminal(int(os.Stdout.Fd()))

	cfg, err := config.Load(".env")
	if err != nil {
		logger.Fatal("failed to load configuration", "error", err)
	}

	if err := run(cfg, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, usage)
			os.Exit(2)
		}
		if !errors.Is(err, errInvalidForm) {
			logger.Error(err)
		}
		os.Exit(1)
	}
}
