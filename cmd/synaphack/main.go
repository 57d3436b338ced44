package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/SohamKamathi18/synaphack/internal/app"
	"github.com/SohamKamathi18/synaphack/internal/browser"
	"github.com/SohamKamathi18/synaphack/internal/logger"
	"github.com/SohamKamathi18/synaphack/pkg/hackapi"
	"github.com/SohamKamathi18/synaphack/web"
)

// ANSI escape codes
const (
	reset  = "\033[0m"
	yellow = "\033[33m"
	red    = "\033[31m"
	green  = "\033[32m"
	cyan   = "\033[36m"
	bold   = "\033[1m"
)

var releaseVersion = "dev"

// showBanner prints the console logo
func showBanner() {
	logo := []string{
		`  ____                          _   _            _    `,
		` / ___| _   _ _ __   __ _ _ __ | | | | __ _  ___| | __`,
		` \___ \| | | | '_ \ / _' | '_ \| |_| |/ _' |/ __| |/ /`,
		`  ___) | |_| | | | | (_| | |_) |  _  | (_| | (__|   < `,
		` |____/ \__, |_| |_|\__,_| .__/|_| |_|\__,_|\___|_|\_\`,
		`        |___/            |_|                          `,
	}
	fmt.Println()
	for _, line := range logo {
		fmt.Printf("  %s%s%s\n", cyan, line, reset)
	}
	fmt.Println()
}

// cycleLogLevel cycles through debug -> info -> warn -> error
func cycleLogLevel(appLog *logger.SlogLogger) {
	var next string
	switch appLog.GetLevel().String() {
	case "DEBUG":
		next = "info"
	case "INFO":
		next = "warn"
	case "WARN":
		next = "error"
	default:
		next = "debug"
	}

	appLog.SetLevel(logger.ParseLevel(next))
	fmt.Printf("%sLog level: %s%s%s\n", green, yellow, next, reset)
}

// printKeyboardHelp displays all available keyboard shortcuts
func printKeyboardHelp() {
	fmt.Printf("\n%s%s  Keyboard Shortcuts:%s\n", bold, green, reset)
	fmt.Printf("    %sc%s      - Open console in browser\n", cyan, reset)
	fmt.Printf("    %sh%s      - Toggle HTTP request logging\n", cyan, reset)
	fmt.Printf("    %sl%s      - Cycle log level (debug, info, warn, error)\n", cyan, reset)
	fmt.Printf("    %sq%s      - Quit server\n", cyan, reset)
	fmt.Printf("    %s?%s      - Show this help\n\n", cyan, reset)
}

func run(cfg *Config) error {
	showBanner()

	appLog := logger.NewWithLevel(logger.ParseLevel(cfg.logLevel))

	client := hackapi.NewHTTPClient(cfg.backend, appLog)

	a, err := app.New(appLog, cfg.db, client, web.TemplatesFS(), web.StaticFS())
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer a.Close()

	addr := fmt.Sprintf(":%d", cfg.port)
	appLog.Info("Backend", "url", cfg.backend)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- a.Run(addr)
	}()

	// Give the listener a moment before pointing a browser at it
	time.Sleep(100 * time.Millisecond)

	consoleURL := fmt.Sprintf("http://localhost:%d/", cfg.port)

	if !cfg.noBrowser {
		if err := browser.Open(consoleURL); err != nil {
			appLog.Warn("failed to open browser", "error", err)
		}
	}

	if !cfg.noKeyboard {
		printKeyboardHelp()
		go listenForKeyboard(consoleURL, appLog)
	}

	return <-serverErr
}

func main() {
	cfg := &Config{}
	cobra.CheckErr(newCmd(cfg).Execute())
}
