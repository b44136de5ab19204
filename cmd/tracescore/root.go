package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang/freetype/truetype"
	"github.com/spf13/cobra"
	"github.com/wbrown/tracescore"
	"golang.org/x/image/font/gofont/goregular"
)

// Version is the application version.
const Version = "0.1.0"

var (
	// fontPath is the TTF file references are rendered from. Empty means
	// the embedded Go Regular font.
	fontPath string
	verbose  bool
)

var rootCmd = &cobra.Command{
	Use:     "tracescore",
	Short:   "Score freehand character drawings against font glyphs",
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		tracescore.SetLogger(slog.New(slog.NewTextHandler(os.Stderr,
			&slog.HandlerOptions{Level: level})))
	},
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&fontPath, "font", "",
		"Path to a TrueType font for reference glyphs (default: embedded Go Regular)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")
}

// loadFontData returns the bytes of the configured font.
func loadFontData() ([]byte, error) {
	if fontPath == "" {
		return goregular.TTF, nil
	}
	data, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read font: %w", err)
	}
	return data, nil
}

// loadFont reads and parses the configured font.
func loadFont() (*truetype.Font, error) {
	data, err := loadFontData()
	if err != nil {
		return nil, err
	}
	return tracescore.ParseFont(data)
}
