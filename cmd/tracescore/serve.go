package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang/freetype/truetype"
	"github.com/spf13/cobra"
	"github.com/wbrown/tracescore"
)

var (
	serveAddr    string
	serveFontDir string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the scoring API over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return runServe(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Address to listen on")
	serveCmd.Flags().StringVar(&serveFontDir, "font-dir", "",
		"Directory of .ttf fonts requests may select by file name without extension")
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context) error {
	f, err := loadFont()
	if err != nil {
		return err
	}
	ss := NewScoreServer(f)
	if serveFontDir != "" {
		fonts, err := loadFontDir(serveFontDir)
		if err != nil {
			return err
		}
		for name, font := range fonts {
			ss.AddFont(name, font)
		}
		tracescore.Logger().Info("loaded fonts", "dir", serveFontDir, "count", len(fonts))
	}

	srv := &http.Server{
		Addr:              serveAddr,
		Handler:           ss,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		fmt.Fprintf(os.Stderr, "listening on %s\n", serveAddr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// loadFontDir parses every .ttf file in dir, keyed by file name without
// extension, so Nunito-Regular.ttf is selected as "Nunito-Regular".
func loadFontDir(dir string) (map[string]*truetype.Font, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read font directory: %w", err)
	}
	fonts := make(map[string]*truetype.Font)
	for _, e := range entries {
		ext := filepath.Ext(e.Name())
		if e.IsDir() || strings.ToLower(ext) != ".ttf" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read font: %w", err)
		}
		f, err := tracescore.ParseFont(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Name(), err)
		}
		fonts[strings.TrimSuffix(e.Name(), ext)] = f
	}
	return fonts, nil
}
