package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/golang/freetype/truetype"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/wbrown/tracescore"
	"github.com/wbrown/tracescore/imageutil"
)

var batchOpts struct {
	Character string
	Workers   int
}

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Score every drawing in a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return runBatch(cmd.Context(), args[0])
	},
}

func init() {
	batchCmd.Flags().StringVarP(&batchOpts.Character, "char", "c", "", "Character the drawings should show")
	batchCmd.Flags().IntVarP(&batchOpts.Workers, "workers", "w", runtime.NumCPU(), "Number of drawings scored in parallel")
	_ = batchCmd.MarkFlagRequired("char")
	rootCmd.AddCommand(batchCmd)
}

var imageExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".bmp": true, ".tif": true, ".tiff": true, ".webp": true,
}

// batchTask is one drawing to score.
type batchTask struct {
	Index int
	Path  string
}

// batchResult is the outcome for one drawing.
type batchResult struct {
	Path   string
	Result *tracescore.Result
	Err    error
}

func runBatch(ctx context.Context, dir string) error {
	paths, err := listImages(dir)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no images found in %s", dir)
	}

	r, err := tracescore.FirstRune(batchOpts.Character)
	if err != nil {
		return err
	}
	f, err := loadFont()
	if err != nil {
		return err
	}

	workers := max(batchOpts.Workers, 1)
	results := scoreAll(ctx, paths, r, f, workers)
	if err := ctx.Err(); err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FILE\tSCORE\tSTARS\tCOVERAGE\tACCURACY\tSIMILARITY")
	failed := 0
	for _, res := range results {
		name := filepath.Base(res.Path)
		if res.Err != nil {
			failed++
			fmt.Fprintf(w, "%s\terror: %v\t\t\t\t\n", name, res.Err)
			continue
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%.0f%%\t%.0f%%\t%.0f%%\n", name,
			res.Result.Score, stars(res.Result.Stars),
			res.Result.Coverage, res.Result.Accuracy, res.Result.Similarity)
	}
	w.Flush()

	if failed > 0 {
		return fmt.Errorf("%d of %d drawings failed", failed, len(results))
	}
	return nil
}

// scoreAll scores paths on a pool of workers. Results keep the order of
// paths.
func scoreAll(ctx context.Context, paths []string, r rune, f *truetype.Font, workers int) []batchResult {
	bar := progressbar.NewOptions(len(paths),
		progressbar.OptionSetDescription("Scoring"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
	)

	results := make([]batchResult, len(paths))
	tasks := make(chan batchTask, workers)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range tasks {
				res, err := scoreFile(task.Path, r, f)
				results[task.Index] = batchResult{Path: task.Path, Result: res, Err: err}
				bar.Add(1)
			}
		}()
	}

dispatch:
	for i, p := range paths {
		select {
		case <-ctx.Done():
			break dispatch
		case tasks <- batchTask{Index: i, Path: p}:
		}
	}
	close(tasks)
	wg.Wait()

	bar.Finish()
	fmt.Fprintln(os.Stderr)
	return results
}

func scoreFile(path string, r rune, f *truetype.Font) (*tracescore.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	img, _, err := imageutil.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", tracescore.ErrDecode, err)
	}
	return tracescore.ScoreImage(img, r, f)
}

// listImages returns the image files directly inside dir, sorted by name.
func listImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !imageExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
