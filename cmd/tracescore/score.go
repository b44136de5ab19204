package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/wbrown/tracescore"
	"github.com/wbrown/tracescore/imageutil"
)

var scoreOpts struct {
	Character string
	JSON      bool
	Reference string
	DebugDir  string
}

var scoreCmd = &cobra.Command{
	Use:   "score <drawing>",
	Short: "Score a drawing of a character",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return runScore(args[0])
	},
}

func init() {
	scoreCmd.Flags().StringVarP(&scoreOpts.Character, "char", "c", "", "Character the drawing should show")
	scoreCmd.Flags().BoolVar(&scoreOpts.JSON, "json", false, "Print the result as JSON")
	scoreCmd.Flags().StringVar(&scoreOpts.Reference, "reference", "", "Write the reference glyph PNG to this path")
	scoreCmd.Flags().StringVar(&scoreOpts.DebugDir, "debug-dir", "", "Write the normalized stroke masks to this directory")
	_ = scoreCmd.MarkFlagRequired("char")
	rootCmd.AddCommand(scoreCmd)
}

func runScore(drawingPath string) error {
	drawing, err := os.ReadFile(drawingPath)
	if err != nil {
		return fmt.Errorf("failed to read drawing: %w", err)
	}
	fontData, err := loadFontData()
	if err != nil {
		return err
	}

	result, err := tracescore.Score(drawing, scoreOpts.Character, fontData)
	if err != nil {
		return err
	}

	if scoreOpts.Reference != "" {
		if err := os.WriteFile(scoreOpts.Reference, result.Reference, 0644); err != nil {
			return fmt.Errorf("failed to write reference: %w", err)
		}
	}
	if scoreOpts.DebugDir != "" {
		if err := writeDebugMasks(drawing, fontData); err != nil {
			return err
		}
	}

	if scoreOpts.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	printResult(drawingPath, result)
	return nil
}

func printResult(name string, r *tracescore.Result) {
	fmt.Printf("%s: %d%% %s %s\n", name, r.Score, stars(r.Stars), r.Feedback)
	fmt.Printf("  coverage:   %3.0f%%\n", r.Coverage)
	fmt.Printf("  accuracy:   %3.0f%%\n", r.Accuracy)
	fmt.Printf("  similarity: %3.0f%%\n", r.Similarity)
}

func stars(n uint8) string {
	return strings.Repeat("*", int(n)) + strings.Repeat(".", 5-int(n))
}

// writeDebugMasks saves the intermediate images the metrics are
// computed from.
func writeDebugMasks(drawing, fontData []byte) error {
	if err := os.MkdirAll(scoreOpts.DebugDir, 0755); err != nil {
		return fmt.Errorf("failed to create debug dir: %w", err)
	}
	r, err := tracescore.FirstRune(scoreOpts.Character)
	if err != nil {
		return err
	}
	img, _, err := imageutil.Decode(drawing)
	if err != nil {
		return err
	}
	f, err := tracescore.ParseFont(fontData)
	if err != nil {
		return err
	}

	for name, out := range tracescore.DebugImages(img, r, f).Images() {
		if err := imageutil.SavePNG(out.Gray, filepath.Join(scoreOpts.DebugDir, name+".png")); err != nil {
			return err
		}
	}
	return nil
}
