package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/wbrown/tracescore"
)

var renderOpts struct {
	Character string
	Size      int
	Output    string
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the reference glyph for a character as PNG",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		fontData, err := loadFontData()
		if err != nil {
			return err
		}
		png, err := tracescore.RenderReference(renderOpts.Character, fontData, renderOpts.Size)
		if err != nil {
			return err
		}
		if err := os.WriteFile(renderOpts.Output, png, 0644); err != nil {
			return fmt.Errorf("failed to write reference: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Reference written to %s\n", renderOpts.Output)
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVarP(&renderOpts.Character, "char", "c", "", "Character to render")
	renderCmd.Flags().IntVarP(&renderOpts.Size, "size", "s", tracescore.ReferenceSize, "Output width and height in pixels")
	renderCmd.Flags().StringVarP(&renderOpts.Output, "output", "o", "", "Output PNG path")
	_ = renderCmd.MarkFlagRequired("char")
	_ = renderCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(renderCmd)
}
