package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bastiangx/nlpserve/internal/utils"
	"github.com/bastiangx/nlpserve/pkg/dictionary"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var dictCmd = &cobra.Command{
	Use:   "dict",
	Short: "Inspect and convert dictionary files",
}

var dictConvertCmd = &cobra.Command{
	Use:   "convert <in> <out>",
	Short: "Convert a dictionary between the text and binary layouts",
	Long: `Read a text (.txt, .dict) or binary (.bin) dictionary and write it in the layout
picked by the output extension. Binary output ranks words by frequency and drops tags.`,
	Args: cobra.ExactArgs(2),
	RunE: runDictConvert,
}

var dictInfoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Print the format and size of a dictionary file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d := dictionary.New(1)
		n, err := d.LoadFile(args[0])
		if err != nil {
			return err
		}
		format, _ := dictionary.DetectFileFormat(args[0])
		info, _ := dictionary.GetFormatInfo(format)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "file:    %s\n", utils.GetAbsolutePath(args[0]))
		fmt.Fprintf(out, "format:  %s %v\n", info.Description, info.Extensions)
		fmt.Fprintf(out, "bytes:   %d\n", utils.FileSize(args[0]))
		fmt.Fprintf(out, "entries: %d (%d distinct)\n", n, d.Len())
		fmt.Fprintf(out, "longest: %d runes\n", d.MaxWordLen())
		return nil
	},
}

func init() {
	dictCmd.AddCommand(dictConvertCmd, dictInfoCmd)
	rootCmd.AddCommand(dictCmd)
}

func runDictConvert(cmd *cobra.Command, args []string) error {
	in, out := args[0], args[1]
	ext := strings.ToLower(filepath.Ext(out))
	if ext != ".bin" && ext != ".txt" && ext != ".dict" {
		return fmt.Errorf("unsupported output extension %q", filepath.Ext(out))
	}
	d := dictionary.New(1)
	n, err := d.LoadFile(in)
	if err != nil {
		return err
	}

	if err := utils.EnsureDir(filepath.Dir(out)); err != nil {
		return err
	}
	file, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", out, err)
	}
	defer file.Close()

	words := d.RankedWords()
	if ext == ".bin" {
		err = dictionary.WriteBinary(file, words)
	} else {
		err = d.WriteText(file, words)
	}
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	log.Debugf("Read %d entries from %s", n, in)
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d words to %s\n", len(words), out)
	return nil
}
