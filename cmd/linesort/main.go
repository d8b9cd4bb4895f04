// Command linesort is the orchestrator binary of spec §6: it parses
// -i/-o/-s, validates them, and drives internal/orchestrator.Sort.
//
// Flag handling and diagnostics follow
// shenwei356-unikmer/unikmer/cmd/sort.go's shape, reduced to a single
// flat flag set since this tool has no subcommands.
package main

import (
	"fmt"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/pflag"

	"linesort/internal/logx"
	"linesort/internal/orchestrator"
)

func main() {
	logx.Init()

	fs := pflag.NewFlagSet("linesort", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true

	input := fs.StringP("input", "i", "", "input file path (required)")
	output := fs.StringP("output", "o", "", "output file path (default <input-stem>-sorted<ext>)")
	chunkSize := fs.IntP("chunk-size", "s", orchestrator.DefaultChunkSize, "chunk size in lines")

	if err := fs.Parse(os.Args[1:]); err != nil {
		fmt.Println("linesort:", err)
		return
	}

	if *input == "" {
		fmt.Println("linesort: -i (input file path) is required")
		return
	}

	in, err := homedir.Expand(*input)
	if err != nil {
		fmt.Println("linesort: expanding input path:", err)
		return
	}

	out := *output
	if out != "" {
		out, err = homedir.Expand(out)
		if err != nil {
			fmt.Println("linesort: expanding output path:", err)
			return
		}
	}

	if err := orchestrator.Sort(in, out, *chunkSize); err != nil {
		fmt.Println("linesort:", err)
		return
	}
}
