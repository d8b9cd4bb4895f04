// Command linegen is the synthetic input generator collaborator of
// spec §6/§9: it fabricates a file of "N. W1 W2 … Wk" lines for
// exercising and benchmarking linesort. It shares no dependency with
// internal/orchestrator.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/pflag"

	"linesort/internal/linegen"
	"linesort/internal/logx"
)

func main() {
	logx.Init()

	fs := pflag.NewFlagSet("linegen", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true

	defaults := linegen.DefaultConfig()
	output := fs.StringP("output", "o", "", "output file path (required)")
	lineCount := fs.IntP("line-count", "n", defaults.LineCount, "number of lines to emit")
	maxNumber := fs.Int("max-number", defaults.MaxLineNumber, "exclusive upper bound for each line's leading number")
	maxWords := fs.Int("max-words", defaults.MaxWordsPerLine, "exclusive upper bound for each line's word count")

	if err := fs.Parse(os.Args[1:]); err != nil {
		fmt.Println("linegen:", err)
		return
	}

	if *output == "" {
		fmt.Println("linegen: -o (output file path) is required")
		return
	}

	out, err := homedir.Expand(*output)
	if err != nil {
		fmt.Println("linegen: expanding output path:", err)
		return
	}

	cfg := linegen.Config{
		LineCount:       *lineCount,
		MaxLineNumber:   *maxNumber,
		MaxWordsPerLine: *maxWords,
		QueueDepth:      defaults.QueueDepth,
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	if err := linegen.Generate(out, cfg, rng); err != nil {
		fmt.Println("linegen:", err)
		return
	}
}
