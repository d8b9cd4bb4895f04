// Package linegen implements the input generator collaborator referenced
// by spec §6: a bounded single-producer/single-consumer channel pair
// that fabricates `N. W1 W2 … Wk` lines for exercising the sorter. It is
// plumbing for testing and benchmarking, not part of the sorter's
// correctness surface — it carries no dependency on internal/orchestrator.
package linegen

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// wordBank is the fixed nine-element bank referenced by spec §6. All
// nine words are eligible for selection, resolving §9's word-bank
// off-by-one question in favor of inclusion.
var wordBank = [9]string{
	"One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
}

// Config bounds a single generation run.
type Config struct {
	// LineCount is the exact number of lines Generate emits.
	LineCount int
	// MaxLineNumber bounds each line's leading N, drawn from [0, MaxLineNumber).
	MaxLineNumber int
	// MaxWordsPerLine bounds each line's word count, drawn from [1, MaxWordsPerLine).
	MaxWordsPerLine int
	// QueueDepth is the bounded channel capacity between the generator
	// goroutine and the writer goroutine.
	QueueDepth int
}

// DefaultConfig mirrors the sizes cmd/linegen falls back to when its
// flags are not given.
func DefaultConfig() Config {
	return Config{
		LineCount:       10000,
		MaxLineNumber:   1000000,
		MaxWordsPerLine: 6,
		QueueDepth:      64,
	}
}

// Generate writes exactly cfg.LineCount lines to path, per §9's
// prescribed resolution of the generator's off-by-one question. The
// generator goroutine produces lines onto a bounded channel of capacity
// cfg.QueueDepth; a single writer goroutine drains it and streams each
// line to the file. The generator blocks (backpressure) whenever the
// channel is full, matching §9's "bounded channel, blocking when full."
func Generate(path string, cfg Config, rng *rand.Rand) error {
	if cfg.LineCount < 0 {
		return errors.New("linegen: LineCount must be non-negative")
	}
	if cfg.MaxLineNumber < 1 {
		cfg.MaxLineNumber = 1
	}
	if cfg.MaxWordsPerLine < 2 {
		cfg.MaxWordsPerLine = 2
	}
	if cfg.QueueDepth < 1 {
		cfg.QueueDepth = 1
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "linegen: create %s", path)
	}
	defer f.Close()

	w := bufio.NewWriterSize(f, 256*1024)

	lines := make(chan string, cfg.QueueDepth)
	done := make(chan error, 1)

	go func() {
		var writeErr error
		for line := range lines {
			if writeErr != nil {
				continue // drain the channel so the producer never blocks forever
			}
			if _, err := w.WriteString(line); err != nil {
				writeErr = err
				continue
			}
			if err := w.WriteByte('\n'); err != nil {
				writeErr = err
			}
		}
		if writeErr == nil {
			writeErr = w.Flush()
		}
		done <- writeErr
	}()

	for i := 0; i < cfg.LineCount; i++ {
		lines <- line(rng, cfg)
	}
	close(lines)

	if werr := <-done; werr != nil {
		return errors.Wrapf(werr, "linegen: write %s", path)
	}
	return nil
}

// line fabricates one "N. W1 W2 … Wk" line.
func line(rng *rand.Rand, cfg Config) string {
	n := rng.Intn(cfg.MaxLineNumber)
	k := 1 + rng.Intn(cfg.MaxWordsPerLine-1)

	words := make([]string, k)
	for i := 0; i < k; i++ {
		words[i] = wordBank[rng.Intn(len(wordBank))]
	}

	return fmt.Sprintf("%d. %s", n, strings.Join(words, " "))
}
