// Package orchestrator implements spec §4.5: the single public Sort
// entry point that validates its arguments, then drives the Partitioner
// and Merger, and once validation has passed always runs the Janitor
// before returning.
//
// Grounded on KWayMerger/app/App.go's Run as the one coordinating
// function a caller invokes; unlike Run, Sort owns a cleanup phase,
// since this spec's temp files (unlike App.Run's permanent inputs) are
// scratch state that must not outlive a single call.
package orchestrator

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"linesort/internal/janitor"
	"linesort/internal/logx"
	"linesort/internal/merger"
	"linesort/internal/partitioner"
)

// DefaultChunkSize is used when a caller passes a non-positive chunk size.
const DefaultChunkSize = 1000

// Sort reads inputPath, sorts its lines by the composite key of
// internal/record, and writes the result to outputPath. If outputPath
// is empty, a default of "<stem>-sorted<ext>" is synthesized in
// inputPath's directory. Sort refuses to overwrite a pre-existing
// output file. chunkSize bounds the Partitioner's in-memory buffer; a
// non-positive value falls back to DefaultChunkSize.
//
// Once validation has passed, the Janitor always runs before Sort
// returns, whether or not an error occurred, per §4.5/§7's propagation
// policy. A validation error returns before any temp file is created, so
// the Janitor is not invoked on that path.
func Sort(inputPath, outputPath string, chunkSize int) error {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	if inputPath == "" {
		err := errors.New("orchestrator: input path is required")
		logx.Log().Error(err)
		return err
	}

	info, err := os.Stat(inputPath)
	if err != nil {
		wrapped := errors.Wrapf(err, "orchestrator: input file %s", inputPath)
		logx.Log().Error(wrapped)
		return wrapped
	}
	if info.IsDir() {
		err := errors.Errorf("orchestrator: input path %s is a directory", inputPath)
		logx.Log().Error(err)
		return err
	}

	if outputPath == "" {
		outputPath = defaultOutputPath(inputPath)
	}
	if _, err := os.Stat(outputPath); err == nil {
		err := errors.Errorf("orchestrator: output file %s already exists, refusing to overwrite", outputPath)
		logx.Log().Error(err)
		return err
	} else if !os.IsNotExist(err) {
		wrapped := errors.Wrapf(err, "orchestrator: checking output path %s", outputPath)
		logx.Log().Error(wrapped)
		return wrapped
	}

	reg := janitor.NewRegistry()
	jan := janitor.New()

	tempDir := filepath.Dir(outputPath)

	result := partitioner.Run(inputPath, chunkSize, tempDir, reg)
	if result.Err != nil {
		jan.Cleanup(reg)
		return errors.Wrap(result.Err, "orchestrator: partitioning failed")
	}

	if len(result.Paths) == 0 {
		// Empty input: no runs to merge, no output file produced (§4.2).
		jan.Cleanup(reg)
		return nil
	}

	if merr := merger.Run(result.Paths, outputPath, reg); merr != nil {
		jan.Cleanup(reg)
		return errors.Wrap(merr, "orchestrator: merging failed")
	}

	jan.Cleanup(reg)
	return nil
}

// defaultOutputPath synthesizes "<stem>-sorted<ext>" in inputPath's
// directory, per §4.5.
func defaultOutputPath(inputPath string) string {
	dir := filepath.Dir(inputPath)
	base := filepath.Base(inputPath)
	ext := filepath.Ext(base)
	stem := base[:len(base)-len(ext)]
	return filepath.Join(dir, stem+"-sorted"+ext)
}
