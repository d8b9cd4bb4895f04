// Package merger implements spec §4.2: repeatedly merge pairs of sorted
// runs into larger sorted runs, concurrently, across waves, until one
// file remains; that file becomes the final output.
//
// Pairwise waves are chosen over a single k-way heap merge precisely
// because a k-way merge serializes on one writer — the reason spec §4.2
// gives, and the reason
// H-Shen-MyCodeCollection/Miscellaneous/KWayMerger/heap/Heap.go's
// min-heap k-way merge (and csvquery/internal/indexer/sorter.go's
// kWayMerge, which does the same thing with a manual heap) is not
// reused here. What *is* reused from KWayMerger/app/App.go's Run is the
// semaphore-bounded sync.WaitGroup fan-out shape, applied once per wave
// instead of once for the whole job.
package merger

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"linesort/internal/janitor"
	"linesort/internal/record"
)

const (
	readerBufSize = 64 * 1024
	writerBufSize = 256 * 1024
)

// pairResult is what a single merge_pair task (or a pass-through
// wrapping an unpaired leftover) reports back to the wave barrier.
type pairResult struct {
	path string
	err  error
}

// Run performs the pairwise wave merge of spec §4.2. runPaths must all
// be distinct sorted runs. If runPaths is empty, Run produces no output
// file and returns no error. On success, the single surviving run is
// renamed to outputPath. Every temp path Run ever touches — both inputs
// and intermediate merge outputs — is tracked in reg before Run
// returns, so the Janitor can always find it, success or failure.
func Run(runPaths []string, outputPath string, reg *janitor.Registry) error {
	if len(runPaths) == 0 {
		return nil
	}

	queue := append([]string(nil), runPaths...)
	concurrency := runtime.NumCPU()
	wave := 0

	for len(queue) > 0 {
		wave++
		sem := make(chan struct{}, concurrency)
		var wg sync.WaitGroup
		var mu sync.Mutex
		var results []pairResult
		dispatched := 0

		for len(queue) >= 2 {
			a, b := queue[0], queue[1]
			queue = queue[2:]
			dispatched++
			reg.Track(a)
			reg.Track(b)

			sem <- struct{}{}
			wg.Add(1)
			go func(a, b string, slot int) {
				defer wg.Done()
				defer func() { <-sem }()

				out, err := mergePair(a, b, wave, slot)
				mu.Lock()
				defer mu.Unlock()
				results = append(results, pairResult{path: out, err: err})
			}(a, b, dispatched)
		}

		if len(queue) == 1 {
			x := queue[0]
			queue = queue[:0]
			if dispatched == 0 {
				// No merges this wave: exactly one run remains overall.
				// Terminal case — rename straight to the output path.
				wg.Wait()
				if err := os.Rename(x, outputPath); err != nil {
					return errors.Wrapf(err, "merger: rename %s to %s", x, outputPath)
				}
				reg.Untrack(x)
				return nil
			}
			// Pass x through as an already-completed task so the next
			// wave can pair it with this wave's merge output.
			mu.Lock()
			results = append(results, pairResult{path: x})
			mu.Unlock()
		}

		wg.Wait()

		var errs *multierror.Error
		nextQueue := make([]string, 0, len(results))
		for _, r := range results {
			if r.err != nil {
				errs = multierror.Append(errs, r.err)
				if r.path != "" {
					// Partial merge output; left for the Janitor per
					// spec §4.2's failure mode (not deleted here).
					reg.Track(r.path)
				}
				continue
			}
			reg.Track(r.path)
			nextQueue = append(nextQueue, r.path)
		}

		if err := errs.ErrorOrNil(); err != nil {
			return errors.Wrap(err, "merger: one or more pair-merge tasks failed")
		}

		queue = nextQueue
	}

	return nil
}

// mergePair merges two sorted runs into a fresh temp file using a
// two-pointer scan: no heap is needed for two inputs. Any I/O error
// aborts the merge and propagates; the partial output file is left in
// place for the Janitor, per spec §4.2's failure mode.
func mergePair(a, b string, wave, slot int) (string, error) {
	fa, err := os.Open(a)
	if err != nil {
		return "", errors.Wrapf(err, "merger: open %s", a)
	}
	defer fa.Close()
	fb, err := os.Open(b)
	if err != nil {
		return "", errors.Wrapf(err, "merger: open %s", b)
	}
	defer fb.Close()

	ra := bufio.NewReaderSize(fa, readerBufSize)
	rb := bufio.NewReaderSize(fb, readerBufSize)

	outPath := filepath.Join(filepath.Dir(a), fmt.Sprintf("linesort-merge-%d-%d-%d.tmp", os.Getpid(), wave, slot))
	out, err := os.Create(outPath)
	if err != nil {
		return "", errors.Wrapf(err, "merger: create %s", outPath)
	}
	w := bufio.NewWriterSize(out, writerBufSize)

	la, aOK, err := nextLine(ra)
	if err != nil {
		out.Close()
		return outPath, errors.Wrapf(err, "merger: read %s", a)
	}
	lb, bOK, err := nextLine(rb)
	if err != nil {
		out.Close()
		return outPath, errors.Wrapf(err, "merger: read %s", b)
	}

	writeErr := func() error {
		for aOK && bOK {
			var line record.Line
			if record.Less(la, lb) || record.Compare(la, lb) == 0 {
				line = la
				aOK, la, err = advance(ra)
			} else {
				line = lb
				bOK, lb, err = advance(rb)
			}
			if werr := writeLine(w, line); werr != nil {
				return werr
			}
			if err != nil {
				return err
			}
		}
		for aOK {
			if werr := writeLine(w, la); werr != nil {
				return werr
			}
			aOK, la, err = advance(ra)
			if err != nil {
				return err
			}
		}
		for bOK {
			if werr := writeLine(w, lb); werr != nil {
				return werr
			}
			bOK, lb, err = advance(rb)
			if err != nil {
				return err
			}
		}
		return nil
	}()

	if writeErr == nil {
		writeErr = w.Flush()
	}
	closeErr := out.Close()
	if writeErr == nil {
		writeErr = closeErr
	}

	if writeErr != nil {
		return outPath, errors.Wrapf(writeErr, "merger: merge %s + %s", a, b)
	}
	return outPath, nil
}

// nextLine reads and parses one line. ok is false once the stream is
// cleanly exhausted; err is non-nil only for a genuine I/O failure. A
// final line with no trailing newline still counts as ok (io.EOF is
// swallowed once content was returned).
func nextLine(r *bufio.Reader) (record.Line, bool, error) {
	s, err := r.ReadString('\n')
	if len(s) == 0 {
		if err == io.EOF {
			return record.Line{}, false, nil
		}
		return record.Line{}, false, err
	}
	return record.Parse(trimTerminator(s)), true, nil
}

// advance is nextLine reused after the first read, kept distinct only
// for readability at call sites above.
func advance(r *bufio.Reader) (bool, record.Line, error) {
	l, ok, err := nextLine(r)
	return ok, l, err
}

func trimTerminator(s string) string {
	if n := len(s); n > 0 && s[n-1] == '\n' {
		s = s[:n-1]
	}
	if n := len(s); n > 0 && s[n-1] == '\r' {
		s = s[:n-1]
	}
	return s
}

func writeLine(w *bufio.Writer, line record.Line) error {
	if _, err := w.WriteString(line.String()); err != nil {
		return err
	}
	return w.WriteByte('\n')
}
