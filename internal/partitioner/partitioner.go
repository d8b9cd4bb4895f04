// Package partitioner implements spec §4.1: stream an input file,
// slice it into bounded in-memory chunks, sort and spill each chunk to
// its own temp file concurrently, and return the resulting sorted-run
// paths.
//
// The concurrency shape — a semaphore-bounded sync.WaitGroup with a
// mutex-guarded error — is the one
// H-Shen-MyCodeCollection/Miscellaneous/KWayMerger/app/App.go's Run uses
// to sort many whole files in parallel; here it is reapplied per chunk
// of a single input stream, and every failing chunk task's error is
// collected into one multierror instead of keeping only the first. The chunk buffer/spill shape (bounded
// slice, sort, one fresh temp file per flush) is
// csvquery/internal/indexer/sorter.go's flushChunk, generalized from
// fixed-width binary records to text lines.
package partitioner

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"linesort/internal/janitor"
	"linesort/internal/logx"
	"linesort/internal/record"
)

// readerBufSize and writerBufSize mirror csvquery's pooled 64KB
// read-ahead / 256KB write-behind buffers.
const (
	readerBufSize = 64 * 1024
	writerBufSize = 256 * 1024
)

// Result is the outcome of Run: the sorted-run paths produced (in
// completion order — ordering between runs does not matter, the Merger
// treats them as a bag) and any error surfaced after awaiting every
// dispatched chunk task.
type Result struct {
	Paths []string
	Err   error
}

// Run streams path, slicing it into chunkSize-line buffers, and
// dispatches one goroutine per filled buffer to sort it with the
// composite key of internal/record and spill it to a fresh temp file in
// tempDir. Every successfully written temp path is tracked in reg before
// Run returns, so the Janitor can always find it; a chunk task that
// fails removes its own partial temp file and tracks nothing.
//
// A blank line ends the current chunk early, per spec §4.1. Empty input
// yields an empty Result with no error.
func Run(path string, chunkSize int, tempDir string, reg *janitor.Registry) Result {
	if chunkSize < 1 {
		chunkSize = 1
	}

	f, err := os.Open(path)
	if err != nil {
		return Result{Err: errors.Wrapf(err, "partitioner: open %s", path)}
	}
	defer f.Close()

	reader := bufio.NewReaderSize(f, readerBufSize)

	concurrency := runtime.NumCPU()
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var errs *multierror.Error
	var chunkIndex int64
	paths := make([]string, 0)

	dispatch := func(buf []record.Line) {
		sem <- struct{}{}
		wg.Add(1)
		idx := atomic.AddInt64(&chunkIndex, 1) - 1
		go func(buf []record.Line, idx int64) {
			defer wg.Done()
			defer func() { <-sem }()

			chunkPath, werr := sortAndWrite(buf, idx, tempDir)
			mu.Lock()
			defer mu.Unlock()
			if werr != nil {
				errs = multierror.Append(errs, werr)
				return
			}
			reg.Track(chunkPath)
			paths = append(paths, chunkPath)
		}(buf, idx)
	}

	var eof bool
	for !eof {
		buf := make([]record.Line, 0, chunkSize)
		for len(buf) < chunkSize {
			line, rerr := readLine(reader)
			if rerr != nil {
				eof = true
				break
			}
			if line == "" {
				// Blank line ends the current chunk early (spec §4.1).
				break
			}
			buf = append(buf, record.Parse(line))
		}
		if len(buf) > 0 {
			dispatch(buf)
		}
	}

	wg.Wait()

	if err := errs.ErrorOrNil(); err != nil {
		return Result{Paths: paths, Err: errors.Wrap(err, "partitioner: one or more chunk tasks failed")}
	}
	return Result{Paths: paths}
}

// readLine reads one line, stripping its trailing terminator. It
// returns an error (io.EOF or otherwise) once nothing more can be read,
// matching bufio.Scanner's ScanLines semantics without pulling in the
// Scanner's 64KB token-size ceiling.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if len(line) > 0 {
		if line[len(line)-1] == '\n' {
			line = line[:len(line)-1]
		}
		if len(line) > 0 && line[len(line)-1] == '\r' {
			line = line[:len(line)-1]
		}
		return line, nil
	}
	return "", err
}

// sortAndWrite sorts buf in place with the composite comparator and
// writes it to a fresh temp file in tempDir, returning that file's path.
// On any failure it deletes its own partial temp file before
// propagating, per spec §4.1's chunk-task failure mode.
func sortAndWrite(buf []record.Line, idx int64, tempDir string) (string, error) {
	sort.Slice(buf, func(i, j int) bool {
		return record.Less(buf[i], buf[j])
	})

	chunkPath := filepath.Join(tempDir, fmt.Sprintf("linesort-chunk-%d-%d.tmp", os.Getpid(), idx))
	f, err := os.Create(chunkPath)
	if err != nil {
		return "", errors.Wrapf(err, "partitioner: create chunk file %s", chunkPath)
	}

	w := bufio.NewWriterSize(f, writerBufSize)
	for _, line := range buf {
		if _, werr := w.WriteString(line.String()); werr != nil {
			err = werr
			break
		}
		if werr := w.WriteByte('\n'); werr != nil {
			err = werr
			break
		}
	}
	if err == nil {
		err = w.Flush()
	}
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}

	if err != nil {
		os.Remove(chunkPath)
		logx.Log().Errorf("partitioner: chunk %d failed, removed %s: %v", idx, chunkPath, err)
		return "", errors.Wrapf(err, "partitioner: write chunk file %s", chunkPath)
	}

	if size, statErr := fileSize(chunkPath); statErr == nil {
		logx.Log().Debugf("partitioner: chunk %d sorted, %s lines, %s", idx, humanize.Comma(int64(len(buf))), humanize.Bytes(uint64(size)))
	}
	return chunkPath, nil
}

func fileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
