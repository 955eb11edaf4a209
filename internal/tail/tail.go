// Package tail reads newline-delimited records from a stream or a file,
// optionally following the file as it grows.
package tail

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/hecship/pkg/log"
)

// DefaultPollInterval is how often a followed file is re-read when no
// filesystem event arrives.
const DefaultPollInterval = time.Second

// maxLineBytes bounds a single record read from a stream.
const maxLineBytes = 4 << 20

// LineFunc receives one record without its line terminator. The slice is
// owned by the callee. Returning an error stops reading.
type LineFunc func(line []byte) error

// ReadLines calls fn for every non-blank line of r until EOF, ctx is done or
// fn fails. A final line without a terminator is still delivered.
func ReadLines(ctx context.Context, r io.Reader, fn LineFunc) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := bytes.TrimRight(sc.Bytes(), "\r")
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		if err := fn(append([]byte(nil), line...)); err != nil {
			return err
		}
	}
	return sc.Err()
}

// Options configures a Follower.
type Options struct {
	// Follow keeps reading appended lines until the context is done
	Follow bool

	// PollInterval re-reads the file when no event arrives. Default: 1s
	PollInterval time.Duration

	Logger log.Logger
}

// Follower reads lines from a file, like tail -f when Follow is set.
type Follower struct {
	path   string
	opts   Options
	logger log.Logger
}

// NewFollower creates a Follower for path.
func NewFollower(path string, opts Options) *Follower {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Follower{
		path:   path,
		opts:   opts,
		logger: log.With(logger, log.String("file", path)),
	}
}

// Run delivers every non-blank line of the file to fn.
//
// Without Follow it returns at EOF. With Follow it waits for writes and
// returns nil when ctx is done or the file is removed or renamed. A file
// that shrinks is treated as truncated and read again from the start.
func (f *Follower) Run(ctx context.Context, fn LineFunc) error {
	file, err := os.Open(f.path)
	if err != nil {
		return fmt.Errorf("open %s: %w", f.path, err)
	}
	defer file.Close()

	r := &lineReader{file: file, rd: bufio.NewReaderSize(file, 64*1024), fn: fn}
	if err := r.readAvailable(); err != nil {
		return err
	}
	if !f.opts.Follow {
		return r.flushPartial()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(f.path); err != nil {
		return fmt.Errorf("watch %s: %w", f.path, err)
	}

	ticker := time.NewTicker(f.opts.PollInterval)
	defer ticker.Stop()

	f.logger.Info("following file")
	for {
		select {
		case <-ctx.Done():
			return r.flushPartial()

		case ev, ok := <-watcher.Events:
			if !ok {
				return r.flushPartial()
			}
			if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				f.logger.Warn("followed file went away", log.String("op", ev.Op.String()))
				if err := r.readAvailable(); err != nil {
					return err
				}
				return r.flushPartial()
			}
			if ev.Has(fsnotify.Write) {
				if err := f.poll(r); err != nil {
					return err
				}
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return r.flushPartial()
			}
			f.logger.Warn("watcher error", log.Err(err))

		case <-ticker.C:
			if err := f.poll(r); err != nil {
				return err
			}
		}
	}
}

func (f *Follower) poll(r *lineReader) error {
	truncated, err := r.checkTruncated()
	if err != nil {
		return err
	}
	if truncated {
		f.logger.Warn("file truncated, reading from start")
	}
	return r.readAvailable()
}

// lineReader tracks the read offset and an unterminated tail of the file.
type lineReader struct {
	file    *os.File
	rd      *bufio.Reader
	fn      LineFunc
	offset  int64
	partial []byte
}

// readAvailable delivers every complete line currently in the file.
func (r *lineReader) readAvailable() error {
	for {
		chunk, err := r.rd.ReadBytes('\n')
		r.offset += int64(len(chunk))
		r.partial = append(r.partial, chunk...)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := r.emit(); err != nil {
			return err
		}
	}
}

// flushPartial delivers a trailing line that has no terminator.
func (r *lineReader) flushPartial() error {
	if len(r.partial) == 0 {
		return nil
	}
	return r.emit()
}

func (r *lineReader) emit() error {
	line := bytes.TrimRight(r.partial, "\r\n")
	r.partial = nil
	if len(bytes.TrimSpace(line)) == 0 {
		return nil
	}
	return r.fn(line)
}

// checkTruncated rewinds to the start when the file is shorter than the offset.
func (r *lineReader) checkTruncated() (bool, error) {
	fi, err := r.file.Stat()
	if err != nil {
		return false, err
	}
	if fi.Size() >= r.offset {
		return false, nil
	}
	if _, err := r.file.Seek(0, io.SeekStart); err != nil {
		return false, err
	}
	r.rd.Reset(r.file)
	r.offset = 0
	r.partial = nil
	return true, nil
}
