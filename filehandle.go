package logforge

import (
	"bufio"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/copperhq/logforge/internal/osfacade"
)

// fileHandle is a buffered, append-mode file with the size query and
// reopen/rotate helpers the rotating sinks need. It is not safe for
// concurrent use; callers serialize access via the owning sink's mutex.
type fileHandle struct {
	filename    string
	fp          *os.File
	writer      *bufio.Writer
	currentSize int64
}

const fileWriterBufSize = 64 * 1024

// openFile opens filename in append mode, creating any missing parent
// directories first. truncate discards any existing content instead of
// appending to it.
func openFile(filename string, truncate bool) (*fileHandle, error) {
	if dir := osfacade.Dirname(filename); dir != "" {
		if err := osfacade.MkdirAll(dir); err != nil {
			return nil, fmt.Errorf("open log file %q: %w", filename, err)
		}
	}

	flags := os.O_WRONLY | os.O_CREATE
	if truncate {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_APPEND
	}

	fp, err := os.OpenFile(filename, flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: open %q: %v", ErrIO, filename, err)
	}

	h := &fileHandle{
		filename: filename,
		fp:       fp,
		writer:   bufio.NewWriterSize(fp, fileWriterBufSize),
	}

	if truncate {
		h.currentSize = 0
	} else if fi, statErr := fp.Stat(); statErr == nil {
		h.currentSize = fi.Size()
	}

	return h, nil
}

// Reopen closes and reopens the handle's own filename, optionally
// truncating it. Used after a rotation has renamed the old file away.
func (h *fileHandle) Reopen(truncate bool) error {
	if h.fp != nil {
		_ = h.writer.Flush()
		_ = h.fp.Close()
	}

	flags := os.O_WRONLY | os.O_CREATE
	if truncate {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_APPEND
	}

	fp, err := os.OpenFile(h.filename, flags, 0o644)
	if err != nil {
		h.fp = nil
		h.writer = nil
		return fmt.Errorf("%w: reopen %q: %v", ErrIO, h.filename, err)
	}

	h.fp = fp
	if h.writer == nil {
		h.writer = bufio.NewWriterSize(fp, fileWriterBufSize)
	} else {
		h.writer.Reset(fp)
	}
	h.currentSize = 0
	return nil
}

// Write appends buf to the file and tracks the resulting size.
func (h *fileHandle) Write(buf []byte) error {
	if h.writer == nil {
		return fmt.Errorf("%w: write to closed file %q", ErrIO, h.filename)
	}
	n, err := h.writer.Write(buf)
	h.currentSize += int64(n)
	if err != nil {
		return fmt.Errorf("%w: write %q: %v", ErrIO, h.filename, err)
	}
	return nil
}

// Flush pushes buffered bytes to the OS.
func (h *fileHandle) Flush() error {
	if h.writer == nil {
		return nil
	}
	if err := h.writer.Flush(); err != nil {
		return fmt.Errorf("%w: flush %q: %v", ErrIO, h.filename, err)
	}
	return nil
}

// Close flushes and closes the underlying file.
func (h *fileHandle) Close() error {
	if h.fp == nil {
		return nil
	}
	err := h.Flush()
	closeErr := h.fp.Close()
	h.fp = nil
	h.writer = nil
	if err != nil {
		return err
	}
	if closeErr != nil {
		return fmt.Errorf("%w: close %q: %v", ErrIO, h.filename, closeErr)
	}
	return nil
}

// Size returns the current tracked file size.
func (h *fileHandle) Size() int64 {
	return h.currentSize
}

// renameWithLock renames src to target, holding an advisory flock on src
// for the duration. The lock is a single-process guard only — it protects
// this process's own concurrent rotate calls from double-renaming the
// same path; the sink mutex already serializes those, so in the common
// case this is a cheap no-op. Cross-process rotation coordination is out
// of scope (spec.md §5).
func renameWithLock(src, target string) error {
	fd, err := unix.Open(src, unix.O_RDONLY, 0)
	if err == nil {
		_ = unix.Flock(fd, unix.LOCK_EX)
		defer func() {
			_ = unix.Flock(fd, unix.LOCK_UN)
			_ = unix.Close(fd)
		}()
	}
	_ = os.Remove(target)
	return os.Rename(src, target)
}
