package logforge

import (
	"fmt"

	"github.com/copperhq/logforge/internal/osfacade"
)

const maxRotatingFiles = 200_000

// RotatingFileSink rotates its output file once the active file would
// exceed maxSize bytes. Index 0 is always the active file; older files
// carry ".N" inserted before the extension (log.txt -> log.3.txt).
type RotatingFileSink struct {
	sinkBase
	baseFilename string
	maxSize      int64
	maxFiles     int
	currentSize  int64
	file         *fileHandle
}

// NewRotatingFileSink validates maxSize >= 1 and maxFiles <= 200000, then
// opens the base file (rotating immediately if rotateOnOpen is set and the
// base file already has content).
func NewRotatingFileSink(filename string, maxSize int64, maxFiles int, rotateOnOpen, threaded bool) (*RotatingFileSink, error) {
	if maxSize < 1 {
		return nil, fmt.Errorf("%w: rotating sink max_size must be >= 1", ErrConfig)
	}
	if maxFiles > maxRotatingFiles {
		return nil, fmt.Errorf("%w: rotating sink max_files cannot exceed %d", ErrConfig, maxRotatingFiles)
	}

	fh, err := openFile(filename, false)
	if err != nil {
		return nil, err
	}

	s := &RotatingFileSink{
		sinkBase:     newSinkBase(threaded, Trace, "%+"),
		baseFilename: filename,
		maxSize:      maxSize,
		maxFiles:     maxFiles,
		currentSize:  fh.Size(),
		file:         fh,
	}

	if rotateOnOpen && s.currentSize > 0 {
		if err := s.rotate(); err != nil {
			return nil, err
		}
		s.currentSize = 0
	}

	return s, nil
}

// RotatedFilename returns the filename for the given rotation index (0 is
// the active file).
func RotatedFilename(base string, index int) string {
	if index == 0 {
		return base
	}
	stem, ext := osfacade.SplitByExtension(base)
	return fmt.Sprintf("%s.%d%s", stem, index, ext)
}

func (s *RotatingFileSink) Log(rec *Record) error {
	if !s.ShouldLog(rec.Level) {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.scratch.Reset()
	s.formatterSnapshot().Format(rec, &s.scratch)
	buf := s.scratch.Bytes()

	newSize := s.currentSize + int64(len(buf))
	if newSize > s.maxSize && s.currentSize > 0 {
		if err := s.rotate(); err != nil {
			return err
		}
		newSize = int64(len(buf))
	}

	if err := s.file.Write(buf); err != nil {
		return err
	}
	s.currentSize = newSize
	return nil
}

func (s *RotatingFileSink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Flush()
}

// rotate shifts file_0..file_{maxFiles-1} to file_1..file_{maxFiles}, then
// truncate-reopens the base file. Must be called with s.mu held.
func (s *RotatingFileSink) rotate() error {
	_ = s.file.Close()

	for i := s.maxFiles - 1; i >= 0; i-- {
		src := RotatedFilename(s.baseFilename, i)
		if !osfacade.PathExists(src) {
			continue
		}
		target := RotatedFilename(s.baseFilename, i+1)

		if err := renameWithLock(src, target); err != nil {
			osfacade.SleepMillis(100)
			if err := renameWithLock(src, target); err != nil {
				_ = s.file.Reopen(true)
				s.currentSize = 0
				return fmt.Errorf("%w: rotate %q -> %q: %v", ErrIO, src, target, err)
			}
		}
	}

	return s.file.Reopen(true)
}
