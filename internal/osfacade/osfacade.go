// Package osfacade is the one abstraction boundary for platform-specific
// details spec.md leaves external: time, thread id, filesystem operations,
// and basename/dirname/extension splitting.
package osfacade

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// Now returns the current wall-clock time, at least millisecond
// resolution (time.Now already gives nanoseconds on all supported
// platforms).
func Now() time.Time {
	return time.Now()
}

// ThreadID returns an id for the calling OS thread. Go goroutines are not
// pinned to OS threads in general, so this is necessarily an approximation
// of the C/C++ "thread id" concept the reference implementation uses
// (gettid); it still yields a real kernel thread id, stable for the
// lifetime of the calling goroutine as long as it doesn't hop between
// threads mid-call (which a single log call never does).
func ThreadID() uint64 {
	return uint64(unix.Gettid())
}

// IsTerminal reports whether fd refers to an interactive terminal.
func IsTerminal(fd int) bool {
	return term.IsTerminal(fd)
}

// Basename returns the final path element, like path.Base but without
// path.Base's special-casing of the empty string into ".".
func Basename(p string) string {
	if p == "" {
		return ""
	}
	return filepath.Base(p)
}

// Dirname returns the directory portion of p, or "" if p has no
// directory separator.
func Dirname(p string) string {
	idx := strings.LastIndexByte(p, '/')
	if idx < 0 {
		return ""
	}
	return p[:idx]
}

// PathExists reports whether a filesystem entry exists at p.
func PathExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

// MkdirAll creates p and any missing parents, matching os.MkdirAll's
// semantics (no error if p already exists as a directory).
func MkdirAll(p string) error {
	if p == "" {
		return nil
	}
	return os.MkdirAll(p, 0o755)
}

// SleepMillis blocks the calling goroutine for the given number of
// milliseconds.
func SleepMillis(ms int) {
	time.Sleep(time.Duration(ms) * time.Millisecond)
}

// SplitByExtension splits filename into (stem, ext) per spec.md §8's
// rules: the extension starts at the last '.', provided that dot is
// neither the first byte of the basename nor the final byte of the whole
// string, and a dot appearing before the last '/' is not a separator.
//
//	"mylog.txt"   -> ("mylog", ".txt")
//	".mylog"      -> (".mylog", "")
//	"a/b.d/f"     -> ("a/b.d/f", "")
//	"..txt"       -> (".", ".txt")
func SplitByExtension(filename string) (stem, ext string) {
	lastSlash := strings.LastIndexByte(filename, '/')
	baseStart := lastSlash + 1 // 0 if no slash

	base := filename[baseStart:]
	dot := strings.LastIndexByte(base, '.')

	if dot <= 0 || dot == len(base)-1 {
		// no extension: leading dot (hidden file), trailing dot, or no dot
		return filename, ""
	}

	return filename[:baseStart+dot], base[dot:]
}
