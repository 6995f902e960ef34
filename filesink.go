package logforge

// FileSink appends formatted records to a single file opened in append
// mode, creating any missing parent directories on open.
type FileSink struct {
	sinkBase
	file *fileHandle
}

// NewFileSink opens (or creates) filename for appending.
func NewFileSink(filename string, threaded bool) (*FileSink, error) {
	fh, err := openFile(filename, false)
	if err != nil {
		return nil, err
	}
	return &FileSink{
		sinkBase: newSinkBase(threaded, Trace, "%+"),
		file:     fh,
	}, nil
}

func (s *FileSink) Log(rec *Record) error {
	if !s.ShouldLog(rec.Level) {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.scratch.Reset()
	s.formatterSnapshot().Format(rec, &s.scratch)
	return s.file.Write(s.scratch.Bytes())
}

func (s *FileSink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Flush()
}

// Close flushes and closes the underlying file.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}
