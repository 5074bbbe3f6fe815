package emitter

import (
	"bufio"
	"io"

	"github.com/cockroachdb/errors"
)

// State is the emission progress of one type's stream.
type State int

const (
	StateNotStarted State = iota
	StatePackageDirectoryEnsured
	StateHeaderWritten
	StateFieldsWritten
	StateAccessorsWritten
	StateClosed
)

var stateNames = [...]string{
	"NotStarted",
	"PackageDirectoryEnsured",
	"HeaderWritten",
	"FieldsWritten",
	"AccessorsWritten",
	"Closed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "State(?)"
	}
	return stateNames[s]
}

// Stream is the destination of one transfer type. The underlying writer is
// opened on the first write and flushed on Close.
type Stream struct {
	Path string

	open  func() (io.WriteCloser, error)
	w     io.WriteCloser
	buf   *bufio.Writer
	state State
}

func newStream(path string, open func() (io.WriteCloser, error)) *Stream {
	return &Stream{Path: path, open: open}
}

func (s *Stream) State() State {
	return s.state
}

// Advance moves the stream to the next state. Skipping or repeating a step
// fails with ErrStreamState, any step after Close with ErrStreamClosed.
func (s *Stream) Advance(to State) error {
	if s.state == StateClosed {
		return errors.Wrapf(ErrStreamClosed, "%s: advance to %s", s.Path, to)
	}
	if to != s.state+1 || to == StateClosed {
		return errors.Wrapf(ErrStreamState, "%s: %s -> %s", s.Path, s.state, to)
	}
	s.state = to
	return nil
}

// WriteLines writes each line followed by a newline.
func (s *Stream) WriteLines(lines ...string) error {
	if s.state == StateClosed {
		return errors.Wrapf(ErrStreamClosed, "%s: write", s.Path)
	}
	if s.buf == nil {
		w, err := s.open()
		if err != nil {
			return errors.Mark(errors.Wrapf(err, "open %s", s.Path), ErrStreamWrite)
		}
		s.w = w
		s.buf = bufio.NewWriter(w)
	}
	for _, line := range lines {
		if _, err := s.buf.WriteString(line); err != nil {
			return errors.Mark(errors.Wrapf(err, "write %s", s.Path), ErrStreamWrite)
		}
		if err := s.buf.WriteByte('\n'); err != nil {
			return errors.Mark(errors.Wrapf(err, "write %s", s.Path), ErrStreamWrite)
		}
	}
	return nil
}

// Close flushes and closes the stream. It is only valid once every member
// has been written; closing twice fails with ErrStreamClosed.
func (s *Stream) Close() error {
	if s.state == StateClosed {
		return errors.Wrapf(ErrStreamClosed, "%s: close", s.Path)
	}
	if s.state != StateAccessorsWritten {
		return errors.Wrapf(ErrStreamState, "%s: %s -> %s", s.Path, s.state, StateClosed)
	}
	s.state = StateClosed
	if s.buf == nil {
		return nil
	}
	if err := s.buf.Flush(); err != nil {
		_ = s.w.Close()
		return errors.Mark(errors.Wrapf(err, "flush %s", s.Path), ErrStreamWrite)
	}
	if err := s.w.Close(); err != nil {
		return errors.Mark(errors.Wrapf(err, "close %s", s.Path), ErrStreamWrite)
	}
	return nil
}

// abort releases the writer of a failed emission. Whatever was flushed so
// far stays behind; the stream ends Closed so the type cannot be resumed.
func (s *Stream) abort() {
	if s.state == StateClosed {
		return
	}
	s.state = StateClosed
	if s.buf != nil {
		_ = s.buf.Flush()
		_ = s.w.Close()
	}
}
