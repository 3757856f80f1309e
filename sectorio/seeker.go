package sectorio

import (
	"io"
	"sync"
)

// seekerHandle adapts an io.ReadWriteSeeker (e.g. one built over
// bytesextra.NewReadWriteSeeker, or an *os.File used only as a seeker) into
// an ImageHandle by serializing seek+read/write under a mutex, the same
// "seek then operate" idiom drivers/common/blockdevice.go uses for its
// *io.Seeker-backed stream.
type seekerHandle struct {
	mu     sync.Mutex
	stream io.ReadWriteSeeker
	closer io.Closer
}

// WrapSeeker adapts rws into an ImageHandle. Used by fatviewtest to mount
// synthetic in-memory images built over bytesextra.NewReadWriteSeeker,
// which implements io.ReadWriteSeeker but not io.ReaderAt/io.WriterAt.
func WrapSeeker(rws io.ReadWriteSeeker) ImageHandle {
	closer, _ := rws.(io.Closer)
	return &seekerHandle{stream: rws, closer: closer}
}

func (s *seekerHandle) ReadAt(buf []byte, off int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.stream.Seek(off, io.SeekStart); err != nil {
		return 0, err
	}
	return io.ReadFull(s.stream, buf)
}

func (s *seekerHandle) WriteAt(buf []byte, off int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.stream.Seek(off, io.SeekStart); err != nil {
		return 0, err
	}
	return s.stream.Write(buf)
}

func (s *seekerHandle) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
