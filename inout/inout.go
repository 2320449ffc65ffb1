// Package inout provides the input and output handlers of a process:
// literal, complex and bounding box values which accept their data as
// a file, a stream or an in-memory value and hand it back in any of
// the three forms.
package inout

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// SourceKind tells in which form the data of a handler was set.
type SourceKind int

const (
	SourceNone SourceKind = iota
	SourceFile
	SourceStream
	SourceData
)

// Source is the data carrier embedded in every input and output
// handler. Data set as a stream or in memory is spilled to a file in
// the working directory when a file is asked for; the spill file is
// created once and reused.
type Source struct {
	kind   SourceKind
	file   string
	stream io.Reader
	data   []byte

	workdir   string
	spill     string
	ext       string
	requestID string
}

// Kind returns the form the data was set in.
func (s *Source) Kind() SourceKind {
	return s.kind
}

// SetWorkdir sets the working directory for spill files, creating it
// if needed.
func (s *Source) SetWorkdir(dir string) error {
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating workdir: %w", err)
		}
	}
	s.workdir = dir
	return nil
}

func (s *Source) Workdir() string {
	return s.workdir
}

// SetRequestID attaches the identifier of the request this handler
// belongs to. Storage backends group outputs by it.
func (s *Source) SetRequestID(id string) {
	s.requestID = id
}

func (s *Source) RequestID() string {
	return s.requestID
}

// setExt sets the filename extension used for spill files. Handlers
// with a data format set it from the format's extension.
func (s *Source) setExt(ext string) {
	s.ext = ext
}

// SetFile sets the source to the file at path.
func (s *Source) SetFile(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}
	s.kind = SourceFile
	s.file = abs
	s.spill = ""
	return nil
}

// SetStream sets the source to the given reader. The reader is
// consumed at most once, on the first access.
func (s *Source) SetStream(r io.Reader) {
	s.kind = SourceStream
	s.stream = r
	s.spill = ""
}

// SetData sets the source to the in-memory value.
func (s *Source) SetData(p []byte) {
	s.kind = SourceData
	s.data = p
	s.spill = ""
}

// SetBase64 decodes the base64 encoded value and sets it as data.
func (s *Source) SetBase64(enc string) error {
	p, err := base64.StdEncoding.DecodeString(enc)
	if err != nil {
		return fmt.Errorf("decoding base64 data: %w", err)
	}
	s.SetData(p)
	return nil
}

// File returns the source as a file name. Stream and data sources are
// spilled into the working directory on first call.
func (s *Source) File() (string, error) {
	switch s.kind {
	case SourceFile:
		return s.file, nil
	case SourceStream, SourceData:
		if s.spill != "" {
			return s.spill, nil
		}
		f, err := os.CreateTemp(s.workdir, "input_*"+s.ext)
		if err != nil {
			return "", fmt.Errorf("creating spill file: %w", err)
		}
		defer f.Close()
		if s.kind == SourceStream {
			_, err = io.Copy(f, s.stream)
		} else {
			_, err = f.Write(s.data)
		}
		if err != nil {
			os.Remove(f.Name())
			return "", fmt.Errorf("writing spill file: %w", err)
		}
		s.spill = f.Name()
		return s.spill, nil
	}
	return "", ErrNoSource
}

// Stream returns the source as a reader. File sources are opened, the
// caller closes the returned reader.
func (s *Source) Stream() (io.ReadCloser, error) {
	switch s.kind {
	case SourceFile:
		f, err := os.Open(s.file)
		if err != nil {
			return nil, fmt.Errorf("opening source file: %w", err)
		}
		return f, nil
	case SourceStream:
		if rc, ok := s.stream.(io.ReadCloser); ok {
			return rc, nil
		}
		return io.NopCloser(s.stream), nil
	case SourceData:
		return io.NopCloser(bytes.NewReader(s.data)), nil
	}
	return nil, ErrNoSource
}

// Data returns the source as an in-memory value. File sources are
// read fully, stream sources are drained and kept.
func (s *Source) Data() ([]byte, error) {
	switch s.kind {
	case SourceFile:
		p, err := os.ReadFile(s.file)
		if err != nil {
			return nil, fmt.Errorf("reading source file: %w", err)
		}
		return p, nil
	case SourceStream:
		p, err := io.ReadAll(s.stream)
		if err != nil {
			return nil, fmt.Errorf("draining source stream: %w", err)
		}
		// the stream is gone after reading, keep the bytes
		s.SetData(p)
		return p, nil
	case SourceData:
		return s.data, nil
	}
	return nil, ErrNoSource
}

// Base64 returns the source data base64 encoded.
func (s *Source) Base64() (string, error) {
	p, err := s.Data()
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(p), nil
}
