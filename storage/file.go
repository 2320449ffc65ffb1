package storage

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/naivary/wpsio/inout"
	"golang.org/x/exp/slog"
	"golang.org/x/sys/unix"
)

// FileStorage copies outputs below a target directory, one
// subdirectory per request, and builds download URLs from a base URL.
// The URLs resolve through the Handler of this package.
type FileStorage struct {
	// Target is the directory outputs are copied into.
	Target string
	// OutputURL is the base URL under which Target is served.
	OutputURL string

	logger *slog.Logger
}

var _ inout.Storage = (*FileStorage)(nil)

func NewFileStorage(target, outputURL string) (*FileStorage, error) {
	if err := os.MkdirAll(target, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage target: %w", err)
	}
	return &FileStorage{
		Target:    target,
		OutputURL: outputURL,
		logger:    slog.New(slog.NewTextHandler(os.Stdout, nil)),
	}, nil
}

// Store copies the output file into a per-request directory and
// returns the file name relative to the target directory together
// with the download URL.
func (s *FileStorage) Store(out *inout.ComplexOutput) (inout.StoreType, string, string, error) {
	file, err := out.File()
	if err != nil {
		return 0, "", "", err
	}
	if err := s.checkFreeSpace(file); err != nil {
		return 0, "", "", err
	}

	requestID := out.RequestID()
	if requestID == "" {
		requestID = uuid.NewString()
	}
	dir := filepath.Join(s.Target, requestID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, "", "", fmt.Errorf("creating request directory: %w", err)
	}

	name := outputName(file, out.Format().Extension)
	dst := filepath.Join(dir, name)
	if _, err := os.Stat(dst); err == nil {
		// duplicate output name within the request, pick a unique one
		f, err := os.CreateTemp(dir, strings.TrimSuffix(name, filepath.Ext(name))+"_*"+filepath.Ext(name))
		if err != nil {
			return 0, "", "", fmt.Errorf("creating unique output name: %w", err)
		}
		f.Close()
		dst = f.Name()
		name = filepath.Base(dst)
	}
	if err := copyFile(file, dst); err != nil {
		return 0, "", "", err
	}
	s.logger.Info("stored file output", slog.String("path", dst))

	u, err := url.JoinPath(s.OutputURL, requestID, name)
	if err != nil {
		return 0, "", "", fmt.Errorf("building output url: %w", err)
	}
	s.logger.Info("file output uri", slog.String("url", u))
	return inout.StorePath, filepath.Join(requestID, name), u, nil
}

// checkFreeSpace compares the free space of the target with the file
// size rounded up to whole filesystem blocks. statvfs counts free
// blocks, not bytes.
func (s *FileStorage) checkFreeSpace(file string) error {
	var st unix.Statfs_t
	if err := unix.Statfs(s.Target, &st); err != nil {
		return fmt.Errorf("statfs %s: %w", s.Target, err)
	}
	fi, err := os.Stat(file)
	if err != nil {
		return fmt.Errorf("stat %s: %w", file, err)
	}
	blockSize := uint64(st.Bsize)
	avail := st.Bfree * blockSize
	need := (uint64(fi.Size()) + blockSize - 1) / blockSize * blockSize
	if avail < need {
		return fmt.Errorf("%w: %s in %s", ErrNotEnoughStorage, file, s.Target)
	}
	return nil
}

// outputName keeps the base name of the source file and makes sure it
// carries an extension, falling back to the format's one.
func outputName(file, ext string) string {
	name := filepath.Base(file)
	if filepath.Ext(name) == "" && ext != "" {
		name += ext
	}
	return name
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	defer out.Close()
	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copying %s to %s: %w", src, dst, err)
	}
	return out.Sync()
}
