// Package verify checks build contexts before they are streamed to the engine.
package verify

import (
	"archive/tar"
	"bufio"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
)

// DefaultDockerfile is the name the engine looks for when none is given.
const DefaultDockerfile = "Dockerfile"

var (
	ErrNotTar            = errors.New("not a tar archive")
	ErrEmptyContext      = errors.New("build context is empty")
	ErrDockerfileMissing = errors.New("dockerfile not found in build context")
)

var gzipMagic = []byte{0x1f, 0x8b}

// BuildContext checks that file is a plain or gzipped tar archive holding dockerfile.
// An empty dockerfile means DefaultDockerfile.
func BuildContext(file, dockerfile string) error {
	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("failed to open build context: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat build context: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("build context %s is a directory, expected a tar archive", file)
	}

	br := bufio.NewReader(f)
	var r io.Reader = br
	if magic, _ := br.Peek(len(gzipMagic)); bytes.Equal(magic, gzipMagic) {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrNotTar, err)
		}
		defer gz.Close()
		r = gz
	}

	if dockerfile == "" {
		dockerfile = DefaultDockerfile
	}
	want := path.Clean(dockerfile)

	tr := tar.NewReader(r)
	entries := 0
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrNotTar, err)
		}
		entries++
		if path.Clean(hdr.Name) == want {
			return nil
		}
	}

	if entries == 0 {
		return ErrEmptyContext
	}
	return fmt.Errorf("%w: %s", ErrDockerfileMissing, dockerfile)
}
