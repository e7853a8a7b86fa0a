// Package transfer holds the file collaborators used by backup export
// and import: a Saver that receives finished backup bytes and a Reader
// that delivers file content through a single-completion channel.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kerrors "github.com/PolarWolf314/coffer/internal/errors"
	"github.com/PolarWolf314/coffer/internal/utils"
)

// Saver accepts backup bytes under a suggested file name.
type Saver interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
}

// Reader reads a file asynchronously. The returned channel yields exactly
// one Result and is then closed.
type Reader interface {
	Read(ctx context.Context, path string) <-chan Result
}

// Result is the completion of a Reader request.
type Result struct {
	Path string
	Data []byte
	Err  error
}

// DirSaver writes backups into Dir with 0600 permissions.
type DirSaver struct {
	Dir string
}

// Save writes data to Dir/name and returns the written path.
func (s DirSaver) Save(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid backup file name %q", name)
	}

	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, name)
	if err := utils.WriteFileAtomic(path, data, 0600); err != nil {
		return "", fmt.Errorf("saving %s: %w", path, err)
	}
	return path, nil
}

// FileReader reads files from the local filesystem.
type FileReader struct{}

func (FileReader) Read(ctx context.Context, path string) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)

		if err := ctx.Err(); err != nil {
			out <- Result{Path: path, Err: err}
			return
		}

		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			err = fmt.Errorf("%w: %s", kerrors.ErrFileNotFound, path)
		}
		out <- Result{Path: path, Data: data, Err: err}
	}()
	return out
}
