package walk

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/karrick/godirwalk"
)

// FileSystem is the set of filesystem operations a scan depends on.
type FileSystem interface {
	// RealPath returns the absolute, symlink-free form of path.
	RealPath(path string) (string, error)
	// Lstat describes path without following a final symbolic link.
	Lstat(path string) (fs.FileInfo, error)
	// ReadDirNames lists the entry names of a directory in no particular order.
	ReadDirNames(path string) ([]string, error)
}

// OSFileSystem is the FileSystem backed by the host operating system.
var OSFileSystem FileSystem = osFS{}

type osFS struct{}

var scratchPool = sync.Pool{
	New: func() any {
		b := make([]byte, godirwalk.MinimumScratchBufferSize)
		return &b
	},
}

func (osFS) RealPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

func (osFS) Lstat(path string) (fs.FileInfo, error) {
	return os.Lstat(path)
}

func (osFS) ReadDirNames(path string) ([]string, error) {
	scratch := scratchPool.Get().(*[]byte)
	defer scratchPool.Put(scratch)
	return godirwalk.ReadDirnames(path, *scratch)
}
