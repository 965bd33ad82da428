package cache

import (
	"io"
	"io/fs"
	"os"
)

// FileSystem is the file access FileCache needs.
// A zero ModTime in the returned FileInfo means the modification time is
// unavailable, and such entries are always recomputed.
type FileSystem interface {
	Stat(name string) (fs.FileInfo, error)
	Open(name string) (io.ReadCloser, error)
}

// OSFileSystem reads from the host file system.
type OSFileSystem struct{}

func (OSFileSystem) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(name)
}

func (OSFileSystem) Open(name string) (io.ReadCloser, error) {
	return os.Open(name)
}

// FS adapts an io/fs.FS, such as an embed.FS or os.DirFS, to FileSystem.
// Paths follow io/fs rules: slash separated and unrooted.
func FS(fsys fs.FS) FileSystem {
	return ioFS{fsys: fsys}
}

type ioFS struct {
	fsys fs.FS
}

func (f ioFS) Stat(name string) (fs.FileInfo, error) {
	return fs.Stat(f.fsys, name)
}

func (f ioFS) Open(name string) (io.ReadCloser, error) {
	return f.fsys.Open(name)
}

var (
	_ FileSystem = OSFileSystem{}
	_ FileSystem = ioFS{}
)
