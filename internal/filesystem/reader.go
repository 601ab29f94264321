package filesystem

import (
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/IvanShishkin/lsx/pkg/models"
)

// Stat resolves a path eagerly and returns it as an entry.
// With follow set a symlink is resolved to its target; a dangling link
// falls back to the link itself. A failed stat yields a failed entry, never an error.
func Stat(name, path string, depth int, follow bool) *models.Entry {
	var (
		info os.FileInfo
		err  error
	)

	if follow {
		info, err = os.Stat(path)
		if err != nil {
			if linfo, lerr := os.Lstat(path); lerr == nil && linfo.Mode()&os.ModeSymlink != 0 {
				info, err = linfo, nil
			}
		}
	} else {
		info, err = os.Lstat(path)
	}

	if err != nil {
		return models.NewFailedEntry(name, path, depth, err)
	}
	return models.NewResolvedEntry(name, path, depth, metadataFromInfo(info))
}

// ReadDir opens dir and wraps each child in raw directory-read order.
// Children are resolved lazily with lstat on first use.
func ReadDir(dir string, depth int) ([]*models.Entry, error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dirents, err := f.ReadDir(-1)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	entries := make([]*models.Entry, 0, len(dirents))
	for _, d := range dirents {
		entries = append(entries, newDirEntry(d, JoinPath(dir, d.Name()), depth))
	}
	return entries, nil
}

func newDirEntry(d fs.DirEntry, path string, depth int) *models.Entry {
	resolve := func() (*models.Metadata, error) {
		info, err := d.Info()
		if err != nil {
			return nil, err
		}
		return metadataFromInfo(info), nil
	}
	return models.NewEntry(d.Name(), path, depth, models.TypeFromMode(d.Type()), resolve)
}

// SelfParent synthesizes the "." and ".." entries of dir
func SelfParent(dir string, depth int) []*models.Entry {
	entries := make([]*models.Entry, 0, 2)
	for _, name := range []string{".", ".."} {
		path := JoinPath(dir, name)
		entries = append(entries, models.NewEntry(name, path, depth, models.TypeDir, lstatFunc(path)))
	}
	return entries
}

func lstatFunc(path string) models.ResolveFunc {
	return func() (*models.Metadata, error) {
		info, err := os.Lstat(path)
		if err != nil {
			return nil, err
		}
		return metadataFromInfo(info), nil
	}
}

// Readlink returns the target of a symbolic link
func Readlink(path string) (string, error) {
	return os.Readlink(path)
}

// JoinPath joins a directory and a child name the way they are displayed,
// keeping a leading "./" so that headers read "./sub:"
func JoinPath(dir, name string) string {
	if strings.HasSuffix(dir, string(os.PathSeparator)) {
		return dir + name
	}
	return dir + string(os.PathSeparator) + name
}

// NormalizeArg strips trailing separators from a root argument,
// except when the argument consists only of separators
func NormalizeArg(arg string) string {
	sep := string(os.PathSeparator)
	trimmed := strings.TrimRight(arg, sep)
	if trimmed == "" && arg != "" {
		return sep
	}
	return trimmed
}

// metadataFromInfo fills the portable fields and lets the platform add the rest
func metadataFromInfo(info os.FileInfo) *models.Metadata {
	meta := &models.Metadata{
		Type:  models.TypeFromMode(info.Mode()),
		Mode:  info.Mode(),
		Size:  info.Size(),
		Mtime: info.ModTime(),
		Atime: info.ModTime(),
		Ctime: info.ModTime(),
		Nlink: 1,
	}
	fillPlatformMetadata(meta, info)
	return meta
}
