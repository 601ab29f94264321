//go:build linux

package filesystem

import (
	"os"
	"syscall"
	"time"

	"github.com/IvanShishkin/lsx/pkg/models"
	"golang.org/x/sys/unix"
)

// fillPlatformMetadata copies the stat fields os.FileInfo does not expose (Linux)
func fillPlatformMetadata(meta *models.Metadata, info os.FileInfo) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return
	}

	meta.Blocks = int64(stat.Blocks)
	meta.Nlink = uint64(stat.Nlink)
	meta.UID = stat.Uid
	meta.GID = stat.Gid
	meta.Inode = stat.Ino
	meta.Atime = time.Unix(stat.Atim.Unix())
	meta.Ctime = time.Unix(stat.Ctim.Unix())

	if meta.IsDevice() {
		meta.DevMajor = unix.Major(uint64(stat.Rdev))
		meta.DevMinor = unix.Minor(uint64(stat.Rdev))
	}
}
