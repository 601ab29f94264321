//go:build !linux

package filesystem

import (
	"os"

	"github.com/IvanShishkin/lsx/pkg/models"
)

// fillPlatformMetadata leaves the portable defaults in place: access and change
// times fall back to the modification time
func fillPlatformMetadata(meta *models.Metadata, info os.FileInfo) {
	meta.Blocks = (info.Size() + 511) / 512
}
