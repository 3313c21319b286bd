//go:build !unix

package changelog

import "io/fs"

// deviceID is unavailable here, so the walk does not stop at mount points.
func deviceID(fs.FileInfo) (uint64, bool) {
	return 0, false
}
