//go:build unix

package changelog

import (
	"io/fs"
	"syscall"
)

func deviceID(info fs.FileInfo) (uint64, bool) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, false
	}
	return uint64(st.Dev), true
}
