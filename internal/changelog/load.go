package changelog

import (
	"bufio"
	"fmt"
	"iter"
	"os"

	"go.uber.org/zap"

	"github.com/ariel-frischer/fraglog/internal/fragment"
)

// Entries walks the tree and decodes every file that sits below a version
// directory. Files without a version component in their path are skipped.
// Every other problem is yielded, either as the walker's *WalkError or as a
// *FileError carrying the fragment path. The sequence is single-pass.
func Entries(w Walker, log *zap.Logger) iter.Seq2[Entry, error] {
	if log == nil {
		log = zap.NewNop()
	}
	return func(yield func(Entry, error) bool) {
		for c, err := range w.Files() {
			if err != nil {
				log.Debug("walk error", zap.Error(err))
				if !yield(Entry{}, err) {
					return
				}
				continue
			}

			entry, ok, err := decodeCandidate(c)
			switch {
			case err != nil:
				log.Debug("fragment rejected", zap.String("path", c.Path), zap.Error(err))
				if !yield(Entry{}, err) {
					return
				}
			case !ok:
				log.Debug("no version in path, skipping", zap.String("path", c.Rel))
			default:
				log.Debug("fragment loaded",
					zap.String("path", c.Rel),
					zap.Stringer("version", entry.Version))
				if !yield(entry, nil) {
					return
				}
			}
		}
	}
}

func decodeCandidate(c Candidate) (Entry, bool, error) {
	version, err := VersionFromPath(c.Rel)
	if err != nil {
		return Entry{}, false, &FileError{Path: c.Path, Err: err}
	}
	if version == nil {
		return Entry{}, false, nil
	}

	f, err := ReadFragment(c.Path)
	if err != nil {
		return Entry{}, false, &FileError{Path: c.Path, Err: err}
	}
	return Entry{Path: c.Path, Version: version, Fragment: f}, true, nil
}

// ReadFragment opens, decodes and closes one fragment file.
func ReadFragment(path string) (fragment.Fragment, error) {
	file, err := os.Open(path)
	if err != nil {
		return fragment.Fragment{}, fmt.Errorf("opening fragment: %w", err)
	}
	defer file.Close()

	return fragment.FromReader(bufio.NewReader(file))
}
