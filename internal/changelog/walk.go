package changelog

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
)

// DefaultMaxOpen caps the directory handles a Walker keeps open at once.
const DefaultMaxOpen = 100

// readBatch is how many directory entries are read per ReadDir call while a
// directory handle stays open.
const readBatch = 256

// WalkError is a failure to read part of the fragment tree.
type WalkError struct {
	Path string
	Err  error
}

func (e *WalkError) Error() string {
	return fmt.Sprintf("walking %s: %v", e.Path, e.Err)
}

func (e *WalkError) Unwrap() error { return e.Err }

// Candidate is a regular file found below the walk root.
type Candidate struct {
	// Path is the file path (Root joined with Rel).
	Path string
	// Rel is the slash-separated path relative to Root.
	Rel string
}

// Walker enumerates the regular files below Root. Symbolic links are never
// followed.
type Walker struct {
	Root string
	// Exclude names one file (relative to Root) that is never yielded. Any
	// file whose relative path ends with these components matches.
	Exclude string
	// MaxOpen bounds simultaneously open directory handles; DefaultMaxOpen
	// when zero. Past the cap a directory is read completely and closed
	// before its entries are visited.
	MaxOpen int
	// SameFileSystem keeps the walk on the device Root lives on.
	SameFileSystem bool

	// onOpen is called with the number of open directory handles each time
	// one is kept open.
	onOpen func(open int)
}

type dirFrame struct {
	rel     string
	f       *os.File
	pending []fs.DirEntry
}

// Files returns a single-pass sequence of candidate files in depth-first
// order. Entries read in one batch are visited by name. Read failures are
// yielded as *WalkError and the walk continues with what remains.
func (w Walker) Files() iter.Seq2[Candidate, error] {
	return func(yield func(Candidate, error) bool) {
		maxOpen := w.MaxOpen
		if maxOpen <= 0 {
			maxOpen = DefaultMaxOpen
		}

		info, err := os.Stat(w.Root)
		if err != nil {
			yield(Candidate{}, &WalkError{Path: w.Root, Err: err})
			return
		}
		if !info.IsDir() {
			yield(Candidate{}, &WalkError{Path: w.Root, Err: errors.New("not a directory")})
			return
		}

		rootDev, checkDev := uint64(0), false
		if w.SameFileSystem {
			rootDev, checkDev = deviceID(info)
		}

		var stack []*dirFrame
		open := 0
		defer func() {
			for _, fr := range stack {
				if fr.f != nil {
					fr.f.Close()
				}
			}
		}()

		push := func(rel string) error {
			f, err := os.Open(w.osPath(rel))
			if err != nil {
				return err
			}
			limit := readBatch
			if open >= maxOpen {
				limit = -1
			}
			entries, err := f.ReadDir(limit)
			if err != nil && !errors.Is(err, io.EOF) {
				f.Close()
				return err
			}
			sortEntries(entries)

			fr := &dirFrame{rel: rel, f: f, pending: entries}
			if limit < 0 || len(entries) < limit {
				f.Close()
				fr.f = nil
			} else {
				open++
				if w.onOpen != nil {
					w.onOpen(open)
				}
			}
			stack = append(stack, fr)
			return nil
		}

		if err := push(""); err != nil {
			yield(Candidate{}, &WalkError{Path: w.Root, Err: err})
			return
		}

		for len(stack) > 0 {
			fr := stack[len(stack)-1]

			if len(fr.pending) == 0 {
				if fr.f == nil {
					stack = stack[:len(stack)-1]
					continue
				}
				entries, err := fr.f.ReadDir(readBatch)
				if err != nil || len(entries) < readBatch {
					fr.f.Close()
					fr.f = nil
					open--
				}
				if err != nil && !errors.Is(err, io.EOF) {
					if !yield(Candidate{}, &WalkError{Path: w.osPath(fr.rel), Err: err}) {
						return
					}
				}
				sortEntries(entries)
				fr.pending = entries
				continue
			}

			de := fr.pending[0]
			fr.pending = fr.pending[1:]
			rel := path.Join(fr.rel, de.Name())

			switch {
			case de.Type()&fs.ModeSymlink != 0:
				continue
			case de.IsDir():
				if checkDev {
					info, err := de.Info()
					if err != nil {
						if !yield(Candidate{}, &WalkError{Path: w.osPath(rel), Err: err}) {
							return
						}
						continue
					}
					if dev, ok := deviceID(info); ok && dev != rootDev {
						continue
					}
				}
				if err := push(rel); err != nil {
					if !yield(Candidate{}, &WalkError{Path: w.osPath(rel), Err: err}) {
						return
					}
				}
			case de.Type().IsRegular():
				if w.Excluded(rel) {
					continue
				}
				if !yield(Candidate{Path: w.osPath(rel), Rel: rel}, nil) {
					return
				}
			}
		}
	}
}

func (w Walker) osPath(rel string) string {
	if rel == "" {
		return w.Root
	}
	return filepath.Join(w.Root, filepath.FromSlash(rel))
}

// Excluded reports whether the root-relative slash path rel names the
// excluded file.
func (w Walker) Excluded(rel string) bool {
	if w.Exclude == "" {
		return false
	}
	ex := path.Clean(filepath.ToSlash(w.Exclude))
	return rel == ex || strings.HasSuffix(rel, "/"+ex)
}

func sortEntries(entries []fs.DirEntry) {
	slices.SortFunc(entries, func(a, b fs.DirEntry) int {
		return strings.Compare(a.Name(), b.Name())
	})
}
