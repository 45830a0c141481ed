// SPDX-License-Identifier: MPL-2.0

package hierarchy

import (
	"strings"

	"github.com/ykrasik/jaci-sub001/pkg/complete"
)

const (
	// WantAny completes both directories and commands.
	WantAny Want = iota
	// WantDirectories completes directories only.
	WantDirectories
)

// Want selects which entries path completion offers.
type Want int

var reservedCandidates = complete.FromCandidates("",
	complete.Candidate{Word: ThisDir, Kind: complete.KindReserved},
	complete.Candidate{Word: ParentDir, Kind: complete.KindReserved},
).Candidates

// ResolvePath resolves a "/"-delimited path starting at from. A leading "/"
// starts at the root; "." stays and ".." moves to the parent. Every segment
// but the last must name a directory; a trailing "/" requires the last one
// to be a directory too.
func ResolvePath(path string, from *Directory) (Entry, error) {
	cur := from
	if strings.HasPrefix(path, PathDelimiter) {
		cur = from.Root()
	}
	segments := splitPath(path)
	mustBeDir := strings.HasSuffix(path, PathDelimiter)

	for i, seg := range segments {
		last := i == len(segments)-1
		switch seg {
		case ThisDir:
			continue
		case ParentDir:
			if cur.parent == nil {
				return nil, &NoSuchEntryError{Name: seg, Dir: cur}
			}
			cur = cur.parent
			continue
		}
		if dir, ok := cur.dirs.Get(seg); ok {
			cur = dir
			continue
		}
		if cmd, ok := cur.cmds.Get(seg); ok {
			if !last || mustBeDir {
				return nil, &NotADirectoryError{Name: seg}
			}
			return cmd, nil
		}
		return nil, &NoSuchEntryError{Name: seg, Dir: cur}
	}
	return cur, nil
}

// ResolveDirectory resolves path and requires it to name a directory.
func ResolveDirectory(path string, from *Directory) (*Directory, error) {
	e, err := ResolvePath(path, from)
	if err != nil {
		return nil, err
	}
	dir, ok := e.(*Directory)
	if !ok {
		return nil, &NotADirectoryError{Name: e.Name()}
	}
	return dir, nil
}

// ResolveCommand resolves path and requires it to name a command.
func ResolveCommand(path string, from *Directory) (*Command, error) {
	e, err := ResolvePath(path, from)
	if err != nil {
		return nil, err
	}
	cmd, ok := e.(*Command)
	if !ok {
		return nil, &NotACommandError{Name: path}
	}
	return cmd, nil
}

// CompletePath completes the last segment of a partially typed path. The
// part up to the last "/" is resolved as a directory and the rest is
// completed in it.
func CompletePath(path string, from *Directory, want Want) (complete.Result, error) {
	i := strings.LastIndex(path, PathDelimiter)
	if i < 0 {
		return CompleteSegment(path, from, want)
	}
	dir, err := ResolveDirectory(path[:i+1], from)
	if err != nil {
		return complete.Result{}, err
	}
	return CompleteSegment(path[i+1:], dir, want)
}

// CompleteSegment completes prefix against the children of dir. A directory
// with nothing to offer yields only the reserved "." and ".." tokens for an
// empty prefix, and EmptyDirectoryError otherwise.
func CompleteSegment(prefix string, dir *Directory, want Want) (complete.Result, error) {
	candidates := dir.allCandidates
	if want == WantDirectories {
		candidates = dir.dirCandidates
	}
	if candidates.IsEmpty() {
		if prefix != "" {
			return complete.Result{}, &EmptyDirectoryError{Dir: dir}
		}
		return complete.NewResult(prefix, reservedCandidates), nil
	}
	matches := candidates.SubTrie(prefix)
	if matches.IsEmpty() {
		return complete.Result{}, &NoSuchEntryError{Name: prefix, Dir: dir}
	}
	return complete.NewResult(prefix, matches), nil
}

func splitPath(path string) []string {
	var segments []string
	for _, seg := range strings.Split(path, PathDelimiter) {
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	return segments
}
