// Copyright © 2026 The Bit Authors under an MIT-style license.

// Package loc has routines for tracking file locations.
package loc

import (
	"fmt"
	"strings"
)

// A Range is a start and end byte offset.
type Range [2]int

// GetRange returns itself.
// This is useful so than Range can be embedded in a struct
// and that struct can implement interface{GetRange() Range}.
func (r Range) GetRange() Range { return r }

// Join returns the smallest Range containing both r and o.
func (r Range) Join(o Range) Range {
	if o[0] < r[0] {
		r[0] = o[0]
	}
	if o[1] > r[1] {
		r[1] = o[1]
	}
	return r
}

// A Loc describes a file location.
type Loc struct {
	Path string
	Line [2]int
	Col  [2]int
}

func (l Loc) String() string {
	switch {
	case l.Line[0] == l.Line[1] && l.Col[0] == l.Col[1]:
		return fmt.Sprintf("%s:%d.%d", l.Path, l.Line[0], l.Col[0])
	default:
		return fmt.Sprintf("%s:%d.%d-%d.%d", l.Path, l.Line[0], l.Col[0], l.Line[1], l.Col[1])
	}
}

// Files tracks locations within a set of files.
type Files []File

// A File is a single file in a Files.
type File struct {
	Path  string
	Offs  int
	Len   int
	Lines []int
	Text  string
}

// Len returns the total length of all files.
func (fs Files) Len() int {
	if len(fs) == 0 {
		return 0
	}
	last := fs[len(fs)-1]
	return last.Offs + last.Len
}

// Add adds a new file to the set given its path and text.
// It returns the offset of the start of the file.
func (fs *Files) Add(path, text string) int {
	var lines []int
	offs := fs.Len()
	for i, r := range text {
		if r == '\n' {
			lines = append(lines, offs+i)
		}
	}
	*fs = append(*fs, File{
		Path:  path,
		Offs:  offs,
		Len:   len(text),
		Lines: lines,
		Text:  text,
	})
	return offs
}

// Loc returns the Loc for a range of the module source.
func (fs Files) Loc(r Range) *Loc {
	if len(fs) == 0 || r[0] < 0 || r[1] > fs.Len() {
		return nil
	}
	var l Loc
	var spath, epath string
	spath, l.Line[0], l.Col[0] = fs.loc1(r[0])
	epath, l.Line[1], l.Col[1] = fs.loc1(r[1])
	if spath != epath {
		panic("impossible")
	}
	l.Path = spath
	return &l
}

func (fs Files) loc1(p int) (string, int, int) {
	file := fs.file(p)
	line, col1 := 1, file.Offs-1
	for _, nl := range file.Lines {
		if nl >= p {
			break
		}
		col1 = nl
		line++
	}
	return file.Path, line, p - col1
}

func (fs Files) file(p int) File {
	file := fs[0]
	for _, f := range fs {
		if f.Offs > p {
			break
		}
		file = f
	}
	return file
}

// Snippet returns the source line containing the start of r,
// followed by a line of carets underlining r.
// The underline is clipped to the end of the first line.
// Snippet returns "" if r is not within fs.
func (fs Files) Snippet(r Range) string {
	if len(fs) == 0 || r[0] < 0 || r[1] > fs.Len() {
		return ""
	}
	file := fs.file(r[0])
	start := r[0] - file.Offs
	if start > len(file.Text) {
		return ""
	}
	bol := strings.LastIndexByte(file.Text[:start], '\n') + 1
	eol := strings.IndexByte(file.Text[start:], '\n')
	if eol < 0 {
		eol = len(file.Text)
	} else {
		eol += start
	}
	end := r[1] - file.Offs
	if end > eol {
		end = eol
	}
	if end <= start {
		end = start + 1
	}
	var s strings.Builder
	line := file.Text[bol:eol]
	s.WriteString(line)
	s.WriteRune('\n')
	for i := bol; i < start; i++ {
		if file.Text[i] == '\t' {
			s.WriteRune('\t')
		} else {
			s.WriteRune(' ')
		}
	}
	s.WriteString(strings.Repeat("^", end-start))
	return s.String()
}
