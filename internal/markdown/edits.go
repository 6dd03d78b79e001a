package markdown

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"slices"
)

// ErrOverlappingEdits is returned by ApplyEdits when two edits touch the same bytes.
var ErrOverlappingEdits = errors.New("overlapping edits")

// Edit replaces source[Start:End] with Replacement. Offsets always refer to
// the original source, so a set of edits can be computed in one scan.
type Edit struct {
	Start       int
	End         int
	Replacement []byte
}

// ApplyEdits applies non-overlapping edits in a single pass. Insertions
// (Start == End) at the same offset keep their given order.
func ApplyEdits(source []byte, edits []Edit) ([]byte, error) {
	if len(edits) == 0 {
		return source, nil
	}

	sorted := slices.Clone(edits)
	slices.SortStableFunc(sorted, func(a, b Edit) int { return cmp.Compare(a.Start, b.Start) })

	var b bytes.Buffer
	b.Grow(len(source))
	pos := 0
	for i, e := range sorted {
		if e.Start < 0 || e.End < e.Start || e.End > len(source) {
			return nil, fmt.Errorf("edit %d: invalid range [%d,%d) for %d bytes", i, e.Start, e.End, len(source))
		}
		if e.Start < pos {
			return nil, fmt.Errorf("%w: [%d,%d)", ErrOverlappingEdits, e.Start, e.End)
		}
		b.Write(source[pos:e.Start])
		b.Write(e.Replacement)
		pos = e.End
	}
	b.Write(source[pos:])
	return b.Bytes(), nil
}

// MarkerEdits returns one edit per open marker in src, each replacing the
// marker with replacement. When a close marker follows before the next open
// marker, the edit spans through it, so a block generated by an earlier run
// is replaced rather than duplicated.
func MarkerEdits(src []byte, openMarker, closeMarker string, replacement []byte) []Edit {
	openB, closeB := []byte(openMarker), []byte(closeMarker)
	var out []Edit
	pos := 0
	for pos < len(src) {
		i := bytes.Index(src[pos:], openB)
		if i < 0 {
			break
		}
		start := pos + i
		end := start + len(openB)
		if closeMarker != "" {
			rest := src[end:]
			if c := bytes.Index(rest, closeB); c >= 0 {
				if n := bytes.Index(rest, openB); n < 0 || c < n {
					end += c + len(closeB)
				}
			}
		}
		out = append(out, Edit{Start: start, End: end, Replacement: replacement})
		pos = end
	}
	return out
}
