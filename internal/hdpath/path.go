// Package hdpath parses and builds hierarchical derivation paths.
package hdpath

import (
	"strconv"
	"strings"

	kiterr "github.com/mrz1836/hdkit/pkg/errors"
)

// HardenedOffset is added to an index to form a hardened child number.
const HardenedOffset uint32 = 0x80000000

// Segment is one step of a path.
type Segment struct {
	Index    uint32 // always below HardenedOffset
	Hardened bool
}

// ChildNumber returns the serialized child number for the segment.
func (s Segment) ChildNumber() uint32 {
	if s.Hardened {
		return s.Index + HardenedOffset
	}
	return s.Index
}

func (s Segment) String() string {
	str := strconv.FormatUint(uint64(s.Index), 10)
	if s.Hardened {
		str += "'"
	}
	return str
}

// Path is an ordered list of segments applied left to right from the root.
// An empty Path denotes the root itself.
type Path []Segment

// Parse reads a path of the form m/44'/0'/0'/0. The leading m is
// case-insensitive and a trailing ' marks a hardened segment.
func Parse(s string) (Path, error) {
	s = strings.TrimSpace(s)
	if s == "" || (s[0] != 'm' && s[0] != 'M') {
		return nil, kiterr.WithDetails(kiterr.ErrMustStartWithM, map[string]string{"path": s})
	}

	rest := s[1:]
	if rest == "" {
		return Path{}, nil
	}
	if rest[0] != '/' {
		return nil, invalidChar(s, rest[0])
	}

	elems := strings.Split(rest[1:], "/")
	path := make(Path, 0, len(elems))
	for i, elem := range elems {
		seg, err := parseSegment(s, elem)
		if err != nil {
			return nil, kiterr.Wrap(err, "segment %d", i+1)
		}
		path = append(path, seg)
	}
	return path, nil
}

// MustParse is Parse for constant paths. It panics on error.
func MustParse(s string) Path {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

func parseSegment(path, elem string) (Segment, error) {
	var seg Segment
	if strings.HasSuffix(elem, "'") {
		seg.Hardened = true
		elem = elem[:len(elem)-1]
	}
	if elem == "" {
		return Segment{}, kiterr.WithDetails(kiterr.ErrInvalidPathCharacter, map[string]string{
			"path":   path,
			"reason": "empty segment",
		})
	}
	for i := 0; i < len(elem); i++ {
		if elem[i] < '0' || elem[i] > '9' {
			return Segment{}, invalidChar(path, elem[i])
		}
	}

	v, err := strconv.ParseUint(elem, 10, 32)
	if err != nil || v >= uint64(HardenedOffset) {
		return Segment{}, kiterr.WithDetails(kiterr.ErrIndexOutOfRange, map[string]string{
			"path":  path,
			"index": elem,
		})
	}
	seg.Index = uint32(v)
	return seg, nil
}

func invalidChar(path string, c byte) error {
	return kiterr.WithDetails(kiterr.ErrInvalidPathCharacter, map[string]string{
		"path":      path,
		"character": strconv.QuoteRune(rune(c)),
	})
}

// String returns the canonical form, "m" for the root.
func (p Path) String() string {
	var b strings.Builder
	b.WriteString("m")
	for _, seg := range p {
		b.WriteByte('/')
		b.WriteString(seg.String())
	}
	return b.String()
}

// Append returns a new path with segs added. p is not modified.
func (p Path) Append(segs ...Segment) Path {
	out := make(Path, 0, len(p)+len(segs))
	out = append(out, p...)
	return append(out, segs...)
}

// Equal reports whether both paths have the same segments in the same order.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// Child returns the segment for index, hardened when requested. It fails
// with ErrIndexOutOfRange for indices at or above HardenedOffset.
func Child(index uint64, hardened bool) (Segment, error) {
	if index >= uint64(HardenedOffset) {
		return Segment{}, kiterr.WithDetails(kiterr.ErrIndexOutOfRange, map[string]string{
			"index": strconv.FormatUint(index, 10),
		})
	}
	return Segment{Index: uint32(index), Hardened: hardened}, nil
}
