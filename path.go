package icdb

import (
	"path/filepath"
	"runtime"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// caseInsensitiveFS reports whether the host filesystem compares paths
// case-insensitively.
var caseInsensitiveFS = runtime.GOOS == "windows" || runtime.GOOS == "darwin"

// PathKeyDescriptor indexes persistent maps keyed by file-system paths.
//
// In the default mode, hashing and equality follow host OS semantics:
// separators are normalized and case is folded when the host filesystem is
// case-insensitive. In portable mode, keys are canonicalized (absolute,
// slash-separated, cleaned, lower-cased) before hashing, so the same inputs
// produce identical keys on every machine; the empty path hashes to the
// fixed sentinel 0. Portable stores are shareable across machines at the
// cost of host-specific fast paths.
//
// The mode is fixed at construction and must match the store the descriptor
// reads from.
type PathKeyDescriptor struct {
	Portable bool

	// FoldCase makes default-mode comparison case-insensitive. Set from the
	// host filesystem by NewPathKeyDescriptor; overridable for tests.
	FoldCase bool
}

var _ KeyDescriptor[string] = PathKeyDescriptor{}

func NewPathKeyDescriptor(portable bool) PathKeyDescriptor {
	return PathKeyDescriptor{Portable: portable, FoldCase: caseInsensitiveFS}
}

func (d PathKeyDescriptor) Save(out *Output, p string) error {
	return out.WriteString(p)
}

func (d PathKeyDescriptor) Read(in *Input) (string, error) {
	return in.ReadString()
}

func (d PathKeyDescriptor) Hash(p string) uint64 {
	if d.Portable {
		if p == "" {
			return 0
		}
		return xxhash.Sum64String(portablePath(p))
	}
	return xxhash.Sum64String(d.hostPath(p))
}

func (d PathKeyDescriptor) Equal(a, b string) bool {
	if d.Portable {
		if a == "" || b == "" {
			return a == b
		}
		return portablePath(a) == portablePath(b)
	}
	return d.hostPath(a) == d.hostPath(b)
}

// portablePath is the canonical machine-independent form: absolute where
// resolvable, slash-separated, dot-segments collapsed, lower-cased.
func portablePath(p string) string {
	if !filepath.IsAbs(p) {
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
	}
	return strings.ToLower(filepath.ToSlash(filepath.Clean(p)))
}

// hostPath normalizes separators and, on case-insensitive filesystems, case,
// leaving everything else to OS path semantics.
func (d PathKeyDescriptor) hostPath(p string) string {
	p = filepath.ToSlash(filepath.Clean(p))
	if d.FoldCase {
		p = strings.ToLower(p)
	}
	return p
}
