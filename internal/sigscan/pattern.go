// Package sigscan locates code in a loaded module by byte signature and resolves the static
// data addresses that signature-matched instructions refer to.
package sigscan

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrBadPattern      = errors.New("malformed signature pattern")
	ErrPatternNotFound = errors.New("signature pattern not found")
)

// Pattern is a byte signature with wildcard positions.
type Pattern struct {
	Bytes []byte
	Mask  []bool // true where the byte must match
}

// ParsePattern parses a space separated hex signature such as "48 8B 05 ?? ?? ?? ?? 8B 52".
// Both "?" and "??" are wildcards.
func ParsePattern(s string) (Pattern, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Pattern{}, fmt.Errorf("%w: empty", ErrBadPattern)
	}
	p := Pattern{
		Bytes: make([]byte, len(fields)),
		Mask:  make([]bool, len(fields)),
	}
	for i, tok := range fields {
		if tok == "?" || tok == "??" {
			continue
		}
		v, err := strconv.ParseUint(tok, 16, 8)
		if err != nil || len(tok) != 2 {
			return Pattern{}, fmt.Errorf("%w: token %d %q", ErrBadPattern, i, tok)
		}
		p.Bytes[i] = byte(v)
		p.Mask[i] = true
	}
	if !p.Mask[0] {
		return Pattern{}, fmt.Errorf("%w: leading wildcard", ErrBadPattern)
	}
	return p, nil
}

// MustParsePattern is ParsePattern for compile-time constant signatures.
func MustParsePattern(s string) Pattern {
	p, err := ParsePattern(s)
	if err != nil {
		panic(err)
	}
	return p
}

// Len returns the signature length in bytes.
func (p Pattern) Len() int { return len(p.Bytes) }

// Index returns the offset of the first match of p in data, or -1.
func (p Pattern) Index(data []byte) int {
	n := len(p.Bytes)
	if n == 0 {
		return -1
	}
	first := p.Bytes[0]
	for i := 0; i+n <= len(data); i++ {
		if data[i] != first {
			continue
		}
		if p.matchAt(data[i : i+n]) {
			return i
		}
	}
	return -1
}

func (p Pattern) matchAt(window []byte) bool {
	for j, b := range window {
		if p.Mask[j] && b != p.Bytes[j] {
			return false
		}
	}
	return true
}

func (p Pattern) String() string {
	var sb strings.Builder
	for i, b := range p.Bytes {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if !p.Mask[i] {
			sb.WriteString("??")
			continue
		}
		fmt.Fprintf(&sb, "%02X", b)
	}
	return sb.String()
}
