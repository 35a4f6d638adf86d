// Package process reads the memory of another running process.
package process

import (
	"errors"
	"strings"
)

var (
	ErrProcessNotFound  = errors.New("process not found")
	ErrProcessNotOpen   = errors.New("process not open")
	ErrModuleNotFound   = errors.New("module not found")
	ErrAddressNotMapped = errors.New("address not mapped")
	ErrUnsupported      = errors.New("process access not supported on this platform")
)

// Module is an image loaded in the target.
type Module struct {
	Name string
	Path string
	Base uint64
	Size uint64
}

func (m Module) End() uint64 { return m.Base + m.Size }

func sameName(a, b string) bool {
	return strings.EqualFold(a, b)
}
