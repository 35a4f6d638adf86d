// Package housing decodes the housing state of a running game client: the zone the player is in,
// the placed objects of the current territory and the interior and exterior fixtures.
package housing

import (
	"errors"
	"fmt"

	"housemem/internal/sigscan"
)

// ErrPatternNotFound is matched by resolution failures caused by a missing signature.
var ErrPatternNotFound = sigscan.ErrPatternNotFound

// Signature locates a static address: the global referenced by the instruction matched by Pattern.
type Signature struct {
	Name    string
	Pattern string
	Offset  int
}

// Signatures are the signatures of the two root structures.
type Signatures struct {
	HousingModule Signature
	LayoutWorld   Signature
}

// DefaultSignatures returns the signatures known to match the current client.
func DefaultSignatures() Signatures {
	return Signatures{
		HousingModule: Signature{Name: "HousingModule", Pattern: "48 8B 05 ?? ?? ?? ?? 8B 52"},
		LayoutWorld:   Signature{Name: "LayoutWorld", Pattern: "48 8B 0D ?? ?? ?? ?? 85 C0 74 15"},
	}
}

// Scanner resolves a signature to a static address.
type Scanner interface {
	StaticAddress(pattern string, offset int) (uint64, error)
}

var _ Scanner = (*sigscan.Scanner)(nil)

// Bases are the static slots holding the root structure pointers. Zero means unresolved.
type Bases struct {
	HousingModule uint64
	LayoutWorld   uint64
}

// ResolutionError reports a signature that could not be resolved.
type ResolutionError struct {
	Name    string
	Pattern string
	Err     error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve %s (%s): %v", e.Name, e.Pattern, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// ResolveBases resolves both root slots. A failed slot stays zero while the other is kept;
// the failures are joined into the returned error.
func ResolveBases(scanner Scanner, sigs Signatures) (Bases, error) {
	var bases Bases
	var errs []error
	resolve := func(sig Signature, dst *uint64) {
		addr, err := scanner.StaticAddress(sig.Pattern, sig.Offset)
		if err != nil {
			errs = append(errs, &ResolutionError{Name: sig.Name, Pattern: sig.Pattern, Err: err})
			return
		}
		*dst = addr
	}
	resolve(sigs.HousingModule, &bases.HousingModule)
	resolve(sigs.LayoutWorld, &bases.LayoutWorld)
	return bases, errors.Join(errs...)
}
