package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// stableNamespace seeds deterministic ids for items that arrive without one.
var stableNamespace = uuid.MustParse("6f1d3c0e-5b7a-4e0f-9a53-2b8f4c1d7e90")

// NewID returns a fresh random identifier for a project or resource.
func NewID() string {
	return uuid.NewString()
}

// StableID derives a deterministic identifier from an owner and a position.
// The same inputs always yield the same id.
func StableID(owner, kind string, index int, value string) string {
	name := fmt.Sprintf("%s/%s/%d/%s", owner, kind, index, value)
	return uuid.NewSHA1(stableNamespace, []byte(name)).String()
}
