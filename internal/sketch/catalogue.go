// Package sketch draws the fixed set of guide templates users can trace.
package sketch

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownTemplate is returned by Lookup for a name outside the catalogue.
var ErrUnknownTemplate = errors.New("unknown template")

// Name identifies one template in the catalogue.
type Name string

const (
	Cat       Name = "cat"
	Dog       Name = "dog"
	Bird      Name = "bird"
	Fish      Name = "fish"
	Flower    Name = "flower"
	Tree      Name = "tree"
	Butterfly Name = "butterfly"
	House     Name = "house"
)

// Catalogue lists every template in picker order.
var Catalogue = []Name{Cat, Dog, Bird, Fish, Flower, Tree, Butterfly, House}

// Valid reports whether n is in the catalogue.
func (n Name) Valid() bool {
	_, ok := sketches[n]
	return ok
}

// Lookup resolves a user-supplied template name.
func Lookup(s string) (Name, error) {
	n := Name(strings.ToLower(strings.TrimSpace(s)))
	if !n.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownTemplate, s)
	}
	return n, nil
}
