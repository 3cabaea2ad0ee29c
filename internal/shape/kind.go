// Package shape describes collision geometry as it is handed to the
// collision system: a closed set of shape kinds, their parameters in a
// shape-local frame, and the collision model grouping shapes per body.
package shape

import "fmt"

type Kind uint8

const (
	Sphere Kind = iota
	Ellipsoid
	Box
	Cylinder
	CylShell
	Cone
	Capsule
	RoundedBox
	RoundedCyl
	RoundedCone
	Convex
	Triangle

	numKinds
)

var kindNames = [...]string{
	Sphere:      "sphere",
	Ellipsoid:   "ellipsoid",
	Box:         "box",
	Cylinder:    "cylinder",
	CylShell:    "cylshell",
	Cone:        "cone",
	Capsule:     "capsule",
	RoundedBox:  "rounded_box",
	RoundedCyl:  "rounded_cylinder",
	RoundedCone: "rounded_cone",
	Convex:      "convex",
	Triangle:    "triangle",
}

func (k Kind) String() string {
	if k < numKinds {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

func (k Kind) Valid() bool { return k < numKinds }

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("shape: unknown kind %q", s)
}

// Kinds lists every valid kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, numKinds)
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}

// BoxLike reports kinds stored as a single Vec3 parameter block.
func (k Kind) BoxLike() bool {
	switch k {
	case Ellipsoid, Box, Cylinder, CylShell, Cone:
		return true
	}
	return false
}

// Rounded reports kinds stored as Vec3 dimensions plus a rounding radius.
func (k Kind) Rounded() bool {
	return k == RoundedBox || k == RoundedCyl || k == RoundedCone
}
