package shape

// MaxFamilies is the number of distinct collision families.
const MaxFamilies = 15

// Family holds the collision family bitmasks of a model. Group has exactly
// the bit of the family the model belongs to; Mask has a bit set for every
// family the model may collide with.
type Family struct {
	Group uint16
	Mask  uint16
}

// DefaultFamily puts a model in family 0, colliding with everything.
func DefaultFamily() Family {
	return Family{Group: 1, Mask: 0x7FFF}
}

// SetFamily moves the model into family f (0..MaxFamilies-1).
func (f *Family) SetFamily(fam int) {
	if fam < 0 || fam >= MaxFamilies {
		return
	}
	f.Group = 1 << uint(fam)
}

func (f *Family) DisableCollisionWith(fam int) {
	if fam < 0 || fam >= MaxFamilies {
		return
	}
	f.Mask &^= 1 << uint(fam)
}

func (f *Family) EnableCollisionWith(fam int) {
	if fam < 0 || fam >= MaxFamilies {
		return
	}
	f.Mask |= 1 << uint(fam)
}

// Collides is true when each side's group is accepted by the other's mask.
// The test is symmetric in its arguments.
func Collides(a, b Family) bool {
	return a.Group&b.Mask != 0 && b.Group&a.Mask != 0
}
