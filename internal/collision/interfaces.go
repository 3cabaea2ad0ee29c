package collision

import "github.com/go-gl/mathgl/mgl64"

// Body is the per-body state the collision system reads on Synchronize.
type Body interface {
	Pos() mgl64.Vec3
	Rot() mgl64.Quat
	IsActive() bool
	Collide() bool
}

// BodyList is indexed by body id. At may be called from several
// goroutines at once.
type BodyList interface {
	Len() int
	At(i int) Body
}

type FluidList interface {
	Len() int
	At(i int) mgl64.Vec3
}

// ContactContainer consumes reported contacts. BeginAddContact and
// EndAddContact are always called, even for zero contacts.
type ContactContainer interface {
	BeginAddContact(n int)
	AddContact(i, bodyA, shapeA, bodyB, shapeB int)
	EndAddContact()
}
