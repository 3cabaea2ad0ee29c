package shape

import "github.com/go-gl/mathgl/mgl64"

// BodyRef is the part of the external body model a collision model needs.
type BodyRef interface {
	ID() int
	Collide() bool
}

// Model is the collision model of one body: its shapes and family filter.
type Model struct {
	Body   BodyRef
	Family Family
	Shapes []Shape
}

func NewModel(body BodyRef) *Model {
	return &Model{Body: body, Family: DefaultFamily()}
}

func (m *Model) AddShape(s Shape) *Model {
	if s.Rotation == (mgl64.Quat{}) {
		s.Rotation = mgl64.QuatIdent()
	}
	m.Shapes = append(m.Shapes, s)
	return m
}

func (m *Model) NumShapes() int { return len(m.Shapes) }
