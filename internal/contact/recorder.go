// Package contact provides an in-memory contact container for the
// collision system's report bracket.
package contact

import "fmt"

// Record is one reported contact. Shape indices are local to each body's
// collision model.
type Record struct {
	Index  int
	BodyA  int
	ShapeA int
	BodyB  int
	ShapeB int
}

// Recorder keeps the contacts of the most recent report.
type Recorder struct {
	Records []Record

	expected int
	open     bool
	begins   int
	ends     int
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) BeginAddContact(n int) {
	if cap(r.Records) < n {
		r.Records = make([]Record, 0, n)
	}
	r.Records = r.Records[:0]
	r.expected = n
	r.open = true
	r.begins++
}

func (r *Recorder) AddContact(i, bodyA, shapeA, bodyB, shapeB int) {
	r.Records = append(r.Records, Record{Index: i, BodyA: bodyA, ShapeA: shapeA, BodyB: bodyB, ShapeB: shapeB})
}

func (r *Recorder) EndAddContact() {
	r.open = false
	r.ends++
}

func (r *Recorder) Len() int { return len(r.Records) }

// Brackets returns how many reports were begun and ended.
func (r *Recorder) Brackets() (begins, ends int) { return r.begins, r.ends }

// Check verifies the last report was closed and delivered the announced
// number of contacts with consecutive indices.
func (r *Recorder) Check() error {
	if r.open {
		return fmt.Errorf("contact: report still open")
	}
	if len(r.Records) != r.expected {
		return fmt.Errorf("contact: announced %d contacts, received %d", r.expected, len(r.Records))
	}
	for i, rec := range r.Records {
		if rec.Index != i {
			return fmt.Errorf("contact: record %d has index %d", i, rec.Index)
		}
	}
	return nil
}

// Touching reports whether bodies a and b share a contact, in either order.
func (r *Recorder) Touching(a, b int) bool {
	for _, rec := range r.Records {
		if (rec.BodyA == a && rec.BodyB == b) || (rec.BodyA == b && rec.BodyB == a) {
			return true
		}
	}
	return false
}

// PerBody counts contacts per body id.
func (r *Recorder) PerBody() map[int]int {
	out := make(map[int]int)
	for _, rec := range r.Records {
		out[rec.BodyA]++
		out[rec.BodyB]++
	}
	return out
}
