// Package collision implements a multicore broadphase and narrowphase for
// rigid bodies carrying one or more convex shapes.
//
// The pipeline runs once per simulation step:
//
//	sys := collision.New(collision.DefaultConfig())
//	sys.Add(model)                  // once per body
//	sys.Synchronize(bodies)         // pull poses and flags
//	sys.Run()                       // AABBs, grid broadphase, narrowphase
//	sys.ReportContacts(container)   // push contacts out
//
// # Data layout
//
// Shapes live in [ShapeData], a structure of arrays: every per-shape slice
// is index-aligned and kind-specific parameters sit in per-kind pools that
// records address through (Start, Length). All mutation goes through
// [Data.Add] and [Data.Remove].
//
// # Concurrency
//
// Stages run one after another. Within a stage, loops are split across
// goroutines with package parallel and every iteration writes only its own
// output slot. Add and Remove must not be called concurrently with Run.
package collision
