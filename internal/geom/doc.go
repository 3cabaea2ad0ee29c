// Package geom provides the small amount of spatial vocabulary shared by the
// collision pipeline: axis-aligned boxes and rigid poses built on mgl64.
//
//   - [AABB]: axis-aligned bounding box with overlap and merge helpers
//   - [Pose]: position plus unit quaternion, composed body-then-local
//
// All types are plain values and safe to copy between goroutines.
package geom
