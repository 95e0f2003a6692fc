// Package geom provides the normalized rectangle and axis types shared by the
// partition engine, its serializers, and the debug renderer.
//
// All coordinates are fractions of the root container: the root is
// [Unit] = {0, 0, 1, 1}, x grows to the right and y grows downward.
// Comparisons are tolerant to floating-point drift via [Epsilon].
package geom
