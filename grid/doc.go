// Package grid holds the per-agent cell arena that belief reasoning and path
// planning operate on. Cells live in a flat slice indexed by y*width+x and
// refer to their traversable neighbors by index, so the traversal graph never
// holds pointers into the arena.
package grid
