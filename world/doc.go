// Package world is the ground-truth wumpus world simulator. It implements
// core.Environment for up to four agents and serializes every call with a
// mutex, so agents running on separate goroutines can share one World.
//
// Each cell is a bitmask of the objects on it (glitter, breeze, stench, pit,
// gold, chest, wumpus and one bit per agent). Breezes and stenches are placed
// around pits and the wumpus when the layout is loaded.
package world
