// Package belief implements an agent's private model of the wumpus world.
//
// A Store owns one grid.Grid together with the agent's self model and the
// tracking lists of interesting cells. Every mutation (a percept, a fact
// received from a peer, the outcome of a gripper action) is followed by a full
// consistency pass that propagates hazard constraints, derives safe cells,
// localizes the wumpus and extends the traversal graph, and by a fresh
// shortest-path run from the agent's position.
//
// Stores are not safe for concurrent use. Each agent mutates its own store
// from a single goroutine.
package belief
