// Package planner computes shortest paths over an agent's traversal graph and
// translates them into moves.
//
// Plans are never cached: callers recompute distances whenever the agent moves
// or its beliefs change, then execute only the first step of a fresh plan.
package planner
