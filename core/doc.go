// Package core provides the foundational domain types and collaborator
// interfaces shared by every wumpusmesh package. It defines:
//
//   - Grid coordinates and movement directions (Position, Direction)
//   - Percepts delivered by the environment for the agent's current cell
//   - Knowledge facts and the message envelope used to share them with peers
//   - The Environment and Transport contracts consumed by agents
//
// The package intentionally keeps belief reasoning, planning and concrete
// collaborators (simulator, transports, scheduler) out of scope, exposing
// small interfaces so that alternative backends can be plugged in.
package core
