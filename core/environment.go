package core

// AgentAnnouncement is the environment event fired when an agent enters the
// world and announces its starting cell.
type AgentAnnouncement struct {
	Agent int
	X, Y  int
}

// Environment is the agent-facing interface of the ground-truth world.
//
// Implementations must serialize calls: several agents invoke it concurrently
// and every call must return only after the world state has been updated.
// Physical rejections (moving off the grid, grabbing where there is no gold)
// are reported through the boolean results, never through errors.
type Environment interface {
	// Width and Height return the world dimensions used to size belief grids.
	Width() int
	Height() int

	// RegisterAgent claims a free agent slot. It returns ErrEnvironmentFull
	// when every slot is taken.
	RegisterAgent() (int, error)

	// Perceive returns the percept of the agent's current cell.
	Perceive(id int) Percept

	// Move moves the agent one cell and reports success.
	Move(id int, d Direction) bool

	// Grab and Drop operate the gripper and return whether the agent holds
	// gold after the call.
	Grab(id int) bool
	Drop(id int) bool

	// AnnounceSelf fires an AgentAnnouncement to every other registered agent.
	AnnounceSelf(id, x, y int)

	// Events returns the announcement stream of a registered agent.
	Events(id int) <-chan AgentAnnouncement
}
