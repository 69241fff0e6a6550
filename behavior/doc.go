// Package behavior implements the strategy/trigger model that drives an
// agent's deliberation.
//
// A Trigger is either a goal (ClearWorldGoal, TraverseGoal) that stays in the
// agent's goal base until it is processed, or an event (Startup,
// KnowledgeMessage, AgentAnnounced) that is consumed as soon as a strategy is
// selected for it. A Strategy is a descriptor made of a relevance filter, an
// applicability precondition over the belief store and a factory producing a
// stateful Instantiation. Strategies are kept in an ordered Library and
// selection is a linear scan: the first relevant and applicable strategy wins.
//
// Instantiations advance by exactly one step per deliberation tick:
//
//	Pending -> Running -> Finished
//
// The default library contains, in order:
//
//   - initial: perceive, announce the agent, adopt the world-clearing goal
//   - explore: deliver gold, collect gold, visit safe cells, in that priority
//   - traverse: take the next move towards a target cell
//   - knowledge: apply a fact received from a peer
//   - announce: register a newly announced peer
package behavior
