// Package agent contains WumpusAgent, the runtime that binds a belief store
// and a strategy library to an environment and a transport.
//
// A deliberation cycle (Tick) is a behavior tree sequence of five phases:
//
//  1. Goal achiever: drop goals the beliefs satisfy, instantiate strategies
//     for the remaining ones that no running plan pursues yet
//  2. Event handler: queue peer announcements from the environment
//  3. Message handler: drain the transport inbox, dropping message ids
//     already seen (delivery is at least once)
//  4. Outbox: retry sends that found a full peer inbox, never waiting
//  5. Plan executor: advance every running plan by exactly one step
//
// Physical actions only change beliefs when the environment accepts them.
// An agent must be ticked from one goroutine at a time; schedulers such as
// package engine drive it through Node.
package agent
