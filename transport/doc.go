// Package transport provides in-process delivery of knowledge messages
// between agents. Each registered agent owns a buffered inbox; Send applies
// backpressure when an inbox is full and honours the caller's context.
//
// The redis subpackage offers the same contract across processes.
package transport
