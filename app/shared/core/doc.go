// Package core holds the pieces shared by the pure functions of the feature slices: the DecisionResult
// returned by decide functions and the order projection returned by order queries.
//
// Nothing in here performs I/O: a decide function takes loaded aggregates and a command
// and returns a DecisionResult that the command handler then persists.
package core
