// Package acceptance runs the Gherkin scenarios under features/ against the in-memory engine
// and the real command handlers.
package acceptance
