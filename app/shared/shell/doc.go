// Package shell is the imperative shell around the feature slices: retrying units of work that lost
// a concurrency race, reporting handler outcomes, instrumenting handlers with logs, metrics and spans,
// and publishing order notifications once their unit of work has committed.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would be
// called the 'infrastructure' layer.
package shell
