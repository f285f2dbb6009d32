// Package query implements the generic paginated query engine: an
// immutable Builder parameterized over a result type, driven by a
// per-endpoint Spec and executed through an injected Executor.
//
// Builders are values. Configuration methods (AddFilter, Limit,
// PageSize, MaxPages, OrderBy) return modified copies, so partially
// configured queries can be shared and forked safely. Access methods
// fetch pages strictly sequentially: Iterate yields lazily, All and
// First materialize, At and Slice fetch only the pages their indices
// cover, and Count prefers a spec-provided count endpoint over
// iterating.
package query
