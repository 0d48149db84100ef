// Package flow provides the region-scoped reconciliation primitives:
// For (list by value), Index (list by position), Show (two-way branch) and
// ErrorBoundary.
//
// Each primitive inserts a pair of marker comments once and afterwards only
// touches nodes between them. On a non-live backend the update runs exactly
// once with nothing subscribed. On a live backend the update runs inside an
// effect, so a change to any signal it read re-runs it.
//
// Render closures for items and branches run untracked, inside an owner of
// their own. Removing an item or switching a branch disposes that owner, which
// releases every effect the closure created.
package flow
