// Package dom is the tree adapter beneath the reconciliation primitives.
//
// A rendered tree is a tree of *Node values. A Backend creates nodes and
// performs the few structural mutations the primitives need: insert relative
// to a reference node, append, remove and index-of. Two backends exist:
//
//   - Memory builds detached trees for server rendering and tests. Nothing
//     reacts to later changes, so primitives run their update once.
//   - Live mirrors every operation to a Host (for example a WebSocket client)
//     as a stream of Mutations. Primitives wrap their update in an effect.
//
// The backend is chosen once per session and passed down explicitly.
//
// Regions are bracketed by marker comments whose data starts with "[" (start)
// or "]" (end). Markers and whitespace-only text carry no content and are
// skipped by the hydration walk.
//
// Render serializes a tree to HTML; Parse reads HTML back into a tree.
package dom
