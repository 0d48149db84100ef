// Package hydrate attaches a client build to server-rendered markup.
//
// Hydrate runs the client factory on a live backend that claims server
// elements by hydration key, then compares the server tree (as it was before
// the factory ran) with the client tree. A structural match keeps the server
// nodes. Any mismatch, and any panic, falls back to mounting the client tree
// in place of the server content. Mismatches are diagnostics: they are logged
// with a code and counted, never returned to the caller.
//
// State crosses from server to client in a JSON payload of keyed signal
// values, embedded in the page with ScriptTag and restored before the
// factory runs.
package hydrate
