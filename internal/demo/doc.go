// Package demo is a small todo application built on the anchor primitives.
// The serve, render and hydrate commands run it.
//
// Its state lives in two keyed signals, so it survives hydration and can be
// driven over the live endpoint:
//
//	{"key": "filter", "value": "done"}
//	{"key": "todos", "value": [{"id": 1, "title": "ship", "done": true}]}
package demo
