// Package live streams a reactive tree to a remote host over WebSocket.
//
// A Session owns one runtime and one live backend. Every tree operation the
// backend performs is queued as a dom.Mutation; Flush drains the queue into
// a Frame. Clients drive the session by writing keyed signals:
//
//	{"key": "todo.filter", "value": "done"}
//
// The write propagates synchronously and the resulting mutations are sent
// back as the next frame:
//
//	{"seq": 2, "mutations": [{"op": "text", "id": 14, "value": "1 left"}]}
//
// Handler wires a Session to each WebSocket connection. Sessions are driven
// under a mutex, so a runtime is never entered by two goroutines at once.
package live
