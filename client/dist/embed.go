// Package clientdist holds the browser script that applies live frames.
package clientdist

import _ "embed"

// Path is where the server exposes ClientJS.
const Path = "/_anchor/client.js"

// ClientJS is the browser client. It replaces the server-rendered container
// with the live session's tree, applies every later frame, and sends filter
// and toggle clicks back as keyed signal writes.
//
//go:embed anchor.js
var ClientJS []byte
