package hydrate

import (
	"fmt"
	"strings"

	aerrors "github.com/vango-dev/anchor/internal/errors"
	"github.com/vango-dev/anchor/pkg/dom"
)

// significant filters out whitespace-only text and region markers.
func significant(nodes []*dom.Node) []*dom.Node {
	out := make([]*dom.Node, 0, len(nodes))
	for _, n := range nodes {
		if n.Significant() {
			out = append(out, n)
		}
	}
	return out
}

// compareRoots checks the server roots against the client roots, count for
// count and then structurally.
func compareRoots(server, client []*dom.Node) error {
	server, client = significant(server), significant(client)
	if len(server) != len(client) {
		return aerrors.New("E043").
			WithDetailf("root: server has %d nodes, client has %d", len(server), len(client))
	}
	for i := range server {
		if err := walkAndValidate(server[i], client[i], fmt.Sprintf("root[%d]", i)); err != nil {
			return err
		}
	}
	return nil
}

// walkAndValidate compares a server node with a client node recursively.
// Whitespace-only text and region markers on either side are compatible with
// anything. Elements must agree on tag, text nodes on content, and both sides
// must have the same number of significant children.
func walkAndValidate(server, client *dom.Node, path string) error {
	if !server.Significant() || !client.Significant() {
		return nil
	}
	if server.Kind() != client.Kind() {
		return aerrors.New("E040").
			WithDetailf("%s: server %s, client %s", path, server.Kind(), client.Kind())
	}

	switch server.Kind() {
	case dom.KindText:
		if server.Data() != client.Data() {
			return aerrors.New("E041").
				WithDetailf("%s: server %q, client %q", path, server.Data(), client.Data())
		}
		return nil
	case dom.KindElement:
		if server.Tag() != client.Tag() {
			return aerrors.New("E042").
				WithDetailf("%s: server <%s>, client <%s>", path, server.Tag(), client.Tag())
		}
	default:
		return nil
	}

	sc, cc := significant(server.Children()), significant(client.Children())
	if len(sc) != len(cc) {
		return aerrors.New("E043").
			WithDetailf("%s <%s>: server has %d children, client has %d", path, server.Tag(), len(sc), len(cc))
	}
	for i := range sc {
		child := fmt.Sprintf("%s/%s[%d]", path, strings.ToLower(server.Tag()), i)
		if err := walkAndValidate(sc[i], cc[i], child); err != nil {
			return err
		}
	}
	return nil
}
