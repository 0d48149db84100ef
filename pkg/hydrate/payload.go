package hydrate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"

	aerrors "github.com/vango-dev/anchor/internal/errors"
	"github.com/vango-dev/anchor/pkg/dom"
	"github.com/vango-dev/anchor/pkg/reactive"
)

// PayloadVersion is the payload format version written by Capture.
const PayloadVersion = 1

// ScriptID is the id of the script element carrying the payload.
const ScriptID = "__anchor_state"

// Payload is the state handed from server to client.
type Payload struct {
	State   State `json:"state"`
	Version int   `json:"version"`
}

// State holds keyed signal values.
type State struct {
	Signals map[string]json.RawMessage `json:"signals"`
}

// Capture snapshots every keyed signal of rt.
func Capture(rt *reactive.Runtime) (*Payload, error) {
	snap := rt.Registry().Snapshot()
	p := &Payload{
		State:   State{Signals: make(map[string]json.RawMessage, len(snap))},
		Version: PayloadVersion,
	}
	for key, v := range snap {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, aerrors.New("E044").WithDetailf("encode signal %q", key).Wrap(err)
		}
		p.State.Signals[key] = raw
	}
	return p, nil
}

// Encode returns the JSON form of p.
func Encode(p *Payload) ([]byte, error) {
	return json.Marshal(p)
}

// Decode parses a payload. Payloads of another version are rejected.
func Decode(data []byte) (*Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, aerrors.New("E044").Wrap(err)
	}
	if p.Version != PayloadVersion {
		return nil, aerrors.New("E044").WithDetailf("unsupported version %d", p.Version)
	}
	if p.State.Signals == nil {
		p.State.Signals = map[string]json.RawMessage{}
	}
	return &p, nil
}

// ScriptTag returns the payload as an embeddable script element.
// json.Marshal escapes <, > and &, so the content cannot close the element.
func ScriptTag(p *Payload) (template.HTML, error) {
	data, err := Encode(p)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<script type="application/json" id="%s">`, ScriptID)
	buf.Write(data)
	buf.WriteString("</script>")
	return template.HTML(buf.String()), nil
}

// ScriptNode returns the payload as a script element built with b.
func ScriptNode(b dom.Backend, p *Payload) (*dom.Node, error) {
	data, err := Encode(p)
	if err != nil {
		return nil, err
	}
	return dom.El(b, "script", dom.Attrs{"type": "application/json", "id": ScriptID}, dom.Text(b, string(data))), nil
}

// Extract finds the payload script below root and decodes it.
func Extract(root *dom.Node) (*Payload, error) {
	var script *dom.Node
	dom.Walk(root, func(n *dom.Node) bool {
		if script != nil {
			return false
		}
		if n.Kind() == dom.KindElement && n.Tag() == "script" {
			if id, _ := n.Attr("id"); id == ScriptID {
				script = n
				return false
			}
		}
		return true
	})
	if script == nil {
		return nil, aerrors.New("E044").WithDetail("no payload script found")
	}

	var buf bytes.Buffer
	for _, c := range script.Children() {
		buf.WriteString(c.Data())
	}
	return Decode(buf.Bytes())
}
