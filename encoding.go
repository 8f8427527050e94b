package joinery

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parse decodes a spec from JSON or YAML text. Blank input is Empty.
//
//	project                      -> Name
//	[project, {assignee: group}] -> Group
//	{"project": "owner"}         -> Nested
func Parse(data []byte) (Spec, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Spec{}, nil
	}
	if json.Valid(trimmed) {
		return decodeJSON(trimmed)
	}

	var node yaml.Node
	if err := yaml.Unmarshal(trimmed, &node); err != nil {
		return Spec{}, fmt.Errorf("%w: %v", ErrMalformedSpec, err)
	}
	return fromNode(&node)
}

// MarshalJSON encodes s as null, a string, an array or an object whose key
// order follows the spec.
func (s Spec) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := s.encodeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s Spec) encodeJSON(buf *bytes.Buffer) error {
	switch s.kind {
	case KindEmpty:
		buf.WriteString("null")
	case KindName:
		return writeJSONString(buf, s.name)
	case KindGroup:
		buf.WriteByte('[')
		for i, item := range s.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.encodeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindNested:
		buf.WriteByte('{')
		for i, e := range s.entries {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSONString(buf, e.Relation); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := e.Spec.encodeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}

func writeJSONString(buf *bytes.Buffer, v string) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

// UnmarshalJSON decodes the shapes written by MarshalJSON, keeping object
// key order.
func (s *Spec) UnmarshalJSON(data []byte) error {
	out, err := decodeJSON(data)
	if err != nil {
		return err
	}
	*s = out
	return nil
}

func decodeJSON(data []byte) (Spec, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	out, err := decodeJSONValue(dec)
	if err != nil {
		return Spec{}, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Spec{}, fmt.Errorf("%w: trailing data after spec", ErrMalformedSpec)
	}
	return out, nil
}

func decodeJSONValue(dec *json.Decoder) (Spec, error) {
	tok, err := dec.Token()
	if err != nil {
		return Spec{}, fmt.Errorf("%w: %v", ErrMalformedSpec, err)
	}

	switch t := tok.(type) {
	case nil:
		return Spec{}, nil
	case string:
		return nameFrom(t)
	case json.Delim:
		switch t {
		case '[':
			items := []Spec{}
			for dec.More() {
				item, err := decodeJSONValue(dec)
				if err != nil {
					return Spec{}, err
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil {
				return Spec{}, fmt.Errorf("%w: %v", ErrMalformedSpec, err)
			}
			return Spec{kind: KindGroup, items: items}, nil
		case '{':
			entries := []Entry{}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Spec{}, fmt.Errorf("%w: %v", ErrMalformedSpec, err)
				}
				key, _ := keyTok.(string)
				if strings.TrimSpace(key) == "" {
					return Spec{}, fmt.Errorf("%w: blank relation key", ErrMalformedSpec)
				}
				child, err := decodeJSONValue(dec)
				if err != nil {
					return Spec{}, err
				}
				entries = append(entries, Entry{Relation: key, Spec: child})
			}
			if _, err := dec.Token(); err != nil {
				return Spec{}, fmt.Errorf("%w: %v", ErrMalformedSpec, err)
			}
			return Spec{kind: KindNested, entries: entries}, nil
		}
	}
	return Spec{}, fmt.Errorf("%w: unexpected value %v", ErrMalformedSpec, tok)
}

// MarshalYAML encodes s with the same shapes as MarshalJSON.
func (s Spec) MarshalYAML() (interface{}, error) {
	return s.yamlNode(), nil
}

func (s Spec) yamlNode() *yaml.Node {
	switch s.kind {
	case KindName:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s.name}
	case KindGroup:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range s.items {
			n.Content = append(n.Content, item.yamlNode())
		}
		return n
	case KindNested:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, e := range s.entries {
			n.Content = append(n.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Relation},
				e.Spec.yamlNode(),
			)
		}
		return n
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}

// UnmarshalYAML decodes a spec from a YAML node, keeping mapping key order.
func (s *Spec) UnmarshalYAML(node *yaml.Node) error {
	out, err := fromNode(node)
	if err != nil {
		return err
	}
	*s = out
	return nil
}

func fromNode(node *yaml.Node) (Spec, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return Spec{}, nil
		}
		return fromNode(node.Content[0])
	case yaml.AliasNode:
		return fromNode(node.Alias)
	case yaml.ScalarNode:
		switch node.ShortTag() {
		case "!!null":
			return Spec{}, nil
		case "!!str":
			return nameFrom(node.Value)
		}
		return Spec{}, fmt.Errorf("%w: line %d: %s is not a relation name", ErrMalformedSpec, node.Line, node.Value)
	case yaml.SequenceNode:
		items := make([]Spec, 0, len(node.Content))
		for _, c := range node.Content {
			item, err := fromNode(c)
			if err != nil {
				return Spec{}, err
			}
			items = append(items, item)
		}
		return Spec{kind: KindGroup, items: items}, nil
	case yaml.MappingNode:
		entries := make([]Entry, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, val := node.Content[i], node.Content[i+1]
			if key.Kind != yaml.ScalarNode || strings.TrimSpace(key.Value) == "" {
				return Spec{}, fmt.Errorf("%w: line %d: blank or non-scalar relation key", ErrMalformedSpec, key.Line)
			}
			child, err := fromNode(val)
			if err != nil {
				return Spec{}, err
			}
			entries = append(entries, Entry{Relation: key.Value, Spec: child})
		}
		return Spec{kind: KindNested, entries: entries}, nil
	}
	return Spec{}, fmt.Errorf("%w: unsupported YAML node", ErrMalformedSpec)
}

func nameFrom(v string) (Spec, error) {
	if strings.TrimSpace(v) == "" {
		return Spec{}, fmt.Errorf("%w: blank relation name", ErrMalformedSpec)
	}
	return Name(v), nil
}
