package catalog

import (
	"fmt"

	"go.yaml.in/yaml/v3"
)

// Pair is one key/value entry of an ordered mapping.
type Pair struct {
	Key   string
	Value string
}

// Pairs is a YAML string mapping that keeps document order. Scripts and .env
// entries are written out in the order the catalog lists them.
type Pairs []Pair

// UnmarshalYAML decodes a mapping node entry by entry.
func (p *Pairs) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping", node.Line)
	}
	out := make(Pairs, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var kv Pair
		if err := node.Content[i].Decode(&kv.Key); err != nil {
			return err
		}
		if err := node.Content[i+1].Decode(&kv.Value); err != nil {
			return fmt.Errorf("%s: %w", kv.Key, err)
		}
		out = append(out, kv)
	}
	*p = out
	return nil
}

// MarshalYAML encodes the pairs as a mapping in their current order.
func (p Pairs) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, kv := range p {
		var k, v yaml.Node
		if err := k.Encode(kv.Key); err != nil {
			return nil, err
		}
		if err := v.Encode(kv.Value); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, &k, &v)
	}
	return node, nil
}

// Get returns the value for key.
func (p Pairs) Get(key string) (string, bool) {
	for _, kv := range p {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}

// Keys lists the keys in order.
func (p Pairs) Keys() []string {
	keys := make([]string, len(p))
	for i, kv := range p {
		keys[i] = kv.Key
	}
	return keys
}
