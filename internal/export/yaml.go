package export

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ToYAML re-renders exported JSON content as block style YAML with the same key order.
func ToYAML(content []byte) ([]byte, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("parse exported content: %w", err)
	}
	blockStyle(&doc)

	out, err := yaml.Marshal(&doc)
	if err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	return out, nil
}

// blockStyle drops the flow style the JSON syntax left on containers.
// Coordinate pairs stay inline for readability.
func blockStyle(n *yaml.Node) {
	if n.Kind == yaml.SequenceNode && isScalarSequence(n) {
		n.Style = yaml.FlowStyle
		return
	}
	if n.Kind == yaml.MappingNode || n.Kind == yaml.SequenceNode {
		n.Style = 0
	}
	if n.Kind == yaml.ScalarNode && n.Style == yaml.DoubleQuotedStyle && n.Tag == "!!str" {
		n.Style = 0
	}
	for _, child := range n.Content {
		blockStyle(child)
	}
}

func isScalarSequence(n *yaml.Node) bool {
	if len(n.Content) == 0 {
		return false
	}
	for _, child := range n.Content {
		if child.Kind != yaml.ScalarNode {
			return false
		}
	}
	return true
}
