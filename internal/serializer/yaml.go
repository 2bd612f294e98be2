//go:build !llmkit_noyaml

package serializer

import (
	"bytes"
	"fmt"

	"github.com/nishanthkj/llmkit/internal/models"
	"gopkg.in/yaml.v3"
)

func init() {
	register(models.TargetYAML, YAML)
}

// YAML renders v as a block-style YAML document. Every value has a YAML
// form, so only an invalid tree fails.
func YAML(v models.Value, opts Options) (string, error) {
	opts = opts.withDefaults()
	node, err := yamlNode(v)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(opts.YAMLIndent)
	if err := enc.Encode(node); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// yamlNode builds an explicitly tagged node tree so that mapping order is
// kept and strings that look like numbers or booleans come out quoted.
func yamlNode(v models.Value) (*yaml.Node, error) {
	switch val := v.(type) {
	case nil, models.Null:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case models.Bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: fmt.Sprint(bool(val))}, nil
	case models.Number:
		tag := "!!float"
		if val.IsInteger() {
			tag = "!!int"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: string(val)}, nil
	case models.String:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: string(val)}, nil
	case models.Sequence:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range val {
			child, err := yamlNode(item)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, child)
		}
		return node, nil
	case *models.Mapping:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for k, item := range val.All() {
			child, err := yamlNode(item)
			if err != nil {
				return nil, err
			}
			key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}
			node.Content = append(node.Content, key, child)
		}
		return node, nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
}
