package parser

import (
	"fmt"
	"math"
	"strings"

	"github.com/nishanthkj/llmkit/internal/errors"
	"github.com/nishanthkj/llmkit/internal/models"
	"gopkg.in/yaml.v3"
)

const yamlMergeTag = "!!merge"

// ParseYAML parses the first YAML document. Plain scalars are typed with the
// YAML resolver, anchors and aliases are resolved and << merge keys are
// expanded with explicit keys taking precedence.
func ParseYAML(text string) (models.Value, error) {
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(text), &root); err != nil {
		return nil, errors.NewParsingError(string(models.FormatYAML), "invalid YAML document", err)
	}
	v, err := convertYAMLNode(&root, 0)
	if err != nil {
		return nil, errors.NewParsingError(string(models.FormatYAML), err.Error(), err)
	}
	return v, nil
}

// maxYAMLDepth bounds alias expansion so that self-referencing anchors
// cannot recurse forever.
const maxYAMLDepth = 1000

func convertYAMLNode(node *yaml.Node, depth int) (models.Value, error) {
	if depth > maxYAMLDepth {
		return nil, fmt.Errorf("document nesting exceeds %d levels", maxYAMLDepth)
	}
	switch node.Kind {
	case 0:
		// Empty document
		return models.Null{}, nil
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return models.Null{}, nil
		}
		return convertYAMLNode(node.Content[0], depth+1)
	case yaml.AliasNode:
		return convertYAMLNode(node.Alias, depth+1)
	case yaml.SequenceNode:
		seq := make(models.Sequence, 0, len(node.Content))
		for _, item := range node.Content {
			v, err := convertYAMLNode(item, depth+1)
			if err != nil {
				return nil, err
			}
			seq = append(seq, v)
		}
		return seq, nil
	case yaml.MappingNode:
		return convertYAMLMapping(node, depth)
	case yaml.ScalarNode:
		return convertYAMLScalar(node)
	default:
		return nil, fmt.Errorf("line %d: unsupported YAML node kind %d", node.Line, node.Kind)
	}
}

func convertYAMLMapping(node *yaml.Node, depth int) (models.Value, error) {
	m := models.NewMapping()
	explicit := make(map[string]bool)
	type pair struct {
		key   string
		merge bool
		value *yaml.Node
	}
	pairs := make([]pair, 0, len(node.Content)/2)

	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode := resolveAlias(node.Content[i])
		valueNode := node.Content[i+1]
		if keyNode.Kind == yaml.ScalarNode && keyNode.ShortTag() == yamlMergeTag {
			pairs = append(pairs, pair{merge: true, value: valueNode})
			continue
		}
		key, err := yamlKeyText(keyNode, depth)
		if err != nil {
			return nil, err
		}
		explicit[key] = true
		pairs = append(pairs, pair{key: key, value: valueNode})
	}

	for _, p := range pairs {
		if !p.merge {
			v, err := convertYAMLNode(p.value, depth+1)
			if err != nil {
				return nil, err
			}
			m.Set(p.key, v)
			continue
		}
		sources, err := mergeSources(p.value, depth)
		if err != nil {
			return nil, err
		}
		for _, src := range sources {
			for k, v := range src.All() {
				if _, done := m.Get(k); explicit[k] || done {
					continue
				}
				m.Set(k, v)
			}
		}
	}
	return m, nil
}

// mergeSources returns the mappings named by a << value: a single mapping
// or a sequence of mappings.
func mergeSources(node *yaml.Node, depth int) ([]*models.Mapping, error) {
	node = resolveAlias(node)
	var nodes []*yaml.Node
	switch node.Kind {
	case yaml.MappingNode:
		nodes = []*yaml.Node{node}
	case yaml.SequenceNode:
		nodes = node.Content
	default:
		return nil, fmt.Errorf("line %d: merge key value must be a mapping or a sequence of mappings", node.Line)
	}

	out := make([]*models.Mapping, 0, len(nodes))
	for _, n := range nodes {
		v, err := convertYAMLNode(n, depth+1)
		if err != nil {
			return nil, err
		}
		m, ok := v.(*models.Mapping)
		if !ok {
			return nil, fmt.Errorf("line %d: merge key value must be a mapping or a sequence of mappings", n.Line)
		}
		out = append(out, m)
	}
	return out, nil
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

// yamlKeyText renders a mapping key as a string. Scalar keys use their text;
// collection keys use their compact JSON form.
func yamlKeyText(node *yaml.Node, depth int) (string, error) {
	if node.Kind == yaml.ScalarNode {
		return node.Value, nil
	}
	v, err := convertYAMLNode(node, depth+1)
	if err != nil {
		return "", err
	}
	b, err := models.EncodeJSON(v, false)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func convertYAMLScalar(node *yaml.Node) (models.Value, error) {
	switch node.ShortTag() {
	case "!!null":
		return models.Null{}, nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return models.Bool(b), nil
	case "!!int":
		if n, ok := models.ParseNumber(node.Value); ok && n.IsInteger() {
			return n, nil
		}
		var i int64
		if err := node.Decode(&i); err != nil {
			// Out of int64 range with a non-JSON spelling
			return models.String(node.Value), nil
		}
		return models.IntNumber(i), nil
	case "!!float":
		if n, ok := models.ParseNumber(node.Value); ok && !n.IsInteger() {
			return n, nil
		}
		var f float64
		if err := node.Decode(&f); err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return models.String(strings.TrimSpace(node.Value)), nil
		}
		n, _ := models.FloatNumber(f)
		return n, nil
	default:
		// !!str, !!timestamp, !!binary and local tags keep their text
		return models.String(node.Value), nil
	}
}
