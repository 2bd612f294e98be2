package analyzer

import (
	"fmt"
	"strconv"

	"github.com/nishanthkj/llmkit/internal/models"
)

// Shape summarizes the structure of a canonical value. Serializers whose
// target has a narrower type system consult it before rendering.
type Shape struct {
	Root  models.Kind
	Depth int // 0 for scalars, 1 for a flat sequence or mapping
	Nodes map[models.Kind]int

	// Tabular is true for a sequence whose items are all mappings with
	// scalar values only.
	Tabular bool
	// Columns is the union of row keys in first-seen order. Set whenever the
	// root is a sequence of mappings, tabular or not.
	Columns []string
	// NonMappingRow is the index of the first sequence item that is not a
	// mapping, or -1.
	NonMappingRow int
	// NestedCell locates the first row value holding a sequence or mapping.
	NestedCell string

	// NullInSequence locates the first null stored directly in a sequence.
	NullInSequence string
}

// NodeCount returns the total number of nodes in the value.
func (s Shape) NodeCount() int {
	n := 0
	for _, c := range s.Nodes {
		n += c
	}
	return n
}

// Analyzer walks canonical values and reports their Shape.
type Analyzer struct {
	shape      Shape
	columnSeen map[string]bool
}

// NewAnalyzer creates a new Analyzer instance.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze returns the shape of v.
func (a *Analyzer) Analyze(v models.Value) Shape {
	a.shape = Shape{
		Root:          kindOf(v),
		Nodes:         make(map[models.Kind]int),
		NonMappingRow: -1,
	}
	a.columnSeen = make(map[string]bool)

	a.shape.Depth = a.walk(v, "$")
	if seq, ok := v.(models.Sequence); ok {
		a.analyzeRows(seq)
	}
	return a.shape
}

// walk counts nodes, records nulls held by sequences and returns the depth
// of the subtree.
func (a *Analyzer) walk(v models.Value, path string) int {
	a.shape.Nodes[kindOf(v)]++
	depth := 0
	switch val := v.(type) {
	case models.Sequence:
		for i, item := range val {
			itemPath := path + "[" + strconv.Itoa(i) + "]"
			if kindOf(item) == models.KindNull && a.shape.NullInSequence == "" {
				a.shape.NullInSequence = itemPath
			}
			depth = max(depth, a.walk(item, itemPath))
		}
		return depth + 1
	case *models.Mapping:
		for k, item := range val.All() {
			depth = max(depth, a.walk(item, path+"."+k))
		}
		return depth + 1
	default:
		return 0
	}
}

func (a *Analyzer) analyzeRows(rows models.Sequence) {
	tabular := true
	for i, row := range rows {
		m, ok := row.(*models.Mapping)
		if !ok {
			if a.shape.NonMappingRow < 0 {
				a.shape.NonMappingRow = i
			}
			tabular = false
			continue
		}
		for k, cell := range m.All() {
			if !a.columnSeen[k] {
				a.columnSeen[k] = true
				a.shape.Columns = append(a.shape.Columns, k)
			}
			if kind := kindOf(cell); kind == models.KindSequence || kind == models.KindMapping {
				if a.shape.NestedCell == "" {
					a.shape.NestedCell = fmt.Sprintf("row %d, column %q", i+1, k)
				}
				tabular = false
			}
		}
	}
	a.shape.Tabular = tabular
}

func kindOf(v models.Value) models.Kind {
	if v == nil {
		return models.KindNull
	}
	return v.Kind()
}
