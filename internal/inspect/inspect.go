// Package inspect extracts feature importances and single-tree structure
// from a fitted classifier, when the family exposes those signals.
package inspect

import (
	"fmt"
	"sort"

	"pitchlab/internal/models"
)

// UnsupportedOperationError reports an extraction the model family cannot
// serve (e.g. importances on a nearest-neighbor model).
type UnsupportedOperationError struct {
	Model string
	Op    string
}

func (e UnsupportedOperationError) Error() string {
	return fmt.Sprintf("inspect: %s does not support %s", e.Model, e.Op)
}

// TreeIndexError reports an explicit tree index outside the ensemble.
type TreeIndexError struct {
	Index int
	Count int
}

func (e TreeIndexError) Error() string {
	return fmt.Sprintf("inspect: tree index %d out of range [0,%d)", e.Index, e.Count)
}

// FeatureImporter is implemented by families with an internal
// feature-relevance signal.
type FeatureImporter interface {
	Importances() []float64
}

// TreeEnsemble is implemented by families built from inspectable trees.
type TreeEnsemble interface {
	NumTrees() int
	Tree(i int) *models.DecisionTree
}

// ImportanceEntry is one feature's normalized score.
type ImportanceEntry struct {
	Feature string  `json:"feature"`
	Score   float64 `json:"score"`
}

// ImportanceTable holds entries sorted by descending score. Scores are
// rescaled so the maximum reads 100; equal raw scores stay equal.
type ImportanceTable []ImportanceEntry

// Importances builds the normalized table for a fitted model.
func Importances(m models.Classifier, featureNames []string) (ImportanceTable, error) {
	imp, ok := m.(FeatureImporter)
	if !ok {
		return nil, UnsupportedOperationError{Model: m.Name(), Op: "feature importances"}
	}
	raw := imp.Importances()
	if len(raw) == 0 {
		return nil, UnsupportedOperationError{Model: m.Name(), Op: "feature importances"}
	}
	max := 0.0
	for _, v := range raw {
		if v > max {
			max = v
		}
	}
	table := make(ImportanceTable, len(raw))
	for i, v := range raw {
		name := fmt.Sprintf("f%d", i)
		if i < len(featureNames) {
			name = featureNames[i]
		}
		score := 0.0
		if max > 0 {
			score = 100 * v / max
		}
		table[i] = ImportanceEntry{Feature: name, Score: score}
	}
	sort.SliceStable(table, func(i, j int) bool { return table[i].Score > table[j].Score })
	return table, nil
}

// TreeNode is one flattened node. Left/Right are indices into the node list,
// -1 for leaves; leaves carry the predicted Label.
type TreeNode struct {
	ID        int     `json:"id"`
	Feature   int     `json:"feature"`
	Name      string  `json:"name,omitempty"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Leaf      bool    `json:"leaf"`
	Label     int     `json:"label"`
	Samples   int     `json:"samples"`
}

// TreeStructure is one constituent tree in inspectable form.
type TreeStructure struct {
	TreeIndex int        `json:"tree_index"`
	Nodes     []TreeNode `json:"nodes"`
}

// TreePicker selects which tree to inspect when none is requested.
type TreePicker func(e TreeEnsemble) int

// SmallestTree picks the tree with the fewest nodes, lowest index on ties:
// the most interpretable constituent.
func SmallestTree(e TreeEnsemble) int {
	best, bestN := 0, -1
	for i := 0; i < e.NumTrees(); i++ {
		n := e.Tree(i).NodeCount()
		if bestN == -1 || n < bestN {
			best, bestN = i, n
		}
	}
	return best
}

// ExtractTree flattens one tree of an ensemble. A negative index delegates to
// the picker (SmallestTree when nil).
func ExtractTree(m models.Classifier, index int, featureNames []string, pick TreePicker) (*TreeStructure, error) {
	ens, ok := m.(TreeEnsemble)
	if !ok {
		return nil, UnsupportedOperationError{Model: m.Name(), Op: "tree extraction"}
	}
	if ens.NumTrees() == 0 {
		return nil, UnsupportedOperationError{Model: m.Name(), Op: "tree extraction"}
	}
	if index < 0 {
		if pick == nil {
			pick = SmallestTree
		}
		index = pick(ens)
	}
	if index >= ens.NumTrees() {
		return nil, TreeIndexError{Index: index, Count: ens.NumTrees()}
	}
	ts := &TreeStructure{TreeIndex: index}
	flatten(ens.Tree(index).Root, featureNames, ts)
	return ts, nil
}

func flatten(root *models.DTNode, names []string, ts *TreeStructure) int {
	if root == nil {
		return -1
	}
	id := len(ts.Nodes)
	ts.Nodes = append(ts.Nodes, TreeNode{ID: id, Left: -1, Right: -1})
	if root.IsLeaf {
		ts.Nodes[id].Leaf = true
		ts.Nodes[id].Label = root.Class
		ts.Nodes[id].Feature = -1
		ts.Nodes[id].Samples = root.Samples
		return id
	}
	ts.Nodes[id].Feature = root.Feature
	if root.Feature < len(names) {
		ts.Nodes[id].Name = names[root.Feature]
	}
	ts.Nodes[id].Threshold = root.Threshold
	ts.Nodes[id].Samples = root.Samples
	left := flatten(root.Left, names, ts)
	right := flatten(root.Right, names, ts)
	ts.Nodes[id].Left = left
	ts.Nodes[id].Right = right
	return id
}
