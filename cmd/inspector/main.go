package main

import (
	"encoding/csv"
	"encoding/gob"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"pitchlab/internal/eval"
	"pitchlab/internal/inspect"
	"pitchlab/internal/models"
)

func main() {
	modelPath := flag.String("model", "models/best_model.gob", "Winner model gob")
	resultPath := flag.String("results", "models/comparison.json", "Comparison result JSON")
	treeIndex := flag.Int("tree", -1, "Tree index to dump (-1 picks the smallest)")
	outCSV := flag.String("out_csv", "", "Optional CSV path for the importance table")
	flag.Parse()

	res, err := loadResult(*resultPath)
	if err != nil { fmt.Println("load results:", err); os.Exit(1) }
	mdl, err := loadModel(*modelPath, res.Winner)
	if err != nil { fmt.Println("load model:", err); os.Exit(1) }

	fmt.Printf("Winner: %s (holdout accuracy %.4f, kappa %.4f)\n\n", res.Winner, res.HoldoutAccuracy, res.HoldoutKappa)

	table, err := inspect.Importances(mdl, res.Features)
	if err != nil {
		fmt.Println("Importances:", err)
	} else {
		fmt.Println("Feature importances (max = 100):")
		for _, e := range table {
			bar := strings.Repeat("#", int(e.Score/2))
			fmt.Printf("  %-20s %6.2f %s\n", e.Feature, e.Score, bar)
		}
		if *outCSV != "" {
			if err := writeImportanceCSV(*outCSV, table); err != nil {
				fmt.Println("write csv:", err)
			}
		}
	}

	ts, err := inspect.ExtractTree(mdl, *treeIndex, res.Features, nil)
	if err != nil {
		fmt.Println("\nTree:", err)
		return
	}
	fmt.Printf("\nTree %d (%d nodes):\n", ts.TreeIndex, len(ts.Nodes))
	printNode(ts, res.Labels, 0, 0)
}

func loadResult(path string) (*eval.ComparisonResult, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	out := &eval.ComparisonResult{}
	if err := json.Unmarshal(b, out); err != nil {
		return nil, err
	}
	return out, nil
}

func loadModel(path, family string) (models.Classifier, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	dec := gob.NewDecoder(f)
	switch models.Family(family) {
	case models.FamilyTree:
		var m models.DecisionTree
		if err := dec.Decode(&m); err != nil {
			return nil, err
		}
		return &m, nil
	case models.FamilyKNN:
		var m models.KNN
		if err := dec.Decode(&m); err != nil {
			return nil, err
		}
		return &m, nil
	case models.FamilyLDA:
		var m models.LDA
		if err := dec.Decode(&m); err != nil {
			return nil, err
		}
		return &m, nil
	case models.FamilyKernel:
		var m models.KernelMachine
		if err := dec.Decode(&m); err != nil {
			return nil, err
		}
		return &m, nil
	default:
		var m models.RandomForest
		if err := dec.Decode(&m); err != nil {
			return nil, err
		}
		return &m, nil
	}
}

func writeImportanceCSV(path string, table inspect.ImportanceTable) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()
	if err := w.Write([]string{"feature", "score"}); err != nil {
		return err
	}
	for _, e := range table {
		if err := w.Write([]string{e.Feature, fmt.Sprintf("%.4f", e.Score)}); err != nil {
			return err
		}
	}
	return nil
}

func printNode(ts *inspect.TreeStructure, labels []string, id, depth int) {
	if id < 0 || id >= len(ts.Nodes) {
		return
	}
	n := ts.Nodes[id]
	indent := strings.Repeat("  ", depth)
	if n.Leaf {
		name := fmt.Sprintf("class %d", n.Label)
		if n.Label < len(labels) {
			name = labels[n.Label]
		}
		fmt.Printf("%s-> %s (n=%d)\n", indent, name, n.Samples)
		return
	}
	fmt.Printf("%s%s <= %.3f (n=%d)\n", indent, n.Name, n.Threshold, n.Samples)
	printNode(ts, labels, n.Left, depth+1)
	fmt.Printf("%s%s >  %.3f\n", indent, n.Name, n.Threshold)
	printNode(ts, labels, n.Right, depth+1)
}
