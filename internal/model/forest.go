// Package model loads and evaluates the frozen prediction artifacts: two
// serialised decision forests (anomaly classifier and RUL regressor) and the
// category encoders they were trained with. Artifacts are opaque to the rest
// of the engine, which only sees the narrow predict contracts.
package model

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// TreeNode is one node of a serialised binary decision tree. Internal nodes
// route on Feature <= Threshold (left) vs > Threshold (right); leaves carry
// the prediction in Value and have negative child indices.
type TreeNode struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
}

// leaf reports whether the node terminates a path.
func (n TreeNode) leaf() bool {
	return n.Left < 0 && n.Right < 0
}

// Tree is one decision tree, nodes indexed from the root at 0.
type Tree struct {
	Nodes []TreeNode `json:"nodes"`
}

// Eval walks the tree for one feature vector and returns the leaf value.
func (t Tree) Eval(features []float64) float64 {
	i := 0
	for {
		node := t.Nodes[i]
		if node.leaf() {
			return node.Value
		}
		if features[node.Feature] <= node.Threshold {
			i = node.Left
		} else {
			i = node.Right
		}
	}
}

// Forest is an ensemble of decision trees over a fixed feature width.
type Forest struct {
	NumFeatures int    `json:"num_features"`
	Trees       []Tree `json:"trees"`
}

// score averages the per-tree outputs for one feature vector.
func (f *Forest) score(features []float64) float64 {
	outputs := make([]float64, len(f.Trees))
	for i, tree := range f.Trees {
		outputs[i] = tree.Eval(features)
	}
	return stat.Mean(outputs, nil)
}

// Validate checks structural integrity: at least one tree, and every node's
// feature and child indices in range. A forest that fails validation must not
// be used for prediction.
func (f *Forest) Validate() error {
	if f.NumFeatures <= 0 {
		return fmt.Errorf("num_features must be positive, got %d", f.NumFeatures)
	}
	if len(f.Trees) == 0 {
		return fmt.Errorf("forest has no trees")
	}
	for ti, tree := range f.Trees {
		if len(tree.Nodes) == 0 {
			return fmt.Errorf("tree %d has no nodes", ti)
		}
		for ni, node := range tree.Nodes {
			if node.leaf() {
				continue
			}
			if node.Feature < 0 || node.Feature >= f.NumFeatures {
				return fmt.Errorf("tree %d node %d: feature index %d out of range [0,%d)",
					ti, ni, node.Feature, f.NumFeatures)
			}
			if node.Left < 0 || node.Left >= len(tree.Nodes) ||
				node.Right < 0 || node.Right >= len(tree.Nodes) {
				return fmt.Errorf("tree %d node %d: child index out of range", ti, ni)
			}
		}
	}
	return nil
}

// ForestClassifier is a frozen binary classifier. Leaf values are per-tree
// probabilities of the anomaly class; the ensemble probability is their mean
// and the label uses the fixed 0.5 decision boundary.
type ForestClassifier struct {
	Forest
}

// PredictProba returns the probability assigned to the anomaly class.
func (c *ForestClassifier) PredictProba(features []float64) float64 {
	return c.score(features)
}

// Predict returns 1 (anomaly) when the ensemble probability reaches 0.5.
func (c *ForestClassifier) Predict(features []float64) int {
	if c.score(features) >= 0.5 {
		return 1
	}
	return 0
}

// ForestRegressor is a frozen continuous estimator. Leaf values are per-tree
// RUL estimates in hours; the ensemble output is their mean, never rounded
// and never clamped here.
type ForestRegressor struct {
	Forest
}

// Predict returns the ensemble RUL estimate in hours.
func (r *ForestRegressor) Predict(features []float64) float64 {
	return r.score(features)
}
