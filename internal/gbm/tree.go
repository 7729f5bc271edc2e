// Package gbm implements the gradient-boosted decision tree classifier the
// pipeline trains. Trees are shallow CART-style regression trees fit to the
// logistic-loss gradient, with Newton leaf values.
package gbm

import "sort"

// treeNode is one node of a regression tree. Internal nodes route on
// x[feature] <= threshold; leaves carry the additive raw-score contribution.
type treeNode struct {
	leaf      bool
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
	value     float64
}

func (n *treeNode) predict(x []float64) float64 {
	for !n.leaf {
		if x[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.value
}

type treeParams struct {
	maxDepth       int
	minSamplesLeaf int
	lambda         float64
}

// buildTree fits a regression tree to the gradient/hessian pairs of the rows
// in idx. Splits are chosen by the regularized gain
// G_L^2/(H_L+l) + G_R^2/(H_R+l) - G^2/(H+l); a node becomes a leaf when no
// split improves on it.
func buildTree(X [][]float64, grad, hess []float64, idx []int, depth int, p treeParams) *treeNode {
	var sumG, sumH float64
	for _, i := range idx {
		sumG += grad[i]
		sumH += hess[i]
	}
	leaf := &treeNode{leaf: true, value: sumG / (sumH + p.lambda)}

	if depth >= p.maxDepth || len(idx) < 2*p.minSamplesLeaf {
		return leaf
	}

	feature, threshold, gain := bestSplit(X, grad, hess, idx, sumG, sumH, p)
	if gain <= 1e-12 {
		return leaf
	}

	var leftIdx, rightIdx []int
	for _, i := range idx {
		if X[i][feature] <= threshold {
			leftIdx = append(leftIdx, i)
		} else {
			rightIdx = append(rightIdx, i)
		}
	}

	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      buildTree(X, grad, hess, leftIdx, depth+1, p),
		right:     buildTree(X, grad, hess, rightIdx, depth+1, p),
	}
}

func bestSplit(X [][]float64, grad, hess []float64, idx []int, sumG, sumH float64, p treeParams) (feature int, threshold, gain float64) {
	nFeatures := len(X[idx[0]])
	parentScore := sumG * sumG / (sumH + p.lambda)
	gain = 0
	feature = -1

	order := make([]int, len(idx))
	for f := 0; f < nFeatures; f++ {
		copy(order, idx)
		sort.Slice(order, func(a, b int) bool { return X[order[a]][f] < X[order[b]][f] })

		var leftG, leftH float64
		for k := 0; k < len(order)-1; k++ {
			i := order[k]
			leftG += grad[i]
			leftH += hess[i]

			// Only split between distinct values.
			if X[i][f] == X[order[k+1]][f] {
				continue
			}
			if k+1 < p.minSamplesLeaf || len(order)-k-1 < p.minSamplesLeaf {
				continue
			}

			rightG := sumG - leftG
			rightH := sumH - leftH
			g := leftG*leftG/(leftH+p.lambda) + rightG*rightG/(rightH+p.lambda) - parentScore
			if g > gain {
				gain = g
				feature = f
				threshold = (X[i][f] + X[order[k+1]][f]) / 2
			}
		}
	}
	return feature, threshold, gain
}
