package features

import (
	"fmt"
	"math/rand"

	"github.com/yourusername/trial-pts/internal/models"
)

// DefaultTrainRatio is the share of each class kept for training.
const DefaultTrainRatio = 0.8

// StratifiedSplit partitions a labeled dataset into train and validation
// subsets. Positive and negative rows are shuffled and split separately so
// both subsets preserve the original class proportions to within rounding.
// The same seed and input always reproduce the same partition.
func StratifiedSplit(ds *models.Dataset, trainRatio float64, seed int64) (train, valid *models.Dataset, err error) {
	if !ds.Labeled() {
		return nil, nil, models.ErrUnlabeledSplit
	}
	if trainRatio <= 0 {
		trainRatio = DefaultTrainRatio
	}
	if trainRatio >= 1 {
		return nil, nil, fmt.Errorf("train ratio %v leaves no validation rows", trainRatio)
	}

	var posIdx, negIdx []int
	for i, y := range ds.Labels {
		if y == 1 {
			posIdx = append(posIdx, i)
		} else {
			negIdx = append(negIdx, i)
		}
	}

	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(posIdx), func(i, j int) { posIdx[i], posIdx[j] = posIdx[j], posIdx[i] })
	rng.Shuffle(len(negIdx), func(i, j int) { negIdx[i], negIdx[j] = negIdx[j], negIdx[i] })

	train = &models.Dataset{Schema: ds.Schema.Clone()}
	valid = &models.Dataset{Schema: ds.Schema.Clone()}

	appendClass(ds, posIdx, trainRatio, train, valid)
	appendClass(ds, negIdx, trainRatio, train, valid)

	if train.Len() == 0 || valid.Len() == 0 {
		return nil, nil, fmt.Errorf("split produced an empty subset (n=%d, ratio=%v)", ds.Len(), trainRatio)
	}
	return train, valid, nil
}

func appendClass(ds *models.Dataset, idx []int, trainRatio float64, train, valid *models.Dataset) {
	cut := int(float64(len(idx)) * trainRatio)
	for i, row := range idx {
		dst := valid
		if i < cut {
			dst = train
		}
		dst.IDs = append(dst.IDs, ds.IDs[row])
		dst.Features = append(dst.Features, ds.Features[row])
		dst.Labels = append(dst.Labels, ds.Labels[row])
	}
}
