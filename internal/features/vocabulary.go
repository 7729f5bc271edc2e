// Package features turns raw trial records into the numeric feature table the
// model trains and predicts on.
package features

import (
	"fmt"
	"sort"

	"github.com/yourusername/trial-pts/internal/models"
)

// UnknownCode is the reserved code returned for values never observed while
// fitting. Fitted values are coded from 1 upward.
const UnknownCode = 0

// Vocabulary is an immutable mapping from observed categorical values to
// integer codes. It is built once, from training data only, and shared by
// reference with every later preprocessing call so train and inference rows
// encode identically.
type Vocabulary struct {
	column string
	codes  map[string]int
}

// FitVocabulary builds a Vocabulary for one categorical column. Codes are
// assigned in sorted value order so refitting on the same data reproduces the
// same mapping. Fails if the column holds no non-empty values.
func FitVocabulary(column string, values []string) (*Vocabulary, error) {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		seen[v] = struct{}{}
	}
	if len(seen) == 0 {
		return nil, fmt.Errorf("column %q: %w", column, models.ErrEmptyColumn)
	}

	ordered := make([]string, 0, len(seen))
	for v := range seen {
		ordered = append(ordered, v)
	}
	sort.Strings(ordered)

	codes := make(map[string]int, len(ordered))
	for i, v := range ordered {
		codes[v] = UnknownCode + 1 + i
	}
	return &Vocabulary{column: column, codes: codes}, nil
}

// Encode returns the fitted code for value, or UnknownCode for anything the
// vocabulary has never seen. It never invents a new code.
func (v *Vocabulary) Encode(value string) int {
	if code, ok := v.codes[value]; ok {
		return code
	}
	return UnknownCode
}

// Column returns the name of the column the vocabulary was fitted on.
func (v *Vocabulary) Column() string {
	return v.column
}

// Size returns the number of distinct fitted values, excluding the reserved
// unknown code.
func (v *Vocabulary) Size() int {
	return len(v.codes)
}
