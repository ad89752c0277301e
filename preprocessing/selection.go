package preprocessing

import (
	"math"
	"sort"

	scierrors "github.com/YuminosukeSato/statlearn/pkg/errors"
	"github.com/YuminosukeSato/statlearn/pkg/log"
	"github.com/YuminosukeSato/statlearn/stats"
)

// DefaultNumFeatures is the number of features FeatureSelection keeps when
// called with nFeatures <= 0.
const DefaultNumFeatures = 5

// FeatureScore pairs a column with its absolute correlation to the target.
type FeatureScore struct {
	Name  string
	Score float64
}

// RankFeatures converts date columns, scores every column by
// |PearsonCorrelation(column, y)| and returns all columns sorted by
// descending score. Ties keep the table order. NaN scores sort last.
func RankFeatures(t *Table, y []float64) ([]FeatureScore, error) {
	if t.Rows() != len(y) {
		return nil, scierrors.NewDimensionError("FeatureSelection", t.Rows(), len(y), 0)
	}

	converted, err := t.ConvertDates()
	if err != nil {
		return nil, err
	}

	names := converted.Names()
	columns := make([][]float64, len(names))
	for i, name := range names {
		if columns[i], err = converted.Column(name); err != nil {
			return nil, err
		}
	}

	scores, err := stats.AbsCorrelations(columns, y)
	if err != nil {
		return nil, err
	}

	ranked := make([]FeatureScore, len(names))
	for i, name := range names {
		ranked[i] = FeatureScore{Name: name, Score: scores[i]}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i].Score, ranked[j].Score
		if math.IsNaN(a) {
			return false
		}
		return math.IsNaN(b) || a > b
	})
	return ranked, nil
}

// FeatureSelection returns the names of the nFeatures columns of t most
// correlated (in absolute value) with y. When nFeatures exceeds the column
// count every name is returned.
func FeatureSelection(t *Table, y []float64, nFeatures int) ([]string, error) {
	if nFeatures <= 0 {
		nFeatures = DefaultNumFeatures
	}

	ranked, err := RankFeatures(t, y)
	if err != nil {
		return nil, err
	}
	if nFeatures > len(ranked) {
		nFeatures = len(ranked)
	}

	best := make([]string, nFeatures)
	for i := range best {
		best[i] = ranked[i].Name
	}

	log.GetLoggerWithName("preprocessing").Debug("features selected",
		log.OperationKey, log.OperationSelect,
		log.FeaturesKey, len(ranked),
		"selected", best,
	)
	return best, nil
}
