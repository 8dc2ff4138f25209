package vectorizer

import (
	"fmt"
	"strings"

	"github.com/happyhackingspace/cooc/sparse"
	"github.com/happyhackingspace/cooc/vocab"
)

// Directions lists the feature blocks in output column order.
var Directions = []sparse.Direction{sparse.Earlier, sparse.Later}

// FeatureNames returns the 2K column names of a feature matrix:
// "earlier=<label>" for every label, then "later=<label>".
func FeatureNames(v *vocab.Vocabulary) []string {
	k := v.Size()
	names := make([]string, 0, len(Directions)*k)
	for _, dir := range Directions {
		for id := range k {
			names = append(names, featureKey(dir, v.Label(id)))
		}
	}
	return names
}

// Column returns the output column of category id in the dir block.
func Column(dir sparse.Direction, id, k int) int {
	if dir == sparse.Later {
		return k + id
	}
	return id
}

// ParseFeatureName splits a column name into its direction and label.
func ParseFeatureName(name string) (sparse.Direction, string, error) {
	prefix, label, ok := strings.Cut(name, "=")
	if !ok || label == "" {
		return 0, "", fmt.Errorf("malformed feature name %q", name)
	}
	for _, dir := range Directions {
		if dir.String() == prefix {
			return dir, label, nil
		}
	}
	return 0, "", fmt.Errorf("unknown direction %q in feature name %q", prefix, name)
}

// featureKey returns the compound key "direction=label".
func featureKey(dir sparse.Direction, label string) string {
	return fmt.Sprintf("%s=%s", dir, label)
}
