package grammar

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ppiankov/cefrscope/internal/model"
)

// ParseDistribution extracts a label→probability JSON object from model
// output. Code fences and text around the object are ignored. Percentages
// (values summing to about 100) are scaled to [0, 1].
func ParseDistribution(text string) (model.LevelDistribution, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("%w: no JSON object in response", ErrNoDistribution)
	}

	var raw map[string]float64
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoDistribution, err)
	}

	sum := 0.0
	for _, p := range raw {
		sum += p
	}
	if sum > 1.5 {
		for k, p := range raw {
			raw[k] = p / 100
		}
	}

	dist, err := model.DistributionFromLabels(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoDistribution, err)
	}
	return dist, nil
}
