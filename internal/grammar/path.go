package grammar

import (
	"context"
	"fmt"
	"io"

	"github.com/ppiankov/cefrscope/internal/model"
)

// Path queries the classifier once per sentence. A nil classifier is a
// missing signal, not an error.
type Path struct {
	classifier Classifier
	diag       io.Writer
}

// NewPath creates a grammatical path. diag may be nil.
func NewPath(classifier Classifier, diag io.Writer) *Path {
	if diag == nil {
		diag = io.Discard
	}
	return &Path{classifier: classifier, diag: diag}
}

// Available reports whether a classifier is configured
func (p *Path) Available() bool {
	return p.classifier != nil
}

// ScoreSentence returns the classifier's distribution for sentence. Any
// classifier error or invalid distribution yields (nil, false); the error is
// only reported to the diagnostic writer.
func (p *Path) ScoreSentence(ctx context.Context, sentence string) (model.LevelDistribution, bool) {
	if p.classifier == nil {
		_, _ = fmt.Fprintf(p.diag, "Grammatical analysis: classifier not available\n")
		return nil, false
	}

	dist, err := p.classifier.Predict(ctx, sentence)
	if err == nil {
		err = dist.Validate()
	}
	if err != nil {
		_, _ = fmt.Fprintf(p.diag, "⚠️  Grammatical analysis failed (%s): %v\n", p.classifier.Name(), err)
		return nil, false
	}

	top, confidence := TopLevel(dist)
	_, _ = fmt.Fprintf(p.diag, "Grammatical analysis: %s (confidence: %.3f)\n", top, confidence)
	return dist, true
}

// TopLevel returns the label with the strictly highest probability. Exact
// ties resolve to the first level in declaration order (A1 before A2).
func TopLevel(dist model.LevelDistribution) (model.Level, float64) {
	return dist.Top()
}

// Hint maps a distribution to the numeric grammatical hint
func Hint(dist model.LevelDistribution) (float64, bool) {
	top, _ := TopLevel(dist)
	if !top.Valid() {
		return 0, false
	}
	return top.Value(), true
}
