package grammar

import (
	"context"
	"fmt"
	"math"
	"sync"

	"fortio.org/safecast"
	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
	ort "github.com/yalue/onnxruntime_go"

	"github.com/ppiankov/cefrscope/internal/model"
)

var (
	ortOnce sync.Once
	ortErr  error
)

// initRuntime loads the onnxruntime shared library once per process
func initRuntime(runtimePath string) error {
	ortOnce.Do(func() {
		if ort.IsInitialized() {
			return
		}
		if runtimePath != "" {
			ort.SetSharedLibraryPath(runtimePath)
		}
		ortErr = ort.InitializeEnvironment()
	})
	return ortErr
}

// ONNXClassifier runs a local sequence-classification model exported to
// ONNX. The model takes input_ids and attention_mask and emits one logit
// per configured label.
type ONNXClassifier struct {
	session   *ort.DynamicAdvancedSession
	tokenizer *tokenizer.Tokenizer
	labels    []model.Level
	maxSeqLen int
	modelPath string

	// Sessions are not safe for concurrent Run calls
	mu sync.Mutex
}

// NewONNXClassifier loads the model, tokenizer and label order
func NewONNXClassifier(config Config) (*ONNXClassifier, error) {
	if config.ModelPath == "" {
		return nil, fmt.Errorf("onnx model path is required")
	}
	if config.TokenizerPath == "" {
		return nil, fmt.Errorf("onnx tokenizer path is required")
	}

	labels, err := parseLabels(config.Labels)
	if err != nil {
		return nil, err
	}

	maxSeqLen := config.MaxSeqLen
	if maxSeqLen <= 2 {
		maxSeqLen = 128
	}

	tk, err := pretrained.FromFile(config.TokenizerPath)
	if err != nil {
		return nil, fmt.Errorf("load tokenizer: %w", err)
	}

	if err := initRuntime(config.RuntimePath); err != nil {
		return nil, fmt.Errorf("init onnxruntime: %w", err)
	}

	session, err := ort.NewDynamicAdvancedSession(config.ModelPath,
		[]string{"input_ids", "attention_mask"}, []string{"logits"}, nil)
	if err != nil {
		return nil, fmt.Errorf("create onnx session: %w", err)
	}

	return &ONNXClassifier{
		session:   session,
		tokenizer: tk,
		labels:    labels,
		maxSeqLen: maxSeqLen,
		modelPath: config.ModelPath,
	}, nil
}

// Name returns the classifier name
func (c *ONNXClassifier) Name() string {
	return "onnx/" + c.modelPath
}

// Predict tokenizes the sentence, runs the model and softmaxes the logits
func (c *ONNXClassifier) Predict(ctx context.Context, sentence string) (model.LevelDistribution, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	enc, err := c.tokenizer.EncodeSingle(sentence, true)
	if err != nil {
		return nil, fmt.Errorf("tokenize: %w", err)
	}

	ids, mask, err := toInt64Inputs(enc.Ids, enc.AttentionMask, c.maxSeqLen)
	if err != nil {
		return nil, err
	}
	n := int64(len(ids))

	idsTensor, err := ort.NewTensor(ort.NewShape(1, n), ids)
	if err != nil {
		return nil, fmt.Errorf("input_ids tensor: %w", err)
	}
	defer func() { _ = idsTensor.Destroy() }()

	maskTensor, err := ort.NewTensor(ort.NewShape(1, n), mask)
	if err != nil {
		return nil, fmt.Errorf("attention_mask tensor: %w", err)
	}
	defer func() { _ = maskTensor.Destroy() }()

	out, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(len(c.labels))))
	if err != nil {
		return nil, fmt.Errorf("logits tensor: %w", err)
	}
	defer func() { _ = out.Destroy() }()

	c.mu.Lock()
	err = c.session.Run([]ort.Value{idsTensor, maskTensor}, []ort.Value{out})
	c.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("onnx run: %w", err)
	}

	return distributionFromLogits(out.GetData(), c.labels)
}

// Close releases the onnx session
func (c *ONNXClassifier) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	err := c.session.Destroy()
	c.session = nil
	return err
}

// toInt64Inputs truncates to maxSeqLen, keeping the final special token
func toInt64Inputs(ids, mask []int, maxSeqLen int) ([]int64, []int64, error) {
	if len(ids) == 0 {
		return nil, nil, fmt.Errorf("%w: empty encoding", ErrNoDistribution)
	}
	if len(ids) > maxSeqLen {
		last := ids[len(ids)-1]
		ids = append(ids[:maxSeqLen-1:maxSeqLen-1], last)
		mask = mask[:maxSeqLen]
	}

	outIDs := make([]int64, len(ids))
	outMask := make([]int64, len(ids))
	for i, id := range ids {
		v, err := safecast.Conv[int64](id)
		if err != nil {
			return nil, nil, fmt.Errorf("token id %d: %w", id, err)
		}
		outIDs[i] = v
		outMask[i] = 1
		if i < len(mask) && mask[i] == 0 {
			outMask[i] = 0
		}
	}
	return outIDs, outMask, nil
}

// distributionFromLogits applies a numerically stable softmax
func distributionFromLogits(logits []float32, labels []model.Level) (model.LevelDistribution, error) {
	if len(logits) != len(labels) {
		return nil, fmt.Errorf("%w: got %d logits for %d labels", ErrNoDistribution, len(logits), len(labels))
	}

	maxLogit := math.Inf(-1)
	for _, l := range logits {
		maxLogit = math.Max(maxLogit, float64(l))
	}

	sum := 0.0
	exps := make([]float64, len(logits))
	for i, l := range logits {
		exps[i] = math.Exp(float64(l) - maxLogit)
		sum += exps[i]
	}

	dist := make(model.LevelDistribution, len(labels))
	for i, level := range labels {
		dist[level] = exps[i] / sum
	}
	return dist, dist.Validate()
}

func parseLabels(raw []string) ([]model.Level, error) {
	if len(raw) == 0 {
		return model.Levels(), nil
	}
	labels := make([]model.Level, 0, len(raw))
	for _, s := range raw {
		level, err := model.ParseLevel(s)
		if err != nil || !level.Valid() {
			return nil, fmt.Errorf("invalid classifier label %q", s)
		}
		labels = append(labels, level)
	}
	return labels, nil
}
