package interpret

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"cloudquote/internal/domain"
	"cloudquote/internal/port"
)

// Interpreter turns a source record into a normalized resource requirement.
type Interpreter interface {
	Interpret(ctx context.Context, record domain.SourceRecord) (*domain.ResourceRequirement, error)
}

type interpreter struct {
	llm      port.ChatCompleter
	fallback *FallbackExtractor
	cache    port.InterpretationCache
	logger   *zap.Logger
}

// New builds the production interpreter. cache may be nil to disable
// interpretation caching.
func New(llm port.ChatCompleter, cache port.InterpretationCache, logger *zap.Logger) Interpreter {
	return &interpreter{
		llm:      llm,
		fallback: NewFallbackExtractor(),
		cache:    cache,
		logger:   logger,
	}
}

func (i *interpreter) Interpret(ctx context.Context, record domain.SourceRecord) (*domain.ResourceRequirement, error) {
	supported, known := domain.KnownContentKinds[record.Kind]
	if !known {
		return nil, fmt.Errorf("record %d: %w: %q", record.Index, domain.ErrInvalidContentKind, record.Kind)
	}
	if !supported {
		return nil, &domain.UnsupportedKindError{Kind: record.Kind}
	}

	text := record.InterpretText()

	// Structured spec columns beat any textual interpretation.
	if record.Hints.Complete() {
		return &domain.ResourceRequirement{
			CPUCores:  record.Hints.CPUCores,
			MemoryGiB: record.Hints.MemoryGiB,
			StorageGB: record.Hints.StorageGB,
			Workload:  classifyWorkload(text),
			RawInput:  text,
		}, nil
	}

	if text == "" {
		return nil, &domain.InterpretationError{Index: record.Index, Cause: fmt.Errorf("empty description")}
	}

	if i.cache != nil {
		if req, ok := i.cache.Get(ctx, text); ok {
			i.logger.Debug("interpretation cache hit", zap.Int("record", record.Index))
			return req, nil
		}
	}

	req, err := i.interpretWithModel(ctx, record, text)
	if err != nil {
		i.logger.Warn("model interpretation failed, using fallback extraction",
			zap.Int("record", record.Index), zap.Error(err))
		fb := i.fallback.Extract(text)
		return &fb, nil
	}

	// Fallback results are untrusted guesses and never enter the cache.
	if i.cache != nil {
		i.cache.Put(ctx, text, *req)
	}
	return req, nil
}

// modelReply mirrors the JSON object the prompts demand.
type modelReply struct {
	CPUCores  int    `json:"cpu_cores"`
	MemoryGiB int    `json:"memory_gib"`
	StorageGB int    `json:"storage_gb"`
	Workload  string `json:"workload"`
}

func (i *interpreter) interpretWithModel(ctx context.Context, record domain.SourceRecord, text string) (*domain.ResourceRequirement, error) {
	reply, err := i.llm.Complete(ctx, SystemPromptFor(record.ProductName, text), text)
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}

	var parsed modelReply
	if err := json.Unmarshal([]byte(extractJSONObject(reply)), &parsed); err != nil {
		return nil, fmt.Errorf("parse model reply: %w", err)
	}

	req := domain.ResourceRequirement{
		CPUCores:  parsed.CPUCores,
		MemoryGiB: parsed.MemoryGiB,
		Workload:  domain.WorkloadType(parsed.Workload),
		RawInput:  text,
	}
	if req.Workload != domain.WorkloadGeneral &&
		req.Workload != domain.WorkloadCompute &&
		req.Workload != domain.WorkloadMemoryIntensive {
		req.Workload = domain.WorkloadGeneral
	}
	// Storage comes from the raw text regardless of what the model said:
	// the regex is more reliable for 存储 clauses than the model is.
	req.StorageGB = ExtractStorage(text)
	if req.StorageGB == 0 && parsed.StorageGB > 0 {
		req.StorageGB = parsed.StorageGB
	}

	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("model reply invalid: %w", err)
	}
	return &req, nil
}

// extractJSONObject strips markdown fences or prose around the first JSON
// object in s. Models occasionally wrap replies despite the prompt.
func extractJSONObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return s
	}
	return s[start : end+1]
}
