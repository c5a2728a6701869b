package interpret

import (
	"regexp"
	"strconv"
	"strings"

	"cloudquote/internal/domain"
)

// Extraction defaults when the text names a workload but no figure.
const (
	defaultCPUCores  = 2
	defaultMemoryGiB = 4
)

var (
	cpuPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\d+)\s*[cC](?:[^a-zA-Z]|$)`),
		regexp.MustCompile(`(\d+)\s*核`),
		regexp.MustCompile(`(\d+)\s*[cC]ores?`),
	}
	memoryPattern = regexp.MustCompile(`(\d+)\s*[gG][bB]?(?:[^a-zA-Z0-9]|$)`)

	storagePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\d+)\s*[gG][bB]?\s*存储`),
		regexp.MustCompile(`存储\s*[:：]?\s*(\d+)\s*[gG]`),
	}
)

var (
	memoryKeywords  = []string{"数据库", "缓存", "redis", "memcache", "mysql", "oracle", "postgresql", "mongo"}
	computeKeywords = []string{"算法", "ai", "训练", "计算", "深度学习", "machine learning", "gpu", "科学计算"}
)

// FallbackExtractor derives a requirement from description text with
// regular expressions alone. It never fails: missing figures fall back to
// the package defaults.
type FallbackExtractor struct{}

func NewFallbackExtractor() *FallbackExtractor { return &FallbackExtractor{} }

// Extract pulls cpu, memory, storage and a workload guess out of text.
func (f *FallbackExtractor) Extract(text string) domain.ResourceRequirement {
	req := domain.ResourceRequirement{
		CPUCores:     extractCPU(text),
		StorageGB:    ExtractStorage(text),
		Workload:     classifyWorkload(text),
		RawInput:     text,
		FromFallback: true,
	}
	req.MemoryGiB = extractMemory(text)
	return req
}

func extractCPU(text string) int {
	for _, p := range cpuPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
				return n
			}
		}
	}
	return defaultCPUCores
}

// extractMemory finds the first standalone G/GB figure that is not part of
// a storage clause.
func extractMemory(text string) int {
	storageSpans := storageMatchSpans(text)
	for _, m := range memoryPattern.FindAllStringSubmatchIndex(text, -1) {
		if overlapsAny(m[0], m[1], storageSpans) {
			continue
		}
		if n, err := strconv.Atoi(text[m[2]:m[3]]); err == nil && n > 0 {
			return n
		}
	}
	return defaultMemoryGiB
}

// ExtractStorage pulls a storage figure out of text, zero when none is
// named. Storage is read from the raw text even when the rest of the
// requirement came from the language model.
func ExtractStorage(text string) int {
	for _, p := range storagePatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
				return n
			}
		}
	}
	return 0
}

func storageMatchSpans(text string) [][2]int {
	var spans [][2]int
	for _, p := range storagePatterns {
		for _, m := range p.FindAllStringIndex(text, -1) {
			spans = append(spans, [2]int{m[0], m[1]})
		}
	}
	return spans
}

func overlapsAny(start, end int, spans [][2]int) bool {
	for _, s := range spans {
		if start < s[1] && end > s[0] {
			return true
		}
	}
	return false
}

func classifyWorkload(text string) domain.WorkloadType {
	lower := strings.ToLower(text)
	for _, kw := range memoryKeywords {
		if strings.Contains(lower, kw) {
			return domain.WorkloadMemoryIntensive
		}
	}
	for _, kw := range computeKeywords {
		if strings.Contains(lower, kw) {
			return domain.WorkloadCompute
		}
	}
	return domain.WorkloadGeneral
}
