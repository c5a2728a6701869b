package interpret

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cloudquote/internal/domain"
)

func TestFallbackExtractor_Extract(t *testing.T) {
	f := NewFallbackExtractor()

	tests := []struct {
		name     string
		text     string
		cpu      int
		memory   int
		storage  int
		workload domain.WorkloadType
	}{
		{
			name:     "compact chinese spec",
			text:     "4核8G web应用服务器",
			cpu:      4,
			memory:   8,
			workload: domain.WorkloadGeneral,
		},
		{
			name:     "c shorthand",
			text:     "2C 4G nginx网关",
			cpu:      2,
			memory:   4,
			workload: domain.WorkloadGeneral,
		},
		{
			name:     "english cores",
			text:     "8 cores 16GB for middleware",
			cpu:      8,
			memory:   16,
			workload: domain.WorkloadGeneral,
		},
		{
			name:     "storage clause",
			text:     "4核16G 500G存储 mysql数据库",
			cpu:      4,
			memory:   16,
			storage:  500,
			workload: domain.WorkloadMemoryIntensive,
		},
		{
			name:     "storage prefix form",
			text:     "8核32G 存储: 1000G oracle",
			cpu:      8,
			memory:   32,
			storage:  1000,
			workload: domain.WorkloadMemoryIntensive,
		},
		{
			name:     "compute workload",
			text:     "16C64G 深度学习训练节点",
			cpu:      16,
			memory:   64,
			workload: domain.WorkloadCompute,
		},
		{
			name:     "no figures falls back to defaults",
			text:     "redis缓存服务器",
			cpu:      2,
			memory:   4,
			workload: domain.WorkloadMemoryIntensive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := f.Extract(tt.text)
			assert.Equal(t, tt.cpu, req.CPUCores)
			assert.Equal(t, tt.memory, req.MemoryGiB)
			assert.Equal(t, tt.storage, req.StorageGB)
			assert.Equal(t, tt.workload, req.Workload)
			assert.True(t, req.FromFallback)
			assert.NoError(t, req.Validate())
		})
	}
}

func TestExtractStorage(t *testing.T) {
	assert.Equal(t, 500, ExtractStorage("500G存储"))
	assert.Equal(t, 200, ExtractStorage("存储200G"))
	assert.Equal(t, 300, ExtractStorage("存储: 300G"))
	assert.Equal(t, 0, ExtractStorage("4核8G 无盘"))
	assert.Equal(t, 0, ExtractStorage(""))
}

func TestExtractMemory_IgnoresStorageClause(t *testing.T) {
	f := NewFallbackExtractor()

	// The 500G belongs to the storage clause, so memory falls back to
	// the default rather than picking it up.
	req := f.Extract("2核 500G存储")
	assert.Equal(t, 2, req.CPUCores)
	assert.Equal(t, 4, req.MemoryGiB)
	assert.Equal(t, 500, req.StorageGB)
}
