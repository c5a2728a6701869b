package interpret

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPolarDBRecord(t *testing.T) {
	t.Run("node sku decides on its own", func(t *testing.T) {
		assert.True(t, IsPolarDBRecord("", "polar.mysql.x4.medium 两节点集群"))
		assert.True(t, IsPolarDBRecord("数据库集群", "规格 polar.pg.x8.2xlarge 存储500G"))
		assert.True(t, IsPolarDBRecord("PolarDB", "polar.o.x4.large"))
	})

	t.Run("product name keyword alone does not", func(t *testing.T) {
		assert.False(t, IsPolarDBRecord("PolarDB集群", "8核32G 高可用"))
		assert.False(t, IsPolarDBRecord("", "云原生数据库 16核64G"))
	})

	t.Run("plain ecs rows mentioning databases stay ecs", func(t *testing.T) {
		assert.False(t, IsPolarDBRecord("应用服务器", "4核8G mysql数据库"))
		assert.False(t, IsPolarDBRecord("", "8C16G redis缓存"))
	})
}

func TestMentionsPolarDB(t *testing.T) {
	assert.True(t, MentionsPolarDB("PolarDB集群", "8核32G"))
	assert.True(t, MentionsPolarDB("", "polar.mysql.x4.medium"))
	assert.False(t, MentionsPolarDB("web服务器", "4核8G"))
}

func TestSystemPromptFor(t *testing.T) {
	assert.Equal(t, polarDBSystemPrompt, SystemPromptFor("PolarDB集群", "8核32G"))
	assert.Equal(t, ecsSystemPrompt, SystemPromptFor("web服务器", "4核8G"))
}
