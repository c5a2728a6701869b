package interpret

// System prompts handed to the chat model. The model must answer with a
// bare JSON object so the reply can be unmarshalled directly.

const ecsSystemPrompt = `You are an assistant that extracts compute resource requirements from free-form Chinese or English server descriptions.

Given a description, respond with a single JSON object and nothing else:
{"cpu_cores": <int>, "memory_gib": <int>, "storage_gb": <int>, "workload": "<general|compute|memory_intensive>"}

Rules:
- cpu_cores and memory_gib must be positive integers. If the text names no figure, infer a sensible one from the workload (at least 2 cores / 4 GiB).
- storage_gb is the data disk size in GB, 0 when the text names none.
- workload is memory_intensive for databases and caches, compute for AI/training/scientific workloads, general otherwise.
- Sizes written like "2C4G" mean 2 cores and 4 GiB.
- Do not wrap the JSON in markdown fences or commentary.`

const polarDBSystemPrompt = `You are an assistant that extracts resource requirements from PolarDB database cluster descriptions.

Given a description, respond with a single JSON object and nothing else:
{"cpu_cores": <int>, "memory_gib": <int>, "storage_gb": <int>, "workload": "memory_intensive"}

Rules:
- PolarDB node SKUs like polar.mysql.x4.medium encode the shape: x4.medium is 2 cores / 8 GiB, x4.large is 4 cores / 16 GiB, x4.xlarge is 8 cores / 32 GiB, x8.xlarge is 8 cores / 64 GiB, x8.2xlarge is 16 cores / 128 GiB.
- storage_gb is the cluster storage in GB, 0 when the text names none.
- workload is always memory_intensive for database clusters.
- Do not wrap the JSON in markdown fences or commentary.`

// SystemPromptFor picks the prompt variant for a record. PolarDB mentions
// get the database-aware prompt even when the record still quotes as ECS.
func SystemPromptFor(productName, description string) string {
	if MentionsPolarDB(productName, description) {
		return polarDBSystemPrompt
	}
	return ecsSystemPrompt
}
