package knowledge

import "context"

// Entry 一条知识库条目。Text同时用于展示和向量化，
// Category对应意图标签，Metadata存放结构化答案等附加字段。
type Entry struct {
	ID       string            `json:"id"`
	Text     string            `json:"text"`
	Category string            `json:"category"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Hit 向量检索命中，Distance越小越相近
type Hit struct {
	Entry    Entry
	Distance float64
}

// VectorStore 向量存储抽象。Upsert对已有ID保持其插入序，
// Search按距离升序返回，距离相同时按插入序。
type VectorStore interface {
	Upsert(ctx context.Context, embedding []float32, entry Entry) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, embedding []float32, category string, limit int) ([]Hit, error)
	Get(ctx context.Context, id string) (Entry, bool)
	IDs(ctx context.Context) ([]string, error)
	Count(ctx context.Context) int
	Categories(ctx context.Context) map[string]int
	Ready() bool
}
