package knowledge

import (
	"context"
	"strings"

	"github.com/admithub/backend-go/internal/logger"
	"go.uber.org/zap"
)

// relevanceEpsilon 距离全相等时避免除零
const relevanceEpsilon = 1e-6

// ScoredEntry 检索命中及其归一化相关度
type ScoredEntry struct {
	Entry     Entry   `json:"entry"`
	Distance  float64 `json:"distance"`
	Relevance float64 `json:"relevance"`
}

// RetrievalResult 一次检索的结果，按距离升序
type RetrievalResult struct {
	Documents []ScoredEntry `json:"documents"`
	Query     string        `json:"query"`
	Intent    string        `json:"intent,omitempty"`
}

// RetrieverOptions 检索参数
type RetrieverOptions struct {
	TopK               int
	RelevanceThreshold float64
}

// Retriever 知识库语义检索器。向量化与存储是注入的黑盒，
// 本层负责意图过滤、相关度归一化和阈值过滤。
type Retriever struct {
	embedder Embedder
	store    VectorStore
	opts     RetrieverOptions
}

// NewRetriever 创建检索器
func NewRetriever(embedder Embedder, store VectorStore, opts RetrieverOptions) *Retriever {
	if opts.TopK <= 0 {
		opts.TopK = 3
	}
	if opts.RelevanceThreshold <= 0 {
		opts.RelevanceThreshold = 0.3
	}
	return &Retriever{embedder: embedder, store: store, opts: opts}
}

// Index 全量重建索引：写入全部条目，并删除语料中已不存在的旧条目
func (r *Retriever) Index(ctx context.Context, entries []Entry) error {
	keep := make(map[string]bool, len(entries))
	for _, entry := range entries {
		if err := r.Add(ctx, entry); err != nil {
			return err
		}
		keep[entry.ID] = true
	}

	existing, err := r.store.IDs(ctx)
	if err != nil {
		return err
	}
	removed := 0
	for _, id := range existing {
		if keep[id] {
			continue
		}
		if err := r.store.Delete(ctx, id); err != nil {
			return err
		}
		removed++
	}

	logger.Info("knowledge entries indexed", zap.Int("count", len(entries)), zap.Int("removed", removed))
	return nil
}

// Add 向索引新增（或替换）一条知识条目，重新计算嵌入向量
func (r *Retriever) Add(ctx context.Context, entry Entry) error {
	embedding, err := r.embedder.Embed(ctx, entry.Text)
	if err != nil {
		return err
	}
	return r.store.Upsert(ctx, embedding, entry)
}

// Update 按ID替换条目内容，等价于重新嵌入后的Upsert
func (r *Retriever) Update(ctx context.Context, entry Entry) error {
	return r.Add(ctx, entry)
}

// Delete 按ID删除条目
func (r *Retriever) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, id)
}

// Get 按ID读取条目
func (r *Retriever) Get(ctx context.Context, id string) (Entry, bool) {
	return r.store.Get(ctx, id)
}

// Count 索引中的条目数
func (r *Retriever) Count(ctx context.Context) int {
	return r.store.Count(ctx)
}

// Categories 索引内各分类的条目数
func (r *Retriever) Categories(ctx context.Context) map[string]int {
	return r.store.Categories(ctx)
}

// Ready 嵌入器与存储是否都可用
func (r *Retriever) Ready() bool {
	return r.embedder != nil && r.embedder.Ready() && r.store != nil && r.store.Ready()
}

// Retrieve 语义检索。intentFilter对应已知分类时只在该分类内搜索；
// 空白查询直接返回空结果；索引非空且查询非空时结果也非空
// （阈值会筛掉低相关命中，但至少保留最优的一条）。
func (r *Retriever) Retrieve(ctx context.Context, query, intentFilter string, topK int) RetrievalResult {
	result := RetrievalResult{Query: query, Intent: intentFilter, Documents: []ScoredEntry{}}

	if strings.TrimSpace(query) == "" {
		return result
	}
	if topK <= 0 {
		topK = r.opts.TopK
	}

	// 只有意图确实对应索引里的分类时才过滤，未知意图搜全量
	category := ""
	if intentFilter != "" && intentFilter != "unknown" {
		if _, ok := r.store.Categories(ctx)[intentFilter]; ok {
			category = intentFilter
		}
	}

	embedding, err := r.embedder.Embed(ctx, query)
	if err != nil {
		logger.Error("query embedding failed", zap.Error(err), zap.String("query", query))
		return result
	}

	hits, err := r.store.Search(ctx, embedding, category, topK)
	if err != nil {
		logger.Error("vector search failed", zap.Error(err))
		return result
	}
	if len(hits) == 0 {
		return result
	}

	// 距离归一化为单次查询内可比的0-1相关度
	maxDistance := hits[0].Distance
	for _, hit := range hits[1:] {
		if hit.Distance > maxDistance {
			maxDistance = hit.Distance
		}
	}

	scored := make([]ScoredEntry, len(hits))
	for i, hit := range hits {
		relevance := 1 - hit.Distance/(maxDistance+relevanceEpsilon)
		if relevance < 0 {
			relevance = 0
		}
		if relevance > 1 {
			relevance = 1
		}
		scored[i] = ScoredEntry{Entry: hit.Entry, Distance: hit.Distance, Relevance: relevance}
	}

	// 阈值过滤；全部被筛掉时保留排名第一的命中
	filtered := scored[:0:0]
	for _, s := range scored {
		if s.Relevance >= r.opts.RelevanceThreshold {
			filtered = append(filtered, s)
		}
	}
	if len(filtered) == 0 {
		filtered = scored[:1]
	}

	result.Documents = filtered
	logger.Debug("knowledge retrieved",
		zap.String("query", query),
		zap.String("category", category),
		zap.Int("hits", len(filtered)))
	return result
}
