package knowledge

import (
	"context"
	"math"
	"sort"
	"sync"
)

// indexedEntry 内存索引中的一条记录
type indexedEntry struct {
	entry     Entry
	embedding []float32
	seq       uint64 // 首次插入序号，距离相同时的排序依据
}

// MemoryVectorStore 进程内向量存储，读写锁保护，
// 小规模FAQ语料的默认实现。
type MemoryVectorStore struct {
	mu      sync.RWMutex
	entries map[string]*indexedEntry
	nextSeq uint64
}

// NewMemoryVectorStore 创建内存向量存储
func NewMemoryVectorStore() *MemoryVectorStore {
	return &MemoryVectorStore{entries: map[string]*indexedEntry{}}
}

func (s *MemoryVectorStore) Upsert(ctx context.Context, embedding []float32, entry Entry) error {
	vec := make([]float32, len(embedding))
	copy(vec, embedding)

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.entries[entry.ID]; ok {
		// 按ID替换保留原插入序
		existing.entry = entry
		existing.embedding = vec
		return nil
	}
	s.entries[entry.ID] = &indexedEntry{
		entry:     entry,
		embedding: vec,
		seq:       s.nextSeq,
	}
	s.nextSeq++
	return nil
}

func (s *MemoryVectorStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

func (s *MemoryVectorStore) Search(ctx context.Context, embedding []float32, category string, limit int) ([]Hit, error) {
	if limit <= 0 {
		limit = 3
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	type scored struct {
		hit Hit
		seq uint64
	}
	candidates := make([]scored, 0, len(s.entries))
	for _, item := range s.entries {
		if category != "" && item.entry.Category != category {
			continue
		}
		candidates = append(candidates, scored{
			hit: Hit{Entry: item.entry, Distance: cosineDistance(embedding, item.embedding)},
			seq: item.seq,
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].hit.Distance == candidates[j].hit.Distance {
			return candidates[i].seq < candidates[j].seq
		}
		return candidates[i].hit.Distance < candidates[j].hit.Distance
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	hits := make([]Hit, len(candidates))
	for i, c := range candidates {
		hits[i] = c.hit
	}
	return hits, nil
}

func (s *MemoryVectorStore) Get(ctx context.Context, id string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if item, ok := s.entries[id]; ok {
		return item.entry, true
	}
	return Entry{}, false
}

func (s *MemoryVectorStore) IDs(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.entries))
	for id := range s.entries {
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *MemoryVectorStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *MemoryVectorStore) Categories(ctx context.Context) map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	categories := make(map[string]int)
	for _, item := range s.entries {
		categories[item.entry.Category]++
	}
	return categories
}

func (s *MemoryVectorStore) Ready() bool {
	return true
}

// cosineDistance 余弦距离，1-相似度，值域[0,2]
func cosineDistance(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 1
	}
	if len(a) != len(b) {
		minLen := len(a)
		if len(b) < minLen {
			minLen = len(b)
		}
		a = a[:minLen]
		b = b[:minLen]
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
