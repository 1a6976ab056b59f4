package knowledge

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"
)

// MilvusOptions Milvus客户端配置
type MilvusOptions struct {
	Address    string
	Username   string
	Password   string
	Collection string
	Database   string
	VectorSize int
	UseTLS     bool
	Timeout    time.Duration
}

// milvusVectorStore 生产部署下的向量存储实现。
// 知识条目全部放在一个collection里，按category表达式过滤。
type milvusVectorStore struct {
	milvusClient client.Client
	collection   string
	vectorSize   int
}

// NewMilvusVectorStore 创建Milvus向量存储
func NewMilvusVectorStore(opts MilvusOptions) (VectorStore, error) {
	if opts.Address == "" {
		opts.Address = "localhost:19530"
	}
	if opts.Collection == "" {
		opts.Collection = "admission_knowledge"
	}
	if opts.VectorSize == 0 {
		opts.VectorSize = 256
	}
	if opts.Database == "" {
		opts.Database = "default"
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	milvusClient, err := client.NewClient(ctx, client.Config{
		Address:       opts.Address,
		DBName:        opts.Database,
		Username:      opts.Username,
		Password:      opts.Password,
		EnableTLSAuth: opts.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create milvus client: %w", err)
	}

	store := &milvusVectorStore{
		milvusClient: milvusClient,
		collection:   opts.Collection,
		vectorSize:   opts.VectorSize,
	}
	if err := store.ensureCollection(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *milvusVectorStore) ensureCollection(ctx context.Context) error {
	hasCollection, err := s.milvusClient.HasCollection(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}
	if hasCollection {
		return nil
	}

	schema := &entity.Schema{
		CollectionName: s.collection,
		Description:    "Admission knowledge base entries",
		Fields: []*entity.Field{
			{
				Name:       "id",
				DataType:   entity.FieldTypeVarChar,
				PrimaryKey: true,
				TypeParams: map[string]string{"max_length": "128"},
			},
			{
				Name:       "category",
				DataType:   entity.FieldTypeVarChar,
				TypeParams: map[string]string{"max_length": "128"},
			},
			{
				Name:       "text",
				DataType:   entity.FieldTypeVarChar,
				TypeParams: map[string]string{"max_length": "65535"},
			},
			{
				Name:       "metadata",
				DataType:   entity.FieldTypeVarChar,
				TypeParams: map[string]string{"max_length": "65535"},
			},
			{
				Name:       "vector",
				DataType:   entity.FieldTypeFloatVector,
				TypeParams: map[string]string{"dim": fmt.Sprintf("%d", s.vectorSize)},
			},
		},
	}

	if err := s.milvusClient.CreateCollection(ctx, schema, entity.DefaultShardNumber); err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	var index entity.Index
	index, err = entity.NewIndexHNSW(entity.COSINE, 8, 64)
	if err != nil {
		index, err = entity.NewIndexIvfFlat(entity.COSINE, 128)
		if err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	if err := s.milvusClient.CreateIndex(ctx, s.collection, "vector", index, false); err != nil {
		// 索引创建失败不影响使用，退化为暴力搜索
		fmt.Printf("warning: failed to create index for collection %s: %v\n", s.collection, err)
	}
	return nil
}

func (s *milvusVectorStore) Upsert(ctx context.Context, embedding []float32, e Entry) error {
	if len(embedding) == 0 {
		return fmt.Errorf("embedding is empty")
	}
	if len(embedding) != s.vectorSize {
		padded := make([]float32, s.vectorSize)
		copy(padded, embedding)
		embedding = padded
	}

	metadataJSON, err := json.Marshal(e.Metadata)
	if err != nil {
		metadataJSON = []byte("{}")
	}

	// 先删除同ID旧记录实现replace-by-id
	_ = s.Delete(ctx, e.ID)

	idColumn := entity.NewColumnVarChar("id", []string{e.ID})
	categoryColumn := entity.NewColumnVarChar("category", []string{e.Category})
	textColumn := entity.NewColumnVarChar("text", []string{e.Text})
	metadataColumn := entity.NewColumnVarChar("metadata", []string{string(metadataJSON)})
	vectorColumn := entity.NewColumnFloatVector("vector", s.vectorSize, [][]float32{embedding})

	if _, err := s.milvusClient.Insert(ctx, s.collection, "", idColumn, categoryColumn, textColumn, metadataColumn, vectorColumn); err != nil {
		return fmt.Errorf("milvus insert failed: %w", err)
	}
	if err := s.milvusClient.Flush(ctx, s.collection, false); err != nil {
		fmt.Printf("warning: failed to flush collection %s: %v\n", s.collection, err)
	}
	return nil
}

func (s *milvusVectorStore) Delete(ctx context.Context, id string) error {
	expr := fmt.Sprintf("id == %q", id)
	if err := s.milvusClient.Delete(ctx, s.collection, "", expr); err != nil {
		return fmt.Errorf("milvus delete failed: %w", err)
	}
	return nil
}

func (s *milvusVectorStore) Search(ctx context.Context, embedding []float32, category string, limit int) ([]Hit, error) {
	if len(embedding) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = 3
	}
	if len(embedding) != s.vectorSize {
		padded := make([]float32, s.vectorSize)
		copy(padded, embedding)
		embedding = padded
	}

	expr := ""
	if category != "" {
		expr = fmt.Sprintf("category == %q", category)
	}

	sp, _ := entity.NewIndexHNSWSearchParam(64)
	searchResults, err := s.milvusClient.Search(
		ctx,
		s.collection,
		[]string{},
		expr,
		[]string{"id", "category", "text", "metadata"},
		[]entity.Vector{entity.FloatVector(embedding)},
		"vector",
		entity.COSINE,
		limit,
		sp,
	)
	if err != nil {
		return nil, fmt.Errorf("milvus search failed: %w", err)
	}
	if len(searchResults) == 0 {
		return []Hit{}, nil
	}
	result := searchResults[0]
	if result.Err != nil {
		return nil, fmt.Errorf("milvus search error: %w", result.Err)
	}
	if result.ResultCount == 0 {
		return []Hit{}, nil
	}

	var ids, categories, texts, metadatas []string
	for _, field := range result.Fields {
		col, ok := field.(*entity.ColumnVarChar)
		if !ok {
			continue
		}
		switch field.Name() {
		case "id":
			ids = col.Data()
		case "category":
			categories = col.Data()
		case "text":
			texts = col.Data()
		case "metadata":
			metadatas = col.Data()
		}
	}

	hits := make([]Hit, 0, result.ResultCount)
	for i := 0; i < result.ResultCount; i++ {
		e := Entry{}
		if i < len(ids) {
			e.ID = ids[i]
		}
		if i < len(categories) {
			e.Category = categories[i]
		}
		if i < len(texts) {
			e.Text = texts[i]
		}
		if i < len(metadatas) && metadatas[i] != "" {
			_ = json.Unmarshal([]byte(metadatas[i]), &e.Metadata)
		}

		// COSINE相似度得分转为距离
		distance := 1.0
		if i < len(result.Scores) {
			distance = 1 - float64(result.Scores[i])
		}
		hits = append(hits, Hit{Entry: e, Distance: distance})
	}
	return hits, nil
}

func (s *milvusVectorStore) Get(ctx context.Context, id string) (Entry, bool) {
	expr := fmt.Sprintf("id == %q", id)
	rs, err := s.milvusClient.Query(ctx, s.collection, []string{}, expr, []string{"id", "category", "text", "metadata"})
	if err != nil || len(rs) == 0 {
		return Entry{}, false
	}

	e := Entry{ID: id}
	for _, field := range rs {
		col, ok := field.(*entity.ColumnVarChar)
		if !ok || len(col.Data()) == 0 {
			continue
		}
		switch field.Name() {
		case "category":
			e.Category = col.Data()[0]
		case "text":
			e.Text = col.Data()[0]
		case "metadata":
			_ = json.Unmarshal([]byte(col.Data()[0]), &e.Metadata)
		}
	}
	if e.Text == "" {
		return Entry{}, false
	}
	return e, true
}

func (s *milvusVectorStore) IDs(ctx context.Context) ([]string, error) {
	rs, err := s.milvusClient.Query(ctx, s.collection, []string{}, `id != ""`, []string{"id"})
	if err != nil {
		return nil, fmt.Errorf("failed to list ids: %w", err)
	}
	var ids []string
	for _, field := range rs {
		col, ok := field.(*entity.ColumnVarChar)
		if !ok || field.Name() != "id" {
			continue
		}
		ids = append(ids, col.Data()...)
	}
	return ids, nil
}

func (s *milvusVectorStore) Count(ctx context.Context) int {
	stats, err := s.milvusClient.GetCollectionStatistics(ctx, s.collection)
	if err != nil {
		return 0
	}
	var count int
	fmt.Sscanf(stats["row_count"], "%d", &count)
	return count
}

func (s *milvusVectorStore) Categories(ctx context.Context) map[string]int {
	// Milvus没有聚合查询，按主键非空全量拉取category做统计
	rs, err := s.milvusClient.Query(ctx, s.collection, []string{}, `id != ""`, []string{"category"})
	if err != nil {
		return map[string]int{}
	}
	categories := make(map[string]int)
	for _, field := range rs {
		if col, ok := field.(*entity.ColumnVarChar); ok && field.Name() == "category" {
			for _, c := range col.Data() {
				categories[c]++
			}
		}
	}
	return categories
}

func (s *milvusVectorStore) Ready() bool {
	if s.milvusClient == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := s.milvusClient.ListCollections(ctx)
	return err == nil
}
