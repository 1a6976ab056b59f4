package services

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/admithub/backend-go/internal/errors"
	"github.com/admithub/backend-go/internal/knowledge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestKnowledgeService(t *testing.T) *KnowledgeService {
	t.Helper()

	corpus, err := knowledge.NewCorpusStore(filepath.Join(t.TempDir(), "knowledge_base.json"))
	require.NoError(t, err)
	retriever := knowledge.NewRetriever(knowledge.NewLocalEmbedder(128), knowledge.NewMemoryVectorStore(), knowledge.RetrieverOptions{})
	return NewKnowledgeService(corpus, retriever)
}

func TestReindexBuildsIndexFromCorpus(t *testing.T) {
	svc := newTestKnowledgeService(t)
	ctx := context.Background()

	require.NoError(t, svc.Reindex(ctx))

	stats := svc.Stats(ctx)
	// 8条FAQ加上学校信息条目
	assert.Equal(t, 9, stats["total_entries"])
	assert.Equal(t, true, stats["ready"])
}

func TestAddFAQGeneratesIDAndIndexes(t *testing.T) {
	svc := newTestKnowledgeService(t)
	ctx := context.Background()
	require.NoError(t, svc.Reindex(ctx))

	faq, err := svc.AddFAQ(ctx, knowledge.FAQ{
		Question: "  Do you accept transfer students?  ",
		Answer:   "Yes, transfer applications are reviewed on a rolling basis.",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(faq.ID, "faq_"))
	assert.Equal(t, "general", faq.Category)
	assert.Equal(t, "Do you accept transfer students?", faq.Question)

	assert.Equal(t, 10, svc.Stats(ctx)["total_entries"])
	assert.Len(t, svc.ListFAQs(), 9)
}

func TestReindexDropsEntriesRemovedFromCorpus(t *testing.T) {
	corpus, err := knowledge.NewCorpusStore(filepath.Join(t.TempDir(), "knowledge_base.json"))
	require.NoError(t, err)
	retriever := knowledge.NewRetriever(knowledge.NewLocalEmbedder(128), knowledge.NewMemoryVectorStore(), knowledge.RetrieverOptions{})
	svc := NewKnowledgeService(corpus, retriever)
	ctx := context.Background()

	require.NoError(t, svc.Reindex(ctx))
	require.Equal(t, 9, svc.Stats(ctx)["total_entries"])

	// 语料文件被外部编辑删掉条目后，重建索引要把旧向量一并清掉
	removed, err := corpus.RemoveFAQ("req_001")
	require.NoError(t, err)
	require.True(t, removed)
	require.NoError(t, svc.Reindex(ctx))

	assert.Equal(t, 8, svc.Stats(ctx)["total_entries"])
	_, found := retriever.Get(ctx, "req_001")
	assert.False(t, found)
}

func TestSearchReturnsRelevantEntries(t *testing.T) {
	svc := newTestKnowledgeService(t)
	ctx := context.Background()
	require.NoError(t, svc.Reindex(ctx))

	result, err := svc.Search(ctx, "how much does tuition cost", 3)
	require.NoError(t, err)
	require.NotEmpty(t, result.Documents)
	assert.LessOrEqual(t, len(result.Documents), 3)
	assert.Contains(t, result.Documents[0].Entry.Text, "tuition")
}

func TestSearchRejectsBlankQuery(t *testing.T) {
	svc := newTestKnowledgeService(t)

	_, err := svc.Search(context.Background(), "   ", 3)
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
}

func TestAddFAQRequiresQuestionAndAnswer(t *testing.T) {
	svc := newTestKnowledgeService(t)

	_, err := svc.AddFAQ(context.Background(), knowledge.FAQ{Question: "only a question"})
	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
}

func TestUpdateFAQUnknownIDReturnsNotFound(t *testing.T) {
	svc := newTestKnowledgeService(t)

	err := svc.UpdateFAQ(context.Background(), knowledge.FAQ{ID: "missing_001", Question: "q", Answer: "a"})
	assert.Error(t, err)
}

func TestDeleteFAQRemovesFromIndexAndCorpus(t *testing.T) {
	svc := newTestKnowledgeService(t)
	ctx := context.Background()
	require.NoError(t, svc.Reindex(ctx))

	require.NoError(t, svc.DeleteFAQ(ctx, "housing_001"))
	assert.Equal(t, 8, svc.Stats(ctx)["total_entries"])
	assert.Error(t, svc.DeleteFAQ(ctx, "housing_001"))
}
