package knowledge

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededRetriever(t *testing.T) *Retriever {
	t.Helper()

	retriever := NewRetriever(NewLocalEmbedder(256), NewMemoryVectorStore(), RetrieverOptions{})
	entries := []Entry{
		{ID: "req", Text: "Q: What are the admission requirements? A: High school diploma, GPA 3.0, SAT or ACT scores.", Category: "admission_requirements"},
		{ID: "fees", Text: "Q: What are the tuition fees? A: Tuition is $12,000 per year for undergraduates.", Category: "tuition_fees"},
		{ID: "housing", Text: "Q: Is on-campus housing available? A: Dormitories and residence halls are guaranteed for freshmen.", Category: "housing"},
		{ID: "visit", Text: "Q: Can I visit the campus? A: Campus tours run Monday through Friday.", Category: "campus_visit"},
	}
	require.NoError(t, retriever.Index(context.Background(), entries))
	return retriever
}

func TestRetrieveBlankQueryReturnsEmpty(t *testing.T) {
	retriever := seededRetriever(t)

	result := retriever.Retrieve(context.Background(), "   ", "", 0)
	assert.Empty(t, result.Documents)
}

func TestRetrieveReturnsRelevantEntryFirst(t *testing.T) {
	retriever := seededRetriever(t)

	result := retriever.Retrieve(context.Background(), "how much does tuition cost per year", "", 0)
	require.NotEmpty(t, result.Documents)
	assert.Equal(t, "fees", result.Documents[0].Entry.ID)
	assert.GreaterOrEqual(t, result.Documents[0].Relevance, 0.0)
	assert.LessOrEqual(t, result.Documents[0].Relevance, 1.0)
}

func TestRetrieveKeepsBestHitWhenAllBelowThreshold(t *testing.T) {
	retriever := NewRetriever(NewLocalEmbedder(256), NewMemoryVectorStore(), RetrieverOptions{})
	entry := Entry{ID: "only", Text: "on-campus housing and dormitories", Category: "housing"}
	require.NoError(t, retriever.Add(context.Background(), entry))

	// 单条命中归一化后相关度趋近0，仍应保底返回
	result := retriever.Retrieve(context.Background(), "quantum mechanics homework", "", 0)
	require.Len(t, result.Documents, 1)
	assert.Equal(t, "only", result.Documents[0].Entry.ID)
}

func TestRetrieveFiltersByKnownCategory(t *testing.T) {
	retriever := seededRetriever(t)

	result := retriever.Retrieve(context.Background(), "tell me about student housing", "housing", 10)
	require.NotEmpty(t, result.Documents)
	for _, doc := range result.Documents {
		assert.Equal(t, "housing", doc.Entry.Category)
	}
}

func TestRetrieveIgnoresUnknownIntentFilter(t *testing.T) {
	retriever := seededRetriever(t)

	// unknown与未建索引的意图都不触发分类过滤
	for _, intent := range []string{"unknown", "greeting", ""} {
		result := retriever.Retrieve(context.Background(), "admission requirements", intent, 10)
		require.NotEmpty(t, result.Documents, "intent %q", intent)
		assert.Equal(t, "req", result.Documents[0].Entry.ID, "intent %q", intent)
	}
}

func TestRetrieveRespectsTopK(t *testing.T) {
	retriever := NewRetriever(NewLocalEmbedder(256), NewMemoryVectorStore(), RetrieverOptions{})
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		entry := Entry{ID: fmt.Sprintf("doc%d", i), Text: "campus tour and visit information", Category: "campus_visit"}
		require.NoError(t, retriever.Add(ctx, entry))
	}

	result := retriever.Retrieve(ctx, "campus tour and visit information", "", 2)
	assert.LessOrEqual(t, len(result.Documents), 2)
	assert.NotEmpty(t, result.Documents)
}

func TestIndexRemovesStaleEntries(t *testing.T) {
	retriever := seededRetriever(t)
	ctx := context.Background()

	// 重建索引时老条目要被清掉，不能留到重启
	require.NoError(t, retriever.Index(ctx, []Entry{
		{ID: "req", Text: "Q: What are the admission requirements? A: High school diploma, GPA 3.0, SAT or ACT scores.", Category: "admission_requirements"},
		{ID: "fees", Text: "Q: What are the tuition fees? A: Tuition is $12,000 per year for undergraduates.", Category: "tuition_fees"},
	}))

	assert.Equal(t, 2, retriever.Count(ctx))
	_, found := retriever.Get(ctx, "housing")
	assert.False(t, found)
	_, found = retriever.Get(ctx, "visit")
	assert.False(t, found)

	result := retriever.Retrieve(ctx, "is there housing on campus", "", 3)
	for _, doc := range result.Documents {
		assert.NotEqual(t, "housing", doc.Entry.ID)
	}
}

func TestRetrieverLifecycle(t *testing.T) {
	retriever := seededRetriever(t)
	ctx := context.Background()

	assert.Equal(t, 4, retriever.Count(ctx))
	assert.True(t, retriever.Ready())

	require.NoError(t, retriever.Update(ctx, Entry{ID: "fees", Text: "updated fees answer", Category: "tuition_fees"}))
	entry, ok := retriever.Get(ctx, "fees")
	require.True(t, ok)
	assert.Equal(t, "updated fees answer", entry.Text)

	require.NoError(t, retriever.Delete(ctx, "visit"))
	assert.Equal(t, 3, retriever.Count(ctx))
}
