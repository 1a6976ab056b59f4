package services

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/admithub/backend-go/internal/dialogue"
	"github.com/admithub/backend-go/internal/knowledge"
	"github.com/admithub/backend-go/internal/nlu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestAssistant 用内存组件搭建完整流水线，不依赖数据库
func newTestAssistant(t *testing.T) *AssistantService {
	t.Helper()
	dir := t.TempDir()

	intents, err := nlu.NewIntentStore(filepath.Join(dir, "intents.json"))
	require.NoError(t, err)
	classifier := nlu.NewClassifier(nlu.ClassifierOptions{})
	classifier.Train(intents.Examples())

	corpus, err := knowledge.NewCorpusStore(filepath.Join(dir, "knowledge_base.json"))
	require.NoError(t, err)
	retriever := knowledge.NewRetriever(knowledge.NewLocalEmbedder(256), knowledge.NewMemoryVectorStore(), knowledge.RetrieverOptions{})
	require.NoError(t, retriever.Index(context.Background(), corpus.Entries()))

	composer := dialogue.NewComposer(dialogue.ComposerOptions{RandomSeed: 7})
	return NewAssistantService(classifier, retriever, composer, dialogue.NewContextStore(0), nil)
}

func TestProcessInquiryGreeting(t *testing.T) {
	svc := newTestAssistant(t)

	reply, err := svc.ProcessInquiry(context.Background(), "s1", "hello there", "chat")
	require.NoError(t, err)
	assert.Equal(t, "greeting", reply.Intent)
	assert.GreaterOrEqual(t, reply.Confidence, 0.7)
	assert.NotEmpty(t, reply.Response)
	assert.Equal(t, "s1", reply.SessionID)
}

func TestProcessInquiryAnswersFromKnowledgeBase(t *testing.T) {
	svc := newTestAssistant(t)

	reply, err := svc.ProcessInquiry(context.Background(), "s1", "What are the admission requirements?", "chat")
	require.NoError(t, err)
	assert.Equal(t, "admission_requirements", reply.Intent)
	assert.Contains(t, reply.Response, "High school diploma")
}

func TestProcessInquiryDefaultsSessionAndChannel(t *testing.T) {
	svc := newTestAssistant(t)

	reply, err := svc.ProcessInquiry(context.Background(), "", "hello", "")
	require.NoError(t, err)
	assert.Equal(t, "default", reply.SessionID)
	assert.Empty(t, svc.Context("s1").Turns)
	assert.Len(t, svc.Context("default").Turns, 1)
}

func TestProcessInquiryUnknownStillResponds(t *testing.T) {
	svc := newTestAssistant(t)

	reply, err := svc.ProcessInquiry(context.Background(), "s1", "xylophone quantum blueprint", "chat")
	require.NoError(t, err)
	assert.Equal(t, "unknown", reply.Intent)
	assert.Zero(t, reply.Confidence)
	assert.NotEmpty(t, reply.Response)
}

func TestProcessInquiryExtractsEntities(t *testing.T) {
	svc := newTestAssistant(t)

	reply, err := svc.ProcessInquiry(context.Background(), "s1", "my email is jo@school.edu, call me at 555-123-4567", "chat")
	require.NoError(t, err)

	types := make(map[nlu.EntityType][]string)
	for _, e := range reply.Entities {
		types[e.Type] = e.Values
	}
	assert.Equal(t, []string{"jo@school.edu"}, types[nlu.EntityEmail])
	assert.Equal(t, []string{"(555) 123-4567"}, types[nlu.EntityPhone])
}

func TestConversationContextAccumulates(t *testing.T) {
	svc := newTestAssistant(t)
	ctx := context.Background()

	inputs := []string{"hello", "What are the tuition fees?", "scholarships available"}
	for _, input := range inputs {
		_, err := svc.ProcessInquiry(ctx, "s1", input, "chat")
		require.NoError(t, err)
	}

	conversation := svc.Context("s1")
	require.Len(t, conversation.Turns, 3)
	assert.Equal(t, "hello", conversation.Turns[0].UserInput)

	summary := svc.Summary("s1")
	assert.Equal(t, 3, summary.TotalExchanges)
	assert.Contains(t, summary.Topics, "tuition_fees")
	assert.Contains(t, summary.Topics, "financial_aid")
}

func TestClearSessionDropsContext(t *testing.T) {
	svc := newTestAssistant(t)
	ctx := context.Background()

	_, err := svc.ProcessInquiry(ctx, "s1", "hello", "chat")
	require.NoError(t, err)

	svc.ClearSession(ctx, "s1")
	assert.Empty(t, svc.Context("s1").Turns)
}

func TestProcessInquiryResponseLengthBounded(t *testing.T) {
	svc := newTestAssistant(t)

	// 长答案经由后处理限长
	reply, err := svc.ProcessInquiry(context.Background(), "s1", "tell me everything about financial aid scholarships grants and loans", "chat")
	require.NoError(t, err)
	assert.LessOrEqual(t, len(reply.Response), 500)
	assert.False(t, strings.HasPrefix(reply.Response, " "))
}
