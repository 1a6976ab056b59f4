package services

import (
	"context"
	"strings"

	apperrors "github.com/admithub/backend-go/internal/errors"
	"github.com/admithub/backend-go/internal/knowledge"
	"github.com/admithub/backend-go/internal/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// KnowledgeService 知识库管理：FAQ的增删改查与向量索引维护
type KnowledgeService struct {
	corpus    *knowledge.CorpusStore
	retriever *knowledge.Retriever
}

func NewKnowledgeService(corpus *knowledge.CorpusStore, retriever *knowledge.Retriever) *KnowledgeService {
	return &KnowledgeService{corpus: corpus, retriever: retriever}
}

// Search 直接检索知识库，不经过意图过滤
func (s *KnowledgeService) Search(ctx context.Context, query string, topK int) (knowledge.RetrievalResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return knowledge.RetrievalResult{}, apperrors.NewValidationError("query is required")
	}
	return s.retriever.Retrieve(ctx, query, "", topK), nil
}

// Reindex 全量重建向量索引
func (s *KnowledgeService) Reindex(ctx context.Context) error {
	entries := s.corpus.Entries()
	if err := s.retriever.Index(ctx, entries); err != nil {
		return apperrors.NewInternalError("failed to rebuild knowledge index").WithCause(err)
	}
	logger.Info("knowledge index rebuilt", zap.Int("entries", len(entries)))
	return nil
}

// AddFAQ 新增FAQ条目，落盘后写入向量索引
func (s *KnowledgeService) AddFAQ(ctx context.Context, faq knowledge.FAQ) (knowledge.FAQ, error) {
	faq.Question = strings.TrimSpace(faq.Question)
	faq.Answer = strings.TrimSpace(faq.Answer)
	if faq.Question == "" || faq.Answer == "" {
		return knowledge.FAQ{}, apperrors.NewValidationError("question and answer are required")
	}
	if faq.ID == "" {
		faq.ID = "faq_" + uuid.NewString()
	}
	if faq.Category == "" {
		faq.Category = "general"
	}

	if err := s.corpus.AppendFAQs([]knowledge.FAQ{faq}); err != nil {
		return knowledge.FAQ{}, apperrors.NewInternalError("failed to persist knowledge entry").WithCause(err)
	}
	if err := s.retriever.Add(ctx, faqEntry(faq)); err != nil {
		return knowledge.FAQ{}, apperrors.NewInternalError("failed to index knowledge entry").WithCause(err)
	}
	return faq, nil
}

// UpdateFAQ 更新FAQ条目并刷新索引
func (s *KnowledgeService) UpdateFAQ(ctx context.Context, faq knowledge.FAQ) error {
	if faq.ID == "" {
		return apperrors.NewValidationError("id is required")
	}

	found, err := s.corpus.ReplaceFAQ(faq)
	if err != nil {
		return apperrors.NewInternalError("failed to persist knowledge entry").WithCause(err)
	}
	if !found {
		return apperrors.NewEntryNotFoundError(faq.ID)
	}
	if err := s.retriever.Update(ctx, faqEntry(faq)); err != nil {
		return apperrors.NewInternalError("failed to index knowledge entry").WithCause(err)
	}
	return nil
}

// DeleteFAQ 删除FAQ条目及其索引
func (s *KnowledgeService) DeleteFAQ(ctx context.Context, id string) error {
	found, err := s.corpus.RemoveFAQ(id)
	if err != nil {
		return apperrors.NewInternalError("failed to persist knowledge base").WithCause(err)
	}
	if !found {
		return apperrors.NewEntryNotFoundError(id)
	}
	if err := s.retriever.Delete(ctx, id); err != nil {
		return apperrors.NewInternalError("failed to remove index entry").WithCause(err)
	}
	return nil
}

// ListFAQs 当前知识库条目
func (s *KnowledgeService) ListFAQs() []knowledge.FAQ {
	return s.corpus.Snapshot().FAQs
}

// Stats 知识库统计信息
func (s *KnowledgeService) Stats(ctx context.Context) map[string]interface{} {
	return map[string]interface{}{
		"total_entries": s.retriever.Count(ctx),
		"categories":    s.retriever.Categories(ctx),
		"ready":         s.retriever.Ready(),
	}
}

// Reload 从磁盘重载知识库并重建索引（供文件监听器触发）
func (s *KnowledgeService) Reload(ctx context.Context) error {
	if err := s.corpus.Reload(); err != nil {
		return apperrors.NewCorpusUnreadableError(s.corpus.Path()).WithCause(err)
	}
	return s.Reindex(ctx)
}

func faqEntry(faq knowledge.FAQ) knowledge.Entry {
	return knowledge.Entry{
		ID:       faq.ID,
		Text:     "Q: " + faq.Question + " A: " + faq.Answer,
		Category: faq.Category,
		Metadata: map[string]string{
			"type":     "faq",
			"question": faq.Question,
			"answer":   faq.Answer,
			"keywords": strings.Join(faq.Keywords, ","),
		},
	}
}
