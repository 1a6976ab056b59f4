package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/admithub/backend-go/internal/dialogue"
	"github.com/admithub/backend-go/internal/knowledge"
	"github.com/admithub/backend-go/internal/logger"
	"github.com/admithub/backend-go/internal/models"
	"github.com/admithub/backend-go/internal/nlu"
	"github.com/admithub/backend-go/internal/repository"
	"go.uber.org/zap"
)

// Reply 一次咨询的处理结果
type Reply struct {
	Response       string              `json:"response"`
	Intent         string              `json:"intent"`
	Confidence     float64             `json:"confidence"`
	Entities       []nlu.Entity        `json:"entities,omitempty"`
	SessionID      string              `json:"session_id"`
	Timestamp      time.Time           `json:"timestamp"`
	ProcessingTime float64             `json:"processing_time"`
}

// AssistantService 招生咨询流水线：理解、检索、回复编排
type AssistantService struct {
	classifier *nlu.Classifier
	retriever  *knowledge.Retriever
	composer   *dialogue.Composer
	contexts   *dialogue.ContextStore
	repo       repository.InteractionRepository
}

// NewAssistantService 创建咨询服务；repo为nil时不落库
func NewAssistantService(
	classifier *nlu.Classifier,
	retriever *knowledge.Retriever,
	composer *dialogue.Composer,
	contexts *dialogue.ContextStore,
	repo repository.InteractionRepository,
) *AssistantService {
	return &AssistantService{
		classifier: classifier,
		retriever:  retriever,
		composer:   composer,
		contexts:   contexts,
		repo:       repo,
	}
}

// ProcessInquiry 处理一条用户咨询。分类、检索、编排三段依次执行，
// 回复生成永不失败；落库失败只记日志不影响返回。
func (s *AssistantService) ProcessInquiry(ctx context.Context, sessionID, message, channel string) (*Reply, error) {
	started := time.Now()

	message = strings.TrimSpace(message)
	if sessionID == "" {
		sessionID = "default"
	}
	if channel == "" {
		channel = "chat"
	}

	classification := s.classifier.Classify(message)
	intent := dialogue.ParseIntentTag(classification.Intent)
	if classification.Intent == nlu.UnknownIntent {
		lowConfidenceTotal.Inc()
	}

	var documents []knowledge.ScoredEntry
	if intent != dialogue.IntentGreeting && intent != dialogue.IntentGoodbye {
		result := s.retriever.Retrieve(ctx, message, classification.Intent, 0)
		documents = result.Documents
		retrievalDocuments.Observe(float64(len(documents)))
	}

	response := s.composer.Compose(message, intent, classification.Confidence, documents)

	s.contexts.AppendTurn(sessionID, dialogue.Turn{
		UserInput: message,
		Intent:    intent,
		Response:  response,
		At:        time.Now(),
	})

	elapsed := time.Since(started).Seconds()
	interactionsTotal.WithLabelValues(classification.Intent, channel).Inc()
	processingSeconds.Observe(elapsed)

	reply := &Reply{
		Response:       response,
		Intent:         classification.Intent,
		Confidence:     classification.Confidence,
		Entities:       classification.Entities,
		SessionID:      sessionID,
		Timestamp:      time.Now(),
		ProcessingTime: elapsed,
	}

	s.logInteraction(ctx, reply, message, channel)
	return reply, nil
}

// Summary 会话摘要
func (s *AssistantService) Summary(sessionID string) dialogue.ConversationSummary {
	return s.contexts.Summary(sessionID)
}

// Context 会话上下文快照
func (s *AssistantService) Context(sessionID string) dialogue.ConversationContext {
	return s.contexts.GetContext(sessionID)
}

// ClearSession 清除会话上下文并标记会话结束
func (s *AssistantService) ClearSession(ctx context.Context, sessionID string) {
	s.contexts.Clear(sessionID)
	if s.repo != nil {
		if err := s.repo.EndSession(ctx, sessionID, time.Now()); err != nil {
			logger.Warn("failed to mark session ended",
				zap.String("session_id", sessionID), zap.Error(err))
		}
	}
}

func (s *AssistantService) logInteraction(ctx context.Context, reply *Reply, message, channel string) {
	if s.repo == nil {
		return
	}

	var entitiesJSON string
	if len(reply.Entities) > 0 {
		if data, err := json.Marshal(reply.Entities); err == nil {
			entitiesJSON = string(data)
		}
	}

	interaction := &models.Interaction{
		SessionID:      reply.SessionID,
		UserInput:      message,
		Intent:         reply.Intent,
		Confidence:     reply.Confidence,
		Response:       reply.Response,
		Channel:        channel,
		Entities:       entitiesJSON,
		ProcessingTime: reply.ProcessingTime,
		CreatedAt:      reply.Timestamp,
	}
	if err := s.repo.LogInteraction(ctx, interaction); err != nil {
		logger.Warn("failed to log interaction",
			zap.String("session_id", reply.SessionID), zap.Error(err))
	}
}
