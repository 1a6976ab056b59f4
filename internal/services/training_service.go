package services

import (
	"strings"

	apperrors "github.com/admithub/backend-go/internal/errors"
	"github.com/admithub/backend-go/internal/logger"
	"github.com/admithub/backend-go/internal/nlu"
	"go.uber.org/zap"
)

// TrainingService 意图语料管理与分类器训练
type TrainingService struct {
	intents    *nlu.IntentStore
	classifier *nlu.Classifier
}

func NewTrainingService(intents *nlu.IntentStore, classifier *nlu.Classifier) *TrainingService {
	return &TrainingService{intents: intents, classifier: classifier}
}

// Train 用当前语料训练分类器，新模型原子替换旧模型
func (s *TrainingService) Train() error {
	examples := s.intents.Examples()
	if len(examples) == 0 {
		return apperrors.NewModelUntrainedError("intent corpus is empty")
	}

	s.classifier.Train(examples)
	trainingRunsTotal.Inc()
	logger.Info("intent classifier trained",
		zap.Int("examples", len(examples)),
		zap.Int("intents", len(s.intents.Tags())))
	return nil
}

// AddExample 追加训练样本并重训。样本先落盘，训练失败不影响已持久化的语料。
func (s *TrainingService) AddExample(text, tag string) error {
	text = strings.TrimSpace(text)
	tag = strings.TrimSpace(tag)
	if text == "" || tag == "" {
		return apperrors.NewValidationError("text and tag are required")
	}

	if err := s.intents.AddExample(text, tag); err != nil {
		return apperrors.NewInternalError("failed to persist training example").WithCause(err)
	}
	return s.Train()
}

// Reload 从磁盘重载语料并重训（供文件监听器触发）
func (s *TrainingService) Reload() error {
	if err := s.intents.Reload(); err != nil {
		return apperrors.NewCorpusUnreadableError(s.intents.Path()).WithCause(err)
	}
	return s.Train()
}

// Intents 当前已知意图标签
func (s *TrainingService) Intents() []string {
	return s.intents.Tags()
}
