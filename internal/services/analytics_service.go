package services

import (
	"context"

	apperrors "github.com/admithub/backend-go/internal/errors"
	"github.com/admithub/backend-go/internal/models"
	"github.com/admithub/backend-go/internal/repository"
)

// AnalyticsService 交互数据统计
type AnalyticsService struct {
	repo repository.InteractionRepository
}

func NewAnalyticsService(repo repository.InteractionRepository) *AnalyticsService {
	return &AnalyticsService{repo: repo}
}

// Enabled 是否启用了持久化
func (s *AnalyticsService) Enabled() bool {
	return s.repo != nil
}

// Report 最近days天的统计报表
func (s *AnalyticsService) Report(ctx context.Context, days int) (*repository.AnalyticsReport, error) {
	if s.repo == nil {
		return nil, apperrors.NewInternalError("analytics requires database persistence")
	}

	report, err := s.repo.GetAnalytics(ctx, days)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to aggregate analytics").WithCause(err)
	}
	return report, nil
}

// SessionHistory 某会话的持久化历史
func (s *AnalyticsService) SessionHistory(ctx context.Context, sessionID string, limit int) ([]models.Interaction, error) {
	if s.repo == nil {
		return nil, apperrors.NewInternalError("session history requires database persistence")
	}

	history, err := s.repo.GetSessionHistory(ctx, sessionID, limit)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load session history").WithCause(err)
	}
	return history, nil
}

// PopularQueries 高频问题
func (s *AnalyticsService) PopularQueries(ctx context.Context, limit, days int) ([]repository.PopularQuery, error) {
	if s.repo == nil {
		return nil, apperrors.NewInternalError("analytics requires database persistence")
	}
	return s.repo.GetPopularQueries(ctx, limit, days)
}

// LowConfidence 低置信度交互，用于发现语料缺口
func (s *AnalyticsService) LowConfidence(ctx context.Context, threshold float64, limit int) ([]models.Interaction, error) {
	if s.repo == nil {
		return nil, apperrors.NewInternalError("analytics requires database persistence")
	}
	if threshold <= 0 {
		threshold = 0.5
	}
	return s.repo.GetLowConfidenceInteractions(ctx, threshold, limit)
}

// SaveFeedback 保存用户反馈
func (s *AnalyticsService) SaveFeedback(ctx context.Context, feedback *models.UserFeedback) error {
	if s.repo == nil {
		return apperrors.NewInternalError("feedback requires database persistence")
	}
	if feedback.FeedbackType == "" {
		return apperrors.NewValidationError("feedback_type is required")
	}
	if err := s.repo.SaveFeedback(ctx, feedback); err != nil {
		return apperrors.NewInternalError("failed to save feedback").WithCause(err)
	}
	return nil
}
