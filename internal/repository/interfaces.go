package repository

import (
	"context"
	"time"

	"github.com/admithub/backend-go/internal/models"
)

// AnalyticsReport 统计报表
type AnalyticsReport struct {
	TotalInteractions     int64              `json:"total_interactions"`
	UniqueSessions        int64              `json:"unique_sessions"`
	IntentDistribution    map[string]int64   `json:"intent_distribution"`
	ChannelDistribution   map[string]int64   `json:"channel_distribution"`
	DailyInteractions     map[string]int64   `json:"daily_interactions"`
	AverageConfidence     map[string]float64 `json:"average_confidence"`
	AverageProcessingTime float64            `json:"average_processing_time"`
}

// PopularQuery 高频问题
type PopularQuery struct {
	Query         string  `json:"query"`
	Frequency     int64   `json:"frequency"`
	AvgConfidence float64 `json:"avg_confidence"`
}

// InteractionRepository 交互记录仓库
type InteractionRepository interface {
	// LogInteraction 记录一次交互并累加会话计数
	LogInteraction(ctx context.Context, interaction *models.Interaction) error
	// GetSessionHistory 按时间升序返回会话历史
	GetSessionHistory(ctx context.Context, sessionID string, limit int) ([]models.Interaction, error)
	// GetAnalytics 统计最近days天的交互数据
	GetAnalytics(ctx context.Context, days int) (*AnalyticsReport, error)
	// GetPopularQueries 最近days天的高频问题
	GetPopularQueries(ctx context.Context, limit, days int) ([]PopularQuery, error)
	// GetLowConfidenceInteractions 低置信度交互，用于语料补强
	GetLowConfidenceInteractions(ctx context.Context, threshold float64, limit int) ([]models.Interaction, error)
	// SaveFeedback 保存用户反馈
	SaveFeedback(ctx context.Context, feedback *models.UserFeedback) error
	// EndSession 标记会话结束
	EndSession(ctx context.Context, sessionID string, at time.Time) error
}
