package repository

import (
	"context"
	"time"

	"github.com/admithub/backend-go/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// interactionRepository 交互记录仓库实现
type interactionRepository struct {
	db *gorm.DB
}

// NewInteractionRepository 创建交互记录仓库
func NewInteractionRepository(db *gorm.DB) InteractionRepository {
	return &interactionRepository{db: db}
}

// LogInteraction 记录交互，并在同一事务内维护会话统计
func (r *interactionRepository) LogInteraction(ctx context.Context, interaction *models.Interaction) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(interaction).Error; err != nil {
			return err
		}

		now := time.Now()
		record := models.SessionRecord{
			SessionID:         interaction.SessionID,
			StartTime:         now,
			TotalInteractions: 1,
			Status:            "active",
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "session_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"total_interactions": gorm.Expr("sessions.total_interactions + 1"),
				"updated_at":         now,
			}),
		}).Create(&record).Error
	})
}

// GetSessionHistory 按时间升序返回会话历史
func (r *interactionRepository) GetSessionHistory(ctx context.Context, sessionID string, limit int) ([]models.Interaction, error) {
	if limit <= 0 {
		limit = 50
	}

	var history []models.Interaction
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Limit(limit).
		Find(&history).Error
	if err != nil {
		return nil, err
	}
	return history, nil
}

// GetAnalytics 统计最近days天的交互数据
func (r *interactionRepository) GetAnalytics(ctx context.Context, days int) (*AnalyticsReport, error) {
	if days <= 0 {
		days = 7
	}
	since := time.Now().AddDate(0, 0, -days)

	report := &AnalyticsReport{
		IntentDistribution:  make(map[string]int64),
		ChannelDistribution: make(map[string]int64),
		DailyInteractions:   make(map[string]int64),
		AverageConfidence:   make(map[string]float64),
	}

	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&models.Interaction{}).Where("created_at >= ?", since)
	}

	if err := base().Count(&report.TotalInteractions).Error; err != nil {
		return nil, err
	}

	if err := base().Distinct("session_id").Count(&report.UniqueSessions).Error; err != nil {
		return nil, err
	}

	type intentCount struct {
		Intent string
		Count  int64
	}
	var intents []intentCount
	if err := base().Select("intent, COUNT(*) as count").
		Where("intent <> ''").
		Group("intent").
		Order("count DESC").
		Scan(&intents).Error; err != nil {
		return nil, err
	}
	for _, ic := range intents {
		report.IntentDistribution[ic.Intent] = ic.Count
	}

	type channelCount struct {
		Channel string
		Count   int64
	}
	var channels []channelCount
	if err := base().Select("channel, COUNT(*) as count").
		Group("channel").
		Scan(&channels).Error; err != nil {
		return nil, err
	}
	for _, cc := range channels {
		report.ChannelDistribution[cc.Channel] = cc.Count
	}

	type dailyCount struct {
		Day   string
		Count int64
	}
	var daily []dailyCount
	if err := base().Select("DATE(created_at) as day, COUNT(*) as count").
		Group("DATE(created_at)").
		Order("day ASC").
		Scan(&daily).Error; err != nil {
		return nil, err
	}
	for _, dc := range daily {
		report.DailyInteractions[dc.Day] = dc.Count
	}

	type confidenceAvg struct {
		Intent        string
		AvgConfidence float64
	}
	var confidences []confidenceAvg
	if err := base().Select("intent, AVG(confidence) as avg_confidence").
		Where("intent <> ''").
		Group("intent").
		Scan(&confidences).Error; err != nil {
		return nil, err
	}
	for _, ca := range confidences {
		report.AverageConfidence[ca.Intent] = ca.AvgConfidence
	}

	var avgProcessing *float64
	if err := base().Select("AVG(processing_time)").
		Where("processing_time > 0").
		Scan(&avgProcessing).Error; err != nil {
		return nil, err
	}
	if avgProcessing != nil {
		report.AverageProcessingTime = *avgProcessing
	}

	return report, nil
}

// GetPopularQueries 最近days天按归一化问法聚合的高频问题
func (r *interactionRepository) GetPopularQueries(ctx context.Context, limit, days int) ([]PopularQuery, error) {
	if limit <= 0 {
		limit = 10
	}
	if days <= 0 {
		days = 30
	}
	since := time.Now().AddDate(0, 0, -days)

	var queries []PopularQuery
	err := r.db.WithContext(ctx).Model(&models.Interaction{}).
		Select("MIN(user_input) as query, COUNT(*) as frequency, AVG(confidence) as avg_confidence").
		Where("created_at >= ? AND LENGTH(user_input) > 5", since).
		Group("LOWER(TRIM(user_input))").
		Order("frequency DESC").
		Limit(limit).
		Scan(&queries).Error
	if err != nil {
		return nil, err
	}
	return queries, nil
}

// GetLowConfidenceInteractions 低置信度交互，按置信度升序
func (r *interactionRepository) GetLowConfidenceInteractions(ctx context.Context, threshold float64, limit int) ([]models.Interaction, error) {
	if limit <= 0 {
		limit = 50
	}

	var interactions []models.Interaction
	err := r.db.WithContext(ctx).
		Where("confidence < ?", threshold).
		Order("confidence ASC").
		Limit(limit).
		Find(&interactions).Error
	if err != nil {
		return nil, err
	}
	return interactions, nil
}

// SaveFeedback 保存用户反馈
func (r *interactionRepository) SaveFeedback(ctx context.Context, feedback *models.UserFeedback) error {
	return r.db.WithContext(ctx).Create(feedback).Error
}

// EndSession 标记会话结束
func (r *interactionRepository) EndSession(ctx context.Context, sessionID string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.SessionRecord{}).
		Where("session_id = ?", sessionID).
		Updates(map[string]interface{}{
			"status":     "ended",
			"end_time":   at,
			"updated_at": at,
		}).Error
}
