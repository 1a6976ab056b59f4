package models

import (
	"time"
)

// Interaction 用户交互记录表
type Interaction struct {
	ID             uint      `gorm:"primaryKey;column:id" json:"id"`
	SessionID      string    `gorm:"column:session_id;size:255;not null;index" json:"session_id"`
	UserInput      string    `gorm:"type:text;column:user_input;not null" json:"user_input"`
	Intent         string    `gorm:"column:intent;size:64;index" json:"intent"`
	Confidence     float64   `gorm:"column:confidence" json:"confidence"`
	Response       string    `gorm:"type:text;column:response;not null" json:"response"`
	Channel        string    `gorm:"column:channel;size:32;default:chat" json:"channel"`
	Entities       string    `gorm:"type:jsonb;column:entities" json:"entities,omitempty"`
	ProcessingTime float64   `gorm:"column:processing_time" json:"processing_time"`
	CreatedAt      time.Time `gorm:"column:created_at;not null;index" json:"created_at"`
}

func (Interaction) TableName() string {
	return "interactions"
}

// SessionRecord 会话统计表
type SessionRecord struct {
	SessionID         string     `gorm:"primaryKey;column:session_id;size:255" json:"session_id"`
	StartTime         time.Time  `gorm:"column:start_time;not null;index" json:"start_time"`
	EndTime           *time.Time `gorm:"column:end_time" json:"end_time,omitempty"`
	TotalInteractions int        `gorm:"column:total_interactions;default:0" json:"total_interactions"`
	Status            string     `gorm:"column:status;size:20;default:active" json:"status"`
	CreatedAt         time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"column:updated_at" json:"updated_at"`
}

func (SessionRecord) TableName() string {
	return "sessions"
}

// UserFeedback 用户反馈表
type UserFeedback struct {
	ID            uint      `gorm:"primaryKey;column:id" json:"id"`
	SessionID     string    `gorm:"column:session_id;size:255;not null;index" json:"session_id"`
	InteractionID *uint     `gorm:"column:interaction_id" json:"interaction_id,omitempty"`
	FeedbackType  string    `gorm:"column:feedback_type;size:32;not null" json:"feedback_type"`
	Rating        int       `gorm:"column:rating" json:"rating"`
	Comments      string    `gorm:"type:text;column:comments" json:"comments,omitempty"`
	CreatedAt     time.Time `gorm:"column:created_at" json:"created_at"`
}

func (UserFeedback) TableName() string {
	return "user_feedback"
}
