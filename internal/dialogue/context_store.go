package dialogue

import (
	"fmt"
	"sync"
	"time"

	"github.com/admithub/backend-go/internal/logger"
	"go.uber.org/zap"
)

// defaultContextWindow 每个会话保留的最近轮次数
const defaultContextWindow = 10

// Turn 一轮对话
type Turn struct {
	UserInput string    `json:"user_input"`
	Intent    IntentTag `json:"intent"`
	Response  string    `json:"response"`
	At        time.Time `json:"at"`
}

// ConversationContext 会话上下文快照
type ConversationContext struct {
	SessionID    string    `json:"session_id"`
	Turns        []Turn    `json:"turns"`
	StartedAt    time.Time `json:"started_at"`
	LastActiveAt time.Time `json:"last_active_at"`
}

// ConversationSummary 会话统计摘要
type ConversationSummary struct {
	Summary        string   `json:"summary"`
	Topics         []string `json:"topics"`
	Duration       float64  `json:"duration"`
	TotalExchanges int      `json:"total_exchanges"`
	StartTime      string   `json:"start_time,omitempty"`
	LastActivity   string   `json:"last_activity,omitempty"`
}

type sessionContext struct {
	turns        []Turn
	startedAt    time.Time
	lastActiveAt time.Time
}

// ContextStore 会话上下文的内存存储，按会话ID维护滑动窗口
type ContextStore struct {
	mu       sync.Mutex
	window   int
	sessions map[string]*sessionContext
}

func NewContextStore(window int) *ContextStore {
	if window <= 0 {
		window = defaultContextWindow
	}
	return &ContextStore{window: window, sessions: make(map[string]*sessionContext)}
}

// AppendTurn 记录一轮对话，超出窗口时丢弃最旧轮次
func (s *ContextStore) AppendTurn(sessionID string, turn Turn) {
	if turn.At.IsZero() {
		turn.At = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, ok := s.sessions[sessionID]
	if !ok {
		ctx = &sessionContext{startedAt: turn.At}
		s.sessions[sessionID] = ctx
	}

	ctx.turns = append(ctx.turns, turn)
	if len(ctx.turns) > s.window {
		ctx.turns = ctx.turns[len(ctx.turns)-s.window:]
	}
	ctx.lastActiveAt = turn.At
}

// GetContext 返回会话上下文快照；会话不存在时返回空上下文而非nil
func (s *ContextStore) GetContext(sessionID string) ConversationContext {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, ok := s.sessions[sessionID]
	if !ok {
		now := time.Now()
		return ConversationContext{
			SessionID:    sessionID,
			Turns:        []Turn{},
			StartedAt:    now,
			LastActiveAt: now,
		}
	}

	turns := make([]Turn, len(ctx.turns))
	copy(turns, ctx.turns)
	return ConversationContext{
		SessionID:    sessionID,
		Turns:        turns,
		StartedAt:    ctx.startedAt,
		LastActiveAt: ctx.lastActiveAt,
	}
}

// Summary 生成会话摘要，话题为去重后的非unknown意图
func (s *ContextStore) Summary(sessionID string) ConversationSummary {
	ctx := s.GetContext(sessionID)

	if len(ctx.Turns) == 0 {
		return ConversationSummary{Summary: "No conversation yet", Topics: []string{}, Duration: 0}
	}

	seen := make(map[IntentTag]bool)
	topics := make([]string, 0, len(ctx.Turns))
	for _, turn := range ctx.Turns {
		if turn.Intent == IntentUnknown || seen[turn.Intent] {
			continue
		}
		seen[turn.Intent] = true
		topics = append(topics, string(turn.Intent))
	}

	return ConversationSummary{
		Summary:        formatSummary(len(topics), len(ctx.Turns)),
		Topics:         topics,
		Duration:       ctx.LastActiveAt.Sub(ctx.StartedAt).Seconds(),
		TotalExchanges: len(ctx.Turns),
		StartTime:      ctx.StartedAt.Format(time.RFC3339),
		LastActivity:   ctx.LastActiveAt.Format(time.RFC3339),
	}
}

func formatSummary(topics, exchanges int) string {
	return fmt.Sprintf("Discussed %d topics over %d exchanges", topics, exchanges)
}

// Clear 清除指定会话的上下文
func (s *ContextStore) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; ok {
		delete(s.sessions, sessionID)
		logger.Info("conversation context cleared", zap.String("session_id", sessionID))
	}
}

// ActiveSessions 当前持有上下文的会话数
func (s *ContextStore) ActiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
