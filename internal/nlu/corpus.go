package nlu

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/admithub/backend-go/internal/logger"
	"go.uber.org/zap"
)

// IntentDefinition 一个意图标签及其示例句集合
type IntentDefinition struct {
	Tag      string   `json:"tag"`
	Patterns []string `json:"patterns"`
}

// IntentCorpus 训练语料文件结构
type IntentCorpus struct {
	Intents []IntentDefinition `json:"intents"`
}

// IntentStore 可变训练语料存储。语料只追加不删除，
// 每次变更后落盘，供重启和热加载使用。
type IntentStore struct {
	mu     sync.Mutex
	path   string
	corpus IntentCorpus
}

// NewIntentStore 从文件加载语料；文件不存在时写入内置默认语料
func NewIntentStore(path string) (*IntentStore, error) {
	s := &IntentStore{path: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		s.corpus = defaultIntentCorpus()
		if err := s.persistLocked(); err != nil {
			return nil, fmt.Errorf("write default intents: %w", err)
		}
		logger.Info("default intent corpus created", zap.String("path", path))
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read intents: %w", err)
	}
	if err := json.Unmarshal(data, &s.corpus); err != nil {
		return nil, fmt.Errorf("parse intents: %w", err)
	}
	return s, nil
}

// Examples 展开语料为训练样本列表
func (s *IntentStore) Examples() []TrainingExample {
	s.mu.Lock()
	defer s.mu.Unlock()

	var examples []TrainingExample
	for _, intent := range s.corpus.Intents {
		for _, pattern := range intent.Patterns {
			examples = append(examples, TrainingExample{Text: pattern, Label: intent.Tag})
		}
	}
	return examples
}

// Tags 当前语料中的标签集合
func (s *IntentStore) Tags() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	tags := make([]string, 0, len(s.corpus.Intents))
	for _, intent := range s.corpus.Intents {
		tags = append(tags, intent.Tag)
	}
	return tags
}

// AddExample 向已有标签追加示例句，标签不存在时创建新标签。
// 变更立即落盘。
func (s *IntentStore) AddExample(text, tag string) error {
	if text == "" || tag == "" {
		return fmt.Errorf("example text and tag are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for i := range s.corpus.Intents {
		if s.corpus.Intents[i].Tag == tag {
			s.corpus.Intents[i].Patterns = append(s.corpus.Intents[i].Patterns, text)
			found = true
			break
		}
	}
	if !found {
		s.corpus.Intents = append(s.corpus.Intents, IntentDefinition{
			Tag:      tag,
			Patterns: []string{text},
		})
	}

	if err := s.persistLocked(); err != nil {
		return err
	}
	logger.Info("training example added", zap.String("tag", tag))
	return nil
}

// Reload 从磁盘重新加载语料（供文件监听器触发）
func (s *IntentStore) Reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("read intents: %w", err)
	}
	var corpus IntentCorpus
	if err := json.Unmarshal(data, &corpus); err != nil {
		return fmt.Errorf("parse intents: %w", err)
	}

	s.mu.Lock()
	s.corpus = corpus
	s.mu.Unlock()
	return nil
}

// Path 语料文件路径
func (s *IntentStore) Path() string {
	return s.path
}

func (s *IntentStore) persistLocked() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s.corpus, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

// defaultIntentCorpus 内置的招生咨询意图语料
func defaultIntentCorpus() IntentCorpus {
	return IntentCorpus{Intents: []IntentDefinition{
		{Tag: "admission_requirements", Patterns: []string{
			"What are the admission requirements?",
			"admission criteria",
			"requirements for admission",
			"what do I need to apply",
			"eligibility criteria",
			"admission qualifications",
			"entry requirements",
		}},
		{Tag: "application_deadline", Patterns: []string{
			"When is the application deadline?",
			"deadline for applications",
			"last date to apply",
			"application due date",
			"when should I apply",
			"application timeline",
		}},
		{Tag: "tuition_fees", Patterns: []string{
			"What are the tuition fees?",
			"cost of education",
			"fees structure",
			"how much does it cost",
			"tuition costs",
			"education expenses",
			"fee details",
		}},
		{Tag: "programs_offered", Patterns: []string{
			"What programs do you offer?",
			"available courses",
			"list of programs",
			"majors available",
			"degree programs",
			"course offerings",
			"academic programs",
		}},
		{Tag: "financial_aid", Patterns: []string{
			"Financial aid options",
			"scholarships available",
			"student loans",
			"grants and scholarships",
			"financial assistance",
			"funding options",
		}},
		{Tag: "contact_info", Patterns: []string{
			"How can I contact admissions?",
			"admissions office contact",
			"phone number",
			"email address",
			"contact details",
			"get in touch",
		}},
		{Tag: "campus_visit", Patterns: []string{
			"Can I visit the campus?",
			"campus tour",
			"visit the university",
			"campus visits",
			"schedule a tour",
		}},
		{Tag: "housing", Patterns: []string{
			"Student housing options",
			"dormitories",
			"accommodation",
			"residence halls",
			"on-campus housing",
		}},
		{Tag: "greeting", Patterns: []string{
			"Hello",
			"Hi",
			"Good morning",
			"Good afternoon",
			"Hey",
			"Greetings",
		}},
		{Tag: "goodbye", Patterns: []string{
			"Goodbye",
			"Bye",
			"Thank you",
			"Thanks",
			"See you later",
		}},
	}}
}
