package knowledge

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/admithub/backend-go/internal/logger"
	"go.uber.org/zap"
)

// FAQ 知识库原始条目
type FAQ struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Category string   `json:"category"`
	Keywords []string `json:"keywords,omitempty"`
}

// Corpus 知识库文件结构
type Corpus struct {
	UniversityInfo map[string]string `json:"university_info,omitempty"`
	FAQs           []FAQ             `json:"faqs"`
}

// CorpusStore 知识库文件存储，负责加载、落盘和条目转换
type CorpusStore struct {
	mu     sync.Mutex
	path   string
	corpus Corpus
}

// NewCorpusStore 从文件加载知识库；文件不存在时写入内置默认语料
func NewCorpusStore(path string) (*CorpusStore, error) {
	s := &CorpusStore{path: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		s.corpus = defaultCorpus()
		if err := s.persistLocked(); err != nil {
			return nil, fmt.Errorf("write default knowledge base: %w", err)
		}
		logger.Info("default knowledge base created", zap.String("path", path))
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read knowledge base: %w", err)
	}
	if err := json.Unmarshal(data, &s.corpus); err != nil {
		return nil, fmt.Errorf("parse knowledge base: %w", err)
	}
	return s, nil
}

// Entries 将语料转换为可索引的知识条目。
// FAQ条目text为 "Q: {question} A: {answer}"，答案原文存进metadata。
func (s *CorpusStore) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]Entry, 0, len(s.corpus.FAQs)+1)
	for _, faq := range s.corpus.FAQs {
		category := faq.Category
		if category == "" {
			category = "general"
		}
		entries = append(entries, Entry{
			ID:       faq.ID,
			Text:     fmt.Sprintf("Q: %s A: %s", faq.Question, faq.Answer),
			Category: category,
			Metadata: map[string]string{
				"type":     "faq",
				"question": faq.Question,
				"answer":   faq.Answer,
				"keywords": strings.Join(faq.Keywords, ","),
			},
		})
	}

	if len(s.corpus.UniversityInfo) > 0 {
		info, _ := json.Marshal(s.corpus.UniversityInfo)
		entries = append(entries, Entry{
			ID:       "uni_info_001",
			Text:     fmt.Sprintf("University Information: %s", info),
			Category: "general_info",
			Metadata: map[string]string{"type": "university_info"},
		})
	}
	return entries
}

// Snapshot 返回语料副本，供只读接口使用
func (s *CorpusStore) Snapshot() Corpus {
	s.mu.Lock()
	defer s.mu.Unlock()

	corpus := Corpus{
		UniversityInfo: make(map[string]string, len(s.corpus.UniversityInfo)),
		FAQs:           make([]FAQ, len(s.corpus.FAQs)),
	}
	for k, v := range s.corpus.UniversityInfo {
		corpus.UniversityInfo[k] = v
	}
	copy(corpus.FAQs, s.corpus.FAQs)
	return corpus
}

// AppendFAQs 追加条目并落盘
func (s *CorpusStore) AppendFAQs(faqs []FAQ) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.corpus.FAQs = append(s.corpus.FAQs, faqs...)
	return s.persistLocked()
}

// ReplaceFAQ 按ID替换条目并落盘
func (s *CorpusStore) ReplaceFAQ(faq FAQ) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.corpus.FAQs {
		if s.corpus.FAQs[i].ID == faq.ID {
			s.corpus.FAQs[i] = faq
			return true, s.persistLocked()
		}
	}
	return false, nil
}

// RemoveFAQ 按ID删除条目并落盘
func (s *CorpusStore) RemoveFAQ(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.corpus.FAQs {
		if s.corpus.FAQs[i].ID == id {
			s.corpus.FAQs = append(s.corpus.FAQs[:i], s.corpus.FAQs[i+1:]...)
			return true, s.persistLocked()
		}
	}
	return false, nil
}

// Reload 从磁盘重新加载语料（供文件监听器触发）
func (s *CorpusStore) Reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("read knowledge base: %w", err)
	}
	var corpus Corpus
	if err := json.Unmarshal(data, &corpus); err != nil {
		return fmt.Errorf("parse knowledge base: %w", err)
	}

	s.mu.Lock()
	s.corpus = corpus
	s.mu.Unlock()
	return nil
}

// Path 语料文件路径
func (s *CorpusStore) Path() string {
	return s.path
}

func (s *CorpusStore) persistLocked() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s.corpus, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

// defaultCorpus 内置的招生FAQ语料
func defaultCorpus() Corpus {
	return Corpus{
		UniversityInfo: map[string]string{
			"name":        "University Name",
			"established": "1950",
			"location":    "City, State",
			"type":        "Public Research University",
		},
		FAQs: []FAQ{
			{
				ID:       "req_001",
				Question: "What are the admission requirements?",
				Answer:   "To apply for admission, you need: 1) High school diploma or equivalent, 2) Minimum GPA of 3.0, 3) SAT score of 1200+ or ACT score of 26+, 4) Two letters of recommendation, 5) Personal statement, 6) Official transcripts.",
				Category: "admission_requirements",
				Keywords: []string{"requirements", "admission", "GPA", "SAT", "ACT", "transcripts"},
			},
			{
				ID:       "deadline_001",
				Question: "When is the application deadline?",
				Answer:   "Application deadlines are: Fall semester - March 1st (Regular Decision), November 15th (Early Decision); Spring semester - October 1st; Summer semester - March 1st. Late applications may be considered on a space-available basis.",
				Category: "application_deadline",
				Keywords: []string{"deadline", "application", "fall", "spring", "summer", "early decision"},
			},
			{
				ID:       "fees_001",
				Question: "What are the tuition and fees?",
				Answer:   "For the 2024-2025 academic year: In-state tuition: $12,000/year, Out-of-state tuition: $28,000/year, Room and board: $14,000/year, Books and supplies: $1,500/year, Personal expenses: $2,000/year. Total estimated cost varies by residency status.",
				Category: "tuition_fees",
				Keywords: []string{"tuition", "fees", "cost", "in-state", "out-of-state", "room", "board"},
			},
			{
				ID:       "programs_001",
				Question: "What programs do you offer?",
				Answer:   "We offer over 100 undergraduate programs including: Business Administration, Computer Science, Engineering, Pre-Med, Psychology, Education, Arts & Sciences, and more. Graduate programs include MBA, MS in Computer Science, Engineering, and various PhD programs.",
				Category: "programs_offered",
				Keywords: []string{"programs", "majors", "degrees", "undergraduate", "graduate", "MBA", "PhD"},
			},
			{
				ID:       "aid_001",
				Question: "What financial aid is available?",
				Answer:   "Financial aid options include: Federal grants and loans, State grants, University scholarships (merit and need-based), Work-study programs, Graduate assistantships. Complete FAFSA by March 1st for priority consideration. Over 80% of students receive some form of financial aid.",
				Category: "financial_aid",
				Keywords: []string{"financial aid", "scholarships", "grants", "loans", "FAFSA", "work-study"},
			},
			{
				ID:       "contact_001",
				Question: "How can I contact the admissions office?",
				Answer:   "Admissions Office Contact: Phone: (555) 123-4567, Email: admissions@university.edu, Address: 123 University Ave, City, State 12345. Office hours: Monday-Friday 8:00 AM - 5:00 PM. Virtual appointments available.",
				Category: "contact_info",
				Keywords: []string{"contact", "phone", "email", "address", "office hours", "appointments"},
			},
			{
				ID:       "visit_001",
				Question: "Can I visit the campus?",
				Answer:   "Yes! Campus visits are encouraged. We offer: Daily campus tours at 10 AM and 2 PM, Information sessions, Overnight stays for prospective students, Virtual tours available online. Schedule visits at least 48 hours in advance through our website or by calling the admissions office.",
				Category: "campus_visit",
				Keywords: []string{"campus visit", "tour", "information session", "overnight", "virtual tour"},
			},
			{
				ID:       "housing_001",
				Question: "What housing options are available?",
				Answer:   "On-campus housing includes: Traditional residence halls, Suite-style dormitories, Apartment-style housing for upperclassmen, Special interest housing (honors, international). All freshmen are required to live on campus. Housing applications open in February for fall semester.",
				Category: "housing",
				Keywords: []string{"housing", "dormitory", "residence hall", "apartment", "on-campus", "freshman"},
			},
		},
	}
}
