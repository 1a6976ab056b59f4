package dialogue

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/admithub/backend-go/internal/knowledge"
	"github.com/admithub/backend-go/internal/logger"
	"go.uber.org/zap"
)

const (
	defaultMaxResponseLength = 500
	// informedConfidenceFloor 低于该置信度时不引用检索结果
	informedConfidenceFloor = 0.5
	// informedDocLimit 引用的检索结果上限
	informedDocLimit = 2
)

var (
	modelArtifactPattern = regexp.MustCompile(`<\|.*?\|>`)
	bracketPattern       = regexp.MustCompile(`\[.*?\]`)
)

// ComposerOptions 回复编排器配置
type ComposerOptions struct {
	MaxResponseLength int
	// RandomSeed 非零时固定模板选择的随机序列，便于测试复现
	RandomSeed int64
}

// Composer 回复编排器，基于模板与检索结果生成最终回复
type Composer struct {
	mu        sync.Mutex
	rng       *rand.Rand
	maxLength int
}

func NewComposer(opts ComposerOptions) *Composer {
	if opts.MaxResponseLength <= 0 {
		opts.MaxResponseLength = defaultMaxResponseLength
	}
	seed := opts.RandomSeed
	if seed == 0 {
		seed = rand.Int63()
	}
	return &Composer{
		rng:       rand.New(rand.NewSource(seed)),
		maxLength: opts.MaxResponseLength,
	}
}

// Compose 生成回复。检索结果非空且置信度足够时引用知识库内容，
// 否则退回模板回复。任何内部异常都以兜底文案收场，不向调用方抛错。
func (c *Composer) Compose(userInput string, intent IntentTag, confidence float64, documents []knowledge.ScoredEntry) (response string) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("response composition panicked",
				zap.Any("panic", r),
				zap.String("intent", string(intent)))
			response = c.pick(fallbackResponses)
		}
	}()

	// 寒暄与道别不走知识库
	if intent == IntentGreeting || intent == IntentGoodbye {
		return c.postProcess(c.pick(responseTemplates[intent]))
	}

	if len(documents) > 0 && confidence > informedConfidenceFloor {
		response = c.composeInformed(intent, documents)
	} else {
		response = c.composeFallback(intent)
	}
	return c.postProcess(response)
}

// composeInformed 用检索到的前两条结果拼装回复
func (c *Composer) composeInformed(intent IntentTag, documents []knowledge.ScoredEntry) string {
	relevant := make([]string, 0, informedDocLimit)
	for _, doc := range documents {
		if len(relevant) >= informedDocLimit {
			break
		}
		if doc.Entry.Metadata["type"] == "faq" {
			if answer := doc.Entry.Metadata["answer"]; answer != "" {
				relevant = append(relevant, answer)
			}
			continue
		}
		relevant = append(relevant, doc.Entry.Text)
	}

	if len(relevant) == 0 {
		return c.composeFallback(intent)
	}

	templates, ok := responseTemplates[intent]
	if !ok {
		templates = responseTemplates[IntentUnknown]
	}

	var b strings.Builder
	b.WriteString(c.pick(templates))
	b.WriteString("\n\n")
	b.WriteString(relevant[0])
	if len(relevant) > 1 {
		b.WriteString("\n\nAdditionally: ")
		b.WriteString(relevant[1])
	}

	followUp, ok := followUps[intent]
	if !ok {
		followUp = defaultFollowUp
	}
	b.WriteString("\n\n")
	b.WriteString(followUp)
	return b.String()
}

// composeFallback 无可用检索结果时的模板回复
func (c *Composer) composeFallback(intent IntentTag) string {
	templates, ok := responseTemplates[intent]
	if !ok {
		intent = IntentUnknown
		templates = responseTemplates[IntentUnknown]
	}
	base := c.pick(templates)

	if intent == IntentUnknown {
		return fmt.Sprintf("%s I can help you with information about admission requirements, deadlines, "+
			"tuition fees, programs, financial aid, and more. "+
			"You can also contact our admissions office directly for personalized assistance.", base)
	}
	return fmt.Sprintf("%s For the most current and detailed information, please contact our admissions office at "+
		"admissions@university.edu or call (555) 123-4567.", base)
}

// postProcess 清理回复文本：去除模型痕迹、首字母大写、补句末标点、限长
func (c *Composer) postProcess(response string) string {
	response = modelArtifactPattern.ReplaceAllString(response, "")
	response = bracketPattern.ReplaceAllString(response, "")
	response = strings.TrimSpace(response)
	if response == "" {
		return response
	}

	first, size := utf8.DecodeRuneInString(response)
	if unicode.IsLower(first) {
		response = string(unicode.ToUpper(first)) + response[size:]
	}

	if !strings.ContainsRune(".!?", rune(response[len(response)-1])) {
		response += "."
	}

	if len(response) > c.maxLength {
		cut := response[:c.maxLength-3]
		if idx := strings.LastIndex(cut, " "); idx > 0 {
			cut = cut[:idx]
		}
		response = cut + "..."
	}
	return response
}

func (c *Composer) pick(options []string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return options[c.rng.Intn(len(options))]
}
