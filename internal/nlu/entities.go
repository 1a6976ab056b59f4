package nlu

import (
	"fmt"
	"regexp"
)

// EntityType 实体类别
type EntityType string

const (
	EntityEmail         EntityType = "email"
	EntityPhone         EntityType = "phone"
	EntityDate          EntityType = "date"
	EntityGPA           EntityType = "gpa"
	EntityMoney         EntityType = "money"
	EntityProgram       EntityType = "program"
	EntityAcademicLevel EntityType = "academic_level"
	EntityTestScore     EntityType = "test_score"
)

// Entity 从原始文本中抽取出的结构化字段
type Entity struct {
	Type   EntityType `json:"type"`
	Values []string   `json:"values"`
}

// entityMatcher 单个实体类型的匹配器
type entityMatcher struct {
	entityType EntityType
	pattern    *regexp.Regexp
	format     func(match []string) string
}

// 匹配器表按固定顺序执行，结果顺序即表顺序
var entityMatchers = []entityMatcher{
	{
		entityType: EntityEmail,
		pattern:    regexp.MustCompile(`\b[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}\b`),
	},
	{
		entityType: EntityPhone,
		pattern:    regexp.MustCompile(`\b(?:\+?1[\-.\s]?)?\(?([0-9]{3})\)?[\-.\s]?([0-9]{3})[\-.\s]?([0-9]{4})\b`),
		// 无论输入写法如何，电话统一展示为 (AAA) BBB-CCCC
		format: func(match []string) string {
			return fmt.Sprintf("(%s) %s-%s", match[1], match[2], match[3])
		},
	},
	{
		entityType: EntityDate,
		pattern: regexp.MustCompile(`(?i)\b(?:january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{1,2},?\s+\d{4}\b|\b\d{1,2}[/\-]\d{1,2}[/\-]\d{2,4}\b`),
	},
	{
		entityType: EntityGPA,
		pattern:    regexp.MustCompile(`(?i)\b[0-4]\.\d{1,2}\b|\b[0-4]\s*GPA\b`),
	},
	{
		entityType: EntityMoney,
		pattern:    regexp.MustCompile(`\$[\d,]+(?:\.\d{2})?`),
	},
	{
		entityType: EntityProgram,
		pattern: regexp.MustCompile(`(?i)\b(?:computer science|engineering|business|medicine|law|arts|science|mathematics|physics|chemistry|biology|psychology|economics|english|history)\b`),
	},
	{
		entityType: EntityAcademicLevel,
		pattern:    regexp.MustCompile(`(?i)\b(?:freshman|sophomore|junior|senior|graduate|undergraduate|phd|masters?)\b`),
	},
	{
		entityType: EntityTestScore,
		pattern:    regexp.MustCompile(`(?i)\bSAT\s*:?\s*\d{3,4}\b|\bACT\s*:?\s*\d{1,2}\b`),
	},
}

// ExtractEntities 对原始文本独立运行所有匹配器。
// 无状态、可并发调用；没有匹配的类型不产生条目。
func ExtractEntities(rawText string) []Entity {
	var entities []Entity
	for _, m := range entityMatchers {
		var values []string
		if m.format != nil {
			for _, match := range m.pattern.FindAllStringSubmatch(rawText, -1) {
				values = append(values, m.format(match))
			}
		} else {
			values = m.pattern.FindAllString(rawText, -1)
		}
		if len(values) > 0 {
			entities = append(entities, Entity{Type: m.entityType, Values: values})
		}
	}
	return entities
}
