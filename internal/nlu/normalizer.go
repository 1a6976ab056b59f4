package nlu

import (
	"strings"
	"unicode"
)

// 英文停用词表，覆盖咨询问句里的常见虚词
var stopWords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`i me my myself we our ours ourselves you your yours yourself
		yourselves he him his himself she her hers herself it its itself they them their theirs
		themselves what which who whom this that these those am is are was were be been being have
		has had having do does did doing a an the and but if or because as until while of at by for
		with about against between into through during before after above below to from up down in
		out on off over under again further then once here there when where why how all any both
		each few more most other some such no nor not only own same so than too very s t can will
		just don should now d ll m o re ve y ain aren couldn didn doesn hadn hasn haven isn ma
		mightn mustn needn shan shouldn wasn weren won wouldn`) {
		stopWords[w] = struct{}{}
	}
}

// 不规则词形还原表，规则推不出来的放这里
var lemmaExceptions = map[string]string{
	"children":     "child",
	"criteria":     "criterion",
	"alumni":       "alumnus",
	"men":          "man",
	"women":        "woman",
	"feet":         "foot",
	"teeth":        "tooth",
	"theses":       "thesis",
	"analyses":     "analysis",
	"curricula":    "curriculum",
	"syllabi":      "syllabus",
	"universities": "university",
}

// Normalize 将原始文本归一化为规范词序列：小写、去标点、
// 分词、去停用词和短词、词形还原。纯函数，空输入返回空序列。
func Normalize(text string) []string {
	var builder strings.Builder
	builder.Grow(len(text))

	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			builder.WriteRune(r)
		case unicode.IsSpace(r):
			builder.WriteRune(' ')
		default:
			// 其余字符全部剔除，保留空格作为分隔
		}
	}

	fields := strings.Fields(builder.String())
	tokens := make([]string, 0, len(fields))
	for _, token := range fields {
		if len(token) <= 2 {
			continue
		}
		if _, ok := stopWords[token]; ok {
			continue
		}
		lemma := lemmatize(token)
		// 还原后的词可能重新落入停用词或短词范围，再过滤一次保证幂等
		if len(lemma) <= 2 {
			continue
		}
		if _, ok := stopWords[lemma]; ok {
			continue
		}
		tokens = append(tokens, lemma)
	}

	return tokens
}

// NormalizeText 归一化后以空格拼接，供向量化器使用
func NormalizeText(text string) string {
	return strings.Join(Normalize(text), " ")
}

// lemmatize 名词性词形还原：先查不规则表，再做复数后缀规约
func lemmatize(token string) string {
	if lemma, ok := lemmaExceptions[token]; ok {
		return lemma
	}

	switch {
	case len(token) > 4 && strings.HasSuffix(token, "ies"):
		return token[:len(token)-3] + "y"
	case len(token) > 4 && strings.HasSuffix(token, "sses"):
		return token[:len(token)-2]
	case len(token) > 4 && (strings.HasSuffix(token, "xes") ||
		strings.HasSuffix(token, "ches") || strings.HasSuffix(token, "shes")):
		return token[:len(token)-2]
	case len(token) > 3 && strings.HasSuffix(token, "s") &&
		!strings.HasSuffix(token, "ss") && !strings.HasSuffix(token, "us") &&
		!strings.HasSuffix(token, "is"):
		return token[:len(token)-1]
	}

	return token
}
