package nlu

import (
	"math"
	"sort"
	"sync/atomic"

	"github.com/admithub/backend-go/internal/logger"
	"go.uber.org/zap"
)

// UnknownIntent 置信度不足或模型未训练时的哨兵标签
const UnknownIntent = "unknown"

// TrainingExample 一条训练样本
type TrainingExample struct {
	Text  string
	Label string
}

// ClassificationResult 单次分类结果
type ClassificationResult struct {
	Intent         string             `json:"intent"`
	Confidence     float64            `json:"confidence"`
	ScoresByIntent map[string]float64 `json:"scores_by_intent"`
	Entities       []Entity           `json:"entities"`
}

// ClassifierOptions 分类器参数
type ClassifierOptions struct {
	ConfidenceThreshold float64 // 低于该值时强制返回unknown
	MaxVocabulary       int     // 词表上限
	SmoothingAlpha      float64 // 朴素贝叶斯加性平滑
}

// Classifier TF-IDF + 多项式朴素贝叶斯意图分类器。
// 模型整体构建后原子发布，训练与分类可以并发进行。
type Classifier struct {
	opts  ClassifierOptions
	model atomic.Pointer[classifierModel]
}

// classifierModel 一次训练产出的不可变模型快照
type classifierModel struct {
	labels     []string           // 排序后的标签集，追加训练时保持稳定
	vocabulary map[string]int     // 特征词 -> 维度下标
	idf        []float64          // 平滑后的逆文档频率
	featureSum [][]float64        // 标签 x 特征 的tf-idf权重和
	classTotal []float64          // 每个标签的权重总和
	logPrior   []float64          // 对数先验
	alpha      float64
}

// NewClassifier 创建分类器，未训练时对任意输入返回unknown
func NewClassifier(opts ClassifierOptions) *Classifier {
	if opts.ConfidenceThreshold <= 0 {
		opts.ConfidenceThreshold = 0.7
	}
	if opts.MaxVocabulary <= 0 {
		opts.MaxVocabulary = 1000
	}
	if opts.SmoothingAlpha <= 0 {
		opts.SmoothingAlpha = 0.1
	}
	return &Classifier{opts: opts}
}

// Trained 是否已有可用模型
func (c *Classifier) Trained() bool {
	return c.model.Load() != nil
}

// Labels 当前模型的标签集合（副本）
func (c *Classifier) Labels() []string {
	m := c.model.Load()
	if m == nil {
		return nil
	}
	labels := make([]string, len(m.labels))
	copy(labels, m.labels)
	return labels
}

// Train 用全量语料重建模型并原子替换。样本为空时不发布新模型。
func (c *Classifier) Train(examples []TrainingExample) {
	docs := make([][]string, 0, len(examples))
	labels := make([]string, 0, len(examples))
	for _, ex := range examples {
		tokens := Normalize(ex.Text)
		if len(tokens) == 0 || ex.Label == "" {
			continue
		}
		docs = append(docs, ngramFeatures(tokens))
		labels = append(labels, ex.Label)
	}
	if len(docs) == 0 {
		logger.Warn("intent classifier: no usable training examples, keeping previous model")
		return
	}

	model := buildModel(docs, labels, c.opts.MaxVocabulary, c.opts.SmoothingAlpha)
	c.model.Store(model)
	logger.Info("intent classifier trained",
		zap.Int("examples", len(docs)),
		zap.Int("labels", len(model.labels)),
		zap.Int("vocabulary", len(model.vocabulary)))
}

// Classify 归一化输入并计算各标签后验概率。
// 置信度低于阈值时intent置为unknown、confidence置0，
// 但ScoresByIntent始终保留原始分布便于观测。
func (c *Classifier) Classify(text string) ClassificationResult {
	result := ClassificationResult{
		Intent:         UnknownIntent,
		Confidence:     0,
		ScoresByIntent: map[string]float64{},
		Entities:       ExtractEntities(text),
	}

	m := c.model.Load()
	if m == nil {
		return result
	}

	features := ngramFeatures(Normalize(text))
	vector := m.vectorize(features)

	// 各标签联合对数似然
	logJoint := make([]float64, len(m.labels))
	vocabSize := float64(len(m.vocabulary))
	for i := range m.labels {
		lp := m.logPrior[i]
		denom := m.classTotal[i] + m.alpha*vocabSize
		for idx, weight := range vector {
			if weight == 0 {
				continue
			}
			lp += weight * math.Log((m.featureSum[i][idx]+m.alpha)/denom)
		}
		logJoint[i] = lp
	}

	// softmax归一化为后验概率
	maxLog := logJoint[0]
	for _, lp := range logJoint[1:] {
		if lp > maxLog {
			maxLog = lp
		}
	}
	var sum float64
	probs := make([]float64, len(logJoint))
	for i, lp := range logJoint {
		probs[i] = math.Exp(lp - maxLog)
		sum += probs[i]
	}

	best := 0
	for i := range probs {
		probs[i] /= sum
		result.ScoresByIntent[m.labels[i]] = probs[i]
		if probs[i] > probs[best] {
			best = i
		}
	}

	if probs[best] >= c.opts.ConfidenceThreshold {
		result.Intent = m.labels[best]
		result.Confidence = probs[best]
	}
	return result
}

// ngramFeatures 生成unigram+bigram特征
func ngramFeatures(tokens []string) []string {
	features := make([]string, 0, len(tokens)*2)
	features = append(features, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		features = append(features, tokens[i]+" "+tokens[i+1])
	}
	return features
}

func buildModel(docs [][]string, labels []string, maxVocab int, alpha float64) *classifierModel {
	// 统计词频和文档频率
	termCount := map[string]int{}
	docFreq := map[string]int{}
	for _, doc := range docs {
		seen := map[string]struct{}{}
		for _, term := range doc {
			termCount[term]++
			if _, ok := seen[term]; !ok {
				seen[term] = struct{}{}
				docFreq[term]++
			}
		}
	}

	// 词表截断：按总词频降序，词频相同按字典序，保证可复现
	terms := make([]string, 0, len(termCount))
	for term := range termCount {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if termCount[terms[i]] != termCount[terms[j]] {
			return termCount[terms[i]] > termCount[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > maxVocab {
		terms = terms[:maxVocab]
	}
	vocabulary := make(map[string]int, len(terms))
	for i, term := range terms {
		vocabulary[term] = i
	}

	// 平滑idf：log((1+n)/(1+df)) + 1
	n := float64(len(docs))
	idf := make([]float64, len(terms))
	for term, idx := range vocabulary {
		idf[idx] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}

	// 标签集排序固定，语料追加时已有标签下标不变
	labelSet := map[string]int{}
	for _, label := range labels {
		labelSet[label]++
	}
	sortedLabels := make([]string, 0, len(labelSet))
	for label := range labelSet {
		sortedLabels = append(sortedLabels, label)
	}
	sort.Strings(sortedLabels)
	labelIndex := make(map[string]int, len(sortedLabels))
	for i, label := range sortedLabels {
		labelIndex[label] = i
	}

	model := &classifierModel{
		labels:     sortedLabels,
		vocabulary: vocabulary,
		idf:        idf,
		featureSum: make([][]float64, len(sortedLabels)),
		classTotal: make([]float64, len(sortedLabels)),
		logPrior:   make([]float64, len(sortedLabels)),
		alpha:      alpha,
	}
	for i := range model.featureSum {
		model.featureSum[i] = make([]float64, len(vocabulary))
	}

	// 逐文档累加L2归一化后的tf-idf权重
	for d, doc := range docs {
		vector := model.vectorize(doc)
		li := labelIndex[labels[d]]
		for idx, weight := range vector {
			model.featureSum[li][idx] += weight
			model.classTotal[li] += weight
		}
	}

	for label, count := range labelSet {
		model.logPrior[labelIndex[label]] = math.Log(float64(count) / n)
	}

	return model
}

// vectorize 计算稀疏tf-idf向量并做L2归一化
func (m *classifierModel) vectorize(features []string) map[int]float64 {
	counts := map[int]float64{}
	for _, term := range features {
		if idx, ok := m.vocabulary[term]; ok {
			counts[idx]++
		}
	}
	var norm float64
	for idx := range counts {
		counts[idx] *= m.idf[idx]
		norm += counts[idx] * counts[idx]
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for idx := range counts {
			counts[idx] /= norm
		}
	}
	return counts
}
