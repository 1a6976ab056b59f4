package knowledge

import (
	"context"
	"hash/fnv"
	"math"
	"strings"

	"github.com/admithub/backend-go/internal/nlu"
)

// LocalEmbedder 离线哈希词袋向量化器。
// 归一化分词后将词与相邻词对哈希到固定维度并做L2归一化，
// 不依赖外部服务，同一文本始终得到同一向量。
type LocalEmbedder struct {
	dimensions int
}

// NewLocalEmbedder 创建本地向量化器
func NewLocalEmbedder(dimensions int) *LocalEmbedder {
	if dimensions <= 0 {
		dimensions = 256
	}
	return &LocalEmbedder{dimensions: dimensions}
}

func (e *LocalEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vector := make([]float32, e.dimensions)
	if strings.TrimSpace(text) == "" {
		return vector, nil
	}

	tokens := nlu.Normalize(text)
	features := make([]string, 0, len(tokens)*2)
	features = append(features, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		features = append(features, tokens[i]+" "+tokens[i+1])
	}

	for _, feature := range features {
		h := fnv.New32a()
		h.Write([]byte(feature))
		sum := h.Sum32()
		idx := int(sum) & (1<<31 - 1) % e.dimensions
		// 用哈希最高位决定符号，减少碰撞偏差
		if sum&0x80000000 != 0 {
			vector[idx]--
		} else {
			vector[idx]++
		}
	}

	var norm float64
	for _, v := range vector {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vector {
			vector[i] = float32(float64(vector[i]) / norm)
		}
	}
	return vector, nil
}

func (e *LocalEmbedder) Dimensions() int {
	return e.dimensions
}

func (e *LocalEmbedder) Ready() bool {
	return true
}
