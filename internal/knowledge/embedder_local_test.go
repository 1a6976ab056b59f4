package knowledge

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalEmbedderIsDeterministic(t *testing.T) {
	embedder := NewLocalEmbedder(128)

	a, err := embedder.Embed(context.Background(), "application deadline for fall semester")
	require.NoError(t, err)
	b, err := embedder.Embed(context.Background(), "application deadline for fall semester")
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestLocalEmbedderDimensions(t *testing.T) {
	embedder := NewLocalEmbedder(64)
	assert.Equal(t, 64, embedder.Dimensions())

	vec, err := embedder.Embed(context.Background(), "tuition fees")
	require.NoError(t, err)
	assert.Len(t, vec, 64)

	// 非法维度回退到默认值
	assert.Equal(t, 256, NewLocalEmbedder(0).Dimensions())
}

func TestLocalEmbedderProducesUnitVectors(t *testing.T) {
	embedder := NewLocalEmbedder(128)

	vec, err := embedder.Embed(context.Background(), "scholarships and financial aid for students")
	require.NoError(t, err)

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-5)
}

func TestLocalEmbedderBlankTextIsZeroVector(t *testing.T) {
	embedder := NewLocalEmbedder(32)

	vec, err := embedder.Embed(context.Background(), "   ")
	require.NoError(t, err)
	for _, v := range vec {
		assert.Zero(t, v)
	}
}

func TestLocalEmbedderSimilarTextsAreCloser(t *testing.T) {
	embedder := NewLocalEmbedder(256)
	ctx := context.Background()

	query, err := embedder.Embed(ctx, "what are the admission requirements")
	require.NoError(t, err)
	related, err := embedder.Embed(ctx, "admission requirements and eligibility criteria")
	require.NoError(t, err)
	unrelated, err := embedder.Embed(ctx, "dormitories and residence halls on campus")
	require.NoError(t, err)

	assert.Less(t, cosineDistance(query, related), cosineDistance(query, unrelated))
}
