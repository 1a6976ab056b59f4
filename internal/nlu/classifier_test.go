package nlu

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trainedClassifier(t *testing.T) *Classifier {
	t.Helper()

	store, err := NewIntentStore(filepath.Join(t.TempDir(), "intents.json"))
	require.NoError(t, err)

	c := NewClassifier(ClassifierOptions{})
	c.Train(store.Examples())
	require.True(t, c.Trained())
	return c
}

func TestClassifyUntrainedReturnsUnknown(t *testing.T) {
	c := NewClassifier(ClassifierOptions{})

	result := c.Classify("When is the application deadline?")
	assert.Equal(t, UnknownIntent, result.Intent)
	assert.Zero(t, result.Confidence)
	assert.Empty(t, result.ScoresByIntent)
}

func TestClassifyGreeting(t *testing.T) {
	c := trainedClassifier(t)

	result := c.Classify("hello there")
	assert.Equal(t, "greeting", result.Intent)
	assert.GreaterOrEqual(t, result.Confidence, 0.7)
}

func TestClassifyKnownIntents(t *testing.T) {
	c := trainedClassifier(t)

	cases := map[string]string{
		"When is the application deadline?":    "application_deadline",
		"What are the admission requirements?": "admission_requirements",
		"What are the tuition fees?":           "tuition_fees",
		"scholarships available":               "financial_aid",
	}
	for input, want := range cases {
		result := c.Classify(input)
		assert.Equal(t, want, result.Intent, "input %q", input)
		assert.GreaterOrEqual(t, result.Confidence, 0.7, "input %q", input)
	}
}

func TestClassifyLowConfidencePreservesScores(t *testing.T) {
	c := trainedClassifier(t)

	result := c.Classify("xylophone quantum blueprint")
	assert.Equal(t, UnknownIntent, result.Intent)
	assert.Zero(t, result.Confidence)

	// 原始后验分布保留，且是合法的概率分布
	require.NotEmpty(t, result.ScoresByIntent)
	var sum float64
	for _, p := range result.ScoresByIntent {
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 1.0)
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestClassifyExtractsEntitiesRegardlessOfIntent(t *testing.T) {
	c := trainedClassifier(t)

	result := c.Classify("my email is sam@school.edu and my GPA is 3.8")
	types := make(map[EntityType][]string)
	for _, e := range result.Entities {
		types[e.Type] = e.Values
	}
	assert.Contains(t, types, EntityEmail)
	assert.Contains(t, types, EntityGPA)
}

func TestTrainWithNoExamplesKeepsPreviousModel(t *testing.T) {
	c := trainedClassifier(t)
	labelsBefore := c.Labels()

	c.Train(nil)
	assert.True(t, c.Trained())
	assert.Equal(t, labelsBefore, c.Labels())
}

func TestTrainAcceptsNewLabels(t *testing.T) {
	c := trainedClassifier(t)

	store, err := NewIntentStore(filepath.Join(t.TempDir(), "intents.json"))
	assert.NoError(t, err)
	assert.NoError(t, store.AddExample("do you offer sports scholarships for athletes", "athletics"))
	assert.NoError(t, store.AddExample("how do I join the basketball team", "athletics"))

	c.Train(store.Examples())
	assert.Contains(t, c.Labels(), "athletics")
}
