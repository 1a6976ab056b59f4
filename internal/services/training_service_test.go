package services

import (
	"path/filepath"
	"testing"

	"github.com/admithub/backend-go/internal/nlu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTrainingService(t *testing.T) (*TrainingService, *nlu.Classifier) {
	t.Helper()

	intents, err := nlu.NewIntentStore(filepath.Join(t.TempDir(), "intents.json"))
	require.NoError(t, err)
	classifier := nlu.NewClassifier(nlu.ClassifierOptions{})
	return NewTrainingService(intents, classifier), classifier
}

func TestTrainProducesUsableModel(t *testing.T) {
	svc, classifier := newTestTrainingService(t)

	require.NoError(t, svc.Train())
	assert.True(t, classifier.Trained())
	assert.Contains(t, svc.Intents(), "greeting")
}

func TestAddExampleRetrainsWithNewLabel(t *testing.T) {
	svc, classifier := newTestTrainingService(t)
	require.NoError(t, svc.Train())

	require.NoError(t, svc.AddExample("do you offer online degree programs", "online_learning"))
	assert.Contains(t, svc.Intents(), "online_learning")
	assert.Contains(t, classifier.Labels(), "online_learning")
}

func TestAddExampleRejectsBlankInput(t *testing.T) {
	svc, _ := newTestTrainingService(t)

	assert.Error(t, svc.AddExample("   ", "greeting"))
	assert.Error(t, svc.AddExample("hello", ""))
}

func TestReloadRetrainsFromDisk(t *testing.T) {
	svc, classifier := newTestTrainingService(t)
	require.NoError(t, svc.Train())
	labelsBefore := len(classifier.Labels())

	require.NoError(t, svc.Reload())
	assert.Len(t, classifier.Labels(), labelsBefore)
}
