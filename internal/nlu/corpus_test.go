package nlu

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIntentStoreCreatesDefaultCorpus(t *testing.T) {
	path := filepath.Join(t.TempDir(), "intents.json")

	store, err := NewIntentStore(path)
	require.NoError(t, err)

	// 默认语料已落盘
	_, err = os.Stat(path)
	require.NoError(t, err)

	tags := store.Tags()
	assert.Contains(t, tags, "greeting")
	assert.Contains(t, tags, "admission_requirements")
	assert.Contains(t, tags, "goodbye")
	assert.NotEmpty(t, store.Examples())
}

func TestNewIntentStoreLoadsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "intents.json")
	content := `{"intents":[{"tag":"visa","patterns":["do I need a student visa"]}]}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	store, err := NewIntentStore(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"visa"}, store.Tags())
}

func TestAddExamplePersistsAndCreatesTag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "intents.json")
	store, err := NewIntentStore(path)
	require.NoError(t, err)

	require.NoError(t, store.AddExample("do you have exchange programs", "study_abroad"))
	assert.Contains(t, store.Tags(), "study_abroad")

	// 变更应已写回磁盘，重新加载可见
	reloaded, err := NewIntentStore(path)
	require.NoError(t, err)
	assert.Contains(t, reloaded.Tags(), "study_abroad")
}

func TestAddExampleRejectsEmptyInput(t *testing.T) {
	store, err := NewIntentStore(filepath.Join(t.TempDir(), "intents.json"))
	require.NoError(t, err)

	assert.Error(t, store.AddExample("", "greeting"))
	assert.Error(t, store.AddExample("hello", ""))
}

func TestReloadPicksUpExternalEdits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "intents.json")
	store, err := NewIntentStore(path)
	require.NoError(t, err)

	content := `{"intents":[{"tag":"transfer","patterns":["can I transfer credits"]}]}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	require.NoError(t, store.Reload())
	assert.Equal(t, []string{"transfer"}, store.Tags())
}
