package knowledge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempCorpusStore(t *testing.T) *CorpusStore {
	t.Helper()
	store, err := NewCorpusStore(filepath.Join(t.TempDir(), "knowledge_base.json"))
	require.NoError(t, err)
	return store
}

func TestNewCorpusStoreCreatesDefaultCorpus(t *testing.T) {
	path := filepath.Join(t.TempDir(), "knowledge_base.json")
	store, err := NewCorpusStore(path)
	require.NoError(t, err)

	_, err = os.Stat(path)
	require.NoError(t, err)

	snapshot := store.Snapshot()
	assert.Len(t, snapshot.FAQs, 8)
	assert.Equal(t, "Public Research University", snapshot.UniversityInfo["type"])
}

func TestEntriesIncludeFAQsAndUniversityInfo(t *testing.T) {
	store := tempCorpusStore(t)

	entries := store.Entries()
	require.Len(t, entries, 9)

	byID := make(map[string]Entry, len(entries))
	for _, e := range entries {
		byID[e.ID] = e
	}

	req, ok := byID["req_001"]
	require.True(t, ok)
	assert.Equal(t, "admission_requirements", req.Category)
	assert.Contains(t, req.Text, "Q: What are the admission requirements?")
	assert.Contains(t, req.Text, "A: To apply for admission")
	assert.Equal(t, "faq", req.Metadata["type"])
	assert.NotEmpty(t, req.Metadata["answer"])

	info, ok := byID["uni_info_001"]
	require.True(t, ok)
	assert.Equal(t, "general_info", info.Category)
	assert.Equal(t, "university_info", info.Metadata["type"])
}

func TestEntriesDefaultCategoryIsGeneral(t *testing.T) {
	store := tempCorpusStore(t)
	require.NoError(t, store.AppendFAQs([]FAQ{{ID: "x_001", Question: "q", Answer: "a"}}))

	var found bool
	for _, e := range store.Entries() {
		if e.ID == "x_001" {
			found = true
			assert.Equal(t, "general", e.Category)
		}
	}
	assert.True(t, found)
}

func TestReplaceFAQ(t *testing.T) {
	store := tempCorpusStore(t)

	found, err := store.ReplaceFAQ(FAQ{ID: "fees_001", Question: "New question", Answer: "New answer", Category: "tuition_fees"})
	require.NoError(t, err)
	assert.True(t, found)

	found, err = store.ReplaceFAQ(FAQ{ID: "missing_001", Question: "q", Answer: "a"})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRemoveFAQPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "knowledge_base.json")
	store, err := NewCorpusStore(path)
	require.NoError(t, err)

	found, err := store.RemoveFAQ("housing_001")
	require.NoError(t, err)
	assert.True(t, found)

	reloaded, err := NewCorpusStore(path)
	require.NoError(t, err)
	for _, faq := range reloaded.Snapshot().FAQs {
		assert.NotEqual(t, "housing_001", faq.ID)
	}
}

func TestCorpusReloadPicksUpExternalEdits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "knowledge_base.json")
	store, err := NewCorpusStore(path)
	require.NoError(t, err)

	content := `{"faqs":[{"id":"only_001","question":"q","answer":"a","category":"general"}]}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	require.NoError(t, store.Reload())
	snapshot := store.Snapshot()
	require.Len(t, snapshot.FAQs, 1)
	assert.Equal(t, "only_001", snapshot.FAQs[0].ID)
}
