package history

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AskTinNguyen/claude-auto-speak/pkg/playback"
)

func openTestStore(t *testing.T, maxRows int) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"), maxRows)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordAndRecent(t *testing.T) {
	store := openTestStore(t, 0)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		err := store.Record(ctx, Entry{
			Session:  "s1",
			Text:     fmt.Sprintf("utterance %d", i),
			Engine:   "say",
			Voice:    "Samantha",
			SpokenAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	entries, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Newest first.
	assert.Equal(t, "utterance 2", entries[0].Text)
	assert.Equal(t, "utterance 0", entries[2].Text)
	assert.Equal(t, "s1", entries[0].Session)
	assert.Equal(t, "say", entries[0].Engine)
	assert.NotEmpty(t, entries[0].ID)
}

func TestRecentLimit(t *testing.T) {
	store := openTestStore(t, 0)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Record(ctx, Entry{Session: "s1", Text: "t"}))
	}
	entries, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestPruneKeepsNewest(t *testing.T) {
	store := openTestStore(t, 3)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 6; i++ {
		err := store.Record(ctx, Entry{
			Session:  "s1",
			Text:     fmt.Sprintf("utterance %d", i),
			SpokenAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	entries, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "utterance 5", entries[0].Text)
	assert.Equal(t, "utterance 3", entries[2].Text)
}

func TestRecordRedactsSecrets(t *testing.T) {
	store := openTestStore(t, 0)
	ctx := context.Background()

	err := store.Record(ctx, Entry{
		Session: "s1",
		Text:    "your key is sk-ant-REDACTED",
	})
	require.NoError(t, err)

	entries, err := store.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.NotContains(t, entries[0].Text, "sk-ant-api03")
}

func TestObserverRecords(t *testing.T) {
	store := openTestStore(t, 0)
	obs := NewObserver(store)

	obs.UtteranceStarted(playback.Utterance{
		Session: "s1",
		Text:    "observed utterance",
		Engine:  "espeak",
		Voice:   "en",
		PID:     1234,
	})

	entries, err := store.Recent(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "observed utterance", entries[0].Text)
	assert.Equal(t, "espeak", entries[0].Engine)
}
