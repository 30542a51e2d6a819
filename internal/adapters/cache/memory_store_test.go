package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/zatekoja/medmatch/internal/domain/entities"
)

func testKey(mod int64) DatasetKey {
	return DatasetKey{
		Dataset: entities.DatasetAllReferrals,
		Path:    "data/processed/source.parquet",
		ModTime: mod,
	}
}

func TestMemoryStoreHitWithinTTL(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	now := time.Now()
	store.SetClock(func() time.Time { return now })

	store.Put(testKey(1), []entities.Provider{{FullName: "Dr. Lee"}})

	now = now.Add(59 * time.Minute)
	got, ok := store.Get(testKey(1))
	assert.True(t, ok)
	assert.Len(t, got, 1)
	assert.Equal(t, "Dr. Lee", got[0].FullName)
}

func TestMemoryStoreExpiresAfterTTL(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	now := time.Now()
	store.SetClock(func() time.Time { return now })

	store.Put(testKey(1), []entities.Provider{{FullName: "Dr. Lee"}})

	now = now.Add(time.Hour)
	_, ok := store.Get(testKey(1))
	assert.False(t, ok)
	// Expired entry is dropped on access
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStoreMissOnDifferentModTime(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	store.Put(testKey(1), []entities.Provider{{FullName: "Dr. Lee"}})

	_, ok := store.Get(testKey(2))
	assert.False(t, ok)
}

func TestMemoryStorePutEvictsOlderModTime(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	store.Put(testKey(1), []entities.Provider{{FullName: "Dr. Lee"}})
	store.Put(testKey(2), []entities.Provider{{FullName: "Dr. Kim"}})

	assert.Equal(t, 1, store.Len())
	got, ok := store.Get(testKey(2))
	assert.True(t, ok)
	assert.Equal(t, "Dr. Kim", got[0].FullName)
}

func TestMemoryStoreKeysAreIndependentPerDataset(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	store.Put(testKey(1), []entities.Provider{{FullName: "Dr. Lee"}})

	other := testKey(1)
	other.Dataset = entities.DatasetProviderRoster
	store.Put(other, []entities.Provider{{FullName: "Dr. Kim"}})

	assert.Equal(t, 2, store.Len())
}

func TestMemoryStorePurgeAll(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	store.Put(testKey(1), []entities.Provider{{FullName: "Dr. Lee"}})
	store.PurgeAll()

	assert.Equal(t, 0, store.Len())
	_, ok := store.Get(testKey(1))
	assert.False(t, ok)
}
