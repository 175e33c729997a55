package session

import (
	"sync"
	"testing"

	"github.com/dmitrijs2005/itemgate/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_EmptyByDefault(t *testing.T) {
	st := NewStore()

	_, ok := st.Current()
	assert.False(t, ok)
	assert.False(t, st.Active())
	assert.Equal(t, "", st.Token())
}

func TestStore_ReplaceNeverMerges(t *testing.T) {
	st := NewStore()

	require.NoError(t, st.Replace(models.Session{Token: "t1", Email: "a@x.com", IsMfaRegistered: true}))
	require.NoError(t, st.Replace(models.Session{Token: "t2", Email: "a@x.com", MfaVerified: true}))

	got, ok := st.Current()
	require.True(t, ok)
	assert.Equal(t, models.Session{Token: "t2", Email: "a@x.com", MfaVerified: true}, got)
	assert.Equal(t, "t2", st.Token())
}

func TestStore_ReplaceRejectsEmptyToken(t *testing.T) {
	st := NewStore()
	require.NoError(t, st.Replace(models.Session{Token: "t1"}))

	require.ErrorIs(t, st.Replace(models.Session{Email: "a@x.com"}), ErrEmptyToken)
	assert.Equal(t, "t1", st.Token(), "failed replace keeps the old session")
}

func TestStore_Clear(t *testing.T) {
	st := NewStore()
	require.NoError(t, st.Replace(models.Session{Token: "t1"}))

	st.Clear()

	assert.False(t, st.Active())
	assert.Equal(t, "", st.Token())
}

func TestStore_MarkMfaRegistered(t *testing.T) {
	st := NewStore()
	assert.False(t, st.MarkMfaRegistered())

	require.NoError(t, st.Replace(models.Session{Token: "t1"}))
	assert.True(t, st.MarkMfaRegistered())

	got, _ := st.Current()
	assert.True(t, got.IsMfaRegistered)
}

func TestStore_CurrentReturnsCopy(t *testing.T) {
	st := NewStore()
	require.NoError(t, st.Replace(models.Session{Token: "t1"}))

	got, _ := st.Current()
	got.Token = "mutated"

	assert.Equal(t, "t1", st.Token())
}

func TestStore_ConcurrentReplaceAndRead(t *testing.T) {
	st := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = st.Replace(models.Session{Token: "t"})
		}()
		go func() {
			defer wg.Done()
			_ = st.Token()
		}()
	}
	wg.Wait()
	assert.Equal(t, "t", st.Token())
}
