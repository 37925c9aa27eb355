// tokenstore_test.go
package tokenstore

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/thingscale/go-openapi-http-client/mocklogger"
)

func newTestLogger() *mocklogger.MockLogger {
	mockLog := mocklogger.NewMockLogger()
	mockLog.On("Debug", mock.Anything, mock.Anything).Maybe()
	return mockLog
}

func TestMemoryCachesToken(t *testing.T) {
	var calls int32
	source := func(context.Context) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "token-1", nil
	}

	store := NewMemory(source, newTestLogger())

	for i := 0; i < 3; i++ {
		token, err := store.Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "token-1", token)
	}
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls), "source should be hit once while cached")
}

func TestMemoryInvalidateForcesRefresh(t *testing.T) {
	var calls int32
	source := func(context.Context) (string, error) {
		n := atomic.AddInt32(&calls, 1)
		if n == 1 {
			return "stale", nil
		}
		return "fresh", nil
	}

	store := NewMemory(source, newTestLogger())

	token, err := store.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "stale", token)

	store.Invalidate()

	token, err = store.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fresh", token)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestMemorySourceFailure(t *testing.T) {
	wantErr := errors.New("token endpoint unreachable")
	store := NewMemory(func(context.Context) (string, error) {
		return "", wantErr
	}, newTestLogger())

	_, err := store.Token(context.Background())
	assert.ErrorIs(t, err, wantErr)
}

func TestMemoryConcurrentAccess(t *testing.T) {
	store := NewMemory(func(context.Context) (string, error) {
		return "token", nil
	}, newTestLogger())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Token(context.Background())
			assert.NoError(t, err)
			store.Invalidate()
		}()
	}
	wg.Wait()
}

func TestStatic(t *testing.T) {
	store := Static("fixed")

	token, err := store.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fixed", token)

	store.Invalidate()

	token, err = store.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fixed", token)
}
