package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mohamedEMHA/scarmo/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListProducts_Passthrough(t *testing.T) {
	payload := json.RawMessage(`{"code":200,"result":[{"id":1,"name":"Tee"}]}`)
	svc := NewCatalogService(&mockCatalog{payload: payload}, discardLogger())

	got, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, string(payload), string(got))
}

func TestListProducts_UpstreamError(t *testing.T) {
	upstream := &domain.UpstreamError{Provider: "printful", StatusCode: 401, Message: "Failed to fetch products from Printful"}
	svc := NewCatalogService(&mockCatalog{err: upstream}, discardLogger())

	got, err := svc.ListProducts(context.Background())
	assert.Nil(t, got)
	assert.ErrorIs(t, err, upstream)
}

func TestListProducts_ConcurrentCallsShareFetch(t *testing.T) {
	catalog := &mockCatalog{
		payload: json.RawMessage(`{"result":[]}`),
		release: make(chan struct{}),
	}
	svc := NewCatalogService(catalog, discardLogger())

	const callers = 5
	var wg sync.WaitGroup
	results := make([]json.RawMessage, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.ListProducts(context.Background())
		}(i)
	}

	// Let every caller join the in-flight fetch before it completes.
	require.Eventually(t, func() bool { return catalog.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	close(catalog.release)
	wg.Wait()

	assert.Equal(t, int32(1), catalog.calls.Load())
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.JSONEq(t, `{"result":[]}`, string(results[i]))
	}
}

func TestGetProduct_InvalidID(t *testing.T) {
	catalog := &mockCatalog{}
	svc := NewCatalogService(catalog, discardLogger())

	_, err := svc.GetProduct(context.Background(), 0)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "id", verr.Field)
	assert.Zero(t, catalog.calls.Load())
}

func TestGetProduct_Passthrough(t *testing.T) {
	svc := NewCatalogService(&mockCatalog{payload: json.RawMessage(`{"result":{"id":9}}`)}, discardLogger())

	got, err := svc.GetProduct(context.Background(), 9)
	require.NoError(t, err)
	assert.JSONEq(t, `{"result":{"id":9}}`, string(got))
}

func TestListProducts_FollowerOutlivesLeader(t *testing.T) {
	tests := map[string]struct {
		leaderCtx func() (context.Context, context.CancelFunc)
		cancel    bool
		want      error
	}{
		"leader canceled": {
			leaderCtx: func() (context.Context, context.CancelFunc) {
				return context.WithCancel(context.Background())
			},
			cancel: true,
			want:   context.Canceled,
		},
		"leader deadline": {
			leaderCtx: func() (context.Context, context.CancelFunc) {
				return context.WithTimeout(context.Background(), 300*time.Millisecond)
			},
			want: context.DeadlineExceeded,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			catalog := &mockCatalog{
				payload: json.RawMessage(`{"result":[]}`),
				release: make(chan struct{}),
			}
			svc := NewCatalogService(catalog, discardLogger())

			leaderCtx, cancelLeader := tt.leaderCtx()
			defer cancelLeader()
			leaderErr := make(chan error, 1)
			go func() {
				_, err := svc.ListProducts(leaderCtx)
				leaderErr <- err
			}()
			require.Eventually(t, func() bool { return catalog.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

			type result struct {
				body json.RawMessage
				err  error
			}
			follower := make(chan result, 1)
			go func() {
				body, err := svc.ListProducts(context.Background())
				follower <- result{body, err}
			}()
			// Let the follower join the in-flight fetch.
			time.Sleep(50 * time.Millisecond)

			if tt.cancel {
				cancelLeader()
			}
			assert.True(t, errors.Is(<-leaderErr, tt.want))

			// The follower fetches again on its own live context.
			require.Eventually(t, func() bool { return catalog.calls.Load() == 2 }, time.Second, 5*time.Millisecond)
			close(catalog.release)

			res := <-follower
			require.NoError(t, res.err)
			assert.JSONEq(t, `{"result":[]}`, string(res.body))
		})
	}
}
