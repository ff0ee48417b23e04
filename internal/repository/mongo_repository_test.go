package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mohamedEMHA/scarmo/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
)

func setupTestDB(t *testing.T) (StatusRepository, func()) {
	if testing.Short() {
		t.Skip("skipping MongoDB container test in short mode")
	}
	ctx := context.Background()

	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)

	uri, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := ConnectMongoDB(ctx, uri, "testdb")
	require.NoError(t, err)

	repo := NewMongoRepository(db)
	require.NoError(t, EnsureIndexes(ctx, repo))

	cleanup := func() {
		_ = db.Client().Disconnect(ctx)
		if err := mongoContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return repo, cleanup
}

func newCheck(name string) *domain.StatusCheck {
	return &domain.StatusCheck{
		ID:         uuid.NewString(),
		ClientName: name,
		Timestamp:  time.Now().UTC().Truncate(time.Millisecond),
	}
}

func TestList_Empty(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	checks, err := repo.List(context.Background(), 1000)
	require.NoError(t, err)
	assert.NotNil(t, checks)
	assert.Empty(t, checks)
}

func TestInsert_RoundTrip(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	check := newCheck("acme")
	require.NoError(t, repo.Insert(ctx, check))

	checks, err := repo.List(ctx, 1000)
	require.NoError(t, err)
	require.Len(t, checks, 1)
	assert.Equal(t, check.ID, checks[0].ID)
	assert.Equal(t, "acme", checks[0].ClientName)
	assert.True(t, check.Timestamp.Equal(checks[0].Timestamp),
		"timestamp %v != %v", check.Timestamp, checks[0].Timestamp)
}

func TestList_InsertionOrderAndLimit(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	var ids []string
	for i := 0; i < 5; i++ {
		check := newCheck(fmt.Sprintf("client-%d", i))
		require.NoError(t, repo.Insert(ctx, check))
		ids = append(ids, check.ID)
	}

	checks, err := repo.List(ctx, 1000)
	require.NoError(t, err)
	require.Len(t, checks, 5)
	for i, c := range checks {
		assert.Equal(t, ids[i], c.ID)
	}

	limited, err := repo.List(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, limited, 3)
}

func TestInsert_DuplicateIDRejected(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	check := newCheck("acme")
	require.NoError(t, repo.Insert(ctx, check))

	dup := *check
	err := repo.Insert(ctx, &dup)
	assert.Error(t, err)
}

func TestContextCancellation(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.List(ctx, 10)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "context")
}
