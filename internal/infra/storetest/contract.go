// Package storetest holds the behaviour every entity.SignatureRepository must
// show, run against each backend from its own package tests.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/signature-campaign/internal/entity"
)

// Factory returns an empty repository. Cleanup belongs to t.
type Factory func(t *testing.T) entity.SignatureRepository

func RunSignatureRepositoryContract(t *testing.T, newRepo Factory) {
	t.Run("UpsertCreatesThenUpdates", func(t *testing.T) { testUpsertCreatesThenUpdates(t, newRepo(t)) })
	t.Run("EmailIsCaseInsensitive", func(t *testing.T) { testEmailIsCaseInsensitive(t, newRepo(t)) })
	t.Run("ListKeepsFirstSignedOrder", func(t *testing.T) { testListOrder(t, newRepo(t)) })
	t.Run("ClearRemovesEverything", func(t *testing.T) { testClear(t, newRepo(t)) })
	t.Run("ConcurrentUpsertsDistinctEmails", func(t *testing.T) { testConcurrentDistinct(t, newRepo(t)) })
	t.Run("ConcurrentUpsertsSameEmail", func(t *testing.T) { testConcurrentSame(t, newRepo(t)) })
	t.Run("ClearRacingUpserts", func(t *testing.T) { testClearRacingUpserts(t, newRepo(t)) })
}

func record(email, name string) *entity.SignatureRecord {
	return &entity.SignatureRecord{
		Email:     email,
		Name:      name,
		ImageData: "data:image/png;base64," + name,
		SignedAt:  time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func testUpsertCreatesThenUpdates(t *testing.T, repo entity.SignatureRepository) {
	ctx := context.Background()

	created, err := repo.Upsert(ctx, record("a@x.com", "Alice"))
	require.NoError(t, err)
	assert.True(t, created)

	second := record("a@x.com", "Alice B")
	second.SignedAt = second.SignedAt.Add(time.Hour)
	created, err = repo.Upsert(ctx, second)
	require.NoError(t, err)
	assert.False(t, created)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "a@x.com", list[0].Email)
	assert.Equal(t, "Alice B", list[0].Name)
	assert.Equal(t, "data:image/png;base64,Alice B", list[0].ImageData)
	assert.True(t, second.SignedAt.Equal(list[0].SignedAt))
	assert.NotEmpty(t, list[0].ID)
}

func testEmailIsCaseInsensitive(t *testing.T, repo entity.SignatureRepository) {
	ctx := context.Background()

	created, err := repo.Upsert(ctx, record("Jane@X.com", "Jane"))
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Upsert(ctx, record("  jane@x.com ", "Jane"))
	require.NoError(t, err)
	assert.False(t, created)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "jane@x.com", list[0].Email)
}

func testListOrder(t *testing.T, repo entity.SignatureRepository) {
	ctx := context.Background()
	for _, email := range []string{"c@x.com", "a@x.com", "b@x.com"} {
		_, err := repo.Upsert(ctx, record(email, email))
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}
	_, err := repo.Upsert(ctx, record("c@x.com", "again"))
	require.NoError(t, err)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	emails := make([]string, 0, len(list))
	for _, s := range list {
		emails = append(emails, s.Email)
	}
	assert.Equal(t, []string{"c@x.com", "a@x.com", "b@x.com"}, emails)
}

func testClear(t *testing.T, repo entity.SignatureRepository) {
	ctx := context.Background()

	deleted, err := repo.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, deleted)

	for i := 0; i < 3; i++ {
		_, err := repo.Upsert(ctx, record(fmt.Sprintf("u%d@x.com", i), "u"))
		require.NoError(t, err)
	}

	deleted, err = repo.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, deleted)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	created, err := repo.Upsert(ctx, record("u0@x.com", "u"))
	require.NoError(t, err)
	assert.True(t, created, "a signer re-signing after a clear is a new record")
}

func testConcurrentDistinct(t *testing.T, repo entity.SignatureRepository) {
	ctx := context.Background()
	const n = 20

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := repo.Upsert(ctx, record(fmt.Sprintf("user%d@x.com", i), "u")); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, n)
}

func testConcurrentSame(t *testing.T, repo entity.SignatureRepository) {
	ctx := context.Background()
	const n = 20

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		creates int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			created, err := repo.Upsert(ctx, record("same@x.com", fmt.Sprintf("v%d", i)))
			assert.NoError(t, err)
			if created {
				mu.Lock()
				creates++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, creates)
	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	// Name and image come from the same write.
	assert.Equal(t, "data:image/png;base64,"+list[0].Name, list[0].ImageData)
}

func testClearRacingUpserts(t *testing.T, repo entity.SignatureRepository) {
	ctx := context.Background()
	for i := 0; i < 10; i++ {
		_, err := repo.Upsert(ctx, record(fmt.Sprintf("pre%d@x.com", i), "p"))
		require.NoError(t, err)
	}

	var (
		wg      sync.WaitGroup
		deleted int
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		n, err := repo.Clear(ctx)
		assert.NoError(t, err)
		deleted = n
	}()
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.Upsert(ctx, record(fmt.Sprintf("post%d@x.com", i), "q"))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	list, err := repo.List(ctx)
	require.NoError(t, err)
	for _, s := range list {
		assert.NotContains(t, s.Email, "pre", "clear must remove every record that existed before it")
	}
	assert.GreaterOrEqual(t, deleted, 10)
	assert.Equal(t, 20, deleted+len(list))
}
