package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ideatter/ideatter/internal/db"
	"github.com/ideatter/ideatter/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	gdb, err := db.Init("sqlite://file::memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err)

	st := New(gdb)
	require.NoError(t, st.Migrate())

	t.Cleanup(func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return st
}

func strPtr(s string) *string { return &s }

func newIdea(t *testing.T, st *Store, username string) *models.Idea {
	t.Helper()
	idea := &models.Idea{
		Username:     username,
		ExplanationA: "an explanation",
	}
	require.NoError(t, st.InsertIdea(context.Background(), idea))
	return idea
}

func TestInsertIdeaAssignsIdentityAndTimestamp(t *testing.T) {
	st := newTestStore(t)

	before := time.Now().UTC().Add(-time.Second)
	idea := &models.Idea{
		Username:     "alice",
		ExplanationA: "build a widget",
		ExplanationB: strPtr("maybe two widgets"),
	}
	require.NoError(t, st.InsertIdea(context.Background(), idea))

	assert.NotZero(t, idea.IdeaID)
	assert.Equal(t, 0, idea.Likes)
	assert.True(t, idea.Timestamp.After(before), "timestamp must be assigned at insert")
	assert.Equal(t, time.UTC, idea.Timestamp.Location())
	assert.Nil(t, idea.ExplanationC)
}

func TestListIdeasNewestIdentityFirst(t *testing.T) {
	st := newTestStore(t)

	first := newIdea(t, st, "alice")
	second := newIdea(t, st, "bob")
	third := newIdea(t, st, "carol")

	ideas, err := st.ListIdeas(context.Background())
	require.NoError(t, err)
	require.Len(t, ideas, 3)
	assert.Equal(t, third.IdeaID, ideas[0].IdeaID)
	assert.Equal(t, second.IdeaID, ideas[1].IdeaID)
	assert.Equal(t, first.IdeaID, ideas[2].IdeaID)
}

func TestListIdeasEmptyIsNotNil(t *testing.T) {
	st := newTestStore(t)

	ideas, err := st.ListIdeas(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, ideas)
	assert.Empty(t, ideas)
}

func TestCommentsListedNewestFirst(t *testing.T) {
	st := newTestStore(t)
	idea := newIdea(t, st, "alice")

	ctx := context.Background()
	for _, content := range []string{"first", "second", "third"} {
		c := &models.Comment{IdeaID: idea.IdeaID, Username: "bob", Content: content}
		require.NoError(t, st.InsertComment(ctx, c))
		// Distinct timestamps so the ordering is observable.
		time.Sleep(5 * time.Millisecond)
	}

	comments, err := st.ListComments(ctx, idea.IdeaID)
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, "third", comments[0].Content)
	assert.Equal(t, "first", comments[2].Content)

	count, err := st.CountComments(ctx, idea.IdeaID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	count, err = st.CountComments(ctx, idea.IdeaID+1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestInsertCommentRejectsDanglingIdea(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	comment := &models.Comment{IdeaID: 999999, Username: "bob", Content: "orphan"}
	require.Error(t, st.InsertComment(ctx, comment))

	count, err := st.CountComments(ctx, 999999)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count, "no row may survive a failed insert")
}

func TestWantToCreateListAndCount(t *testing.T) {
	st := newTestStore(t)
	idea := newIdea(t, st, "alice")
	ctx := context.Background()

	// Duplicates per (username, ideaId) are allowed.
	for i := 0; i < 2; i++ {
		row := &models.WantToCreate{Username: "bob", IdeaID: idea.IdeaID}
		require.NoError(t, st.InsertWantToCreate(ctx, row))
		assert.NotZero(t, row.ID)
	}

	rows, err := st.ListWantToCreate(ctx, idea.IdeaID)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	count, err := st.CountWantToCreate(ctx, idea.IdeaID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestInsertWantToCreateRejectsDanglingIdea(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	row := &models.WantToCreate{Username: "bob", IdeaID: 999999}
	require.Error(t, st.InsertWantToCreate(ctx, row))

	count, err := st.CountWantToCreate(ctx, 999999)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestIncrementLikes(t *testing.T) {
	st := newTestStore(t)
	idea := newIdea(t, st, "alice")
	ctx := context.Background()

	got, err := st.IncrementLikes(ctx, idea.IdeaID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Likes)

	got, err = st.IncrementLikes(ctx, idea.IdeaID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Likes)
}

func TestIncrementLikesNotFound(t *testing.T) {
	st := newTestStore(t)
	newIdea(t, st, "alice")
	ctx := context.Background()

	_, err := st.IncrementLikes(ctx, 999999)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// The table is untouched.
	ideas, err := st.ListIdeas(ctx)
	require.NoError(t, err)
	require.Len(t, ideas, 1)
	assert.Equal(t, 0, ideas[0].Likes)
}

func TestIncrementLikesConcurrentNoLostUpdates(t *testing.T) {
	st := newTestStore(t)
	idea := newIdea(t, st, "alice")
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = st.IncrementLikes(ctx, idea.IdeaID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}

	ideas, err := st.ListIdeas(ctx)
	require.NoError(t, err)
	require.Len(t, ideas, 1)
	assert.Equal(t, succeeded, ideas[0].Likes, "final count must equal committed increments")
	assert.Equal(t, n, succeeded, "all increments should commit when they serialize")
}
