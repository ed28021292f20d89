package minorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coderi421/minorm/internal/errs"
)

func seedMembers(t *testing.T, db *DB, n int) {
	createMemberTable(t, db)
	for i := 1; i <= n; i++ {
		require.NoError(t, Insert[Member](db).Value("name", memberName(i)).Exec(testCtx()).Err())
	}
}

func TestPager_Execute(t *testing.T) {
	db := memoryDB(t, DBWithNowFunc(fixedClock(1410581698)))
	seedMembers(t, db, 10)
	ctx := testCtx()

	// 10 行按每页 4 行翻：4,4,2,0
	testCases := []struct {
		name     string
		offset   int
		wantLen  int
		wantNext bool
		wantIds  []int64
	}{
		{name: "first page", offset: 0, wantLen: 4, wantNext: true, wantIds: []int64{1, 2, 3, 4}},
		{name: "second page", offset: 4, wantLen: 4, wantNext: true, wantIds: []int64{5, 6, 7, 8}},
		{name: "last page", offset: 8, wantLen: 2, wantNext: false, wantIds: []int64{9, 10}},
		{name: "past the end", offset: 12, wantLen: 0, wantNext: false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			page, err := SearchWithPager[Member](db, 4).
				OrderBy("`id`").
				Offset(tc.offset).
				Execute(ctx)
			require.NoError(t, err)
			assert.Len(t, page.Rows, tc.wantLen)
			assert.Equal(t, 4, page.EntriesPerPage)
			assert.Equal(t, tc.wantNext, page.HasNextPage)
			for i, id := range tc.wantIds {
				assert.Equal(t, id, page.Rows[i].Id)
			}
		})
	}
}

func TestPager_Where(t *testing.T) {
	db := memoryDB(t, DBWithNowFunc(fixedClock(1410581698)))
	seedMembers(t, db, 10)

	page, err := SearchWithPager[Member](db, 3).
		Where("`id` > ?", 5).
		OrderBy("`id`").
		Execute(testCtx())
	require.NoError(t, err)
	require.Len(t, page.Rows, 3)
	assert.True(t, page.HasNextPage)
	assert.Equal(t, int64(6), page.Rows[0].Id)
}

func TestPager_RawSQL(t *testing.T) {
	db := memoryDB(t, DBWithNowFunc(fixedClock(1410581698)))
	seedMembers(t, db, 10)
	ctx := testCtx()

	page, err := SearchBySQLWithPager[Member](db,
		"SELECT * FROM member WHERE id > ? ORDER BY id", []any{2}, 4).
		Offset(4).
		Execute(ctx)
	require.NoError(t, err)
	require.Len(t, page.Rows, 4)
	assert.True(t, page.HasNextPage)
	assert.Equal(t, int64(7), page.Rows[0].Id)

	page, err = SearchBySQLWithPager[Member](db,
		"SELECT * FROM member ORDER BY id", nil, 4).
		Offset(8).
		Execute(ctx)
	require.NoError(t, err)
	assert.Len(t, page.Rows, 2)
	assert.False(t, page.HasNextPage)
}

func TestPager_InvalidPageSize(t *testing.T) {
	db := memoryDB(t)

	_, err := SearchWithPager[Member](db, 0).Execute(testCtx())
	assert.Equal(t, errs.NewErrInvalidPageSize(0), err)

	_, err = SearchWithPager[Member](db, -3).Execute(testCtx())
	assert.Equal(t, errs.NewErrInvalidPageSize(-3), err)
}
