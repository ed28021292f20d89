package minorm

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coderi421/minorm/internal/errs"
)

func TestSelector_Build(t *testing.T) {
	db := memoryDB(t)

	testCases := []struct {
		name      string
		q         QueryBuilder
		wantQuery *Query
		wantErr   error
	}{
		{
			name: "no where",
			q:    Search[TestModel](db),
			wantQuery: &Query{
				SQL: "SELECT * FROM `test_model`;",
			},
		},
		{
			name: "single condition",
			q:    Search[TestModel](db).Where("`age` > ?", 18),
			wantQuery: &Query{
				SQL:  "SELECT * FROM `test_model` WHERE (`age` > ?);",
				Args: []any{18},
			},
		},
		{
			// 多组条件 AND 起来，每组都套括号
			name: "multiple conditions",
			q: Search[TestModel](db).
				Where("`age` > ?", 18).
				Where("`first_name` LIKE ?", "m%"),
			wantQuery: &Query{
				SQL:  "SELECT * FROM `test_model` WHERE (`age` > ?) AND (`first_name` LIKE ?);",
				Args: []any{18, "m%"},
			},
		},
		{
			name: "condition without args",
			q:    Search[TestModel](db).Where("`last_name` IS NULL"),
			wantQuery: &Query{
				SQL: "SELECT * FROM `test_model` WHERE (`last_name` IS NULL);",
			},
		},
		{
			name: "order by",
			q:    Search[TestModel](db).OrderBy("`id` DESC"),
			wantQuery: &Query{
				SQL: "SELECT * FROM `test_model` ORDER BY `id` DESC;",
			},
		},
		{
			name: "limit offset",
			q:    Search[TestModel](db).OrderBy("`id`").Limit(10).Offset(20),
			wantQuery: &Query{
				SQL:  "SELECT * FROM `test_model` ORDER BY `id` LIMIT ? OFFSET ?;",
				Args: []any{10, 20},
			},
		},
		{
			// 占位符和参数个数对不上，构建阶段就报错
			name:    "marker arg mismatch",
			q:       Search[TestModel](db).Where("`age` > ?"),
			wantErr: errs.NewErrArgCountMismatch("`age` > ?", 1, 0),
		},
		{
			// 只有 OFFSET 没有 LIMIT 不是合法 SQL，构建阶段就拒绝
			name:    "offset without limit",
			q:       Search[TestModel](db).Offset(20),
			wantErr: errs.ErrOffsetWithoutLimit,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			query, err := tc.q.Build()
			assert.Equal(t, tc.wantErr, err)
			if err != nil {
				return
			}
			assert.Equal(t, tc.wantQuery, query)
		})
	}
}

func TestSelector_Build_Postgres(t *testing.T) {
	db := memoryDB(t, DBWithDialect(Postgres))
	query, err := Search[TestModel](db).Where("age > ? AND first_name = ?", 18, "mei").Limit(5).Build()
	require.NoError(t, err)
	assert.Equal(t, &Query{
		SQL:  `SELECT * FROM "test_model" WHERE (age > $1 AND first_name = $2) LIMIT $3;`,
		Args: []any{18, "mei", 5},
	}, query)
}

func TestSelector_Get(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = mockDB.Close() }()

	db, err := OpenDB(mockDB)
	require.NoError(t, err)

	// query error
	mock.ExpectQuery("SELECT .*").WillReturnError(errors.New("query error"))

	// no rows
	mock.ExpectQuery("SELECT .*").
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "age", "last_name"}))

	// one row
	rows := sqlmock.NewRows([]string{"id", "first_name", "age", "last_name"})
	rows.AddRow([]byte("1"), []byte("mei"), []byte("18"), []byte("sato"))
	mock.ExpectQuery("SELECT .*").WillReturnRows(rows)

	testCases := []struct {
		name     string
		wantVal  *TestModel
		wantOK   bool
		wantErr  bool
		wantKind ErrKind
	}{
		{
			name:     "query error",
			wantErr:  true,
			wantKind: KindDatabase,
		},
		{
			// 没有命中不是错误
			name: "no row",
		},
		{
			name:   "one row",
			wantOK: true,
			wantVal: &TestModel{
				Id:        1,
				FirstName: "mei",
				Age:       18,
				LastName:  &sql.NullString{String: "sato", Valid: true},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res, ok, err := Single[TestModel](db).Where("`id` = ?", 1).Get(testCtx())
			if tc.wantErr {
				require.Error(t, err)
				assert.Equal(t, tc.wantKind, KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.wantVal, res)
		})
	}
}

func TestSelector_GetMulti(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = mockDB.Close() }()

	db, err := OpenDB(mockDB)
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"id", "first_name", "age", "last_name"})
	rows.AddRow([]byte("1"), []byte("mei"), []byte("18"), []byte("sato"))
	rows.AddRow([]byte("2"), []byte("jun"), []byte("20"), []byte("li"))
	mock.ExpectQuery("SELECT .*").WillReturnRows(rows)

	res, err := Search[TestModel](db).OrderBy("`id`").GetMulti(testCtx())
	require.NoError(t, err)
	assert.Equal(t, []*TestModel{
		{Id: 1, FirstName: "mei", Age: 18, LastName: &sql.NullString{String: "sato", Valid: true}},
		{Id: 2, FirstName: "jun", Age: 20, LastName: &sql.NullString{String: "li", Valid: true}},
	}, res)
}

func TestSelector_SQLite(t *testing.T) {
	db := memoryDB(t, DBWithNowFunc(fixedClock(1410581698)))
	createMemberTable(t, db)
	ctx := testCtx()

	for i := 1; i <= 3; i++ {
		res := Insert[Member](db).Value("name", memberName(i)).Exec(ctx)
		require.NoError(t, res.Err())
	}

	got, ok, err := Single[Member](db).Where("`name` = ?", "m2").Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(2), got.Id)
	assert.Equal(t, "m2", got.Name)
	assert.Equal(t, int64(1410581698), got.CreatedAt)

	many, err := Search[Member](db).Where("`id` > ?", 1).OrderBy("`id` DESC").GetMulti(ctx)
	require.NoError(t, err)
	require.Len(t, many, 2)
	assert.Equal(t, int64(3), many[0].Id)
	assert.Equal(t, int64(2), many[1].Id)

	// 表名解析
	name, err := TableName[Member](db)
	require.NoError(t, err)
	assert.Equal(t, "member", name)
}

func memberName(i int) string {
	return fmt.Sprintf("m%d", i)
}
