package minorm

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

type TestModel struct {
	Id        int64 `orm:"role=primary_key"`
	FirstName string
	Age       int8
	LastName  *sql.NullString
}

// Member 带全部角色列和内嵌 Extras 的行类型，端到端测试用
type Member struct {
	Extras
	Id        int64 `orm:"role=primary_key"`
	Name      string
	CreatedAt int64 `orm:"column=created_at,role=created_timestamp"`
	UpdatedAt int64 `orm:"column=updated_at,role=updated_timestamp"`
}

func memoryDB(t *testing.T, opts ...DBOption) *DB {
	db, err := Open("sqlite3",
		"file:"+t.Name()+"?mode=memory&cache=shared", opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func testCtx() context.Context {
	return context.Background()
}

func fixedClock(epoch int64) func() time.Time {
	return func() time.Time {
		return time.Unix(epoch, 0)
	}
}

// createMemberTable sqlite 里建 member 表
func createMemberTable(t *testing.T, db *DB) {
	ctx := testCtx()
	_, err := db.UpdateBySQL(ctx, `CREATE TABLE member (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT,
		created_at INTEGER,
		updated_at INTEGER
	)`)
	require.NoError(t, err)
}
