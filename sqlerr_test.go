package minorm

import (
	"errors"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLErrorOf(t *testing.T) {
	testCases := []struct {
		name   string
		err    error
		wantIs bool
		want   SQLError
	}{
		{
			name: "nil",
		},
		{
			name:   "mysql duplicate key",
			err:    &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"},
			wantIs: true,
			want:   DuplicateKeyErr,
		},
		{
			name:   "mysql unknown table",
			err:    &mysql.MySQLError{Number: 1146, Message: "Table doesn't exist"},
			wantIs: true,
			want:   NoTableErr,
		},
		{
			name:   "mysql unclassified",
			err:    &mysql.MySQLError{Number: 9999},
			wantIs: true,
			want:   UnknownErr,
		},
		{
			name:   "postgres unique violation",
			err:    &pq.Error{Code: "23505"},
			wantIs: true,
			want:   DuplicateKeyErr,
		},
		{
			name:   "postgres undefined column",
			err:    &pq.Error{Code: "42703"},
			wantIs: true,
			want:   NoColumnErr,
		},
		{
			name:   "sqlite unique by message",
			err:    errors.New("UNIQUE constraint failed: member.id"),
			wantIs: true,
			want:   DuplicateKeyErr,
		},
		{
			name:   "sqlite missing table by message",
			err:    errors.New("no such table: nobody"),
			wantIs: true,
			want:   NoTableErr,
		},
		{
			name: "unrelated error",
			err:  errors.New("dial tcp: connection refused"),
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			is, got := SQLErrorOf(tc.err)
			assert.Equal(t, tc.wantIs, is)
			assert.Equal(t, tc.want, got)
		})
	}
}

// 包装后的执行错误也能归类，驱动错误在 cause 链里
func TestSQLErrorOf_Wrapped(t *testing.T) {
	db := memoryDB(t, DBWithNowFunc(fixedClock(1410581698)))
	createMemberTable(t, db)
	ctx := testCtx()

	_, err := db.UpdateBySQL(ctx, "INSERT INTO member (id, name) VALUES (1, 'a')")
	require.NoError(t, err)
	_, err = db.UpdateBySQL(ctx, "INSERT INTO member (id, name) VALUES (1, 'b')")
	require.Error(t, err)

	is, kind := SQLErrorOf(err)
	assert.True(t, is)
	assert.Equal(t, DuplicateKeyErr, kind)
	assert.Equal(t, KindDatabase, KindOf(err))
}
