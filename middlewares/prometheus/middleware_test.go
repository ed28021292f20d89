package prometheus

import (
	"context"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	minorm "github.com/coderi421/minorm"
)

type member struct {
	Id   int64 `orm:"role=primary_key"`
	Name string
}

func TestMiddlewareBuilder_Build(t *testing.T) {
	m := MiddlewareBuilder{
		Namespace: "minorm",
		Subsystem: "orm",
		Name:      "statement_duration_ms",
		Help:      "statement execution duration",
	}

	db, err := minorm.Open("sqlite3",
		"file:"+t.Name()+"?cache=shared&mode=memory",
		minorm.DBWithMiddlewares(m.Build()))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	ctx := context.Background()
	_, err = db.UpdateBySQL(ctx, "CREATE TABLE member (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT)")
	require.NoError(t, err)

	require.NoError(t, minorm.Insert[member](db).Value("name", "mei").Exec(ctx).Err())
	_, _, err = minorm.Single[member](db).Where("`name` = ?", "mei").Get(ctx)
	require.NoError(t, err)
}
