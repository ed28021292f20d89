package minorm

import (
	"strconv"
	"strings"
)

var (
	MySQL    Dialect = mysqlDialect{}
	SQLite3  Dialect = sqlite3Dialect{}
	Postgres Dialect = postgresDialect{}
)

// Dialect 屏蔽方言之间引用符和占位符风格的差异
type Dialect interface {
	quoter() byte
	// placeholder 写入第 idx 个占位符，idx 从 1 开始
	placeholder(sb *strings.Builder, idx int)
}

type standardSQL struct{}

func (standardSQL) quoter() byte {
	return '`'
}

func (standardSQL) placeholder(sb *strings.Builder, _ int) {
	sb.WriteByte('?')
}

type mysqlDialect struct {
	standardSQL
}

type sqlite3Dialect struct {
	standardSQL
}

type postgresDialect struct{}

func (postgresDialect) quoter() byte {
	return '"'
}

func (postgresDialect) placeholder(sb *strings.Builder, idx int) {
	sb.WriteByte('$')
	sb.WriteString(strconv.Itoa(idx))
}
