package minorm

import (
	"github.com/coderi421/minorm/model"
)

// Extras 的别名，让调用方内嵌它时不用额外 import model 包
type Extras = model.Extras

// TableName reports the table name a row type resolves to.
func TableName[T any](sess Session) (string, error) {
	m, err := sess.getCore().r.Get(new(T))
	if err != nil {
		return "", err
	}
	return m.TableName, nil
}
