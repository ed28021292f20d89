package valuer

import (
	"reflect"

	"github.com/coderi421/minorm/internal/errs"
	"github.com/coderi421/minorm/model"
)

var extrasType = reflect.TypeOf(model.Extras{})

// BeanColumns extracts ordered (column, value) pairs from a bean-like
// struct for the target model. A bean field contributes only when its
// resolved column name matches a declared plain column: primary-key and
// timestamp-role columns are never taken from a bean. Fields with no
// matching declared column are ignored.
func BeanColumns(meta *model.Model, bean any) ([]ColumnValue, error) {
	v := reflect.ValueOf(bean)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, errs.ErrPointerOnly
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, errs.ErrPointerOnly
	}

	typ := v.Type()
	res := make([]ColumnValue, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		fd := typ.Field(i)
		if fd.PkgPath != "" {
			// 非导出字段
			continue
		}
		if fd.Anonymous && fd.Type == extrasType {
			continue
		}
		col, err := model.ColumnNameOf(fd)
		if err != nil {
			return nil, err
		}
		mf, ok := meta.ColumnMap[col]
		if !ok || mf.Role != model.RoleColumn {
			continue
		}
		res = append(res, ColumnValue{Field: mf, Val: v.Field(i).Interface()})
	}
	return res, nil
}
