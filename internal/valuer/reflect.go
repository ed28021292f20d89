package valuer

import (
	"database/sql"
	"reflect"
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru"

	"github.com/coderi421/minorm/internal/errs"
	"github.com/coderi421/minorm/model"
)

// reflectValue 基于反射的 Value
type reflectValue struct {
	val  reflect.Value
	meta *model.Model
}

var _ Creator = NewReflectValue

// NewReflectValue 返回一个封装好的，基于反射实现的 Value
// 输入 val 必须是一个指向结构体实例的指针，而不能是任何其它类型
func NewReflectValue(val any, meta *model.Model) Value {
	return reflectValue{
		val:  reflect.ValueOf(val).Elem(),
		meta: meta,
	}
}

func (r reflectValue) Field(name string) (any, error) {
	fd, ok := r.meta.FieldMap[name]
	if !ok {
		return nil, errs.NewErrUnknownField(name)
	}
	return r.val.Field(fd.Index).Interface(), nil
}

// SetColumns 将当前结果行的数据设置到对应的 struct 上：
// 声明过的列做类型转换后赋值；没有匹配字段的列按返回时的标签
// 存进内嵌的 Extras，永远不会因为多余的列而报错。
func (r reflectValue) SetColumns(rows *sql.Rows) error {
	cols, err := rows.Columns()
	if err != nil {
		return errs.WrapDB(err)
	}

	pl := planFor(r.meta, cols)

	// 先扫进 any 的盒子里，驱动值原样拿到手再做转换，
	// 不然没法把未声明的列留下来
	raw := make([]any, len(cols))
	for i := range raw {
		raw[i] = new(any)
	}
	if err = rows.Scan(raw...); err != nil {
		return errs.WrapDB(err)
	}

	var extras *model.Extras
	if r.meta.ExtrasIndex >= 0 {
		extras = r.val.Field(r.meta.ExtrasIndex).Addr().Interface().(*model.Extras)
	}

	for i, fd := range pl.fields {
		src := *(raw[i].(*any))
		if fd == nil {
			if extras != nil {
				extras.Set(cols[i], normalizeExtra(src))
			}
			continue
		}
		if err = coerce(fd, r.val.Field(fd.Index), src); err != nil {
			return err
		}
	}
	return nil
}

// normalizeExtra 驱动返回的 []byte 对调用方基本没用，转成 string
func normalizeExtra(src any) any {
	if b, ok := src.([]byte); ok {
		return string(b)
	}
	return src
}

// coerce 将驱动返回的值转换成字段的语义类型
func coerce(fd *model.Field, dst reflect.Value, src any) error {
	if src == nil {
		dst.Set(reflect.Zero(dst.Type()))
		return nil
	}

	// sql.Scanner 字段自己扫自己
	if dst.CanAddr() {
		if sc, ok := dst.Addr().Interface().(sql.Scanner); ok {
			if err := sc.Scan(src); err != nil {
				return errs.WrapMapping(fd.ColName, err)
			}
			return nil
		}
	}

	if dst.Kind() == reflect.Ptr {
		if dst.IsNil() {
			dst.Set(reflect.New(dst.Type().Elem()))
		}
		return coerce(fd, dst.Elem(), src)
	}

	// 时间戳列按秒级整数落到整型字段上
	if t, ok := src.(time.Time); ok {
		switch dst.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			dst.SetInt(t.Unix())
			return nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			dst.SetUint(uint64(t.Unix()))
			return nil
		}
	}

	sv := reflect.ValueOf(src)
	if sv.Type().AssignableTo(dst.Type()) {
		dst.Set(sv)
		return nil
	}

	// sqlite 和 mysql 的文本协议都可能把数值按 []byte 返回
	if b, ok := src.([]byte); ok {
		return coerceText(fd, dst, string(b), src)
	}
	if s, ok := src.(string); ok {
		return coerceText(fd, dst, s, src)
	}

	switch dst.Kind() {
	case reflect.Bool:
		if v, ok := src.(int64); ok {
			dst.SetBool(v != 0)
			return nil
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		switch v := src.(type) {
		case int64:
			dst.SetInt(v)
			return nil
		case float64:
			dst.SetInt(int64(v))
			return nil
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		switch v := src.(type) {
		case int64:
			dst.SetUint(uint64(v))
			return nil
		case float64:
			dst.SetUint(uint64(v))
			return nil
		}
	case reflect.Float32, reflect.Float64:
		switch v := src.(type) {
		case int64:
			dst.SetFloat(float64(v))
			return nil
		case float64:
			dst.SetFloat(v)
			return nil
		}
	case reflect.String:
		switch v := src.(type) {
		case int64:
			dst.SetString(strconv.FormatInt(v, 10))
			return nil
		case float64:
			dst.SetString(strconv.FormatFloat(v, 'f', -1, 64))
			return nil
		case bool:
			dst.SetString(strconv.FormatBool(v))
			return nil
		}
	}

	return errs.NewErrIncompatibleColumn(fd.ColName, src, dst.Type().String())
}

func coerceText(fd *model.Field, dst reflect.Value, s string, src any) error {
	switch dst.Kind() {
	case reflect.String:
		dst.SetString(s)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v, err := strconv.ParseInt(s, 10, dst.Type().Bits())
		if err != nil {
			return errs.NewErrIncompatibleColumn(fd.ColName, src, dst.Type().String())
		}
		dst.SetInt(v)
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v, err := strconv.ParseUint(s, 10, dst.Type().Bits())
		if err != nil {
			return errs.NewErrIncompatibleColumn(fd.ColName, src, dst.Type().String())
		}
		dst.SetUint(v)
		return nil
	case reflect.Float32, reflect.Float64:
		v, err := strconv.ParseFloat(s, dst.Type().Bits())
		if err != nil {
			return errs.NewErrIncompatibleColumn(fd.ColName, src, dst.Type().String())
		}
		dst.SetFloat(v)
		return nil
	case reflect.Bool:
		v, err := strconv.ParseBool(s)
		if err != nil {
			return errs.NewErrIncompatibleColumn(fd.ColName, src, dst.Type().String())
		}
		dst.SetBool(v)
		return nil
	case reflect.Slice:
		if dst.Type().Elem().Kind() == reflect.Uint8 {
			dst.SetBytes([]byte(s))
			return nil
		}
	}
	return errs.NewErrIncompatibleColumn(fd.ColName, src, dst.Type().String())
}

// ---- scan plans ----

// 原生 SQL 会产生各种各样的列组合，计划缓存有界，
// 模型元数据本身还是留在 Registry 里不淘汰
// key 里放的是列名本身而不是摘要，不同的列组合绝不会撞到同一个计划
type planKey struct {
	meta *model.Model
	cols string
}

type scanPlan struct {
	// fields 按列顺序排列，没有匹配字段的列为 nil
	fields []*model.Field
}

var planCache = newPlanCache()

func newPlanCache() *lru.Cache {
	c, err := lru.New(512)
	if err != nil {
		// 大小写死为正数，lru.New 不会失败
		panic(err)
	}
	return c
}

func planFor(meta *model.Model, cols []string) *scanPlan {
	key := planKey{meta: meta, cols: strings.Join(cols, "\x00")}

	if v, ok := planCache.Get(key); ok {
		return v.(*scanPlan)
	}

	fields := make([]*model.Field, len(cols))
	for i, c := range cols {
		// 缺失的列留 nil，后面进 Extras
		fields[i] = meta.ColumnMap[c]
	}
	pl := &scanPlan{fields: fields}
	planCache.Add(key, pl)
	return pl
}
