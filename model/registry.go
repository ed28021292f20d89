package model

import (
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/coderi421/minorm/internal/errs"
)

// Registry 存储 Row Type 到 *Model 的映射
type Registry interface {
	Get(val any) (*Model, error)
	Register(val any, opts ...Option) (*Model, error)
}

// 这种包变量对测试不友好，缺乏隔离，所以 Registry 由 DB 持有
//
//	var defaultRegistry = &registry{}
type registry struct {
	// models key 是 reflect.Type
	// 用类型名做 key 是不行的：类型名会冲突，例如两个包里都有 User
	// sync.Map 保证并发的首次解析不会相互覆盖出脏数据
	models sync.Map
}

func NewRegistry() Registry {
	return &registry{}
}

var extrasType = reflect.TypeOf(Extras{})

// Get fetches the model associated with a given value.
// If the model is not found in the registry, it is parsed and stored for
// future use. Concurrent first use may parse more than once; LoadOrStore
// keeps the first stored copy and the excess results are discarded, so the
// same type always yields the same *Model afterwards.
func (r *registry) Get(val any) (*Model, error) {
	typ := reflect.TypeOf(val)

	m, ok := r.models.Load(typ)
	if ok {
		return m.(*Model), nil
	}

	parsed, err := r.parseModel(val)
	if err != nil {
		return nil, err
	}

	actual, _ := r.models.LoadOrStore(typ, parsed)
	return actual.(*Model), nil
}

// Register parses val, applies the provided options and stores the result,
// replacing any cached model for the same type.
func (r *registry) Register(val any, opts ...Option) (*Model, error) {
	m, err := r.parseModel(val)
	if err != nil {
		return nil, err
	}

	for _, opt := range opts {
		if err = opt(m); err != nil {
			return nil, err
		}
	}

	r.models.Store(reflect.TypeOf(val), m)
	return m, nil
}

// parseModel introspects the struct type once and builds the ordered
// column list. orm:"key1=value1,key2=value2"
func (r *registry) parseModel(val any) (*Model, error) {
	typ := reflect.TypeOf(val)

	// Only support one-level pointer as input, e.g. *User does not support **User and User
	if typ.Kind() != reflect.Ptr || typ.Elem().Kind() != reflect.Struct {
		return nil, errs.ErrPointerOnly
	}

	typ = typ.Elem()
	numField := typ.NumField()

	m := &Model{
		Fields:      make([]*Field, 0, numField),
		FieldMap:    make(map[string]*Field, numField),
		ColumnMap:   make(map[string]*Field, numField),
		ExtrasIndex: -1,
	}

	for i := 0; i < numField; i++ {
		fdStruct := typ.Field(i)

		// 内嵌的 Extras 不是列，记下位置留给 valuer 用
		if fdStruct.Anonymous && fdStruct.Type == extrasType {
			m.ExtrasIndex = i
			continue
		}

		tags, err := parseTag(fdStruct.Tag)
		if err != nil {
			return nil, err
		}

		colName := tags[tagKeyColumn]
		if colName == "" {
			// ItemId -> item_id
			colName = underscoreName(fdStruct.Name)
		}

		role, err := parseRole(tags[tagKeyRole])
		if err != nil {
			return nil, err
		}

		f := &Field{
			ColName: colName,
			GoName:  fdStruct.Name,
			Role:    role,
			Type:    fdStruct.Type,
			Index:   i,
		}

		switch role {
		case RolePrimaryKey:
			if m.PrimaryKey != nil {
				return nil, errs.ErrMultiplePrimaryKeys
			}
			m.PrimaryKey = f
		case RoleCreatedTS, RoleUpdatedTS:
			// 时间戳按秒级整数存储
			if !isIntegerKind(fdStruct.Type.Kind()) {
				return nil, errs.NewErrUnsupportedRoleType(fdStruct.Name, fdStruct.Type.String())
			}
			if role == RoleCreatedTS {
				m.CreatedTS = f
			} else {
				m.UpdatedTS = f
			}
		}

		m.Fields = append(m.Fields, f)
		m.FieldMap[fdStruct.Name] = f
		m.ColumnMap[colName] = f
	}

	var tableName string
	if tn, ok := val.(TableName); ok {
		tableName = tn.TableName()
	}
	if tableName == "" {
		tableName = underscoreName(typ.Name())
	}
	m.TableName = tableName

	return m, nil
}

func isIntegerKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	default:
		return false
	}
}

func parseRole(role string) (Role, error) {
	switch role {
	case "":
		return RoleColumn, nil
	case roleValuePrimaryKey:
		return RolePrimaryKey, nil
	case roleValueCreatedTS:
		return RoleCreatedTS, nil
	case roleValueUpdatedTS:
		return RoleUpdatedTS, nil
	default:
		return RoleColumn, errs.NewErrUnknownRole(role)
	}
}

// parseTag parses the given struct tag and returns a map of key-value pairs.
// If the tag is empty, it returns an empty map and no error.
// If the tag contains an invalid key-value pair, it returns an error.
func parseTag(tag reflect.StructTag) (map[string]string, error) {
	ormTag := tag.Get(tagORMName)
	if ormTag == "" {
		// Return an empty map so that the caller doesn't need to check for nil
		return map[string]string{}, nil
	}

	res := make(map[string]string, 2)
	pairs := strings.Split(ormTag, ",")
	for _, pair := range pairs {
		kv := strings.Split(pair, "=")
		if len(kv) != 2 {
			return nil, errs.NewErrInvalidTagContent(pair)
		}
		res[kv[0]] = kv[1]
	}

	return res, nil
}

// ColumnNameOf resolves the column name a struct field maps to, honoring
// the orm tag. Bean extraction uses the same rules as model parsing so a
// bean field lines up with the column its row-type twin declared.
func ColumnNameOf(fd reflect.StructField) (string, error) {
	tags, err := parseTag(fd.Tag)
	if err != nil {
		return "", err
	}
	colName := tags[tagKeyColumn]
	if colName == "" {
		colName = underscoreName(fd.Name)
	}
	return colName, nil
}

// underscoreName converts a given name to underscore case.
// UserName -> user_name
func underscoreName(tableName string) string {
	var buf []byte
	for i, v := range tableName {
		if unicode.IsUpper(v) {
			if i != 0 {
				buf = append(buf, '_')
			}
			buf = append(buf, byte(unicode.ToLower(v)))
		} else {
			buf = append(buf, byte(v))
		}
	}
	return string(buf)
}
