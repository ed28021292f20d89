package model

// Extras collects result columns that do not match any declared field,
// keyed by the label the driver returned (so an AS alias is kept as-is).
// Embed it in a row type to keep computed expressions and joined columns
// around after mapping:
//
//	type Member struct {
//		model.Extras
//		Id   int64 `orm:"role=primary_key"`
//		Name string
//	}
//
// Insertion order is preserved. The zero value is ready to use.
type Extras struct {
	labels []string
	values map[string]any
}

// Set stores val under label. Setting an existing label overwrites the
// value but keeps the label's original position.
func (e *Extras) Set(label string, val any) {
	if e.values == nil {
		e.values = make(map[string]any, 4)
	}
	if _, ok := e.values[label]; !ok {
		e.labels = append(e.labels, label)
	}
	e.values[label] = val
}

// ExtraColumn returns the value stored under label, or nil.
func (e *Extras) ExtraColumn(label string) any {
	return e.values[label]
}

// ExtraColumns returns all extra columns as a label→value map.
func (e *Extras) ExtraColumns() map[string]any {
	res := make(map[string]any, len(e.values))
	for k, v := range e.values {
		res[k] = v
	}
	return res
}

// ExtraLabels returns the labels in the order the columns appeared in the
// result set.
func (e *Extras) ExtraLabels() []string {
	res := make([]string, len(e.labels))
	copy(res, e.labels)
	return res
}
