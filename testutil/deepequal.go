package testutil

import (
	"fmt"
	"reflect"
)

// DeepEqual is reflect.DeepEqual which can also describe the first difference it finds
// in the optional trc, as a path from the top of x: for example [1][0]: 2 != 3.
func DeepEqual(x, y interface{}, trc ...*string) bool {
	if len(trc) > 1 {
		panic("testutil.DeepEqual: more than one trace")
	}

	eq := reflect.DeepEqual(x, y)
	if len(trc) == 1 && trc[0] != nil {
		*trc[0] = ""
		if !eq {
			*trc[0] = difference("", reflect.ValueOf(x), reflect.ValueOf(y))
			if *trc[0] == "" {
				*trc[0] = fmt.Sprintf("%#v != %#v\n", x, y)
			}
		}
	}
	return eq
}

func mismatch(path string, v1, v2 interface{}) string {
	if path == "" {
		path = "."
	}
	return fmt.Sprintf("%s: %v != %v\n", path, v1, v2)
}

func difference(path string, v1, v2 reflect.Value) string {
	if !v1.IsValid() || !v2.IsValid() {
		if v1.IsValid() != v2.IsValid() {
			return mismatch(path, v1, v2)
		}
		return ""
	}
	if v1.Type() != v2.Type() {
		return mismatch(path, v1.Type(), v2.Type())
	}

	switch v1.Kind() {
	case reflect.Slice, reflect.Array:
		if v1.Kind() == reflect.Slice && v1.IsNil() != v2.IsNil() {
			return mismatch(path, fmt.Sprintf("nil=%v", v1.IsNil()),
				fmt.Sprintf("nil=%v", v2.IsNil()))
		}
		if v1.Len() != v2.Len() {
			return mismatch(path+".len", v1.Len(), v2.Len())
		}
		for i := 0; i < v1.Len(); i++ {
			s := difference(fmt.Sprintf("%s[%d]", path, i), v1.Index(i), v2.Index(i))
			if s != "" {
				return s
			}
		}
	case reflect.Interface, reflect.Ptr:
		if v1.IsNil() || v2.IsNil() {
			if v1.IsNil() != v2.IsNil() {
				return mismatch(path, v1, v2)
			}
			return ""
		}
		return difference(path, v1.Elem(), v2.Elem())
	case reflect.Struct:
		for i := 0; i < v1.NumField(); i++ {
			s := difference(path+"."+v1.Type().Field(i).Name, v1.Field(i), v2.Field(i))
			if s != "" {
				return s
			}
		}
	case reflect.Map:
		if v1.Len() != v2.Len() {
			return mismatch(path+".len", v1.Len(), v2.Len())
		}
		for _, k := range v1.MapKeys() {
			s := difference(fmt.Sprintf("%s[%v]", path, k), v1.MapIndex(k), v2.MapIndex(k))
			if s != "" {
				return s
			}
		}
	default:
		s1, s2 := fmt.Sprintf("%#v", v1), fmt.Sprintf("%#v", v2)
		if s1 != s2 {
			return mismatch(path, s1, s2)
		}
	}
	return ""
}
