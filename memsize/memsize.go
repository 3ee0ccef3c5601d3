// Package memsize measures the deep memory footprint of engine
// structures by reflection, and breaks an index's footprint down into
// store, columns, and cache shares.
package memsize

import (
	"reflect"
	"unsafe"
)

// Of returns an estimate of the total memory occupied by v, including
// every reachable heap allocation. Pointer cycles are detected and
// counted once.
func Of(v any) int64 {
	if v == nil {
		return 0
	}
	visited := make(map[uintptr]bool)
	return total(reflect.ValueOf(v), visited)
}

// total returns the full size of v: its inline storage plus everything
// reachable from it.
func total(v reflect.Value, visited map[uintptr]bool) int64 {
	if !v.IsValid() {
		return 0
	}

	switch v.Kind() {
	case reflect.Ptr:
		if v.IsNil() {
			return int64(v.Type().Size())
		}
		ptr := v.Pointer()
		if visited[ptr] {
			return int64(v.Type().Size())
		}
		visited[ptr] = true
		return int64(v.Type().Size()) + total(v.Elem(), visited)

	case reflect.String:
		return int64(v.Type().Size()) + int64(v.Len())

	case reflect.Slice:
		if v.IsNil() {
			return int64(v.Type().Size())
		}
		s := int64(v.Type().Size())
		s += int64(v.Cap()) * int64(v.Type().Elem().Size())
		if hasIndirect(v.Type().Elem()) {
			for i := 0; i < v.Len(); i++ {
				s += indirect(v.Index(i), visited)
			}
		}
		return s

	case reflect.Array:
		s := int64(0)
		if hasIndirect(v.Type().Elem()) {
			for i := 0; i < v.Len(); i++ {
				s += indirect(v.Index(i), visited)
			}
		}
		return int64(v.Type().Size()) + s

	case reflect.Struct:
		// The struct's own size covers inline fields and padding; only
		// what the fields point at is added.
		s := int64(0)
		for i := 0; i < v.NumField(); i++ {
			s += indirect(v.Field(i), visited)
		}
		return int64(v.Type().Size()) + s

	case reflect.Map:
		if v.IsNil() {
			return int64(v.Type().Size())
		}
		// Rough allowance for the runtime map header and bucket
		// bookkeeping; exact hmap internals are not reachable.
		s := int64(v.Type().Size()) + int64(unsafe.Sizeof(uint64(0)))*8
		iter := v.MapRange()
		for iter.Next() {
			s += total(iter.Key(), visited)
			s += total(iter.Value(), visited)
		}
		return s

	case reflect.Interface:
		if v.IsNil() {
			return int64(v.Type().Size())
		}
		return int64(v.Type().Size()) + total(v.Elem(), visited)

	default:
		return int64(v.Type().Size())
	}
}

// indirect returns only the heap-allocated size reachable from v,
// excluding the inline storage already counted by the parent container.
func indirect(v reflect.Value, visited map[uintptr]bool) int64 {
	if !v.IsValid() {
		return 0
	}

	switch v.Kind() {
	case reflect.Ptr:
		if v.IsNil() {
			return 0
		}
		ptr := v.Pointer()
		if visited[ptr] {
			return 0
		}
		visited[ptr] = true
		return int64(v.Elem().Type().Size()) + indirect(v.Elem(), visited)

	case reflect.String:
		return int64(v.Len())

	case reflect.Slice:
		if v.IsNil() {
			return 0
		}
		s := int64(v.Cap()) * int64(v.Type().Elem().Size())
		if hasIndirect(v.Type().Elem()) {
			for i := 0; i < v.Len(); i++ {
				s += indirect(v.Index(i), visited)
			}
		}
		return s

	case reflect.Map:
		if v.IsNil() {
			return 0
		}
		s := int64(unsafe.Sizeof(uint64(0))) * 8
		iter := v.MapRange()
		for iter.Next() {
			s += total(iter.Key(), visited)
			s += total(iter.Value(), visited)
		}
		return s

	case reflect.Interface:
		if v.IsNil() {
			return 0
		}
		return total(v.Elem(), visited)

	case reflect.Struct:
		s := int64(0)
		for i := 0; i < v.NumField(); i++ {
			s += indirect(v.Field(i), visited)
		}
		return s

	case reflect.Array:
		s := int64(0)
		if hasIndirect(v.Type().Elem()) {
			for i := 0; i < v.Len(); i++ {
				s += indirect(v.Index(i), visited)
			}
		}
		return s

	default:
		return 0
	}
}

// hasIndirect reports whether a type can reach heap-allocated data.
func hasIndirect(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.String,
		reflect.Interface:
		return true
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if hasIndirect(t.Field(i).Type) {
				return true
			}
		}
	case reflect.Array:
		return hasIndirect(t.Elem())
	}
	return false
}
