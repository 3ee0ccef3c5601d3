package scalar

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Canonical encoding: 1-byte kind tag followed by kind-specific data.
//
//	tagInt    (1): 8 bytes int64 big-endian
//	tagFloat  (2): 8 bytes IEEE 754 bits big-endian
//	tagString (3): uint32 length + bytes
//	tagTuple  (4): uint32 element count + each element encoded recursively
//
// Two scalars are equal exactly when their encodings are byte-equal, which
// makes the encoding usable as a map key for values (tuples) that are not
// comparable in Go. The encoding is one-way: nothing ever decodes it.
const (
	tagInt    byte = 1
	tagFloat  byte = 2
	tagString byte = 3
	tagTuple  byte = 4
)

// AppendKey appends the canonical encoding of v to dst. It fails only on
// types outside the grammar; NaN floats and empty tuples encode fine, their
// rejection is Verify's job.
func AppendKey(dst []byte, v any) ([]byte, error) {
	switch val := v.(type) {
	case int:
		dst = append(dst, tagInt)
		return binary.BigEndian.AppendUint64(dst, uint64(int64(val))), nil
	case int64:
		dst = append(dst, tagInt)
		return binary.BigEndian.AppendUint64(dst, uint64(val)), nil
	case float64:
		dst = append(dst, tagFloat)
		return binary.BigEndian.AppendUint64(dst, math.Float64bits(val)), nil
	case string:
		dst = append(dst, tagString)
		dst = binary.BigEndian.AppendUint32(dst, uint32(len(val)))
		return append(dst, val...), nil
	case Tuple:
		dst = append(dst, tagTuple)
		dst = binary.BigEndian.AppendUint32(dst, uint32(len(val)))
		var err error
		for i, elem := range val {
			dst, err = AppendKey(dst, elem)
			if err != nil {
				return nil, fmt.Errorf("tuple element %d: %w", i, err)
			}
		}
		return dst, nil
	default:
		return nil, &InvalidValueError{Value: v, Reason: fmt.Sprintf("unsupported type %T", v)}
	}
}

// KeyString returns the canonical encoding of v as a string.
func KeyString(v any) (string, error) {
	buf, err := AppendKey(nil, v)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}
