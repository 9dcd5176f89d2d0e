package fmtx

import "sensorboard-go/x/conv"

// sprintf is the small formatter backing the MCU build, kept build-neutral so
// it can be tested on the host. It covers only the verbs the firmware logs
// with: %v %s %d %x and %%. Anything else renders as %!<verb>.
func sprintf(format string, args ...any) string {
	buf := make([]byte, 0, len(format)+24)
	ai := 0
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' {
			buf = append(buf, c)
			continue
		}
		i++
		if i >= len(format) {
			buf = append(buf, '%')
			break
		}
		verb := format[i]
		if verb == '%' {
			buf = append(buf, '%')
			continue
		}
		if ai >= len(args) {
			buf = append(buf, '%', '!', verb)
			continue
		}
		buf = appendArg(buf, verb, args[ai])
		ai++
	}
	return string(buf)
}

type stringer interface{ String() string }

func appendArg(buf []byte, verb byte, v any) []byte {
	switch verb {
	case 'd':
		if n, ok := asInt(v); ok {
			return conv.AppendInt(buf, n)
		}
	case 'x':
		if n, ok := asInt(v); ok {
			return conv.AppendHex(buf, uint64(n))
		}
	case 's', 'v':
		switch x := v.(type) {
		case string:
			return append(buf, x...)
		case []byte:
			return append(buf, x...)
		case bool:
			if x {
				return append(buf, "true"...)
			}
			return append(buf, "false"...)
		case error:
			return append(buf, x.Error()...)
		case stringer:
			return append(buf, x.String()...)
		default:
			if n, ok := asInt(v); ok {
				return conv.AppendInt(buf, n)
			}
		}
	}
	return append(buf, '%', '!', verb)
}

func asInt(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint:
		return int64(x), true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint64:
		return int64(x), true
	}
	return 0, false
}
