// Package conv holds allocation-free numeric formatting helpers for MCU
// builds, where pulling in fmt/strconv costs flash and heap.
package conv

// AppendUint appends the base-10 representation of n to dst.
func AppendUint(dst []byte, n uint64) []byte {
	if n == 0 {
		return append(dst, '0')
	}
	var tmp [20]byte
	i := len(tmp)
	for n > 0 {
		i--
		tmp[i] = byte('0' + n%10)
		n /= 10
	}
	return append(dst, tmp[i:]...)
}

// AppendInt appends the base-10 representation of n to dst.
func AppendInt(dst []byte, n int64) []byte {
	if n < 0 {
		dst = append(dst, '-')
		return AppendUint(dst, uint64(-n))
	}
	return AppendUint(dst, uint64(n))
}

// AppendHex appends the lowercase base-16 representation of n to dst,
// without a 0x prefix.
func AppendHex(dst []byte, n uint64) []byte {
	const digits = "0123456789abcdef"
	if n == 0 {
		return append(dst, '0')
	}
	var tmp [16]byte
	i := len(tmp)
	for n > 0 {
		i--
		tmp[i] = digits[n&0xF]
		n >>= 4
	}
	return append(dst, tmp[i:]...)
}

// AppendDeci appends a fixed-point tenths value as "integral.decimal",
// e.g. 213 -> "21.3", -5 -> "-0.5". This is the wire-to-log format for the
// sensor readings, which are native tenths.
func AppendDeci(dst []byte, deci int32) []byte {
	if deci < 0 {
		dst = append(dst, '-')
		deci = -deci
	}
	dst = AppendUint(dst, uint64(deci/10))
	dst = append(dst, '.')
	return AppendUint(dst, uint64(deci%10))
}
