package converter

// EncodeVLQ returns the MIDI variable-length quantity encoding of v
func EncodeVLQ(v uint32) []byte {
	return AppendVLQ(nil, v)
}

// AppendVLQ appends the variable-length encoding of v to dst
func AppendVLQ(dst []byte, v uint32) []byte {
	if v < 0x80 {
		return append(dst, byte(v))
	}
	var buf [5]byte
	i := len(buf) - 1
	buf[i] = byte(v & 0x7F)
	v >>= 7
	for v > 0 {
		i--
		buf[i] = byte(v&0x7F) | 0x80
		v >>= 7
	}
	return append(dst, buf[i:]...)
}
