package main

import "unicode/utf8"

func decodeRune(b []byte) (rune, int) {
	r, size := utf8.DecodeRune(b)
	if r == utf8.RuneError && size <= 1 {
		size = 1
	}
	return r, size
}

func controlName(b byte) string {
	switch b {
	case 0x07:
		return " (BEL)"
	case 0x08:
		return " (BS)"
	case 0x09:
		return " (HT)"
	case 0x0A:
		return " (LF)"
	case 0x0D:
		return " (CR)"
	default:
		return ""
	}
}
