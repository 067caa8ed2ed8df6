package utils

import (
	"strings"
)

// SplitList splits a comma separated value, dropping blanks.
func SplitList(str string) []string {
	var out []string
	for _, v := range strings.Split(str, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func ArrContains(arr []string, value string) bool {
	for _, v := range arr {
		if v == value {
			return true
		}
	}
	return false
}

// Printable shows the SOH delimiters of a raw FIX message as '|'.
func Printable(raw []byte) string {
	return strings.ReplaceAll(string(raw), "\x01", "|")
}
