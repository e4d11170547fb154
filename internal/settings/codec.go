package settings

import (
	"strconv"
	"strings"
)

const (
	trueText  = "True"
	falseText = "False"
	listSep   = ","
)

// EncodeBool serializes b as "True" or "False".
func EncodeBool(b bool) string {
	if b {
		return trueText
	}
	return falseText
}

// DecodeBool parses a serialized boolean. "True" and "False" are accepted
// in any case, as is any form strconv.ParseBool understands.
func DecodeBool(s string) (bool, bool) {
	s = strings.TrimSpace(s)
	switch {
	case strings.EqualFold(s, trueText):
		return true, true
	case strings.EqualFold(s, falseText):
		return false, true
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, false
	}
	return b, true
}

// EncodeInt serializes n in decimal.
func EncodeInt(n int) string {
	return strconv.Itoa(n)
}

// DecodeInt parses a decimal integer.
func DecodeInt(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return n, true
}

// EncodeList joins items with commas. Items containing commas are not escaped.
func EncodeList(items []string) string {
	return strings.Join(items, listSep)
}

// DecodeList splits a comma-joined list. The empty string is an empty list.
func DecodeList(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, listSep)
}
