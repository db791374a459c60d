package nav

import (
	"cmp"
	"strconv"
	"strings"
)

// CompareSort orders two sort keys.
//
// Keys that parse as numbers compare numerically and come before all other
// keys. Remaining keys compare lexicographically. Equal keys return 0 so a
// stable sort keeps their input order.
func CompareSort(a, b string) int {
	na, aNum := parseSort(a)
	nb, bNum := parseSort(b)

	switch {
	case aNum && bNum:
		return cmp.Compare(na, nb)
	case aNum:
		return -1
	case bNum:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

func parseSort(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
