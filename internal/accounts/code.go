package accounts

import (
	"strconv"
	"strings"
)

// Separator joins the segments of an account code.
const Separator = "-"

// Depth returns the number of segments in code: Depth("1-2-3") == 3.
func Depth(code string) int {
	if code == "" {
		return 0
	}
	return strings.Count(code, Separator) + 1
}

// ParentCode returns the code of the parent account, or "" for a root.
// "1-2-3" -> "1-2"
func ParentCode(code string) string {
	i := strings.LastIndex(code, Separator)
	if i < 0 {
		return ""
	}
	return code[:i]
}

// IsDescendant reports whether code sits anywhere beneath ancestor.
func IsDescendant(code, ancestor string) bool {
	return ancestor != "" && strings.HasPrefix(code, ancestor+Separator)
}

// InSubtree reports whether code is root itself or one of its descendants.
func InSubtree(code, root string) bool {
	return code == root || IsDescendant(code, root)
}

// AncestorAt returns the ancestor of code at the given depth, or code
// itself when it is already that shallow.
func AncestorAt(code string, depth int) string {
	if depth <= 0 || Depth(code) <= depth {
		return code
	}
	segs := strings.SplitN(code, Separator, depth+1)
	return strings.Join(segs[:depth], Separator)
}

// ValidCode reports whether every segment of code is a non-empty run of digits.
func ValidCode(code string) bool {
	if code == "" {
		return false
	}
	for _, seg := range strings.Split(code, Separator) {
		if seg == "" {
			return false
		}
		for _, r := range seg {
			if r < '0' || r > '9' {
				return false
			}
		}
	}
	return true
}

// CompareCodes orders codes segment by segment, numerically where both
// segments are numbers, so "1-10" sorts after "1-9".
func CompareCodes(a, b string) int {
	as := strings.Split(a, Separator)
	bs := strings.Split(b, Separator)
	for i := 0; i < len(as) && i < len(bs); i++ {
		if c := compareSegment(as[i], bs[i]); c != 0 {
			return c
		}
	}
	return len(as) - len(bs)
}

func compareSegment(a, b string) int {
	ai, aerr := strconv.Atoi(a)
	bi, berr := strconv.Atoi(b)
	if aerr == nil && berr == nil {
		return ai - bi
	}
	return strings.Compare(a, b)
}
