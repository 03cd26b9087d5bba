package version

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

type semver struct {
	parts [3]int
	pre   string
}

// parse accepts "1", "1.2", "v1.2.3" and "1.2.3-rc1". Missing parts are zero.
func parse(s string) (semver, error) {
	var v semver

	core, pre, _ := strings.Cut(strings.TrimPrefix(strings.TrimSpace(s), "v"), "-")
	v.pre = pre

	fields := strings.Split(core, ".")
	if len(fields) > 3 {
		return v, fmt.Errorf("invalid version %q", s)
	}

	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return v, fmt.Errorf("invalid version %q", s)
		}
		v.parts[i] = n
	}

	return v, nil
}

// Compare returns 1 if a is newer than b, -1 if older and 0 if equal.
// A pre-release is older than the release it precedes.
func Compare(a, b string) (int, error) {
	av, err := parse(a)
	if err != nil {
		return 0, err
	}

	bv, err := parse(b)
	if err != nil {
		return 0, err
	}

	for _, pair := range lo.Zip2(av.parts[:], bv.parts[:]) {
		if pair.A != pair.B {
			return lo.Ternary(pair.A > pair.B, 1, -1), nil
		}
	}

	switch {
	case av.pre == bv.pre:
		return 0, nil
	case av.pre == "":
		return 1, nil
	case bv.pre == "":
		return -1, nil
	default:
		return lo.Ternary(av.pre > bv.pre, 1, -1), nil
	}
}
