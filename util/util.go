package util

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/exp/constraints"
)

func EnsureDir(path string) error {
	return os.MkdirAll(path, 0777)
}

// GatherAllMidiPaths walks path for .mid and .midi files. maxNum of 0 means
// no limit. A path naming a single file is returned as is.
func GatherAllMidiPaths(path string, maxNum int) ([]string, error) {
	var res []string
	walk := func(s string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(s, ".mid") || strings.HasSuffix(s, ".midi") {
			if maxNum == 0 || len(res) < maxNum {
				res = append(res, s)
			}
		}
		return nil
	}
	if err := filepath.WalkDir(path, walk); err != nil {
		return nil, err
	}
	return res, nil
}

// GetKeys returns the map's keys in ascending order.
func GetKeys[A constraints.Ordered, B any](m map[A]B) []A {
	keys := make([]A, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i] < keys[j]
	})
	return keys
}

// Mod is the modulus with the sign of the divisor, so Mod(-1, 7) == 6.
func Mod[A constraints.Integer](a A, b A) A {
	m := a % b
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return m
}

// FloorDiv rounds toward negative infinity.
func FloorDiv[A constraints.Integer](a A, b A) A {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func Abs[A constraints.Signed](num A) A {
	if num < 0 {
		return -num
	}
	return num
}

func Min[A constraints.Ordered](num1 A, num2 A) A {
	if num1 > num2 {
		return num2
	}
	return num1
}

// Reverse reverses the slice in place.
func Reverse[A any](s []A) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// Product calls fn with every tuple of n elements drawn from items, the
// last position varying fastest. The tuple is reused between calls.
func Product[A any](items []A, n int, fn func([]A)) {
	if n == 0 {
		fn(nil)
		return
	}
	if len(items) == 0 {
		return
	}
	tuple := make([]A, n)
	idx := make([]int, n)
	for {
		for i, j := range idx {
			tuple[i] = items[j]
		}
		fn(tuple)
		pos := n - 1
		for pos >= 0 {
			idx[pos]++
			if idx[pos] < len(items) {
				break
			}
			idx[pos] = 0
			pos--
		}
		if pos < 0 {
			return
		}
	}
}
