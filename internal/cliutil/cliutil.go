// internal/cliutil/cliutil.go
package cliutil

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

func hasGlobMeta(s string) bool { return strings.ContainsAny(s, "*?[") }

// ExpandPositionals expands any globs among path-like positionals.
func ExpandPositionals(posArgs []string) ([]string, error) {
	var out []string
	for _, a := range posArgs {
		if a == "-" {
			out = append(out, a)
			continue
		}
		if hasGlobMeta(a) {
			m, err := filepath.Glob(a)
			if err != nil {
				return nil, fmt.Errorf("bad glob %q: %v", a, err)
			}
			if len(m) == 0 {
				return nil, fmt.Errorf("no input matched %q", a)
			}
			out = append(out, m...)
		} else {
			out = append(out, a)
		}
	}
	return out, nil
}

// ParseConcentration reads an effector concentration and returns it in µM.
// A bare number is already µM; nM, µM/uM, mM and M suffixes are converted.
func ParseConcentration(value string) (float64, error) {
	s := strings.TrimSpace(strings.ToLower(value))
	s = strings.ReplaceAll(s, "µ", "u")
	unit := ""
	num := s
	for _, u := range []string{"nm", "um", "mm", "m"} {
		if strings.HasSuffix(s, u) {
			unit = u
			num = strings.TrimSpace(strings.TrimSuffix(s, u))
			break
		}
	}
	if num == "" {
		return 0, fmt.Errorf("empty concentration %q", value)
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("bad concentration %q", value)
	}
	if f < 0 {
		return 0, fmt.Errorf("negative concentration %q", value)
	}
	switch unit {
	case "nm":
		return f * 1e-3, nil
	case "um", "":
		return f, nil
	case "mm":
		return f * 1e3, nil
	case "m":
		return f * 1e6, nil
	default:
		return 0, fmt.Errorf("unknown unit in %q", value)
	}
}

// SplitList splits a comma or whitespace separated flag value, dropping
// empty items.
func SplitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == ';'
	})
}

// ParseConcentrations applies ParseConcentration to every item of a list.
func ParseConcentrations(s string) ([]float64, error) {
	items := SplitList(s)
	out := make([]float64, 0, len(items))
	for _, it := range items {
		v, err := ParseConcentration(it)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
