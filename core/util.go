package core

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
)

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// Getwd tries to find the project root (the directory holding go.mod).
// go-test changes the working directory to the package being tested, so we walk up from there.
// Falls back to the current working directory when no root is found (ie: installed binaries).
func Getwd() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	currDir := wd
	for {
		if fi, err := os.Stat(filepath.Join(currDir, "go.mod")); err == nil && !fi.IsDir() {
			return currDir
		}
		newDir := filepath.Dir(currDir)
		if newDir == currDir {
			return wd
		}
		currDir = newDir
	}
}

// Round rounds f half away from zero to `places` decimal places.
func Round(f float64, places int32) float64 {
	r, _ := decimal.NewFromFloat(f).Round(places).Float64()
	return r
}

// Percent returns part/total*100 rounded to 2 decimal places, 0 when total is 0.
func Percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	r, _ := decimal.NewFromInt(int64(part)).
		Mul(decimal.NewFromInt(100)).
		DivRound(decimal.NewFromInt(int64(total)), 2).
		Float64()
	return r
}
