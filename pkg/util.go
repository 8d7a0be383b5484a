package dup

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

// ParseHumanSize parses sizes like "512", "64K", "1M", "1.5MB" into bytes
func ParseHumanSize(sizeStr string) (int, error) {
	if sizeStr == "" {
		return 0, fmt.Errorf("empty size string")
	}

	sizeStr = strings.ToUpper(strings.TrimSpace(sizeStr))

	var numPart string
	var suffix string
	for i, char := range sizeStr {
		if char >= '0' && char <= '9' || char == '.' {
			numPart += string(char)
		} else {
			suffix = strings.TrimSpace(sizeStr[i:])
			break
		}
	}

	if numPart == "" {
		return 0, fmt.Errorf("no numeric part in size string: %s", sizeStr)
	}

	num, err := strconv.ParseFloat(numPart, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid numeric part in size string %s: %w", sizeStr, err)
	}

	var multiplier int64
	switch suffix {
	case "", "B":
		multiplier = 1
	case "K", "KB", "KIB":
		multiplier = 1024
	case "M", "MB", "MIB":
		multiplier = 1024 * 1024
	case "G", "GB", "GIB":
		multiplier = 1024 * 1024 * 1024
	default:
		return 0, fmt.Errorf("unknown size suffix: %s", suffix)
	}

	result := int64(num * float64(multiplier))
	if result <= 0 {
		return 0, fmt.Errorf("size must be positive: %s", sizeStr)
	}
	if result > int64(^uint(0)>>1) {
		return 0, fmt.Errorf("size too large: %s", sizeStr)
	}

	return int(result), nil
}

// FormatHumanSize renders a byte count using the largest whole binary unit
func FormatHumanSize(size int) string {
	switch {
	case size >= 1024*1024*1024 && size%(1024*1024*1024) == 0:
		return fmt.Sprintf("%dG", size/(1024*1024*1024))
	case size >= 1024*1024 && size%(1024*1024) == 0:
		return fmt.Sprintf("%dM", size/(1024*1024))
	case size >= 1024 && size%1024 == 0:
		return fmt.Sprintf("%dK", size/1024)
	default:
		return strconv.Itoa(size)
	}
}

// mulAdd returns acc + a*b, reporting false if any step overflows uint64
func mulAdd(acc, a, b uint64) (uint64, bool) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, false
	}
	sum, carry := bits.Add64(acc, lo, 0)
	if carry != 0 {
		return 0, false
	}
	return sum, true
}
