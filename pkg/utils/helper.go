package utils

import (
	"math"
	"strconv"
)

// ParseInt converts string to int with default value
func ParseInt(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}

	result, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	if result < 1 {
		return defaultValue
	}

	return result
}

// MaxMoney is the largest amount a NUMERIC(12,2) column holds.
const MaxMoney = 9999999999.99

// RoundMoney rounds an amount to whole cents.
func RoundMoney(amount float64) float64 {
	return math.Round(amount*100) / 100
}
