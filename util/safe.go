package util

// SafeString returns empty string if null
func SafeString(input *string) string {
	if input == nil {
		return ""
	}
	return *input
}

// SafeInt returns 0 if null
func SafeInt(input *int) int {
	if input == nil {
		return 0
	}
	return *input
}

// SafeInt64 returns 0 if null
func SafeInt64(input *int64) int64 {
	if input == nil {
		return 0
	}
	return *input
}

// SafeFloat64 returns 0 if null
func SafeFloat64(input *float64) float64 {
	if input == nil {
		return 0
	}
	return *input
}

// RefString returns a reference to a string
func RefString(input string) *string {
	return &input
}

// RefInt returns a reference to an int
func RefInt(input int) *int {
	return &input
}

// RefInt64 returns a reference to an int64
func RefInt64(input int64) *int64 {
	return &input
}

// RefFloat64 returns a reference to a float64
func RefFloat64(input float64) *float64 {
	return &input
}
