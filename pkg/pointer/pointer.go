package pointer

import "time"

// String returns a pointer to the provided string value
func String(value string) *string {
	return &value
}

// StringOrDefault returns the pointer if not nil, otherwise the default value
func StringOrDefault(value *string, defaultValue string) *string {
	if value != nil {
		return value
	}
	return &defaultValue
}

// StringIfValid returns a pointer to the value if it's valid, otherwise nil
func StringIfValid(valid bool, value string) *string {
	if valid {
		return &value
	}
	return nil
}

// StringCopy returns a pointer that's a copy of the provided value
func StringCopy(value *string) *string {
	if value == nil {
		return nil
	}

	return String(*value)
}

// Int64 returns a pointer to the provided int64 value
func Int64(value int64) *int64 {
	return &value
}

// Int64OrDefault returns the pointer if not nil, otherwise the default value
func Int64OrDefault(value *int64, defaultValue int64) *int64 {
	if value != nil {
		return value
	}
	return &defaultValue
}

// Int64Copy returns a pointer that's a copy of the provided value
func Int64Copy(value *int64) *int64 {
	if value == nil {
		return nil
	}

	return Int64(*value)
}

// Uint64 returns a pointer to the provided uint64 value
func Uint64(value uint64) *uint64 {
	return &value
}

// Uint64OrDefault returns the pointer if not nil, otherwise the default value
func Uint64OrDefault(value *uint64, defaultValue uint64) *uint64 {
	if value != nil {
		return value
	}
	return &defaultValue
}

// Time returns a pointer to the provided time value
func Time(value time.Time) *time.Time {
	return &value
}

// TimeOrDefault returns the pointer if not nil, otherwise the default value
func TimeOrDefault(value *time.Time, defaultValue time.Time) *time.Time {
	if value != nil {
		return value
	}
	return &defaultValue
}

// TimeCopy returns a pointer that's a copy of the provided value
func TimeCopy(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}

	return Time(*value)
}
