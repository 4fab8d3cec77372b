package utils

import (
	"strconv"
	"time"
)

// Transfer converts a jwt identity claim into a user id, returning -1 when it cannot.
func Transfer(value interface{}) int64 {
	switch v := value.(type) {
	case int64:
		return v
	case float64:
		return int64(v)
	case string:
		if intValue, err := strconv.ParseInt(v, 10, 64); err == nil {
			return intValue
		}
	}
	return -1
}

func ConvertStringToInt64(v string) (int64, error) {
	if res, err := strconv.ParseInt(v, 10, 64); err != nil {
		return -1, err
	} else {
		return res, nil
	}
}

// ConvertMillisToTime turns a unix-millis cursor into a time, zero for non-positive input.
func ConvertMillisToTime(ms int64) time.Time {
	if ms <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}
