package payments

import "time"

func String(s string) *string {
	return &s
}

func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func Int(i int) *int {
	return &i
}

func IntValue(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}

func Int64(i int64) *int64 {
	return &i
}

func Int64Value(i *int64) int64 {
	if i == nil {
		return 0
	}
	return *i
}

func Bool(b bool) *bool {
	return &b
}

func BoolValue(b *bool) bool {
	if b == nil {
		return false
	}
	return *b
}

// UnixTime converts the epoch seconds used by the API for `created` timestamps.
func UnixTime(secs *int64) time.Time {
	if secs == nil {
		return time.Time{}
	}
	return time.Unix(*secs, 0).UTC()
}

func StringMapValue(m map[string]*string) map[string]string {
	ret := make(map[string]string, len(m))
	for k, v := range m {
		ret[k] = StringValue(v)
	}
	return ret
}
