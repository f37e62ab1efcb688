package domain

// CoalesceStr returns the first non-empty string from vals.
func CoalesceStr(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// StrPtr returns a pointer to s.
func StrPtr(s string) *string {
	return &s
}

func IntPtr(i int) *int {
	return &i
}
