package admin

import "testing"

func TestAllowedWithConfiguredList(t *testing.T) {
	al := NewAllowList([]string{"Admin@Example.com", " ops@example.com "})

	if !al.Configured() {
		t.Fatal("list should be configured")
	}
	if !al.Allowed("admin@example.com") {
		t.Error("listed email (case-insensitive) should be allowed")
	}
	if !al.Allowed("ops@example.com") {
		t.Error("trimmed listed email should be allowed")
	}
	if al.Allowed("user@example.com") {
		t.Error("unlisted email should be denied")
	}
}

func TestPermissiveWhenUnconfigured(t *testing.T) {
	for _, emails := range [][]string{nil, {}, {"", "   "}} {
		al := NewAllowList(emails)
		if al.Configured() {
			t.Errorf("list %v should not count as configured", emails)
		}
		if !al.Allowed("anyone@example.com") {
			t.Errorf("empty list %v should be permissive", emails)
		}
	}
}
