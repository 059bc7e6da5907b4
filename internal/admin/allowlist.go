// Package admin holds the administrator allow-list guarding privileged
// gateway operations (cache clear).
package admin

import "strings"

// AllowList decides which caller emails may perform admin operations.
// When no emails are configured the list is permissive: the source
// behavior was implicit ("open in development"), so the default is made
// explicit here and can be flipped off by configuring the list.
type AllowList struct {
	emails map[string]bool
}

// NewAllowList builds an allow-list from configured admin emails. Empty
// and whitespace-only entries are ignored.
func NewAllowList(emails []string) *AllowList {
	m := make(map[string]bool)
	for _, e := range emails {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			m[e] = true
		}
	}
	return &AllowList{emails: m}
}

// Allowed reports whether the caller may perform admin operations.
func (a *AllowList) Allowed(email string) bool {
	if len(a.emails) == 0 {
		return true
	}
	return a.emails[strings.ToLower(strings.TrimSpace(email))]
}

// Configured reports whether any admin emails were set.
func (a *AllowList) Configured() bool {
	return len(a.emails) > 0
}
