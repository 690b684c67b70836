package domain

import "strings"

// DedupKey identifies a record for duplicate detection.
type DedupKey struct {
	Name    string
	Company string
}

func NewDedupKey(name, company string) DedupKey {
	return DedupKey{Name: strings.TrimSpace(name), Company: strings.TrimSpace(company)}
}

// Matches reports whether a remote record has exactly the same trimmed name and company.
func (k DedupKey) Matches(r RemoteRecord) bool {
	return strings.TrimSpace(r.Name) == k.Name && strings.TrimSpace(r.Company) == k.Company
}
