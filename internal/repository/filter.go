package repository

import (
	"slices"
	"strings"

	"github.com/gmviana11/fornecedor-conecta/internal/models"
)

// SupplierFilter narrows a supplier listing. Zero values match everything.
type SupplierFilter struct {
	Statuses []models.SupplierStatus
	// Category must equal the supplier's category exactly.
	Category string
	// Query is matched case-insensitively against name, description and tags.
	Query string
}

func FilterSuppliers(items []models.Supplier, f SupplierFilter) []models.Supplier {
	query := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]models.Supplier, 0, len(items))
	for _, s := range items {
		if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, s.Status) {
			continue
		}
		if f.Category != "" && s.Category != f.Category {
			continue
		}
		if query != "" && !MatchesQuery(s, query) {
			continue
		}
		out = append(out, s)
	}
	slices.SortStableFunc(out, func(a, b models.Supplier) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out
}

// MatchesQuery expects query to be lower-cased already.
func MatchesQuery(s models.Supplier, query string) bool {
	if strings.Contains(strings.ToLower(s.Name), query) ||
		strings.Contains(strings.ToLower(s.Description), query) {
		return true
	}
	for _, tag := range s.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

// Categories returns the distinct categories of items in first-seen order.
func Categories(items []models.Supplier) []string {
	seen := make(map[string]struct{}, len(items))
	var out []string
	for _, s := range items {
		if _, ok := seen[s.Category]; ok {
			continue
		}
		seen[s.Category] = struct{}{}
		out = append(out, s.Category)
	}
	return out
}
