package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gmviana11/fornecedor-conecta/internal/models"
	"github.com/gmviana11/fornecedor-conecta/internal/seed"
)

func supplierIDs(items []models.Supplier) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		out = append(out, s.ID)
	}
	return out
}

func TestFilterByCategoryIsExact(t *testing.T) {
	all := seed.Suppliers()

	got := FilterSuppliers(all, SupplierFilter{Category: "Equipamentos de Cozinha"})
	assert.Equal(t, []string{"1"}, supplierIDs(got))

	assert.Empty(t, FilterSuppliers(all, SupplierFilter{Category: "equipamentos de cozinha"}))
	assert.Empty(t, FilterSuppliers(all, SupplierFilter{Category: "Equipamentos"}))
}

func TestFilterByQueryIsCaseInsensitive(t *testing.T) {
	all := seed.Suppliers()

	assert.Equal(t, []string{"3"}, supplierIDs(FilterSuppliers(all, SupplierFilter{Query: "techsolutions"})))
	assert.ElementsMatch(t, []string{"1", "3", "5"}, supplierIDs(FilterSuppliers(all, SupplierFilter{Query: "EQUIPAMENTOS"})))

	all[1].Tags = []string{"Cadeiras Gamer"}
	assert.Contains(t, supplierIDs(FilterSuppliers(all, SupplierFilter{Query: "gamer"})), "2")
}

func TestFilterByStatusAndOrder(t *testing.T) {
	got := FilterSuppliers(seed.Suppliers(), SupplierFilter{Statuses: []models.SupplierStatus{models.SupplierStatusApproved}})
	assert.Equal(t, []string{"3", "1"}, supplierIDs(got), "newest first")

	all := FilterSuppliers(seed.Suppliers(), SupplierFilter{})
	assert.Equal(t, []string{"2", "3", "1", "4", "5"}, supplierIDs(all))
}

func TestCategories(t *testing.T) {
	cats := Categories(seed.Suppliers())
	assert.Len(t, cats, 5)
	assert.Equal(t, "Equipamentos de Cozinha", cats[0])
}
