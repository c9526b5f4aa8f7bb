package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminStats(t *testing.T) {
	f := newFixture(t)
	stats := f.statsSvc.Admin()

	assert.Equal(t, SupplierCounts{Total: 5, Pending: 1, Approved: 2, Rejected: 1, Hidden: 1}, stats.Suppliers)
	assert.Equal(t, RequestCounts{Total: 3, Pending: 1, Responded: 1, Completed: 1}, stats.Requests)
	assert.Equal(t, 40, stats.ApprovalRate)
	assert.Equal(t, 33, stats.CompletionRate)

	require.Len(t, stats.TopCategories, 5)
	assert.Equal(t, CategoryCount{Category: "Equipamentos de Cozinha", Count: 1}, stats.TopCategories[0])

	assert.Equal(t, []string{"2", "3", "1", "4", "5"}, supplierIDs(stats.RecentSuppliers))

	var commentIDs []string
	for _, c := range stats.RecentComments {
		commentIDs = append(commentIDs, c.ID)
	}
	assert.Equal(t, []string{"c4", "c2", "c1", "c3"}, commentIDs)
	assert.Equal(t, "Clean Master Produtos", stats.RecentComments[0].SupplierName)

	require.Len(t, stats.TopSuppliers, 2)
	assert.Equal(t, SupplierPerformance{
		SupplierID: "3", Name: "TechSolutions Franquias", RequestCount: 1, CompletedCount: 1, AverageRating: 5,
	}, stats.TopSuppliers[0])
	assert.Equal(t, "1", stats.TopSuppliers[1].SupplierID)
	assert.Equal(t, 2, stats.TopSuppliers[1].RequestCount)

	assert.Empty(t, stats.Alerts)
}

func TestAdminAlerts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.suppliers.Reject(ctx, "1")
	require.NoError(t, err)

	alerts := f.statsSvc.Alerts()
	require.Len(t, alerts, 1)
	assert.Equal(t, AlertError, alerts[0].Level)
	assert.Equal(t, "analyze", alerts[0].Action)

	for i := 0; i < 3; i++ {
		_, err := f.supplierSvc.Register(ctx, validRegistration())
		require.NoError(t, err)
	}
	// 4 of 8 suppliers without comments is not more than half
	assert.Len(t, f.statsSvc.Alerts(), 1)

	_, err = f.supplierSvc.Register(ctx, validRegistration())
	require.NoError(t, err)
	alerts = f.statsSvc.Alerts()
	require.Len(t, alerts, 2)
	assert.Equal(t, AlertInfo, alerts[1].Level)
}

func TestSupplierStats(t *testing.T) {
	f := newFixture(t)

	tech := f.statsSvc.Supplier("3")
	assert.Equal(t, RequestCounts{Total: 1, Completed: 1}, tech.Requests)
	assert.Equal(t, 5.0, tech.AverageRating)
	assert.Equal(t, 1, tech.RatingCount)
	assert.Equal(t, 1, tech.ClientCount)
	assert.Equal(t, 0, tech.ActiveClients)

	silva := f.statsSvc.Supplier("1")
	assert.Equal(t, RequestCounts{Total: 2, Pending: 1, Responded: 1}, silva.Requests)
	assert.Equal(t, 0.0, silva.AverageRating)
	assert.Equal(t, 1, silva.ActiveClients)
}

func TestUserStats(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	maria := f.statsSvc.User("5")
	assert.Equal(t, 1, maria.RatingsGiven)
	assert.Equal(t, 5.0, maria.AverageGiven)
	assert.Equal(t, 0, maria.AwaitingRating)

	joao := f.user(t, "4")
	_, err := f.requestSvc.Complete(ctx, joao, "1")
	require.NoError(t, err)

	stats := f.statsSvc.User("4")
	assert.Equal(t, RequestCounts{Total: 2, Pending: 1, Completed: 1}, stats.Requests)
	assert.Equal(t, 1, stats.AwaitingRating)
	assert.Equal(t, 1, stats.SupplierCount)
	assert.Equal(t, 0, stats.RatingsGiven)
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 0, percent(3, 0))
	assert.Equal(t, 67, percent(2, 3))
	assert.Equal(t, 100, percent(4, 4))
}
