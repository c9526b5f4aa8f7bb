package service

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/gmviana11/fornecedor-conecta/internal/models"
	"github.com/gmviana11/fornecedor-conecta/internal/repository"
)

const (
	recentSuppliersLimit = 5
	recentCommentsLimit  = 10
	topCategoriesLimit   = 5
	topSuppliersLimit    = 5

	pendingSuppliersAlertThreshold = 5
	pendingRequestsAlertThreshold  = 10
)

type SupplierCounts struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
	Hidden   int `json:"hidden"`
}

type RequestCounts struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Responded int `json:"responded"`
	Accepted  int `json:"accepted"`
	Rejected  int `json:"rejected"`
	Completed int `json:"completed"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type CommentActivity struct {
	models.Comment
	SupplierID   string `json:"supplierId"`
	SupplierName string `json:"supplierName"`
}

type SupplierPerformance struct {
	SupplierID     string  `json:"supplierId"`
	Name           string  `json:"name"`
	RequestCount   int     `json:"requestCount"`
	CompletedCount int     `json:"completedCount"`
	AverageRating  float64 `json:"averageRating"`
}

type AlertLevel string

const (
	AlertInfo    AlertLevel = "info"
	AlertWarning AlertLevel = "warning"
	AlertError   AlertLevel = "error"
)

type Alert struct {
	Level   AlertLevel `json:"level"`
	Message string     `json:"message"`
	Action  string     `json:"action"`
}

type AdminStats struct {
	Suppliers       SupplierCounts        `json:"suppliers"`
	Requests        RequestCounts         `json:"requests"`
	ApprovalRate    int                   `json:"approvalRate"`
	CompletionRate  int                   `json:"completionRate"`
	TopCategories   []CategoryCount       `json:"topCategories"`
	RecentSuppliers []models.Supplier     `json:"recentSuppliers"`
	RecentComments  []CommentActivity     `json:"recentComments"`
	TopSuppliers    []SupplierPerformance `json:"topSuppliers"`
	Alerts          []Alert               `json:"alerts"`
}

type SupplierStats struct {
	Requests      RequestCounts `json:"requests"`
	AverageRating float64       `json:"averageRating"`
	RatingCount   int           `json:"ratingCount"`
	ClientCount   int           `json:"clientCount"`
	ActiveClients int           `json:"activeClients"`
}

type UserStats struct {
	Requests       RequestCounts `json:"requests"`
	RatingsGiven   int           `json:"ratingsGiven"`
	AverageGiven   float64       `json:"averageGiven"`
	AwaitingRating int           `json:"awaitingRating"`
	SupplierCount  int           `json:"supplierCount"`
}

// StatsService derives the dashboard figures from the repositories. Nothing
// here is stored.
type StatsService struct {
	suppliers *repository.SupplierRepository
	requests  *repository.ServiceRequestRepository
}

func NewStatsService(suppliers *repository.SupplierRepository, requests *repository.ServiceRequestRepository) *StatsService {
	return &StatsService{suppliers: suppliers, requests: requests}
}

func (s *StatsService) Admin() AdminStats {
	suppliers := s.suppliers.List()
	requests := s.requests.List()

	stats := AdminStats{
		Suppliers:       countSuppliers(suppliers),
		Requests:        countRequests(requests),
		TopCategories:   topCategories(suppliers, topCategoriesLimit),
		RecentSuppliers: newestSuppliers(suppliers, recentSuppliersLimit),
		RecentComments:  recentComments(suppliers, recentCommentsLimit),
		TopSuppliers:    topSuppliers(suppliers, requests, topSuppliersLimit),
	}
	stats.ApprovalRate = percent(stats.Suppliers.Approved, stats.Suppliers.Total)
	stats.CompletionRate = percent(stats.Requests.Completed, stats.Requests.Total)
	stats.Alerts = alerts(suppliers, stats.Suppliers, stats.Requests)
	return stats
}

// Alerts returns only the admin alerts.
func (s *StatsService) Alerts() []Alert {
	suppliers := s.suppliers.List()
	return alerts(suppliers, countSuppliers(suppliers), countRequests(s.requests.List()))
}

func (s *StatsService) Supplier(supplierID string) SupplierStats {
	requests := s.requests.ListBySupplier(supplierID)
	stats := SupplierStats{Requests: countRequests(requests)}
	stats.AverageRating, stats.RatingCount = averageRating(requests)

	clients := map[string]struct{}{}
	active := map[string]struct{}{}
	for _, r := range requests {
		clients[r.UserID] = struct{}{}
		if r.Status == models.ServiceStatusPending || r.Status == models.ServiceStatusResponded {
			active[r.UserID] = struct{}{}
		}
	}
	stats.ClientCount = len(clients)
	stats.ActiveClients = len(active)
	return stats
}

func (s *StatsService) User(userID string) UserStats {
	requests := s.requests.ListByUser(userID)
	stats := UserStats{Requests: countRequests(requests)}
	stats.AverageGiven, stats.RatingsGiven = averageRating(requests)

	suppliers := map[string]struct{}{}
	for _, r := range requests {
		suppliers[r.SupplierID] = struct{}{}
		if r.Status == models.ServiceStatusCompleted && r.Rating == nil {
			stats.AwaitingRating++
		}
	}
	stats.SupplierCount = len(suppliers)
	return stats
}

func countSuppliers(items []models.Supplier) SupplierCounts {
	c := SupplierCounts{Total: len(items)}
	for _, s := range items {
		switch s.Status {
		case models.SupplierStatusPending:
			c.Pending++
		case models.SupplierStatusApproved:
			c.Approved++
		case models.SupplierStatusRejected:
			c.Rejected++
		case models.SupplierStatusHidden:
			c.Hidden++
		}
	}
	return c
}

func countRequests(items []models.ServiceRequest) RequestCounts {
	c := RequestCounts{Total: len(items)}
	for _, r := range items {
		switch r.Status {
		case models.ServiceStatusPending:
			c.Pending++
		case models.ServiceStatusResponded:
			c.Responded++
		case models.ServiceStatusAccepted:
			c.Accepted++
		case models.ServiceStatusRejected:
			c.Rejected++
		case models.ServiceStatusCompleted:
			c.Completed++
		}
	}
	return c
}

func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

// averageRating is the mean of the rated requests, rounded to one decimal.
func averageRating(items []models.ServiceRequest) (float64, int) {
	sum, n := 0, 0
	for _, r := range items {
		if r.Rating != nil {
			sum += r.Rating.Stars
			n++
		}
	}
	if n == 0 {
		return 0, 0
	}
	return round1(float64(sum) / float64(n)), n
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func topCategories(items []models.Supplier, limit int) []CategoryCount {
	counts := map[string]int{}
	for _, s := range items {
		counts[s.Category]++
	}
	out := make([]CategoryCount, 0, len(counts))
	for category, n := range counts {
		out = append(out, CategoryCount{Category: category, Count: n})
	}
	slices.SortFunc(out, func(a, b CategoryCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Category, b.Category)
	})
	return out[:min(limit, len(out))]
}

func newestSuppliers(items []models.Supplier, limit int) []models.Supplier {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b models.Supplier) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out[:min(limit, len(out))]
}

func recentComments(items []models.Supplier, limit int) []CommentActivity {
	var out []CommentActivity
	for _, s := range items {
		for _, c := range s.Comments {
			out = append(out, CommentActivity{Comment: c, SupplierID: s.ID, SupplierName: s.Name})
		}
	}
	slices.SortStableFunc(out, func(a, b CommentActivity) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if out == nil {
		return []CommentActivity{}
	}
	return out[:min(limit, len(out))]
}

// topSuppliers ranks approved suppliers by completed requests. The average
// counts unrated completed requests as zero stars.
func topSuppliers(suppliers []models.Supplier, requests []models.ServiceRequest, limit int) []SupplierPerformance {
	out := []SupplierPerformance{}
	for _, s := range suppliers {
		if s.Status != models.SupplierStatusApproved {
			continue
		}
		p := SupplierPerformance{SupplierID: s.ID, Name: s.Name}
		stars := 0
		for _, r := range requests {
			if r.SupplierID != s.ID {
				continue
			}
			p.RequestCount++
			if r.Status == models.ServiceStatusCompleted {
				p.CompletedCount++
				if r.Rating != nil {
					stars += r.Rating.Stars
				}
			}
		}
		if p.CompletedCount > 0 {
			p.AverageRating = round1(float64(stars) / float64(p.CompletedCount))
		}
		out = append(out, p)
	}
	slices.SortStableFunc(out, func(a, b SupplierPerformance) int {
		return cmp.Compare(b.CompletedCount, a.CompletedCount)
	})
	return out[:min(limit, len(out))]
}

func alerts(suppliers []models.Supplier, sc SupplierCounts, rc RequestCounts) []Alert {
	out := []Alert{}
	if sc.Pending > pendingSuppliersAlertThreshold {
		out = append(out, Alert{
			Level:   AlertWarning,
			Message: fmt.Sprintf("%d fornecedores pendentes de aprovação", sc.Pending),
			Action:  "review",
		})
	}
	if sc.Rejected > sc.Approved {
		out = append(out, Alert{
			Level:   AlertError,
			Message: "Alto índice de rejeições de fornecedores",
			Action:  "analyze",
		})
	}
	uncommented := 0
	for _, s := range suppliers {
		if len(s.Comments) == 0 {
			uncommented++
		}
	}
	if float64(uncommented) > float64(sc.Total)*0.5 {
		out = append(out, Alert{
			Level:   AlertInfo,
			Message: "Muitos fornecedores sem avaliações/comentários",
			Action:  "review",
		})
	}
	if rc.Pending > pendingRequestsAlertThreshold {
		out = append(out, Alert{
			Level:   AlertWarning,
			Message: fmt.Sprintf("%d solicitações de serviço pendentes", rc.Pending),
			Action:  "monitor",
		})
	}
	return out
}
