// Package analytics derives period-filtered breakdowns from an
// already-fetched purchase list. Every function here is pure: it takes the
// purchases and the reference instant explicitly and performs no further
// storage access, so each breakdown can be recomputed whenever the period
// selection or the underlying list changes.
package analytics

import (
	"sort"
	"time"

	"mon-pannier/internal/domain"
)

// Period selects purchases within a relative or calendar-aligned time window
type Period string

const (
	PeriodAll        Period = "all"
	PeriodLast7Days  Period = "7"
	PeriodLast30Days Period = "30"
	PeriodMonth      Period = "month"
	PeriodYear       Period = "year"
)

// UncategorizedLabel is the sentinel bucket for purchases whose product
// has no category.
const UncategorizedLabel = "Sans catégorie"

const (
	topProductLimit    = 5
	dailySeriesLimit   = 10
	monthlySeriesLimit = 6
)

// ParsePeriod validates a period selector coming from the outside
func ParsePeriod(s string) (Period, bool) {
	switch Period(s) {
	case PeriodAll, PeriodLast7Days, PeriodLast30Days, PeriodMonth, PeriodYear:
		return Period(s), true
	case "":
		return PeriodAll, true
	}
	return "", false
}

// Cutoff computes the inclusive lower bound of the period relative to now.
// The second return value is false for the all-time period, which has no bound.
// Rolling windows end at now; calendar periods start at the beginning of the
// current month or year in now's location.
func (p Period) Cutoff(now time.Time) (time.Time, bool) {
	switch p {
	case PeriodLast7Days:
		return now.Add(-7 * 24 * time.Hour), true
	case PeriodLast30Days:
		return now.Add(-30 * 24 * time.Hour), true
	case PeriodMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), true
	case PeriodYear:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location()), true
	}
	return time.Time{}, false
}

// FilterByPeriod retains purchases dated on or after the period's cutoff
func FilterByPeriod(purchases []*domain.Purchase, period Period, now time.Time) []*domain.Purchase {
	cutoff, bounded := period.Cutoff(now)
	if !bounded {
		return purchases
	}

	filtered := []*domain.Purchase{}
	for _, p := range purchases {
		if !p.PurchaseDate.Before(cutoff) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// ProductStat accumulates occurrences and spend for one product
type ProductStat struct {
	Product     string  `json:"product"`
	Category    string  `json:"category,omitempty"`
	Count       int     `json:"count"`
	TotalAmount float64 `json:"total_amount"`
}

// TopProducts ranks products by purchase count and keeps the top 5.
// Equal counts are broken by product name ascending, matching the
// server-side top-product query.
func TopProducts(purchases []*domain.Purchase) []ProductStat {
	byProduct := map[string]*ProductStat{}
	for _, p := range purchases {
		name := productName(p)
		stat, ok := byProduct[name]
		if !ok {
			stat = &ProductStat{Product: name, Category: categoryName(p)}
			byProduct[name] = stat
		}
		stat.Count++
		stat.TotalAmount += p.Price
	}

	stats := make([]ProductStat, 0, len(byProduct))
	for _, stat := range byProduct {
		stats = append(stats, *stat)
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Product < stats[j].Product
	})

	if len(stats) > topProductLimit {
		stats = stats[:topProductLimit]
	}
	return stats
}

// CategoryStat accumulates occurrences and spend for one category bucket
type CategoryStat struct {
	Name        string  `json:"name"`
	Count       int     `json:"count"`
	TotalAmount float64 `json:"total_amount"`
	Percentage  float64 `json:"percentage"`
}

// CategoryBreakdown groups purchases by category name, with purchases of
// uncategorized products falling into a sentinel bucket. Each bucket reports
// its percentage share of the filtered purchase count.
func CategoryBreakdown(purchases []*domain.Purchase) []CategoryStat {
	byCategory := map[string]*CategoryStat{}
	for _, p := range purchases {
		name := categoryName(p)
		if name == "" {
			name = UncategorizedLabel
		}
		stat, ok := byCategory[name]
		if !ok {
			stat = &CategoryStat{Name: name}
			byCategory[name] = stat
		}
		stat.Count++
		stat.TotalAmount += p.Price
	}

	stats := make([]CategoryStat, 0, len(byCategory))
	for _, stat := range byCategory {
		if len(purchases) > 0 {
			stat.Percentage = float64(stat.Count) / float64(len(purchases)) * 100
		}
		stats = append(stats, *stat)
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Name < stats[j].Name
	})

	return stats
}

// TimeBucket is one day's or one month's total spend
type TimeBucket struct {
	Key    string  `json:"key"`
	Amount float64 `json:"amount"`
}

// DailyExpenses sums spend per calendar day, most recent first, and keeps
// the 10 most recent days with at least one purchase. Days without
// purchases are omitted, not zero-filled.
func DailyExpenses(purchases []*domain.Purchase) []TimeBucket {
	return bucketByKey(purchases, "2006-01-02", dailySeriesLimit)
}

// MonthlyExpenses sums spend per calendar month, most recent first, and
// keeps the 6 most recent months with activity.
func MonthlyExpenses(purchases []*domain.Purchase) []TimeBucket {
	return bucketByKey(purchases, "2006-01", monthlySeriesLimit)
}

func bucketByKey(purchases []*domain.Purchase, layout string, limit int) []TimeBucket {
	totals := map[string]float64{}
	for _, p := range purchases {
		totals[p.PurchaseDate.Format(layout)] += p.Price
	}

	buckets := make([]TimeBucket, 0, len(totals))
	for key, amount := range totals {
		buckets = append(buckets, TimeBucket{Key: key, Amount: amount})
	}

	// Keys are zero-padded, so lexicographic order is chronological
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Key > buckets[j].Key
	})

	if len(buckets) > limit {
		buckets = buckets[:limit]
	}
	return buckets
}

// Distribution holds single-purchase and per-day spread statistics
type Distribution struct {
	MaxPrice         float64 `json:"max_price"`
	MinPrice         float64 `json:"min_price"`
	ActiveDays       int     `json:"active_days"`
	AveragePerDay    float64 `json:"average_per_day"`
	DistinctProducts int     `json:"distinct_products"`
}

// ComputeDistribution derives max/min single-purchase price, the number of
// distinct days with at least one purchase, the mean spend per active day
// and the number of distinct products. Zero-valued for an empty list.
func ComputeDistribution(purchases []*domain.Purchase) Distribution {
	if len(purchases) == 0 {
		return Distribution{}
	}

	days := map[string]struct{}{}
	products := map[string]struct{}{}
	dist := Distribution{MaxPrice: purchases[0].Price, MinPrice: purchases[0].Price}
	total := 0.0

	for _, p := range purchases {
		if p.Price > dist.MaxPrice {
			dist.MaxPrice = p.Price
		}
		if p.Price < dist.MinPrice {
			dist.MinPrice = p.Price
		}
		total += p.Price
		days[p.PurchaseDate.Format("2006-01-02")] = struct{}{}
		products[productName(p)] = struct{}{}
	}

	dist.ActiveDays = len(days)
	dist.DistinctProducts = len(products)
	dist.AveragePerDay = total / float64(len(days))
	return dist
}

// Report bundles every breakdown for one period selection
type Report struct {
	Period        Period         `json:"period"`
	PurchaseCount int            `json:"purchase_count"`
	TotalAmount   float64        `json:"total_amount"`
	AverageAmount float64        `json:"average_amount"`
	TopProducts   []ProductStat  `json:"top_products"`
	Categories    []CategoryStat `json:"categories"`
	Daily         []TimeBucket   `json:"daily"`
	Monthly       []TimeBucket   `json:"monthly"`
	Distribution  Distribution   `json:"distribution"`
}

// BuildReport filters the purchase list by period and computes every
// breakdown in one pass over the filtered list. An empty or fully
// filtered-out list yields a well-formed zero report, never an error.
func BuildReport(purchases []*domain.Purchase, period Period, now time.Time) *Report {
	filtered := FilterByPeriod(purchases, period, now)

	report := &Report{
		Period:        period,
		PurchaseCount: len(filtered),
		TopProducts:   TopProducts(filtered),
		Categories:    CategoryBreakdown(filtered),
		Daily:         DailyExpenses(filtered),
		Monthly:       MonthlyExpenses(filtered),
		Distribution:  ComputeDistribution(filtered),
	}

	for _, p := range filtered {
		report.TotalAmount += p.Price
	}
	if len(filtered) > 0 {
		report.AverageAmount = report.TotalAmount / float64(len(filtered))
	}

	return report
}

func productName(p *domain.Purchase) string {
	if p.Product == nil {
		return ""
	}
	return p.Product.Name
}

func categoryName(p *domain.Purchase) string {
	if p.Product == nil || p.Product.Category == nil {
		return ""
	}
	return p.Product.Category.Name
}
