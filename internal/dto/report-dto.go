package dto

type StatusBucketDTO struct {
	Status     string  `json:"status"`
	Label      string  `json:"label"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type LocationBucketDTO struct {
	Location   string  `json:"location"`
	Count      int     `json:"count"`
	TotalValue float64 `json:"totalValue"`
}

// ReportSummaryDTO - сводка по отфильтрованному набору оборудования.
type ReportSummaryDTO struct {
	Count        int                 `json:"count"`
	TotalCount   int                 `json:"totalCount"`
	ShareOfTotal float64             `json:"shareOfTotal"`
	TotalValue   float64             `json:"totalValue"`
	AverageValue float64             `json:"averageValue"`
	ByStatus     []StatusBucketDTO   `json:"byStatus"`
	ByLocation   []LocationBucketDTO `json:"byLocation"`
	Locations    []string            `json:"locations"`
	GeneratedAt  string              `json:"generatedAt"`
}
