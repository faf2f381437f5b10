package dto

type DashboardStatsDTO struct {
	TotalEquipment int               `json:"totalEquipment"`
	TotalValue     float64           `json:"totalValue"`
	AverageValue   float64           `json:"averageValue"`
	ByStatus       []StatusBucketDTO `json:"byStatus"`
	LastActivity   []HistoryEntryDTO `json:"lastActivity"`
}
