package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "inventory"

var (
	HistoryEntries     *prometheus.CounterVec
	EquipmentMutations *prometheus.CounterVec
	ReportExports      *prometheus.CounterVec
	DashboardCache     *prometheus.CounterVec
	HTTPRequestLatency *prometheus.HistogramVec
	ActivityClients    prometheus.Gauge
)

func init() {
	HistoryEntries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_entries_total",
			Help:      "Записи журнала изменений, добавленные в хранилище",
		},
		[]string{"change_type"},
	)
	prometheus.MustRegister(HistoryEntries)

	EquipmentMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "equipment_mutations_total",
			Help:      "Успешные изменения оборудования",
		},
		[]string{"operation"}, // create, update, status, delete, sample
	)
	prometheus.MustRegister(EquipmentMutations)

	ReportExports = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_exports_total",
			Help:      "Выгрузки отчета по формату",
		},
		[]string{"format"},
	)
	prometheus.MustRegister(ReportExports)

	DashboardCache = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dashboard_cache_total",
			Help:      "Обращения к кешу дашборда",
		},
		[]string{"result"}, // hit, miss, error
	)
	prometheus.MustRegister(DashboardCache)

	HTTPRequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Длительность обработки HTTP-запросов",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
	prometheus.MustRegister(HTTPRequestLatency)

	ActivityClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "activity_feed_clients",
		Help:      "Открытые WebSocket-подключения ленты активности",
	})
	prometheus.MustRegister(ActivityClients)
}
