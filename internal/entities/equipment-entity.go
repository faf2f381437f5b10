package entities

import (
	"math"
	"strings"
	"time"
)

// Status - состояние единицы оборудования.
type Status string

const (
	StatusActive         Status = "active"
	StatusMaintenance    Status = "maintenance"
	StatusDecommissioned Status = "decommissioned"
)

// Старые метки (pt-BR) из первой версии инвентаря принимаются как синонимы.
var statusAliases = map[string]Status{
	"active":         StatusActive,
	"ativo":          StatusActive,
	"maintenance":    StatusMaintenance,
	"manutenção":     StatusMaintenance,
	"manutencao":     StatusMaintenance,
	"em manutenção":  StatusMaintenance,
	"em manutencao":  StatusMaintenance,
	"decommissioned": StatusDecommissioned,
	"desativado":     StatusDecommissioned,
	"inactive":       StatusDecommissioned,
}

var statusLabels = map[Status]string{
	StatusActive:         "Ativo",
	StatusMaintenance:    "Em Manutenção",
	StatusDecommissioned: "Desativado",
}

func AllStatuses() []Status {
	return []Status{StatusActive, StatusMaintenance, StatusDecommissioned}
}

// ParseStatus приводит строку (в том числе синоним) к каноническому статусу.
func ParseStatus(s string) (Status, bool) {
	st, ok := statusAliases[strings.ToLower(strings.TrimSpace(s))]
	return st, ok
}

func (s Status) IsValid() bool {
	_, ok := statusLabels[s]
	return ok
}

func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

func (s Status) String() string { return string(s) }

// UnmarshalText нормализует синонимы; неизвестное значение сохраняется как есть,
// чтобы его отклонил валидатор с понятным сообщением.
func (s *Status) UnmarshalText(text []byte) error {
	if st, ok := ParseStatus(string(text)); ok {
		*s = st
		return nil
	}
	*s = Status(text)
	return nil
}

type Equipment struct {
	ID              string  `json:"id" db:"id"`
	AssetNumber     string  `json:"assetNumber" db:"asset_number"`
	Description     string  `json:"description" db:"description"`
	Brand           string  `json:"brand" db:"brand"`
	Model           string  `json:"model" db:"model"`
	Specs           *string `json:"specs,omitempty" db:"specs"`
	Status          Status  `json:"status" db:"status"`
	Location        string  `json:"location" db:"location"`
	Responsible     string  `json:"responsible" db:"responsible"`
	AcquisitionDate Date    `json:"acquisitionDate" db:"acquisition_date"`
	Value           float64 `json:"value" db:"value"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Label - короткая подпись записи для журнала (инвентарный номер).
func (e Equipment) Label() string {
	return e.AssetNumber
}

// RoundMoney округляет стоимость до копеек, как ее хранит колонка NUMERIC(14,2).
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

// SpecsOrEmpty - характеристики без nil, для экспорта.
func (e Equipment) SpecsOrEmpty() string {
	if e.Specs == nil {
		return ""
	}
	return *e.Specs
}
