package seeders

import (
	"time"

	"inventory-system/internal/entities"
)

func specs(s string) *string { return &s }

// equipmentData - демонстрационный набор оборудования.
var equipmentData = []entities.Equipment{
	{
		AssetNumber:     "COMP-001",
		Description:     "Notebook Dell XPS",
		Brand:           "Dell",
		Model:           "XPS 15",
		Specs:           specs("Intel i7, 16GB RAM, 512GB SSD"),
		Status:          entities.StatusActive,
		Location:        "Escritório Principal",
		Responsible:     "Maria Silva",
		AcquisitionDate: entities.NewDate(2023, time.January, 15),
		Value:           8500,
	},
	{
		AssetNumber:     "COMP-002",
		Description:     "Desktop HP",
		Brand:           "HP",
		Model:           "EliteDesk 800",
		Specs:           specs("Intel i5, 8GB RAM, 256GB SSD"),
		Status:          entities.StatusActive,
		Location:        "Escritório Principal",
		Responsible:     "João Santos",
		AcquisitionDate: entities.NewDate(2022, time.November, 5),
		Value:           4200,
	},
	{
		AssetNumber:     "MON-001",
		Description:     "Monitor LG Ultrawide",
		Brand:           "LG",
		Model:           "34WL500",
		Specs:           specs("34 polegadas, 2560x1080"),
		Status:          entities.StatusActive,
		Location:        "Sala de Reuniões",
		Responsible:     "Departamento de TI",
		AcquisitionDate: entities.NewDate(2023, time.March, 20),
		Value:           2800,
	},
	{
		AssetNumber:     "PROJ-001",
		Description:     "Projetor Epson",
		Brand:           "Epson",
		Model:           "PowerLite S41+",
		Specs:           specs("3300 lumens, SVGA"),
		Status:          entities.StatusMaintenance,
		Location:        "Sala de Conferências",
		Responsible:     "Departamento de TI",
		AcquisitionDate: entities.NewDate(2022, time.August, 12),
		Value:           3200,
	},
	{
		AssetNumber:     "PRINT-001",
		Description:     "Impressora Multifuncional",
		Brand:           "Brother",
		Model:           "MFC-L3750CDW",
		Specs:           specs("Laser colorida, Wi-Fi"),
		Status:          entities.StatusActive,
		Location:        "Departamento Administrativo",
		Responsible:     "Ana Oliveira",
		AcquisitionDate: entities.NewDate(2023, time.February, 8),
		Value:           2500,
	},
}

// SampleEquipment возвращает копию демонстрационного набора.
func SampleEquipment() []entities.Equipment {
	out := make([]entities.Equipment, len(equipmentData))
	copy(out, equipmentData)
	for i := range out {
		if out[i].Specs != nil {
			out[i].Specs = specs(*out[i].Specs)
		}
	}
	return out
}
