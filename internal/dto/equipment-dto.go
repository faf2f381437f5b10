package dto

import (
	"fmt"
	"strings"

	"inventory-system/internal/entities"

	"github.com/aarondl/null/v8"
)

type CreateEquipmentDTO struct {
	AssetNumber     string          `json:"assetNumber"     validate:"required,not_blank,max=64"`
	Description     string          `json:"description"     validate:"required,not_blank,max=255"`
	Brand           string          `json:"brand"           validate:"required,not_blank,max=100"`
	Model           string          `json:"model"           validate:"required,not_blank,max=100"`
	Specs           *string         `json:"specs,omitempty" validate:"omitempty,max=2000"`
	Status          entities.Status `json:"status"          validate:"required,equipment_status"`
	Location        string          `json:"location"        validate:"required,not_blank,max=255"`
	Responsible     string          `json:"responsible"     validate:"required,not_blank,max=255"`
	AcquisitionDate string          `json:"acquisitionDate" validate:"required,calendar_date"`
	Value           float64         `json:"value"           validate:"gte=0"`
}

// ToEntity собирает запись без идентификатора и служебных дат.
func (d CreateEquipmentDTO) ToEntity() (entities.Equipment, error) {
	date, err := entities.ParseDate(d.AcquisitionDate)
	if err != nil {
		return entities.Equipment{}, err
	}
	var specs *string
	if d.Specs != nil && strings.TrimSpace(*d.Specs) != "" {
		s := *d.Specs
		specs = &s
	}
	return entities.Equipment{
		AssetNumber:     d.AssetNumber,
		Description:     d.Description,
		Brand:           d.Brand,
		Model:           d.Model,
		Specs:           specs,
		Status:          d.Status,
		Location:        d.Location,
		Responsible:     d.Responsible,
		AcquisitionDate: date,
		Value:           entities.RoundMoney(d.Value),
	}, nil
}

// UpdateEquipmentDTO - частичное обновление. Specs: отсутствует или null - не
// меняется, пустая строка - характеристики удаляются.
type UpdateEquipmentDTO struct {
	AssetNumber     *string          `json:"assetNumber,omitempty"     validate:"omitempty,not_blank,max=64"`
	Description     *string          `json:"description,omitempty"     validate:"omitempty,not_blank,max=255"`
	Brand           *string          `json:"brand,omitempty"           validate:"omitempty,not_blank,max=100"`
	Model           *string          `json:"model,omitempty"           validate:"omitempty,not_blank,max=100"`
	Specs           null.String      `json:"specs"`
	Status          *entities.Status `json:"status,omitempty"          validate:"omitempty,equipment_status"`
	Location        *string          `json:"location,omitempty"        validate:"omitempty,not_blank,max=255"`
	Responsible     *string          `json:"responsible,omitempty"     validate:"omitempty,not_blank,max=255"`
	AcquisitionDate *string          `json:"acquisitionDate,omitempty" validate:"omitempty,calendar_date"`
	Value           *float64         `json:"value,omitempty"           validate:"omitempty,gte=0"`
}

// ToChanges переводит переданные поля в типизированный набор изменений.
func (d UpdateEquipmentDTO) ToChanges() (*entities.EquipmentChanges, error) {
	changes := entities.NewEquipmentChanges()
	set := func(name entities.FieldName, v entities.FieldValue) error {
		if err := changes.Set(name, v); err != nil {
			return fmt.Errorf("поле %s: %w", name, err)
		}
		return nil
	}

	texts := []struct {
		name  entities.FieldName
		value *string
	}{
		{entities.FieldAssetNumber, d.AssetNumber},
		{entities.FieldDescription, d.Description},
		{entities.FieldBrand, d.Brand},
		{entities.FieldModel, d.Model},
		{entities.FieldLocation, d.Location},
		{entities.FieldResponsible, d.Responsible},
	}
	for _, t := range texts {
		if t.value == nil {
			continue
		}
		if err := set(t.name, entities.TextValue(*t.value)); err != nil {
			return nil, err
		}
	}

	if d.Specs.Valid {
		var specs *string
		if strings.TrimSpace(d.Specs.String) != "" {
			s := d.Specs.String
			specs = &s
		}
		if err := set(entities.FieldSpecs, entities.OptionalTextValue(specs)); err != nil {
			return nil, err
		}
	}
	if d.Status != nil {
		if err := set(entities.FieldStatus, entities.EnumValue(*d.Status)); err != nil {
			return nil, err
		}
	}
	if d.AcquisitionDate != nil {
		date, err := entities.ParseDate(*d.AcquisitionDate)
		if err != nil {
			return nil, err
		}
		if err := set(entities.FieldAcquisitionDate, entities.DateValue(date)); err != nil {
			return nil, err
		}
	}
	if d.Value != nil {
		if err := set(entities.FieldMonetaryValue, entities.NumberValue(entities.RoundMoney(*d.Value))); err != nil {
			return nil, err
		}
	}
	return changes, nil
}

type ChangeStatusDTO struct {
	Status entities.Status `json:"status" validate:"required,equipment_status"`
}

type EquipmentDTO struct {
	ID              string  `json:"id"`
	AssetNumber     string  `json:"assetNumber"`
	Description     string  `json:"description"`
	Brand           string  `json:"brand"`
	Model           string  `json:"model"`
	Specs           *string `json:"specs,omitempty"`
	Status          string  `json:"status"`
	StatusLabel     string  `json:"statusLabel"`
	Location        string  `json:"location"`
	Responsible     string  `json:"responsible"`
	AcquisitionDate string  `json:"acquisitionDate"`
	Value           float64 `json:"value"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

// SampleDataResultDTO - итог заполнения демонстрационными данными.
type SampleDataResultDTO struct {
	Inserted int  `json:"inserted"`
	Skipped  bool `json:"skipped"`
}
