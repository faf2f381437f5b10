// Файл: pkg/customvalidator/validator.go

package customvalidator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"inventory-system/internal/entities"
)

// RegisterCustomValidations регистрирует правила инвентаря в переданном валидаторе.
func RegisterCustomValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("equipment_status", isEquipmentStatus); err != nil {
		return err
	}
	if err := v.RegisterValidation("calendar_date", isCalendarDate); err != nil {
		return err
	}
	if err := v.RegisterValidation("not_blank", isNotBlank); err != nil {
		return err
	}
	return nil
}

func stringValue(fl validator.FieldLevel) (string, bool) {
	field := fl.Field()
	if field.Kind() == reflect.Ptr {
		if field.IsNil() {
			return "", false
		}
		field = field.Elem()
	}
	if field.Kind() != reflect.String {
		return "", false
	}
	return field.String(), true
}

// isEquipmentStatus - только канонические значения; синонимы приводятся раньше, при разборе JSON.
func isEquipmentStatus(fl validator.FieldLevel) bool {
	s, ok := stringValue(fl)
	if !ok {
		return false
	}
	return entities.Status(s).IsValid()
}

func isCalendarDate(fl validator.FieldLevel) bool {
	s, ok := stringValue(fl)
	if !ok {
		return false
	}
	d, err := entities.ParseDate(s)
	return err == nil && !d.IsZero()
}

func isNotBlank(fl validator.FieldLevel) bool {
	s, ok := stringValue(fl)
	return ok && strings.TrimSpace(s) != ""
}
