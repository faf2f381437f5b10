package entities

import (
	"fmt"
	"strconv"
)

// ValueKind - тег типизированного значения поля.
type ValueKind string

const (
	KindText   ValueKind = "text"
	KindNumber ValueKind = "number"
	KindDate   ValueKind = "date"
	KindEnum   ValueKind = "enum"
)

// FieldValue хранит значение поля с типом. В строку превращается только при
// записи в журнал (Render), сравнение идет по типизированному значению.
type FieldValue struct {
	Kind    ValueKind
	Present bool
	Text    string
	Number  float64
	Date    Date
}

func TextValue(s string) FieldValue {
	return FieldValue{Kind: KindText, Present: true, Text: s}
}

// OptionalTextValue - nil означает отсутствующее значение.
func OptionalTextValue(s *string) FieldValue {
	if s == nil {
		return FieldValue{Kind: KindText}
	}
	return TextValue(*s)
}

func NumberValue(n float64) FieldValue {
	return FieldValue{Kind: KindNumber, Present: true, Number: n}
}

func DateValue(d Date) FieldValue {
	if d.IsZero() {
		return FieldValue{Kind: KindDate}
	}
	return FieldValue{Kind: KindDate, Present: true, Date: d}
}

func EnumValue(s Status) FieldValue {
	return FieldValue{Kind: KindEnum, Present: true, Text: string(s)}
}

func (v FieldValue) Equal(o FieldValue) bool {
	if v.Kind != o.Kind || v.Present != o.Present {
		return false
	}
	if !v.Present {
		return true
	}
	switch v.Kind {
	case KindNumber:
		return v.Number == o.Number
	case KindDate:
		return v.Date.Equal(o.Date)
	default:
		return v.Text == o.Text
	}
}

// Render возвращает строку для журнала; для отсутствующего значения - nil.
func (v FieldValue) Render() *string {
	if !v.Present {
		return nil
	}
	var s string
	switch v.Kind {
	case KindNumber:
		s = strconv.FormatFloat(v.Number, 'f', -1, 64)
	case KindDate:
		s = v.Date.String()
	default:
		s = v.Text
	}
	return &s
}

// ParseFieldValue восстанавливает типизированное значение из записи журнала.
func ParseFieldValue(kind ValueKind, s *string) (FieldValue, error) {
	if s == nil {
		return FieldValue{Kind: kind}, nil
	}
	switch kind {
	case KindNumber:
		n, err := strconv.ParseFloat(*s, 64)
		if err != nil {
			return FieldValue{}, fmt.Errorf("некорректное число %q: %w", *s, err)
		}
		return NumberValue(n), nil
	case KindDate:
		d, err := ParseDate(*s)
		if err != nil {
			return FieldValue{}, err
		}
		return DateValue(d), nil
	case KindEnum:
		return FieldValue{Kind: KindEnum, Present: true, Text: *s}, nil
	default:
		return TextValue(*s), nil
	}
}

// FieldName - имя атрибута оборудования в том виде, в каком оно попадает в журнал.
type FieldName string

const (
	FieldID              FieldName = "id"
	FieldAssetNumber     FieldName = "assetNumber"
	FieldDescription     FieldName = "description"
	FieldBrand           FieldName = "brand"
	FieldModel           FieldName = "model"
	FieldSpecs           FieldName = "specs"
	FieldStatus          FieldName = "status"
	FieldLocation        FieldName = "location"
	FieldResponsible     FieldName = "responsible"
	FieldAcquisitionDate FieldName = "acquisitionDate"
	FieldMonetaryValue   FieldName = "value"
)

// EquipmentField - строка таблицы редактируемых полей.
type EquipmentField struct {
	Name FieldName
	Kind ValueKind
	Get  func(e *Equipment) FieldValue
	Set  func(e *Equipment, v FieldValue)
}

// EquipmentFields - все редактируемые поля в порядке формы. Идентификатора
// здесь нет: он неизменяем и в журнал изменений не попадает.
var EquipmentFields = []EquipmentField{
	{
		Name: FieldAssetNumber, Kind: KindText,
		Get: func(e *Equipment) FieldValue { return TextValue(e.AssetNumber) },
		Set: func(e *Equipment, v FieldValue) { e.AssetNumber = v.Text },
	},
	{
		Name: FieldDescription, Kind: KindText,
		Get: func(e *Equipment) FieldValue { return TextValue(e.Description) },
		Set: func(e *Equipment, v FieldValue) { e.Description = v.Text },
	},
	{
		Name: FieldBrand, Kind: KindText,
		Get: func(e *Equipment) FieldValue { return TextValue(e.Brand) },
		Set: func(e *Equipment, v FieldValue) { e.Brand = v.Text },
	},
	{
		Name: FieldModel, Kind: KindText,
		Get: func(e *Equipment) FieldValue { return TextValue(e.Model) },
		Set: func(e *Equipment, v FieldValue) { e.Model = v.Text },
	},
	{
		Name: FieldSpecs, Kind: KindText,
		Get: func(e *Equipment) FieldValue { return OptionalTextValue(e.Specs) },
		Set: func(e *Equipment, v FieldValue) {
			if !v.Present {
				e.Specs = nil
				return
			}
			specs := v.Text
			e.Specs = &specs
		},
	},
	{
		Name: FieldStatus, Kind: KindEnum,
		Get: func(e *Equipment) FieldValue { return EnumValue(e.Status) },
		Set: func(e *Equipment, v FieldValue) { e.Status = Status(v.Text) },
	},
	{
		Name: FieldLocation, Kind: KindText,
		Get: func(e *Equipment) FieldValue { return TextValue(e.Location) },
		Set: func(e *Equipment, v FieldValue) { e.Location = v.Text },
	},
	{
		Name: FieldResponsible, Kind: KindText,
		Get: func(e *Equipment) FieldValue { return TextValue(e.Responsible) },
		Set: func(e *Equipment, v FieldValue) { e.Responsible = v.Text },
	},
	{
		Name: FieldAcquisitionDate, Kind: KindDate,
		Get: func(e *Equipment) FieldValue { return DateValue(e.AcquisitionDate) },
		Set: func(e *Equipment, v FieldValue) { e.AcquisitionDate = v.Date },
	},
	{
		Name: FieldMonetaryValue, Kind: KindNumber,
		Get: func(e *Equipment) FieldValue { return NumberValue(e.Value) },
		Set: func(e *Equipment, v FieldValue) { e.Value = v.Number },
	},
}

func LookupField(name FieldName) (EquipmentField, bool) {
	for _, f := range EquipmentFields {
		if f.Name == name {
			return f, true
		}
	}
	return EquipmentField{}, false
}

// EquipmentChanges - частичное обновление: только переданные поля.
type EquipmentChanges struct {
	values map[FieldName]FieldValue
}

func NewEquipmentChanges() *EquipmentChanges {
	return &EquipmentChanges{values: make(map[FieldName]FieldValue)}
}

// Set добавляет новое значение поля. Идентификатор молча игнорируется,
// неизвестное поле или несовпадение типа - ошибка.
func (c *EquipmentChanges) Set(name FieldName, v FieldValue) error {
	if name == FieldID {
		return nil
	}
	field, ok := LookupField(name)
	if !ok {
		return fmt.Errorf("неизвестное поле оборудования: %s", name)
	}
	if v.Kind != field.Kind {
		return fmt.Errorf("поле %s ожидает тип %s, получен %s", name, field.Kind, v.Kind)
	}
	if c.values == nil {
		c.values = make(map[FieldName]FieldValue)
	}
	c.values[name] = v
	return nil
}

func (c *EquipmentChanges) Get(name FieldName) (FieldValue, bool) {
	if c == nil {
		return FieldValue{}, false
	}
	v, ok := c.values[name]
	return v, ok
}

func (c *EquipmentChanges) Len() int {
	if c == nil {
		return 0
	}
	return len(c.values)
}

// ApplyTo возвращает копию записи с примененными изменениями.
func (c *EquipmentChanges) ApplyTo(e Equipment) Equipment {
	if c.Len() == 0 {
		return e
	}
	for _, field := range EquipmentFields {
		if v, ok := c.values[field.Name]; ok {
			field.Set(&e, v)
		}
	}
	return e
}

// FieldChange - различие одного поля между текущей записью и запросом.
type FieldChange struct {
	Field FieldName
	Kind  ValueKind
	Old   FieldValue
	New   FieldValue
}

// Diff сравнивает переданные поля с текущими значениями и возвращает только
// отличающиеся, в порядке EquipmentFields.
func Diff(existing Equipment, changes *EquipmentChanges) []FieldChange {
	if changes.Len() == 0 {
		return nil
	}
	var diff []FieldChange
	for _, field := range EquipmentFields {
		requested, ok := changes.values[field.Name]
		if !ok {
			continue
		}
		current := field.Get(&existing)
		if current.Equal(requested) {
			continue
		}
		diff = append(diff, FieldChange{
			Field: field.Name,
			Kind:  field.Kind,
			Old:   current,
			New:   requested,
		})
	}
	return diff
}
