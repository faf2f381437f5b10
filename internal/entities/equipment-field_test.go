package entities

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func sampleEquipment() Equipment {
	return Equipment{
		ID:              "eq-1",
		AssetNumber:     "COMP-001",
		Description:     "Computador Desktop",
		Brand:           "Dell",
		Model:           "XPS 8500",
		Specs:           strPtr("i7, 16GB"),
		Status:          StatusActive,
		Location:        "Escritório Principal",
		Responsible:     "Maria Silva",
		AcquisitionDate: NewDate(2023, time.January, 15),
		Value:           4500,
	}
}

func TestStatus_ParseAliases(t *testing.T) {
	cases := map[string]Status{
		"ativo":       StatusActive,
		" Ativo ":     StatusActive,
		"manutenção":  StatusMaintenance,
		"manutencao":  StatusMaintenance,
		"desativado":  StatusDecommissioned,
		"maintenance": StatusMaintenance,
	}
	for in, want := range cases {
		got, ok := ParseStatus(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	_, ok := ParseStatus("quebrado")
	assert.False(t, ok)
}

func TestStatus_UnmarshalKeepsUnknown(t *testing.T) {
	var payload struct {
		Status Status `json:"status"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"status":"ativo"}`), &payload))
	assert.Equal(t, StatusActive, payload.Status)

	require.NoError(t, json.Unmarshal([]byte(`{"status":"broken"}`), &payload))
	assert.Equal(t, Status("broken"), payload.Status)
	assert.False(t, payload.Status.IsValid())
}

func TestDate_JSONAndParse(t *testing.T) {
	d, err := ParseDate("2023-03-20")
	require.NoError(t, err)
	assert.Equal(t, "2023-03-20", d.String())

	d2, err := ParseDate("2023-03-20T15:04:05Z")
	require.NoError(t, err)
	assert.True(t, d.Equal(d2))

	raw, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `"2023-03-20"`, string(raw))

	var back Date
	require.NoError(t, json.Unmarshal([]byte(`null`), &back))
	assert.True(t, back.IsZero())

	_, err = ParseDate("20/03/2023")
	assert.Error(t, err)
}

func TestDate_Scan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2022, 8, 12, 10, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2022-08-12", d.String())

	require.NoError(t, d.Scan([]byte("2022-11-05")))
	assert.Equal(t, "2022-11-05", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	assert.Error(t, d.Scan(42))
}

func TestFieldValue_RenderAndParse(t *testing.T) {
	assert.Equal(t, "4500", *NumberValue(4500).Render())
	assert.Equal(t, "4500.5", *NumberValue(4500.5).Render())
	assert.Nil(t, OptionalTextValue(nil).Render())
	assert.Equal(t, "2023-01-15", *DateValue(NewDate(2023, 1, 15)).Render())

	v, err := ParseFieldValue(KindNumber, strPtr("2800"))
	require.NoError(t, err)
	assert.True(t, v.Equal(NumberValue(2800)))

	_, err = ParseFieldValue(KindNumber, strPtr("abc"))
	assert.Error(t, err)
}

func TestEquipmentChanges_Set(t *testing.T) {
	changes := NewEquipmentChanges()

	require.NoError(t, changes.Set(FieldID, TextValue("other")))
	assert.Equal(t, 0, changes.Len(), "идентификатор не должен попадать в изменения")

	assert.Error(t, changes.Set("serial", TextValue("x")))
	assert.Error(t, changes.Set(FieldMonetaryValue, TextValue("100")))

	require.NoError(t, changes.Set(FieldLocation, TextValue("Sala 2")))
	assert.Equal(t, 1, changes.Len())
}

func TestDiff_OnlyChangedFieldsInTableOrder(t *testing.T) {
	existing := sampleEquipment()
	changes := NewEquipmentChanges()
	require.NoError(t, changes.Set(FieldMonetaryValue, NumberValue(4000)))
	require.NoError(t, changes.Set(FieldBrand, TextValue("Dell")))
	require.NoError(t, changes.Set(FieldLocation, TextValue("Sala de Reuniões")))

	diff := Diff(existing, changes)
	require.Len(t, diff, 2)
	assert.Equal(t, FieldLocation, diff[0].Field)
	assert.Equal(t, "Escritório Principal", *diff[0].Old.Render())
	assert.Equal(t, FieldMonetaryValue, diff[1].Field)
	assert.Equal(t, "4500", *diff[1].Old.Render())
	assert.Equal(t, "4000", *diff[1].New.Render())
}

func TestDiff_NumberComparedByValue(t *testing.T) {
	existing := sampleEquipment()
	changes := NewEquipmentChanges()
	require.NoError(t, changes.Set(FieldMonetaryValue, NumberValue(4500.0)))
	assert.Empty(t, Diff(existing, changes))
}

func TestDiff_SpecsClearedToAbsent(t *testing.T) {
	existing := sampleEquipment()
	changes := NewEquipmentChanges()
	require.NoError(t, changes.Set(FieldSpecs, OptionalTextValue(nil)))

	diff := Diff(existing, changes)
	require.Len(t, diff, 1)
	assert.Nil(t, diff[0].New.Render())

	updated := changes.ApplyTo(existing)
	assert.Nil(t, updated.Specs)
	assert.NotNil(t, existing.Specs, "исходная запись не должна меняться")
}
