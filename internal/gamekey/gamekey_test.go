package gamekey

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGameID(t *testing.T) {
	assert.Equal(t, "2024_01_KC_LV", GameID(2024, 1, "KC", "LV"))
	assert.Equal(t, "2015_18_NE_BUF", GameID(2015, 18, "NE", "BUF"))

	// Deterministic: same inputs, same string.
	assert.Equal(t, GameID(2024, 1, "KC", "LV"), GameID(2024, 1, "KC", "LV"))
}

func TestClassify(t *testing.T) {
	hr := func(h int) *int { return &h }

	tests := []struct {
		day  string
		hour *int
		want Slot
	}{
		{"Thursday", hr(20), SlotThursday},
		{"Monday", hr(20), SlotMonday},
		{"Sunday", hr(10), SlotSundayMorning},
		{"Sunday", hr(11), SlotSundayMorning},
		{"Sunday", hr(13), SlotSundayEarly},
		{"Sunday", hr(15), SlotSundayLate},
		{"Sunday", hr(16), SlotSundayLate},
		{"Sunday", hr(19), SlotSundayNight},
		{"Sunday", hr(21), SlotSundayNight},

		// Unmapped Sunday hours stay Unknown.
		{"Sunday", hr(12), SlotUnknown},
		{"Sunday", hr(14), SlotUnknown},
		{"Sunday", hr(17), SlotUnknown},
		{"Sunday", hr(18), SlotUnknown},

		{"Wednesday", hr(12), SlotUnknown},
		{"Saturday", hr(13), SlotUnknown},
		{"", hr(13), SlotUnknown},
		{"Sunday", nil, SlotUnknown},
		{"", nil, SlotUnknown},
	}
	for _, tt := range tests {
		got := Classify(tt.day, tt.hour)
		assert.Equal(t, tt.want, got, "Classify(%q, %v)", tt.day, tt.hour)
	}
}

func TestSlots(t *testing.T) {
	slots := Slots()
	assert.Len(t, slots, 6)
	assert.Equal(t, SlotThursday, slots[0])
	assert.Equal(t, SlotSundayNight, slots[5])
	assert.NotContains(t, slots, SlotUnknown)
}
