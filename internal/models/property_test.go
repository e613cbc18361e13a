package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/poofware/estate-service/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testToday = time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)

func newTestProperty(t *testing.T, expected float64) *Property {
	t.Helper()
	p := NewProperty("Sunny Villa", expected, nil, testToday)
	require.NoError(t, p.Validate())
	return p
}

func TestNewPropertyDefaults(t *testing.T) {
	sp := uuid.New()
	p := NewProperty("  Beach House  ", 250000, &sp, testToday)

	assert.Equal(t, "Beach House", p.Name)
	assert.Equal(t, PropertyStateNew, p.State)
	assert.Equal(t, DefaultBedrooms, p.Bedrooms)
	assert.True(t, p.Active)
	assert.Equal(t, &sp, p.SalespersonID)
	assert.Equal(t, time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC), p.DateAvailability)
}

func TestTotalArea(t *testing.T) {
	p := newTestProperty(t, 100)
	p.LivingArea = 120
	assert.Equal(t, 120, p.TotalArea())

	p.GardenArea = 30
	assert.Equal(t, 150, p.TotalArea())

	p.LivingArea = 0
	assert.Equal(t, 30, p.TotalArea())
}

func TestBestPrice(t *testing.T) {
	assert.Equal(t, 0.0, BestPrice(nil))

	offers := []*Offer{{Price: 95}, {Price: 120}, {Price: 100}}
	assert.Equal(t, 120.0, BestPrice(offers))
}

func TestPropertyValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *Property)
		wantErr error
	}{
		{"valid", func(p *Property) {}, nil},
		{"zero expected price", func(p *Property) { p.ExpectedPrice = 0 }, utils.ErrExpectedPriceNotPositive},
		{"negative expected price", func(p *Property) { p.ExpectedPrice = -5 }, utils.ErrExpectedPriceNotPositive},
		{"negative selling price", func(p *Property) { p.SellingPrice = -1 }, utils.ErrSellingPriceNegative},
		{"selling price below 90%", func(p *Property) { p.SellingPrice = 80 }, utils.ErrSellingPriceTooLow},
		{"selling price at 90%", func(p *Property) { p.SellingPrice = 90 }, nil},
		{"selling price 95", func(p *Property) { p.SellingPrice = 95 }, nil},
		{"short name", func(p *Property) { p.Name = " ab  " }, utils.ErrPropertyNameTooShort},
		{"bad orientation", func(p *Property) { p.GardenOrientation = "up" }, utils.ErrInvalidGardenOrientation},
		// expected price is reported before the name
		{"first failure wins", func(p *Property) { p.ExpectedPrice = 0; p.Name = "x" }, utils.ErrExpectedPriceNotPositive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProperty(t, 100)
			tt.mutate(p)
			err := p.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPropertyValidateErrorKind(t *testing.T) {
	p := newTestProperty(t, 100)
	p.SellingPrice = 80

	var vErr *utils.ValidationError
	require.ErrorAs(t, p.Validate(), &vErr)
	assert.Equal(t, "selling_price_too_low", vErr.Code)
}

func TestSellAndCancel(t *testing.T) {
	t.Run("sell is idempotent", func(t *testing.T) {
		p := newTestProperty(t, 100)
		require.NoError(t, p.Sell())
		require.NoError(t, p.Sell())
		assert.Equal(t, PropertyStateSold, p.State)
	})

	t.Run("cancel is idempotent", func(t *testing.T) {
		p := newTestProperty(t, 100)
		require.NoError(t, p.Cancel())
		require.NoError(t, p.Cancel())
		assert.Equal(t, PropertyStateCanceled, p.State)
	})

	t.Run("canceled cannot be sold", func(t *testing.T) {
		p := newTestProperty(t, 100)
		require.NoError(t, p.Cancel())

		var opErr *utils.OperationError
		require.ErrorAs(t, p.Sell(), &opErr)
		assert.Equal(t, PropertyStateCanceled, p.State)
	})

	t.Run("sold cannot be canceled", func(t *testing.T) {
		p := newTestProperty(t, 100)
		require.NoError(t, p.Sell())
		require.ErrorIs(t, p.Cancel(), utils.ErrCancelSoldProperty)
		assert.Equal(t, PropertyStateSold, p.State)
	})
}

func TestCheckDeletable(t *testing.T) {
	for state, ok := range map[PropertyState]bool{
		PropertyStateNew:           true,
		PropertyStateCanceled:      true,
		PropertyStateOfferReceived: false,
		PropertyStateOfferAccepted: false,
		PropertyStateSold:          false,
	} {
		p := &Property{State: state}
		if ok {
			assert.NoError(t, p.CheckDeletable(), state)
		} else {
			assert.ErrorIs(t, p.CheckDeletable(), utils.ErrPropertyNotDeletable, state)
		}
	}
}

func TestSuggestGardenFields(t *testing.T) {
	area, orientation := SuggestGardenFields(true)
	assert.Equal(t, 10, area)
	assert.Equal(t, GardenOrientationNorth, orientation)

	area, orientation = SuggestGardenFields(false)
	assert.Equal(t, 0, area)
	assert.Equal(t, GardenOrientationUnset, orientation)
}
