package booking

import (
	"encoding/json"
	"testing"
	"time"

	"bookbnb/internal/domain"
	"bookbnb/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestCalculate_Example(t *testing.T) {
	q, err := Calculate(date("2024-03-01"), date("2024-03-04"), models.MoneyFromUnits(100))
	require.NoError(t, err)
	assert.Equal(t, int64(3), q.Nights)
	assert.Equal(t, models.MoneyFromUnits(300), q.Total)
}

func TestCalculate_ReversedRange(t *testing.T) {
	_, err := Calculate(date("2024-03-04"), date("2024-03-01"), models.MoneyFromUnits(100))
	require.Error(t, err)
	assert.True(t, domain.IsValidationError(err))
	assert.Equal(t, msgEndAfterStart, domain.UserMessage(err))
}

func TestCalculate_SameDay(t *testing.T) {
	_, err := Calculate(date("2024-03-04"), date("2024-03-04"), models.MoneyFromUnits(100))
	assert.True(t, domain.IsValidationError(err))
}

func TestCalculate_UnsetDates(t *testing.T) {
	_, err := Calculate(time.Time{}, date("2024-03-04"), models.MoneyFromUnits(100))
	assert.Equal(t, msgDatesRequired, domain.UserMessage(err))

	_, err = Calculate(date("2024-03-04"), time.Time{}, models.MoneyFromUnits(100))
	assert.Equal(t, msgDatesRequired, domain.UserMessage(err))
}

func TestCalculate_NegativePrice(t *testing.T) {
	_, err := Calculate(date("2024-03-01"), date("2024-03-02"), models.Money(-1))
	assert.True(t, domain.IsValidationError(err))
}

func TestCalculate_TotalIsExact(t *testing.T) {
	prices := []models.Money{1, 99, 9999, 12345, models.MoneyFromUnits(100), 333}
	start := date("2024-01-01")
	for _, p := range prices {
		for n := int64(1); n <= 60; n++ {
			q, err := Calculate(start, start.AddDate(0, 0, int(n)), p)
			require.NoError(t, err)
			assert.Equal(t, n, q.Nights)
			assert.Equal(t, p.Cents()*n, q.Total.Cents())
		}
	}
}

func TestCalculate_FractionalCents(t *testing.T) {
	// 0.1 + 0.2 style errors cannot appear with integer cents
	price, err := models.ParseMoney("0.10")
	require.NoError(t, err)
	q, err := Calculate(date("2024-03-01"), date("2024-03-04"), price)
	require.NoError(t, err)
	assert.Equal(t, "0.30", q.Total.String())
}

func TestNights_PartialDayRoundsUp(t *testing.T) {
	start := date("2024-03-01")
	assert.Equal(t, int64(1), Nights(start, start.Add(time.Hour)))
	assert.Equal(t, int64(2), Nights(start, start.Add(25*time.Hour)))
	assert.Equal(t, int64(0), Nights(start, start))
}

func TestNights_AcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skip("tzdata not available")
	}
	// 2024-03-31 has 23 hours in Berlin
	start := time.Date(2024, 3, 30, 0, 0, 0, 0, loc)
	end := time.Date(2024, 4, 1, 0, 0, 0, 0, loc)
	assert.Equal(t, int64(2), Nights(start, end))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, date("2024-03-01"), d)

	d, err = ParseDate("  ")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	_, err = ParseDate("03/01/2024")
	assert.True(t, domain.IsValidationError(err))
}

func TestCalculate_TotalOverflow(t *testing.T) {
	price, err := models.ParseMoney("50000000000000000")
	require.NoError(t, err)

	_, err = Calculate(date("2024-03-01"), date("2024-03-04"), price)
	require.Error(t, err)
	assert.True(t, domain.IsValidationError(err))
	assert.Equal(t, msgTotalTooLarge, domain.UserMessage(err))
}

func TestQuote_Request(t *testing.T) {
	id := uuid.New()
	q, err := Calculate(date("2024-03-01"), date("2024-03-04"), models.MoneyFromUnits(100))
	require.NoError(t, err)

	req := q.Request(id)
	assert.Equal(t, id, req.PropertyID)
	assert.Equal(t, "2024-03-01", req.StartDate)
	assert.Equal(t, "2024-03-04", req.EndDate)
	assert.Equal(t, models.MoneyFromUnits(300), req.TotalPrice)
}

func TestQuote_RequestDecodesAsIntegerTotal(t *testing.T) {
	q, err := Calculate(date("2024-03-01"), date("2024-03-04"), models.MoneyFromUnits(100))
	require.NoError(t, err)

	body, err := json.Marshal(q.Request(uuid.New()))
	require.NoError(t, err)

	var backend struct {
		PropertyID string `json:"property_id"`
		StartDate  string `json:"start_date"`
		EndDate    string `json:"end_date"`
		TotalPrice int    `json:"total_price"`
	}
	require.NoError(t, json.Unmarshal(body, &backend))
	assert.Equal(t, 300, backend.TotalPrice)
}
