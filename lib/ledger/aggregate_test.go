package ledger

import (
	"math/rand"
	"testing"
	"time"

	"github.com/accounter/ledgerhub.go/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func tx(amount string, currency string, fee bool) models.Transaction {
	return models.Transaction{
		ID:        uuid.New(),
		Amount:    decimal.RequireFromString(amount),
		Currency:  currency,
		EventDate: day(2024, time.March, 1),
		IsFee:     fee,
	}
}

func TestAggregateSumsNonFeeTransactions(t *testing.T) {
	aggregated, err := Aggregate([]models.Transaction{
		tx("100", "USD", false),
		tx("-5", "USD", true),
		tx("50", "USD", false),
	})
	require.NoError(t, err)
	assert.Equal(t, "150", aggregated.Amount.String())
	assert.Equal(t, "USD", aggregated.Currency)
	assert.False(t, aggregated.BusinessID.Valid)
}

func TestAggregateRejectsEmptyInput(t *testing.T) {
	_, err := Aggregate(nil)
	assert.ErrorIs(t, err, EmptyInputError{})
}

func TestAggregateRejectsAllFees(t *testing.T) {
	_, err := Aggregate([]models.Transaction{tx("-5", "USD", true), tx("-2", "USD", true)})
	var allFees AllFeesError
	require.ErrorAs(t, err, &allFees)
	assert.Equal(t, 2, allFees.Count)
}

func TestAggregateRejectsMixedCurrencies(t *testing.T) {
	_, err := Aggregate([]models.Transaction{tx("10", "USD", false), tx("10", "EUR", false)})
	var mixed MixedCurrencyError
	require.ErrorAs(t, err, &mixed)
	assert.Equal(t, []string{"USD", "EUR"}, mixed.Currencies)
	assert.Contains(t, err.Error(), "USD, EUR")
}

func TestAggregateIgnoresCurrencyOfFees(t *testing.T) {
	aggregated, err := Aggregate([]models.Transaction{tx("10", "USD", false), tx("-1", "EUR", true)})
	require.NoError(t, err)
	assert.Equal(t, "USD", aggregated.Currency)
}

func TestAggregateCounterparty(t *testing.T) {
	business := uuid.New()
	withBusiness := tx("10", "USD", false)
	withBusiness.BusinessID = uuid.NullUUID{UUID: business, Valid: true}
	withoutBusiness := tx("15", "USD", false)

	aggregated, err := Aggregate([]models.Transaction{withBusiness, withoutBusiness, withBusiness})
	require.NoError(t, err)
	assert.True(t, aggregated.BusinessID.Valid)
	assert.Equal(t, business, aggregated.BusinessID.UUID)

	other := tx("1", "USD", false)
	other.BusinessID = uuid.NullUUID{UUID: uuid.New(), Valid: true}
	_, err = Aggregate([]models.Transaction{withBusiness, other})
	var mixed MixedCounterpartyError
	require.ErrorAs(t, err, &mixed)
	assert.Len(t, mixed.BusinessIDs, 2)
	assert.Contains(t, err.Error(), business.String())
}

func TestAggregateDates(t *testing.T) {
	first := tx("1", "ILS", false)
	first.EventDate = day(2024, time.May, 3)
	debitDate := day(2024, time.May, 5)
	first.DebitDate = &debitDate

	second := tx("1", "ILS", false)
	second.EventDate = day(2024, time.May, 1)
	laterDate := day(2024, time.May, 9)
	earlyTimestamp := time.Date(2024, time.May, 4, 13, 30, 0, 0, time.UTC)
	second.DebitDate = &laterDate
	second.DebitTimestamp = &earlyTimestamp

	third := tx("1", "ILS", false)
	third.EventDate = day(2024, time.May, 7)

	aggregated, err := Aggregate([]models.Transaction{first, second, third})
	require.NoError(t, err)
	assert.Equal(t, day(2024, time.May, 1), aggregated.EventDate)
	require.NotNil(t, aggregated.DebitDate)
	assert.Equal(t, earlyTimestamp, *aggregated.DebitDate)
	assert.Equal(t, earlyTimestamp, aggregated.ValueDate())

	aggregated, err = Aggregate([]models.Transaction{third})
	require.NoError(t, err)
	assert.Nil(t, aggregated.DebitDate)
	assert.Equal(t, third.EventDate, aggregated.ValueDate())
}

func TestAggregateDescription(t *testing.T) {
	first := tx("1", "ILS", false)
	first.SourceDescription = "wire from ACME"
	blank := tx("1", "ILS", false)
	blank.SourceDescription = "   "
	second := tx("1", "ILS", false)
	second.SourceDescription = "second installment"

	aggregated, err := Aggregate([]models.Transaction{first, blank, second})
	require.NoError(t, err)
	assert.Equal(t, "wire from ACME\nsecond installment", aggregated.Description)

	aggregated, err = Aggregate([]models.Transaction{blank})
	require.NoError(t, err)
	assert.Equal(t, "", aggregated.Description)
}

func TestAggregateFeeExclusionProperty(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	business := uuid.NullUUID{UUID: uuid.New(), Valid: true}
	for i := 0; i < 200; i++ {
		withFees := []models.Transaction{}
		withoutFees := []models.Transaction{}
		expected := decimal.Zero
		nonFees := 1 + r.Intn(6)
		fees := r.Intn(4)
		for j := 0; j < nonFees; j++ {
			amount := decimal.New(r.Int63n(2000000)-1000000, -2)
			transaction := tx(amount.String(), "EUR", false)
			transaction.EventDate = day(2024, time.January, 1+r.Intn(28))
			if r.Intn(2) == 0 {
				transaction.BusinessID = business
			}
			expected = expected.Add(amount)
			withFees = append(withFees, transaction)
			withoutFees = append(withoutFees, transaction)
		}
		for j := 0; j < fees; j++ {
			fee := tx(decimal.New(-r.Int63n(1000), -2).String(), "USD", true)
			fee.BusinessID = uuid.NullUUID{UUID: uuid.New(), Valid: true}
			position := r.Intn(len(withFees) + 1)
			withFees = append(withFees[:position], append([]models.Transaction{fee}, withFees[position:]...)...)
		}

		a, err := Aggregate(withFees)
		require.NoError(t, err)
		b, err := Aggregate(withoutFees)
		require.NoError(t, err)
		assert.Equal(t, b, a)
		assert.True(t, expected.Equal(a.Amount), "expected %s got %s", expected, a.Amount)

		again, err := Aggregate(withFees)
		require.NoError(t, err)
		assert.Equal(t, a, again)
	}
}

func TestAggregateMixedCurrencyProperty(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	currencies := []string{"USD", "EUR", "ILS", "GBP"}
	for i := 0; i < 100; i++ {
		first := currencies[r.Intn(len(currencies))]
		second := currencies[(r.Intn(len(currencies)-1)+1+indexOf(currencies, first))%len(currencies)]
		transactions := []models.Transaction{
			tx(decimal.New(r.Int63n(100000), -2).String(), first, false),
			tx(decimal.New(r.Int63n(100000), -2).String(), second, false),
		}
		_, err := Aggregate(transactions)
		var mixed MixedCurrencyError
		assert.ErrorAs(t, err, &mixed)
	}
}

func indexOf(values []string, value string) int {
	for i, v := range values {
		if v == value {
			return i
		}
	}
	return -1
}
