package airports_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/airvista/travelsample/internal/airports"
	"github.com/airvista/travelsample/pkg/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Airport{}))

	fixtures := []models.Airport{
		{AirportName: "San Francisco Intl", City: "San Francisco", Country: "United States", FAA: "SFO", ICAO: "KSFO"},
		{AirportName: "Los Angeles Intl", City: "Los Angeles", Country: "United States", FAA: "LAX", ICAO: "KLAX"},
		{AirportName: "Heathrow", City: "London", Country: "United Kingdom", FAA: "LHR", ICAO: "EGLL"},
		{AirportName: "San Diego Intl", City: "San Diego", Country: "United States", FAA: "SAN", ICAO: "KSAN"},
	}
	require.NoError(t, db.Create(&fixtures).Error)
	return db
}

func setupService(t *testing.T) airports.AirportService {
	svc, err := airports.NewService(zap.NewNop(), setupTestDB(t))
	require.NoError(t, err)
	return svc
}

func TestSearchByFAACode(t *testing.T) {
	svc := setupService(t)

	results, queryText, err := svc.Search(context.Background(), "SFO")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "San Francisco Intl", results[0].AirportName)
	assert.Contains(t, queryText, "faa = 'SFO'")
}

func TestSearchByFAACodeLowercase(t *testing.T) {
	svc := setupService(t)

	// A 3-letter term in a single case is still treated as an FAA code
	results, queryText, err := svc.Search(context.Background(), "lax")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Los Angeles Intl", results[0].AirportName)
	assert.Contains(t, queryText, "faa = 'LAX'")
}

func TestSearchByICAOCode(t *testing.T) {
	svc := setupService(t)

	results, queryText, err := svc.Search(context.Background(), "EGLL")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Heathrow", results[0].AirportName)
	assert.Contains(t, queryText, "icao = 'EGLL'")
}

func TestSearchByICAOCodeLowercase(t *testing.T) {
	svc := setupService(t)

	results, queryText, err := svc.Search(context.Background(), "ksfo")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "San Francisco Intl", results[0].AirportName)
	assert.Contains(t, queryText, "icao = 'KSFO'")
}

func TestSearchByName(t *testing.T) {
	svc := setupService(t)

	results, queryText, err := svc.Search(context.Background(), "san")
	require.NoError(t, err)
	// "san" is 3 chars but single-case, so it is an FAA lookup for SAN
	require.Len(t, results, 1)
	assert.Equal(t, "San Diego Intl", results[0].AirportName)
	assert.Contains(t, queryText, "faa = 'SAN'")

	// Longer free text falls through to a name substring match
	results, queryText, err = svc.Search(context.Background(), "francisco")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "San Francisco Intl", results[0].AirportName)
	assert.Contains(t, queryText, "LIKE '%francisco%'")
}

func TestSearchMixedCaseFourLetters(t *testing.T) {
	svc := setupService(t)

	// Mixed case disqualifies a 4-letter term as an ICAO code
	results, queryText, err := svc.Search(context.Background(), "Heat")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Heathrow", results[0].AirportName)
	assert.Contains(t, queryText, "LIKE '%heat%'")
}

func TestSearchNoMatches(t *testing.T) {
	svc := setupService(t)

	results, _, err := svc.Search(context.Background(), "atlantis")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchEmptyTerm(t *testing.T) {
	svc := setupService(t)

	_, _, err := svc.Search(context.Background(), "   ")
	assert.ErrorIs(t, err, airports.ErrEmptySearch)
}

func TestSearchTooLong(t *testing.T) {
	svc := setupService(t)

	long := make([]byte, 200)
	for i := range long {
		long[i] = 'x'
	}
	_, _, err := svc.Search(context.Background(), string(long))
	assert.ErrorIs(t, err, airports.ErrSearchTooLong)
}
