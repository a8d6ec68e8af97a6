package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/natours/natours-backend/internal/models"
)

func newGormWithMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestReviewRatingStats(t *testing.T) {
	db, mock := newGormWithMock(t)
	repo := NewReviewRepository(db)

	rows := sqlmock.NewRows([]string{"quantity", "average"}).AddRow(3, 4.0)
	mock.ExpectQuery(`(?s)SELECT count\(\*\) AS quantity, coalesce\(avg\(rating\), 0\) AS average FROM "reviews" WHERE tour_id = \$1`).
		WithArgs(7).
		WillReturnRows(rows)

	stats, err := repo.RatingStats(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Quantity)
	assert.InDelta(t, 4.0, stats.Average, 1e-9)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRatingStatsNoReviews(t *testing.T) {
	db, mock := newGormWithMock(t)
	repo := NewReviewRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\)`).
		WillReturnRows(sqlmock.NewRows([]string{"quantity", "average"}).AddRow(0, 0))

	stats, err := repo.RatingStats(context.Background(), 9)
	require.NoError(t, err)
	assert.Zero(t, stats.Quantity)
}

func TestTourUpdateRatings(t *testing.T) {
	db, mock := newGormWithMock(t)
	repo := NewTourRepository(db)

	mock.ExpectExec(`(?s)UPDATE "tours" SET "ratings_average"=\$1,"ratings_quantity"=\$2,"updated_at"=\$3 WHERE id = \$4`).
		WithArgs(4.5, int64(0), sqlmock.AnyArg(), 7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateRatings(context.Background(), 7, 0, 4.5))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserGetByEmailNotFound(t *testing.T) {
	db, mock := newGormWithMock(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`(?s)SELECT \* FROM "users" WHERE active = \$1 AND email = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByEmail(context.Background(), "  Laura@Example.com ")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserDeactivateMissing(t *testing.T) {
	db, mock := newGormWithMock(t)
	repo := NewUserRepository(db)

	mock.ExpectExec(`UPDATE "users" SET "active"=\$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Deactivate(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil))
	assert.ErrorIs(t, translate(gorm.ErrRecordNotFound), ErrNotFound)
	assert.ErrorIs(t, translate(gorm.ErrDuplicatedKey), ErrDuplicate)

	other := errors.New("connection reset")
	assert.Equal(t, other, translate(other))
}

func TestParseSort(t *testing.T) {
	cols := parseSort("-ratingsAverage, price,bogus")
	require.Len(t, cols, 2)
	assert.Equal(t, "ratings_average", cols[0].Column.Name)
	assert.True(t, cols[0].Desc)
	assert.Equal(t, "price", cols[1].Column.Name)
	assert.False(t, cols[1].Desc)

	def := parseSort("")
	require.Len(t, def, 1)
	assert.Equal(t, "created_at", def[0].Column.Name)
}

func TestTourMonthlyPlan(t *testing.T) {
	db, mock := newGormWithMock(t)
	repo := NewTourRepository(db)

	rows := sqlmock.NewRows([]string{"month", "name"}).
		AddRow(6, "The Forest Hiker").
		AddRow(7, "The Sea Explorer").
		AddRow(7, "The Snow Adventurer").
		AddRow(9, "The Park Camper")
	mock.ExpectQuery(`(?s)SELECT CAST\(EXTRACT\(MONTH FROM d\.starts_at\) AS integer\) AS month, t\.name AS name FROM tour_start_dates AS d JOIN tours t ON t\.id = d\.tour_id WHERE d\.starts_at >= \$1 AND d\.starts_at < \$2 ORDER BY month, t\.name`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(rows)

	plan, err := repo.MonthlyPlan(context.Background(), 2026)
	require.NoError(t, err)
	require.Len(t, plan, 3)

	assert.Equal(t, models.MonthlyPlan{Month: 7, NumTourStarts: 2, Tours: []string{"The Sea Explorer", "The Snow Adventurer"}}, plan[0])
	assert.Equal(t, 6, plan[1].Month)
	assert.Equal(t, 9, plan[2].Month)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTourMonthlyPlanEmptyYear(t *testing.T) {
	db, mock := newGormWithMock(t)
	repo := NewTourRepository(db)

	mock.ExpectQuery(`FROM tour_start_dates`).
		WillReturnRows(sqlmock.NewRows([]string{"month", "name"}))

	plan, err := repo.MonthlyPlan(context.Background(), 1990)
	require.NoError(t, err)
	assert.NotNil(t, plan)
	assert.Empty(t, plan)
}

func TestTourWithin(t *testing.T) {
	db, mock := newGormWithMock(t)
	repo := NewTourRepository(db)

	center := models.GeoPoint{Lat: 34.111745, Lng: -118.113491}
	mock.ExpectQuery(`(?s)SELECT \* FROM "tours" WHERE \$1 \* 2 \* asin\(sqrt\(.*start_lat.*start_lng.*\) <= \$5 ORDER BY id`).
		WithArgs(3963.2, center.Lat, center.Lat, center.Lng, 400.0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "start_lat", "start_lng"}).
			AddRow(1, "The Sea Explorer", 34.0, -118.0))

	tours, err := repo.Within(context.Background(), center, 400, models.UnitMiles.EarthRadius())
	require.NoError(t, err)
	require.Len(t, tours, 1)
	assert.Equal(t, 34.0, tours[0].StartLocation.Lat)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTourDistances(t *testing.T) {
	db, mock := newGormWithMock(t)
	repo := NewTourRepository(db)

	center := models.GeoPoint{Lat: 34.1, Lng: -118.1}
	mock.ExpectQuery(`(?s)SELECT id, name, \$1 \* 2 \* asin\(sqrt\(.*\) AS distance FROM "tours" ORDER BY distance`).
		WithArgs(6378.1, center.Lat, center.Lat, center.Lng).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "distance"}).
			AddRow(3, "The Sea Explorer", 12.5).
			AddRow(1, "The Forest Hiker", 3410.2))

	distances, err := repo.Distances(context.Background(), center, models.UnitKilometers.EarthRadius())
	require.NoError(t, err)
	require.Len(t, distances, 2)
	assert.Equal(t, models.TourDistance{ID: 3, Name: "The Sea Explorer", Distance: 12.5}, distances[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTourReplaceStartDates(t *testing.T) {
	db, mock := newGormWithMock(t)
	repo := NewTourRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "tour_start_dates" WHERE tour_id = \$1`).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectQuery(`INSERT INTO "tour_start_dates"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectCommit()

	err := repo.ReplaceStartDates(context.Background(), 5, []time.Time{time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
