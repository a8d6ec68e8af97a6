package repository

import (
	"context"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/natours/natours-backend/internal/models"
)

const (
	defaultPageSize = 100
	maxPageSize     = 100
)

// sortable maps API sort keys onto columns.
var sortable = map[string]string{
	"price":           "price",
	"ratingsAverage":  "ratings_average",
	"ratingsQuantity": "ratings_quantity",
	"duration":        "duration",
	"name":            "name",
	"createdAt":       "created_at",
}

type TourRepository struct {
	db *gorm.DB
}

func NewTourRepository(db *gorm.DB) *TourRepository {
	return &TourRepository{db: db}
}

func (r *TourRepository) Create(ctx context.Context, tour *models.Tour) error {
	return translate(r.db.WithContext(ctx).Create(tour).Error)
}

func (r *TourRepository) Save(ctx context.Context, tour *models.Tour) error {
	return translate(r.db.WithContext(ctx).Omit("Reviews", "StartDates").Save(tour).Error)
}

// ReplaceStartDates swaps the tour's schedule for dates.
func (r *TourRepository) ReplaceStartDates(ctx context.Context, tourID uint, dates []time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tour_id = ?", tourID).Delete(&models.TourStartDate{}).Error; err != nil {
			return err
		}
		if len(dates) == 0 {
			return nil
		}
		rows := make([]models.TourStartDate, 0, len(dates))
		for _, d := range dates {
			rows = append(rows, models.TourStartDate{TourID: tourID, StartsAt: d})
		}
		return tx.Create(&rows).Error
	})
}

func (r *TourRepository) GetByID(ctx context.Context, id uint) (*models.Tour, error) {
	var tour models.Tour
	if err := r.db.WithContext(ctx).First(&tour, id).Error; err != nil {
		return nil, translate(err)
	}
	return &tour, nil
}

func byStartsAt(db *gorm.DB) *gorm.DB {
	return db.Order("starts_at")
}

// GetWithReviews loads a tour together with its reviews and their authors.
func (r *TourRepository) GetWithReviews(ctx context.Context, id uint) (*models.Tour, error) {
	var tour models.Tour
	err := r.db.WithContext(ctx).
		Preload("StartDates", byStartsAt).
		Preload("Reviews", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Preload("Reviews.User", func(db *gorm.DB) *gorm.DB { return db.Select("id", "name", "photo") }).
		First(&tour, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &tour, nil
}

func (r *TourRepository) GetByIDs(ctx context.Context, ids []uint) ([]models.Tour, error) {
	tours := []models.Tour{}
	if len(ids) == 0 {
		return tours, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&tours).Error
	return tours, err
}

func (r *TourRepository) List(ctx context.Context, q models.TourQuery) ([]models.Tour, error) {
	db := r.db.WithContext(ctx).Model(&models.Tour{})

	if q.Difficulty != "" {
		db = db.Where("difficulty = ?", q.Difficulty)
	}
	if q.MinPrice > 0 {
		db = db.Where("price >= ?", q.MinPrice)
	}
	if q.MaxPrice > 0 {
		db = db.Where("price <= ?", q.MaxPrice)
	}
	if q.MaxDuration > 0 {
		db = db.Where("duration <= ?", q.MaxDuration)
	}

	for _, col := range parseSort(q.Sort) {
		db = db.Order(col)
	}

	limit := q.Limit
	if limit <= 0 || limit > maxPageSize {
		limit = defaultPageSize
	}
	page := q.Page
	if page < 1 {
		page = 1
	}

	var tours []models.Tour
	err := db.Preload("StartDates", byStartsAt).Limit(limit).Offset((page - 1) * limit).Find(&tours).Error
	return tours, err
}

// parseSort turns "-ratingsAverage,price" into order clauses. Unknown keys
// are dropped; the default order is newest first.
func parseSort(sort string) []clause.OrderByColumn {
	var cols []clause.OrderByColumn
	for _, key := range strings.Split(sort, ",") {
		key = strings.TrimSpace(key)
		desc := strings.HasPrefix(key, "-")
		col, ok := sortable[strings.TrimPrefix(key, "-")]
		if !ok {
			continue
		}
		cols = append(cols, clause.OrderByColumn{Column: clause.Column{Name: col}, Desc: desc})
	}
	if len(cols) == 0 {
		cols = append(cols, clause.OrderByColumn{Column: clause.Column{Name: "created_at"}, Desc: true})
	}
	return cols
}

// UpdateRatings writes the aggregate columns only.
func (r *TourRepository) UpdateRatings(ctx context.Context, tourID uint, quantity int64, average float64) error {
	return r.db.WithContext(ctx).Model(&models.Tour{}).
		Where("id = ?", tourID).
		Updates(map[string]interface{}{
			"ratings_quantity": quantity,
			"ratings_average":  average,
		}).Error
}

// Stats groups well-rated tours by difficulty.
func (r *TourRepository) Stats(ctx context.Context, minRating float64) ([]models.TourStats, error) {
	var stats []models.TourStats
	err := r.db.WithContext(ctx).Model(&models.Tour{}).
		Select(`upper(difficulty) AS difficulty,
			count(*) AS num_tours,
			coalesce(sum(ratings_quantity), 0) AS num_ratings,
			coalesce(avg(ratings_average), 0) AS avg_rating,
			coalesce(avg(price), 0) AS avg_price,
			coalesce(min(price), 0) AS min_price,
			coalesce(max(price), 0) AS max_price`).
		Where("ratings_average >= ?", minRating).
		Group("difficulty").
		Order("avg_price").
		Scan(&stats).Error
	return stats, err
}

func (r *TourRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tour_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Where("tour_id = ?", id).Delete(&models.TourStartDate{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Tour{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

type monthlyStart struct {
	Month int
	Name  string
}

// MonthlyPlan counts the departures in each month of year, busiest month
// first, with the names of the departing tours.
func (r *TourRepository) MonthlyPlan(ctx context.Context, year int) ([]models.MonthlyPlan, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	var starts []monthlyStart
	err := r.db.WithContext(ctx).Table("tour_start_dates AS d").
		Select("CAST(EXTRACT(MONTH FROM d.starts_at) AS integer) AS month, t.name AS name").
		Joins("JOIN tours t ON t.id = d.tour_id").
		Where("d.starts_at >= ? AND d.starts_at < ?", from, to).
		Order("month, t.name").
		Scan(&starts).Error
	if err != nil {
		return nil, err
	}

	plan := []models.MonthlyPlan{}
	index := map[int]int{}
	for _, s := range starts {
		i, ok := index[s.Month]
		if !ok {
			i = len(plan)
			index[s.Month] = i
			plan = append(plan, models.MonthlyPlan{Month: s.Month})
		}
		plan[i].NumTourStarts++
		plan[i].Tours = append(plan[i].Tours, s.Name)
	}

	sort.SliceStable(plan, func(i, j int) bool {
		return plan[i].NumTourStarts > plan[j].NumTourStarts
	})
	return plan, nil
}

// haversineSQL is the great-circle distance between the tour's start location
// and a point, for a sphere of the bound radius.
const haversineSQL = `? * 2 * asin(sqrt(
	power(sin(radians(start_lat - ?) / 2), 2) +
	cos(radians(?)) * cos(radians(start_lat)) * power(sin(radians(start_lng - ?) / 2), 2)))`

func haversine(center models.GeoPoint, radius float64) clause.Expr {
	return gorm.Expr(haversineSQL, radius, center.Lat, center.Lat, center.Lng)
}

// Within lists tours starting within distance of center; distance and radius
// share a unit.
func (r *TourRepository) Within(ctx context.Context, center models.GeoPoint, distance, radius float64) ([]models.Tour, error) {
	tours := []models.Tour{}
	err := r.db.WithContext(ctx).
		Where("? <= ?", haversine(center, radius), distance).
		Order("id").
		Find(&tours).Error
	return tours, err
}

// Distances reports how far every tour starts from center, nearest first.
func (r *TourRepository) Distances(ctx context.Context, center models.GeoPoint, radius float64) ([]models.TourDistance, error) {
	distances := []models.TourDistance{}
	err := r.db.WithContext(ctx).Model(&models.Tour{}).
		Select("id, name, ? AS distance", haversine(center, radius)).
		Order("distance").
		Scan(&distances).Error
	return distances, err
}
