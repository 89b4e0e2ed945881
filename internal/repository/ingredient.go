package repository

import (
	"context"
	"strings"

	"github.com/crispan/mealprep/internal/domain"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// IngredientRepository handles database operations for ingredient records
type IngredientRepository interface {
	// Create inserts a new ingredient and fills in its ID
	Create(ctx context.Context, ing *domain.Ingredient) error

	// GetByID retrieves an ingredient by ID, gorm.ErrRecordNotFound when absent
	GetByID(ctx context.Context, id int64) (*domain.Ingredient, error)

	// List retrieves all ingredients in storage order
	List(ctx context.Context) ([]domain.Ingredient, error)

	// ListByCategory retrieves the ingredients of one category whose name
	// contains query, case-insensitively. An empty query matches everything.
	ListByCategory(ctx context.Context, category, query string) ([]domain.Ingredient, error)

	// ListCategories returns each distinct category exactly once, in the
	// order the categories first appeared in storage
	ListCategories(ctx context.Context) ([]string, error)

	// Update overwrites every field of the record matching ing.ID.
	// It reports false, without error, when no record matched.
	Update(ctx context.Context, ing *domain.Ingredient) (bool, error)

	// Delete removes the record matching id.
	// It reports false, without error, when no record matched.
	Delete(ctx context.Context, id int64) (bool, error)
}

// GormIngredientRepository is the GORM implementation of IngredientRepository
type GormIngredientRepository struct {
	db *gorm.DB
}

// NewGormIngredientRepository creates a new GORM-based repository
func NewGormIngredientRepository(db *gorm.DB) *GormIngredientRepository {
	return &GormIngredientRepository{db: db}
}

var _ IngredientRepository = (*GormIngredientRepository)(nil)

func (r *GormIngredientRepository) Create(ctx context.Context, ing *domain.Ingredient) error {
	// ids are always assigned by the store
	ing.ID = 0
	if err := r.db.WithContext(ctx).Create(ing).Error; err != nil {
		return errors.Wrap(err, "create ingredient")
	}
	return nil
}

func (r *GormIngredientRepository) GetByID(ctx context.Context, id int64) (*domain.Ingredient, error) {
	var ing domain.Ingredient
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&ing).Error
	if err != nil {
		return nil, err
	}
	return &ing, nil
}

func (r *GormIngredientRepository) List(ctx context.Context) ([]domain.Ingredient, error) {
	var rows []domain.Ingredient
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "list ingredients")
	}
	return rows, nil
}

func (r *GormIngredientRepository) ListByCategory(ctx context.Context, category, query string) ([]domain.Ingredient, error) {
	db := r.db.WithContext(ctx).Where("category = ?", category)
	if q := strings.TrimSpace(query); q != "" {
		db = db.Where(`LOWER(name) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(q))+"%")
	}
	var rows []domain.Ingredient
	if err := db.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, errors.Wrapf(err, "list ingredients of category %q", category)
	}
	return rows, nil
}

func (r *GormIngredientRepository) ListCategories(ctx context.Context) ([]string, error) {
	var categories []string
	// first-appearance order, so the default pick is the oldest category
	err := r.db.WithContext(ctx).
		Model(&domain.Ingredient{}).
		Group("category").
		Order("MIN(id) ASC").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, errors.Wrap(err, "list categories")
	}
	return categories, nil
}

func (r *GormIngredientRepository) Update(ctx context.Context, ing *domain.Ingredient) (bool, error) {
	// a map keeps zero values such as a 0 quantity in the statement
	result := r.db.WithContext(ctx).
		Model(&domain.Ingredient{}).
		Where("id = ?", ing.ID).
		Updates(map[string]interface{}{
			"name":                ing.Name,
			"quantity_per_person": ing.QuantityPerPerson,
			"unit":                ing.Unit,
			"category":            ing.Category,
		})
	if result.Error != nil {
		return false, errors.Wrapf(result.Error, "update ingredient %d", ing.ID)
	}
	return result.RowsAffected > 0, nil
}

func (r *GormIngredientRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Ingredient{})
	if result.Error != nil {
		return false, errors.Wrapf(result.Error, "delete ingredient %d", id)
	}
	return result.RowsAffected > 0, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
