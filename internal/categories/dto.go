package categories

import (
	"time"

	"github.com/google/uuid"

	"github.com/rakaputra/warungpos-backend/pkg/db/models"
)

// CategoryView is the API shape of a category.
type CategoryView struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewCategoryView maps a category row onto its API shape.
func NewCategoryView(category *models.Category) CategoryView {
	return CategoryView{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		CreatedAt:   category.CreatedAt,
		UpdatedAt:   category.UpdatedAt,
	}
}

// NewCategoryViews maps a page of category rows.
func NewCategoryViews(rows []models.Category) []CategoryView {
	views := make([]CategoryView, 0, len(rows))
	for i := range rows {
		views = append(views, NewCategoryView(&rows[i]))
	}
	return views
}
