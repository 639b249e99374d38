package reviews

import (
	"time"

	"github.com/google/uuid"

	"github.com/flourhouse/bakery-backend/pkg/db/models"
	"github.com/flourhouse/bakery-backend/pkg/pagination"
)

// ReviewDTO is one review rendered for the API. The author shows by first
// name only.
type ReviewDTO struct {
	ID         uuid.UUID `json:"id"`
	ProductID  uuid.UUID `json:"product_id"`
	AuthorName string    `json:"author_name"`
	Rating     int       `json:"rating"`
	Comment    *string   `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ReviewListDTO is a paginated review listing.
type ReviewListDTO struct {
	Reviews []ReviewDTO     `json:"reviews"`
	Meta    pagination.Meta `json:"meta"`
}

// NewReviewDTO projects a review into the API shape.
func NewReviewDTO(review *models.Review) *ReviewDTO {
	if review == nil {
		return nil
	}
	dto := &ReviewDTO{
		ID:        review.ID,
		ProductID: review.ProductID,
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
	}
	if review.User != nil {
		dto.AuthorName = review.User.FirstName
	}
	return dto
}

// NewReviewListDTO projects a page of reviews.
func NewReviewListDTO(reviews []models.Review, params pagination.Params, total int64) *ReviewListDTO {
	list := &ReviewListDTO{
		Reviews: make([]ReviewDTO, 0, len(reviews)),
		Meta:    pagination.NewMeta(params, total),
	}
	for i := range reviews {
		list.Reviews = append(list.Reviews, *NewReviewDTO(&reviews[i]))
	}
	return list
}
