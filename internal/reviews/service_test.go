package reviews

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/flourhouse/bakery-backend/pkg/db/models"
	"github.com/flourhouse/bakery-backend/pkg/enums"
	pkgerrors "github.com/flourhouse/bakery-backend/pkg/errors"
	"github.com/flourhouse/bakery-backend/pkg/pagination"
)

type stubReviewRepo struct {
	reviews   map[uuid.UUID]*models.Review
	purchases map[uuid.UUID]map[uuid.UUID]bool // userID -> productID -> delivered

	createErr error
}

func newStubReviewRepo() *stubReviewRepo {
	return &stubReviewRepo{
		reviews:   map[uuid.UUID]*models.Review{},
		purchases: map[uuid.UUID]map[uuid.UUID]bool{},
	}
}

func (r *stubReviewRepo) markDelivered(userID, productID uuid.UUID) {
	if r.purchases[userID] == nil {
		r.purchases[userID] = map[uuid.UUID]bool{}
	}
	r.purchases[userID][productID] = true
}

func (r *stubReviewRepo) WithTx(tx *gorm.DB) Repository { return r }

func (r *stubReviewRepo) Create(ctx context.Context, review *models.Review) error {
	if r.createErr != nil {
		return r.createErr
	}
	review.ID = uuid.New()
	r.reviews[review.ID] = review
	return nil
}

func (r *stubReviewRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	review, ok := r.reviews[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return review, nil
}

func (r *stubReviewRepo) ListByProduct(ctx context.Context, productID uuid.UUID, params pagination.Params) ([]models.Review, int64, error) {
	var matched []models.Review
	for _, review := range r.reviews {
		if review.ProductID == productID {
			matched = append(matched, *review)
		}
	}
	return matched, int64(len(matched)), nil
}

func (r *stubReviewRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.reviews, id)
	return nil
}

func (r *stubReviewRepo) HasDeliveredPurchase(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	return r.purchases[userID][productID], nil
}

type stubProductChecker struct {
	known map[uuid.UUID]bool
}

func (c *stubProductChecker) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if !c.known[id] {
		return nil, gorm.ErrRecordNotFound
	}
	return &models.Product{ID: id, Name: "Sourdough Loaf"}, nil
}

func buildService(t *testing.T, repo *stubReviewRepo, productIDs ...uuid.UUID) Service {
	t.Helper()
	known := map[uuid.UUID]bool{}
	for _, id := range productIDs {
		known[id] = true
	}
	svc, err := NewService(repo, &stubProductChecker{known: known})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func TestCreateRequiresDeliveredPurchase(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	userID := uuid.New()
	repo := newStubReviewRepo()
	svc := buildService(t, repo, productID)

	_, err := svc.Create(context.Background(), userID, productID, CreateInput{Rating: 5})
	if !pkgerrors.Is(err, pkgerrors.CodeForbidden) {
		t.Fatalf("review without a delivered order should be forbidden, got %v", err)
	}

	repo.markDelivered(userID, productID)
	dto, err := svc.Create(context.Background(), userID, productID, CreateInput{Rating: 5})
	if err != nil {
		t.Fatalf("create after delivery: %v", err)
	}
	if dto.Rating != 5 || dto.ProductID != productID {
		t.Fatalf("unexpected review %+v", dto)
	}
}

func TestCreateValidatesRating(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	userID := uuid.New()
	repo := newStubReviewRepo()
	repo.markDelivered(userID, productID)
	svc := buildService(t, repo, productID)

	for _, rating := range []int{0, -1, 6} {
		if _, err := svc.Create(context.Background(), userID, productID, CreateInput{Rating: rating}); !pkgerrors.Is(err, pkgerrors.CodeValidation) {
			t.Fatalf("rating %d should fail validation, got %v", rating, err)
		}
	}
}

func TestCreateUnknownProduct(t *testing.T) {
	t.Parallel()

	repo := newStubReviewRepo()
	svc := buildService(t, repo)

	_, err := svc.Create(context.Background(), uuid.New(), uuid.New(), CreateInput{Rating: 4})
	if !pkgerrors.Is(err, pkgerrors.CodeNotFound) {
		t.Fatalf("unknown product should be not found, got %v", err)
	}
}

func TestCreateDuplicateReview(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	userID := uuid.New()
	repo := newStubReviewRepo()
	repo.markDelivered(userID, productID)
	repo.createErr = &pgconn.PgError{Code: "23505", ConstraintName: "reviews_product_id_user_id_key"}
	svc := buildService(t, repo, productID)

	_, err := svc.Create(context.Background(), userID, productID, CreateInput{Rating: 3})
	if !pkgerrors.Is(err, pkgerrors.CodeConflict) {
		t.Fatalf("duplicate review should conflict, got %v", err)
	}
}

func TestDeleteAuthorAndAdmin(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	author := uuid.New()
	repo := newStubReviewRepo()
	repo.markDelivered(author, productID)
	svc := buildService(t, repo, productID)

	dto, err := svc.Create(context.Background(), author, productID, CreateInput{Rating: 4})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// A random customer cannot delete someone else's review.
	if err := svc.Delete(context.Background(), uuid.New(), enums.RoleCustomer, dto.ID); !pkgerrors.Is(err, pkgerrors.CodeForbidden) {
		t.Fatalf("foreign delete should be forbidden, got %v", err)
	}

	// The author can.
	if err := svc.Delete(context.Background(), author, enums.RoleCustomer, dto.ID); err != nil {
		t.Fatalf("author delete: %v", err)
	}

	// An admin can delete any review.
	second, err := svc.Create(context.Background(), author, productID, CreateInput{Rating: 2})
	if err != nil {
		t.Fatalf("recreate: %v", err)
	}
	if err := svc.Delete(context.Background(), uuid.New(), enums.RoleAdmin, second.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}

	if err := svc.Delete(context.Background(), author, enums.RoleCustomer, second.ID); !pkgerrors.Is(err, pkgerrors.CodeNotFound) {
		t.Fatalf("deleting a missing review should be not found, got %v", err)
	}
}

func TestListByProduct(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	userID := uuid.New()
	repo := newStubReviewRepo()
	repo.markDelivered(userID, productID)
	svc := buildService(t, repo, productID)

	comment := "Crust for days."
	if _, err := svc.Create(context.Background(), userID, productID, CreateInput{Rating: 5, Comment: &comment}); err != nil {
		t.Fatalf("create: %v", err)
	}

	list, err := svc.ListByProduct(context.Background(), productID, pagination.Params{Page: 1, Limit: 20})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list.Reviews) != 1 || list.Meta.Total != 1 {
		t.Fatalf("unexpected listing %+v", list)
	}
	if list.Reviews[0].Comment == nil || *list.Reviews[0].Comment != comment {
		t.Fatalf("comment not preserved: %+v", list.Reviews[0])
	}
}
