package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainErrors "github.com/PankiTrejd/naracki/internal/domain/errors"
	"github.com/PankiTrejd/naracki/internal/domain/model"
	testhelpers "github.com/PankiTrejd/naracki/internal/test"
)

func TestExpenseUseCaseCreateValidates(t *testing.T) {
	uc := NewExpenseUseCase(testhelpers.NewExpenseRepositoryStub(), testhelpers.NopLogger())
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	invalid := []model.ExpenseDraft{
		{Description: " ", Amount: decimal.NewFromInt(1), Date: day},
		{Description: "Fuel", Amount: decimal.NewFromInt(-5), Date: day},
		{Description: "Fuel", Amount: decimal.NewFromInt(5)},
	}
	for _, draft := range invalid {
		if _, err := uc.Create(context.Background(), draft); !errors.Is(err, domainErrors.ErrValidation) {
			t.Fatalf("expected validation error for %+v, got %v", draft, err)
		}
	}

	expense, err := uc.Create(context.Background(), model.ExpenseDraft{Description: " Fuel ", Amount: decimal.Zero, Date: day})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if expense.Description != "Fuel" {
		t.Fatalf("expected trimmed description, got %q", expense.Description)
	}
}

func TestExpenseUseCaseDeleteWindow(t *testing.T) {
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	repo := testhelpers.NewExpenseRepositoryStub()
	repo.Now = func() time.Time { return created }
	uc := NewExpenseUseCase(repo, testhelpers.NopLogger())

	draft := model.ExpenseDraft{Description: "Boxes", Amount: decimal.NewFromInt(300), Date: created}
	first, err := uc.Create(context.Background(), draft)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := uc.Create(context.Background(), draft)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	uc.now = func() time.Time { return created.Add(29 * time.Minute) }
	if err := uc.Delete(context.Background(), first.ID); err != nil {
		t.Fatalf("expected delete inside window to succeed, got %v", err)
	}

	uc.now = func() time.Time { return created.Add(31 * time.Minute) }
	err = uc.Delete(context.Background(), second.ID)
	if !errors.Is(err, domainErrors.ErrPermission) {
		t.Fatalf("expected permission error, got %v", err)
	}
	if _, ok := repo.Items[second.ID]; !ok {
		t.Fatalf("expense must survive refused delete")
	}
}

func TestExpenseUseCaseDeleteNotFound(t *testing.T) {
	uc := NewExpenseUseCase(testhelpers.NewExpenseRepositoryStub(), testhelpers.NopLogger())
	if err := uc.Delete(context.Background(), uuid.New()); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestExpenseUseCaseListPropagatesError(t *testing.T) {
	repo := testhelpers.NewExpenseRepositoryStub()
	repo.Err = domainErrors.ErrTimeout
	uc := NewExpenseUseCase(repo, testhelpers.NopLogger())
	if _, err := uc.List(context.Background()); !errors.Is(err, domainErrors.ErrTimeout) {
		t.Fatalf("expected timeout, got %v", err)
	}
}
