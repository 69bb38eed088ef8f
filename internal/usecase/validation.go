package usecase

import (
	"strings"

	domainErrors "github.com/PankiTrejd/naracki/internal/domain/errors"
	"github.com/PankiTrejd/naracki/internal/domain/model"
)

// ValidateOrderDraft checks required order fields.
func ValidateOrderDraft(d model.OrderDraft) error {
	switch {
	case strings.TrimSpace(d.CustomerName) == "":
		return domainErrors.Validationf("customer name is required")
	case strings.TrimSpace(d.Address.Street) == "":
		return domainErrors.Validationf("street is required")
	case strings.TrimSpace(d.Address.City) == "":
		return domainErrors.Validationf("city is required")
	case strings.TrimSpace(d.PhoneNumber) == "":
		return domainErrors.Validationf("phone number is required")
	case d.TotalPrice.IsNegative():
		return domainErrors.Validationf("total price must not be negative")
	}

	if s := d.Shipment; s != nil {
		switch {
		case strings.TrimSpace(s.ShipmentType) == "":
			return domainErrors.Validationf("shipment type is required")
		case s.PackageValue.IsNegative():
			return domainErrors.Validationf("package value must not be negative")
		case s.NumberOfPackages < 0:
			return domainErrors.Validationf("number of packages must not be negative")
		}
	}
	return nil
}

// ValidateFiles checks uploaded files before anything is stored.
func ValidateFiles(files []model.UploadedFile) error {
	seen := make(map[string]struct{}, len(files))
	for _, f := range files {
		name := model.AttachmentName(f.Name)
		if name == "/" || name == "." || name == ".." {
			return domainErrors.Validationf("file name is required")
		}
		if len(f.Data) == 0 {
			return domainErrors.Validationf("file %q is empty", name)
		}
		// reduced names share one key space per order
		if _, dup := seen[name]; dup {
			return domainErrors.Validationf("duplicate file name %q", name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

// ValidateExpenseDraft checks required expense fields.
func ValidateExpenseDraft(d model.ExpenseDraft) error {
	switch {
	case strings.TrimSpace(d.Description) == "":
		return domainErrors.Validationf("description is required")
	case d.Amount.IsNegative():
		return domainErrors.Validationf("amount must not be negative")
	case d.Date.IsZero():
		return domainErrors.Validationf("date is required")
	}
	return nil
}

// ValidateGoalUpdate rejects empty updates and negative amounts.
func ValidateGoalUpdate(u model.GoalUpdate) error {
	switch {
	case u.Empty():
		return domainErrors.Validationf("no fields to update")
	case u.Name != nil && strings.TrimSpace(*u.Name) == "":
		return domainErrors.Validationf("name must not be empty")
	case u.GoalAmount != nil && u.GoalAmount.IsNegative():
		return domainErrors.Validationf("goal amount must not be negative")
	case u.CurrentAmount != nil && u.CurrentAmount.IsNegative():
		return domainErrors.Validationf("current amount must not be negative")
	}
	return nil
}

func normalizeOrderFilter(f model.OrderFilter) (model.OrderFilter, error) {
	if f.Status != nil && !f.Status.Valid() {
		return f, domainErrors.Validationf("unknown status %q", *f.Status)
	}
	if f.Offset < 0 {
		return f, domainErrors.Validationf("offset must not be negative")
	}
	switch {
	case f.Limit <= 0:
		f.Limit = model.DefaultOrderPageSize
	case f.Limit > model.MaxOrderPageSize:
		f.Limit = model.MaxOrderPageSize
	}
	return f, nil
}
