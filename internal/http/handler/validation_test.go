package handler

import (
	"strings"
	"testing"

	"github.com/crestline-dev/budget-api/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireFieldError(t *testing.T, err error, field, tag string) {
	t.Helper()
	var ve validator.ValidationErrors
	require.ErrorAs(t, err, &ve)
	for _, fe := range ve {
		if fe.Field() == field && fe.Tag() == tag {
			return
		}
	}
	t.Fatalf("expected %s to fail on %q, got %v", field, tag, err)
}

func TestValidateCreateBudgetRequest(t *testing.T) {
	t.Run("name is optional", func(t *testing.T) {
		err := validate.Struct(&domain.CreateBudgetRequest{
			ProjectID: uuid.New(),
		})
		assert.NoError(t, err)
	})

	t.Run("name over limit", func(t *testing.T) {
		err := validate.Struct(&domain.CreateBudgetRequest{
			ProjectID:  uuid.New(),
			BudgetName: strings.Repeat("x", 201),
		})
		requireFieldError(t, err, "BudgetName", "max")
	})

	t.Run("project is required", func(t *testing.T) {
		err := validate.Struct(&domain.CreateBudgetRequest{})
		requireFieldError(t, err, "ProjectID", "required")
	})
}

func TestValidateCreateChangeOrderRequest(t *testing.T) {
	valid := func() *domain.CreateChangeOrderRequest {
		return &domain.CreateChangeOrderRequest{
			ProjectID:      uuid.New(),
			BudgetID:       uuid.New(),
			Title:          "Rock excavation",
			Reason:         domain.ReasonUnforeseenCondition,
			ContractorName: "Hayes Excavating",
			Amount:         4200,
		}
	}

	t.Run("complete request", func(t *testing.T) {
		assert.NoError(t, validate.Struct(valid()))
	})

	t.Run("contractor name is required", func(t *testing.T) {
		req := valid()
		req.ContractorName = ""
		requireFieldError(t, validate.Struct(req), "ContractorName", "required")
	})
}
