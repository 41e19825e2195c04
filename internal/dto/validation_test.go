package dto_test

import (
	"testing"
	"time"

	"github.com/SscSPs/bizdesk/internal/apperrors"
	"github.com/SscSPs/bizdesk/internal/core/domain"
	"github.com/SscSPs/bizdesk/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_FieldMessagesKeyedByJSONPath(t *testing.T) {
	req := dto.SaleRequest{
		PaymentMethod: "",
		Items: []dto.LineItemRequest{
			{Description: "Cup", Quantity: decimal.Zero, UnitPrice: decimal.NewFromInt(5)},
		},
	}

	err := dto.Validate(req)

	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Equal(t, "is required", appErr.Fields["paymentMethod"])
	assert.Contains(t, appErr.Fields["items[0].quantity"], "greater than")
}

func TestValidate_AcceptsValidTransaction(t *testing.T) {
	req := dto.TransactionRequest{
		Type:        "EXPENSE",
		Description: "Rent",
		Amount:      decimal.RequireFromString("1200.00"),
		DueDate:     time.Now(),
	}
	assert.NoError(t, dto.Validate(req))
}

func TestValidate_RejectsUnknownRole(t *testing.T) {
	err := dto.Validate(dto.TeamRoleRequest{Role: "ADMIN"})
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Fields["role"], "must be one of")
}

func TestTeamRoleBindingMatchesAssignableRoles(t *testing.T) {
	for _, role := range domain.AssignableTeamRoles {
		assert.NoError(t, dto.Validate(dto.TeamRoleRequest{Role: string(role)}), role)
	}
	for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleOperator} {
		assert.Error(t, dto.Validate(dto.TeamRoleRequest{Role: string(role)}), role)
	}
}

func TestListQuery_ToParams(t *testing.T) {
	p := dto.ListQuery{Page: -1, PageSize: 500}.ToParams()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 100, p.PageSize)
}
