package services

import (
	"context"
	"testing"

	"schedulepro/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestEquipmentService_Condition(t *testing.T) {
	tests := []struct {
		name      string
		in        EquipmentInput
		wantMsg   string
		condition *string
	}{
		{name: "valid condition", in: EquipmentInput{Name: "Drone", SerialNumber: "DJ-1", Condition: stringPtr("fair")}, condition: stringPtr("fair")},
		{name: "blank condition is null", in: EquipmentInput{Name: "Drone", SerialNumber: "DJ-1", Condition: stringPtr("")}},
		{name: "omitted condition", in: EquipmentInput{Name: "Drone", SerialNumber: "DJ-1"}},
		{name: "unknown condition", in: EquipmentInput{Name: "Drone", SerialNumber: "DJ-1", Condition: stringPtr("broken")}, wantMsg: msgEquipmentCondition},
		{name: "missing serial", in: EquipmentInput{Name: "Drone"}, wantMsg: msgEquipmentRequired},
		{name: "missing name wins over condition", in: EquipmentInput{SerialNumber: "DJ-1", Condition: stringPtr("broken")}, wantMsg: msgEquipmentRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			repo := &MockEquipmentRepository{}
			repo.On("Create", ctx, mock.Anything).Return(nil).Maybe()
			svc := NewEquipmentService(repo, &MockTracker{})

			in := tt.in
			equipment, err := svc.Create(ctx, uuid.New(), &in)

			if tt.wantMsg != "" {
				vErr, ok := IsValidationError(err)
				require.True(t, ok)
				assert.Equal(t, tt.wantMsg, vErr.Message)
				repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.condition, equipment.Condition)
		})
	}
}

func TestEquipmentService_DeleteReturnsRow(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	id := uuid.New()

	repo := &MockEquipmentRepository{}
	repo.On("SoftDelete", ctx, companyID, id).Return(&models.Equipment{ID: id, IsDeleted: true}, nil)
	svc := NewEquipmentService(repo, &MockTracker{})

	equipment, err := svc.Delete(ctx, companyID, id)

	require.NoError(t, err)
	assert.True(t, equipment.IsDeleted)
	repo.AssertExpectations(t)
}
