package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/mbmkongo/caisse_management_app/internal/apperrors"
	"github.com/mbmkongo/caisse_management_app/internal/core/domain"
	"github.com/mbmkongo/caisse_management_app/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorize_CapabilityMatrix(t *testing.T) {
	grants := []struct {
		role       domain.Role
		capability domain.Capability
		allowed    bool
	}{
		{domain.RoleAdmin, domain.CapRecordEntries, true},
		{domain.RoleAdmin, domain.CapValidateEntries, true},
		{domain.RoleAdmin, domain.CapAssignOpening, true},
		{domain.RoleAdmin, domain.CapCloseSessions, true},
		{domain.RoleAdmin, domain.CapManageUsers, true},

		{domain.RoleRespCompta, domain.CapRecordEntries, true},
		{domain.RoleRespCompta, domain.CapValidateEntries, true},
		{domain.RoleRespCompta, domain.CapAssignOpening, true},
		{domain.RoleRespCompta, domain.CapCloseSessions, true},
		{domain.RoleRespCompta, domain.CapManageUsers, false},

		{domain.RoleCaissier, domain.CapRecordEntries, true},
		{domain.RoleCaissier, domain.CapValidateEntries, false},
		{domain.RoleCaissier, domain.CapAssignOpening, false},
		{domain.RoleCaissier, domain.CapCloseSessions, false},
		{domain.RoleCaissier, domain.CapManageUsers, false},

		{domain.Role("caissier1"), domain.CapRecordEntries, true},
		{domain.Role("caissier5"), domain.CapRecordEntries, true},
		{domain.Role("caissier5"), domain.CapValidateEntries, false},

		{domain.RoleLogistique, domain.CapRecordEntries, true},
		{domain.RoleLogistique, domain.CapValidateEntries, false},
		{domain.RoleLogistique, domain.CapAssignOpening, false},
		{domain.RoleLogistique, domain.CapManageUsers, false},
	}

	for _, grant := range grants {
		t.Run(string(grant.role)+"/"+string(grant.capability), func(t *testing.T) {
			ctx := context.Background()
			userID := uuid.NewString()
			mockUserRepo := new(MockUserRepository)
			mockUserRepo.On("FindUserByID", ctx, userID).
				Return(&domain.User{UserID: userID, Role: grant.role}, nil).Once()

			service := services.NewAuthzService(mockUserRepo)
			role, err := service.Authorize(ctx, userID, grant.capability)

			if grant.allowed {
				require.NoError(t, err)
				assert.Equal(t, grant.role, role)
			} else {
				require.Error(t, err)
				assert.ErrorIs(t, err, apperrors.ErrForbidden)
			}
		})
	}
}

func TestAuthorize_UnknownUser(t *testing.T) {
	ctx := context.Background()
	userID := uuid.NewString()
	mockUserRepo := new(MockUserRepository)
	mockUserRepo.On("FindUserByID", ctx, userID).Return(nil, apperrors.ErrNotFound).Once()

	service := services.NewAuthzService(mockUserRepo)
	_, err := service.Authorize(ctx, userID, domain.CapRecordEntries)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAutoValidates(t *testing.T) {
	service := services.NewAuthzService(new(MockUserRepository))

	assert.True(t, service.AutoValidates(domain.RoleAdmin))
	assert.True(t, service.AutoValidates(domain.RoleRespCompta))
	assert.False(t, service.AutoValidates(domain.RoleCaissier))
	assert.False(t, service.AutoValidates(domain.Role("caissier2")))
	assert.False(t, service.AutoValidates(domain.RoleLogistique))
}
