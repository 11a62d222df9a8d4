package services

import (
	"context"

	"github.com/Dosada05/talent-platform/models"
	"github.com/Dosada05/talent-platform/repositories"
)

// AdminService backs the staff console.
type AdminService interface {
	ListConsentRequests(ctx context.Context, filter models.ConsentRequestFilter) ([]*models.ParentalConsentRequest, error)
	ListUsers(ctx context.Context, filter models.UserFilter) (*models.UserList, error)
}

type adminService struct {
	consentRepo repositories.ConsentRepository
	userRepo    repositories.UserRepository
}

func NewAdminService(consentRepo repositories.ConsentRepository, userRepo repositories.UserRepository) AdminService {
	return &adminService{consentRepo: consentRepo, userRepo: userRepo}
}

func (s *adminService) ListConsentRequests(ctx context.Context, filter models.ConsentRequestFilter) ([]*models.ParentalConsentRequest, error) {
	return s.consentRepo.List(ctx, filter)
}

func (s *adminService) ListUsers(ctx context.Context, filter models.UserFilter) (*models.UserList, error) {
	return s.userRepo.List(ctx, filter)
}
