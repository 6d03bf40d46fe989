package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/agamariel/mastermarket/internal/models"
	"github.com/agamariel/mastermarket/internal/storage"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrInvalidPrice = errors.New("price must be positive")

// CatalogService определяет операции над каталогом услуг мастеров.
type CatalogService interface {
	CreateService(ctx context.Context, actorID uuid.UUID, role models.Role, req *models.CreateServiceRequest) (*models.ServiceResponse, error)
	UpdateService(ctx context.Context, serviceID, actorID uuid.UUID, role models.Role, req *models.UpdateServiceRequest) (*models.ServiceResponse, error)
	DeactivateService(ctx context.Context, serviceID, actorID uuid.UUID, role models.Role) error
	GetService(ctx context.Context, serviceID uuid.UUID) (*models.ServiceResponse, error)
	ListServices(ctx context.Context, filter models.ServiceFilter) ([]*models.ServiceResponse, error)
}

// CatalogServiceImpl реализует CatalogService.
type CatalogServiceImpl struct {
	catalog    storage.ServiceStorage
	masters    storage.MasterStorage
	categories storage.CategoryStorage
}

// NewCatalogService создаёт новый сервис каталога услуг.
func NewCatalogService(catalog storage.ServiceStorage, masters storage.MasterStorage, categories storage.CategoryStorage) *CatalogServiceImpl {
	return &CatalogServiceImpl{
		catalog:    catalog,
		masters:    masters,
		categories: categories,
	}
}

// CreateService добавляет услугу в каталог мастера. Услуги создаёт
// мастер для собственного профиля.
func (s *CatalogServiceImpl) CreateService(ctx context.Context, actorID uuid.UUID, role models.Role, req *models.CreateServiceRequest) (*models.ServiceResponse, error) {
	if role != models.RoleMaster && role != models.RoleAdmin {
		return nil, ErrForbidden
	}
	if req.Price <= 0 {
		return nil, ErrInvalidPrice
	}

	master, err := s.masters.GetByUserID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	category, err := s.categories.GetByID(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}
	if !category.IsActive {
		return nil, storage.ErrCategoryNotFound
	}

	service := &models.Service{
		MasterID:      master.ID,
		CategoryID:    category.ID,
		Name:          req.Name,
		Description:   req.Description,
		Price:         decimal.NewFromFloat(req.Price),
		DurationHours: 1,
	}
	if req.DurationHours > 0 {
		service.DurationHours = req.DurationHours
	}

	if err := s.catalog.Create(ctx, service); err != nil {
		return nil, err
	}

	return service.ToResponse(), nil
}

// UpdateService обновляет услугу. Доступно мастеру-владельцу и админу.
// Изменение цены не затрагивает цены в уже созданных заказах: там
// хранится снимок на момент создания.
func (s *CatalogServiceImpl) UpdateService(ctx context.Context, serviceID, actorID uuid.UUID, role models.Role, req *models.UpdateServiceRequest) (*models.ServiceResponse, error) {
	service, err := s.catalog.GetByID(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	if err := s.checkOwnership(ctx, service, actorID, role); err != nil {
		return nil, err
	}

	if req.Name != nil {
		service.Name = *req.Name
	}
	if req.Description != nil {
		service.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return nil, ErrInvalidPrice
		}
		service.Price = decimal.NewFromFloat(*req.Price)
	}
	if req.DurationHours != nil {
		service.DurationHours = *req.DurationHours
	}
	if req.IsActive != nil {
		service.IsActive = *req.IsActive
	}

	if err := s.catalog.Update(ctx, service); err != nil {
		return nil, err
	}

	return service.ToResponse(), nil
}

// DeactivateService помечает услугу неактивной вместо удаления: на неё
// могут ссылаться позиции существующих заказов.
func (s *CatalogServiceImpl) DeactivateService(ctx context.Context, serviceID, actorID uuid.UUID, role models.Role) error {
	service, err := s.catalog.GetByID(ctx, serviceID)
	if err != nil {
		return err
	}

	if err := s.checkOwnership(ctx, service, actorID, role); err != nil {
		return err
	}

	return s.catalog.Deactivate(ctx, serviceID)
}

// GetService возвращает услугу по ID.
func (s *CatalogServiceImpl) GetService(ctx context.Context, serviceID uuid.UUID) (*models.ServiceResponse, error) {
	service, err := s.catalog.GetByID(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	return service.ToResponse(), nil
}

// ListServices возвращает активные услуги по фильтру.
func (s *CatalogServiceImpl) ListServices(ctx context.Context, filter models.ServiceFilter) ([]*models.ServiceResponse, error) {
	services, err := s.catalog.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}

	resp := make([]*models.ServiceResponse, 0, len(services))
	for _, service := range services {
		resp = append(resp, service.ToResponse())
	}

	return resp, nil
}

// checkOwnership проверяет, что актор владеет услугой либо является
// админом.
func (s *CatalogServiceImpl) checkOwnership(ctx context.Context, service *models.Service, actorID uuid.UUID, role models.Role) error {
	if role == models.RoleAdmin {
		return nil
	}

	master, err := s.masters.GetByUserID(ctx, actorID)
	if err != nil {
		if errors.Is(err, storage.ErrMasterNotFound) {
			return ErrForbidden
		}
		return err
	}

	if master.ID != service.MasterID {
		return ErrForbidden
	}

	return nil
}
