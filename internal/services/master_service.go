package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/agamariel/mastermarket/internal/models"
	"github.com/agamariel/mastermarket/internal/storage"
	"github.com/agamariel/mastermarket/internal/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrInvalidWorkSchedule = errors.New("invalid work schedule")

// MasterService определяет операции над профилями мастеров.
type MasterService interface {
	CreateProfile(ctx context.Context, userID uuid.UUID, req *models.CreateMasterRequest) (*models.MasterResponse, error)
	UpdateProfile(ctx context.Context, masterID, actorID uuid.UUID, role models.Role, req *models.UpdateMasterRequest) (*models.MasterResponse, error)
	GetMaster(ctx context.Context, masterID uuid.UUID) (*models.MasterResponse, error)
	ListMasters(ctx context.Context, filter models.MasterFilter) ([]*models.MasterResponse, error)
}

// MasterServiceImpl реализует MasterService.
type MasterServiceImpl struct {
	masters    storage.MasterStorage
	users      storage.UserStorage
	categories storage.CategoryStorage
}

// NewMasterService создаёт новый сервис профилей мастеров.
func NewMasterService(masters storage.MasterStorage, users storage.UserStorage, categories storage.CategoryStorage) *MasterServiceImpl {
	return &MasterServiceImpl{
		masters:    masters,
		users:      users,
		categories: categories,
	}
}

// CreateProfile создаёт профиль мастера для пользователя. На одного
// пользователя допускается один профиль; роль пользователя повышается
// до master. Производные агрегаты стартуют с нуля и клиентом не
// задаются.
func (s *MasterServiceImpl) CreateProfile(ctx context.Context, userID uuid.UUID, req *models.CreateMasterRequest) (*models.MasterResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
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

	master := &models.Master{
		UserID:         userID,
		CategoryID:     category.ID,
		Specialization: req.Specialization,
		Description:    req.Description,
		IsAvailable:    true,
		WorkHoursStart: "09:00",
		WorkHoursEnd:   "18:00",
		WorkDays:       "1,2,3,4,5,6",
	}

	if req.ExperienceYears > 0 {
		master.ExperienceYears = req.ExperienceYears
	}
	if req.BasePrice > 0 {
		master.BasePrice = decimal.NewFromFloat(req.BasePrice)
	}
	if req.WorkHoursStart != "" {
		master.WorkHoursStart = req.WorkHoursStart
	}
	if req.WorkHoursEnd != "" {
		master.WorkHoursEnd = req.WorkHoursEnd
	}
	if req.WorkDays != "" {
		master.WorkDays = req.WorkDays
	}

	if err := s.validateSchedule(master); err != nil {
		return nil, err
	}

	if err := s.masters.Create(ctx, master); err != nil {
		return nil, err
	}

	if user.Role == models.RoleClient {
		if err := s.users.UpdateRole(ctx, userID, models.RoleMaster); err != nil {
			return nil, fmt.Errorf("promote user to master: %w", err)
		}
	}

	return master.ToResponse(), nil
}

// UpdateProfile обновляет профиль мастера. Доступно владельцу профиля
// и админу. Поля rating, total_reviews и total_orders из запроса не
// принимаются.
func (s *MasterServiceImpl) UpdateProfile(ctx context.Context, masterID, actorID uuid.UUID, role models.Role, req *models.UpdateMasterRequest) (*models.MasterResponse, error) {
	master, err := s.masters.GetByID(ctx, masterID)
	if err != nil {
		return nil, err
	}

	if role != models.RoleAdmin && master.UserID != actorID {
		return nil, ErrForbidden
	}

	if req.CategoryID != nil {
		category, err := s.categories.GetByID(ctx, *req.CategoryID)
		if err != nil {
			return nil, err
		}
		if !category.IsActive {
			return nil, storage.ErrCategoryNotFound
		}
		master.CategoryID = category.ID
	}
	if req.Specialization != nil {
		master.Specialization = *req.Specialization
	}
	if req.ExperienceYears != nil {
		master.ExperienceYears = *req.ExperienceYears
	}
	if req.Description != nil {
		master.Description = *req.Description
	}
	if req.BasePrice != nil {
		master.BasePrice = decimal.NewFromFloat(*req.BasePrice)
	}
	if req.IsAvailable != nil {
		master.IsAvailable = *req.IsAvailable
	}
	if req.WorkHoursStart != nil {
		master.WorkHoursStart = *req.WorkHoursStart
	}
	if req.WorkHoursEnd != nil {
		master.WorkHoursEnd = *req.WorkHoursEnd
	}
	if req.WorkDays != nil {
		master.WorkDays = *req.WorkDays
	}

	if err := s.validateSchedule(master); err != nil {
		return nil, err
	}

	if err := s.masters.Update(ctx, master); err != nil {
		return nil, err
	}

	return master.ToResponse(), nil
}

// GetMaster возвращает профиль мастера по ID.
func (s *MasterServiceImpl) GetMaster(ctx context.Context, masterID uuid.UUID) (*models.MasterResponse, error) {
	master, err := s.masters.GetByID(ctx, masterID)
	if err != nil {
		return nil, err
	}
	return master.ToResponse(), nil
}

// ListMasters возвращает мастеров по фильтру.
func (s *MasterServiceImpl) ListMasters(ctx context.Context, filter models.MasterFilter) ([]*models.MasterResponse, error) {
	masters, err := s.masters.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list masters: %w", err)
	}

	resp := make([]*models.MasterResponse, 0, len(masters))
	for _, master := range masters {
		resp = append(resp, master.ToResponse())
	}

	return resp, nil
}

// validateSchedule проверяет рабочие часы и дни профиля.
func (s *MasterServiceImpl) validateSchedule(master *models.Master) error {
	if err := utils.ValidateWorkHours(master.WorkHoursStart, master.WorkHoursEnd); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidWorkSchedule, err)
	}
	if _, err := utils.ParseWorkDays(master.WorkDays); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidWorkSchedule, err)
	}
	return nil
}
