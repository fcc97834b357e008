package service

import (
	"context"
	"fmt"

	"github.com/clinichub/clinic-booking/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ClinicCatalogStore interface {
	Create(ctx context.Context, clinic *model.Clinic) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Clinic, error)
	List(ctx context.Context) ([]*model.Clinic, error)
}

type MedicalServiceStore interface {
	Create(ctx context.Context, svc *model.MedicalService) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.MedicalService, error)
	ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*model.MedicalService, error)
}

// ClinicService manages the clinic catalog and the medical services each
// clinic offers.
type ClinicService struct {
	clinics  ClinicCatalogStore
	services MedicalServiceStore
	logger   *zap.Logger
}

func NewClinicService(clinics ClinicCatalogStore, services MedicalServiceStore, logger *zap.Logger) *ClinicService {
	return &ClinicService{
		clinics:  clinics,
		services: services,
		logger:   logger,
	}
}

type CreateClinicRequest struct {
	Name        string
	Email       string
	Hotline     string
	Address     string
	Description string
	Logo        *string
}

// CreateClinic adds a clinic to the catalog. Admin only.
func (s *ClinicService) CreateClinic(ctx context.Context, actor model.ActorContext, req CreateClinicRequest) (*model.Clinic, error) {
	if !actor.IsAdmin() {
		return nil, forbidden(MsgForbidden)
	}
	if req.Name == "" || req.Address == "" {
		return nil, badRequest(MsgMissingRequiredFields)
	}

	clinic := &model.Clinic{
		Name:        req.Name,
		Email:       req.Email,
		Hotline:     req.Hotline,
		Address:     req.Address,
		Status:      model.StatusActive,
		Description: req.Description,
		Logo:        req.Logo,
	}

	if err := s.clinics.Create(ctx, clinic); err != nil {
		return nil, fmt.Errorf("create clinic: %w", err)
	}

	s.logger.Info("Clinic created",
		zap.String("clinic_id", clinic.ID.String()),
		zap.String("name", clinic.Name),
	)

	return clinic, nil
}

// GetClinic returns one clinic.
func (s *ClinicService) GetClinic(ctx context.Context, id uuid.UUID) (*model.Clinic, error) {
	clinic, err := s.clinics.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get clinic: %w", err)
	}
	if clinic == nil {
		return nil, notFound(MsgClinicNotFound)
	}
	return clinic, nil
}

// ListClinics returns the whole catalog.
func (s *ClinicService) ListClinics(ctx context.Context) ([]*model.Clinic, error) {
	return s.clinics.List(ctx)
}

type CreateMedicalServiceRequest struct {
	Name          string
	OriginalPrice *float64
	CurrentPrice  float64
	Type          model.MedicalServiceType
	ClinicID      uuid.UUID
}

// CreateMedicalService adds a service to a clinic's offer. Admin only.
func (s *ClinicService) CreateMedicalService(ctx context.Context, actor model.ActorContext, req CreateMedicalServiceRequest) (*model.MedicalService, error) {
	if !actor.IsAdmin() {
		return nil, forbidden(MsgForbidden)
	}
	if req.Name == "" || req.CurrentPrice == 0 || req.Type == 0 || req.ClinicID == uuid.Nil {
		return nil, badRequest(MsgMissingRequiredFields)
	}

	clinic, err := s.clinics.GetByID(ctx, req.ClinicID)
	if err != nil {
		return nil, fmt.Errorf("get clinic: %w", err)
	}
	if clinic == nil {
		return nil, notFound(MsgClinicNotFound)
	}

	svc := &model.MedicalService{
		Name:          req.Name,
		OriginalPrice: req.OriginalPrice,
		CurrentPrice:  req.CurrentPrice,
		Type:          req.Type,
		ClinicID:      req.ClinicID,
	}

	if err := s.services.Create(ctx, svc); err != nil {
		return nil, fmt.Errorf("create medical service: %w", err)
	}

	return svc, nil
}

// GetMedicalService returns one medical service.
func (s *ClinicService) GetMedicalService(ctx context.Context, id uuid.UUID) (*model.MedicalService, error) {
	svc, err := s.services.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get medical service: %w", err)
	}
	if svc == nil {
		return nil, notFound(MsgMedicalServiceNotFound)
	}
	return svc, nil
}

// ListMedicalServices returns a clinic's offered services.
func (s *ClinicService) ListMedicalServices(ctx context.Context, clinicID uuid.UUID) ([]*model.MedicalService, error) {
	clinic, err := s.clinics.GetByID(ctx, clinicID)
	if err != nil {
		return nil, fmt.Errorf("get clinic: %w", err)
	}
	if clinic == nil {
		return nil, notFound(MsgClinicNotFound)
	}
	return s.services.ListByClinic(ctx, clinicID)
}
