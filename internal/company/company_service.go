package company

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"go-zampay/internal/audit"
	companyerrors "go-zampay/internal/company/errors"
	"go-zampay/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -destination=mock/company_service_mock.go -package=mock . Service
type Service interface {
	GetByID(ctx context.Context, id string) (*CompanyResponse, error)
	Update(ctx context.Context, id string, req UpdateCompanyRequest) (*CompanyResponse, error)

	UpsertRegistration(ctx context.Context, companyID string, req UpsertCompanyRegistrationRequest) error
	ListRegistrations(ctx context.Context, companyID string) ([]CompanyRegistrationResponse, error)
	DeleteRegistration(ctx context.Context, companyID string, regType RegistrationType) error
}

type service struct {
	db      *sql.DB
	repo    Repository
	auditor audit.Recorder
	logger  *zap.Logger
}

func NewService(db *sql.DB, repo Repository, auditor audit.Recorder, logger ...*zap.Logger) Service {
	l := zap.L().Named("company.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("company.service")
	}
	return &service{db: db, repo: repo, auditor: auditor, logger: l}
}

func (s *service) GetByID(ctx context.Context, id string) (*CompanyResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, companyerrors.ErrInvalidCompanyID
	}

	comp, err := s.repo.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, companyerrors.ErrCompanyNotFound
		}
		return nil, err
	}

	return s.mapToResponse(comp), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateCompanyRequest) (*CompanyResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, companyerrors.ErrInvalidCompanyID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update company begin tx failed", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	comp, err := qtx.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, companyerrors.ErrCompanyNotFound
		}
		return nil, err
	}
	before := comp.AuditSnapshot()

	if req.Name != "" {
		comp.Name = req.Name
	}
	if req.Email != "" {
		comp.Email = req.Email
	}
	if req.Phone != "" {
		comp.Phone = req.Phone
	}
	if req.Address != "" {
		comp.Address = req.Address
	}
	if req.IsActive != nil {
		comp.IsActive = *req.IsActive
	}

	if err := qtx.Update(ctx, comp); err != nil {
		s.logger.Error("update company persist failed", zap.Error(err))
		return nil, err
	}

	if err := s.auditor.WithTx(tx).Record(ctx, "Company", comp.ID.String(), audit.ActionUpdated,
		before, comp.AuditSnapshot(), contextutil.GetActorID(ctx), nil); err != nil {
		s.logger.Error("update company audit write failed", zap.Error(err))
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update company commit failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("update company success", zap.String("company_id", id))
	return s.mapToResponse(comp), nil
}

func (s *service) UpsertRegistration(ctx context.Context, companyID string, req UpsertCompanyRegistrationRequest) error {
	id, err := uuid.Parse(companyID)
	if err != nil {
		return companyerrors.ErrInvalidCompanyID
	}

	if !req.Type.Valid() {
		return companyerrors.ErrInvalidRegistrationType
	}
	if strings.TrimSpace(req.Number) == "" {
		return companyerrors.ErrMissingRequiredFields
	}

	reg := &CompanyRegistration{
		CompanyID: id,
		Type:      req.Type,
		Number:    req.Number,
		IssuedAt:  req.IssuedAt,
	}

	if err := s.repo.UpsertRegistration(ctx, reg); err != nil {
		s.logger.Error("upsert registration failed",
			zap.String("company_id", companyID),
			zap.String("type", string(req.Type)),
			zap.Error(err),
		)
		return err
	}

	s.logger.Info("registration upserted",
		zap.String("company_id", companyID),
		zap.String("type", string(req.Type)),
	)
	return nil
}

func (s *service) ListRegistrations(ctx context.Context, companyID string) ([]CompanyRegistrationResponse, error) {
	id, err := uuid.Parse(companyID)
	if err != nil {
		return nil, companyerrors.ErrInvalidCompanyID
	}

	regs, err := s.repo.GetRegistrationsByCompanyID(ctx, id)
	if err != nil {
		return nil, err
	}

	result := make([]CompanyRegistrationResponse, 0, len(regs))
	for _, r := range regs {
		result = append(result, CompanyRegistrationResponse{
			ID:        r.ID.String(),
			Type:      r.Type,
			Number:    r.Number,
			IssuedAt:  r.IssuedAt,
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		})
	}

	return result, nil
}

func (s *service) DeleteRegistration(ctx context.Context, companyID string, regType RegistrationType) error {
	id, err := uuid.Parse(companyID)
	if err != nil {
		return companyerrors.ErrInvalidCompanyID
	}

	if !regType.Valid() {
		return companyerrors.ErrInvalidRegistrationType
	}

	if err := s.repo.DeleteRegistration(ctx, id, regType); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return companyerrors.ErrRegistrationNotFound
		}
		return err
	}

	return nil
}

func (s *service) mapToResponse(c *Company) *CompanyResponse {
	return &CompanyResponse{
		ID:       c.ID.String(),
		Name:     c.Name,
		Email:    c.Email,
		Phone:    c.Phone,
		Address:  c.Address,
		IsActive: c.IsActive,
	}
}
