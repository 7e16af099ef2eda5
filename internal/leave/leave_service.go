package leave

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	GetByEmployee(ctx context.Context, companyID, employeeID string, page, pageSize int) ([]LeaveRecordResponse, int64, error)
	GetAll(ctx context.Context, companyID, leaveType string, page, pageSize int) ([]LeaveRecordResponse, int64, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) GetByEmployee(ctx context.Context, companyID, employeeID string, page, pageSize int) ([]LeaveRecordResponse, int64, error) {
	limit, offset := pageBounds(page, pageSize)
	records, total, err := s.repo.FindByEmployee(ctx, companyID, employeeID, limit, offset)
	if err != nil {
		s.logger.Error("list leave by employee failed", zap.Error(err))
		return nil, 0, err
	}
	return MapToListResponse(records), total, nil
}

func (s *service) GetAll(ctx context.Context, companyID, leaveType string, page, pageSize int) ([]LeaveRecordResponse, int64, error) {
	limit, offset := pageBounds(page, pageSize)
	records, total, err := s.repo.FindAllByCompany(ctx, companyID, leaveType, limit, offset)
	if err != nil {
		s.logger.Error("list leave failed", zap.Error(err))
		return nil, 0, err
	}
	return MapToListResponse(records), total, nil
}

func pageBounds(page, pageSize int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	return pageSize, (page - 1) * pageSize
}

func MapToResponse(record LeaveRecord) LeaveRecordResponse {
	resp := LeaveRecordResponse{
		ID:                record.ID.String(),
		EmployeeID:        record.EmployeeID.String(),
		LeaveType:         record.LeaveType,
		StartDate:         record.StartDate.Format("2006-01-02"),
		EndDate:           record.EndDate.Format("2006-01-02"),
		DaysCount:         record.DaysCount,
		Status:            record.Status,
		DoctorNoteURL:     record.DoctorNoteURL,
		DeductionType:     record.DeductionType,
		LeaveDaysDeducted: record.LeaveDaysDeducted,
		Comments:          record.Comments,
	}
	if record.HRActionID != nil {
		id := record.HRActionID.String()
		resp.HRActionID = &id
	}
	resp.CommuteValue = decimalString(record.CommuteValue)
	resp.TotalCommuteValue = decimalString(record.TotalCommuteValue)
	resp.DeductionAmount = decimalString(record.DeductionAmount)
	return resp
}

func MapToListResponse(records []LeaveRecord) []LeaveRecordResponse {
	res := make([]LeaveRecordResponse, len(records))
	for i, r := range records {
		res[i] = MapToResponse(r)
	}
	return res
}

func decimalString(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.StringFixed(2)
	return &s
}
