package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"osas-connect/internal/dto"
	"osas-connect/internal/model"
	"osas-connect/internal/repository"
)

var ErrProfileNotFound = errors.New("student profile not found")

// ProfileService student profile
type ProfileService interface {
	GetMine(ctx context.Context, userID string) (*dto.ProfileResponse, error)
	GetByUser(ctx context.Context, userID string) (*dto.ProfileResponse, error)
	UpdateMine(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
	SetDisciplinaryAction(ctx context.Context, userID string, flagged bool, staffID string) (*dto.ProfileResponse, error)
}

type profileService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewProfileService creates a ProfileService
func NewProfileService(repo *repository.Repository, logger *zap.Logger) ProfileService {
	return &profileService{repo: repo, logger: logger}
}

func (s *profileService) GetMine(ctx context.Context, userID string) (*dto.ProfileResponse, error) {
	p, err := s.getProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toProfileResponse(p), nil
}

func (s *profileService) GetByUser(ctx context.Context, userID string) (*dto.ProfileResponse, error) {
	return s.GetMine(ctx, userID)
}

// ────────────────────── UpdateMine ──────────────────────

func (s *profileService) UpdateMine(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	p, err := s.getProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	fields := fieldErrors{}

	if req.StudentID != nil {
		sid := strings.TrimSpace(*req.StudentID)
		if sid == "" {
			fields.add("student_id", "must not be blank")
		} else {
			existing, err := s.repo.Profile.GetByStudentID(ctx, sid)
			switch {
			case err == nil && existing.UserID != userID:
				return nil, ErrStudentIDExists
			case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
				return nil, err
			}
			p.StudentID = &sid
		}
	}
	if req.Course != nil {
		p.Course = strings.TrimSpace(*req.Course)
	}
	if req.Major != nil {
		p.Major = strings.TrimSpace(*req.Major)
	}
	if req.YearLevel != nil {
		p.YearLevel = *req.YearLevel
	}
	if req.Sex != nil {
		p.Sex = *req.Sex
	}
	if req.CivilStatus != nil {
		p.CivilStatus = *req.CivilStatus
	}
	if req.Birthdate != nil {
		bd, err := time.Parse("2006-01-02", *req.Birthdate)
		if err != nil {
			fields.add("birthdate", "must be a date in YYYY-MM-DD format")
		} else if !bd.Before(time.Now()) {
			fields.add("birthdate", "must be in the past")
		} else {
			p.Birthdate = &bd
		}
	}
	if req.Mobile != nil {
		p.Mobile = strings.TrimSpace(*req.Mobile)
	}

	if a := req.Address; a != nil {
		p.Address = model.Address{
			Street:   strings.TrimSpace(a.Street),
			Barangay: strings.TrimSpace(a.Barangay),
			City:     strings.TrimSpace(a.City),
			Province: strings.TrimSpace(a.Province),
			ZipCode:  strings.TrimSpace(a.ZipCode),
		}
	}
	if f := req.Family; f != nil {
		p.FatherName = f.FatherName
		p.FatherOccupation = f.FatherOccupation
		p.FatherMonthlyIncome = f.FatherMonthlyIncome
		p.MotherName = f.MotherName
		p.MotherOccupation = f.MotherOccupation
		p.MotherMonthlyIncome = f.MotherMonthlyIncome
		p.GuardianName = f.GuardianName
		p.SiblingsCount = f.SiblingsCount
	}
	if req.FamilyMembers != nil {
		members := make([]model.FamilyMember, 0, len(*req.FamilyMembers))
		for _, m := range *req.FamilyMembers {
			members = append(members, model.FamilyMember{
				Name:          m.Name,
				Relationship:  m.Relationship,
				Age:           m.Age,
				Occupation:    m.Occupation,
				MonthlyIncome: m.MonthlyIncome,
			})
		}
		p.FamilyMembers = datatypes.NewJSONSlice(members)
	}
	if req.MonthlyFamilyIncome != nil {
		v := *req.MonthlyFamilyIncome
		p.MonthlyFamilyIncome = &v
	}
	if req.Expenses != nil {
		expenses := make(model.Expenses, len(req.Expenses))
		for k, v := range req.Expenses {
			if v < 0 {
				fields.add("expenses."+k, "must not be negative")
				continue
			}
			expenses[strings.TrimSpace(k)] = v
		}
		p.Expenses = datatypes.NewJSONType(expenses)
	}
	if req.CurrentGWA != nil {
		v := *req.CurrentGWA
		p.CurrentGWA = &v
	}
	if req.EnrollmentStatus != nil {
		p.EnrollmentStatus = *req.EnrollmentStatus
	}
	if req.IsPWD != nil {
		p.IsPWD = *req.IsPWD
		if !p.IsPWD {
			p.DisabilityType = ""
		}
	}
	if req.DisabilityType != nil {
		p.DisabilityType = strings.TrimSpace(*req.DisabilityType)
	}
	if req.IndigenousGroup != nil {
		p.IndigenousGroup = strings.TrimSpace(*req.IndigenousGroup)
	}
	if p.DisabilityType != "" && !p.IsPWD {
		fields.add("disability_type", "requires is_pwd")
	}

	if err := fields.err(); err != nil {
		return nil, err
	}

	p.UpdatedBy = &userID
	if err := s.repo.Profile.Update(ctx, p); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrStudentIDExists
		}
		s.logger.Error("update profile failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return toProfileResponse(p), nil
}

// ────────────────────── SetDisciplinaryAction ──────────────────────

func (s *profileService) SetDisciplinaryAction(ctx context.Context, userID string, flagged bool, staffID string) (*dto.ProfileResponse, error) {
	p, err := s.getProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	p.HasDisciplinaryAction = flagged
	p.UpdatedBy = &staffID
	if err := s.repo.Profile.Update(ctx, p); err != nil {
		s.logger.Error("set disciplinary action failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("disciplinary flag changed", zap.String("user_id", userID), zap.Bool("flagged", flagged), zap.String("by", staffID))
	return toProfileResponse(p), nil
}

func (s *profileService) getProfile(ctx context.Context, userID string) (*model.StudentProfile, error) {
	p, err := s.repo.Profile.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		s.logger.Error("query profile failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return p, nil
}

func toProfileResponse(p *model.StudentProfile) *dto.ProfileResponse {
	missing := p.MissingFields()
	if missing == nil {
		missing = []string{}
	}
	return &dto.ProfileResponse{
		Profile:       p,
		IsComplete:    len(missing) == 0,
		MissingFields: missing,
		ExpensesTotal: p.Expenses.Data().Total(),
	}
}
