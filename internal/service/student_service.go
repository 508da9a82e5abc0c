package service

import (
	"context"
	"sort"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-admin-tui/internal/api"
	"github.com/noah-isme/sma-admin-tui/internal/models"
	appErrors "github.com/noah-isme/sma-admin-tui/pkg/errors"
)

type studentAPI interface {
	ListStudents(ctx context.Context) ([]models.Student, error)
	CreateStudent(ctx context.Context, form api.StudentForm) error
	UpdateStudent(ctx context.Context, id string, form api.StudentForm) error
	DeleteStudent(ctx context.Context, id string) error
}

type studentSnapshot interface {
	Save(students []models.Student) error
	Load() ([]models.Student, error)
}

// StudentRequest holds the payload for creating or updating a student.
type StudentRequest struct {
	StudentID        string `validate:"required"`
	Name             string `validate:"required"`
	FatherName       string
	Email            string `validate:"required,email"`
	Phone            string `validate:"required"`
	Phone2           string
	EmergencyContact string
	Gender           string `validate:"required,oneof=Male Female Other"`
	DOB              string `validate:"required"`
	Address          string
	Course           string `validate:"required"`
	Session          string
	PhotoPath        string
}

// StudentService handles directory use-cases on top of the backend client,
// with a local snapshot as a read fallback.
type StudentService struct {
	client    studentAPI
	snapshot  studentSnapshot
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(client studentAPI, snapshot studentSnapshot, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{client: client, snapshot: snapshot, validator: validate, logger: logger}
}

// List fetches the directory. On success the local snapshot is refreshed; on
// fetch failure the snapshot is served instead when available. The boolean
// reports whether the result came from the snapshot.
func (s *StudentService) List(ctx context.Context) ([]models.Student, bool, error) {
	students, err := s.client.ListStudents(ctx)
	if err != nil {
		if s.snapshot != nil {
			if cached, cacheErr := s.snapshot.Load(); cacheErr == nil {
				s.logger.Warn("serving students from local snapshot", zap.Error(err))
				return cached, true, nil
			}
		}
		return nil, false, err
	}
	if s.snapshot != nil {
		if err := s.snapshot.Save(students); err != nil {
			s.logger.Debug("snapshot write failed", zap.Error(err))
		}
	}
	return students, false, nil
}

// Create registers a new student.
func (s *StudentService) Create(ctx context.Context, req StudentRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student details")
	}
	return s.client.CreateStudent(ctx, studentForm(req))
}

// Update replaces an existing student record by its internal id.
func (s *StudentService) Update(ctx context.Context, id string, req StudentRequest) error {
	if id == "" {
		return appErrors.Clone(appErrors.ErrValidation, "missing student id")
	}
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student details")
	}
	return s.client.UpdateStudent(ctx, id, studentForm(req))
}

// Delete removes a student by its internal id.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return appErrors.Clone(appErrors.ErrValidation, "missing student id")
	}
	return s.client.DeleteStudent(ctx, id)
}

func studentForm(req StudentRequest) api.StudentForm {
	return api.StudentForm{
		StudentID:        req.StudentID,
		Name:             req.Name,
		FatherName:       req.FatherName,
		Email:            req.Email,
		Phone:            req.Phone,
		Phone2:           req.Phone2,
		EmergencyContact: req.EmergencyContact,
		Gender:           req.Gender,
		DOB:              req.DOB,
		Address:          req.Address,
		Course:           req.Course,
		Session:          req.Session,
		PhotoPath:        req.PhotoPath,
	}
}

// FilterStudents applies the course/gender/session filter to a list.
func FilterStudents(students []models.Student, filter models.StudentFilter) []models.Student {
	filtered := make([]models.Student, 0, len(students))
	for _, student := range students {
		if filter.Matches(student) {
			filtered = append(filtered, student)
		}
	}
	return filtered
}

// Sessions returns the sorted unique session values present in the list,
// used to populate the session filter.
func Sessions(students []models.Student) []string {
	seen := make(map[string]struct{})
	sessions := make([]string, 0)
	for _, student := range students {
		if student.Session == "" {
			continue
		}
		if _, ok := seen[student.Session]; ok {
			continue
		}
		seen[student.Session] = struct{}{}
		sessions = append(sessions, student.Session)
	}
	sort.Strings(sessions)
	return sessions
}
