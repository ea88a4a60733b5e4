package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/inovasi-informatika/spp-admin/internal/model"
	"github.com/rs/zerolog"
)

// StudentStore is the student data access the service needs.
type StudentStore interface {
	List(ctx context.Context) ([]model.Student, error)
	Create(ctx context.Context, s *model.Student) (model.MutationResult, error)
	Deactivate(ctx context.Context, nim string) (model.MutationResult, error)
}

// StudentService handles student business logic.
type StudentService struct {
	studentRepo StudentStore
	log         zerolog.Logger
}

// NewStudentService creates a new StudentService.
func NewStudentService(studentRepo StudentStore, log zerolog.Logger) *StudentService {
	return &StudentService{
		studentRepo: studentRepo,
		log:         log.With().Str("component", "student_service").Logger(),
	}
}

// List retrieves all students.
func (s *StudentService) List(ctx context.Context) ([]model.Student, error) {
	return s.studentRepo.List(ctx)
}

// ListActive retrieves the students that can still be billed.
func (s *StudentService) ListActive(ctx context.Context) ([]model.Student, error) {
	students, err := s.studentRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return ActiveStudents(students), nil
}

// GetByNIM retrieves a student by NIM.
func (s *StudentService) GetByNIM(ctx context.Context, nim string) (*model.Student, error) {
	students, err := s.studentRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	student := FindStudent(students, nim)
	if student == nil {
		return nil, fmt.Errorf("%w: %s", ErrStudentNotFound, strings.TrimSpace(nim))
	}
	return student, nil
}

// Create validates the form and registers a new, active student.
func (s *StudentService) Create(ctx context.Context, req model.CreateStudentRequest) (*model.Student, error) {
	student, err := validateStudent(req)
	if err != nil {
		return nil, err
	}

	res, err := s.studentRepo.Create(ctx, student)
	if err != nil {
		s.log.Error().Err(err).Str("nim", student.NIM).Msg("failed to create student")
		return nil, err
	}

	s.log.Info().Str("nim", student.NIM).Str("message", res.Message).Msg("student created")
	return student, nil
}

// Deactivate moves an active student to the inactive status. There is no way back.
func (s *StudentService) Deactivate(ctx context.Context, nim string) error {
	nim = strings.TrimSpace(nim)
	if nim == "" {
		return invalid("mhs_nim", "NIM harus diisi")
	}

	student, err := s.GetByNIM(ctx, nim)
	if err != nil {
		return err
	}
	if !student.IsActive() {
		return fmt.Errorf("%w: %s", ErrAlreadyInactive, nim)
	}

	if _, err := s.studentRepo.Deactivate(ctx, student.NIM); err != nil {
		s.log.Error().Err(err).Str("nim", nim).Msg("failed to deactivate student")
		return err
	}

	s.log.Info().Str("nim", nim).Msg("student deactivated")
	return nil
}

// ActiveStudents keeps the students whose status is active.
func ActiveStudents(students []model.Student) []model.Student {
	active := make([]model.Student, 0, len(students))
	for _, st := range students {
		if st.IsActive() {
			active = append(active, st)
		}
	}
	return active
}

// FindStudent returns the student with the given NIM, or nil.
func FindStudent(students []model.Student, nim string) *model.Student {
	nim = strings.TrimSpace(nim)
	for i := range students {
		if students[i].NIM == nim {
			return &students[i]
		}
	}
	return nil
}

// validateStudent checks the add-student form in field order and reports the
// first problem only.
func validateStudent(req model.CreateStudentRequest) (*model.Student, error) {
	nim := strings.TrimSpace(req.NIM)
	nama := strings.TrimSpace(req.Nama)

	switch {
	case nim == "":
		return nil, invalid("mhs_nim", "NIM harus diisi")
	case nama == "":
		return nil, invalid("mhs_nama", "Nama harus diisi")
	case req.Prodi == "":
		return nil, invalid("mhs_prodi", "Prodi harus dipilih")
	case !req.Prodi.Valid():
		return nil, invalid("mhs_prodi", "Prodi tidak dikenal")
	case req.Beasiswa == "":
		return nil, invalid("mhs_beasiswa", "Beasiswa harus dipilih")
	case !req.Beasiswa.Valid():
		return nil, invalid("mhs_beasiswa", "Beasiswa tidak dikenal")
	}

	return &model.Student{
		NIM:      nim,
		Nama:     nama,
		Prodi:    req.Prodi,
		Beasiswa: req.Beasiswa,
		Status:   model.StatusActive,
	}, nil
}
