package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/inovasi-informatika/spp-admin/internal/model"
	"github.com/rs/zerolog"
)

// PaymentStore is the SPP data access the service needs.
type PaymentStore interface {
	List(ctx context.Context) ([]model.Payment, error)
	Create(ctx context.Context, req *model.CreatePaymentRequest) (model.MutationResult, error)
}

// PaymentService handles SPP business logic: fee derivation and the
// duplicate-payment check.
type PaymentService struct {
	paymentRepo PaymentStore
	studentRepo StudentStore
	log         zerolog.Logger
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(paymentRepo PaymentStore, studentRepo StudentStore, log zerolog.Logger) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		studentRepo: studentRepo,
		log:         log.With().Str("component", "payment_service").Logger(),
	}
}

// List retrieves all recorded payments.
func (s *PaymentService) List(ctx context.Context) ([]model.Payment, error) {
	return s.paymentRepo.List(ctx)
}

// GetByID retrieves a payment by its spp_id.
func (s *PaymentService) GetByID(ctx context.Context, id string) (*model.Payment, error) {
	payments, err := s.paymentRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	id = strings.TrimSpace(id)
	for i := range payments {
		if payments[i].ID == id {
			return &payments[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrPaymentNotFound, id)
}

// Quote previews the amount an active student would be charged.
func (s *PaymentService) Quote(ctx context.Context, nim string) (*model.PaymentQuote, error) {
	students, err := s.studentRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	student, err := findPayer(students, nim)
	if err != nil {
		return nil, err
	}
	quote := NewQuote(*student)
	return &quote, nil
}

// Create validates the form, derives the amount from the student's
// scholarship tier and records the payment. Nothing is written when the
// student already has a payment for the semester.
func (s *PaymentService) Create(ctx context.Context, form model.CreatePaymentForm) (*model.CreatePaymentRequest, error) {
	if _, _, err := validatePaymentForm(form); err != nil {
		return nil, err
	}

	students, err := s.studentRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	payments, err := s.paymentRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	req, err := PreparePayment(students, payments, form)
	if err != nil {
		s.log.Warn().Err(err).Str("nim", form.NIM).Str("semester", form.Semester.String()).Msg("payment rejected before submit")
		return nil, err
	}

	if _, err := s.paymentRepo.Create(ctx, req); err != nil {
		s.log.Error().Err(err).Str("nim", req.NIM).Int("semester", req.Semester).Msg("failed to create payment")
		return nil, err
	}

	s.log.Info().
		Str("nim", req.NIM).
		Int("semester", req.Semester).
		Int64("jumlah", req.Jumlah).
		Msg("payment created")
	return req, nil
}

// PreparePayment builds the create request for a form against already
// fetched students and payments. It runs every client-side check: required
// fields, semester range, active payer and the duplicate check.
func PreparePayment(students []model.Student, payments []model.Payment, form model.CreatePaymentForm) (*model.CreatePaymentRequest, error) {
	nim, semester, err := validatePaymentForm(form)
	if err != nil {
		return nil, err
	}

	student, err := findPayer(students, nim)
	if err != nil {
		return nil, err
	}

	if HasDuplicatePayment(payments, student.NIM, semester) {
		return nil, &DuplicatePaymentError{NIM: student.NIM, Semester: semester}
	}

	return &model.CreatePaymentRequest{
		NIM:      student.NIM,
		Semester: semester,
		Jumlah:   CalculateFee(student.Beasiswa),
	}, nil
}

// NewQuote derives the fee preview for a student.
func NewQuote(student model.Student) model.PaymentQuote {
	return model.PaymentQuote{
		Student:       student,
		BeasiswaLabel: BeasiswaFeeLabel(student.Beasiswa),
		Percent:       FeePercent(student.Beasiswa),
		Jumlah:        CalculateFee(student.Beasiswa),
	}
}

// BeasiswaFeeLabel names a tier together with the share of tuition it pays.
func BeasiswaFeeLabel(code model.Beasiswa) string {
	if !code.Valid() {
		return code.Label()
	}
	return fmt.Sprintf("%s (%d%%)", code.Label(), FeePercent(code))
}

func validatePaymentForm(form model.CreatePaymentForm) (string, int, error) {
	nim := strings.TrimSpace(form.NIM)
	if nim == "" {
		return "", 0, invalid("mhs_nim", "Mahasiswa harus dipilih")
	}
	raw := strings.TrimSpace(form.Semester.String())
	if raw == "" {
		return "", 0, invalid("spp_semester", "Semester harus diisi")
	}
	semester, ok := model.ParseSemester(raw)
	if !ok || semester < model.MinSemester || semester > model.MaxSemester {
		return "", 0, invalid("spp_semester",
			fmt.Sprintf("Semester harus antara %d sampai %d", model.MinSemester, model.MaxSemester))
	}
	return nim, semester, nil
}

// findPayer returns the student for nim if it exists and is active.
func findPayer(students []model.Student, nim string) (*model.Student, error) {
	student := FindStudent(students, nim)
	if student == nil {
		return nil, fmt.Errorf("%w: %s", ErrStudentNotFound, strings.TrimSpace(nim))
	}
	if !student.IsActive() {
		return nil, fmt.Errorf("%w: %s", ErrStudentInactive, student.NIM)
	}
	return student, nil
}
