package repository

import (
	"context"
	"net/http"

	"github.com/inovasi-informatika/spp-admin/internal/model"
)

// Records API paths for students.
const (
	pathStudentRead   = "/mahasiswa/read.php"
	pathStudentCreate = "/mahasiswa/create.php"
	pathStudentDelete = "/mahasiswa/delete.php"
)

// StudentRepository handles student data access through the records API.
type StudentRepository struct {
	client *Client
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(client *Client) *StudentRepository {
	return &StudentRepository{client: client}
}

// List retrieves every student, active or not.
func (r *StudentRepository) List(ctx context.Context) ([]model.Student, error) {
	shape, err := r.client.list(ctx, "list students", pathStudentRead, "mahasiswa")
	if err != nil {
		return nil, err
	}
	return decodeRecords[model.Student](shape, r.client.log), nil
}

// Create inserts a new student. The stored status is always active.
func (r *StudentRepository) Create(ctx context.Context, s *model.Student) (model.MutationResult, error) {
	payload := model.Student{
		NIM:      s.NIM,
		Nama:     s.Nama,
		Prodi:    s.Prodi,
		Beasiswa: s.Beasiswa,
		Status:   model.StatusActive,
	}
	return r.client.mutate(ctx, "create student", http.MethodPost, pathStudentCreate, payload)
}

// Deactivate soft-deletes a student by moving it to the inactive status.
func (r *StudentRepository) Deactivate(ctx context.Context, nim string) (model.MutationResult, error) {
	payload := model.DeactivateStudentRequest{NIM: nim, Status: 0}
	return r.client.mutate(ctx, "deactivate student", http.MethodPatch, pathStudentDelete, payload)
}
