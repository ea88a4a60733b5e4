package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/inovasi-informatika/spp-admin/internal/model"
	"github.com/inovasi-informatika/spp-admin/internal/response"
	"github.com/inovasi-informatika/spp-admin/internal/service"
	"github.com/inovasi-informatika/spp-admin/internal/validator"
)

// StudentHandler exposes student records as JSON.
type StudentHandler struct {
	studentService *service.StudentService
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(studentService *service.StudentService) *StudentHandler {
	return &StudentHandler{studentService: studentService}
}

// ListStudents godoc
// GET /api/v1/mahasiswa?active=true
// Lists students. With active=true only students that can still be billed.
func (h *StudentHandler) ListStudents(c *gin.Context) {
	activeOnly, _ := strconv.ParseBool(c.Query("active"))

	var (
		students []model.Student
		err      error
	)
	if activeOnly {
		students, err = h.studentService.ListActive(c.Request.Context())
	} else {
		students, err = h.studentService.List(c.Request.Context())
	}
	if err != nil {
		failWithError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"students": students, "count": len(students)})
}

// GetStudent godoc
// GET /api/v1/mahasiswa/:nim
func (h *StudentHandler) GetStudent(c *gin.Context) {
	student, err := h.studentService.GetByNIM(c.Request.Context(), c.Param("nim"))
	if err != nil {
		failWithError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"student": student})
}

// CreateStudent godoc
// POST /api/v1/mahasiswa
// Registers a new, active student.
func (h *StudentHandler) CreateStudent(c *gin.Context) {
	var req model.CreateStudentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	student, err := h.studentService.Create(c.Request.Context(), req)
	if err != nil {
		failWithError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"student": student})
}

// DeactivateStudent godoc
// PATCH /api/v1/mahasiswa/:nim/deactivate
// Soft-deletes a student. There is no way back.
func (h *StudentHandler) DeactivateStudent(c *gin.Context) {
	nim := c.Param("nim")
	if err := h.studentService.Deactivate(c.Request.Context(), nim); err != nil {
		failWithError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"mhs_nim":    nim,
		"mhs_status": model.StatusInactive,
		"message":    MsgStudentDeactivated,
	})
}
