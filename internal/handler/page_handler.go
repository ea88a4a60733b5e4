package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inovasi-informatika/spp-admin/internal/flash"
	"github.com/inovasi-informatika/spp-admin/internal/model"
	"github.com/inovasi-informatika/spp-admin/internal/service"
	"github.com/inovasi-informatika/spp-admin/internal/validator"
	"github.com/inovasi-informatika/spp-admin/internal/view"
	"github.com/rs/zerolog"
)

// Messages shown after a successful write.
const (
	MsgStudentCreated     = "Mahasiswa berhasil ditambahkan!"
	MsgPaymentCreated     = "Transaksi SPP berhasil ditambahkan!"
	MsgStudentDeactivated = "Mahasiswa berhasil dinonaktifkan!"
)

// PageHandler renders the admin HTML pages.
type PageHandler struct {
	studentService *service.StudentService
	paymentService *service.PaymentService
	flash          *flash.Manager
	log            zerolog.Logger
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(
	studentService *service.StudentService,
	paymentService *service.PaymentService,
	flashes *flash.Manager,
	log zerolog.Logger,
) *PageHandler {
	return &PageHandler{
		studentService: studentService,
		paymentService: paymentService,
		flash:          flashes,
		log:            log.With().Str("component", "page_handler").Logger(),
	}
}

// ─── SPP ───────────────────────────────────────────────────────────────

// SPPList godoc
// GET / and GET /list-spp
func (h *PageHandler) SPPList(c *gin.Context) {
	page := view.SPPListPage{Page: h.page(c, "Transaksi SPP", view.NavSPP)}

	status := http.StatusOK
	payments, err := h.paymentService.List(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list payments")
		status, _, _ = Classify(err)
		page.Error = pageMessage(err, "Gagal mengambil data")
	}
	page.Payments = payments

	c.HTML(status, view.PageSPPList, page)
}

// SPPForm godoc
// GET /add-spp?nim=
// Shows the payment form. Selecting a student shows the fee it will be charged.
func (h *PageHandler) SPPForm(c *gin.Context) {
	form := model.CreatePaymentForm{NIM: c.Query("nim")}
	h.renderSPPForm(c, http.StatusOK, form, "")
}

// SPPCreate godoc
// POST /add-spp
func (h *PageHandler) SPPCreate(c *gin.Context) {
	var form model.CreatePaymentForm
	if fields := validator.BindForm(c, &form); fields != nil {
		h.renderSPPForm(c, http.StatusBadRequest, form, firstMessage(fields))
		return
	}

	if _, err := h.paymentService.Create(c.Request.Context(), form); err != nil {
		status, _, _ := Classify(err)
		h.renderSPPForm(c, status, form, pageMessage(err, "Gagal menambahkan transaksi SPP"))
		return
	}

	h.flash.Success(c, MsgPaymentCreated)
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *PageHandler) renderSPPForm(c *gin.Context, status int, form model.CreatePaymentForm, errMsg string) {
	page := view.SPPFormPage{
		Page:        h.page(c, "Tambah SPP", view.NavSPP),
		Form:        form,
		Error:       errMsg,
		MinSemester: model.MinSemester,
		MaxSemester: model.MaxSemester,
	}

	students, err := h.studentService.ListActive(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to load students for payment form")
		if page.Error == "" {
			status, _, _ = Classify(err)
			page.Error = pageMessage(err, "Gagal memuat data")
		}
	}
	page.Students = students

	if form.NIM != "" {
		if student := service.FindStudent(students, form.NIM); student != nil {
			quote := service.NewQuote(*student)
			page.Quote = &quote
			page.Form.NIM = student.NIM
		} else if err == nil && page.Error == "" {
			page.Error = "Mahasiswa tidak ditemukan atau sudah nonaktif."
		}
	}

	c.HTML(status, view.PageSPPForm, page)
}

// ─── Mahasiswa ─────────────────────────────────────────────────────────

// StudentList godoc
// GET /list-mahasiswa
func (h *PageHandler) StudentList(c *gin.Context) {
	page := view.StudentListPage{Page: h.page(c, "Mahasiswa", view.NavStudents)}

	status := http.StatusOK
	students, err := h.studentService.List(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list students")
		status, _, _ = Classify(err)
		page.Error = pageMessage(err, "Gagal mengambil data")
	}
	page.Students = students

	c.HTML(status, view.PageStudentList, page)
}

// StudentForm godoc
// GET /add-mahasiswa
func (h *PageHandler) StudentForm(c *gin.Context) {
	h.renderStudentForm(c, http.StatusOK, model.CreateStudentRequest{}, "", nil)
}

// StudentCreate godoc
// POST /add-mahasiswa
func (h *PageHandler) StudentCreate(c *gin.Context) {
	var req model.CreateStudentRequest
	if fields := validator.BindForm(c, &req); fields != nil {
		h.renderStudentForm(c, http.StatusBadRequest, req, "", fields)
		return
	}

	if _, err := h.studentService.Create(c.Request.Context(), req); err != nil {
		status, _, _ := Classify(err)
		var validationErr *service.ValidationError
		if errors.As(err, &validationErr) {
			h.renderStudentForm(c, status, req, "", map[string]string{validationErr.Field: validationErr.Message})
			return
		}
		h.renderStudentForm(c, status, req, pageMessage(err, "Gagal menambahkan mahasiswa"), nil)
		return
	}

	h.flash.Success(c, MsgStudentCreated)
	c.Redirect(http.StatusSeeOther, "/list-mahasiswa")
}

func (h *PageHandler) renderStudentForm(c *gin.Context, status int, form model.CreateStudentRequest, errMsg string, fields map[string]string) {
	c.HTML(status, view.PageStudentForm, view.StudentFormPage{
		Page:   h.page(c, "Tambah Mahasiswa", view.NavStudents),
		Form:   form,
		Prodis: model.Prodis,
		Tiers:  model.BeasiswaTiers,
		Error:  errMsg,
		Fields: fields,
	})
}

// StudentDeactivate godoc
// POST /mahasiswa/:nim/deactivate
// Soft-deletes a student and returns to the list.
func (h *PageHandler) StudentDeactivate(c *gin.Context) {
	if err := h.studentService.Deactivate(c.Request.Context(), c.Param("nim")); err != nil {
		h.flash.Error(c, pageMessage(err, "Gagal nonaktifkan"))
	} else {
		h.flash.Success(c, MsgStudentDeactivated)
	}
	c.Redirect(http.StatusSeeOther, "/list-mahasiswa")
}

// ─── Helpers ───────────────────────────────────────────────────────────

func (h *PageHandler) page(c *gin.Context, title, nav string) view.Page {
	return view.Page{Title: title, Nav: nav, Flash: h.flash.Take(c)}
}

// firstMessage picks one binding error for the single-banner SPP form.
func firstMessage(fields map[string]string) string {
	for _, key := range []string{"mhs_nim", "spp_semester", "detail"} {
		if msg, ok := fields[key]; ok {
			return msg
		}
	}
	for _, msg := range fields {
		return msg
	}
	return ""
}
