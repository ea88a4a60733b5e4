package view

import (
	"github.com/inovasi-informatika/spp-admin/internal/flash"
	"github.com/inovasi-informatika/spp-admin/internal/model"
)

// Nav identifiers for the header menu.
const (
	NavSPP      = "spp"
	NavStudents = "mahasiswa"
)

// Page carries what the layout needs.
type Page struct {
	Title string
	Nav   string
	Flash *flash.Message
}

type SPPListPage struct {
	Page
	Payments []model.Payment
	Error    string
}

type SPPFormPage struct {
	Page
	Students    []model.Student
	Form        model.CreatePaymentForm
	Quote       *model.PaymentQuote
	Error       string
	MinSemester int
	MaxSemester int
}

type StudentListPage struct {
	Page
	Students []model.Student
	Error    string
}

type StudentFormPage struct {
	Page
	Form   model.CreateStudentRequest
	Prodis []model.Prodi
	Tiers  []model.Beasiswa
	Error  string
	Fields map[string]string
}
