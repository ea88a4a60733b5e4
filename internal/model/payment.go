package model

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Semester bounds accepted by the add-SPP form.
const (
	MinSemester = 1
	MaxSemester = 14
)

// Payment is a tuition (SPP) transaction from /spp/read.php. List rows carry
// the joined student name and program.
type Payment struct {
	ID       string `json:"spp_id,omitempty"`
	NIM      string `json:"mhs_nim"`
	Nama     string `json:"mhs_nama,omitempty"`
	Prodi    Prodi  `json:"mhs_prodi,omitempty"`
	Semester int    `json:"spp_semester"`
	Jumlah   int64  `json:"spp_jumlah"`
}

type paymentWire struct {
	ID       FlexString `json:"spp_id"`
	NIM      FlexString `json:"mhs_nim"`
	Nama     FlexString `json:"mhs_nama"`
	Prodi    FlexString `json:"mhs_prodi"`
	Semester FlexString `json:"spp_semester"`
	Jumlah   FlexString `json:"spp_jumlah"`
}

// UnmarshalJSON normalises the semester to an integer. A semester that does
// not parse decodes as 0, which never equals a valid candidate semester.
func (p *Payment) UnmarshalJSON(data []byte) error {
	var w paymentWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	semester, _ := ParseSemester(w.Semester.String())
	jumlah, _ := w.Jumlah.Int()
	*p = Payment{
		ID:       w.ID.String(),
		NIM:      w.NIM.String(),
		Nama:     w.Nama.String(),
		Prodi:    Prodi(w.Prodi),
		Semester: semester,
		Jumlah:   jumlah,
	}
	return nil
}

// ParseSemester parses trimmed decimal semester text. It does not check bounds.
func ParseSemester(raw string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	return n, true
}

// CreatePaymentForm is the add-SPP form as submitted. The amount is never
// accepted from the caller.
type CreatePaymentForm struct {
	NIM      string     `json:"mhs_nim" form:"mhs_nim" binding:"max=20"`
	Semester FlexString `json:"spp_semester" form:"spp_semester" binding:"omitempty,numeric"`
}

// CreatePaymentRequest is the body sent to /spp/create.php.
type CreatePaymentRequest struct {
	NIM      string `json:"mhs_nim"`
	Semester int    `json:"spp_semester,string"`
	Jumlah   int64  `json:"spp_jumlah"`
}

// PaymentQuote is the fee preview shown once a student is selected.
type PaymentQuote struct {
	Student       Student `json:"student"`
	BeasiswaLabel string  `json:"beasiswa_label"`
	Percent       int64   `json:"percent"`
	Jumlah        int64   `json:"spp_jumlah"`
}
