package model

import "encoding/json"

// Prodi is a study program code.
type Prodi string

const (
	ProdiMI  Prodi = "MI"
	ProdiMK  Prodi = "MK"
	ProdiTPM Prodi = "TPM"
)

// Prodis lists the study programs in display order.
var Prodis = []Prodi{ProdiMI, ProdiMK, ProdiTPM}

// LongName returns the full program name, or the raw code if unknown.
func (p Prodi) LongName() string {
	switch p {
	case ProdiMI:
		return "Manajemen Informatika"
	case ProdiMK:
		return "Mekatronika"
	case ProdiTPM:
		return "Teknik Produksi & Manufaktur"
	default:
		return string(p)
	}
}

// Valid reports whether p is a known study program.
func (p Prodi) Valid() bool {
	switch p {
	case ProdiMI, ProdiMK, ProdiTPM:
		return true
	}
	return false
}

// Beasiswa is a scholarship tier code.
type Beasiswa string

const (
	BeasiswaFull    Beasiswa = "1"
	BeasiswaPartial Beasiswa = "2"
	BeasiswaNone    Beasiswa = "3"
)

// BeasiswaTiers lists the scholarship tiers in display order.
var BeasiswaTiers = []Beasiswa{BeasiswaFull, BeasiswaPartial, BeasiswaNone}

// Label returns the short tier name used on forms and tables.
func (b Beasiswa) Label() string {
	switch b {
	case BeasiswaFull:
		return "Beasiswa Full"
	case BeasiswaPartial:
		return "Beasiswa Parsial"
	case BeasiswaNone:
		return "Non-Beasiswa"
	default:
		return "Tidak Diketahui"
	}
}

// Valid reports whether b is a known tier code.
func (b Beasiswa) Valid() bool {
	switch b {
	case BeasiswaFull, BeasiswaPartial, BeasiswaNone:
		return true
	}
	return false
}

// Status is a student's lifecycle state.
type Status string

const (
	StatusInactive Status = "0"
	StatusActive   Status = "1"
)

// Label returns the Indonesian state name.
func (s Status) Label() string {
	switch s {
	case StatusActive:
		return "Aktif"
	case StatusInactive:
		return "Non-aktif"
	default:
		return "Tidak Diketahui"
	}
}

// Student is a record from /mahasiswa/read.php.
type Student struct {
	NIM      string   `json:"mhs_nim"`
	Nama     string   `json:"mhs_nama"`
	Prodi    Prodi    `json:"mhs_prodi"`
	Beasiswa Beasiswa `json:"mhs_beasiswa"`
	Status   Status   `json:"mhs_status"`
}

// IsActive reports whether the student may still be billed.
func (s Student) IsActive() bool {
	return s.Status == StatusActive
}

type studentWire struct {
	NIM      FlexString `json:"mhs_nim"`
	Nama     FlexString `json:"mhs_nama"`
	Prodi    FlexString `json:"mhs_prodi"`
	Beasiswa FlexString `json:"mhs_beasiswa"`
	Status   FlexString `json:"mhs_status"`
}

// UnmarshalJSON accepts string or numeric columns.
func (s *Student) UnmarshalJSON(data []byte) error {
	var w studentWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*s = Student{
		NIM:      w.NIM.String(),
		Nama:     w.Nama.String(),
		Prodi:    Prodi(w.Prodi),
		Beasiswa: Beasiswa(w.Beasiswa),
		Status:   Status(w.Status),
	}
	return nil
}

// CreateStudentRequest is the add-student form. Status is not accepted from
// the caller; new students are always created active.
type CreateStudentRequest struct {
	NIM      string   `json:"mhs_nim" form:"mhs_nim" binding:"max=20"`
	Nama     string   `json:"mhs_nama" form:"mhs_nama" binding:"max=100"`
	Prodi    Prodi    `json:"mhs_prodi" form:"mhs_prodi" binding:"omitempty,oneof=MI MK TPM"`
	Beasiswa Beasiswa `json:"mhs_beasiswa" form:"mhs_beasiswa" binding:"omitempty,oneof=1 2 3"`
}

type createStudentWire struct {
	NIM      FlexString `json:"mhs_nim"`
	Nama     FlexString `json:"mhs_nama"`
	Prodi    FlexString `json:"mhs_prodi"`
	Beasiswa FlexString `json:"mhs_beasiswa"`
}

// UnmarshalJSON accepts a numeric NIM or tier code as well as text.
func (r *CreateStudentRequest) UnmarshalJSON(data []byte) error {
	var w createStudentWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*r = CreateStudentRequest{
		NIM:      w.NIM.String(),
		Nama:     w.Nama.String(),
		Prodi:    Prodi(w.Prodi),
		Beasiswa: Beasiswa(w.Beasiswa),
	}
	return nil
}

// DeactivateStudentRequest is the soft delete payload for /mahasiswa/delete.php.
type DeactivateStudentRequest struct {
	NIM    string `json:"mhs_nim"`
	Status int    `json:"mhs_status"`
}

// MutationResult is the status indicator returned by the records API on writes.
type MutationResult struct {
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
}
