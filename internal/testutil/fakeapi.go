// Package testutil provides an in-process stand-in for the records API.
package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/inovasi-informatika/spp-admin/internal/model"
)

// Request is one call received by the FakeAPI.
type Request struct {
	Method string
	Path   string
	Body   []byte
}

type cannedResponse struct {
	status int
	body   string
}

// FakeAPI mimics the records API: students are served wrapped in {"data":[...]},
// payments as a bare array with string semesters, the way the PHP backend does.
type FakeAPI struct {
	*httptest.Server

	mu       sync.Mutex
	students []model.Student
	payments []model.Payment
	requests []Request
	canned   map[string]cannedResponse
	nextID   int
}

// NewFakeAPI starts a FakeAPI that is closed when the test ends.
func NewFakeAPI(t testing.TB) *FakeAPI {
	f := &FakeAPI{canned: map[string]cannedResponse{}, nextID: 1}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Close)
	return f
}

// SeedStudents replaces the stored students.
func (f *FakeAPI) SeedStudents(students ...model.Student) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.students = append([]model.Student(nil), students...)
}

// SeedPayments replaces the stored payments.
func (f *FakeAPI) SeedPayments(payments ...model.Payment) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payments = append([]model.Payment(nil), payments...)
	for _, p := range payments {
		if id, err := strconv.Atoi(p.ID); err == nil && id >= f.nextID {
			f.nextID = id + 1
		}
	}
}

// Respond makes method+path answer with a fixed status and body.
func (f *FakeAPI) Respond(method, path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.canned[method+" "+path] = cannedResponse{status: status, body: body}
}

// Students returns a copy of the stored students.
func (f *FakeAPI) Students() []model.Student {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Student(nil), f.students...)
}

// Payments returns a copy of the stored payments.
func (f *FakeAPI) Payments() []model.Payment {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Payment(nil), f.payments...)
}

// Calls counts the requests received for method+path.
func (f *FakeAPI) Calls(method, path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.requests {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// LastBody returns the body of the latest request for method+path.
func (f *FakeAPI) LastBody(method, path string) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.requests) - 1; i >= 0; i-- {
		if f.requests[i].Method == method && f.requests[i].Path == path {
			return f.requests[i].Body
		}
	}
	return nil
}

func (f *FakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, Request{Method: r.Method, Path: r.URL.Path, Body: body})

	if c, ok := f.canned[r.Method+" "+r.URL.Path]; ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(c.status)
		_, _ = io.WriteString(w, c.body)
		return
	}

	switch r.Method + " " + r.URL.Path {
	case "GET /mahasiswa/read.php":
		students := f.students
		if students == nil {
			students = []model.Student{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": students})
	case "POST /mahasiswa/create.php":
		f.createStudent(w, body)
	case "PATCH /mahasiswa/delete.php":
		f.deactivateStudent(w, body)
	case "GET /spp/read.php":
		writeJSON(w, http.StatusOK, f.paymentRows())
	case "POST /spp/create.php":
		f.createPayment(w, body)
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"status": "error", "message": "not found"})
	}
}

func (f *FakeAPI) createStudent(w http.ResponseWriter, body []byte) {
	var s model.Student
	if err := json.Unmarshal(body, &s); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"status": "error", "message": err.Error()})
		return
	}
	for _, existing := range f.students {
		if existing.NIM == s.NIM {
			writeJSON(w, http.StatusOK, map[string]string{"status": "error", "message": "NIM sudah terdaftar"})
			return
		}
	}
	f.students = append(f.students, s)
	writeJSON(w, http.StatusOK, map[string]string{"status": "success", "message": "Data berhasil ditambahkan"})
}

func (f *FakeAPI) deactivateStudent(w http.ResponseWriter, body []byte) {
	var req struct {
		NIM    model.FlexString `json:"mhs_nim"`
		Status model.FlexString `json:"mhs_status"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"status": "error", "message": err.Error()})
		return
	}
	for i := range f.students {
		if f.students[i].NIM == req.NIM.String() {
			f.students[i].Status = model.Status(req.Status)
			writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "failed", "message": "Mahasiswa tidak ditemukan"})
}

func (f *FakeAPI) createPayment(w http.ResponseWriter, body []byte) {
	var req struct {
		NIM      model.FlexString `json:"mhs_nim"`
		Semester model.FlexString `json:"spp_semester"`
		Jumlah   model.FlexString `json:"spp_jumlah"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"status": "error", "message": err.Error()})
		return
	}
	semester, _ := model.ParseSemester(req.Semester.String())
	jumlah, _ := req.Jumlah.Int()
	f.payments = append(f.payments, model.Payment{
		ID:       strconv.Itoa(f.nextID),
		NIM:      req.NIM.String(),
		Semester: semester,
		Jumlah:   jumlah,
	})
	f.nextID++
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// paymentRows renders payments joined with student name and program.
func (f *FakeAPI) paymentRows() []map[string]any {
	rows := make([]map[string]any, 0, len(f.payments))
	for _, p := range f.payments {
		row := map[string]any{
			"spp_id":       p.ID,
			"mhs_nim":      p.NIM,
			"spp_semester": strconv.Itoa(p.Semester),
			"spp_jumlah":   p.Jumlah,
		}
		for _, s := range f.students {
			if s.NIM == p.NIM {
				row["mhs_nama"] = s.Nama
				row["mhs_prodi"] = s.Prodi
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
