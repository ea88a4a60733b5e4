package repository

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/inovasi-informatika/spp-admin/internal/model"
	"github.com/inovasi-informatika/spp-admin/internal/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepos(t *testing.T) (*testutil.FakeAPI, *StudentRepository, *PaymentRepository) {
	t.Helper()
	api := testutil.NewFakeAPI(t)
	client := NewClient(api.URL, 5*time.Second, zerolog.Nop())
	return api, NewStudentRepository(client), NewPaymentRepository(client)
}

func TestStudentListDecodesWrappedResponse(t *testing.T) {
	api, students, _ := newRepos(t)
	api.SeedStudents(
		model.Student{NIM: "A1", Nama: "Budi", Prodi: model.ProdiMI, Beasiswa: model.BeasiswaFull, Status: model.StatusActive},
		model.Student{NIM: "B2", Nama: "Siti", Prodi: model.ProdiMK, Beasiswa: model.BeasiswaNone, Status: model.StatusInactive},
	)

	list, err := students.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "A1", list[0].NIM)
	assert.False(t, list[1].IsActive())
}

func TestStudentListSkipsUndecodableRecords(t *testing.T) {
	api, students, _ := newRepos(t)
	api.Respond(http.MethodGet, "/mahasiswa/read.php", http.StatusOK,
		`{"records":[1,null,{"mhs_nim":7,"mhs_nama":"Joko","mhs_status":1}]}`)

	list, err := students.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "7", list[0].NIM)
	assert.True(t, list[0].IsActive())
}

func TestPaymentListUnknownShapeIsEmpty(t *testing.T) {
	api, _, payments := newRepos(t)
	api.Respond(http.MethodGet, "/spp/read.php", http.StatusOK, `{"message":"no rows"}`)

	list, err := payments.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreateStudentAlwaysSendsActiveStatus(t *testing.T) {
	api, students, _ := newRepos(t)

	_, err := students.Create(context.Background(), &model.Student{
		NIM: "A1", Nama: "Budi", Prodi: model.ProdiMI, Beasiswa: model.BeasiswaPartial, Status: model.StatusInactive,
	})
	require.NoError(t, err)

	assert.JSONEq(t,
		`{"mhs_nim":"A1","mhs_nama":"Budi","mhs_prodi":"MI","mhs_beasiswa":"2","mhs_status":"1"}`,
		string(api.LastBody(http.MethodPost, "/mahasiswa/create.php")))
}

func TestCreateStudentRejectedInsideHTTPSuccess(t *testing.T) {
	api, students, _ := newRepos(t)
	api.Respond(http.MethodPost, "/mahasiswa/create.php", http.StatusOK, `{"status":"error","message":"NIM sudah terdaftar"}`)

	_, err := students.Create(context.Background(), &model.Student{NIM: "A1", Nama: "Budi"})

	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "NIM sudah terdaftar", rejected.Message)
}

func TestCreateStudentFailedStatusIsRejected(t *testing.T) {
	api, students, _ := newRepos(t)
	api.Respond(http.MethodPost, "/mahasiswa/create.php", http.StatusOK, `{"status":"FAILED"}`)

	_, err := students.Create(context.Background(), &model.Student{NIM: "A1", Nama: "Budi"})

	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Empty(t, rejected.Message)
}

func TestDeactivateSendsInactiveStatus(t *testing.T) {
	api, students, _ := newRepos(t)
	api.SeedStudents(model.Student{NIM: "X9", Nama: "Rina", Status: model.StatusActive})

	_, err := students.Deactivate(context.Background(), "X9")
	require.NoError(t, err)

	assert.JSONEq(t, `{"mhs_nim":"X9","mhs_status":0}`, string(api.LastBody(http.MethodPatch, "/mahasiswa/delete.php")))
	assert.Equal(t, model.StatusInactive, api.Students()[0].Status)
}

func TestNon2xxBecomesStatusError(t *testing.T) {
	api, _, payments := newRepos(t)
	api.Respond(http.MethodPost, "/spp/create.php", http.StatusInternalServerError, `{"message":"database down"}`)

	_, err := payments.Create(context.Background(), &model.CreatePaymentRequest{NIM: "A1", Semester: 1, Jumlah: 0})

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.Equal(t, "database down", statusErr.Message)
}

func TestUnreachableAPIIsTransportError(t *testing.T) {
	api, _, payments := newRepos(t)
	api.Close()

	_, err := payments.List(context.Background())
	assert.True(t, errors.Is(err, ErrTransport))
}

func TestCreatePaymentBody(t *testing.T) {
	api, _, payments := newRepos(t)

	_, err := payments.Create(context.Background(), &model.CreatePaymentRequest{NIM: "A1", Semester: 5, Jumlah: 5000000})
	require.NoError(t, err)

	assert.JSONEq(t, `{"mhs_nim":"A1","spp_semester":"5","spp_jumlah":5000000}`, string(api.LastBody(http.MethodPost, "/spp/create.php")))
	require.Len(t, api.Payments(), 1)
	assert.Equal(t, 5, api.Payments()[0].Semester)
}
