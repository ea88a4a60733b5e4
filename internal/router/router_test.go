package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inovasi-informatika/spp-admin/internal/config"
	"github.com/inovasi-informatika/spp-admin/internal/flash"
	"github.com/inovasi-informatika/spp-admin/internal/handler"
	"github.com/inovasi-informatika/spp-admin/internal/middleware"
	"github.com/inovasi-informatika/spp-admin/internal/model"
	"github.com/inovasi-informatika/spp-admin/internal/repository"
	"github.com/inovasi-informatika/spp-admin/internal/service"
	"github.com/inovasi-informatika/spp-admin/internal/testutil"
	"github.com/inovasi-informatika/spp-admin/internal/validator"
	"github.com/inovasi-informatika/spp-admin/internal/view"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testApp struct {
	api    *testutil.FakeAPI
	router *gin.Engine
}

func newTestApp(t *testing.T, rate int) *testApp {
	t.Helper()
	validator.Setup()

	api := testutil.NewFakeAPI(t)
	api.SeedStudents(
		model.Student{NIM: "A1", Nama: "Budi", Prodi: model.ProdiMI, Beasiswa: model.BeasiswaPartial, Status: model.StatusActive},
		model.Student{NIM: "B2", Nama: "Sari", Prodi: model.ProdiMK, Beasiswa: model.BeasiswaFull, Status: model.StatusInactive},
		model.Student{NIM: "C3", Nama: "Eko", Prodi: model.ProdiTPM, Beasiswa: model.BeasiswaNone, Status: model.StatusActive},
	)

	log := zerolog.Nop()
	client := repository.NewClient(api.URL, 5*time.Second, log)
	studentRepo := repository.NewStudentRepository(client)
	paymentRepo := repository.NewPaymentRepository(client)
	studentService := service.NewStudentService(studentRepo, log)
	paymentService := service.NewPaymentService(paymentRepo, studentRepo, log)

	pages, err := view.Load()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	cfg := &config.Config{GinMode: gin.TestMode, APIBaseURL: api.URL}
	flashes := flash.NewManager(flash.NewMemoryStore(), time.Minute, log)
	handlers := &Handlers{
		Page:    handler.NewPageHandler(studentService, paymentService, flashes, log),
		Student: handler.NewStudentHandler(studentService),
		Payment: handler.NewPaymentHandler(paymentService),
		System:  handler.NewSystemHandler(nil, cfg.APIBaseURL, log),
	}

	return &testApp{
		api:    api,
		router: SetupRouter(handlers, pages, middleware.NewRateLimiter(ctx, rate, time.Minute), cfg),
	}
}

func (a *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return a.do(req)
}

func (a *testApp) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.do(req)
}

func (a *testApp) sendJSON(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return a.do(req)
}

type envelope struct {
	Data  map[string]any `json:"data"`
	Error *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func flashCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == flash.CookieName && c.Value != "" {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", flash.CookieName)
	return nil
}

// ─── HTML Pages ────────────────────────────────────────────────────────

func TestSPPListPage(t *testing.T) {
	app := newTestApp(t, 100)
	app.api.SeedPayments(model.Payment{ID: "1", NIM: "A1", Semester: 1, Jumlah: 5_000_000})

	for _, path := range []string{"/", "/list-spp"} {
		w := app.get(path)
		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "Budi")
		assert.Contains(t, body, "Rp 5.000.000")
		assert.Contains(t, body, "Menampilkan 1 Transaksi SPP")
		assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	}
}

func TestSPPListPageUpstreamDown(t *testing.T) {
	app := newTestApp(t, 100)
	app.api.Respond(http.MethodGet, "/spp/read.php", http.StatusInternalServerError, `{"message":"db down"}`)

	w := app.get("/")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "Gagal mengambil data")
	assert.Contains(t, w.Body.String(), "Tidak ada data")
}

func TestAddSPPFormListsActiveStudentsWithQuote(t *testing.T) {
	app := newTestApp(t, 100)

	w := app.get("/add-spp?nim=A1")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `<option value="A1" selected>`)
	assert.Contains(t, body, `<option value="C3" >`)
	assert.NotContains(t, body, `value="B2"`)
	assert.Contains(t, body, "Beasiswa Parsial (50%)")
	assert.Contains(t, body, "Rp 5.000.000")
}

func TestAddSPPSuccessRedirectsWithFlash(t *testing.T) {
	app := newTestApp(t, 100)

	w := app.postForm("/add-spp", url.Values{"mhs_nim": {"A1"}, "spp_semester": {"2"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	payments := app.api.Payments()
	require.Len(t, payments, 1)
	assert.Equal(t, int64(5_000_000), payments[0].Jumlah)
	assert.Equal(t, 2, payments[0].Semester)

	w = app.get("/", flashCookie(t, w))
	assert.Contains(t, w.Body.String(), handler.MsgPaymentCreated)
}

func TestAddSPPDuplicateRerendersForm(t *testing.T) {
	app := newTestApp(t, 100)
	app.api.SeedPayments(model.Payment{ID: "7", NIM: "A1", Semester: 2, Jumlah: 5_000_000})

	w := app.postForm("/add-spp", url.Values{"mhs_nim": {"A1"}, "spp_semester": {"2"}})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "sudah membayar SPP untuk semester 2")
	assert.Zero(t, app.api.Calls(http.MethodPost, "/spp/create.php"))
}

func TestAddSPPMissingSemester(t *testing.T) {
	app := newTestApp(t, 100)

	w := app.postForm("/add-spp", url.Values{"mhs_nim": {"A1"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Semester harus diisi")
	assert.Zero(t, app.api.Calls(http.MethodGet, "/spp/read.php"))
}

func TestAddMahasiswaValidatesBeforeSubmit(t *testing.T) {
	app := newTestApp(t, 100)

	w := app.postForm("/add-mahasiswa", url.Values{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "NIM harus diisi")
	assert.Zero(t, app.api.Calls(http.MethodPost, "/mahasiswa/create.php"))
}

func TestAddMahasiswaShowsServerRejection(t *testing.T) {
	app := newTestApp(t, 100)

	w := app.postForm("/add-mahasiswa", url.Values{
		"mhs_nim": {"A1"}, "mhs_nama": {"Budi Lagi"}, "mhs_prodi": {"MI"}, "mhs_beasiswa": {"3"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "NIM sudah terdaftar")
}

func TestAddMahasiswaSuccess(t *testing.T) {
	app := newTestApp(t, 100)

	w := app.postForm("/add-mahasiswa", url.Values{
		"mhs_nim": {"D4"}, "mhs_nama": {"Dewi"}, "mhs_prodi": {"TPM"}, "mhs_beasiswa": {"1"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/list-mahasiswa", w.Header().Get("Location"))

	w = app.get("/list-mahasiswa", flashCookie(t, w))
	body := w.Body.String()
	assert.Contains(t, body, handler.MsgStudentCreated)
	assert.Contains(t, body, "Dewi")
	assert.Contains(t, body, "/mahasiswa/D4/deactivate")
}

func TestDeactivateFromList(t *testing.T) {
	app := newTestApp(t, 100)

	w := app.postForm("/mahasiswa/A1/deactivate", nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	cookie := flashCookie(t, w)

	for _, s := range app.api.Students() {
		if s.NIM == "A1" {
			assert.Equal(t, model.StatusInactive, s.Status)
		}
	}
	body := app.get("/list-mahasiswa", cookie).Body.String()
	assert.Contains(t, body, handler.MsgStudentDeactivated)
	assert.NotContains(t, body, "/mahasiswa/A1/deactivate")

	// A second attempt is refused without another PATCH.
	w = app.postForm("/mahasiswa/A1/deactivate", nil)
	body = app.get("/list-mahasiswa", flashCookie(t, w)).Body.String()
	assert.Contains(t, body, "Mahasiswa sudah nonaktif.")
	assert.Equal(t, 1, app.api.Calls(http.MethodPatch, "/mahasiswa/delete.php"))
}

func TestStaticAssetsAreCached(t *testing.T) {
	app := newTestApp(t, 100)

	w := app.get("/static/style.css")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "public, max-age=86400", w.Header().Get("Cache-Control"))
}

// ─── JSON API ──────────────────────────────────────────────────────────

func TestAPIListStudents(t *testing.T) {
	app := newTestApp(t, 100)

	env := decode(t, app.get("/api/v1/mahasiswa"))
	assert.EqualValues(t, 3, env.Data["count"])

	env = decode(t, app.get("/api/v1/mahasiswa?active=true"))
	assert.EqualValues(t, 2, env.Data["count"])
}

func TestAPIGetStudent(t *testing.T) {
	app := newTestApp(t, 100)

	w := app.get("/api/v1/mahasiswa/B2")
	require.Equal(t, http.StatusOK, w.Code)
	student := decode(t, w).Data["student"].(map[string]any)
	assert.Equal(t, "Sari", student["mhs_nama"])

	w = app.get("/api/v1/mahasiswa/ZZ")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decode(t, w).Error.Code)
}

func TestAPICreatePayment(t *testing.T) {
	app := newTestApp(t, 100)

	w := app.sendJSON(http.MethodPost, "/api/v1/spp", `{"mhs_nim":"C3","spp_semester":3}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	payment := decode(t, w).Data["payment"].(map[string]any)
	assert.EqualValues(t, 10_000_000, payment["spp_jumlah"])
	assert.Equal(t, "3", payment["spp_semester"])

	w = app.sendJSON(http.MethodPost, "/api/v1/spp", `{"mhs_nim":"C3","spp_semester":"3"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "DUPLICATE_PAYMENT", decode(t, w).Error.Code)
	assert.Equal(t, 1, app.api.Calls(http.MethodPost, "/spp/create.php"))
}

func TestAPICreateStudentAcceptsNumericColumns(t *testing.T) {
	app := newTestApp(t, 100)

	w := app.sendJSON(http.MethodPost, "/api/v1/mahasiswa", `{"mhs_nim":12345,"mhs_nama":"Eka","mhs_prodi":"MI","mhs_beasiswa":2}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	student := decode(t, w).Data["student"].(map[string]any)
	assert.Equal(t, "12345", student["mhs_nim"])
	assert.Equal(t, "2", student["mhs_beasiswa"])
	assert.Equal(t, 1, app.api.Calls(http.MethodPost, "/mahasiswa/create.php"))
}

func TestAPICreatePaymentValidation(t *testing.T) {
	app := newTestApp(t, 100)

	w := app.sendJSON(http.MethodPost, "/api/v1/spp", `{"mhs_nim":"A1","spp_semester":"15"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(t, w)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Equal(t, "Semester harus antara 1 sampai 14", env.Error.Fields["spp_semester"])

	w = app.sendJSON(http.MethodPost, "/api/v1/spp", `{"mhs_nim":"B2","spp_semester":"1"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "STUDENT_INACTIVE", decode(t, w).Error.Code)
}

func TestAPIQuoteAndGetPayment(t *testing.T) {
	app := newTestApp(t, 100)
	app.api.SeedPayments(model.Payment{ID: "9", NIM: "A1", Semester: 4, Jumlah: 5_000_000})

	quote := decode(t, app.get("/api/v1/spp/quote?nim=A1")).Data["quote"].(map[string]any)
	assert.EqualValues(t, 5_000_000, quote["spp_jumlah"])
	assert.Equal(t, "Beasiswa Parsial (50%)", quote["beasiswa_label"])

	payment := decode(t, app.get("/api/v1/spp/9")).Data["payment"].(map[string]any)
	assert.EqualValues(t, 4, payment["spp_semester"])

	assert.Equal(t, http.StatusNotFound, app.get("/api/v1/spp/404").Code)
}

func TestAPIDeactivate(t *testing.T) {
	app := newTestApp(t, 100)

	w := app.sendJSON(http.MethodPatch, "/api/v1/mahasiswa/A1/deactivate", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, handler.MsgStudentDeactivated, decode(t, w).Data["message"])

	w = app.sendJSON(http.MethodPatch, "/api/v1/mahasiswa/A1/deactivate", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "STUDENT_ALREADY_INACTIVE", decode(t, w).Error.Code)
}

func TestAPIUpstreamFailures(t *testing.T) {
	app := newTestApp(t, 100)
	app.api.Respond(http.MethodGet, "/spp/read.php", http.StatusInternalServerError, "oops")
	app.api.Respond(http.MethodPost, "/mahasiswa/create.php", http.StatusOK, `{"status":"failed","message":"Prodi penuh"}`)

	w := app.get("/api/v1/spp")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "UPSTREAM_UNAVAILABLE", decode(t, w).Error.Code)

	w = app.sendJSON(http.MethodPost, "/api/v1/mahasiswa", `{"mhs_nim":"E5","mhs_nama":"Eka","mhs_prodi":"MI","mhs_beasiswa":"2"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	env := decode(t, w)
	assert.Equal(t, "UPSTREAM_REJECTED", env.Error.Code)
	assert.Equal(t, "Prodi penuh", env.Error.Message)
}

func TestAPIWritesAreRateLimited(t *testing.T) {
	app := newTestApp(t, 1)

	w := app.sendJSON(http.MethodPost, "/api/v1/spp", `{"mhs_nim":"C3","spp_semester":"1"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = app.sendJSON(http.MethodPost, "/api/v1/spp", `{"mhs_nim":"C3","spp_semester":"2"}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", decode(t, w).Error.Code)

	// Reads are not limited.
	assert.Equal(t, http.StatusOK, app.get("/api/v1/spp").Code)
}

func TestHealth(t *testing.T) {
	app := newTestApp(t, 100)

	w := app.get("/health")
	require.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	assert.Equal(t, "ok", env.Data["status"])
	assert.Equal(t, "memory", env.Data["flash_store"])
}
