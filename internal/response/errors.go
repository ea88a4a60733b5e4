package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation       ErrCode = "VALIDATION_ERROR"
	ErrInvalidPayload   ErrCode = "INVALID_PAYLOAD"
	ErrDuplicatePayment ErrCode = "DUPLICATE_PAYMENT"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound        ErrCode = "NOT_FOUND"
	ErrStudentInactive ErrCode = "STUDENT_INACTIVE"
	ErrAlreadyInactive ErrCode = "STUDENT_ALREADY_INACTIVE"

	// ─── Records API ───────────────────────────────────────────────────
	ErrUpstreamUnavailable ErrCode = "UPSTREAM_UNAVAILABLE"
	ErrUpstreamRejected    ErrCode = "UPSTREAM_REJECTED"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── CLI ───────────────────────────────────────────────────────────
	ErrConfirmationRequired ErrCode = "CONFIRMATION_REQUIRED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validasi gagal. Silakan periksa masukan Anda."
	case ErrInvalidPayload:
		return "Payload permintaan tidak valid."
	case ErrDuplicatePayment:
		return "Mahasiswa ini sudah membayar SPP untuk semester tersebut."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Data tidak ditemukan."
	case ErrStudentInactive:
		return "Mahasiswa tidak aktif."
	case ErrAlreadyInactive:
		return "Mahasiswa sudah nonaktif."

	// ─── Records API ───────────────────────────────────────────────────
	case ErrUpstreamUnavailable:
		return "Gagal menghubungi server data. Silakan coba lagi."
	case ErrUpstreamRejected:
		return "Permintaan ditolak oleh server data."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Terlalu banyak permintaan. Silakan coba lagi nanti."

	// ─── CLI ───────────────────────────────────────────────────────────
	case ErrConfirmationRequired:
		return "Konfirmasi diperlukan. Gunakan --yes untuk melanjutkan tanpa prompt."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Terjadi kesalahan server internal."
	default:
		return "Terjadi kesalahan yang tidak terduga."
	}
}
