package repository

import (
	"context"
	"net/http"

	"github.com/inovasi-informatika/spp-admin/internal/model"
)

const (
	pathPaymentRead   = "/spp/read.php"
	pathPaymentCreate = "/spp/create.php"
)

// PaymentRepository handles SPP data access through the records API.
type PaymentRepository struct {
	client *Client
}

// NewPaymentRepository creates a new PaymentRepository.
func NewPaymentRepository(client *Client) *PaymentRepository {
	return &PaymentRepository{client: client}
}

// List retrieves every recorded SPP payment.
func (r *PaymentRepository) List(ctx context.Context) ([]model.Payment, error) {
	shape, err := r.client.list(ctx, "list payments", pathPaymentRead, "spp")
	if err != nil {
		return nil, err
	}
	return decodeRecords[model.Payment](shape, r.client.log), nil
}

// Create records a payment. The caller is responsible for the amount and
// for the duplicate check; the API does not enforce either.
func (r *PaymentRepository) Create(ctx context.Context, req *model.CreatePaymentRequest) (model.MutationResult, error) {
	return r.client.mutate(ctx, "create payment", http.MethodPost, pathPaymentCreate, req)
}
