package worker_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DanielCanisOrtega/tienda-backend/internal/model"
	"github.com/DanielCanisOrtega/tienda-backend/internal/repository"
	"github.com/DanielCanisOrtega/tienda-backend/internal/worker"
)

type sentMail struct {
	to, subject, body, attachment string
}

type fakeSender struct {
	sent []sentMail
	err  error
}

func (f *fakeSender) Send(to, subject, body, attachmentPath string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to, subject, body, attachmentPath})
	return nil
}

// passBreaker runs the function directly without breaker logic.
type passBreaker struct{}

func (passBreaker) Execute(fn func() error) error { return fn() }

// openBreaker simulates a tripped breaker that fast-fails everything.
type openBreaker struct{}

func (openBreaker) Execute(fn func() error) error { return errors.New("circuit breaker is open") }

// Store/user fakes embed the interface so only the methods the low stock
// worker touches need real bodies.
type fakeStoreRepo struct {
	repository.StoreRepository
	store *model.Store
}

func (f *fakeStoreRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Store, error) {
	if f.store == nil || f.store.ID != id {
		return nil, errors.New("store not found")
	}
	return f.store, nil
}

type fakeUserRepo struct {
	repository.UserRepository
	user *model.User
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	if f.user == nil || f.user.ID != id {
		return nil, errors.New("user not found")
	}
	return f.user, nil
}

func mustJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestEmailWorker_SendsReceipt(t *testing.T) {
	sender := &fakeSender{}
	w := worker.NewEmailWorker(sender, passBreaker{})

	payload := mustJSON(t, worker.EmailJobPayload{
		To:      "cliente@example.com",
		SaleID:  uuid.NewString(),
		Store:   "Tienda Centro",
		Total:   "42.50",
		PDFPath: "/tmp/receipt.pdf",
	})

	require.NoError(t, w.Process(context.Background(), payload))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "cliente@example.com", sender.sent[0].to)
	assert.Contains(t, sender.sent[0].subject, "Tienda Centro")
	assert.Contains(t, sender.sent[0].body, "42.50")
	assert.Equal(t, "/tmp/receipt.pdf", sender.sent[0].attachment)
}

func TestEmailWorker_InvalidPayload(t *testing.T) {
	w := worker.NewEmailWorker(&fakeSender{}, passBreaker{})
	err := w.Process(context.Background(), json.RawMessage(`{broken`))
	assert.ErrorContains(t, err, "invalid email payload")
}

func TestEmailWorker_OpenBreakerSurfacesError(t *testing.T) {
	sender := &fakeSender{}
	w := worker.NewEmailWorker(sender, openBreaker{})

	payload := mustJSON(t, worker.EmailJobPayload{To: "a@b.co", SaleID: uuid.NewString()})
	err := w.Process(context.Background(), payload)
	require.Error(t, err)
	assert.Empty(t, sender.sent)
}

func TestLowStockWorker_NotifiesOwner(t *testing.T) {
	ownerEmail := "dueno@example.com"
	owner := &model.User{ID: uuid.New(), Email: &ownerEmail}
	store := &model.Store{ID: uuid.New(), Name: "Tienda Norte", OwnerID: owner.ID}

	sender := &fakeSender{}
	w := worker.NewLowStockWorker(
		&fakeStoreRepo{store: store},
		&fakeUserRepo{user: owner},
		sender, passBreaker{},
	)

	payload := mustJSON(t, worker.LowStockJobPayload{
		StoreID:     store.ID.String(),
		ProductName: "Leche entera 1L",
		Remaining:   2,
		MinQuantity: 5,
	})

	require.NoError(t, w.Process(context.Background(), payload))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, ownerEmail, sender.sent[0].to)
	assert.Contains(t, sender.sent[0].subject, "Leche entera 1L")
	assert.Contains(t, sender.sent[0].body, "2 unidades")
}

func TestLowStockWorker_SkipsOwnerWithoutEmail(t *testing.T) {
	owner := &model.User{ID: uuid.New(), Email: nil}
	store := &model.Store{ID: uuid.New(), Name: "Tienda Sur", OwnerID: owner.ID}

	sender := &fakeSender{}
	w := worker.NewLowStockWorker(
		&fakeStoreRepo{store: store},
		&fakeUserRepo{user: owner},
		sender, passBreaker{},
	)

	payload := mustJSON(t, worker.LowStockJobPayload{
		StoreID:     store.ID.String(),
		ProductName: "Cafe molido",
		Remaining:   1,
		MinQuantity: 3,
	})

	// No email on file is not a failure — the job completes without retry.
	require.NoError(t, w.Process(context.Background(), payload))
	assert.Empty(t, sender.sent)
}

func TestLowStockWorker_UnknownStoreFails(t *testing.T) {
	sender := &fakeSender{}
	w := worker.NewLowStockWorker(&fakeStoreRepo{}, &fakeUserRepo{}, sender, passBreaker{})

	payload := mustJSON(t, worker.LowStockJobPayload{
		StoreID:     uuid.NewString(),
		ProductName: "Arroz",
	})
	assert.Error(t, w.Process(context.Background(), payload))
}
