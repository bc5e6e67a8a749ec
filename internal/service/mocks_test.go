package service

import (
	"context"
	"testing"

	"freshmarket/internal/client"
	"freshmarket/internal/config"
	"freshmarket/internal/dto"
	"freshmarket/internal/model"
	"freshmarket/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Order{}, &model.OrderItem{}, &model.WebhookEvent{}))
	return db
}

func configuredTestConfig() *config.Config {
	return &config.Config{
		Gateway: config.Gateway{
			BaseApiURL: "https://gateway.test",
			ShopID:     "shop-1",
			SecretKey:  "secret-1",
			ReturnURL:  "https://shop.test/order/success",
		},
		Notify: config.Notify{
			URL: "https://notify.test/hook",
		},
	}
}

// gormOrderView pairs the real order repository with lookup helpers.
type gormOrderView struct {
	db   *gorm.DB
	repo repository.OrderRepository
}

func newOrderView(db *gorm.DB) *gormOrderView {
	return &gormOrderView{db: db, repo: repository.NewOrderRepository(db)}
}

func (p *gormOrderView) find(t *testing.T, paymentID string) *model.Order {
	t.Helper()
	order, err := p.repo.FindByPaymentID(context.Background(), paymentID)
	require.NoError(t, err)
	return order
}

func (p *gormOrderView) findItems(t *testing.T, orderRef string) []model.OrderItem {
	t.Helper()
	var items []model.OrderItem
	require.NoError(t, p.db.Where("order_ref = ?", orderRef).Order("id").Find(&items).Error)
	return items
}

// mockGatewayClient implements client.GatewayClient
type mockGatewayClient struct {
	calls   int
	lastReq *client.CreatePaymentParams
	result  *client.CreatePaymentResult
	err     error
}

func (m *mockGatewayClient) CreatePayment(_ context.Context, req *client.CreatePaymentParams) (*client.CreatePaymentResult, error) {
	m.calls++
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

// mockNotifyClient implements client.NotifyClient
type mockNotifyClient struct {
	calls   int
	lastReq *dto.NotifyRequest
	resp    *dto.NotifyResponse
	err     error
}

func (m *mockNotifyClient) Send(_ context.Context, req *dto.NotifyRequest) (*dto.NotifyResponse, error) {
	m.calls++
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return m.resp, nil
}
