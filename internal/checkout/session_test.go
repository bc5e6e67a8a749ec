package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"freshmarket/internal/cart"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockInitiator struct {
	calls     int
	url       string
	err       error
	hook      func()
	lastLines []cart.Line
}

func (m *mockInitiator) CreatePayment(_ context.Context, amount int64, orderRef, description string, lines []cart.Line) (string, error) {
	m.calls++
	m.lastLines = lines
	if m.hook != nil {
		m.hook()
	}
	return m.url, m.err
}

type mockNotifier struct {
	calls   int
	err     error
	lastMsg OrderNotice
}

func (m *mockNotifier) SendOrder(_ context.Context, notice OrderNotice) error {
	m.calls++
	m.lastMsg = notice
	return m.err
}

type mockNavigator struct {
	redirects []string
	routes    []string
}

func (m *mockNavigator) Redirect(url string) { m.redirects = append(m.redirects, url) }
func (m *mockNavigator) GoTo(route string)   { m.routes = append(m.routes, route) }

func filledCart(t *testing.T) *cart.Cart {
	t.Helper()
	c := cart.New(nil)
	c.Add(cart.Line{ProductID: "p1", Title: "Strawberries", Price: 1000, Quantity: 1})
	c.Add(cart.Line{ProductID: "p2", Title: "Cream", Price: 500, Quantity: 2})
	return c
}

func validForm(method Method) Form {
	return Form{
		Name:          "Anna Petrova",
		Phone:         "+7 (912) 345-67-89",
		Email:         "anna@example.com",
		Address:       "Lenina 12, apt 4",
		DeliverySlot:  "02.09.2026, 09:00-11:00",
		PaymentMethod: method,
		Agreed:        true,
	}
}

func newTestSession(t *testing.T, form Form) (*Session, *mockInitiator, *mockNotifier, *mockNavigator, *[]Completion) {
	t.Helper()
	init := &mockInitiator{url: "https://gateway.example/confirm/abc"}
	notif := &mockNotifier{}
	nav := &mockNavigator{}
	var completions []Completion

	s := NewSession(filledCart(t), Deps{
		Payments:     init,
		Notifier:     notif,
		Navigator:    nav,
		OnComplete:   func(c Completion) { completions = append(completions, c) },
		City:         "Kazan",
		FailureRoute: "/order/failure",
		ResetDelay:   20 * time.Millisecond,
	})
	s.Update(form)
	return s, init, notif, nav, &completions
}

func TestSubmit_AgreementUnchecked_NoNetworkCalls(t *testing.T) {
	form := validForm(MethodCard)
	form.Agreed = false
	s, init, notif, nav, _ := newTestSession(t, form)

	err := s.Submit(context.Background())

	require.ErrorIs(t, err, ErrInvalidForm)
	assert.Equal(t, StatusError, s.Status())
	assert.NotEmpty(t, s.FieldError(FieldAgreement))
	assert.Zero(t, init.calls)
	assert.Zero(t, notif.calls)
	assert.Empty(t, nav.redirects)
}

func TestSubmit_EmptyCart_Rejected(t *testing.T) {
	init := &mockInitiator{}
	notif := &mockNotifier{}
	s := NewSession(cart.New(nil), Deps{Payments: init, Notifier: notif, Navigator: &mockNavigator{}})
	s.Update(validForm(MethodCash))

	err := s.Submit(context.Background())

	require.ErrorIs(t, err, ErrInvalidForm)
	assert.Equal(t, StatusError, s.Status())
	assert.Zero(t, notif.calls)
}

func TestSubmit_Cash_SuccessAndTimedReset(t *testing.T) {
	s, init, notif, _, completions := newTestSession(t, validForm(MethodCash))

	err := s.Submit(context.Background())

	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, s.Status())
	assert.Equal(t, 1, notif.calls)
	assert.Zero(t, init.calls)

	require.Len(t, *completions, 1)
	got := (*completions)[0]
	assert.Equal(t, "Anna", got.FirstName)
	assert.Equal(t, "Kazan", got.City)
	assert.Equal(t, "Strawberries", got.Product)

	assert.Eventually(t, func() bool { return s.Status() == StatusIdle },
		time.Second, 5*time.Millisecond)
}

func TestSubmit_Card_RedirectsExactlyOnce(t *testing.T) {
	s, init, notif, nav, _ := newTestSession(t, validForm(MethodCard))

	err := s.Submit(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, init.calls)
	assert.Equal(t, 1, notif.calls)
	require.Len(t, nav.redirects, 1)
	assert.Equal(t, "https://gateway.example/confirm/abc", nav.redirects[0])
	assert.Len(t, init.lastLines, 2)
	assert.Empty(t, nav.routes)
	// the redirect exits the machine: no further local transition
	assert.Equal(t, StatusLoading, s.Status())
}

func TestSubmit_Card_GatewayFailureNavigatesToFailureRoute(t *testing.T) {
	s, init, _, nav, _ := newTestSession(t, validForm(MethodCard))
	init.url = ""
	init.err = errors.New("upstream 502")

	err := s.Submit(context.Background())

	require.ErrorIs(t, err, ErrPaymentDeclined)
	assert.Equal(t, StatusIdle, s.Status())
	assert.Empty(t, nav.redirects)
	assert.Equal(t, []string{"/order/failure"}, nav.routes)
}

func TestSubmit_Card_MissingConfirmationURLIsFailure(t *testing.T) {
	s, init, _, nav, _ := newTestSession(t, validForm(MethodCard))
	init.url = ""

	err := s.Submit(context.Background())

	require.ErrorIs(t, err, ErrPaymentDeclined)
	assert.Equal(t, []string{"/order/failure"}, nav.routes)
}

func TestSubmit_NotificationFailureNeverBlocksPayment(t *testing.T) {
	s, init, notif, nav, _ := newTestSession(t, validForm(MethodCard))
	notif.err = errors.New("channel down")

	err := s.Submit(context.Background())

	require.NoError(t, err)
	assert.True(t, s.NotifyFailed())
	assert.Equal(t, 1, init.calls)
	assert.Len(t, nav.redirects, 1)
}

func TestSubmit_SecondSubmissionWhileLoadingIsRejected(t *testing.T) {
	s, init, _, _, _ := newTestSession(t, validForm(MethodCard))

	var reentrant error
	init.hook = func() {
		reentrant = s.Submit(context.Background())
	}

	err := s.Submit(context.Background())

	require.NoError(t, err)
	assert.ErrorIs(t, reentrant, ErrSubmitInFlight)
	assert.Equal(t, 1, init.calls)
}

func TestSubmit_Cash_TimedResetSafeUnderConcurrentReads(t *testing.T) {
	s, _, _, _, _ := newTestSession(t, validForm(MethodCash))

	require.NoError(t, s.Submit(context.Background()))

	// read the timer-touched fields while the reset fires
	done := make(chan struct{})
	go func() {
		defer close(done)
		deadline := time.Now().Add(60 * time.Millisecond)
		for time.Now().Before(deadline) {
			_ = s.Status()
			_ = s.NotifyFailed()
			_ = s.FieldError(FieldName)
		}
	}()
	<-done

	assert.Equal(t, StatusIdle, s.Status())
}

func TestSubmit_NotificationCarriesFormAndCart(t *testing.T) {
	s, _, notif, _, _ := newTestSession(t, validForm(MethodCash))

	require.NoError(t, s.Submit(context.Background()))

	assert.Equal(t, "Anna Petrova", notif.lastMsg.Name)
	assert.Equal(t, "02.09.2026, 09:00-11:00", notif.lastMsg.DeliveryTime)
	assert.Len(t, notif.lastMsg.Lines, 2)
}

func TestBlur_ValidatesSingleField(t *testing.T) {
	s, _, notif, _, _ := newTestSession(t, Form{Phone: "123"})

	msg := s.Blur(FieldPhone)

	assert.NotEmpty(t, msg)
	assert.Equal(t, msg, s.FieldError(FieldPhone))
	assert.Zero(t, notif.calls)
	assert.Equal(t, StatusIdle, s.Status())
}

func TestValidate_PhoneNormalization(t *testing.T) {
	cases := []struct {
		phone string
		ok    bool
	}{
		{"+7 (912) 345-67-89", true},
		{"89123456789", true},
		{"8.912.345.67.89", true},
		{"+123456789012345", true},
		{"12345", false},
		{"+1234567890123456", false},
		{"phone", false},
		{"", false},
	}
	for _, tc := range cases {
		form := validForm(MethodCash)
		form.Phone = tc.phone
		s, _, _, _, _ := newTestSession(t, form)

		msg := s.Blur(FieldPhone)
		if tc.ok {
			assert.Empty(t, msg, "phone %q", tc.phone)
		} else {
			assert.NotEmpty(t, msg, "phone %q", tc.phone)
		}
	}
}

func TestValidate_EmailOptionalButShaped(t *testing.T) {
	form := validForm(MethodCash)
	form.Email = ""
	s, _, _, _, _ := newTestSession(t, form)
	assert.Empty(t, s.Blur(FieldEmail))

	form.Email = "not-an-email"
	s.Update(form)
	assert.NotEmpty(t, s.Blur(FieldEmail))
}
