package checkout

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"freshmarket/internal/cart"

	"github.com/google/uuid"
)

type Status string

const (
	StatusIdle       Status = "IDLE"
	StatusValidating Status = "VALIDATING"
	StatusLoading    Status = "LOADING"
	StatusSuccess    Status = "SUCCESS"
	StatusError      Status = "ERROR"
)

type Method string

const (
	MethodCard Method = "card"
	MethodCash Method = "cash"
)

var (
	ErrSubmitInFlight  = errors.New("submission already in flight")
	ErrInvalidForm     = errors.New("form validation failed")
	ErrPaymentDeclined = errors.New("payment session could not be created")
)

// Form is the data collected from the customer before submission.
type Form struct {
	Name          string
	Phone         string
	Email         string
	Address       string
	DeliverySlot  string
	PaymentMethod Method
	Agreed        bool
}

// Completion is handed to the completion callback after a cash order.
type Completion struct {
	FirstName string
	City      string
	Product   string
}

// OrderNotice is the payload dispatched to the notification channel.
type OrderNotice struct {
	Name         string
	Phone        string
	Email        string
	Address      string
	DeliveryTime string
	Lines        []cart.Line
}

// PaymentInitiator creates a payment session at the gateway and returns the
// confirmation URL the customer must be redirected to.
type PaymentInitiator interface {
	CreatePayment(ctx context.Context, amount int64, orderRef, description string, lines []cart.Line) (string, error)
}

// Notifier reports the order to the human-facing notification channel.
// Failures are tolerated; they never block payment.
type Notifier interface {
	SendOrder(ctx context.Context, notice OrderNotice) error
}

// Navigator owns page navigation. Redirect is the irrevocable hand-off to
// the gateway; GoTo enters a local route.
type Navigator interface {
	Redirect(url string)
	GoTo(route string)
}

// Deps are the session's collaborators and fixed parameters.
type Deps struct {
	Payments     PaymentInitiator
	Notifier     Notifier
	Navigator    Navigator
	OnComplete   func(Completion)
	City         string
	FailureRoute string
	ResetDelay   time.Duration
}

// Session is the checkout state machine for one customer interaction. The
// form belongs to a single goroutine; the mutex only covers the fields the
// reset timer touches, so readers stay safe while the timed reset fires. The
// double-submission guard is still the loading status flag itself.
type Session struct {
	cart *cart.Cart
	form Form
	deps Deps

	mu           sync.Mutex
	status       Status
	touched      map[Field]bool
	fieldErrs    map[Field]string
	notifyFailed bool
	resetTimer   *time.Timer

	newOrderRef func() string
}

func NewSession(c *cart.Cart, deps Deps) *Session {
	if deps.ResetDelay <= 0 {
		deps.ResetDelay = 6 * time.Second
	}
	return &Session{
		cart:        c,
		deps:        deps,
		status:      StatusIdle,
		touched:     make(map[Field]bool),
		fieldErrs:   make(map[Field]string),
		newOrderRef: uuid.NewString,
	}
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Session) Form() Form { return s.form }

func (s *Session) NotifyFailed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notifyFailed
}

func (s *Session) FieldError(f Field) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fieldErrs[f]
}

func (s *Session) setStatus(st Status) {
	s.mu.Lock()
	s.status = st
	s.mu.Unlock()
}

// Update replaces the form data without touching fields or validating;
// validation happens on Blur and on Submit.
func (s *Session) Update(form Form) {
	s.form = form
}

// SetSlot is wired as the slot picker's onChosen callback.
func (s *Session) SetSlot(slot string) {
	s.form.DeliverySlot = slot
	if s.touched[FieldSlot] {
		s.Blur(FieldSlot)
	}
}

// Blur marks a field touched and validates it in isolation.
func (s *Session) Blur(f Field) string {
	s.touched[f] = true
	msg := s.validateField(f)
	s.mu.Lock()
	if msg == "" {
		delete(s.fieldErrs, f)
	} else {
		s.fieldErrs[f] = msg
	}
	s.mu.Unlock()
	return msg
}

// Submit runs the full submission protocol. Exactly one submission may be in
// flight: a second call while loading fails immediately. Validation failures
// set the error status and make zero network calls.
func (s *Session) Submit(ctx context.Context) error {
	s.mu.Lock()
	if s.status == StatusLoading {
		s.mu.Unlock()
		return ErrSubmitInFlight
	}
	s.status = StatusValidating
	s.mu.Unlock()

	errs := s.validateAll()
	s.touchAll()
	s.mu.Lock()
	if len(errs) > 0 {
		s.fieldErrs = errs
		s.status = StatusError
		s.mu.Unlock()
		return ErrInvalidForm
	}
	s.fieldErrs = map[Field]string{}
	s.status = StatusLoading
	s.mu.Unlock()

	// Best effort: a failed notification never blocks payment.
	if err := s.deps.Notifier.SendOrder(ctx, s.orderNotice()); err != nil {
		s.mu.Lock()
		s.notifyFailed = true
		s.mu.Unlock()
		log.Printf("checkout: order notification failed: %v", err)
	}

	switch s.form.PaymentMethod {
	case MethodCash:
		return s.completeCash()
	default:
		return s.initiateCardPayment(ctx)
	}
}

// Reset returns the session to idle, keeping the form contents. The timed
// reset after a cash success calls this from the timer goroutine.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.resetTimer != nil {
		s.resetTimer.Stop()
		s.resetTimer = nil
	}
	s.status = StatusIdle
	s.fieldErrs = map[Field]string{}
}

func (s *Session) completeCash() error {
	s.setStatus(StatusSuccess)
	if s.deps.OnComplete != nil {
		s.deps.OnComplete(Completion{
			FirstName: firstName(s.form.Name),
			City:      s.deps.City,
			Product:   s.cart.Sample(),
		})
	}
	s.mu.Lock()
	s.resetTimer = time.AfterFunc(s.deps.ResetDelay, s.Reset)
	s.mu.Unlock()
	return nil
}

// paymentOutcome is the single result of a card payment attempt, consumed by
// one navigation decision below.
type paymentOutcome struct {
	redirectURL string
	reason      string
}

func (s *Session) initiateCardPayment(ctx context.Context) error {
	totals := s.cart.Totals()
	orderRef := s.newOrderRef()

	outcome := paymentOutcome{}
	url, err := s.deps.Payments.CreatePayment(ctx, totals.Total, orderRef, s.cart.Describe(), s.cart.Lines())
	switch {
	case err != nil:
		outcome.reason = err.Error()
	case url == "":
		outcome.reason = "gateway returned no confirmation url"
	default:
		outcome.redirectURL = url
	}

	if outcome.redirectURL != "" {
		// Irrevocable hand-off: after the redirect the machine observes no
		// further transitions; settlement arrives later via webhook.
		s.deps.Navigator.Redirect(outcome.redirectURL)
		return nil
	}

	log.Printf("checkout: payment session failed for order %s: %s", orderRef, outcome.reason)
	s.setStatus(StatusIdle)
	s.deps.Navigator.GoTo(s.deps.FailureRoute)
	return ErrPaymentDeclined
}

func (s *Session) orderNotice() OrderNotice {
	return OrderNotice{
		Name:         s.form.Name,
		Phone:        s.form.Phone,
		Email:        s.form.Email,
		Address:      s.form.Address,
		DeliveryTime: s.form.DeliverySlot,
		Lines:        s.cart.Lines(),
	}
}

func (s *Session) touchAll() {
	for _, f := range allFields {
		s.touched[f] = true
	}
}

func firstName(full string) string {
	fields := strings.Fields(full)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
