package checkout

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/esencia-ar/backend/internal/clients/mercadopago"
	"github.com/esencia-ar/backend/internal/clients/scheduling"
	"github.com/esencia-ar/backend/internal/domain"
	"github.com/esencia-ar/backend/internal/pricing"
	"github.com/google/uuid"
)

// OrderStore is the authoritative order record.
type OrderStore interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
}

type PaymentGateway interface {
	CreatePreference(ctx context.Context, req mercadopago.PreferenceRequest) (*mercadopago.Preference, error)
}

type DeliveryScheduler interface {
	Schedule(ctx context.Context, req scheduling.ScheduleRequest) (*scheduling.ScheduleResult, error)
}

// Coordinator drives order submission: snapshot, local record, authoritative
// write, then the payment branch. Failure handling per step follows the
// policy table in policy.go.
type Coordinator struct {
	orders    OrderStore
	payments  PaymentGateway
	scheduler DeliveryScheduler
}

func NewCoordinator(orders OrderStore, payments PaymentGateway, scheduler DeliveryScheduler) *Coordinator {
	return &Coordinator{
		orders:    orders,
		payments:  payments,
		scheduler: scheduler,
	}
}

type ConfirmResult struct {
	OrderID      string
	RedirectURL  string // mercadopago branch only
	DeliveryDate string
	Scheduled    bool
	SchedulingID string
}

// Confirm handles the payment-step confirm event. On the mercadopago branch a
// returned error keeps the session on payment; the local order record is
// retained either way as the reconciliation anchor.
func (c *Coordinator) Confirm(ctx context.Context, s *Session) (*ConfirmResult, error) {
	if err := s.beginProcessing(); err != nil {
		return nil, err
	}
	defer s.endProcessing()

	lines := s.Cart.Lines()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	cfg := s.Shipping()
	if !cfg.PaymentMethod.Valid() {
		return nil, ErrInvalidPayment
	}

	order, err := buildOrder(lines, cfg, s.Rate())
	if err != nil {
		return nil, err
	}

	// Optimistic local record, appended before any external acknowledgment.
	s.recordLocal(order)

	if err := c.orders.CreateOrder(ctx, &order); err != nil {
		if PolicyFor(StepAuthoritativeStore) == FailureHard {
			return nil, fmt.Errorf("record order %s: %w", order.ID, err)
		}
		log.Printf("order %s: authoritative write failed (tolerated): %v", order.ID, err)
	} else {
		s.markConfirmed(order.ID)
	}

	switch order.PaymentMethod {
	case domain.PaymentMercadoPago:
		return c.confirmMercadoPago(ctx, s, order)
	case domain.PaymentCash:
		return c.confirmCash(ctx, s, order)
	default:
		// Unreachable after the guard above; never fall through to cash.
		return nil, ErrInvalidPayment
	}
}

func (c *Coordinator) confirmMercadoPago(ctx context.Context, s *Session, order domain.Order) (*ConfirmResult, error) {
	pref, err := c.payments.CreatePreference(ctx, buildPreferenceRequest(order))
	if err != nil {
		if PolicyFor(StepPaymentPreference) == FailureHard {
			return nil, fmt.Errorf("%w: %v", ErrPaymentRejected, err)
		}
		log.Printf("order %s: preference creation failed (tolerated): %v", order.ID, err)
		pref = &mercadopago.Preference{}
	}

	// The client navigates to the redirect; final confirmation happens
	// asynchronously at the gateway, outside this pipeline.
	s.completeSubmission()

	return &ConfirmResult{
		OrderID:      order.ID,
		RedirectURL:  pref.InitPoint,
		DeliveryDate: order.DeliveryDate,
	}, nil
}

func (c *Coordinator) confirmCash(ctx context.Context, s *Session, order domain.Order) (*ConfirmResult, error) {
	result := &ConfirmResult{
		OrderID:      order.ID,
		DeliveryDate: order.DeliveryDate,
	}

	res, err := c.scheduler.Schedule(ctx, buildScheduleRequest(order))
	switch {
	case err != nil:
		log.Printf("order %s: delivery scheduling failed (tolerated): %v", order.ID, err)
	case !res.Success:
		log.Printf("order %s: delivery scheduling rejected (tolerated)", order.ID)
	default:
		result.Scheduled = true
		result.SchedulingID = res.SchedulingID
	}

	s.completeSubmission()
	return result, nil
}

// buildOrder freezes the cart lines and shipping data into the immutable
// submission snapshot. The settlement total is computed here, independently
// of the display totals.
func buildOrder(lines []domain.CartLine, cfg domain.ShippingConfig, rate float64) (domain.Order, error) {
	now := time.Now()

	feeARS, feeUSD, err := pricing.ShippingFee(cfg.Region, cfg.DeliveryDate, rate)
	if err != nil {
		return domain.Order{}, err
	}

	items := make([]domain.OrderItem, 0, len(lines))
	var totalUSD float64
	for _, line := range lines {
		unitARS, err := pricing.ToLocal(line.Product.PriceUSD, rate)
		if err != nil {
			return domain.Order{}, err
		}
		items = append(items, domain.OrderItem{
			ProductID:    line.Product.ID,
			ProductName:  line.Product.Name,
			Quantity:     line.Quantity,
			UnitPriceUSD: line.Product.PriceUSD,
			UnitPriceARS: unitARS,
		})
		totalUSD += line.Product.PriceUSD * float64(line.Quantity)
	}
	totalUSD += feeUSD

	return domain.Order{
		ID:             newOrderID(now),
		Items:          items,
		TotalUSD:       totalUSD,
		ShippingFeeARS: feeARS,
		ShippingFeeUSD: feeUSD,
		CustomerName:   cfg.FullName,
		CustomerEmail:  cfg.Email,
		Address:        composeAddress(cfg),
		DeliveryDate:   deliveryDateString(cfg),
		Region:         cfg.Region,
		PaymentMethod:  cfg.PaymentMethod,
		Status:         domain.OrderStatusPending,
		CreatedAt:      now,
	}, nil
}

// newOrderID is time-derived for human-sortable ids, with a random suffix to
// keep it unique under same-millisecond submissions.
func newOrderID(now time.Time) string {
	return fmt.Sprintf("ORD-%d-%s", now.UnixMilli(), uuid.NewString()[:8])
}

func composeAddress(cfg domain.ShippingConfig) string {
	return fmt.Sprintf("%s, %s, %s", cfg.Address, cfg.Locality, cfg.Province)
}

func deliveryDateString(cfg domain.ShippingConfig) string {
	if cfg.DeliveryDate == nil {
		return fmt.Sprintf("(%s)", cfg.Region)
	}
	return fmt.Sprintf("%s (%s)", cfg.DeliveryDate.Format("2006-01-02"), cfg.Region)
}

func buildPreferenceRequest(order domain.Order) mercadopago.PreferenceRequest {
	items := make([]mercadopago.PreferenceItem, 0, len(order.Items)+1)
	for _, it := range order.Items {
		items = append(items, mercadopago.PreferenceItem{
			Title:     it.ProductName,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPriceARS,
		})
	}
	if order.ShippingFeeARS > 0 {
		// The fee rides along as a pseudo-line-item so the gateway settles it.
		items = append(items, mercadopago.PreferenceItem{
			Title:     "Envío",
			Quantity:  1,
			UnitPrice: order.ShippingFeeARS,
		})
	}
	return mercadopago.PreferenceRequest{
		Items:             items,
		ShippingCost:      order.ShippingFeeARS,
		ExternalReference: order.ID,
	}
}

func buildScheduleRequest(order domain.Order) scheduling.ScheduleRequest {
	items := make([]scheduling.ScheduleItem, 0, len(order.Items))
	var totalARS int64
	for _, it := range order.Items {
		items = append(items, scheduling.ScheduleItem{
			Name:     it.ProductName,
			Quantity: it.Quantity,
		})
		totalARS += it.UnitPriceARS * int64(it.Quantity)
	}
	totalARS += order.ShippingFeeARS

	return scheduling.ScheduleRequest{
		OrderID:      order.ID,
		CustomerName: order.CustomerName,
		Address:      order.Address,
		DeliveryDate: order.DeliveryDate,
		Items:        items,
		Total:        fmt.Sprintf("$%d ARS", totalARS),
	}
}
