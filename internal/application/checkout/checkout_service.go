package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/checkout"
	"github.com/shopfront/backend/internal/domain/partner"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/domain/shared/valueobject"
	"github.com/shopfront/backend/internal/domain/shipping"
	"github.com/shopfront/backend/internal/domain/trade"
	"github.com/shopfront/backend/internal/infrastructure/config"
	"github.com/shopfront/backend/internal/infrastructure/telemetry"
)

// PaymentInitiator creates the gateway charge for a freshly placed order
// and attaches the resulting token to it. Implemented by the finance
// application service.
type PaymentInitiator interface {
	InitiatePayment(ctx context.Context, order *trade.Order) error
}

// CheckoutService drives the checkout flow: cart edits, destination
// selection, the shipping rate-selection step and order placement. Session
// state lives in the session store between calls; every mutation is
// persisted before returning.
type CheckoutService struct {
	sessions    checkout.SessionStore
	productRepo catalog.ProductRepository
	addressRepo partner.AddressRepository
	txScope     TransactionScope
	rateGateway shipping.RateGateway
	payments    PaymentInitiator
	shippingCfg config.ShippingConfig
	logger      *zap.Logger
}

// NewCheckoutService creates a new checkout service. Order and product
// writes during placement go through the transaction scope; the product
// repository serves the read-only cart lookups.
func NewCheckoutService(
	sessions checkout.SessionStore,
	productRepo catalog.ProductRepository,
	addressRepo partner.AddressRepository,
	txScope TransactionScope,
	rateGateway shipping.RateGateway,
	payments PaymentInitiator,
	shippingCfg config.ShippingConfig,
	logger *zap.Logger,
) *CheckoutService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckoutService{
		sessions:    sessions,
		productRepo: productRepo,
		addressRepo: addressRepo,
		txScope:     txScope,
		rateGateway: rateGateway,
		payments:    payments,
		shippingCfg: shippingCfg,
		logger:      logger.Named("checkout"),
	}
}

// GetSession returns the customer's checkout session, creating an empty
// one when none exists yet. The empty session is not persisted until the
// first mutation.
func (s *CheckoutService) GetSession(ctx context.Context, customerID uuid.UUID) (*SessionResponse, error) {
	session, err := s.loadOrNew(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return ToSessionResponse(session), nil
}

// AddItem adds a product to the cart. The cart line snapshots the
// product's current price, name and weight; later catalog edits do not
// touch lines already in a cart.
func (s *CheckoutService) AddItem(ctx context.Context, customerID uuid.UUID, req *AddItemRequest) (*SessionResponse, error) {
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive() {
		return nil, shared.NewDomainError("PRODUCT_UNAVAILABLE", "Product is not available for purchase")
	}

	session, err := s.loadOrNew(ctx, customerID)
	if err != nil {
		return nil, err
	}

	quantity := req.Quantity
	for _, item := range session.Items {
		if item.ProductID == product.ID {
			quantity += item.Quantity
		}
	}
	if !product.IsInStock(quantity) {
		return nil, shared.NewDomainError("INSUFFICIENT_STOCK", "Not enough stock for the requested quantity")
	}

	if err := session.AddItem(checkout.CartItem{
		ProductID:   product.ID,
		ProductCode: product.Code,
		ProductName: product.Name,
		UnitPrice:   product.Price,
		Quantity:    req.Quantity,
		WeightGrams: product.WeightGrams,
	}); err != nil {
		return nil, err
	}

	if err := s.sessions.Put(ctx, session); err != nil {
		return nil, err
	}
	return ToSessionResponse(session), nil
}

// UpdateItemQuantity sets a cart line's quantity; zero removes the line
func (s *CheckoutService) UpdateItemQuantity(ctx context.Context, customerID, productID uuid.UUID, quantity int) (*SessionResponse, error) {
	session, err := s.sessions.Get(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if quantity > 0 {
		product, err := s.productRepo.FindByID(ctx, productID)
		if err != nil {
			return nil, err
		}
		if !product.IsInStock(quantity) {
			return nil, shared.NewDomainError("INSUFFICIENT_STOCK", "Not enough stock for the requested quantity")
		}
	}

	if err := session.UpdateItemQuantity(productID, quantity); err != nil {
		return nil, err
	}
	if err := s.sessions.Put(ctx, session); err != nil {
		return nil, err
	}
	return ToSessionResponse(session), nil
}

// SetAddress selects a destination address from the customer's address
// book. Addresses belonging to other customers read as not found.
func (s *CheckoutService) SetAddress(ctx context.Context, customerID uuid.UUID, req *SetAddressRequest) (*SessionResponse, error) {
	address, err := s.addressRepo.FindByID(ctx, req.AddressID)
	if err != nil {
		return nil, err
	}
	if address.CustomerID != customerID {
		return nil, shared.ErrNotFound
	}

	session, err := s.loadOrNew(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if err := session.SetAddress(address.ID); err != nil {
		return nil, err
	}
	if err := s.sessions.Put(ctx, session); err != nil {
		return nil, err
	}
	return ToSessionResponse(session), nil
}

// QuoteShipping runs one rate lookup for the session's destination and
// cart, normalizes the tariffs and stores them on the session. The outcome
// is always a QuoteResult: lookup failures of any class (validation,
// missing credential, upstream error, empty list) land in the session's
// error state and come back as {success:false, error}, never as a Go error
// that would abort the flow. Calling again from the error state is the
// retry; there is no automatic one.
func (s *CheckoutService) QuoteShipping(ctx context.Context, customerID uuid.UUID) (*QuoteResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "checkout", "quote_shipping")
	defer span.End()

	session, err := s.sessions.Get(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if err := session.BeginQuote(); err != nil {
		return nil, err
	}
	// Persist Loading before the external call so a concurrent request on
	// the same session is rejected by the state machine.
	if err := s.sessions.Put(ctx, session); err != nil {
		return nil, err
	}

	options, quoteErr := s.fetchOptions(ctx, session)
	if quoteErr != nil {
		telemetry.RecordError(span, quoteErr)
		s.logger.Warn("shipping rate lookup failed",
			zap.String("customer_id", customerID.String()),
			zap.Error(quoteErr))

		if err := session.FailQuote(quoteMessage(quoteErr)); err != nil {
			return nil, err
		}
		if err := s.sessions.Put(ctx, session); err != nil {
			return nil, err
		}
		return &QuoteResult{Success: false, Error: session.RateError}, nil
	}

	if err := session.CompleteQuote(options); err != nil {
		return nil, err
	}
	if err := s.sessions.Put(ctx, session); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int(telemetry.SpanAttrOptionCount, len(options)))
	return &QuoteResult{Success: true, Options: toShippingOptionResponses(options)}, nil
}

// SelectShippingOption picks one of the loaded options. No re-fetch
// happens; the session total changes to subtotal + option price.
func (s *CheckoutService) SelectShippingOption(ctx context.Context, customerID uuid.UUID, req *SelectOptionRequest) (*SessionResponse, error) {
	session, err := s.sessions.Get(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if err := session.SelectOption(req.OptionID); err != nil {
		return nil, err
	}
	if err := s.sessions.Put(ctx, session); err != nil {
		return nil, err
	}
	return ToSessionResponse(session), nil
}

// placeOrderAttempts bounds the retries on an order-number collision
// between concurrent placements.
const placeOrderAttempts = 3

// PlaceOrder converts a ready session into an order: it re-checks stock,
// snapshots the delivery address and the selected shipping option,
// decrements stock, initiates payment and clears the session. The cart
// line prices placed on the order are the ones quoted in the cart. The
// stock decrements and the order row are committed in one transaction; a
// failed placement leaves stock untouched.
func (s *CheckoutService) PlaceOrder(ctx context.Context, customerID uuid.UUID) (*trade.Order, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "checkout", "place_order")
	defer span.End()

	session, err := s.sessions.Get(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if !session.IsReadyToPlace() {
		return nil, shared.NewDomainError("NOT_READY", "Cart, address and shipping selection must all be set before placing an order")
	}

	address, err := s.addressRepo.FindByID(ctx, *session.AddressID)
	if err != nil {
		return nil, err
	}
	if address.CustomerID != customerID {
		return nil, shared.ErrNotFound
	}

	var order *trade.Order
	for attempt := 1; ; attempt++ {
		order, err = s.placeOrderTx(ctx, customerID, session, address)
		if err == nil {
			break
		}
		// A concurrent placement minted the same order number; the whole
		// transaction rolled back, so regenerating and re-running is safe.
		if errors.Is(err, shared.ErrConcurrencyConflict) && attempt < placeOrderAttempts {
			s.logger.Warn("order number collision, retrying placement",
				zap.String("customer_id", customerID.String()),
				zap.Int("attempt", attempt))
			continue
		}
		telemetry.RecordError(span, err)
		return nil, err
	}

	// Payment initiation failure does not undo the order; the customer can
	// retry payment from the order page while it is still PENDING_PAYMENT.
	if err := s.payments.InitiatePayment(ctx, order); err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("payment initiation failed after order placement",
			zap.String("order_number", order.OrderNumber),
			zap.Error(err))
	}

	if err := s.sessions.Delete(ctx, customerID); err != nil {
		s.logger.Warn("failed to clear checkout session after placement",
			zap.String("customer_id", customerID.String()),
			zap.Error(err))
	}

	span.SetAttributes(
		attribute.String(telemetry.SpanAttrOrderNumber, order.OrderNumber),
		attribute.String(telemetry.SpanAttrAmount, order.TotalAmount.String()),
	)
	s.logger.Info("order placed",
		zap.String("order_number", order.OrderNumber),
		zap.String("customer_id", customerID.String()),
		zap.String("total", order.TotalAmount.String()))
	return order, nil
}

// placeOrderTx runs one placement attempt: stock re-check, order number
// generation, stock decrements and the order save, all inside a single
// transaction. Any failure rolls the whole attempt back.
func (s *CheckoutService) placeOrderTx(ctx context.Context, customerID uuid.UUID, session *checkout.Session, address *partner.Address) (*trade.Order, error) {
	var order *trade.Order
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		// Re-check stock against the catalog right before committing; the
		// cart snapshot may be stale.
		products := make(map[uuid.UUID]*catalog.Product, len(session.Items))
		for _, item := range session.Items {
			product, err := repos.ProductRepo().FindByID(ctx, item.ProductID)
			if err != nil {
				return err
			}
			if !product.IsActive() {
				return shared.NewDomainError("PRODUCT_UNAVAILABLE",
					fmt.Sprintf("Product %s is no longer available", product.Code))
			}
			if !product.IsInStock(item.Quantity) {
				return shared.NewDomainError("INSUFFICIENT_STOCK",
					fmt.Sprintf("Not enough stock for product %s", product.Code))
			}
			products[item.ProductID] = product
		}

		orderNumber, err := repos.OrderRepo().GenerateOrderNumber(ctx)
		if err != nil {
			return err
		}

		placed, err := trade.NewOrder(orderNumber, customerID, trade.DeliveryAddress{
			RecipientName: address.RecipientName,
			Phone:         address.Phone,
			Location:      address.Location,
			DestinationID: address.DestinationID,
			PinPoint:      address.PinPoint,
		}, trade.NewShippingSelection(*session.SelectedOption))
		if err != nil {
			return err
		}
		for _, item := range session.Items {
			if _, err := placed.AddItem(item.ProductID, item.ProductCode, item.ProductName,
				item.Quantity, item.WeightGrams, valueobject.NewMoneyIDR(item.UnitPrice)); err != nil {
				return err
			}
		}

		for _, item := range session.Items {
			product := products[item.ProductID]
			if err := product.AdjustStock(-item.Quantity); err != nil {
				return err
			}
			if err := repos.ProductRepo().Save(ctx, product); err != nil {
				return err
			}
		}

		if err := repos.OrderRepo().Save(ctx, placed); err != nil {
			return err
		}
		order = placed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// ClearSession drops the customer's checkout session
func (s *CheckoutService) ClearSession(ctx context.Context, customerID uuid.UUID) error {
	return s.sessions.Delete(ctx, customerID)
}

// fetchOptions builds the rate request from the session and runs a single
// lookup through the gateway. An empty tariff list is an error here; the
// session keeps either a non-empty option list or an error message.
func (s *CheckoutService) fetchOptions(ctx context.Context, session *checkout.Session) ([]shipping.ShippingOption, error) {
	address, err := s.addressRepo.FindByID(ctx, *session.AddressID)
	if err != nil {
		return nil, err
	}
	if address.CustomerID != session.CustomerID {
		return nil, shared.ErrNotFound
	}

	destinationPin, err := address.GetPinPoint()
	if err != nil {
		return nil, err
	}
	originPin, err := valueobject.ParsePinPoint(s.shippingCfg.OriginPinPoint)
	if err != nil {
		return nil, err
	}

	req := &shipping.RateRequest{
		ShipperDestinationID:  s.shippingCfg.OriginID,
		ReceiverDestinationID: address.DestinationID,
		Weight:                weightKilograms(session.TotalWeightGrams()),
		ItemValue:             session.Subtotal(),
		OriginPinPoint:        originPin,
		DestinationPinPoint:   destinationPin,
	}

	tariffs, err := s.rateGateway.CalculateRates(ctx, req)
	if err != nil {
		return nil, err
	}
	options := shipping.NormalizeTariffs(tariffs)
	if len(options) == 0 {
		return nil, shipping.ErrNoOptionsAvailable
	}
	return options, nil
}

func (s *CheckoutService) loadOrNew(ctx context.Context, customerID uuid.UUID) (*checkout.Session, error) {
	session, err := s.sessions.Get(ctx, customerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return checkout.NewSession(customerID), nil
		}
		return nil, err
	}
	return session, nil
}

// weightKilograms converts the cart weight to the kilograms the rate API
// expects, with a 1 kg floor so a feather-light cart still gets quotes
func weightKilograms(grams int) decimal.Decimal {
	kg := decimal.NewFromInt(int64(grams)).Div(decimal.NewFromInt(1000))
	if kg.LessThan(decimal.NewFromInt(1)) {
		return decimal.NewFromInt(1)
	}
	return kg
}

// quoteMessage maps a lookup failure to the customer-facing message stored
// on the session
func quoteMessage(err error) string {
	switch {
	case errors.Is(err, shipping.ErrNoOptionsAvailable):
		return "No shipping options are available for this destination"
	case errors.Is(err, shipping.ErrAPIKeyNotConfigured):
		return "Shipping rates are temporarily unavailable"
	default:
		if _, ok := shipping.IsUpstreamError(err); ok {
			return "The shipping rate service is temporarily unavailable"
		}
		return err.Error()
	}
}
