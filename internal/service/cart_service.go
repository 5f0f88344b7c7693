package service

import (
	"context"
	"fmt"
	"strings"

	"fg-storefront/internal/cart"
	"fg-storefront/internal/model"
	"fg-storefront/internal/pricing"
	"fg-storefront/internal/repository"

	"github.com/rs/zerolog"
)

// cartService implements CartService.
type cartService struct {
	carts       cart.Repository
	productRepo repository.ProductRepository
	surcharges  pricing.Surcharges
	locks       *KeyedMutex
	logger      zerolog.Logger
}

// NewCartService creates a new cart service. locks must be the same instance
// the checkout service uses so cart edits and the post-order clear of one
// session never interleave; nil gets a private one.
func NewCartService(
	carts cart.Repository,
	productRepo repository.ProductRepository,
	surcharges pricing.Surcharges,
	locks *KeyedMutex,
	logger zerolog.Logger,
) CartService {
	if locks == nil {
		locks = NewKeyedMutex()
	}
	return &cartService{
		carts:       carts,
		productRepo: productRepo,
		surcharges:  surcharges,
		locks:       locks,
		logger:      logger.With().Str("service", "cart").Logger(),
	}
}

// View prices the session's cart for zone.
func (s *cartService) View(ctx context.Context, sessionID string, zone model.Zone) (*CartView, error) {
	store, err := s.carts.Load(ctx, sessionID)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to load cart")
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return s.price(ctx, store, zone)
}

// AddItem adds quantity of productID to the cart.
func (s *cartService) AddItem(ctx context.Context, sessionID, productID string, quantity int, zone model.Zone) (*CartView, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, model.ErrMissingField
	}
	if quantity <= 0 {
		return nil, model.ErrInvalidQuantity
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up product: %w", err)
	}
	if product == nil {
		s.logger.Debug().Str("product_id", productID).Msg("add to cart for unknown product")
		return nil, model.ErrProductNotFound
	}

	return s.mutate(ctx, sessionID, zone, func(store *cart.Store) {
		store.Add(productID, quantity)
	})
}

// UpdateItem sets the quantity of productID. Zero or less removes the line.
func (s *cartService) UpdateItem(ctx context.Context, sessionID, productID string, quantity int, zone model.Zone) (*CartView, error) {
	return s.mutate(ctx, sessionID, zone, func(store *cart.Store) {
		store.UpdateQuantity(productID, quantity)
	})
}

// RemoveItem drops productID from the cart.
func (s *cartService) RemoveItem(ctx context.Context, sessionID, productID string, zone model.Zone) (*CartView, error) {
	return s.mutate(ctx, sessionID, zone, func(store *cart.Store) {
		store.Remove(productID)
	})
}

// Clear empties the cart.
func (s *cartService) Clear(ctx context.Context, sessionID string) error {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	if err := s.carts.Delete(ctx, sessionID); err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to clear cart")
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// Transfer moves the lines under fromSessionID onto toSessionID with Add
// semantics. Both sessions are locked, in a fixed order.
func (s *cartService) Transfer(ctx context.Context, fromSessionID, toSessionID string) error {
	if fromSessionID == toSessionID {
		return nil
	}
	first, second := fromSessionID, toSessionID
	if second < first {
		first, second = second, first
	}
	defer s.locks.Lock(first)()
	defer s.locks.Lock(second)()

	from, err := s.carts.Load(ctx, fromSessionID)
	if err != nil {
		return fmt.Errorf("failed to load cart: %w", err)
	}
	if from.IsEmpty() {
		return nil
	}
	to, err := s.carts.Load(ctx, toSessionID)
	if err != nil {
		return fmt.Errorf("failed to load cart: %w", err)
	}
	for _, l := range from.Lines() {
		to.Add(l.ProductID, l.Quantity)
	}

	if err := s.carts.Save(ctx, toSessionID, to); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	if err := s.carts.Delete(ctx, fromSessionID); err != nil {
		s.logger.Warn().Err(err).Str("session_id", fromSessionID).Msg("cart copied but old session not cleared")
	}

	s.logger.Debug().
		Str("from", fromSessionID).
		Str("to", toSessionID).
		Int("lines", from.Len()).
		Msg("cart transferred")
	return nil
}

// mutate runs a load-modify-save cycle under the session's lock.
func (s *cartService) mutate(ctx context.Context, sessionID string, zone model.Zone, fn func(*cart.Store)) (*CartView, error) {
	if _, err := s.surcharges.For(zone); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(sessionID)
	store, err := s.carts.Load(ctx, sessionID)
	if err != nil {
		unlock()
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to load cart")
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	fn(store)

	if err := s.carts.Save(ctx, sessionID, store); err != nil {
		unlock()
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to save cart")
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}
	unlock()

	return s.price(ctx, store, zone)
}

func (s *cartService) price(ctx context.Context, store *cart.Store, zone model.Zone) (*CartView, error) {
	var products []model.Product
	if !store.IsEmpty() {
		var err error
		products, err = s.productRepo.GetByIDs(ctx, store.ProductIDs())
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to load cart products")
			return nil, fmt.Errorf("failed to load cart products: %w", err)
		}
	}

	quote, err := pricing.Resolve(store.Lines(), model.IndexProducts(products), zone, s.surcharges)
	if err != nil {
		return nil, err
	}

	count := 0
	for _, l := range quote.Lines {
		count += l.Quantity
	}

	return &CartView{Quote: quote, ItemCount: count}, nil
}
