package service

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/restaurant/internal/cart"
	"github.com/Skotchmaster/restaurant/internal/models"
	"github.com/Skotchmaster/restaurant/internal/repo"
)

type CartLine struct {
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	ImageURL  string          `json:"image_url,omitempty"`
}

type CartView struct {
	Items []CartLine      `json:"items"`
	Total decimal.Decimal `json:"total"`
}

func (v CartView) Empty() bool { return len(v.Items) == 0 }

type CartService struct {
	Repo  *repo.GormRepo
	Store cart.Store
}

// resolveCart prices the session cart against current products. Lines whose
// product no longer exists are skipped.
func resolveCart(ctx context.Context, r *repo.GormRepo, items map[uint]int) (CartView, error) {
	view := CartView{Items: []CartLine{}, Total: decimal.Zero}
	if len(items) == 0 {
		return view, nil
	}

	ids := make([]uint, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	products, err := r.GetProductsByIDs(ctx, ids)
	if err != nil {
		return CartView{}, err
	}
	for _, id := range ids {
		p, ok := products[id]
		if !ok {
			continue
		}
		qty := items[id]
		sub := p.Price.Mul(decimal.NewFromInt(int64(qty)))
		view.Items = append(view.Items, CartLine{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  qty,
			Subtotal:  sub,
			ImageURL:  p.ImageURL,
		})
		view.Total = view.Total.Add(sub)
	}
	return view, nil
}

func (s *CartService) View(ctx context.Context, sid string) (CartView, error) {
	if sid == "" {
		return CartView{Items: []CartLine{}, Total: decimal.Zero}, nil
	}
	items, err := s.Store.Get(ctx, sid)
	if err != nil {
		return CartView{}, err
	}
	return resolveCart(ctx, s.Repo, items)
}

// Add puts qty of the product in the cart, on top of what is already there.
// qty < 1 counts as 1.
func (s *CartService) Add(ctx context.Context, sid string, productID uint, qty int) (*models.Product, int, error) {
	if productID == 0 {
		return nil, 0, validationf("Invalid product")
	}
	if qty < 1 {
		qty = 1
	}
	p, err := s.Repo.GetProduct(ctx, productID)
	if err != nil {
		return nil, 0, notFound(err, "Product not found")
	}
	if !p.Available {
		return nil, 0, validationf("%s is currently unavailable", p.Name)
	}
	n, err := s.Store.Add(ctx, sid, productID, qty)
	if err != nil {
		return nil, 0, err
	}
	return p, n, nil
}

// Update sets the quantity of a line already in the cart; qty <= 0 removes
// it. Raising a quantity rechecks that the product is still on sale.
func (s *CartService) Update(ctx context.Context, sid string, productID uint, qty int) error {
	if productID == 0 {
		return validationf("Invalid product")
	}
	if qty <= 0 {
		return s.Store.Remove(ctx, sid, productID)
	}

	items, err := s.Store.Get(ctx, sid)
	if err != nil {
		return err
	}
	if _, ok := items[productID]; !ok {
		return newError(ErrNotFound, "Item not in cart")
	}
	p, err := s.Repo.GetProduct(ctx, productID)
	if err != nil {
		return notFound(err, "Product not found")
	}
	if !p.Available {
		return validationf("%s is currently unavailable", p.Name)
	}
	return s.Store.Set(ctx, sid, productID, qty)
}

func (s *CartService) Remove(ctx context.Context, sid string, productID uint) error {
	if productID == 0 {
		return validationf("Invalid product")
	}
	return s.Store.Remove(ctx, sid, productID)
}

// Checkout returns the cart summary, refusing an empty cart.
func (s *CartService) Checkout(ctx context.Context, sid string) (CartView, error) {
	view, err := s.View(ctx, sid)
	if err != nil {
		return CartView{}, err
	}
	if view.Empty() {
		return CartView{}, validationf("Your cart is empty")
	}
	return view, nil
}
