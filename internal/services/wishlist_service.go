package services

import (
	"fmt"

	"atelier/internal/domain"
	"atelier/internal/repos"
)

type WishlistService struct {
	Repo  *repos.WishlistRepo
	Prods *repos.ProductRepo
}

func NewWishlistService(r *repos.WishlistRepo, prods *repos.ProductRepo) *WishlistService {
	return &WishlistService{Repo: r, Prods: prods}
}

func (s *WishlistService) Save(sessionID, productID string) error {
	if _, err := s.Prods.Get(productID); err != nil {
		return fmt.Errorf("save %q: %w", productID, err)
	}
	id, err := s.Repo.Ensure(sessionID)
	if err != nil {
		return err
	}
	return s.Repo.Add(id, productID)
}

func (s *WishlistService) Unsave(sessionID, productID string) error {
	id, err := s.Repo.Ensure(sessionID)
	if err != nil {
		return err
	}
	return s.Repo.Remove(id, productID)
}

func (s *WishlistService) List(sessionID string) ([]domain.Product, error) {
	id, err := s.Repo.Ensure(sessionID)
	if err != nil {
		return nil, err
	}
	return s.Repo.List(id)
}

func (s *WishlistService) Has(sessionID, productID string) (bool, error) {
	id, err := s.Repo.Ensure(sessionID)
	if err != nil {
		return false, err
	}
	return s.Repo.Has(id, productID)
}
