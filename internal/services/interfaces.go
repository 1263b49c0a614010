package services

import "portfolio-ai/internal/models"

// Interfaces live with their consumer: this package defines exactly what it
// needs from the storage layer, and the repository package satisfies it
// without knowing about it.

// PortfolioSource is what the embedding store needs from the document store.
type PortfolioSource interface {
	Load() (*models.Portfolio, error)
}
