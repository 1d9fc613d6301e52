package models

import "crossledger/pkg/domain"

// Metadata is the immutable token identity captured at construction: name,
// symbol, display precision, and the domain this instance was deployed with.
type Metadata struct {
	Name     string          `json:"name"`
	Symbol   string          `json:"symbol"`
	Decimals uint8           `json:"decimals"`
	DomainID domain.DomainID `json:"domain_id"`
}
