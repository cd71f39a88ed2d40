// Package types provides type definitions for structured data used throughout the csrd-analyzer system.
package types

import (
	"github.com/go-playground/validator/v10"
)

// UnspecifiedValue is used for company fields the user did not provide.
const UnspecifiedValue = "unspecified"

// CompanyContext holds the company metadata attached to one analysis run.
// It is built from user input when the analysis starts and never mutated
// afterwards.
type CompanyContext struct {
	Name   string `json:"name" validate:"required,min=1"`
	SIREN  string `json:"siren,omitempty"`
	Sector string `json:"sector"`
	Size   string `json:"size"`
}

// NewCompanyContext builds a CompanyContext with unspecified sector and size.
func NewCompanyContext(name string) CompanyContext {
	return CompanyContext{
		Name:   name,
		Sector: UnspecifiedValue,
		Size:   UnspecifiedValue,
	}
}

// Validate validates the CompanyContext using the validator.
func (c *CompanyContext) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}
