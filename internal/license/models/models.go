// Package models defines the wire-level input and the normalized record the
// license pipeline operates on.
package models

import "time"

// RawLicenseInput is the untrusted request body: every field arrives exactly
// as submitted and goes through the validation pipeline before anything else
// touches it. Field names follow the original generator's API.
type RawLicenseInput struct {
	DLNumber   string `json:"dl_number" yaml:"dl_number"`
	FirstName  string `json:"first_name" yaml:"first_name"`
	LastName   string `json:"last_name" yaml:"last_name"`
	MiddleName string `json:"middle_name,omitempty" yaml:"middle_name,omitempty"`

	Address  string `json:"address" yaml:"address"`
	Address2 string `json:"address_2nd_line,omitempty" yaml:"address_2nd_line,omitempty"`
	City     string `json:"city" yaml:"city"`
	State    string `json:"state" yaml:"state"`
	ZipCode  string `json:"zip_code" yaml:"zip_code"`

	Sex          string `json:"sex" yaml:"sex"`
	Donor        string `json:"donor,omitempty" yaml:"donor,omitempty"`
	HeightInches string `json:"height_inches" yaml:"height_inches"`
	WeightLbs    string `json:"weight_lbs,omitempty" yaml:"weight_lbs,omitempty"`

	// Dates are submitted MMDDYYYY; separators are tolerated and stripped.
	BirthDate  string `json:"birth_date" yaml:"birth_date"`
	IssueDate  string `json:"issue_date" yaml:"issue_date"`
	ExpiryDate string `json:"expiry_date" yaml:"expiry_date"`

	ICN       string `json:"icn,omitempty" yaml:"icn,omitempty"`
	DD        string `json:"dd,omitempty" yaml:"dd,omitempty"`
	EyeColor  string `json:"eye_color" yaml:"eye_color"`
	HairColor string `json:"hair_color,omitempty" yaml:"hair_color,omitempty"`

	DLClass      string `json:"dl_class,omitempty" yaml:"dl_class,omitempty"`
	Restrictions string `json:"restrictions,omitempty" yaml:"restrictions,omitempty"`
	Endorsements string `json:"endorsements,omitempty" yaml:"endorsements,omitempty"`
	IsRealID     string `json:"is_real_id,omitempty" yaml:"is_real_id,omitempty"`
	IsVeteran    string `json:"is_veteran,omitempty" yaml:"is_veteran,omitempty"`
}

// NormalizedLicenseRecord is the validated, canonical form of one license.
// It only exists as the output of a successful validation run: every field
// already meets its target grammar. The record is never mutated after
// creation and is discarded once the canonical text is built.
type NormalizedLicenseRecord struct {
	ID         string
	FirstName  string
	LastName   string
	MiddleName string // empty when not submitted

	Street  string
	Street2 string // empty when not submitted
	City    string

	Jurisdiction string
	PostalCode   string

	Sex          string // M, F, or X
	HeightInches int
	WeightLbs    int // 0 when not submitted
	EyeColor     string
	HairColor    string

	BirthDate  time.Time
	IssueDate  time.Time
	ExpiryDate time.Time

	// Discriminator and AuditField hold caller-supplied values; when empty the
	// builder derives them.
	Discriminator string
	AuditField    string

	Class        string
	Restrictions string
	Endorsements string

	Donor   bool
	RealID  bool
	Veteran bool
}
