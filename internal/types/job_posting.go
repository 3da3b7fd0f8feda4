// Package types provides type definitions for the records exchanged between pipeline steps.
//
//nolint:revive // types is a standard Go package name pattern
package types

// JobPosting is the structured record extracted from a raw job description
type JobPosting struct {
	Title                  string   `json:"title" yaml:"title"`
	Purpose                string   `json:"purpose" yaml:"purpose"`
	CompanyName            string   `json:"company_name" yaml:"company_name"`
	Location               string   `json:"location,omitempty" yaml:"location,omitempty"`
	Keywords               []string `json:"keywords" yaml:"keywords"`
	Responsibilities       []string `json:"responsibilities" yaml:"responsibilities"`
	RequiredQualifications []string `json:"required_qualifications" yaml:"required_qualifications"`
	DesiredQualifications  []string `json:"desired_qualifications" yaml:"desired_qualifications"`
	CompanyDescription     string   `json:"company_description" yaml:"company_description"`
	ComplianceText         string   `json:"compliance_text,omitempty" yaml:"compliance_text,omitempty"`
	Miscellaneous          string   `json:"miscellaneous,omitempty" yaml:"miscellaneous,omitempty"`
}
