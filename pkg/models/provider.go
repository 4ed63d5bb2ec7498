package models

import (
	"fmt"
	"strings"
)

type Provider string

const (
	ProviderAWS   Provider = "aws"
	ProviderAzure Provider = "azure"
	ProviderGCP   Provider = "gcp"
	ProviderSDC   Provider = "sdc"
)

var Providers = []Provider{ProviderAWS, ProviderAzure, ProviderGCP, ProviderSDC}

// ParseProvider accepts the lowercase name or the display abbreviation.
func ParseProvider(s string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "aws":
		return ProviderAWS, nil
	case "azure", "azu":
		return ProviderAzure, nil
	case "gcp", "google":
		return ProviderGCP, nil
	case "sdc", "joyent":
		return ProviderSDC, nil
	}
	return "", fmt.Errorf("unknown provider %q", s)
}

// Abbreviation returns the three letter code used in tables.
func (p Provider) Abbreviation() string {
	switch p {
	case ProviderAzure:
		return "AZU"
	case ProviderAWS:
		return "AWS"
	case ProviderGCP:
		return "GCP"
	case ProviderSDC:
		return "SDC"
	default:
		return "UNK"
	}
}
