package models

import (
	"fmt"
	"strings"
)

// ResourceRef identifies a remote compute resource. Only ID is mandatory;
// Location and Group are interpreted per provider (datacenter, zone,
// resource group).
type ResourceRef struct {
	Provider Provider
	Location string
	Group    string
	ID       string
}

func (r ResourceRef) String() string {
	parts := []string{string(r.Provider), r.Location, r.Group, r.ID}
	return strings.Join(parts, "/")
}

// ParseResourceRef parses the "provider/location/group/id" form produced by String.
func ParseResourceRef(s string) (ResourceRef, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 4 { //nolint:mnd
		return ResourceRef{}, fmt.Errorf("resource reference %q must have the form provider/location/group/id", s)
	}
	provider, err := ParseProvider(parts[0])
	if err != nil {
		return ResourceRef{}, err
	}
	if parts[3] == "" {
		return ResourceRef{}, fmt.Errorf("resource reference %q has an empty id", s)
	}
	return ResourceRef{Provider: provider, Location: parts[1], Group: parts[2], ID: parts[3]}, nil
}
