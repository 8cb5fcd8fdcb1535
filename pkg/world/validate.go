package world

import (
	zerrors "github.com/matzehuels/zonelink/pkg/errors"
	"github.com/matzehuels/zonelink/pkg/graph"
	"github.com/matzehuels/zonelink/pkg/zones"
)

// ValidateConnection reports why [World.AddConnection] would ignore the
// given arguments, as a structured error. It returns nil for a connection
// the world accepts. Durations are not checked for royal connections.
func ValidateConnection(catalog *zones.Catalog, from, to, category string, hours, minutes int) error {
	var ends [2]*zones.Zone
	for i, name := range []string{from, to} {
		if err := zerrors.ValidateZoneName(name); err != nil {
			return err
		}
		z, ok := catalog.Resolve(name)
		if !ok {
			return zerrors.New(zerrors.ErrCodeZoneNotFound, "unknown zone %q", name)
		}
		ends[i] = z
	}
	if ends[0] == ends[1] {
		return zerrors.New(zerrors.ErrCodeInvalidInput, "a zone cannot connect to itself")
	}
	if err := zerrors.ValidateCategory(category, graph.CategoryNames()); err != nil {
		return err
	}
	if graph.Category(category).Exempt() {
		return nil
	}
	return zerrors.ValidateDuration(hours, minutes)
}
