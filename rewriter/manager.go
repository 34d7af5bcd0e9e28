package rewriter

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/probekit/go-landmark-instrumentation/internal/codegen"
)

// hashLength is the number of hex digits of the unit content hash embedded in
// probe identifiers.
const hashLength = 16

// Registration records one probe allocated during a unit pass. The driver
// turns the accumulated registrations into the registration group prepended
// to the rewritten unit.
type Registration struct {
	ProbeID     string
	DisplayName string
	Location    string
}

// Manager owns every piece of state for instrumenting a single compilation
// unit: the unit content hash, the probe counter, and the registration table.
// A Manager must not be reused across units; build a new one per unit.
//
// Please access this object's data through methods rather than directly
// manipulating it.
type Manager struct {
	runtime       codegen.Runtime
	autoByDefault bool
	unitHash      string
	counter       int
	registrations []Registration
}

// NewManager initializes a Manager for one unit pass. The runtime selects
// which probe library entry points synthesized calls reference, and
// autoByDefault is the global default instrumentation mode.
func NewManager(runtime codegen.Runtime, autoByDefault bool) *Manager {
	return &Manager{
		runtime:       runtime,
		autoByDefault: autoByDefault,
	}
}

// setUnitHash computes the unit content hash from the raw, unvalidated input
// encoding, so the hash is stable regardless of later rewriting. Calling it
// twice is a host-integration bug, not a user error, and panics.
func (m *Manager) setUnitHash(raw []byte) {
	if m.unitHash != "" {
		panic("rewriter: unit hash already initialized; a Manager handles exactly one unit")
	}
	sum := sha256.Sum256(raw)
	m.unitHash = hex.EncodeToString(sum[:])[:hashLength]
}

// allocate reserves the next probe identifier for a site, appending its
// registration to the table. Identifiers are unique within the unit and
// deterministic across repeated compilations of the same input.
func (m *Manager) allocate(displayName, location string) string {
	if m.unitHash == "" {
		panic("rewriter: probe allocated before the unit hash was initialized")
	}
	m.counter++
	id := fmt.Sprintf("generated_landmark_%s_%d", m.unitHash, m.counter)
	m.registrations = append(m.registrations, Registration{
		ProbeID:     id,
		DisplayName: displayName,
		Location:    location,
	})
	return id
}

// Registrations returns a copy of the registration table in allocation order.
func (m *Manager) Registrations() []Registration {
	return append([]Registration(nil), m.registrations...)
}
