package billingcmd

// FeatureGates exposes runtime feature toggles required by billing command handlers.
// Callers should supply closures that read from the runtime configuration so handlers
// stay decoupled from configuration while honouring feature flags.
type FeatureGates struct {
	BillingEnabled func() bool
}

func (g FeatureGates) billingEnabled() bool {
	if g.BillingEnabled == nil {
		return true
	}
	return g.BillingEnabled()
}
