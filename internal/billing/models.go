package billing

import hostbilling "github.com/goliatone/go-dochost/billing"

type (
	Plan                 = hostbilling.Plan
	Organization         = hostbilling.Organization
	Subscription         = hostbilling.Subscription
	ProviderSubscription = hostbilling.ProviderSubscription
)
