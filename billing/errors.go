package billing

import (
	"errors"
	"fmt"
)

var (
	ErrPlanSlugRequired       = errors.New("billing: plan slug is required")
	ErrPlanProviderIDRequired = errors.New("billing: plan provider id is required")
	ErrPlanExists             = errors.New("billing: plan already exists")
	ErrOrganizationIDRequired = errors.New("billing: organization id is required")
	ErrOrganizationSlugExists = errors.New("billing: organization slug already exists")
	ErrSubscriptionIDRequired = errors.New("billing: provider subscription id is required")
	ErrNoDefaultPlan          = errors.New("billing: default plan not configured")
	ErrStatusInvalid          = errors.New("billing: subscription status is invalid")
	ErrCustomerNotLinked      = errors.New("billing: organization has no provider customer")
	ErrEventPayloadInvalid    = errors.New("billing: event payload invalid")
	ErrEventTypeUnsupported   = errors.New("billing: event type unsupported")
)

// NotFoundError indicates a billing record lookup failed.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e == nil {
		return "billing: not found"
	}
	if e.Key == "" {
		return fmt.Sprintf("billing: %s not found", e.Resource)
	}
	return fmt.Sprintf("billing: %s %q not found", e.Resource, e.Key)
}
