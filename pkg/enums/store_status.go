package enums

import "fmt"

// StoreStatus is the approval lifecycle of a storefront.
type StoreStatus string

const (
	StoreStatusPending  StoreStatus = "PENDING"
	StoreStatusActive   StoreStatus = "ACTIVE"
	StoreStatusInactive StoreStatus = "INACTIVE"
)

var validStoreStatuses = []StoreStatus{
	StoreStatusPending,
	StoreStatusActive,
	StoreStatusInactive,
}

// String implements fmt.Stringer.
func (v StoreStatus) String() string {
	return string(v)
}

// IsValid reports whether the value is a known StoreStatus.
func (v StoreStatus) IsValid() bool {
	for _, candidate := range validStoreStatuses {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseStoreStatus converts raw input into a StoreStatus.
func ParseStoreStatus(value string) (StoreStatus, error) {
	for _, candidate := range validStoreStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid store status %q", value)
}

// StoreStatuses lists every store status.
func StoreStatuses() []StoreStatus {
	out := make([]StoreStatus, len(validStoreStatuses))
	copy(out, validStoreStatuses)
	return out
}
