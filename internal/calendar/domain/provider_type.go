package domain

// ProviderType identifies an external calendar provider.
type ProviderType string

const (
	ProviderGoogle ProviderType = "google"
	ProviderCalDAV ProviderType = "caldav"
)

// IsValid reports whether the provider type is known.
func (p ProviderType) IsValid() bool {
	switch p {
	case ProviderGoogle, ProviderCalDAV:
		return true
	}
	return false
}

// String returns the provider type as a string.
func (p ProviderType) String() string {
	return string(p)
}
