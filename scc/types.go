package scc

import (
	"math"
	"time"
)

// Product represents an SCC product
type Product struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	Identifier   string       `json:"identifier,omitempty"`
	Version      string       `json:"version,omitempty"`
	ReleaseType  string       `json:"release_type,omitempty"`
	Arch         string       `json:"arch,omitempty"`
	FriendlyName string       `json:"friendly_name,omitempty"`
	ProductClass string       `json:"product_class,omitempty"`
	ProductType  string       `json:"product_type,omitempty"`
	CPE          string       `json:"cpe,omitempty"`
	Free         bool         `json:"free,omitempty"`
	Description  string       `json:"description,omitempty"`
	EULAURL      string       `json:"eula_url,omitempty"`
	Extensions   []Product    `json:"extensions,omitempty"`
	Repositories []Repository `json:"repositories,omitempty"`
}

// Label returns the best available display name for the product
func (p *Product) Label() string {
	if p.FriendlyName != "" {
		return p.FriendlyName
	}
	if p.Identifier != "" && p.Version != "" {
		return p.Identifier + "/" + p.Version + "/" + p.Arch
	}
	return p.Name
}

// Repository represents a repository available to the organization
type Repository struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	DistroTarget     string `json:"distro_target,omitempty"`
	Description      string `json:"description,omitempty"`
	URL              string `json:"url,omitempty"`
	Autorefresh      bool   `json:"autorefresh"`
	InstallerUpdates bool   `json:"installer_updates,omitempty"`
}

// Subscription represents a subscription of the organization
type Subscription struct {
	ID             int64     `json:"id"`
	Regcode        string    `json:"regcode,omitempty"`
	Name           string    `json:"name"`
	Type           string    `json:"type,omitempty"`
	Status         string    `json:"status,omitempty"`
	StartsAt       time.Time `json:"starts_at"`
	ExpiresAt      time.Time `json:"expires_at"`
	SystemLimit    int       `json:"system_limit"`
	SystemsCount   int       `json:"systems_count"`
	VirtualCount   *int      `json:"virtual_count,omitempty"`
	ProductClasses []string  `json:"product_classes,omitempty"`
	ProductIDs     []int64   `json:"product_ids,omitempty"`
	SKUs           []string  `json:"skus,omitempty"`
}

// IsActive checks if SCC reports the subscription as active
func (s *Subscription) IsActive() bool {
	return s.Status == "ACTIVE"
}

// DaysUntilExpiry returns whole days from now until expiry, rounded down, so
// any expired subscription reports a negative value.
// Subscriptions without an expiry date report 0.
func (s *Subscription) DaysUntilExpiry(now time.Time) int {
	if s.ExpiresAt.IsZero() {
		return 0
	}
	return int(math.Floor(s.ExpiresAt.Sub(now).Hours() / 24))
}
