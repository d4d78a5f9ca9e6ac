package services

import (
	"strings"

	"github.com/dmitrijs2005/vendorconsole/internal/client/models"
)

// VendorStats are the dashboard counters.
type VendorStats struct {
	Total  int
	Active int
}

func CountVendors(vendors []models.Vendor) VendorStats {
	st := VendorStats{Total: len(vendors)}
	for _, v := range vendors {
		if strings.EqualFold(v.StatusOrDefault(), "active") {
			st.Active++
		}
	}
	return st
}

// FilterVendors is the dashboard search: a case-insensitive substring
// match over name, email and phone. An empty query keeps everything.
func FilterVendors(vendors []models.Vendor, query string) []models.Vendor {
	return filter(vendors, query, func(v models.Vendor) string {
		return v.DisplayName() + " " + v.Email + " " + v.Contact()
	})
}

// FilterVendorDirectory is the vendor list search over name, owner and
// address.
func FilterVendorDirectory(vendors []models.Vendor, query string) []models.Vendor {
	return filter(vendors, query, func(v models.Vendor) string {
		owner := v.Owner
		if owner == "" {
			owner = v.BusinessName
		}
		return v.DisplayName() + "\x00" + owner + "\x00" + v.Address
	})
}

func filter(vendors []models.Vendor, query string, haystack func(models.Vendor) string) []models.Vendor {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return vendors
	}
	out := make([]models.Vendor, 0, len(vendors))
	for _, v := range vendors {
		if strings.Contains(strings.ToLower(haystack(v)), q) {
			out = append(out, v)
		}
	}
	return out
}
