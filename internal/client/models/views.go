package models

// Vendor is a tenant of the platform.
//
// Listings use vendorName, businessName and mobile; older payloads carry
// name, owner and phone instead.
type Vendor struct {
	ID           ID     `json:"id"`
	MongoID      ID     `json:"_id,omitempty"`
	VendorName   string `json:"vendorName,omitempty"`
	BusinessName string `json:"businessName,omitempty"`
	Mobile       string `json:"mobile,omitempty"`
	Name         string `json:"name,omitempty"`
	Owner        string `json:"owner,omitempty"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Address      string `json:"address,omitempty"`
	Status       string `json:"status,omitempty"`
	CreatedAt    Date   `json:"createdAt"`
}

// DisplayName prefers vendorName over the legacy name field.
func (v Vendor) DisplayName() string {
	if v.VendorName != "" {
		return v.VendorName
	}
	return v.Name
}

// Contact prefers mobile over the legacy phone field.
func (v Vendor) Contact() string {
	if v.Mobile != "" {
		return v.Mobile
	}
	return v.Phone
}

// Key returns whichever identifier the backend populated.
func (v Vendor) Key() ID {
	if v.ID != "" {
		return v.ID
	}
	return v.MongoID
}

// StatusOrDefault mirrors the dashboards, which show "Active" when the
// backend leaves the status empty.
func (v Vendor) StatusOrDefault() string {
	if v.Status == "" {
		return "Active"
	}
	return v.Status
}

// Customer belongs to a vendor.
type Customer struct {
	ID        ID     `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
	VendorID  ID     `json:"vendorId,omitempty"`
	CreatedBy ID     `json:"createdBy,omitempty"`
	Status    string `json:"status,omitempty"`
	CreatedAt Date   `json:"createdAt"`
}

// VendorCustomerCount is one row of the count-by-vendor aggregate.
type VendorCustomerCount struct {
	CreatedBy     ID    `json:"createdBy"`
	CustomerCount Count `json:"customerCount"`
}

// Plan is a subscription plan offered to vendors.
type Plan struct {
	ID       ID       `json:"id"`
	Name     string   `json:"name"`
	Price    float64  `json:"price"`
	Duration int      `json:"duration"`
	Features []string `json:"features,omitempty"`
	Status   string   `json:"status,omitempty"`
}

// SubscriptionVendor is the vendor summary embedded in a subscription.
type SubscriptionVendor struct {
	ID         ID     `json:"id"`
	VendorName string `json:"vendorName"`
}

// Subscription assigns a plan to a vendor for a period.
type Subscription struct {
	ID        ID                  `json:"id"`
	VendorID  ID                  `json:"vendorId"`
	PlanID    ID                  `json:"planId"`
	Plan      *Plan               `json:"plan,omitempty"`
	Vendor    *SubscriptionVendor `json:"vendor,omitempty"`
	StartDate Date                `json:"startDate"`
	EndDate   Date                `json:"endDate"`
	Status    string              `json:"status"`
	CreatedAt Date                `json:"createdAt"`
}

// VendorName returns the embedded vendor's name or "Unknown".
func (s Subscription) VendorName() string {
	if s.Vendor == nil || s.Vendor.VendorName == "" {
		return "Unknown"
	}
	return s.Vendor.VendorName
}

// SubscriptionStats is the backend's subscription summary.
type SubscriptionStats struct {
	Total        Count   `json:"total"`
	Active       Count   `json:"active"`
	Expired      Count   `json:"expired"`
	Cancelled    Count   `json:"cancelled"`
	ExpiringSoon Count   `json:"expiringSoon"`
	Revenue      float64 `json:"totalRevenue"`
}
