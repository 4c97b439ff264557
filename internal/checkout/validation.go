package checkout

import "github.com/esencia-ar/backend/internal/domain"

// ValidationResult is the structured guard outcome. The presentation layer
// decides how to display missing fields; nothing here blocks on a dialog.
type ValidationResult struct {
	Missing []string `json:"missing,omitempty"`
}

func (v ValidationResult) Valid() bool {
	return len(v.Missing) == 0
}

// ValidateShipping checks the six required fields for the shipping -> payment
// transition. Email is optional.
func ValidateShipping(cfg domain.ShippingConfig) ValidationResult {
	var vr ValidationResult
	if cfg.FullName == "" {
		vr.Missing = append(vr.Missing, "full_name")
	}
	if cfg.Phone == "" {
		vr.Missing = append(vr.Missing, "phone")
	}
	if cfg.Address == "" {
		vr.Missing = append(vr.Missing, "address")
	}
	if cfg.Province == "" {
		vr.Missing = append(vr.Missing, "province")
	}
	if cfg.Locality == "" {
		vr.Missing = append(vr.Missing, "locality")
	}
	if cfg.DeliveryDate == nil {
		vr.Missing = append(vr.Missing, "delivery_date")
	}
	return vr
}
