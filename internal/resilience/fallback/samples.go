package fallback

import (
	"time"

	"github.com/motorline/gateway/internal/core/domain"
)

var sampleTime = time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

// SampleProducts returns the embedded demo listings served when neither the
// store nor the snapshot cache is reachable.
func SampleProducts() []domain.Product {
	return []domain.Product{
		{
			ID:         "sample-p1",
			Title:      "2019 Toyota Camry SE",
			Category:   "cars",
			Make:       "Toyota",
			Model:      "Camry",
			Year:       2019,
			PriceCents: 1849900,
			VendorID:   "sample-v1",
			ImageURL:   "/assets/samples/camry-se.jpg",
			CreatedAt:  sampleTime,
			UpdatedAt:  sampleTime,
		},
		{
			ID:         "sample-p2",
			Title:      "2021 Honda CR-V EX AWD",
			Category:   "cars",
			Make:       "Honda",
			Model:      "CR-V",
			Year:       2021,
			PriceCents: 2729500,
			VendorID:   "sample-v1",
			ImageURL:   "/assets/samples/crv-ex.jpg",
			CreatedAt:  sampleTime,
			UpdatedAt:  sampleTime,
		},
		{
			ID:         "sample-p3",
			Title:      "Front brake pad set - ceramic",
			Category:   "parts",
			Make:       "Bosch",
			PriceCents: 6450,
			VendorID:   "sample-v2",
			ImageURL:   "/assets/samples/brake-pads.jpg",
			CreatedAt:  sampleTime,
			UpdatedAt:  sampleTime,
		},
		{
			ID:         "sample-p4",
			Title:      "Full synthetic oil change",
			Category:   "services",
			PriceCents: 7999,
			VendorID:   "sample-v2",
			ImageURL:   "/assets/samples/oil-change.jpg",
			CreatedAt:  sampleTime,
			UpdatedAt:  sampleTime,
		},
	}
}

// SampleVendors returns the embedded demo vendors.
func SampleVendors() []domain.Vendor {
	return []domain.Vendor{
		{
			ID:        "sample-v1",
			Name:      "Lakeside Auto Group",
			Location:  "Portland, OR",
			Rating:    4.7,
			CreatedAt: sampleTime,
		},
		{
			ID:        "sample-v2",
			Name:      "Precision Parts & Service",
			Location:  "Eugene, OR",
			Rating:    4.4,
			CreatedAt: sampleTime,
		},
	}
}
