package pwinty

import (
	"encoding/json"
	"fmt"
)

// QualityLevel selects a catalogue tier.
type QualityLevel string

const (
	QualityStandard QualityLevel = "Standard"
	QualityPro      QualityLevel = "Pro"
)

// Payment controls who pays for an order.
type Payment string

const (
	PaymentInvoiceMe        Payment = "InvoiceMe"
	PaymentInvoiceRecipient Payment = "InvoiceRecipient"
)

// Sizing controls how an image is fitted to the print.
type Sizing string

const (
	SizingCrop             Sizing = "Crop"
	SizingShrinkToFit      Sizing = "ShrinkToFit"
	SizingShrinkToExactFit Sizing = "ShrinkToExactFit"
)

// OrderParams is the body of CreateOrder and UpdateOrder. ID is only used by
// UpdateOrder. Fields the API accepts that have no field here go in Extra and
// are sent as given.
type OrderParams struct {
	ID                     string       `json:"id,omitempty"`
	MerchantOrderID        string       `json:"merchantOrderId,omitempty"`
	RecipientName          string       `json:"recipientName,omitempty"`
	Address1               string       `json:"address1,omitempty"`
	Address2               string       `json:"address2,omitempty"`
	AddressTownOrCity      string       `json:"addressTownOrCity,omitempty"`
	StateOrCounty          string       `json:"stateOrCounty,omitempty"`
	PostalOrZipCode        string       `json:"postalOrZipCode,omitempty"`
	CountryCode            string       `json:"countryCode,omitempty"`
	DestinationCountryCode string       `json:"destinationCountryCode,omitempty"`
	QualityLevel           QualityLevel `json:"qualityLevel,omitempty"`
	Payment                Payment      `json:"payment,omitempty"`
	UseTrackedShipping     *bool        `json:"useTrackedShipping,omitempty"`
	PackingSlipType        string       `json:"packingSlipType,omitempty"`
	Email                  string       `json:"email,omitempty"`
	MobileTelephone        string       `json:"mobileTelephone,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// StatusParams is the body of UpdateOrderStatus.
type StatusParams struct {
	ID     string      `json:"id"`
	Status OrderStatus `json:"status"`
}

// PhotoParams describes a photo to attach to an order. Unknown fields are
// kept in Extra.
type PhotoParams struct {
	Type        string            `json:"type"`
	URL         string            `json:"url,omitempty"`
	Copies      int               `json:"copies"`
	Sizing      Sizing            `json:"sizing,omitempty"`
	PriceToUser *int              `json:"priceToUser,omitempty"`
	MD5Hash     string            `json:"md5Hash,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Order mirrors the order resource returned by the API.
type Order struct {
	ID                     int64           `json:"id"`
	MerchantOrderID        string          `json:"merchantOrderId"`
	RecipientName          string          `json:"recipientName"`
	Address1               string          `json:"address1"`
	Address2               string          `json:"address2"`
	AddressTownOrCity      string          `json:"addressTownOrCity"`
	StateOrCounty          string          `json:"stateOrCounty"`
	PostalOrZipCode        string          `json:"postalOrZipCode"`
	CountryCode            string          `json:"countryCode"`
	DestinationCountryCode string          `json:"destinationCountryCode"`
	QualityLevel           QualityLevel    `json:"qualityLevel"`
	Payment                Payment         `json:"payment"`
	PaymentURL             string          `json:"paymentUrl"`
	Price                  int             `json:"price"`
	Status                 OrderStatus     `json:"status"`
	Created                string          `json:"created"`
	LastUpdated            string          `json:"lastUpdated"`
	Email                  string          `json:"email"`
	ShippingInfo           json.RawMessage `json:"shippingInfo,omitempty"`
	Photos                 []Photo         `json:"photos"`
}

// Photo mirrors a photo attached to an order.
type Photo struct {
	ID           int64             `json:"id"`
	Type         string            `json:"type"`
	URL          string            `json:"url"`
	Status       string            `json:"status"`
	Copies       int               `json:"copies"`
	Sizing       Sizing            `json:"sizing"`
	Price        int               `json:"price"`
	PriceToUser  int               `json:"priceToUser"`
	MD5Hash      string            `json:"md5Hash"`
	PreviewURL   string            `json:"previewUrl"`
	ThumbnailURL string            `json:"thumbnailUrl"`
	Attributes   map[string]string `json:"attributes,omitempty"`
}

// SubmissionStatus reports whether an order can be submitted. It is distinct
// from the order's OrderStatus.
type SubmissionStatus struct {
	ID            int64         `json:"id"`
	IsValid       bool          `json:"isValid"`
	GeneralErrors []string      `json:"generalErrors"`
	Photos        []PhotoStatus `json:"photos"`
}

// PhotoStatus lists per-photo submission problems.
type PhotoStatus struct {
	ID       int64    `json:"id"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Country is a destination the API ships to.
type Country struct {
	CountryCode string `json:"countryCode"`
	Name        string `json:"name"`
	HasProducts bool   `json:"hasProducts"`
}

// Catalogue lists products and prices for a country and quality tier.
type Catalogue struct {
	Country       string          `json:"country"`
	CountryCode   string          `json:"countryCode"`
	QualityLevel  QualityLevel    `json:"qualityLevel"`
	Items         []CatalogueItem `json:"items"`
	ShippingRates json.RawMessage `json:"shippingRates,omitempty"`
}

// CatalogueItem is one printable product.
type CatalogueItem struct {
	Name                            string  `json:"name"`
	Description                     string  `json:"description"`
	ImageHorizontalSize             float64 `json:"imageHorizontalSize"`
	ImageVerticalSize               float64 `json:"imageVerticalSize"`
	SizeUnits                       string  `json:"sizeUnits"`
	RecommendedHorizontalResolution int     `json:"recommendedHorizontalResolution"`
	RecommendedVerticalResolution   int     `json:"recommendedVerticalResolution"`
	PriceGBP                        int     `json:"priceGBP"`
	PriceUSD                        int     `json:"priceUSD"`
	ShippingBand                    string  `json:"shippingBand"`
}

// Decode unmarshals a response body into T. An empty body yields the zero
// value.
func Decode[T any](body json.RawMessage) (T, error) {
	var out T
	if len(body) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, fmt.Errorf("decode response: %w", err)
	}
	return out, nil
}
