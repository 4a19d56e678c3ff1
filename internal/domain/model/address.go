package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// ShippingAddress is copied onto the order at checkout.
type ShippingAddress struct {
	FullName string `json:"fullName"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zipCode"`
	Country  string `json:"country"`
	Phone    string `json:"phone,omitempty"`
}

func (a ShippingAddress) Value() (driver.Value, error) {
	return jsonValue(a)
}

func (a *ShippingAddress) Scan(value interface{}) error {
	return jsonScan(value, a)
}

// PaymentDetails is the reduced card record kept on an order.
// The full card number and CVV never reach storage.
type PaymentDetails struct {
	CardName        string `json:"cardName"`
	CardNumberLast4 string `json:"cardNumberLast4"`
	ExpiryMonth     string `json:"expiryMonth"`
	ExpiryYear      string `json:"expiryYear"`
}

func (p PaymentDetails) Value() (driver.Value, error) {
	return jsonValue(p)
}

func (p *PaymentDetails) Scan(value interface{}) error {
	return jsonScan(value, p)
}

func jsonValue(v interface{}) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func jsonScan(value interface{}, dest interface{}) error {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("scan json column: unsupported type %T", value)
	}
}
