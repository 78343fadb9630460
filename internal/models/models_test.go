package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestSellerValidation(t *testing.T) {
	tests := []struct {
		name    string
		seller  *Seller
		wantErr bool
	}{
		{"valid seller", NewSeller("Asha", "9876543210", "Jaipur"), false},
		{"missing name", NewSeller("  ", "9876543210", "Jaipur"), true},
		{"missing mobile", NewSeller("Asha", "", "Jaipur"), true},
		{"missing location", NewSeller("Asha", "9876543210", ""), true},
		{"mobile too long", NewSeller("Asha", strings.Repeat("9", 21), "Jaipur"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.seller.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSellerMatches(t *testing.T) {
	seller := NewSeller("Asha", "9876543210", "Jaipur")
	if !seller.Matches(" Asha ", "Jaipur") {
		t.Error("expected trimmed name and location to match")
	}
	if seller.Matches("Asha", "Udaipur") {
		t.Error("expected different location not to match")
	}
}

func TestProductValidation(t *testing.T) {
	tests := []struct {
		name    string
		product *Product
		wantErr bool
	}{
		{"valid product", NewProduct(1, "Pottery", "A vase", 799.5, "abc.jpeg", true), false},
		{"missing seller", NewProduct(0, "Pottery", "A vase", 10, "abc.jpeg", true), true},
		{"zero price", NewProduct(1, "Pottery", "A vase", 0, "abc.jpeg", true), true},
		{"negative price", NewProduct(1, "Pottery", "A vase", -5, "abc.jpeg", true), true},
		{"missing image", NewProduct(1, "Pottery", "A vase", 10, "", true), true},
		{"missing description", NewProduct(1, "Pottery", "", 10, "abc.jpeg", true), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.product.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestProductToResponse(t *testing.T) {
	product := NewProduct(3, "Handlooms", "A shawl", 2400, "f00d.jpeg", false)
	product.ID = 7

	resp := product.ToResponse("/uploads/")
	if resp.ImageURL != "/uploads/f00d.jpeg" {
		t.Errorf("ImageURL = %s, want /uploads/f00d.jpeg", resp.ImageURL)
	}

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() failed: %v", err)
	}

	for _, key := range []string{"id", "seller_id", "category", "description", "price", "image_url", "ai_generated", "created_at", "seller"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("response is missing key %q", key)
		}
	}
	if decoded["seller"] != nil {
		t.Errorf("seller = %v, want null when not joined", decoded["seller"])
	}
}

func TestToResponsesEmpty(t *testing.T) {
	data, err := json.Marshal(ToResponses(nil, "/uploads"))
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("ToResponses(nil) = %s, want []", data)
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    time.Time
		wantErr bool
	}{
		{"rfc3339", "2024-05-01T10:20:30Z", time.Date(2024, 5, 1, 10, 20, 30, 0, time.UTC), false},
		{"rfc3339 offset", "2024-05-01T15:50:30+05:30", time.Date(2024, 5, 1, 10, 20, 30, 0, time.UTC), false},
		{"zoneless micros", "2024-05-01T10:20:30.123456", time.Date(2024, 5, 1, 10, 20, 30, 123456000, time.UTC), false},
		{"zoneless seconds", "2024-05-01T10:20:30", time.Date(2024, 5, 1, 10, 20, 30, 0, time.UTC), false},
		{"space separated", "2024-05-01 10:20:30", time.Date(2024, 5, 1, 10, 20, 30, 0, time.UTC), false},
		{"garbage", "yesterday", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTimestamp() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseTimestamp() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProductUnmarshalZoneless(t *testing.T) {
	var p Product
	data := `{"id": 3, "seller_id": 1, "price": 10, "created_at": "2024-05-01T10:20:30.5", "seller": {"id": 1, "created_at": null}}`
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if p.ID != 3 || p.SellerID != 1 || p.Price != 10 {
		t.Errorf("fields not decoded: %+v", p)
	}
	if p.CreatedAt.Nanosecond() != 500000000 || p.CreatedAt.Location() != time.UTC {
		t.Errorf("CreatedAt = %v", p.CreatedAt)
	}
	if p.Seller == nil || !p.Seller.CreatedAt.IsZero() {
		t.Errorf("Seller = %+v, want zero created_at", p.Seller)
	}

	if err := json.Unmarshal([]byte(`{"created_at": "not a time"}`), &p); err == nil {
		t.Error("expected error for unparseable created_at")
	}
}
