package service

import (
	"net/http"
	"strings"
	"testing"
	"time"
)

const extractionDocument = `{
  "merchant_name": "Corner Cafe",
  "transaction_timestamp": "2024-03-05T12:30:00",
  "currency": "USD",
  "items": [
    {"name": "Latte", "quantity": 2, "unit_price": 4.50, "total_price": 9.00, "category": "beverage"},
    {"name": "Bagel", "quantity": 1, "unit_price": 3.25, "total_price": 3.25}
  ],
  "subtotal": 12.25,
  "tax": 0.98,
  "fees": 0,
  "total": 13.23,
  "payment_method": "credit",
  "receipt_id": "R-8841"
}`

type receiptsResponse struct {
	Receipts []receiptResponse `json:"receipts"`
}

func TestCreateReceipt(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()

	var created receiptResponse
	status := ts.doJSON(t, http.MethodPost, "/api/v1/receipts", lunchReceipt(), &created)

	if status != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", status)
	}
	if created.ID == "" {
		t.Error("Expected a receipt ID")
	}
	if created.Merchant != "Thai Palace" {
		t.Errorf("Merchant = %q, want Thai Palace", created.Merchant)
	}
	if created.CreatedAt == 0 {
		t.Error("Expected CreatedAt to be set")
	}
	if len(created.Items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(created.Items))
	}
	for _, item := range created.Items {
		if item.ID == "" {
			t.Errorf("Item %q has no ID", item.Name)
		}
	}
	if created.Items[0].UnitPrice != "10.00" {
		t.Errorf("UnitPrice = %q, want 10.00", created.Items[0].UnitPrice)
	}
	if created.Totals.Total != "17.60" {
		t.Errorf("Total = %q, want 17.60", created.Totals.Total)
	}
	if created.Split != nil {
		t.Error("New receipt should not carry a split")
	}
}

func TestCreateReceipt_BadMoney(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()

	payload := lunchReceipt()
	payload["totals"] = map[string]any{"subtotal": "sixteen", "total": "17.60"}

	var body errorBody
	status := ts.doJSON(t, http.MethodPost, "/api/v1/receipts", payload, &body)

	if status != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", status)
	}
	if body.Code != "BadRequest" {
		t.Errorf("Code = %q, want BadRequest", body.Code)
	}
	if !strings.Contains(body.Error, "subtotal") {
		t.Errorf("Error should name the bad field: %q", body.Error)
	}
}

func TestCreateReceipt_InconsistentTotals(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()

	payload := lunchReceipt()
	payload["totals"] = map[string]any{"subtotal": "10.00", "total": "99.00"}

	var body errorBody
	status := ts.doJSON(t, http.MethodPost, "/api/v1/receipts", payload, &body)

	if status != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", status)
	}
	if body.Code != "InconsistentTotals" {
		t.Errorf("Code = %q, want InconsistentTotals", body.Code)
	}
}

func TestCreateReceipt_MissingMerchant(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()

	var body errorBody
	status := ts.doJSON(t, http.MethodPost, "/api/v1/receipts", map[string]any{
		"totals": map[string]any{"subtotal": "5.00", "total": "5.00"},
	}, &body)

	if status != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", status)
	}
}

func TestImportReceipt(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()

	var created receiptResponse
	status := ts.doRaw(t, http.MethodPost, "/api/v1/receipts/import", strings.NewReader(extractionDocument), &created)

	if status != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", status)
	}
	if created.ID == "" {
		t.Error("Expected a receipt ID")
	}
	if created.Merchant != "Corner Cafe" {
		t.Errorf("Merchant = %q, want Corner Cafe", created.Merchant)
	}
	if created.Reference != "R-8841" {
		t.Errorf("Reference = %q, want R-8841", created.Reference)
	}
	wantTime := time.Date(2024, 3, 5, 12, 30, 0, 0, time.UTC).Unix()
	if created.PurchasedAt != wantTime {
		t.Errorf("PurchasedAt = %d, want %d", created.PurchasedAt, wantTime)
	}
	if len(created.Items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(created.Items))
	}
	if created.Items[0].Name != "Latte" || created.Items[0].Quantity != 2 {
		t.Errorf("Unexpected first item: %+v", created.Items[0])
	}
	if created.Items[0].UnitPrice != "4.50" {
		t.Errorf("UnitPrice = %q, want 4.50", created.Items[0].UnitPrice)
	}
	if created.Totals.Subtotal != "12.25" || created.Totals.Tax != "0.98" || created.Totals.Total != "13.23" {
		t.Errorf("Unexpected totals: %+v", created.Totals)
	}

	// The import must be readable back like any other receipt.
	var fetched receiptResponse
	status = ts.doJSON(t, http.MethodGet, "/api/v1/receipts/"+created.ID, nil, &fetched)
	if status != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", status)
	}
	if fetched.Merchant != "Corner Cafe" || len(fetched.Items) != 2 {
		t.Errorf("Unexpected fetched receipt: %+v", fetched)
	}
}

func TestImportReceipt_Malformed(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()

	var body errorBody
	status := ts.doRaw(t, http.MethodPost, "/api/v1/receipts/import", strings.NewReader(`{"merchant_name": `), &body)

	if status != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", status)
	}
	if body.Code != "BadRequest" {
		t.Errorf("Code = %q, want BadRequest", body.Code)
	}
}

func TestImportReceipt_SubCentAmount(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()

	doc := `{"merchant_name": "M", "subtotal": 10.005, "tax": 0, "fees": 0, "total": 10.005}`
	var body errorBody
	status := ts.doRaw(t, http.MethodPost, "/api/v1/receipts/import", strings.NewReader(doc), &body)

	if status != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", status)
	}
	if !strings.Contains(body.Error, "subtotal") {
		t.Errorf("Error should name the field: %q", body.Error)
	}
}

func TestImportReceipt_InconsistentTotals(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()

	doc := `{"merchant_name": "M", "subtotal": 10.00, "tax": 1.00, "fees": 0, "total": 99.00}`
	var body errorBody
	status := ts.doRaw(t, http.MethodPost, "/api/v1/receipts/import", strings.NewReader(doc), &body)

	if status != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", status)
	}
	if body.Code != "InconsistentTotals" {
		t.Errorf("Code = %q, want InconsistentTotals", body.Code)
	}

	// Nothing broken may land in storage.
	var out receiptsResponse
	if status := ts.doJSON(t, http.MethodGet, "/api/v1/receipts", nil, &out); status != http.StatusOK {
		t.Fatalf("Expected status 200 listing receipts, got %d", status)
	}
	if len(out.Receipts) != 0 {
		t.Errorf("Expected no stored receipts, got %d", len(out.Receipts))
	}
}

func TestListReceipts(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()

	ts.addReceipt(t, lunchReceipt())
	ts.addReceipt(t, dinnerReceipt())

	var out receiptsResponse
	status := ts.doJSON(t, http.MethodGet, "/api/v1/receipts", nil, &out)

	if status != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", status)
	}
	if len(out.Receipts) != 2 {
		t.Fatalf("Expected 2 receipts, got %d", len(out.Receipts))
	}
	for _, r := range out.Receipts {
		if r.ID == "" || r.Merchant == "" {
			t.Errorf("Incomplete summary: %+v", r)
		}
		// Summaries carry totals but not line items.
		if len(r.Items) != 0 {
			t.Errorf("Summary for %s should not include items", r.Merchant)
		}
	}
}

func TestListReceipts_Empty(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()

	var out receiptsResponse
	status := ts.doJSON(t, http.MethodGet, "/api/v1/receipts", nil, &out)

	if status != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", status)
	}
	if len(out.Receipts) != 0 {
		t.Errorf("Expected no receipts, got %d", len(out.Receipts))
	}
}

func TestGetReceipt(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()

	created := ts.addReceipt(t, lunchReceipt())

	var fetched receiptResponse
	status := ts.doJSON(t, http.MethodGet, "/api/v1/receipts/"+created.ID, nil, &fetched)

	if status != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", status)
	}
	if fetched.ID != created.ID {
		t.Errorf("ID = %q, want %q", fetched.ID, created.ID)
	}
	if len(fetched.Items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(fetched.Items))
	}
	if fetched.Items[0].Name != "Pad Thai" || fetched.Items[1].Name != "Spring Rolls" {
		t.Errorf("Items out of order: %+v", fetched.Items)
	}
}

func TestGetReceipt_NotFound(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()

	var body errorBody
	status := ts.doJSON(t, http.MethodGet, "/api/v1/receipts/no-such-receipt", nil, &body)

	if status != http.StatusNotFound {
		t.Fatalf("Expected status 404, got %d", status)
	}
	if body.Code != "NotFound" {
		t.Errorf("Code = %q, want NotFound", body.Code)
	}
}

func TestGetReceipt_ScopedToOwner(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()

	created := ts.addReceipt(t, lunchReceipt())

	ts.token = ts.registerUser(t, "other@example.com")
	var body errorBody
	status := ts.doJSON(t, http.MethodGet, "/api/v1/receipts/"+created.ID, nil, &body)

	if status != http.StatusNotFound {
		t.Fatalf("Expected status 404 for another user's receipt, got %d", status)
	}
}

func TestUpdateReceipt(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()

	created := ts.addReceipt(t, lunchReceipt())

	updated := map[string]any{
		"merchant": "Noodle Bar",
		"items": []map[string]any{
			{"name": "Ramen", "quantity": 1, "unitPrice": "12.00", "totalPrice": "12.00"},
		},
		"totals": map[string]any{"subtotal": "12.00", "total": "12.00"},
	}
	var out receiptResponse
	status := ts.doJSON(t, http.MethodPut, "/api/v1/receipts/"+created.ID, updated, &out)

	if status != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", status)
	}
	if out.Merchant != "Noodle Bar" {
		t.Errorf("Merchant = %q, want Noodle Bar", out.Merchant)
	}
	if len(out.Items) != 1 || out.Items[0].Name != "Ramen" {
		t.Errorf("Unexpected items after update: %+v", out.Items)
	}

	var fetched receiptResponse
	ts.doJSON(t, http.MethodGet, "/api/v1/receipts/"+created.ID, nil, &fetched)
	if fetched.Merchant != "Noodle Bar" || len(fetched.Items) != 1 {
		t.Errorf("Update did not persist: %+v", fetched)
	}
}

func TestUpdateReceipt_InconsistentTotals(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()

	created := ts.addReceipt(t, lunchReceipt())

	payload := map[string]any{
		"merchant": "Thai Palace",
		"totals":   map[string]any{"subtotal": "10.00", "total": "99.00"},
	}
	var body errorBody
	status := ts.doJSON(t, http.MethodPut, "/api/v1/receipts/"+created.ID, payload, &body)

	if status != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", status)
	}
	if body.Code != "InconsistentTotals" {
		t.Errorf("Code = %q, want InconsistentTotals", body.Code)
	}

	// The stored receipt keeps its original totals.
	var fetched receiptResponse
	ts.doJSON(t, http.MethodGet, "/api/v1/receipts/"+created.ID, nil, &fetched)
	if fetched.Totals.Total != "17.60" {
		t.Errorf("Total = %q, want 17.60 after rejected update", fetched.Totals.Total)
	}
}

func TestUpdateReceipt_NotFound(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()

	payload := map[string]any{
		"merchant": "Nowhere",
		"totals":   map[string]any{"subtotal": "1.00", "total": "1.00"},
	}
	var body errorBody
	status := ts.doJSON(t, http.MethodPut, "/api/v1/receipts/no-such-receipt", payload, &body)

	if status != http.StatusNotFound {
		t.Fatalf("Expected status 404, got %d", status)
	}
	if body.Code != "NotFound" {
		t.Errorf("Code = %q, want NotFound", body.Code)
	}
}

func TestDeleteReceipt(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()

	created := ts.addReceipt(t, lunchReceipt())

	status := ts.doJSON(t, http.MethodDelete, "/api/v1/receipts/"+created.ID, nil, nil)
	if status != http.StatusNoContent {
		t.Fatalf("Expected status 204, got %d", status)
	}

	var body errorBody
	status = ts.doJSON(t, http.MethodGet, "/api/v1/receipts/"+created.ID, nil, &body)
	if status != http.StatusNotFound {
		t.Fatalf("Expected status 404 after delete, got %d", status)
	}
}

func TestDeleteReceipt_NotFound(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()

	var body errorBody
	status := ts.doJSON(t, http.MethodDelete, "/api/v1/receipts/no-such-receipt", nil, &body)

	if status != http.StatusNotFound {
		t.Fatalf("Expected status 404, got %d", status)
	}
	if body.Code != "NotFound" {
		t.Errorf("Code = %q, want NotFound", body.Code)
	}
}
