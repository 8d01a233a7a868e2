package http

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/four2theizz0/gearz/internal/app"
	"github.com/four2theizz0/gearz/internal/domain"
	"github.com/shopspring/decimal"
)

func buildProductForm(t *testing.T, fields map[string]string, images map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	for field, data := range images {
		fw, err := mw.CreateFormFile(field, field+".jpg")
		if err != nil {
			t.Fatalf("create form file %s: %v", field, err)
		}
		if _, err := fw.Write(data); err != nil {
			t.Fatalf("write form file %s: %v", field, err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close form: %v", err)
	}
	return buf, mw.FormDataContentType()
}

func TestHandleAdminCreateProduct(t *testing.T) {
	t.Parallel()

	svc := &stubProductAdmin{}
	body, contentType := buildProductForm(t,
		map[string]string{
			"name":        "Boxing Gloves",
			"description": "Barely used 16oz gloves",
			"price":       "79.50",
			"inventory":   "1",
			"category":    "Gloves",
			"quality":     "Like New",
		},
		map[string][]byte{"image1": []byte("jpeg-bytes"), "image2": []byte("more-bytes")},
	)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/products", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	HandleAdminCreateProduct(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.created.Name != "Boxing Gloves" {
		t.Fatalf("expected name to pass through, got %q", svc.created.Name)
	}
	if !svc.created.Price.Equal(decimal.RequireFromString("79.50")) {
		t.Fatalf("expected price 79.50, got %s", svc.created.Price)
	}
	if len(svc.created.Images) != 2 {
		t.Fatalf("expected two image uploads, got %d", len(svc.created.Images))
	}
	if svc.created.Images[0].Filename != "image1.jpg" {
		t.Fatalf("expected first image filename, got %q", svc.created.Images[0].Filename)
	}
}

func TestHandleAdminCreateProduct_BadPrice(t *testing.T) {
	t.Parallel()

	body, contentType := buildProductForm(t, map[string]string{
		"name":  "Gloves",
		"price": "free",
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/products", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	HandleAdminCreateProduct(&stubProductAdmin{}, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestHandleAdminCreateProduct_MissingRequiredField(t *testing.T) {
	t.Parallel()

	body, contentType := buildProductForm(t, map[string]string{"price": "10"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/products", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	HandleAdminCreateProduct(&stubProductAdmin{err: domain.ErrMissingRequiredField}, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestParseAdminProductPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path   string
		id     string
		action string
		ok     bool
	}{
		{path: "/api/admin/products/rec-1", id: "rec-1", action: "", ok: true},
		{path: "/api/admin/products/rec-1/mark-sold", id: "rec-1", action: "mark-sold", ok: true},
		{path: "/api/admin/products/rec-1/other", ok: false},
		{path: "/api/admin/products/", ok: false},
	}

	for _, tt := range tests {
		id, action, ok := parseAdminProductPath(tt.path)
		if id != tt.id || action != tt.action || ok != tt.ok {
			t.Fatalf("parse %q: got (%q, %q, %v), want (%q, %q, %v)", tt.path, id, action, ok, tt.id, tt.action, tt.ok)
		}
	}
}

func TestHandleAdminProductActions_Update(t *testing.T) {
	t.Parallel()

	svc := &stubProductAdmin{}
	store := newStubCache()
	_ = store.Set(context.Background(), productListCacheKey, []byte("stale"))

	body := `{"price":99.5,"inventory":1,"images":["https://img.example/1.jpg"]}`
	req := httptest.NewRequest(http.MethodPatch, "/api/admin/products/rec-1", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()

	HandleAdminProductActions(svc, store).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.patch.Price == nil || !svc.patch.Price.Equal(decimal.RequireFromString("99.5")) {
		t.Fatalf("expected price patch 99.5, got %v", svc.patch.Price)
	}
	if svc.patch.ImageURLs == nil || svc.patch.ImageURLs[0] != "https://img.example/1.jpg" {
		t.Fatalf("expected image patch, got %v", svc.patch.ImageURLs)
	}
	if _, ok := store.data[productListCacheKey]; ok {
		t.Fatal("expected cached listing to be dropped")
	}
}

func TestHandleAdminProductActions_UpdateTooManyImages(t *testing.T) {
	t.Parallel()

	body := `{"images":["a","b","c","d","e"]}`
	req := httptest.NewRequest(http.MethodPatch, "/api/admin/products/rec-1", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()

	HandleAdminProductActions(&stubProductAdmin{}, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestHandleAdminProductActions_Delete(t *testing.T) {
	t.Parallel()

	svc := &stubProductAdmin{}
	req := httptest.NewRequest(http.MethodDelete, "/api/admin/products/rec-1", nil)
	rec := httptest.NewRecorder()

	HandleAdminProductActions(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if svc.deleted != "rec-1" {
		t.Fatalf("expected delete for rec-1, got %q", svc.deleted)
	}
}

func TestHandleAdminProductActions_MarkSold(t *testing.T) {
	t.Parallel()

	svc := &stubProductAdmin{}
	req := httptest.NewRequest(http.MethodPost, "/api/admin/products/rec-1/mark-sold", nil)
	rec := httptest.NewRecorder()

	HandleAdminProductActions(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if svc.markedSold != "rec-1" {
		t.Fatalf("expected mark-sold for rec-1, got %q", svc.markedSold)
	}
	if !strings.Contains(rec.Body.String(), `"status":"Sold"`) {
		t.Fatalf("expected sold status in response, got %q", rec.Body.String())
	}
}

func TestHandleAdminProductActions_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/api/admin/products/rec-1", nil)
	rec := httptest.NewRecorder()

	HandleAdminProductActions(&stubProductAdmin{}, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rec.Code)
	}
}

type stubProductAdmin struct {
	err        error
	created    app.CreateProductInput
	patch      app.ProductPatch
	deleted    string
	markedSold string
}

func (s *stubProductAdmin) CreateProduct(_ context.Context, in app.CreateProductInput) (domain.Product, error) {
	if s.err != nil {
		return domain.Product{}, s.err
	}
	s.created = in
	return domain.Product{ID: "rec-1", Name: in.Name, Price: in.Price, Inventory: in.Inventory}, nil
}

func (s *stubProductAdmin) UpdateProduct(_ context.Context, id string, patch app.ProductPatch) (domain.Product, error) {
	if s.err != nil {
		return domain.Product{}, s.err
	}
	s.patch = patch
	return domain.Product{ID: id, Inventory: 1}, nil
}

func (s *stubProductAdmin) DeleteProduct(_ context.Context, id string) error {
	if s.err != nil {
		return s.err
	}
	s.deleted = id
	return nil
}

func (s *stubProductAdmin) MarkSold(_ context.Context, id string) (domain.Product, error) {
	if s.err != nil {
		return domain.Product{}, s.err
	}
	s.markedSold = id
	return domain.Product{ID: id, Inventory: 0}, nil
}
