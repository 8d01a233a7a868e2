package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/four2theizz0/gearz/internal/app"
	"github.com/four2theizz0/gearz/internal/cache"
)

// productListCacheKey caches the storefront listing body. Admin mutations
// delete it so shoppers never see stale inventory.
const productListCacheKey = "products:list"

// ProductCatalog is the minimal interface needed for the storefront product
// endpoints.
type ProductCatalog interface {
	ListProducts(ctx context.Context) ([]app.ProductWithStatus, error)
	GetProductWithStatus(ctx context.Context, id string) (app.ProductWithStatus, error)
	FieldValues(ctx context.Context, field string) ([]string, error)
}

// HandleListProducts returns an HTTP handler for the public product listing.
// store may be nil, which disables caching.
func HandleListProducts(svc ProductCatalog, store cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		if store != nil {
			if body, err := store.Get(r.Context(), productListCacheKey); err == nil {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write(body)
				return
			}
		}

		products, err := svc.ListProducts(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}

		resp := productListResponse{Success: true, Products: make([]productResponse, 0, len(products))}
		for _, p := range products {
			resp.Products = append(resp.Products, toProductResponse(p))
		}

		body, err := json.Marshal(resp)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if store != nil {
			_ = store.Set(r.Context(), productListCacheKey, body)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}
}

// HandleProductDetail returns an HTTP handler for a single product lookup. It
// also serves the field-values endpoint that feeds admin autocomplete, which
// shares the /api/products/ prefix.
func HandleProductDetail(svc ProductCatalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		id, ok := parseProductPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, "not found")
			return
		}

		if id == "field-values" {
			values, err := svc.FieldValues(r.Context(), r.URL.Query().Get("field"))
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, fieldValuesResponse{Success: true, Values: values})
			return
		}

		product, err := svc.GetProductWithStatus(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, productDetailResponse{Success: true, Product: toProductResponse(product)})
	}
}

type productResponse struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Price       json.Number `json:"price"`
	Inventory   int         `json:"inventory"`
	Category    string      `json:"category"`
	Quality     string      `json:"quality"`
	Brand       string      `json:"brand,omitempty"`
	Size        string      `json:"size,omitempty"`
	Weight      string      `json:"weight,omitempty"`
	Color       string      `json:"color,omitempty"`
	Images      []string    `json:"images"`
	Status      string      `json:"status"`
}

type productListResponse struct {
	Success  bool              `json:"success"`
	Products []productResponse `json:"products"`
}

type productDetailResponse struct {
	Success bool            `json:"success"`
	Product productResponse `json:"product"`
}

type fieldValuesResponse struct {
	Success bool     `json:"success"`
	Values  []string `json:"values"`
}

func toProductResponse(p app.ProductWithStatus) productResponse {
	return productResponse{
		ID:          p.Product.ID,
		Name:        p.Product.Name,
		Description: p.Product.Description,
		Price:       json.Number(p.Product.Price.String()),
		Inventory:   p.Product.Inventory,
		Category:    p.Product.Category,
		Quality:     p.Product.Quality,
		Brand:       p.Product.Brand,
		Size:        p.Product.Size,
		Weight:      p.Product.Weight,
		Color:       p.Product.Color,
		Images:      p.Product.Images(),
		Status:      string(p.Status),
	}
}

func parseProductPath(path string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 3 {
		return "", false
	}
	if parts[0] != "api" || parts[1] != "products" || parts[2] == "" {
		return "", false
	}
	return parts[2], true
}
