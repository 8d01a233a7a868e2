package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/four2theizz0/gearz/internal/app"
	"github.com/four2theizz0/gearz/internal/cache"
	"github.com/four2theizz0/gearz/internal/domain"
	"github.com/shopspring/decimal"
)

// maxProductFormSize caps the multipart create form, dominated by the four
// image uploads.
const maxProductFormSize = 32 << 20

// ProductAdminService is the minimal interface needed for the admin product
// endpoints.
type ProductAdminService interface {
	CreateProduct(ctx context.Context, in app.CreateProductInput) (domain.Product, error)
	UpdateProduct(ctx context.Context, id string, patch app.ProductPatch) (domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	MarkSold(ctx context.Context, id string) (domain.Product, error)
}

// HandleAdminCreateProduct returns an HTTP handler for the multipart listing
// form. Up to four images are accepted under the fields image1 through image4.
func HandleAdminCreateProduct(svc ProductAdminService, store cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		if err := r.ParseMultipartForm(maxProductFormSize); err != nil {
			writeError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}

		price, err := decimal.NewFromString(strings.TrimSpace(r.FormValue("price")))
		if err != nil {
			writeError(w, http.StatusBadRequest, domain.ErrInvalidPrice.Error())
			return
		}
		inventory := 1
		if raw := strings.TrimSpace(r.FormValue("inventory")); raw != "" {
			inventory, err = strconv.Atoi(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, domain.ErrInvalidInventory.Error())
				return
			}
		}

		images, err := readImageUploads(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		product, err := svc.CreateProduct(r.Context(), app.CreateProductInput{
			Name:        r.FormValue("name"),
			Description: r.FormValue("description"),
			Price:       price,
			Inventory:   inventory,
			Category:    r.FormValue("category"),
			Quality:     r.FormValue("quality"),
			Brand:       r.FormValue("brand"),
			Size:        r.FormValue("size"),
			Weight:      r.FormValue("weight"),
			Color:       r.FormValue("color"),
			Images:      images,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		if store != nil {
			_ = store.Delete(r.Context(), productListCacheKey)
		}
		writeJSON(w, http.StatusCreated, productDetailResponse{
			Success: true,
			Product: toProductResponse(app.ProductWithStatus{Product: product, Status: domain.AvailabilityActive}),
		})
	}
}

// HandleAdminProductActions returns an HTTP handler for the mutation
// endpoints under /api/admin/products/.
func HandleAdminProductActions(svc ProductAdminService, store cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, action, ok := parseAdminProductPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, "not found")
			return
		}

		invalidate := func() {
			if store != nil {
				_ = store.Delete(r.Context(), productListCacheKey)
			}
		}

		if action == "mark-sold" {
			if r.Method != http.MethodPost {
				writeError(w, http.StatusMethodNotAllowed, "method not allowed")
				return
			}
			product, err := svc.MarkSold(r.Context(), id)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			invalidate()
			writeJSON(w, http.StatusOK, productDetailResponse{
				Success: true,
				Product: toProductResponse(app.ProductWithStatus{Product: product, Status: domain.AvailabilitySold}),
			})
			return
		}

		switch r.Method {
		case http.MethodPatch:
			var req updateProductRequest
			if err := decodeBody(r, &req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
			patch, err := req.toPatch()
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			product, err := svc.UpdateProduct(r.Context(), id, patch)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			invalidate()
			// Status here ignores holds; the admin list view re-resolves it.
			writeJSON(w, http.StatusOK, productDetailResponse{
				Success: true,
				Product: toProductResponse(app.ProductWithStatus{Product: product, Status: domain.ResolveAvailability(product, nil, time.Time{})}),
			})
		case http.MethodDelete:
			if err := svc.DeleteProduct(r.Context(), id); err != nil {
				writeServiceError(w, err)
				return
			}
			invalidate()
			writeJSON(w, http.StatusOK, successResponse{Success: true})
		default:
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	}
}

func readImageUploads(r *http.Request) ([]app.ImageUpload, error) {
	images := make([]app.ImageUpload, 0, 4)
	for i := 1; i <= 4; i++ {
		file, header, err := r.FormFile(fmt.Sprintf("image%d", i))
		if err == http.ErrMissingFile {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("invalid image%d upload", i)
		}
		data, err := io.ReadAll(file)
		_ = file.Close()
		if err != nil {
			return nil, fmt.Errorf("invalid image%d upload", i)
		}
		images = append(images, app.ImageUpload{Filename: header.Filename, Data: data})
	}
	return images, nil
}

var errTooManyImages = errors.New("at most four images are allowed")

type updateProductRequest struct {
	Name        *string      `json:"name"`
	Description *string      `json:"description"`
	Price       *json.Number `json:"price"`
	Inventory   *int         `json:"inventory"`
	Category    *string      `json:"category"`
	Quality     *string      `json:"quality"`
	Brand       *string      `json:"brand"`
	Size        *string      `json:"size"`
	Weight      *string      `json:"weight"`
	Color       *string      `json:"color"`
	Images      *[]string    `json:"images"`
	Status      *string      `json:"status"`
}

func (r updateProductRequest) toPatch() (app.ProductPatch, error) {
	patch := app.ProductPatch{
		Name:        r.Name,
		Description: r.Description,
		Inventory:   r.Inventory,
		Category:    r.Category,
		Quality:     r.Quality,
		Brand:       r.Brand,
		Size:        r.Size,
		Weight:      r.Weight,
		Color:       r.Color,
		Status:      r.Status,
	}
	if r.Price != nil {
		price, err := decimal.NewFromString(r.Price.String())
		if err != nil {
			return app.ProductPatch{}, domain.ErrInvalidPrice
		}
		patch.Price = &price
	}
	if r.Images != nil {
		if len(*r.Images) > 4 {
			return app.ProductPatch{}, errTooManyImages
		}
		var urls [4]string
		copy(urls[:], *r.Images)
		patch.ImageURLs = &urls
	}
	return patch, nil
}

func parseAdminProductPath(path string) (id, action string, ok bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 4 || len(parts) > 5 {
		return "", "", false
	}
	if parts[0] != "api" || parts[1] != "admin" || parts[2] != "products" || parts[3] == "" {
		return "", "", false
	}
	if len(parts) == 4 {
		return parts[3], "", true
	}
	if parts[4] != "mark-sold" {
		return "", "", false
	}
	return parts[3], parts[4], true
}
