package customers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"customer-svc/internal/middleware"
	"customer-svc/internal/types"
)

type stubTokens struct {
	err error
}

func (s *stubTokens) Validate(token string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "tester", nil
}

func newTestRouter(t *testing.T, store Store, uploader Uploader) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	service := NewService(store, uploader, nil)
	pool := NewWorkerPool(1, 4)
	pool.SetProcessFunc(service.ProcessImportJob)
	pool.Start()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		pool.Stop(ctx)
	})

	controller := NewController(service, pool)

	router := gin.New()
	group := router.Group("/api/customers")
	group.Use(middleware.NoStore())
	group.Use(middleware.RequireAuth(&stubTokens{}))
	group.GET("", controller.List)
	group.POST("", controller.Create)
	group.PUT("", controller.Update)
	group.DELETE("", controller.Delete)
	group.POST("/import", controller.Import)
	return router
}

func multipartBody(t *testing.T, fields map[string]string, fileField, filename string, file []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := w.CreateFormFile(fileField, filename)
		require.NoError(t, err)
		_, err = fw.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func doRequest(router *gin.Engine, method, target, contentType string, body *bytes.Buffer) *httptest.ResponseRecorder {
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Authorization", "Bearer token")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestController_RejectsMissingToken(t *testing.T) {
	router := newTestRouter(t, newFakeStore(), &fakeUploader{})

	req := httptest.NewRequest(http.MethodGet, "/api/customers", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var resp types.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Unauthorized", resp.Error)
}

func TestController_NoStoreHeaders(t *testing.T) {
	router := newTestRouter(t, newFakeStore(), &fakeUploader{})

	rec := doRequest(router, http.MethodGet, "/api/customers", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "no-store, no-cache, must-revalidate, proxy-revalidate", rec.Header().Get("Cache-Control"))
	require.Equal(t, "no-cache", rec.Header().Get("Pragma"))
}

func TestController_ListEmptyCollection(t *testing.T) {
	router := newTestRouter(t, newFakeStore(), &fakeUploader{})

	rec := doRequest(router, http.MethodGet, "/api/customers", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "[]", rec.Body.String())
}

func TestController_ListAppliesSort(t *testing.T) {
	store := newFakeStore(
		types.Customer{ID: "1", Name: "Charlie", Email: "c@example.com", Nationality: types.NationalityDomestic},
		types.Customer{ID: "2", Name: "Ada", Email: "a@example.com", Nationality: types.NationalityDomestic},
	)
	router := newTestRouter(t, store, &fakeUploader{})

	rec := doRequest(router, http.MethodGet, "/api/customers?sortBy=name-asc", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got []types.Customer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	require.Equal(t, "Ada", got[0].Name)
	require.Equal(t, "Charlie", got[1].Name)
}

func TestController_ListSearchRefinement(t *testing.T) {
	store := newFakeStore(
		types.Customer{ID: "1", Name: "Charlie", Email: "c@example.com"},
		types.Customer{ID: "2", Name: "Ada", Email: "a@example.com"},
	)
	router := newTestRouter(t, store, &fakeUploader{})

	rec := doRequest(router, http.MethodGet, "/api/customers?search=ada", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got []types.Customer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	require.Equal(t, "Ada", got[0].Name)
}

func TestController_GetByID(t *testing.T) {
	store := newFakeStore(types.Customer{ID: "c1", Name: "Ada", Email: "a@example.com"})
	router := newTestRouter(t, store, &fakeUploader{})

	rec := doRequest(router, http.MethodGet, "/api/customers?id=c1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got types.Customer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "c1", got.ID)
}

func TestController_CreateValidationError(t *testing.T) {
	router := newTestRouter(t, newFakeStore(), &fakeUploader{})

	body, contentType := multipartBody(t, map[string]string{"name": "Ada"}, "", "", nil)
	rec := doRequest(router, http.MethodPost, "/api/customers", contentType, body)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp types.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Name, email, and phone are required fields", resp.Message)
}

func TestController_CreateWithPhoto(t *testing.T) {
	store := newFakeStore()
	up := &fakeUploader{}
	router := newTestRouter(t, store, up)

	body, contentType := multipartBody(t, map[string]string{
		"name":  "Ada Lovelace",
		"email": "ada@example.org",
		"phone": "+62811111111",
	}, "photo", "face.png", []byte("pngbytes"))
	rec := doRequest(router, http.MethodPost, "/api/customers", contentType, body)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, up.keys, 1)

	var got types.Customer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.NotEmpty(t, got.ID)
	require.NotEmpty(t, got.PhotoURL)
}

func TestController_CreateSurvivesPhotoFailure(t *testing.T) {
	store := newFakeStore()
	router := newTestRouter(t, store, &fakeUploader{err: errors.New("bucket unavailable")})

	body, contentType := multipartBody(t, map[string]string{
		"name":  "Ada Lovelace",
		"email": "ada@example.org",
		"phone": "+62811111111",
	}, "photo", "face.png", []byte("pngbytes"))
	rec := doRequest(router, http.MethodPost, "/api/customers", contentType, body)

	require.Equal(t, http.StatusCreated, rec.Code)

	var got types.Customer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Empty(t, got.PhotoURL)
}

func TestController_UpdateRequiresID(t *testing.T) {
	router := newTestRouter(t, newFakeStore(), &fakeUploader{})

	body, contentType := multipartBody(t, map[string]string{"name": "Ada"}, "", "", nil)
	rec := doRequest(router, http.MethodPut, "/api/customers", contentType, body)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp types.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "ID is required for updates", resp.Message)
}

func TestController_UpdatePartialFields(t *testing.T) {
	store := newFakeStore(types.Customer{ID: "c1", Name: "Ada", Email: "a@example.com"})
	router := newTestRouter(t, store, &fakeUploader{})

	body, contentType := multipartBody(t, map[string]string{"name": "Ada Byron"}, "", "", nil)
	rec := doRequest(router, http.MethodPut, "/api/customers?id=c1", contentType, body)

	require.Equal(t, http.StatusOK, rec.Code)

	var got types.Customer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "Ada Byron", got.Name)
	require.Equal(t, "a@example.com", got.Email)

	require.Len(t, store.updates, 1)
	require.Nil(t, store.updates[0].Email)
}

func TestController_UpdatePhotoFailureIsFatal(t *testing.T) {
	store := newFakeStore(types.Customer{ID: "c1", Name: "Ada", Email: "a@example.com"})
	router := newTestRouter(t, store, &fakeUploader{err: errors.New("bucket unavailable")})

	body, contentType := multipartBody(t, nil, "photo", "new.png", []byte("pngbytes"))
	rec := doRequest(router, http.MethodPut, "/api/customers?id=c1", contentType, body)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Empty(t, store.updates)
}

func TestController_DeleteEnvelope(t *testing.T) {
	store := newFakeStore(types.Customer{ID: "c1", Name: "Ada", Email: "a@example.com"})
	router := newTestRouter(t, store, &fakeUploader{})

	rec := doRequest(router, http.MethodDelete, "/api/customers?id=c1", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp DeleteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "success", resp.Status)
	require.Equal(t, "Customer deleted successfully.", resp.Message)
	require.Equal(t, "Ada", resp.Data.Name)
}

func TestController_DeleteMissingRecord(t *testing.T) {
	router := newTestRouter(t, newFakeStore(), &fakeUploader{})

	rec := doRequest(router, http.MethodDelete, "/api/customers?id=ghost", "", nil)

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp types.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "record not found", resp.Message)
}

func TestController_BackendErrorPassesMessageThrough(t *testing.T) {
	store := newFakeStore()
	store.listErr = errors.New("connection refused")
	router := newTestRouter(t, store, &fakeUploader{})

	rec := doRequest(router, http.MethodGet, "/api/customers", "", nil)

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp types.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "connection refused", resp.Message)
}

func TestController_ImportAcceptsCSV(t *testing.T) {
	store := newFakeStore()
	router := newTestRouter(t, store, &fakeUploader{})

	csv := "name,email,phone\nAda,ada@example.org,111\n,missing@example.org,222\n"
	body, contentType := multipartBody(t, nil, "file", "customers.csv", []byte(csv))
	rec := doRequest(router, http.MethodPost, "/api/customers/import", contentType, body)

	require.Equal(t, http.StatusAccepted, rec.Code)

	var resp ImportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.JobID)
	require.Equal(t, 1, resp.Accepted)
	require.Equal(t, 1, resp.Rejected)

	require.Eventually(t, func() bool {
		return store.insertedCount() == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestController_ImportRequiresFile(t *testing.T) {
	router := newTestRouter(t, newFakeStore(), &fakeUploader{})

	body, contentType := multipartBody(t, map[string]string{"note": "no file"}, "", "", nil)
	rec := doRequest(router, http.MethodPost, "/api/customers/import", contentType, body)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
