package customers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"customer-svc/internal/filter"
	"customer-svc/internal/types"
	"customer-svc/internal/utils"
)

const maxMultipartMemory = 32 << 20

// Controller handles HTTP requests for the customer collection.
type Controller struct {
	service *Service
	workers *WorkerPool
}

func NewController(service *Service, workers *WorkerPool) *Controller {
	return &Controller{service: service, workers: workers}
}

// List serves GET /api/customers. The store applies the query filters
// server-side; the filter engine then re-applies them together with sortBy as
// an independent refinement pass, so both layers stay composable.
func (ctrl *Controller) List(c *gin.Context) {
	if id := c.Query("id"); id != "" {
		rec, err := ctrl.service.Get(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, rec)
		return
	}

	params := ListParams{
		Nationality: c.Query("nationality"),
		StartDate:   c.Query("startDate"),
		EndDate:     c.Query("endDate"),
		Search:      c.Query("search"),
	}

	records, err := ctrl.service.List(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}

	spec := filter.Spec{
		Search:      params.Search,
		Nationality: types.Nationality(params.Nationality),
		Sort:        filter.ParseSortKey(c.Query("sortBy")),
	}
	if params.StartDate != "" && params.EndDate != "" {
		spec.Range = &filter.DateRange{Start: params.StartDate, End: params.EndDate}
	}
	records = filter.Apply(records, spec)

	if records == nil {
		records = []types.Customer{}
	}
	c.JSON(http.StatusOK, records)
}

// Create serves POST /api/customers (multipart form).
func (ctrl *Controller) Create(c *gin.Context) {
	req := CreateRequest{
		Name:        c.PostForm("name"),
		Email:       c.PostForm("email"),
		Phone:       c.PostForm("phone"),
		Address:     c.PostForm("address"),
		Dob:         c.PostForm("dob"),
		Nationality: c.PostForm("nationality"),
		Country:     c.PostForm("country"),
	}

	photo, err := readPhoto(c)
	if err != nil {
		respondError(c, err)
		return
	}
	req.Photo = photo

	created, err := ctrl.service.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Update serves PUT /api/customers?id=. Only fields present in the form are
// written; an omitted photo preserves the prior value.
func (ctrl *Controller) Update(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		respondError(c, types.NewValidationError("ID is required for updates"))
		return
	}

	if err := c.Request.ParseMultipartForm(maxMultipartMemory); err != nil {
		respondError(c, types.NewValidationError("Error parsing form data"))
		return
	}

	form := c.Request.MultipartForm
	req := UpdateRequest{
		Name:        formField(form.Value, "name"),
		Email:       formField(form.Value, "email"),
		Phone:       formField(form.Value, "phone"),
		Address:     formField(form.Value, "address"),
		Dob:         formField(form.Value, "dob"),
		Nationality: formField(form.Value, "nationality"),
		Country:     formField(form.Value, "country"),
	}

	photo, err := readPhoto(c)
	if err != nil {
		respondError(c, err)
		return
	}
	req.Photo = photo

	updated, err := ctrl.service.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete serves DELETE /api/customers?id= and returns the prior snapshot.
func (ctrl *Controller) Delete(c *gin.Context) {
	id := c.Query("id")

	snapshot, err := ctrl.service.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, DeleteResponse{
		Status:  "success",
		Message: "Customer deleted successfully.",
		Data:    snapshot,
	})
}

// Import serves POST /api/customers/import: validate rows up front, enqueue
// the batch, acknowledge with a job ID.
func (ctrl *Controller) Import(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, types.NewValidationError("CSV file is required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, types.NewValidationError("Error reading uploaded file"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(c, types.NewValidationError("Error reading uploaded file"))
		return
	}

	rows, rowErrs, err := ParseImportCSV(data)
	if err != nil {
		respondError(c, types.NewValidationError("%v", err))
		return
	}

	jobID := uuid.NewString()
	if len(rows) > 0 {
		job := ImportJob{JobID: jobID, Rows: rows}
		if ok := ctrl.workers.Enqueue(job); !ok {
			respondError(c, errors.New("import queue is full, try again later"))
			return
		}
	}

	utils.Zlog.Info("Import job enqueued",
		zap.String("jobId", jobID),
		zap.Int("accepted", len(rows)),
		zap.Int("rejected", len(rowErrs)))

	c.JSON(http.StatusAccepted, ImportResponse{
		JobID:    jobID,
		Status:   "processing",
		Message:  "Import queued for processing",
		Accepted: len(rows),
		Rejected: len(rowErrs),
		Errors:   rowErrs,
	})
}

// readPhoto returns nil when no photo field was sent; any other read problem
// is a validation error.
func readPhoto(c *gin.Context) (*types.PhotoUpload, error) {
	fileHeader, err := c.FormFile("photo")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, types.NewValidationError("Error parsing form data")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, types.NewValidationError("Error reading photo upload")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, types.NewValidationError("Error reading photo upload")
	}

	return &types.PhotoUpload{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func formField(values map[string][]string, key string) *string {
	vals, ok := values[key]
	if !ok || len(vals) == 0 {
		return nil
	}
	return &vals[0]
}

// respondError maps the error taxonomy to transport: validation failures echo
// their message with a 400, everything else passes the raw error string
// through with a 500.
func respondError(c *gin.Context, err error) {
	var ve *types.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:     "Bad Request",
			Message:   ve.Message,
			Timestamp: time.Now().UTC(),
		})
		return
	}

	utils.Zlog.Error("Request failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, types.ErrorResponse{
		Error:     "Internal Server Error",
		Message:   err.Error(),
		Timestamp: time.Now().UTC(),
	})
}
