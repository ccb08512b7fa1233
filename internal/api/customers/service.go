package customers

import (
	"context"

	"go.uber.org/zap"

	"customer-svc/internal/blobstore"
	"customer-svc/internal/metrics"
	"customer-svc/internal/types"
	"customer-svc/internal/utils"
)

// Uploader is the blob store contract: write bytes under a key, hand back the
// public URL.
type Uploader interface {
	Upload(ctx context.Context, in blobstore.UploadInput) (string, error)
}

// Service translates API operations into record store and blob store calls.
// It holds no state of its own.
type Service struct {
	store   Store
	photos  Uploader
	metrics *metrics.Metrics
}

func NewService(store Store, photos Uploader, m *metrics.Metrics) *Service {
	return &Service{store: store, photos: photos, metrics: m}
}

func (s *Service) List(ctx context.Context, p ListParams) ([]types.Customer, error) {
	records, err := s.store.List(ctx, p)
	if err != nil {
		return nil, &types.BackendError{Op: "list customers", Err: err}
	}
	return records, nil
}

func (s *Service) Get(ctx context.Context, id string) (types.Customer, error) {
	rec, err := s.store.GetByID(ctx, id)
	if err != nil {
		return types.Customer{}, &types.BackendError{Op: "get customer", Err: err}
	}
	return rec, nil
}

// Create validates, optionally stores the photo, then inserts the record.
// A failed photo upload is logged and swallowed: the record is still created,
// just without a photo_url. Creation never blocks on photo failure.
func (s *Service) Create(ctx context.Context, req CreateRequest) (types.Customer, error) {
	if err := ValidateCreateRequest(&req); err != nil {
		return types.Customer{}, err
	}

	nationality := types.Nationality(req.Nationality)
	if nationality == "" {
		nationality = types.NationalityDomestic
	}

	rec := types.Customer{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
		Dob:         req.Dob,
		Nationality: nationality,
		Country:     req.Country,
	}

	if req.Photo != nil {
		key := blobstore.ObjectKey(req.Name, req.Photo.Filename)
		url, err := s.photos.Upload(ctx, blobstore.UploadInput{
			Key:         key,
			ContentType: req.Photo.ContentType,
			Data:        req.Photo.Data,
		})
		if err != nil {
			utils.Zlog.Error("Photo upload failed; creating record without photo",
				zap.String("key", key),
				zap.Error(err))
			s.recordPhotoUpload("failed")
		} else {
			rec.PhotoURL = url
			s.recordPhotoUpload("ok")
		}
	}

	created, err := s.store.Insert(ctx, rec)
	if err != nil {
		return types.Customer{}, &types.BackendError{Op: "insert customer", Err: err}
	}

	utils.Zlog.Info("Customer created",
		zap.String("id", created.ID),
		zap.Bool("hasPhoto", created.PhotoURL != ""))
	return created, nil
}

// Update applies a partial field set. A replacement photo uses
// overwrite-allowed upload semantics, and unlike Create an upload failure here
// is surfaced to the caller.
func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (types.Customer, error) {
	if id == "" {
		return types.Customer{}, types.NewValidationError("ID is required for updates")
	}
	if err := ValidateUpdateRequest(&req); err != nil {
		return types.Customer{}, err
	}

	fields := UpdateFields{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
		Dob:         req.Dob,
		Nationality: req.Nationality,
		Country:     req.Country,
	}

	if req.Photo != nil {
		ownerName := ""
		if req.Name != nil {
			ownerName = *req.Name
		}
		key := blobstore.ObjectKey(ownerName, req.Photo.Filename)
		url, err := s.photos.Upload(ctx, blobstore.UploadInput{
			Key:         key,
			ContentType: req.Photo.ContentType,
			Data:        req.Photo.Data,
			Overwrite:   true,
		})
		if err != nil {
			s.recordPhotoUpload("failed")
			return types.Customer{}, &types.UploadError{Key: key, Err: err}
		}
		s.recordPhotoUpload("ok")
		fields.PhotoURL = &url
	}

	updated, err := s.store.Update(ctx, id, fields)
	if err != nil {
		return types.Customer{}, &types.BackendError{Op: "update customer", Err: err}
	}
	return updated, nil
}

// Delete reads the record first so the prior snapshot can be returned, then
// removes it. A failed read propagates; no fabricated success.
func (s *Service) Delete(ctx context.Context, id string) (types.Customer, error) {
	snapshot, err := s.store.GetByID(ctx, id)
	if err != nil {
		return types.Customer{}, &types.BackendError{Op: "fetch customer before delete", Err: err}
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return types.Customer{}, &types.BackendError{Op: "delete customer", Err: err}
	}

	utils.Zlog.Info("Customer deleted", zap.String("id", id))
	return snapshot, nil
}

func (s *Service) recordPhotoUpload(outcome string) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordPhotoUpload(outcome)
}
