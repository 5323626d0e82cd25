package soilanalyses

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"agri-backend/internal/shared/metrics"
	"agri-backend/internal/shared/storage/object"
	"agri-backend/internal/shared/telemetry"
	"agri-backend/internal/soil"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100

	// maxWriteAttempts bounds the reload-and-retry loop for writes that lose
	// a version race.
	maxWriteAttempts = 8
)

// Service contains business logic for soil analyses.
type Service struct {
	Repo  Repo
	Store object.ObjectStore
	Now   func() time.Time
}

// CreateInput is the caller-supplied part of a new analysis.
type CreateInput struct {
	SoilParameters soil.ParameterSet
	Location       *Location
	FarmID         string
	TestMethod     string
	SensorData     *SensorData
}

// UpdateInput patches an analysis. Nil fields are left untouched.
type UpdateInput struct {
	SoilParameters soil.ParameterSet
	Location       *Location
	FarmID         *string
	TestMethod     *string
	SensorData     *SensorData
	IsShared       *bool
	Status         *string
}

// ImageUpload is a photo to attach to an analysis.
type ImageUpload struct {
	FileName string
	Caption  string
	Type     string
	Body     io.Reader
}

// Analyze validates the mandatory readings and scores them without persisting.
func (s *Service) Analyze(set soil.ParameterSet) (soil.Result, error) {
	if err := ValidateParameters("", set); err != nil {
		return soil.Result{}, err
	}
	return s.compute(soil.Normalize(set)), nil
}

// SuitableCrops scores bare values. Nothing is required.
func (s *Service) SuitableCrops(values soil.Values) soil.Result {
	return s.compute(values)
}

func (s *Service) compute(values soil.Values) soil.Result {
	start := time.Now()
	result := soil.AnalyzeValues(values)
	metrics.ObserveSoilDurationMs(metrics.SinceMillis(start))
	metrics.IncSoilComputed(string(result.SoilHealth))
	return result
}

// Create validates, scores and stores a new analysis owned by userID.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (Analysis, error) {
	if strings.TrimSpace(userID) == "" {
		return Analysis{}, errors.New("userID is required")
	}

	v := &ValidationError{}
	checkParameters("soilParameters.", in.SoilParameters, v)
	checkStoredRanges("soilParameters.", in.SoilParameters, v)
	checkLocation(in.Location, v)
	method := strings.TrimSpace(in.TestMethod)
	if method == "" {
		method = TestMethodManual
	}
	if !validTestMethod(method) {
		v.add("testMethod", "unsupported test method")
	}
	if err := v.err(); err != nil {
		return Analysis{}, err
	}

	now := s.now()
	a := Analysis{
		ID:         uuid.NewString(),
		UserID:     userID,
		FarmID:     strings.TrimSpace(in.FarmID),
		Location:   *in.Location,
		TestMethod: method,
		SensorData: in.SensorData,
		Images:     []Image{},
		SharedWith: []Share{},
		Status:     StatusCompleted,
		CreatedAt:  now,
		UpdatedAt:  now,
		Version:    1,
	}
	a.SoilParameters, a.Result = s.score(in.SoilParameters)

	if err := s.Repo.Create(ctx, a); err != nil {
		metrics.IncSoilFailed()
		telemetry.Error("soil_analysis.create_failed", map[string]any{"analysis_id": a.ID, "user_id": userID, "error": err})
		return Analysis{}, fmt.Errorf("create soil analysis: %w", err)
	}
	metrics.IncSoilPersisted()
	telemetry.Info("soil_analysis.created", map[string]any{
		"analysis_id":   a.ID,
		"user_id":       userID,
		"farm_id":       a.FarmID,
		"overall_score": a.Result.OverallScore,
		"soil_health":   string(a.Result.SoilHealth),
	})
	return a, nil
}

// List returns one page of the user's analyses, newest first.
func (s *Service) List(ctx context.Context, userID string, page, limit int) (Page, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	items, err := s.Repo.ListByUser(ctx, userID, limit, (page-1)*limit)
	if err != nil {
		return Page{}, err
	}
	total, err := s.Repo.CountByUser(ctx, userID)
	if err != nil {
		return Page{}, err
	}
	return Page{Items: items, Page: page, Limit: limit, Total: total}, nil
}

// Get returns an analysis the caller may view. Analyses the caller cannot
// see are reported as not found.
func (s *Service) Get(ctx context.Context, userID, analysisID string) (Analysis, error) {
	a, err := s.Repo.GetByID(ctx, analysisID)
	if err != nil {
		return Analysis{}, err
	}
	if !a.CanView(userID) {
		return Analysis{}, ErrNotFound
	}
	return a, nil
}

// Recommendations returns the stored advice for the owner or a public analysis.
// An explicit share alone does not grant it.
func (s *Service) Recommendations(ctx context.Context, userID, analysisID string) (soil.Result, error) {
	a, err := s.Repo.GetByID(ctx, analysisID)
	if err != nil {
		return soil.Result{}, err
	}
	if !a.IsOwner(userID) && !a.IsShared {
		return soil.Result{}, ErrNotFound
	}
	return a.Result, nil
}

// Update applies a patch from the owner. Changing the readings recomputes the
// stored advice.
func (s *Service) Update(ctx context.Context, userID, analysisID string, in UpdateInput) (Analysis, error) {
	if _, err := s.owned(ctx, userID, analysisID); err != nil {
		return Analysis{}, err
	}

	v := &ValidationError{}
	if in.SoilParameters != nil {
		checkParameters("soilParameters.", in.SoilParameters, v)
		checkStoredRanges("soilParameters.", in.SoilParameters, v)
	}
	if in.Location != nil {
		checkLocation(in.Location, v)
	}
	if in.TestMethod != nil && !validTestMethod(*in.TestMethod) {
		v.add("testMethod", "unsupported test method")
	}
	if in.Status != nil && !validStatus(*in.Status) {
		v.add("status", "unsupported status")
	}
	if err := v.err(); err != nil {
		return Analysis{}, err
	}

	var (
		params soil.ParameterSet
		result soil.Result
	)
	if in.SoilParameters != nil {
		params, result = s.score(in.SoilParameters)
	}

	return s.mutate(ctx, userID, analysisID, func(a *Analysis) error {
		if params != nil {
			a.SoilParameters, a.Result = params, result
		}
		if in.Location != nil {
			a.Location = *in.Location
		}
		if in.FarmID != nil {
			a.FarmID = strings.TrimSpace(*in.FarmID)
		}
		if in.TestMethod != nil {
			a.TestMethod = *in.TestMethod
		}
		if in.SensorData != nil {
			a.SensorData = in.SensorData
		}
		if in.IsShared != nil {
			a.IsShared = *in.IsShared
		}
		if in.Status != nil {
			a.Status = *in.Status
		}
		a.UpdatedAt = s.now()
		return nil
	})
}

// Delete soft-deletes an analysis owned by userID.
func (s *Service) Delete(ctx context.Context, userID, analysisID string) error {
	if _, err := s.owned(ctx, userID, analysisID); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, analysisID); err != nil {
		return err
	}
	telemetry.Info("soil_analysis.deleted", map[string]any{"analysis_id": analysisID, "user_id": userID})
	return nil
}

// Share grants targetUserID access, updating the role of an existing share.
func (s *Service) Share(ctx context.Context, userID, analysisID, targetUserID, role string) (Analysis, error) {
	targetUserID = strings.TrimSpace(targetUserID)
	if role == "" {
		role = ShareRoleView
	}
	v := &ValidationError{}
	if targetUserID == "" {
		v.add("userId", "is required")
	} else if targetUserID == userID {
		v.add("userId", "cannot share with yourself")
	}
	if !validShareRole(role) {
		v.add("role", "must be view or edit")
	}
	if err := v.err(); err != nil {
		return Analysis{}, err
	}

	return s.mutate(ctx, userID, analysisID, func(a *Analysis) error {
		now := s.now()
		a.UpdatedAt = now
		for i := range a.SharedWith {
			if a.SharedWith[i].UserID == targetUserID {
				a.SharedWith[i].Role = role
				return nil
			}
		}
		a.SharedWith = append(a.SharedWith, Share{UserID: targetUserID, Role: role, SharedAt: now})
		return nil
	})
}

// AddImage stores a photo for an analysis owned by userID. Only image
// content is accepted.
func (s *Service) AddImage(ctx context.Context, userID, analysisID string, up ImageUpload) (Image, error) {
	if s.Store == nil {
		return Image{}, errors.New("object store not configured")
	}
	kind := strings.TrimSpace(up.Type)
	if kind == "" {
		kind = ImageSoilSample
	}
	v := &ValidationError{}
	if !validImageType(kind) {
		v.add("type", "must be soil_sample, field_photo or test_result")
	}
	if up.Body == nil {
		v.add("file", "is required")
	}
	if err := v.err(); err != nil {
		return Image{}, err
	}

	if _, err := s.owned(ctx, userID, analysisID); err != nil {
		return Image{}, err
	}

	contentType, body, err := object.Sniff(up.Body)
	if err != nil {
		return Image{}, err
	}
	if !strings.HasPrefix(contentType, "image/") {
		return Image{}, &ValidationError{Fields: []FieldError{{Field: "file", Issue: "must be an image"}}}
	}

	obj, err := s.Store.Save(ctx, userID, up.FileName, body)
	if err != nil {
		return Image{}, fmt.Errorf("store image: %w", err)
	}

	imageID := uuid.NewString()
	img := Image{
		ID:          imageID,
		Key:         obj.Key,
		URL:         imageURL(analysisID, imageID),
		Caption:     strings.TrimSpace(up.Caption),
		Type:        kind,
		ContentType: obj.ContentType,
		Size:        obj.Size,
		UploadedAt:  s.now(),
	}

	_, err = s.mutate(ctx, userID, analysisID, func(a *Analysis) error {
		a.Images = append(a.Images, img)
		a.UpdatedAt = img.UploadedAt
		return nil
	})
	if err != nil {
		if delErr := s.Store.Delete(ctx, obj.Key); delErr != nil {
			telemetry.Warn("soil_analysis.image_cleanup_failed", map[string]any{"analysis_id": analysisID, "error": delErr})
		}
		return Image{}, err
	}
	return img, nil
}

// OpenImage streams a stored photo to anyone who may view the analysis.
func (s *Service) OpenImage(ctx context.Context, userID, analysisID, imageID string) (Image, io.ReadCloser, error) {
	if s.Store == nil {
		return Image{}, nil, errors.New("object store not configured")
	}
	a, err := s.Get(ctx, userID, analysisID)
	if err != nil {
		return Image{}, nil, err
	}
	for _, img := range a.Images {
		if img.ID != imageID {
			continue
		}
		rc, err := s.Store.Open(ctx, img.Key)
		if errors.Is(err, object.ErrNotFound) {
			return Image{}, nil, ErrNotFound
		}
		if err != nil {
			return Image{}, nil, err
		}
		return img, rc, nil
	}
	return Image{}, nil, ErrNotFound
}

// owned loads an analysis for an owner-only operation. Viewers get
// ErrForbidden, everyone else ErrNotFound.
func (s *Service) owned(ctx context.Context, userID, analysisID string) (Analysis, error) {
	a, err := s.Repo.GetByID(ctx, analysisID)
	if err != nil {
		return Analysis{}, err
	}
	if a.IsOwner(userID) {
		return a, nil
	}
	if a.CanView(userID) {
		return Analysis{}, ErrForbidden
	}
	return Analysis{}, ErrNotFound
}

// mutate reloads the analysis, applies change and writes it back under the
// version it was read at. A lost race reloads and reapplies the change.
func (s *Service) mutate(ctx context.Context, userID, analysisID string, change func(*Analysis) error) (Analysis, error) {
	for attempt := 1; ; attempt++ {
		a, err := s.owned(ctx, userID, analysisID)
		if err != nil {
			return Analysis{}, err
		}
		if err := change(&a); err != nil {
			return Analysis{}, err
		}
		err = s.persist(ctx, a)
		if err == nil {
			a.Version++
			return a, nil
		}
		if !errors.Is(err, ErrConflict) || attempt == maxWriteAttempts {
			return Analysis{}, err
		}
		telemetry.Info("soil_analysis.write_retry", map[string]any{"analysis_id": analysisID, "attempt": attempt})
	}
}

func (s *Service) persist(ctx context.Context, a Analysis) error {
	if err := s.Repo.Update(ctx, a); err != nil {
		if !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrConflict) {
			metrics.IncSoilFailed()
			telemetry.Error("soil_analysis.update_failed", map[string]any{"analysis_id": a.ID, "error": err})
		}
		return err
	}
	metrics.IncSoilPersisted()
	return nil
}

// score keeps the recognised readings, stamps the engine's status on scored
// parameters and computes the advice. Caller-supplied statuses are never kept.
func (s *Service) score(set soil.ParameterSet) (soil.ParameterSet, soil.Result) {
	values := soil.Normalize(set)
	statuses := soil.Classify(values)
	out := make(soil.ParameterSet, len(values))
	for _, p := range soil.Known {
		r, ok := set[string(p)]
		if !ok || !r.Present() {
			continue
		}
		r.Status = statuses[p]
		if p == soil.Temperature && r.Unit == "" {
			r.Unit = "celsius"
		}
		out[string(p)] = r
	}
	return out, s.compute(values)
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func imageURL(analysisID, imageID string) string {
	return "/api/v1/soil-analysis/" + analysisID + "/images/" + imageID
}
