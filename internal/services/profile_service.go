package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/yoockh/yoojob/internal/cache"
	"github.com/yoockh/yoojob/internal/models"
	pgrepo "github.com/yoockh/yoojob/internal/repositories/postgres"
	"github.com/yoockh/yoojob/internal/storage"
	"github.com/yoockh/yoojob/internal/utils"
)

type ProfileService interface {
	GetMe(ctx context.Context, userID string) (*models.Profile, error)
	Update(ctx context.Context, userID string, in ProfileUpdate) (*models.Profile, error)
	CompleteOnboarding(ctx context.Context, userID, fullName string, role models.UserRole) (*models.Profile, error)
	UploadDocument(ctx context.Context, userID string, kind models.DocumentKind, f *Upload) (*models.Profile, error)
	RoleOf(ctx context.Context, userID string) (models.UserRole, error)
}

// ProfileUpdate carries the editable text fields; nil means unchanged.
type ProfileUpdate struct {
	FullName           *string
	JobTitle           *string
	Location           *string
	Bio                *string
	CompanyName        *string
	CompanyDescription *string
}

type profileService struct {
	profiles pgrepo.ProfileRepository
	uploader storage.Uploader
	cache    cache.Cache
	roleTTL  time.Duration
}

func NewProfileService(profiles pgrepo.ProfileRepository, uploader storage.Uploader, c cache.Cache, roleTTL time.Duration) ProfileService {
	if roleTTL <= 0 {
		roleTTL = 5 * time.Minute
	}
	return &profileService{profiles: profiles, uploader: uploader, cache: c, roleTTL: roleTTL}
}

func roleKey(userID string) string { return "profile:role:" + userID }

func (s *profileService) GetMe(ctx context.Context, userID string) (*models.Profile, error) {
	const op = "ProfileService.GetMe"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}

	p, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "profile not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get profile", err)
	}
	return p, nil
}

// Update writes only the text columns it was given. Document URLs are owned
// by UploadDocument and never rewritten here.
func (s *profileService) Update(ctx context.Context, userID string, in ProfileUpdate) (*models.Profile, error) {
	const op = "ProfileService.Update"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}

	now := time.Now().UTC()
	fields := map[string]any{"updated_at": now}
	fresh := &models.Profile{ID: userID, CreatedAt: now, UpdatedAt: now}
	set := func(column string, dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
			fields[column] = *dst
		}
	}
	set("full_name", &fresh.FullName, in.FullName)
	set("job_title", &fresh.JobTitle, in.JobTitle)
	set("location", &fresh.Location, in.Location)
	set("bio", &fresh.Bio, in.Bio)
	set("company_name", &fresh.CompanyName, in.CompanyName)
	set("company_description", &fresh.CompanyDescription, in.CompanyDescription)

	if in.FullName != nil && fresh.FullName == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "full_name cannot be empty", nil)
	}

	err := s.profiles.UpdateFields(ctx, userID, fields)
	switch {
	case errors.Is(err, utils.ErrNotFound):
		if err := s.profiles.Upsert(ctx, fresh); err != nil {
			return nil, utils.E(utils.CodeInternal, op, "failed to create profile", err)
		}
		return fresh, nil
	case err != nil:
		return nil, utils.E(utils.CodeInternal, op, "failed to update profile", err)
	}

	p, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to get profile", err)
	}
	return p, nil
}

// CompleteOnboarding sets the name and the role once. Picking the other
// role afterwards is refused.
func (s *profileService) CompleteOnboarding(ctx context.Context, userID, fullName string, role models.UserRole) (*models.Profile, error) {
	const op = "ProfileService.CompleteOnboarding"

	fullName = strings.TrimSpace(fullName)
	if userID == "" || fullName == "" || role == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "full_name and role are required", nil)
	}
	if !role.Valid() {
		return nil, utils.E(utils.CodeInvalidArgument, op, "role must be candidate or recruiter", nil)
	}

	now := time.Now().UTC()
	p, err := s.profiles.GetByID(ctx, userID)
	switch {
	case errors.Is(err, utils.ErrNotFound):
		p = &models.Profile{ID: userID, FullName: fullName, Role: role, CreatedAt: now, UpdatedAt: now}
		if err := s.profiles.Upsert(ctx, p); err != nil {
			return nil, utils.E(utils.CodeInternal, op, "failed to save profile", err)
		}
	case err != nil:
		return nil, utils.E(utils.CodeInternal, op, "failed to get profile", err)
	case p.Role != "" && p.Role != role:
		return nil, utils.E(utils.CodeConflict, op, "role is already set", nil)
	default:
		fields := map[string]any{"full_name": fullName, "role": string(role), "updated_at": now}
		if err := s.profiles.UpdateFields(ctx, userID, fields); err != nil {
			return nil, utils.E(utils.CodeInternal, op, "failed to save profile", err)
		}
		p.FullName, p.Role, p.UpdatedAt = fullName, role, now
	}

	if s.cache != nil {
		_ = s.cache.Del(ctx, roleKey(userID))
	}
	return p, nil
}

func (s *profileService) UploadDocument(ctx context.Context, userID string, kind models.DocumentKind, f *Upload) (*models.Profile, error) {
	const op = "ProfileService.UploadDocument"

	if userID == "" || f == nil || f.Body == nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id and file are required", nil)
	}
	if !kind.Valid() {
		return nil, utils.E(utils.CodeInvalidArgument, op, "unknown document kind", nil)
	}
	if s.uploader == nil {
		return nil, utils.E(utils.CodeUnavailable, op, "file storage is not configured", nil)
	}

	p, err := s.GetMe(ctx, userID)
	if err != nil {
		return nil, err
	}

	objectName := storage.ProfileDocument(userID, string(kind), f.Ext())
	url, err := s.uploader.Upload(ctx, objectName, f.ContentType, f.Body)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to upload file", err)
	}

	now := time.Now().UTC()
	if err := s.profiles.UpdateFields(ctx, userID, map[string]any{kind.Column(): url, "updated_at": now}); err != nil {
		if rm, ok := s.uploader.(storage.Remover); ok {
			_ = rm.Remove(ctx, objectName)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to save document url", err)
	}

	switch kind {
	case models.DocumentAvatar:
		p.AvatarURL = url
	case models.DocumentCV:
		p.CVURL = url
	case models.DocumentIDCard:
		p.IDCardURL = url
	case models.DocumentDiploma:
		p.DiplomaURL = url
	}
	p.UpdatedAt = now
	return p, nil
}

// RoleOf returns "" for a signed in user without a profile yet.
func (s *profileService) RoleOf(ctx context.Context, userID string) (models.UserRole, error) {
	const op = "ProfileService.RoleOf"

	if userID == "" {
		return "", utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}

	if s.cache != nil {
		var cached models.UserRole
		if hit, err := s.cache.GetJSON(ctx, roleKey(userID), &cached); err == nil && hit {
			return cached, nil
		}
	}

	role, err := s.profiles.GetRole(ctx, userID)
	if err != nil && !errors.Is(err, utils.ErrNotFound) {
		return "", utils.E(utils.CodeInternal, op, "failed to read role", err)
	}

	// an empty role is not cached so onboarding shows up at once
	if s.cache != nil && role != "" {
		_ = s.cache.SetJSON(ctx, roleKey(userID), role, s.roleTTL)
	}
	return role, nil
}
