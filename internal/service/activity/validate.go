package activity

import (
	"strings"
	"time"
	"unicode/utf8"

	"huddle_server/internal/dto/request"
	"huddle_server/internal/model"
	"huddle_server/pkg/constants"
	"huddle_server/pkg/util/idgen"
)

const (
	maxTitleLen       = 120
	maxLocationLen    = 200
	maxDescriptionLen = 2000
)

func newActivity(organizerId string, req request.CreateActivityRequest, now time.Time) (*model.Activity, error) {
	title, err := requiredText("title", req.Title, maxTitleLen)
	if err != nil {
		return nil, err
	}
	location, err := requiredText("location", req.Location, maxLocationLen)
	if err != nil {
		return nil, err
	}
	description := strings.TrimSpace(req.Description)
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return nil, invalid("description must be at most %d characters", maxDescriptionLen)
	}
	category := model.ActivityCategory(req.Category)
	if !category.IsValid() {
		return nil, invalid("unknown category %q", req.Category)
	}
	if err := checkCapacity(req.Capacity); err != nil {
		return nil, err
	}
	if req.ScheduledAt.IsZero() {
		return nil, invalid("scheduledAt is required")
	}
	if !req.ScheduledAt.After(now) {
		return nil, invalid("scheduledAt must be in the future")
	}
	if organizerId == "" {
		return nil, invalid("organizer is required")
	}

	return &model.Activity{
		Uuid:        idgen.NewUUID(),
		Title:       title,
		Category:    category,
		Description: description,
		Location:    location,
		ScheduledAt: req.ScheduledAt.UTC(),
		Capacity:    req.Capacity,
		OrganizerId: organizerId,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// buildPatch 校验并生成需要更新的列
// scheduledAt 不再要求晚于当前时间，这条规则只在创建时生效
func buildPatch(current *model.Activity, req request.UpdateActivityRequest) (map[string]any, error) {
	if req.IsEmpty() {
		return nil, errEmptyPatch
	}
	fields := make(map[string]any)

	if req.Title != nil {
		title, err := requiredText("title", *req.Title, maxTitleLen)
		if err != nil {
			return nil, err
		}
		fields["title"] = title
	}
	if req.Location != nil {
		location, err := requiredText("location", *req.Location, maxLocationLen)
		if err != nil {
			return nil, err
		}
		fields["location"] = location
	}
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if utf8.RuneCountInString(description) > maxDescriptionLen {
			return nil, invalid("description must be at most %d characters", maxDescriptionLen)
		}
		fields["description"] = description
	}
	if req.Category != nil {
		category := model.ActivityCategory(*req.Category)
		if !category.IsValid() {
			return nil, invalid("unknown category %q", *req.Category)
		}
		fields["category"] = category
	}
	if req.Capacity != nil {
		if err := checkCapacity(*req.Capacity); err != nil {
			return nil, err
		}
		fields["capacity"] = *req.Capacity
	}
	if req.ScheduledAt != nil {
		if req.ScheduledAt.IsZero() {
			return nil, invalid("scheduledAt cannot be empty")
		}
		fields["scheduled_at"] = req.ScheduledAt.UTC()
	}
	if req.IsCancelled != nil {
		switch {
		case *req.IsCancelled && !current.IsCancelled:
			fields["is_cancelled"] = true
		case !*req.IsCancelled && current.IsCancelled:
			return nil, errCannotUncancel
		}
	}
	return fields, nil
}

func requiredText(field, value string, maxLen int) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", invalid("%s is required", field)
	}
	if utf8.RuneCountInString(v) > maxLen {
		return "", invalid("%s must be at most %d characters", field, maxLen)
	}
	return v, nil
}

func checkCapacity(capacity int) error {
	if capacity < constants.MIN_ACTIVITY_CAPACITY || capacity > constants.MAX_ACTIVITY_CAPACITY {
		return invalid("capacity must be between %d and %d",
			constants.MIN_ACTIVITY_CAPACITY, constants.MAX_ACTIVITY_CAPACITY)
	}
	return nil
}
