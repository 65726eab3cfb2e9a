package content

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"pagetree/internal/config"
	"pagetree/internal/domain"
	svc "pagetree/internal/domain/services/content"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	// uid values, plus the ~ and . the CMS allows
	slugPattern = regexp.MustCompile(`^[A-Za-z0-9._~-]+$`)
	// kind names and api::<kind>.<kind> uids
	contentTypePattern = regexp.MustCompile(`^(api::)?[a-z][a-z0-9_-]*(\.[a-z][a-z0-9_-]*)?$`)
	fieldNamePattern   = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

const dateOnlyLayout = "2006-01-02"

func contentTypeRules() []validation.Rule {
	return []validation.Rule{
		validation.Required,
		validation.Length(1, config.MaxContentTypeLength),
		validation.Match(contentTypePattern),
	}
}

func slugRules() []validation.Rule {
	return []validation.Rule{
		validation.Required,
		validation.Length(1, config.MaxSlugLength),
		validation.Match(slugPattern),
	}
}

func fieldNameRules() []validation.Rule {
	return []validation.Rule{
		validation.Length(1, config.MaxFieldNameLength),
		validation.Match(fieldNamePattern),
	}
}

// validateSlugRequest checks the kind/slug pair shared by the slug routes
func validateSlugRequest(kind, slug string) error {
	err := validation.Errors{
		"kind": validation.Validate(kind, contentTypeRules()...),
		"slug": validation.Validate(slug, slugRules()...),
	}.Filter()
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return nil
}

func validateSubtreeRequest(req *svc.SubtreeRequest, maxDepth int) error {
	err := validation.ValidateStruct(req,
		validation.Field(&req.Kind, contentTypeRules()...),
		validation.Field(&req.Slug, slugRules()...),
		validation.Field(&req.MaxDepth, validation.Min(0), validation.Max(maxDepth)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return nil
}

func validateForestRequest(req *svc.ForestRequest) error {
	err := validation.ValidateStruct(req,
		validation.Field(&req.ContentType, contentTypeRules()...),
		validation.Field(&req.ParentField, fieldNameRules()...),
		validation.Field(&req.LabelField, fieldNameRules()...),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return nil
}

func validateForestChildrenRequest(req *svc.ForestChildrenRequest) error {
	err := validation.ValidateStruct(req,
		validation.Field(&req.ContentType, contentTypeRules()...),
		validation.Field(&req.ParentID, validation.Required, validation.Length(1, config.MaxSlugLength)),
		validation.Field(&req.ParentField, fieldNameRules()...),
		validation.Field(&req.LabelField, fieldNameRules()...),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return nil
}

func validateArchiveRequest(req *svc.ArchiveRequest) error {
	err := validation.ValidateStruct(req,
		validation.Field(&req.Kind, contentTypeRules()...),
		validation.Field(&req.From, validation.By(dateRule)),
		validation.Field(&req.To, validation.By(dateRule)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return nil
}

func dateRule(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, _, err := parseBound(s, time.UTC); err != nil {
		return errors.New("must be RFC 3339 or YYYY-MM-DD")
	}
	return nil
}

// parseBound parses an archive bound. dateOnly reports a YYYY-MM-DD value,
// which is interpreted at midnight in loc.
func parseBound(s string, loc *time.Location) (t time.Time, dateOnly bool, err error) {
	if t, err = time.Parse(time.RFC3339, s); err == nil {
		return t, false, nil
	}
	if t, err = time.ParseInLocation(dateOnlyLayout, s, loc); err == nil {
		return t, true, nil
	}
	return time.Time{}, false, err
}
