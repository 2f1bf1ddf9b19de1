package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	types "github.com/yungbote/brawltrack-backend/internal/domain"
	"github.com/yungbote/brawltrack-backend/internal/platform/brawlstars"
)

const (
	maxTagsPerList = 100
	maxTagLength   = 32
)

var validate = validator.New(validator.WithRequiredStructEnabled())

var (
	emailRule = "email,max=254"
	tagsRule  = fmt.Sprintf("max=%d,dive,required,max=%d", maxTagsPerList, maxTagLength)
)

// normalizeAccountWrite trims and lowercases the email and normalizes both tag
// lists in place. Tag lists keep first-seen order with duplicates dropped.
func normalizeAccountWrite(ws types.AccountWriteSet) types.AccountWriteSet {
	out := ws
	if ws.Email != nil {
		e := strings.ToLower(strings.TrimSpace(*ws.Email))
		out.Email = &e
	}
	if ws.PlayerTags != nil {
		tags := normalizeTags(*ws.PlayerTags)
		out.PlayerTags = &tags
	}
	if ws.ClubTags != nil {
		tags := normalizeTags(*ws.ClubTags)
		out.ClubTags = &tags
	}
	return out
}

func normalizeTags(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, raw := range in {
		t := brawlstars.NormalizeTag(raw)
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// validateAccountWrite checks every present field. On create, email and
// password are required.
func validateAccountWrite(ws types.AccountWriteSet, create bool) error {
	ve := &ValidationError{}

	if ws.Email == nil || *ws.Email == "" {
		if create {
			ve.add("email", "is required")
		} else if ws.Email != nil {
			ve.add("email", "must not be empty")
		}
	} else if err := validate.Var(*ws.Email, emailRule); err != nil {
		ve.add("email", describe(err))
	}

	if ws.Password == nil {
		if create {
			ve.add("password", "is required")
		}
	} else if *ws.Password == "" {
		ve.add("password", "must not be empty")
	}

	checkTags := func(field string, tags *[]string) {
		if tags == nil {
			return
		}
		if err := validate.Var(*tags, tagsRule); err != nil {
			ve.add(field, describe(err))
			return
		}
		for _, t := range *tags {
			if _, err := brawlstars.EscapeTag(t); err != nil {
				ve.add(field, "contains an invalid tag: "+t)
				return
			}
		}
	}
	checkTags("player_tags", ws.PlayerTags)
	checkTags("club_tags", ws.ClubTags)

	return ve.orNil()
}

func validateLogin(email, password string) error {
	ve := &ValidationError{}
	if email == "" {
		ve.add("email", "is required")
	} else if err := validate.Var(email, emailRule); err != nil {
		ve.add("email", describe(err))
	}
	if password == "" {
		ve.add("password", "is required")
	}
	return ve.orNil()
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "is invalid"
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return "must not contain empty values"
	case "email":
		return "must be a valid email address"
	case "max":
		if fe.Kind() == reflect.Slice {
			return "must contain at most " + fe.Param() + " tags"
		}
		return "must be at most " + fe.Param() + " characters"
	default:
		return "is invalid"
	}
}
