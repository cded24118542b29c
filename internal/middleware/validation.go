package middleware

import (
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v3"
)

// Field length limits shared by the validators and the storage layer.
const (
	MaxGuestNameLen  = 120
	MaxFieldLen      = 60
	MaxRegionLen     = 30
	MaxChannelIDLen  = 64
	MaxChannelURLLen = 250
	MaxQueryLen      = 100
)

var (
	// channelIDRe matches stored channel IDs: real YouTube IDs and the
	// "sim-" slugs derived for unresolvable references.
	channelIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	// regionRe matches region tags like "global", "us", "en-gb".
	regionRe = regexp.MustCompile(`^[A-Za-z-]+$`)
	// controlRe matches ASCII control characters (log/header injection).
	controlRe = regexp.MustCompile(`[\x00-\x1f\x7f]`)
)

// TrendingPeriods are the accepted trendingPeriod values.
var TrendingPeriods = map[string]bool{"7d": true, "30d": true, "90d": true}

// ErrorResponse writes the failure envelope shared by every API route.
func ErrorResponse(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

// ValidateGuestName checks the required guest name field.
func ValidateGuestName(name string) (string, string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "guestName is required"
	}
	if len(name) > MaxGuestNameLen {
		return "", "guestName must be at most 120 characters"
	}
	if controlRe.MatchString(name) {
		return "", "guestName contains invalid characters"
	}
	return name, ""
}

// ValidateChannelURL checks the required channel reference field. Full
// parsing happens later; anything from a complete URL to a bare @handle
// passes here.
func ValidateChannelURL(raw string) (string, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", "channelUrl is required"
	}
	if len(raw) > MaxChannelURLLen {
		return "", "channelUrl must be at most 250 characters"
	}
	if controlRe.MatchString(raw) {
		return "", "channelUrl contains invalid characters"
	}
	return raw, ""
}

// ValidateChannelID checks a stored channel identifier from a path param.
func ValidateChannelID(id string) (string, string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", "channelId is required"
	}
	if len(id) > MaxChannelIDLen {
		return "", "channelId must be at most 64 characters"
	}
	if !channelIDRe.MatchString(id) {
		return "", "channelId contains invalid characters"
	}
	return id, ""
}

// ValidateField normalizes the optional field/industry tag. Unusable
// values are dropped rather than rejected.
func ValidateField(field string) string {
	field = strings.ToLower(strings.TrimSpace(field))
	if len(field) > MaxFieldLen || controlRe.MatchString(field) {
		return ""
	}
	return field
}

// ValidateRegion normalizes the optional region tag; anything unusable
// collapses to "" and callers fall back to the global region.
func ValidateRegion(region string) string {
	region = strings.ToLower(strings.TrimSpace(region))
	if region == "" {
		return ""
	}
	if len(region) > MaxRegionLen || !regionRe.MatchString(region) {
		return ""
	}
	return region
}

// ValidateTrendingPeriod checks the optional trending window selector.
func ValidateTrendingPeriod(period string) (string, string) {
	period = strings.ToLower(strings.TrimSpace(period))
	if period == "" {
		return "30d", ""
	}
	if !TrendingPeriods[period] {
		return "", "trendingPeriod must be one of 7d, 30d, 90d"
	}
	return period, ""
}

// ValidateSearchQuery trims and caps the search query. The two-character
// minimum is the search service's concern, not a validation error.
func ValidateSearchQuery(q string) string {
	q = strings.TrimSpace(q)
	if len(q) > MaxQueryLen {
		q = q[:MaxQueryLen]
	}
	return q
}
