// Package validation carries the custom field validators for the device
// identity payloads.
package validation

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/updrift/updrift/internal/store"
)

var (
	// Reverse-domain application identifier, e.g. com.example.app.
	appIDRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*(\.[a-zA-Z0-9_]+)+$`)
	// Device identifiers are UUID-shaped but legacy clients send other
	// opaque tokens; accept a bounded safe charset.
	deviceIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)
)

// Register installs the custom validators on gin's binding engine. Call once
// at startup before any route handles traffic.
func Register() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	RegisterValidators(v)
}

// RegisterValidators registers custom validators
func RegisterValidators(v *validator.Validate) {
	v.RegisterValidation("appid", validateAppID)
	v.RegisterValidation("deviceid", validateDeviceID)
	v.RegisterValidation("platform", validatePlatform)
}

func validateAppID(fl validator.FieldLevel) bool {
	return ValidAppID(fl.Field().String())
}

func validateDeviceID(fl validator.FieldLevel) bool {
	return ValidDeviceID(fl.Field().String())
}

func validatePlatform(fl validator.FieldLevel) bool {
	return ValidPlatform(fl.Field().String())
}

// ValidAppID checks the reverse-domain app identifier format.
func ValidAppID(appID string) bool {
	return appIDRegex.MatchString(appID)
}

// ValidDeviceID checks the device identifier format.
func ValidDeviceID(deviceID string) bool {
	return deviceIDRegex.MatchString(deviceID)
}

// ValidPlatform accepts the two supported platforms.
func ValidPlatform(platform string) bool {
	switch store.Platform(platform) {
	case store.PlatformIOS, store.PlatformAndroid:
		return true
	}
	return false
}
