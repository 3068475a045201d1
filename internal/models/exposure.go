package models

import (
	"database/sql"
	"encoding/json"
)

// ExposureSettings is the free-form exposure metadata attached to a photo,
// stored as JSON. Keys in practice: iso, aperture, shutter_speed,
// focal_length.
type ExposureSettings map[string]string

// EncodeExposure marshals exposure settings into the nullable JSON column.
// Empty settings encode as NULL.
func EncodeExposure(settings ExposureSettings) sql.NullString {
	if len(settings) == 0 {
		return sql.NullString{}
	}
	data, _ := json.Marshal(settings)
	return sql.NullString{String: string(data), Valid: true}
}

// DecodeExposure unmarshals the JSON column; an invalid or empty column
// decodes to nil rather than an error, matching the "no exposure metadata"
// degraded state
func DecodeExposure(column sql.NullString) ExposureSettings {
	if !column.Valid || column.String == "" {
		return nil
	}
	var settings ExposureSettings
	if err := json.Unmarshal([]byte(column.String), &settings); err != nil {
		return nil
	}
	return settings
}
