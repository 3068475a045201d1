package exifmeta

import (
	"fmt"
	"io"

	"github.com/rwcarlsen/goexif/exif"

	"github.com/MichaelLiu22/gallery-gathering/internal/models"
)

// Extract reads EXIF tags from an image and maps them onto exposure
// settings. Extraction is best effort: images without usable EXIF data
// yield nil, never an error, so uploads degrade to "no exposure metadata".
func Extract(r io.Reader) models.ExposureSettings {
	x, err := exif.Decode(r)
	if err != nil {
		return nil
	}

	settings := models.ExposureSettings{}

	if tag, err := x.Get(exif.FNumber); err == nil {
		if num, den, err := tag.Rat2(0); err == nil && den != 0 {
			settings["aperture"] = fmt.Sprintf("f/%.1f", float64(num)/float64(den))
		}
	}
	if tag, err := x.Get(exif.ExposureTime); err == nil {
		if num, den, err := tag.Rat2(0); err == nil && num != 0 && den != 0 {
			if num < den {
				settings["shutter_speed"] = fmt.Sprintf("1/%ds", den/num)
			} else {
				settings["shutter_speed"] = fmt.Sprintf("%.1fs", float64(num)/float64(den))
			}
		}
	}
	if tag, err := x.Get(exif.ISOSpeedRatings); err == nil {
		if iso, err := tag.Int(0); err == nil {
			settings["iso"] = fmt.Sprintf("%d", iso)
		}
	}
	if tag, err := x.Get(exif.FocalLength); err == nil {
		if num, den, err := tag.Rat2(0); err == nil && den != 0 {
			settings["focal_length"] = fmt.Sprintf("%.0fmm", float64(num)/float64(den))
		}
	}

	if len(settings) == 0 {
		return nil
	}
	return settings
}

// CameraModel reads the camera make and model tags, returning an empty
// string when neither is present.
func CameraModel(r io.Reader) string {
	x, err := exif.Decode(r)
	if err != nil {
		return ""
	}

	var make_, model string
	if tag, err := x.Get(exif.Make); err == nil {
		make_, _ = tag.StringVal()
	}
	if tag, err := x.Get(exif.Model); err == nil {
		model, _ = tag.StringVal()
	}

	switch {
	case make_ != "" && model != "":
		return make_ + " " + model
	case model != "":
		return model
	default:
		return make_
	}
}
