package listing

import (
	"fmt"
	"math"

	"sublease-marketplace/internal/biddingerrors"
	"sublease-marketplace/internal/models"
	"sublease-marketplace/internal/repository"
)

const (
	earthRadiusKm = 6371.0
	kmPerMile     = 1.609344
)

// Point is a latitude/longitude pair in degrees
type Point struct {
	Lat float64
	Lng float64
}

func newPoint(lat, lng *float64) (*Point, error) {
	if lat == nil && lng == nil {
		return nil, nil
	}
	if lat == nil || lng == nil {
		return nil, fmt.Errorf("service: %w - latitude and longitude must be given together", biddingerrors.ErrValidation)
	}
	if math.IsNaN(*lat) || *lat < -90 || *lat > 90 || math.IsNaN(*lng) || *lng < -180 || *lng > 180 {
		return nil, fmt.Errorf("service: %w - invalid latitude or longitude", biddingerrors.ErrValidation)
	}
	return &Point{Lat: *lat, Lng: *lng}, nil
}

// DistanceKm is the great-circle distance between two points
func DistanceKm(a, b Point) float64 {
	lat1, lat2 := toRad(a.Lat), toRad(b.Lat)
	dLat := lat2 - lat1
	dLng := toRad(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}

// boundingBox is a rectangle containing every point within radiusKm of center.
// The longitude half-width is taken at the tangent latitude, where the circle is widest.
// When the circle reaches a pole or crosses the antimeridian the longitude span is the full range.
func boundingBox(center Point, radiusKm float64) repository.BoundingBox {
	r := radiusKm / earthRadiusKm
	dLat := r * 180 / math.Pi
	box := repository.BoundingBox{
		MinLat: math.Max(-90, center.Lat-dLat),
		MaxLat: math.Min(90, center.Lat+dLat),
		MinLng: -180,
		MaxLng: 180,
	}

	sinR, cosLat := math.Sin(r), math.Cos(toRad(center.Lat))
	if r >= math.Pi/2 || sinR >= cosLat {
		return box
	}
	dLng := math.Asin(sinR/cosLat) * 180 / math.Pi
	if center.Lng-dLng < -180 || center.Lng+dLng > 180 {
		return box
	}
	box.MinLng, box.MaxLng = center.Lng-dLng, center.Lng+dLng
	return box
}

// withinRadius keeps properties with coordinates inside the circle, preserving order
func withinRadius(props []models.Property, center Point, radiusKm float64) []models.Property {
	out := make([]models.Property, 0, len(props))
	for _, p := range props {
		if p.Latitude == nil || p.Longitude == nil {
			continue
		}
		if DistanceKm(center, Point{Lat: *p.Latitude, Lng: *p.Longitude}) <= radiusKm {
			out = append(out, p)
		}
	}
	return out
}

func toRad(deg float64) float64 { return deg * math.Pi / 180 }
