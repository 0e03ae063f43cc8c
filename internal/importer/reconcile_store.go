package importer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/twaddington/olccprices/internal/geocode"
	"github.com/twaddington/olccprices/internal/store"
)

// formatPhone reformats a phone number as "(NNN) NNN-NNNN". Input that
// doesn't reduce to ten digits is returned as-is.
func formatPhone(raw string) string {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	d := digits.String()
	if len(d) == 11 && d[0] == '1' {
		d = d[1:]
	}
	if len(d) != 10 {
		return strings.TrimSpace(raw)
	}
	return fmt.Sprintf("(%s) %s-%s", d[0:3], d[3:6], d[6:10])
}

// reconcileStore upserts a store from one normalized row, overwriting
// every descriptive field on each encounter.
func (im *Importer) reconcileStore(ctx context.Context, row *storeRow) (*store.Store, error) {
	s, err := im.stores.FindByKey(ctx, row.Key)
	if errors.Is(err, store.ErrNotFound) {
		s = &store.Store{Key: row.Key}
	} else if err != nil {
		return nil, err
	}

	s.Name = row.Name + " Liquor"
	s.Phone = formatPhone(row.Phone)
	s.Address = row.Address
	s.AddressRaw = row.Address
	s.HoursRaw = row.Hours
	s.County = row.County

	if im.geocoder != nil {
		result, err := im.geocoder.Geocode(ctx, s.AddressRaw)
		switch {
		case errors.Is(err, geocode.ErrAmbiguous):
			log.Printf("Multiple addresses returned for store %d", s.Key)
		case err != nil:
			log.Printf("Geocoding failed for store %d: %v", s.Key, err)
		default:
			s.Address = result.Address
			s.Latitude = result.Latitude
			s.Longitude = result.Longitude
		}

		// Spread calls out so we stay under the geocoder's rate limit.
		time.Sleep(im.geocodeDelay)
	}

	if err := im.stores.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}
