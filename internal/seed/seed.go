// Package seed holds the bundled starter collection used by cmd/migrate.
package seed

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"food_explorer/internal/app"
	"food_explorer/internal/domain"
)

//go:embed restaurants.json
var raw []byte

// Inputs returns the bundled entries as create inputs.
func Inputs() ([]domain.CreateInput, error) {
	var in []domain.CreateInput
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("decode bundled restaurants: %w", err)
	}
	return in, nil
}

// Records validates every bundled entry and builds full records with the
// same defaults the create path applies.
func Records(now time.Time, newID func() string) ([]domain.Restaurant, error) {
	ins, err := Inputs()
	if err != nil {
		return nil, err
	}
	if newID == nil {
		newID = app.NewID
	}
	out := make([]domain.Restaurant, 0, len(ins))
	for i, in := range ins {
		if err := in.Validate(); err != nil {
			return nil, fmt.Errorf("bundled entry %d (%s): %w", i, in.Name, err)
		}
		r := domain.NewRestaurant(in, newID(), app.Slugify(in.Name), now)
		r.ReviewDate = in.VisitDate
		out = append(out, r)
	}
	return out, nil
}
