package transexpress

import (
	"context"
	"net/url"
	"strconv"

	"github.com/lankaship/courier-gateway/internal/core/domain"
)

var fallbackDistricts = []string{"Colombo", "Gampaha", "Kandy"}

// fallbackCity is a known-good Trans Express city ID used when the lookup
// fails, so a booking can still be attempted via the city-name endpoint.
var fallbackCity = domain.City{ID: 1, Name: "Colombo 01", District: "Colombo"}

type districtsResponse struct {
	Data []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"data"`
}

type citiesResponse struct {
	Data []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"data"`
}

// Districts enumerates Trans Express districts and remembers their numeric
// IDs for booking requests. Fetch failures degrade to the fallback list.
func (a *Adapter) Districts(ctx context.Context) ([]string, error) {
	a.mu.Lock()
	cached := a.districts
	a.mu.Unlock()
	if cached != nil {
		return cached, nil
	}

	if a.cache != nil {
		if districts, ok := a.cache.Districts(ctx, domain.TransExpress); ok {
			a.mu.Lock()
			a.districts = districts
			a.mu.Unlock()
			return districts, nil
		}
	}

	var resp districtsResponse
	err := a.client.GetJSON(ctx, "/api/v1/districts", a.authHeaders(), nil, &resp)
	if err != nil || len(resp.Data) == 0 {
		a.log.Warn().Err(err).Str("provider", providerName).Msg("district fetch failed, using fallback list")
		return fallbackDistricts, nil
	}

	districts := make([]string, 0, len(resp.Data))
	a.mu.Lock()
	for _, d := range resp.Data {
		districts = append(districts, d.Name)
		a.districtIDs[d.Name] = d.ID
	}
	a.districts = districts
	a.mu.Unlock()

	if a.cache != nil {
		a.cache.SetDistricts(ctx, domain.TransExpress, districts)
	}
	return districts, nil
}

// Cities lists a district's cities with their Trans Express IDs. Empty or
// failed lookups fall back to the single default city.
func (a *Adapter) Cities(ctx context.Context, district string) ([]domain.City, error) {
	a.mu.Lock()
	cached, ok := a.cities[district]
	a.mu.Unlock()
	if ok {
		return cached, nil
	}

	if a.cache != nil {
		if cities, hit := a.cache.Cities(ctx, domain.TransExpress, district); hit {
			a.mu.Lock()
			a.cities[district] = cities
			a.mu.Unlock()
			return cities, nil
		}
	}

	// City listing is keyed by district ID; make sure the ID map is loaded.
	_, _ = a.Districts(ctx)
	a.mu.Lock()
	districtID, known := a.districtIDs[district]
	a.mu.Unlock()

	query := url.Values{}
	if known {
		query.Set("district_id", strconv.Itoa(districtID))
	} else {
		query.Set("district", district)
	}

	var resp citiesResponse
	err := a.client.GetJSON(ctx, "/api/v1/cities", a.authHeaders(), query, &resp)
	if err != nil || len(resp.Data) == 0 {
		a.log.Warn().Err(err).Str("provider", providerName).
			Str("district", district).Msg("city fetch failed, using fallback city")
		return []domain.City{fallbackCity}, nil
	}

	cities := make([]domain.City, 0, len(resp.Data))
	for _, c := range resp.Data {
		cities = append(cities, domain.City{ID: c.ID, Name: c.Name, District: district})
	}
	a.mu.Lock()
	a.cities[district] = cities
	a.mu.Unlock()

	if a.cache != nil {
		a.cache.SetCities(ctx, domain.TransExpress, district, cities)
	}
	return cities, nil
}
