package fardaexpress

import (
	"context"

	"github.com/lankaship/courier-gateway/internal/core/domain"
)

// fallbackDistricts keeps shipment forms usable when the courier's
// reference-data endpoint is down.
var fallbackDistricts = []string{"Colombo", "Gampaha", "Kandy"}

// fallbackCity is a known-good Farda city ID so a shipment can still be
// attempted when the city lookup fails or finds no match.
var fallbackCity = domain.City{ID: 864, Name: "Colombo 01", District: "Colombo"}

type districtListResponse struct {
	Data []struct {
		DistrictName string `json:"district_name"`
	} `json:"data"`
}

type cityListRequest struct {
	APIKey   string `json:"api_key"`
	ClientID string `json:"client_id"`
	District string `json:"district"`
}

type cityListResponse struct {
	Data []struct {
		CityID   int    `json:"city_id"`
		CityName string `json:"city_name"`
	} `json:"data"`
}

// Districts enumerates Farda's district list, caching the result for the
// lifetime of the adapter instance. Fetch failures degrade to the hardcoded
// fallback list.
func (a *Adapter) Districts(ctx context.Context) ([]string, error) {
	a.mu.Lock()
	cached := a.districts
	a.mu.Unlock()
	if cached != nil {
		return cached, nil
	}

	if a.cache != nil {
		if districts, ok := a.cache.Districts(ctx, domain.FardaExpress); ok {
			a.store(districts)
			return districts, nil
		}
	}

	var resp districtListResponse
	err := a.client.PostJSON(ctx, "/api/v1/district/list",
		nil, cityListRequest{APIKey: a.apiKey, ClientID: a.clientID}, &resp)
	if err != nil || len(resp.Data) == 0 {
		a.log.Warn().Err(err).Str("provider", providerName).Msg("district fetch failed, using fallback list")
		return fallbackDistricts, nil
	}

	districts := make([]string, 0, len(resp.Data))
	for _, d := range resp.Data {
		districts = append(districts, d.DistrictName)
	}
	a.store(districts)
	if a.cache != nil {
		a.cache.SetDistricts(ctx, domain.FardaExpress, districts)
	}
	return districts, nil
}

// Cities lists Farda's cities for a district with their numeric IDs. Empty or
// failed lookups fall back to the single default city.
func (a *Adapter) Cities(ctx context.Context, district string) ([]domain.City, error) {
	a.mu.Lock()
	cached, ok := a.cities[district]
	a.mu.Unlock()
	if ok {
		return cached, nil
	}

	if a.cache != nil {
		if cities, hit := a.cache.Cities(ctx, domain.FardaExpress, district); hit {
			a.storeCities(district, cities)
			return cities, nil
		}
	}

	var resp cityListResponse
	err := a.client.PostJSON(ctx, "/api/v1/city/list",
		nil, cityListRequest{APIKey: a.apiKey, ClientID: a.clientID, District: district}, &resp)
	if err != nil || len(resp.Data) == 0 {
		a.log.Warn().Err(err).Str("provider", providerName).
			Str("district", district).Msg("city fetch failed, using fallback city")
		return []domain.City{fallbackCity}, nil
	}

	cities := make([]domain.City, 0, len(resp.Data))
	for _, c := range resp.Data {
		cities = append(cities, domain.City{ID: c.CityID, Name: c.CityName, District: district})
	}
	a.storeCities(district, cities)
	if a.cache != nil {
		a.cache.SetCities(ctx, domain.FardaExpress, district, cities)
	}
	return cities, nil
}

func (a *Adapter) store(districts []string) {
	a.mu.Lock()
	a.districts = districts
	a.mu.Unlock()
}

func (a *Adapter) storeCities(district string, cities []domain.City) {
	a.mu.Lock()
	a.cities[district] = cities
	a.mu.Unlock()
}
