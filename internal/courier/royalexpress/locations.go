package royalexpress

import (
	"context"
	"net/url"
	"strings"

	"github.com/lankaship/courier-gateway/internal/core/domain"
)

var fallbackStates = []string{"Colombo", "Gampaha", "Kandy"}

// fallbackCity is a known-good Royal Express city ID used when the lookup
// fails or finds no match.
var fallbackCity = domain.City{ID: 219, Name: "Colombo 01", District: "Colombo"}

// stateAliases rewrites human-entered state names the upstream is known to
// reject into the canonical accepted name. Normalization is idempotent:
// canonical names pass through unchanged.
var stateAliases = map[string]string{
	"colombo suburbs": "Colombo",
	"western":         "Colombo",
	"greater colombo": "Colombo",
	"kandy city":      "Kandy",
}

// NormalizeState rewrites known state-name aliases to Royal's canonical
// accepted names. Unknown names are returned trimmed but otherwise unchanged.
func NormalizeState(state string) string {
	trimmed := strings.TrimSpace(state)
	if canonical, ok := stateAliases[strings.ToLower(trimmed)]; ok {
		return canonical
	}
	return trimmed
}

type statesResponse struct {
	Data []struct {
		Name string `json:"name"`
	} `json:"data"`
}

type citiesResponse struct {
	Data []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"data"`
}

// Districts enumerates Royal's states. The uniform directory interface calls
// regions districts; Royal models them as states. Fetch failures degrade to
// the fallback list.
func (a *Adapter) Districts(ctx context.Context) ([]string, error) {
	a.mu.Lock()
	cached := a.states
	a.mu.Unlock()
	if cached != nil {
		return cached, nil
	}

	if a.cache != nil {
		if states, ok := a.cache.Districts(ctx, domain.RoyalExpress); ok {
			a.mu.Lock()
			a.states = states
			a.mu.Unlock()
			return states, nil
		}
	}

	token, err := a.token(ctx)
	if err != nil {
		a.log.Warn().Err(err).Str("provider", providerName).Msg("state fetch failed, using fallback list")
		return fallbackStates, nil
	}

	var resp statesResponse
	err = a.client.GetJSON(ctx, "/api/v1/states", a.authHeaders(token), nil, &resp)
	if err != nil || len(resp.Data) == 0 {
		if isAuthFailure(err) {
			a.invalidateToken()
		}
		a.log.Warn().Err(err).Str("provider", providerName).Msg("state fetch failed, using fallback list")
		return fallbackStates, nil
	}

	states := make([]string, 0, len(resp.Data))
	for _, s := range resp.Data {
		states = append(states, s.Name)
	}
	a.mu.Lock()
	a.states = states
	a.mu.Unlock()

	if a.cache != nil {
		a.cache.SetDistricts(ctx, domain.RoyalExpress, states)
	}
	return states, nil
}

// Cities lists a state's cities with their Royal Express IDs. The state name
// is normalized through the alias table first. Empty or failed lookups fall
// back to the single default city.
func (a *Adapter) Cities(ctx context.Context, state string) ([]domain.City, error) {
	state = NormalizeState(state)

	a.mu.Lock()
	cached, ok := a.cities[state]
	a.mu.Unlock()
	if ok {
		return cached, nil
	}

	if a.cache != nil {
		if cities, hit := a.cache.Cities(ctx, domain.RoyalExpress, state); hit {
			a.mu.Lock()
			a.cities[state] = cities
			a.mu.Unlock()
			return cities, nil
		}
	}

	token, err := a.token(ctx)
	if err != nil {
		a.log.Warn().Err(err).Str("provider", providerName).
			Str("state", state).Msg("city fetch failed, using fallback city")
		return []domain.City{fallbackCity}, nil
	}

	query := url.Values{"state": {state}}
	var resp citiesResponse
	err = a.client.GetJSON(ctx, "/api/v1/cities", a.authHeaders(token), query, &resp)
	if err != nil || len(resp.Data) == 0 {
		if isAuthFailure(err) {
			a.invalidateToken()
		}
		a.log.Warn().Err(err).Str("provider", providerName).
			Str("state", state).Msg("city fetch failed, using fallback city")
		return []domain.City{fallbackCity}, nil
	}

	cities := make([]domain.City, 0, len(resp.Data))
	for _, c := range resp.Data {
		cities = append(cities, domain.City{ID: c.ID, Name: c.Name, District: state})
	}
	a.mu.Lock()
	a.cities[state] = cities
	a.mu.Unlock()

	if a.cache != nil {
		a.cache.SetCities(ctx, domain.RoyalExpress, state, cities)
	}
	return cities, nil
}
