package royalexpress

import (
	"context"
	"errors"
	"strings"

	"github.com/lankaship/courier-gateway/internal/core/domain"
	"github.com/lankaship/courier-gateway/internal/courier/courierhttp"
)

// ParseCredentials splits the tenant-stored "email:password" pair.
func ParseCredentials(combined string) (email, password string, err error) {
	email, password, ok := strings.Cut(combined, ":")
	if !ok || email == "" || password == "" {
		return "", "", errors.New("royal express credentials must be email:password")
	}
	return email, password, nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	Data  struct {
		Token string `json:"token"`
	} `json:"data"`
}

// token returns the cached bearer token, logging in first when the adapter is
// unauthenticated. The token is cached for the lifetime of the adapter
// instance. There is no retry-after-reauth within a single call: a request
// failing with an auth error clears the cache so the NEXT call re-logs-in,
// which avoids login loops on permanently bad credentials.
func (a *Adapter) token(ctx context.Context) (string, error) {
	a.mu.Lock()
	cached := a.bearerToken
	a.mu.Unlock()
	if cached != "" {
		return cached, nil
	}

	var resp loginResponse
	err := a.client.PostJSON(ctx, "/api/v1/merchant/login", a.tenantHeader(), loginRequest{
		Email:    a.email,
		Password: a.password,
	}, &resp)
	if err != nil {
		var se *courierhttp.StatusError
		if errors.As(err, &se) && (se.Code == 401 || se.Code == 422) {
			return "", domain.NewCourierError(providerName, domain.KindAuth, domain.ErrCredentialsInvalid,
				"merchant login rejected; update the stored Royal Express email/password")
		}
		return "", domain.NewCourierError(providerName, domain.KindTransport, domain.ErrCourierUnavailable,
			"merchant login unreachable: %v", err)
	}

	token := resp.Token
	if token == "" {
		token = resp.Data.Token
	}
	if token == "" {
		return "", domain.NewCourierError(providerName, domain.KindAuth, domain.ErrCredentialsInvalid,
			"merchant login returned no token")
	}

	a.mu.Lock()
	a.bearerToken = token
	a.mu.Unlock()
	a.log.Debug().Str("provider", providerName).Msg("merchant session established")
	return token, nil
}

// invalidateToken transitions the adapter back to UNAUTHENTICATED after an
// auth-class failure is observed on any request.
func (a *Adapter) invalidateToken() {
	a.mu.Lock()
	a.bearerToken = ""
	a.mu.Unlock()
}

// isAuthFailure reports whether an upstream error is authentication-class.
func isAuthFailure(err error) bool {
	var se *courierhttp.StatusError
	if errors.As(err, &se) {
		return se.Code == 401 || strings.Contains(strings.ToLower(se.Body), "unauthenticated")
	}
	return false
}

func (a *Adapter) tenantHeader() map[string]string {
	return map[string]string{"X-Tenant": a.tenant}
}

func (a *Adapter) authHeaders(token string) map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + token,
		"X-Tenant":      a.tenant,
	}
}
