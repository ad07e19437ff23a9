package inits

import (
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
)

// EnsureValidToken validates the bearer token against the Auth0 tenant and
// stores the validated claims on the request context. Identity is issued
// elsewhere; this service only consumes the subject claim.
func EnsureValidToken() func(next http.Handler) http.Handler {
	issuerURL, err := url.Parse("https://" + os.Getenv("AUTH0_DOMAIN") + "/")
	if err != nil {
		log.Fatalf("Failed to parse the issuer url: %v", err)
	}

	provider := jwks.NewCachingProvider(issuerURL, 5*time.Minute)

	jwtValidator, err := validator.New(
		provider.KeyFunc,
		validator.RS256,
		issuerURL.String(),
		[]string{os.Getenv("AUTH0_AUDIENCE")},
	)
	if err != nil {
		log.Fatalf("Failed to set up the jwt validator: %v", err)
	}

	middleware := jwtmiddleware.New(jwtValidator.ValidateToken)

	return func(next http.Handler) http.Handler {
		return middleware.CheckJWT(next)
	}
}
