package http

import (
	"strings"

	"github.com/gin-gonic/gin"

	"careerbot/internal/service"
)

const authClaimsKey = "auth_claims"

// bearerClaims extrae y valida el access token del header Authorization si está
// presente. Las rutas de este servicio aceptan requests anónimos, así que la
// ausencia o invalidez del token no corta el request: solo deja al caller sin
// identidad verificada.
func bearerClaims(c *gin.Context, jwtSvc *service.JWTService) (service.Claims, bool) {
	if jwtSvc == nil {
		return service.Claims{}, false
	}
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return service.Claims{}, false
	}
	token := strings.TrimSpace(header[len("Bearer "):])
	claims, err := jwtSvc.ParseAccessToken(token)
	if err != nil {
		return service.Claims{}, false
	}
	c.Set(authClaimsKey, claims)
	return claims, true
}
