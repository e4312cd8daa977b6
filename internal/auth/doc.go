// Package auth provides bearer-token authentication for the catalog API.
//
// # Overview
//
// Tokens are HS256-signed JWTs whose "sub" claim names the caller. The
// development backend (fake-catalog) verifies them with HTTPAuthMiddleware when
// a jwt_secret is configured; catalog-admin mints them with Generate.
//
// Clients never verify tokens. They find one with LoadToken (CATALOG_TOKEN,
// then the token file in the catalog config directory) and may decode its
// claims with Inspect to show who they are and when the token expires.
//
// # Usage
//
//	verifier, err := auth.NewJWTVerifier([]byte(cfg.Auth.JWTSecret))
//	if err != nil {
//	    return err
//	}
//	handler = auth.HTTPAuthMiddleware(verifier)(handler)
//
//	token, _ := verifier.Generate("admin", 24*time.Hour)
//	_ = auth.SaveToken(config.Dir(), token)
package auth
