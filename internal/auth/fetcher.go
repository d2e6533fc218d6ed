package auth

import "github.com/imobiliaria/imoveis-api/internal/middleware"

var (
	_ middleware.SessionFetcher = (*TokenStore)(nil)
	_ middleware.UserFinder     = (*UserStore)(nil)
)
